package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetIngredients   = "success get ingredients"
	MessageSuccessCreateIngredient = "ingredient created successfully"
	MessageExistingIngredient      = "ingredient already exists"
	MessageSuccessGetUnits         = "success get units"
	MessageSuccessCreateUnit       = "unit created successfully"
	MessageExistingUnit            = "unit already exists"
	MessageSuccessGetAppliances    = "success get appliances"
	MessageSuccessCreateAppliance  = "appliance created successfully"
	MessageExistingAppliance       = "appliance already exists"
	MessageSuccessGetManufacturers = "success get manufacturers"
	MessageSuccessCreateMfr        = "manufacturer created successfully"
	MessageExistingManufacturer    = "manufacturer already exists"
	MessageSuccessGetApplianceType = "success get appliance types"
	MessageSuccessCreateApplType   = "appliance type created successfully"
	MessageExistingApplianceType   = "appliance type already exists"

	MessageFailedGetIngredients    = "failed to get ingredients"
	MessageFailedCreateIngredient  = "failed to create ingredient"
	MessageFailedGetUnits          = "failed to get units"
	MessageFailedCreateUnit        = "failed to create unit"
	MessageFailedGetAppliances     = "failed to get appliances"
	MessageFailedCreateAppliance   = "failed to create appliance"
	MessageFailedGetManufacturers  = "failed to get manufacturers"
	MessageFailedCreateMfr         = "failed to create manufacturer"
	MessageFailedGetApplianceTypes = "failed to get appliance types"
	MessageFailedCreateApplType    = "failed to create appliance type"

	ErrManufacturerNotFound  = errors.New("manufacturer does not exist")
	ErrApplianceTypeNotFound = errors.New("appliance type does not exist")
)

type (
	CreateIngredientRequest struct {
		Name  string  `json:"name" validate:"required,max=255"`
		Image *string `json:"image" validate:"omitempty,url"`
	}

	CreateUnitRequest struct {
		Name         string `json:"name" validate:"required,max=255"`
		Abbreviation string `json:"abbreviation" validate:"required,max=255"`
	}

	CreateManufacturerRequest struct {
		Name string `json:"name" validate:"required,max=255"`
	}

	CreateApplianceTypeRequest struct {
		Name string `json:"name" validate:"required,max=255"`
	}

	CreateApplianceRequest struct {
		Model           string    `json:"model" validate:"required,max=255"`
		ManufacturerUID uuid.UUID `json:"manufacturer_uid" validate:"required"`
		TypeUID         uuid.UUID `json:"type_uid" validate:"required"`
	}

	ApplianceFilter struct {
		ManufacturerUID *uuid.UUID
		TypeUID         *uuid.UUID
	}

	IngredientResponse struct {
		UID   string  `json:"uid"`
		Name  string  `json:"name"`
		Image *string `json:"image,omitempty"`
	}

	UnitResponse struct {
		UID          string `json:"uid"`
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
	}

	ManufacturerResponse struct {
		UID  string `json:"uid"`
		Name string `json:"name"`
	}

	ApplianceTypeResponse struct {
		UID  string `json:"uid"`
		Name string `json:"name"`
	}

	ApplianceResponse struct {
		UID          string                `json:"uid"`
		Model        string                `json:"model"`
		Manufacturer ManufacturerResponse  `json:"manufacturer"`
		Type         ApplianceTypeResponse `json:"type"`
	}
)
