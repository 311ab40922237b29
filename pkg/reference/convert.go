package reference

import (
	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"
)

func IngredientToResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		UID:   ingredient.ID.String(),
		Name:  ingredient.Name,
		Image: ingredient.Image,
	}
}

func UnitToResponse(unit *entities.Unit) domain.UnitResponse {
	return domain.UnitResponse{
		UID:          unit.ID.String(),
		Name:         unit.Name,
		Abbreviation: unit.Abbreviation,
	}
}

func ManufacturerToResponse(manufacturer *entities.Manufacturer) domain.ManufacturerResponse {
	return domain.ManufacturerResponse{
		UID:  manufacturer.ID.String(),
		Name: manufacturer.Name,
	}
}

func ApplianceTypeToResponse(applianceType *entities.ApplianceType) domain.ApplianceTypeResponse {
	return domain.ApplianceTypeResponse{
		UID:  applianceType.ID.String(),
		Name: applianceType.Name,
	}
}

// ApplianceToResponse expects Manufacturer and Type to be preloaded.
func ApplianceToResponse(appliance *entities.Appliance) domain.ApplianceResponse {
	res := domain.ApplianceResponse{
		UID:   appliance.ID.String(),
		Model: appliance.Model,
	}
	if appliance.Manufacturer != nil {
		res.Manufacturer = ManufacturerToResponse(appliance.Manufacturer)
	}
	if appliance.Type != nil {
		res.Type = ApplianceTypeToResponse(appliance.Type)
	}
	return res
}
