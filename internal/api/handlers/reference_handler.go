package handlers

import (
	"Kitchen-Backend/domain"
	"Kitchen-Backend/internal/api/presenters"
	"Kitchen-Backend/internal/utils"
	"Kitchen-Backend/pkg/reference"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type (
	ReferenceHandler interface {
		GetIngredients(c *fiber.Ctx) error
		CreateIngredient(c *fiber.Ctx) error
		GetUnits(c *fiber.Ctx) error
		CreateUnit(c *fiber.Ctx) error
		GetManufacturers(c *fiber.Ctx) error
		CreateManufacturer(c *fiber.Ctx) error
		GetApplianceTypes(c *fiber.Ctx) error
		CreateApplianceType(c *fiber.Ctx) error
		GetAppliances(c *fiber.Ctx) error
		CreateAppliance(c *fiber.Ctx) error
	}

	referenceHandler struct {
		referenceService reference.ReferenceService
		validator        *validator.Validate
	}
)

func NewReferenceHandler(referenceService reference.ReferenceService, validator *validator.Validate) ReferenceHandler {
	return &referenceHandler{
		referenceService: referenceService,
		validator:        validator,
	}
}

// resolved answers 201 when the row was created and 200 when an existing
// one was returned.
func resolved(c *fiber.Ctx, data any, created bool, createdMessage, existingMessage string) error {
	if created {
		return presenters.SuccessResponse(c, data, fiber.StatusCreated, createdMessage)
	}
	return presenters.SuccessResponse(c, data, fiber.StatusOK, existingMessage)
}

func (h *referenceHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.referenceService.ListIngredients(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *referenceHandler) CreateIngredient(c *fiber.Ctx) error {
	req := new(domain.CreateIngredientRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateIngredient, utils.ValidationErrors(err))
	}

	res, created, err := h.referenceService.ResolveIngredient(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateIngredient, err)
	}
	return resolved(c, res, created, domain.MessageSuccessCreateIngredient, domain.MessageExistingIngredient)
}

func (h *referenceHandler) GetUnits(c *fiber.Ctx) error {
	res, err := h.referenceService.ListUnits(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetUnits, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUnits)
}

func (h *referenceHandler) CreateUnit(c *fiber.Ctx) error {
	req := new(domain.CreateUnitRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateUnit, utils.ValidationErrors(err))
	}

	res, created, err := h.referenceService.ResolveUnit(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateUnit, err)
	}
	return resolved(c, res, created, domain.MessageSuccessCreateUnit, domain.MessageExistingUnit)
}

func (h *referenceHandler) GetManufacturers(c *fiber.Ctx) error {
	res, err := h.referenceService.ListManufacturers(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetManufacturers, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetManufacturers)
}

func (h *referenceHandler) CreateManufacturer(c *fiber.Ctx) error {
	req := new(domain.CreateManufacturerRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateMfr, utils.ValidationErrors(err))
	}

	res, created, err := h.referenceService.ResolveManufacturer(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateMfr, err)
	}
	return resolved(c, res, created, domain.MessageSuccessCreateMfr, domain.MessageExistingManufacturer)
}

func (h *referenceHandler) GetApplianceTypes(c *fiber.Ctx) error {
	res, err := h.referenceService.ListApplianceTypes(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetApplianceTypes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetApplianceType)
}

func (h *referenceHandler) CreateApplianceType(c *fiber.Ctx) error {
	req := new(domain.CreateApplianceTypeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateApplType, utils.ValidationErrors(err))
	}

	res, created, err := h.referenceService.ResolveApplianceType(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateApplType, err)
	}
	return resolved(c, res, created, domain.MessageSuccessCreateApplType, domain.MessageExistingApplianceType)
}

func (h *referenceHandler) GetAppliances(c *fiber.Ctx) error {
	filter := domain.ApplianceFilter{}
	verr := domain.NewValidationError()
	for _, q := range []struct {
		key    string
		target **uuid.UUID
	}{
		{"manufacturer_uid", &filter.ManufacturerUID},
		{"type_uid", &filter.TypeUID},
	} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			verr.Add(q.key, "Must be a valid UUID.")
			continue
		}
		*q.target = &id
	}
	if err := verr.OrNil(); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAppliances, err)
	}

	res, err := h.referenceService.ListAppliances(c.Context(), filter)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetAppliances, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetAppliances)
}

func (h *referenceHandler) CreateAppliance(c *fiber.Ctx) error {
	req := new(domain.CreateApplianceRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateAppliance, utils.ValidationErrors(err))
	}

	res, created, err := h.referenceService.ResolveAppliance(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateAppliance, err)
	}
	return resolved(c, res, created, domain.MessageSuccessCreateAppliance, domain.MessageExistingAppliance)
}
