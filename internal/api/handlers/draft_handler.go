package handlers

import (
	"Kitchen-Backend/domain"
	"Kitchen-Backend/internal/api/presenters"
	"Kitchen-Backend/internal/middleware"
	"Kitchen-Backend/internal/utils"
	"Kitchen-Backend/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DraftHandler interface {
		GetDrafts(c *fiber.Ctx) error
		CreateDraft(c *fiber.Ctx) error
		GetDraft(c *fiber.Ctx) error
		UpdateDraft(c *fiber.Ctx) error
		DeleteDraft(c *fiber.Ctx) error
		FinishDraft(c *fiber.Ctx) error
	}

	draftHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewDraftHandler(recipeService recipe.RecipeService, validator *validator.Validate) DraftHandler {
	return &draftHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *draftHandler) GetDrafts(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)

	res, err := h.recipeService.ListDrafts(c.Context(), caller)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDrafts, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDrafts)
}

// CreateDraft answers 201 for a new draft and 200 when the caller already
// had one.
func (h *draftHandler) CreateDraft(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)

	res, created, err := h.recipeService.CreateDraft(c.Context(), caller)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateDraft, err)
	}

	if !created {
		return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageExistingDraft)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateDraft)
}

func (h *draftHandler) GetDraft(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)

	res, err := h.recipeService.GetDraft(c.Context(), caller, c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDraft, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDraft)
}

func (h *draftHandler) UpdateDraft(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)
	req := new(domain.UpdateDraftRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDraft, utils.ValidationErrors(err))
	}

	res, err := h.recipeService.UpdateDraft(c.Context(), caller, c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateDraft, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateDraft)
}

func (h *draftHandler) DeleteDraft(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)

	if err := h.recipeService.DeleteDraft(c.Context(), caller, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteDraft, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *draftHandler) FinishDraft(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)

	res, err := h.recipeService.FinishDraft(c.Context(), caller, c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedFinishDraft, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessFinishDraft)
}
