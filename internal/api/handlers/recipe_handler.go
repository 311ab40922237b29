package handlers

import (
	"strconv"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/internal/api/presenters"
	"Kitchen-Backend/internal/middleware"
	"Kitchen-Backend/internal/utils"
	"Kitchen-Backend/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const maxPageLimit = 100

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		UploadRecipeImage(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)

	// Parse pagination parameters
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	recipes, count, err := h.recipeService.ListRecipes(c.Context(), caller, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recipes": recipes,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)
	req := new(domain.CreateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, utils.ValidationErrors(err))
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), caller, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)

	res, err := h.recipeService.GetRecipe(c.Context(), caller, c.Params("key"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)
	req := new(domain.UpdateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// ownership first: a stranger gets 403 whatever the body holds
	if err := h.recipeService.CheckOwnership(c.Context(), caller, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateRecipe, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, utils.ValidationErrors(err))
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), caller, c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)

	if err := h.recipeService.DeleteRecipe(c.Context(), caller, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteRecipe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) UploadRecipeImage(c *fiber.Ctx) error {
	caller := middleware.CallerFrom(c)
	req := new(domain.UploadRecipeImageRequest)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.FieldError("image", domain.MessageFieldRequired))
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, utils.ValidationErrors(err))
	}

	res, err := h.recipeService.UploadImage(c.Context(), caller, c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadImage)
}
