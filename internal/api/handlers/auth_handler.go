package handlers

import (
	"Kitchen-Backend/domain"
	"Kitchen-Backend/internal/api/presenters"
	"Kitchen-Backend/internal/utils"
	"Kitchen-Backend/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AuthHandler interface {
		SocialLogin(c *fiber.Ctx) error
		RefreshToken(c *fiber.Ctx) error
	}

	authHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewAuthHandler(userService user.UserService, validator *validator.Validate) AuthHandler {
	return &authHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *authHandler) SocialLogin(c *fiber.Ctx) error {
	req := new(domain.SocialLoginRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, utils.ValidationErrors(err))
	}

	res, err := h.userService.SocialLogin(c.Context(), c.Params("backend"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedLogin, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *authHandler) RefreshToken(c *fiber.Ctx) error {
	req := new(domain.RefreshTokenRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRefresh, utils.ValidationErrors(err))
	}

	res, err := h.userService.RefreshToken(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRefresh, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRefresh)
}
