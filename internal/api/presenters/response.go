package presenters

import (
	"errors"

	"Kitchen-Backend/domain"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes the error envelope. Known domain errors override
// statusCode with their own status.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
		if status := StatusFromError(err); status != 0 {
			statusCode = status
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			res.Errors = verr.Fields
		}
	}
	return c.Status(statusCode).JSON(res)
}

// StatusFromError returns 0 for errors it does not recognise.
func StatusFromError(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenWrongType):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotAllowed),
		errors.Is(err, domain.ErrUnauthorizedRecipeAccess):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrDraftNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrSocialAuthFailed),
		errors.Is(err, domain.ErrSocialBackendUnknown),
		errors.Is(err, domain.ErrFileTypeNotAllow):
		return fiber.StatusBadRequest
	}
	return 0
}
