package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	MessageSuccessGetUser    = "success get user"
	MessageSuccessUpdateUser = "user updated successfully"
	MessageSuccessLogin      = "login success"
	MessageSuccessRefresh    = "token refreshed successfully"

	MessageFailedGetUser    = "failed to get user"
	MessageFailedUpdateUser = "failed to update user"
	MessageFailedLogin      = "Invalid code or authentication error."
	MessageFailedRefresh    = "failed to refresh token"

	MessageHandlerTaken   = "user with this handler already exists."
	MessageHandlerCharset = "Only letters, digits, '.', '_' and '-' are allowed."

	ErrUserNotFound         = errors.New("user not found")
	ErrSocialAuthFailed     = errors.New("social authentication failed")
	ErrSocialBackendUnknown = errors.New("unknown social login backend")
)

const (
	handlerMinLength = 2
	handlerMaxLength = 64
)

var handlerPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// CheckHandler returns why handler cannot be used, or "" when it can.
func CheckHandler(handler string) string {
	switch {
	case len(handler) < handlerMinLength:
		return fmt.Sprintf("Must be at least %d.", handlerMinLength)
	case len(handler) > handlerMaxLength:
		return fmt.Sprintf("Must be at most %d.", handlerMaxLength)
	case !handlerPattern.MatchString(handler):
		return MessageHandlerCharset
	}
	return ""
}

type (
	UpdateUserRequest struct {
		Handler  *string `json:"handler"`
		Username *string `json:"username" validate:"omitempty,max=150"`
		Avatar   *string `json:"avatar" validate:"omitempty,url"`
	}

	SocialLoginRequest struct {
		Code        string `json:"code" validate:"required"`
		RedirectURI string `json:"redirect_uri" validate:"required,url"`
	}

	RefreshTokenRequest struct {
		Refresh string `json:"refresh" validate:"required"`
	}

	// ExternalUser is the verified identity returned by a social provider.
	ExternalUser struct {
		Provider  string
		UserID    string
		Email     string
		Name      string
		NickName  string
		AvatarURL string
	}

	UserResponse struct {
		UID      string  `json:"uid"`
		Email    string  `json:"email"`
		Username string  `json:"username"`
		Handler  *string `json:"handler"`
		Avatar   *string `json:"avatar"`
	}

	TokenPair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}

	AuthResponse struct {
		User UserResponse `json:"user"`
		TokenPair
	}
)
