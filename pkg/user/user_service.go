package user

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"
	"Kitchen-Backend/internal/utils/mailing"
	"Kitchen-Backend/pkg/jwt"
	"Kitchen-Backend/pkg/social"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const welcomeSubject = "Welcome to Kitchen"

type (
	UserService interface {
		SocialLogin(ctx context.Context, backend string, req domain.SocialLoginRequest) (domain.AuthResponse, error)
		RefreshToken(ctx context.Context, req domain.RefreshTokenRequest) (domain.TokenPair, error)
		Me(ctx context.Context, caller domain.Caller) (domain.UserResponse, error)
		GetUser(ctx context.Context, id string) (domain.UserResponse, error)
		UpdateUser(ctx context.Context, caller domain.Caller, id string, req domain.UpdateUserRequest) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		exchanger      social.Exchanger
		mailer         mailing.Mailer
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	exchanger social.Exchanger,
	mailer mailing.Mailer,
) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		exchanger:      exchanger,
		mailer:         mailer,
	}
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		UID:      user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		Handler:  user.Handler,
		Avatar:   user.Avatar,
	}
}

func (s *userService) SocialLogin(ctx context.Context, backend string, req domain.SocialLoginRequest) (domain.AuthResponse, error) {
	external, err := s.exchanger.Exchange(ctx, backend, req.Code, req.RedirectURI)
	if err != nil {
		log.Infow("social login rejected", "backend", backend, "error", err)
		return domain.AuthResponse{}, err
	}

	user, created, err := s.findOrCreate(ctx, external)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	if created {
		s.sendWelcome(user)
	}

	tokens, err := s.jwtService.GenerateTokenPair(user.ID.String(), domain.RoleUser)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	return domain.AuthResponse{User: toUserResponse(user), TokenPair: tokens}, nil
}

func (s *userService) findOrCreate(ctx context.Context, external domain.ExternalUser) (*entities.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(external.Email))
	existing, err := s.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	user := &entities.User{
		Email:    email,
		Username: usernameFor(external, email),
	}
	if external.AvatarURL != "" {
		avatar := external.AvatarURL
		user.Avatar = &avatar
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if winner, findErr := s.userRepository.GetUserByEmail(ctx, email); findErr == nil {
				return winner, false, nil
			}
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	log.Infow("user registered", "user_id", user.ID, "provider", external.Provider)
	return user, true, nil
}

func usernameFor(external domain.ExternalUser, email string) string {
	for _, candidate := range []string{external.NickName, external.Name} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (s *userService) sendWelcome(user *entities.User) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your Kitchen account is ready. Start a draft and share your first recipe.</p>",
		html.EscapeString(user.Username),
	)
	if err := s.mailer.SendMail(user.Email, welcomeSubject, body); err != nil {
		log.Errorw("failed to send welcome mail", "user_id", user.ID, "error", err)
	}
}

func (s *userService) RefreshToken(ctx context.Context, req domain.RefreshTokenRequest) (domain.TokenPair, error) {
	return s.jwtService.Refresh(req.Refresh)
}

func (s *userService) Me(ctx context.Context, caller domain.Caller) (domain.UserResponse, error) {
	if !caller.IsAuthenticated() {
		return domain.UserResponse{}, domain.ErrUnauthenticated
	}
	user, err := s.userRepository.GetUserByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) GetUser(ctx context.Context, id string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) getUser(ctx context.Context, id string) (*entities.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser lets callers edit their own profile. A handler can be set
// once; later values are ignored.
func (s *userService) UpdateUser(ctx context.Context, caller domain.Caller, id string, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	if !caller.IsAuthenticated() {
		return domain.UserResponse{}, domain.ErrUnauthenticated
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if user.ID != caller.UserID {
		return domain.UserResponse{}, domain.ErrUserNotAllowed
	}

	if req.Handler != nil && user.Handler == nil {
		handler := strings.TrimSpace(*req.Handler)
		if handler != "" {
			if problem := domain.CheckHandler(handler); problem != "" {
				return domain.UserResponse{}, domain.FieldError("handler", problem)
			}
			taken, err := s.userRepository.HandlerExists(ctx, handler, user.ID)
			if err != nil {
				return domain.UserResponse{}, err
			}
			if taken {
				return domain.UserResponse{}, domain.FieldError("handler", domain.MessageHandlerTaken)
			}
			user.Handler = &handler
		}
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.FieldError("handler", domain.MessageHandlerTaken)
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}
