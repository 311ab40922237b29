package jwt

import (
	"errors"
	"fmt"
	"time"

	"Kitchen-Backend/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type (
	JWTService interface {
		GenerateTokenPair(userID string, role string) (domain.TokenPair, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetCallerByToken(token string) (domain.Caller, error)
		Refresh(refreshToken string) (domain.TokenPair, error)
	}

	jwtUserClaim struct {
		UserID    string `json:"user_id"`
		Role      string `json:"role"`
		TokenType string `json:"token_type"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey  string
		issuer     string
		accessTTL  time.Duration
		refreshTTL time.Duration
	}
)

func NewJWTService(secretKey string, accessTTL, refreshTTL time.Duration) JWTService {
	return &jwtService{
		secretKey:  secretKey,
		issuer:     "KITCHEN",
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (j *jwtService) generateToken(userID, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtUserClaim{
		userID,
		role,
		tokenType,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) GenerateTokenPair(userID string, role string) (domain.TokenPair, error) {
	access, err := j.generateToken(userID, role, TokenTypeAccess, j.accessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := j.generateToken(userID, role, TokenTypeRefresh, j.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) claims(token, tokenType string) (*jwtUserClaim, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || claims.Issuer != j.issuer {
		return nil, domain.ErrTokenInvalid
	}
	if claims.TokenType != tokenType {
		return nil, domain.ErrTokenWrongType
	}
	return claims, nil
}

func (j *jwtService) GetCallerByToken(token string) (domain.Caller, error) {
	claims, err := j.claims(token, TokenTypeAccess)
	if err != nil {
		return domain.Anonymous(), err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.Anonymous(), domain.ErrTokenInvalid
	}
	return domain.NewCaller(userID, claims.Role), nil
}

func (j *jwtService) Refresh(refreshToken string) (domain.TokenPair, error) {
	claims, err := j.claims(refreshToken, TokenTypeRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return j.GenerateTokenPair(claims.UserID, claims.Role)
}
