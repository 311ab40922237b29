package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	RoleUser = "user"
)

var (
	MessageUserNotAllowed       = "user not allowed"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrUserNotAllowed   = errors.New("user not allowed")
	ErrUnauthenticated  = errors.New("authentication credentials were not provided")
	ErrTokenNotFound    = errors.New("token not found")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenWrongType   = errors.New("token has wrong type")
	ErrFileTypeNotAllow = errors.New("file type not allowed")
)

// Caller is the identity a request acts as. The zero value is anonymous.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

func Anonymous() Caller {
	return Caller{}
}

func NewCaller(userID uuid.UUID, role string) Caller {
	return Caller{UserID: userID, Role: role}
}

func (c Caller) IsAuthenticated() bool {
	return c.UserID != uuid.Nil
}

// ValidationError collects every violated field of a request, keyed by
// the JSON field name.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func FieldError(field, message string) *ValidationError {
	v := NewValidationError()
	v.Add(field, message)
	return v
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when nothing was collected so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}
