package middleware

import (
	"strconv"
	"strings"
	"time"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/internal/api/presenters"
	"Kitchen-Backend/internal/metrics"
	"Kitchen-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const callerKey = "caller"

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		MetricsMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

func (m *middleware) MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		err := c.Next()

		// route template, not the raw path, to keep label cardinality bounded
		path := c.Route().Path
		method := c.Method()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		caller, err := jwtService.GetCallerByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		setCaller(c, caller)
		return c.Next()
	}
}

// OptionalAuthMiddleware treats a missing or unusable token as an
// anonymous request instead of rejecting it.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := domain.Anonymous()
		if token, ok := bearerToken(c); ok {
			if resolved, err := jwtService.GetCallerByToken(token); err == nil {
				caller = resolved
			}
		}
		setCaller(c, caller)
		return c.Next()
	}
}

func CallerFrom(c *fiber.Ctx) domain.Caller {
	if caller, ok := c.Locals(callerKey).(domain.Caller); ok {
		return caller
	}
	return domain.Anonymous()
}

func setCaller(c *fiber.Ctx, caller domain.Caller) {
	c.Locals(callerKey, caller)
	if caller.IsAuthenticated() {
		c.Locals("user_id", caller.UserID.String())
		c.Locals("role", caller.Role)
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
