package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"Kitchen-Backend/internal/api/handlers"
	"Kitchen-Backend/internal/api/presenters"
	"Kitchen-Backend/internal/api/routes"
	"Kitchen-Backend/internal/middleware"
	"Kitchen-Backend/internal/utils"
	"Kitchen-Backend/internal/utils/mailing"
	"Kitchen-Backend/internal/utils/storage"
	"Kitchen-Backend/pkg/jwt"
	"Kitchen-Backend/pkg/recipe"
	"Kitchen-Backend/pkg/reference"
	"Kitchen-Backend/pkg/social"
	"Kitchen-Backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Dependencies are the outside services the app talks to.
type Dependencies struct {
	Storage   storage.AwsS3
	Exchanger social.Exchanger
	Mailer    mailing.Mailer
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	cfg := utils.AppConfig()

	s3, err := storage.NewAwsS3(cfg)
	if err != nil {
		return nil, err
	}

	return NewAppWith(db, cfg, Dependencies{
		Storage:   s3,
		Exchanger: social.NewExchanger(cfg),
		Mailer:    mailing.NewMailer(mailing.LoadMailConfig()),
	})
}

func NewAppWith(db *gorm.DB, cfg utils.Config, deps Dependencies) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return presenters.ErrorResponse(c, code, err.Error(), err)
		},
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	output, err := logOutput(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     output,
	}))

	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: 1 * time.Second,
		}))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	referenceRepository := reference.NewReferenceRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	if backends := deps.Exchanger.Backends(); len(backends) > 0 {
		log.Infow("social login enabled", "backends", backends)
	} else {
		log.Warn("no social login backend configured, every login will fail")
	}
	jwtService := jwt.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLMinutes)*time.Minute,
	)
	userService := user.NewUserService(userRepository, jwtService, deps.Exchanger, deps.Mailer)
	referenceService := reference.NewReferenceService(referenceRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, deps.Storage)

	// Handler
	authHandler := handlers.NewAuthHandler(userService, validator)
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	draftHandler := handlers.NewDraftHandler(recipeService, validator)
	referenceHandler := handlers.NewReferenceHandler(referenceService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		RecipeHandler:    recipeHandler,
		DraftHandler:     draftHandler,
		ReferenceHandler: referenceHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

func logOutput(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
}
