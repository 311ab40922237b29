package routes

import (
	"Kitchen-Backend/internal/api/handlers"
	"Kitchen-Backend/internal/metrics"
	"Kitchen-Backend/internal/middleware"
	"Kitchen-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	AuthHandler      handlers.AuthHandler
	UserHandler      handlers.UserHandler
	RecipeHandler    handlers.RecipeHandler
	DraftHandler     handlers.DraftHandler
	ReferenceHandler handlers.ReferenceHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.MetricsMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	// drafts first so /recipes/drafts is not taken for a recipe key
	c.Drafts()
	c.Recipes()
	c.Reference()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", metrics.Handler())
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth")
	{
		auth.Post("/login/:backend", c.AuthHandler.SocialLogin)
		auth.Post("/token/refresh", c.AuthHandler.RefreshToken)
	}
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users", c.Middleware.AuthMiddleware(c.JWTService))
	{
		user.Get("/me", c.UserHandler.Me)
		user.Get("/:id", c.UserHandler.GetUser)
		user.Patch("/:id", c.UserHandler.UpdateUser)
	}
}

func (c *Config) Drafts() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	// per-route middleware: a group Use on this prefix would also catch
	// slugs that merely start with "drafts"
	drafts := c.App.Group("/api/v1/recipes/drafts")
	{
		drafts.Get("", auth, c.DraftHandler.GetDrafts)
		drafts.Post("", auth, c.DraftHandler.CreateDraft)
		drafts.Get("/:id", optional, c.DraftHandler.GetDraft)
		drafts.Patch("/:id", auth, c.DraftHandler.UpdateDraft)
		drafts.Delete("/:id", auth, c.DraftHandler.DeleteDraft)
		drafts.Post("/:id/finish", auth, c.DraftHandler.FinishDraft)
	}
}

func (c *Config) Recipes() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/v1/recipes")
	{
		recipes.Get("", optional, c.RecipeHandler.GetRecipes)
		recipes.Post("", auth, c.RecipeHandler.CreateRecipe)
		recipes.Get("/:key", optional, c.RecipeHandler.GetRecipeDetail)
		recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)
		recipes.Put("/:id/image", auth, c.RecipeHandler.UploadRecipeImage)
	}
}

func (c *Config) Reference() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	api := c.App.Group("/api/v1")
	{
		api.Get("/ingredients", optional, c.ReferenceHandler.GetIngredients)
		api.Post("/ingredients", auth, c.ReferenceHandler.CreateIngredient)
		api.Get("/units", optional, c.ReferenceHandler.GetUnits)
		api.Post("/units", auth, c.ReferenceHandler.CreateUnit)
		api.Get("/appliances/manufacturers", optional, c.ReferenceHandler.GetManufacturers)
		api.Post("/appliances/manufacturers", auth, c.ReferenceHandler.CreateManufacturer)
		api.Get("/appliances/types", optional, c.ReferenceHandler.GetApplianceTypes)
		api.Post("/appliances/types", auth, c.ReferenceHandler.CreateApplianceType)
		api.Get("/appliances", optional, c.ReferenceHandler.GetAppliances)
		api.Post("/appliances", auth, c.ReferenceHandler.CreateAppliance)
	}
}
