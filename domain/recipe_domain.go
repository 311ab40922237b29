package domain

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
)

const (
	VisibilityPublic  = "PUBLIC"
	VisibilityFriends = "FRIENDS"
	VisibilityPrivate = "PRIVATE"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessUploadImage     = "recipe image uploaded successfully"
	MessageSuccessGetDrafts       = "success get drafts"
	MessageSuccessGetDraft        = "success get draft"
	MessageSuccessCreateDraft     = "draft created successfully"
	MessageExistingDraft          = "draft already exists"
	MessageSuccessUpdateDraft     = "draft updated successfully"
	MessageSuccessDeleteDraft     = "draft deleted successfully"
	MessageSuccessFinishDraft     = "draft published successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedUploadImage     = "failed to upload recipe image"
	MessageFailedGetDrafts       = "failed to get drafts"
	MessageFailedGetDraft        = "failed to get draft"
	MessageFailedCreateDraft     = "failed to create draft"
	MessageFailedUpdateDraft     = "failed to update draft"
	MessageFailedDeleteDraft     = "failed to delete draft"
	MessageFailedFinishDraft     = "failed to publish draft"

	MessageFieldRequired = "This field is required."

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrDraftNotFound            = errors.New("draft not found")
	ErrUnauthorizedRecipeAccess = errors.New("you do not have permission to perform this action")
)

type (
	InstructionRequest struct {
		Step        int    `json:"step" validate:"gte=0"`
		Description string `json:"description"`
		Timer       *int   `json:"timer" validate:"omitempty,gte=0"`
	}

	RecipeIngredientRequest struct {
		IngredientUID uuid.UUID  `json:"ingredient_uid" validate:"required"`
		UnitUID       *uuid.UUID `json:"unit_uid"`
		Quantity      *float64   `json:"quantity" validate:"omitempty,gte=0"`
		Notes         *string    `json:"notes"`
	}

	// RecipePatch is the partial update shared by drafts and published
	// recipes. Nil fields leave the stored value untouched; a non-nil
	// collection replaces the stored set wholesale.
	RecipePatch struct {
		Title         *string                   `json:"title" validate:"omitempty,max=255"`
		Description   *string                   `json:"description"`
		Image         *string                   `json:"image" validate:"omitempty,url"`
		Notes         *string                   `json:"notes"`
		Visibility    *string                   `json:"visibility" validate:"omitempty,oneof=PUBLIC FRIENDS PRIVATE"`
		Instructions  []InstructionRequest      `json:"instructions" validate:"omitempty,dive"`
		Ingredients   []RecipeIngredientRequest `json:"ingredients" validate:"omitempty,dive"`
		ApplianceUIDs []uuid.UUID               `json:"appliance_uids"`
	}

	UpdateDraftRequest struct {
		RecipePatch
	}

	UpdateRecipeRequest struct {
		RecipePatch
		Title string `json:"title" validate:"required,max=255"`
	}

	CreateRecipeRequest struct {
		Title         string                    `json:"title" validate:"required,max=255"`
		Description   string                    `json:"description" validate:"required"`
		Image         *string                   `json:"image" validate:"omitempty,url"`
		Notes         *string                   `json:"notes"`
		Visibility    string                    `json:"visibility" validate:"omitempty,oneof=PUBLIC FRIENDS PRIVATE"`
		Instructions  []InstructionRequest      `json:"instructions" validate:"required,min=1,dive"`
		Ingredients   []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		ApplianceUIDs []uuid.UUID               `json:"appliance_uids"`
	}

	UploadRecipeImageRequest struct {
		Image *multipart.FileHeader `form:"image" validate:"required"`
	}

	AuthorResponse struct {
		UID      string  `json:"uid"`
		Username string  `json:"username"`
		Handler  *string `json:"handler"`
	}

	InstructionResponse struct {
		UID         string `json:"uid"`
		Step        int    `json:"step"`
		Description string `json:"description"`
		Timer       *int   `json:"timer"`
	}

	RecipeIngredientResponse struct {
		UID        string             `json:"uid"`
		Ingredient IngredientResponse `json:"ingredient"`
		Unit       *UnitResponse      `json:"unit"`
		Quantity   *float64           `json:"quantity"`
		Notes      *string            `json:"notes"`
	}

	RecipeShortResponse struct {
		UID         string          `json:"uid"`
		Slug        *string         `json:"slug"`
		Title       *string         `json:"title"`
		Description *string         `json:"description"`
		Image       *string         `json:"image"`
		Visibility  string          `json:"visibility"`
		Author      *AuthorResponse `json:"author"`
		UpdatedAt   time.Time       `json:"updated_at"`
	}

	RecipeResponse struct {
		RecipeShortResponse
		Notes        *string                    `json:"notes"`
		IsDraft      bool                       `json:"is_draft"`
		CreatedAt    time.Time                  `json:"created_at"`
		Ingredients  []RecipeIngredientResponse `json:"ingredients"`
		Instructions []InstructionResponse      `json:"instructions"`
		Appliances   []ApplianceResponse        `json:"appliances"`
	}
)
