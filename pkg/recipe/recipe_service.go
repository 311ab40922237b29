package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"
	"Kitchen-Backend/internal/metrics"
	"Kitchen-Backend/internal/utils"
	"Kitchen-Backend/internal/utils/storage"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	imageFolder     = "recipes"
	maxSlugAttempts = 10
)

type (
	RecipeService interface {
		CreateDraft(ctx context.Context, caller domain.Caller) (domain.RecipeResponse, bool, error)
		ListDrafts(ctx context.Context, caller domain.Caller) ([]domain.RecipeShortResponse, error)
		GetDraft(ctx context.Context, caller domain.Caller, id string) (domain.RecipeResponse, error)
		UpdateDraft(ctx context.Context, caller domain.Caller, id string, req domain.UpdateDraftRequest) (domain.RecipeResponse, error)
		FinishDraft(ctx context.Context, caller domain.Caller, id string) (domain.RecipeResponse, error)
		DeleteDraft(ctx context.Context, caller domain.Caller, id string) error

		CreateRecipe(ctx context.Context, caller domain.Caller, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, caller domain.Caller, id string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error)
		CheckOwnership(ctx context.Context, caller domain.Caller, id string) error
		DeleteRecipe(ctx context.Context, caller domain.Caller, id string) error
		ListRecipes(ctx context.Context, caller domain.Caller, page, limit int) ([]domain.RecipeShortResponse, int64, error)
		GetRecipe(ctx context.Context, caller domain.Caller, key string) (domain.RecipeResponse, error)
		UploadImage(ctx context.Context, caller domain.Caller, id string, req domain.UploadRecipeImageRequest) (domain.RecipeResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		s3               storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		s3:               s3,
	}
}

func parseID(id string, notFound error) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound
	}
	return parsed, nil
}

func (s *recipeService) CreateDraft(ctx context.Context, caller domain.Caller) (domain.RecipeResponse, bool, error) {
	if !caller.IsAuthenticated() {
		return domain.RecipeResponse{}, false, domain.ErrUnauthenticated
	}

	existing, err := s.recipeRepository.GetFirstDraft(ctx, caller)
	if err == nil {
		return toRecipeResponse(existing), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecipeResponse{}, false, fmt.Errorf("find draft: %w", err)
	}

	draft := &entities.Recipe{
		AuthorID:   caller.UserID,
		Visibility: entities.VisibilityPrivate,
		IsDraft:    true,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, draft); err != nil {
		return domain.RecipeResponse{}, false, fmt.Errorf("create draft: %w", err)
	}

	res, err := s.reload(ctx, draft.ID)
	return res, true, err
}

func (s *recipeService) ListDrafts(ctx context.Context, caller domain.Caller) ([]domain.RecipeShortResponse, error) {
	drafts, err := s.recipeRepository.GetDrafts(ctx, caller)
	if err != nil {
		return nil, err
	}
	return toShortResponses(drafts), nil
}

func (s *recipeService) GetDraft(ctx context.Context, caller domain.Caller, id string) (domain.RecipeResponse, error) {
	// nobody but the author can tell a draft exists
	if !caller.IsAuthenticated() {
		return domain.RecipeResponse{}, domain.ErrDraftNotFound
	}
	draft, err := s.draftOf(ctx, caller, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(draft), nil
}

func (s *recipeService) UpdateDraft(ctx context.Context, caller domain.Caller, id string, req domain.UpdateDraftRequest) (domain.RecipeResponse, error) {
	draft, err := s.draftOf(ctx, caller, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		return s.applyPatch(ctx, repo, draft, req.RecipePatch)
	}); err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.reload(ctx, draft.ID)
}

func (s *recipeService) FinishDraft(ctx context.Context, caller domain.Caller, id string) (domain.RecipeResponse, error) {
	draft, err := s.draftOf(ctx, caller, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := completeness(draft.Description, len(draft.Instructions), len(draft.Ingredients)).OrNil(); err != nil {
		return domain.RecipeResponse{}, err
	}

	draft.IsDraft = false
	if err := s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := s.assignSlug(ctx, repo, draft); err != nil {
			return err
		}
		return repo.UpdateRecipe(ctx, draft)
	}); err != nil {
		return domain.RecipeResponse{}, fmt.Errorf("publish draft: %w", err)
	}

	metrics.RecipesPublished.Inc()
	log.Infow("draft published", "recipe_id", draft.ID, "author_id", caller.UserID)
	return s.reload(ctx, draft.ID)
}

func (s *recipeService) DeleteDraft(ctx context.Context, caller domain.Caller, id string) error {
	draft, err := s.draftOf(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, draft)
}

func (s *recipeService) CreateRecipe(ctx context.Context, caller domain.Caller, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	if !caller.IsAuthenticated() {
		return domain.RecipeResponse{}, domain.ErrUnauthenticated
	}

	verr := domain.NewValidationError()
	if strings.TrimSpace(req.Title) == "" {
		verr.Add("title", domain.MessageFieldRequired)
	}
	instructions := buildInstructions(uuid.Nil, req.Instructions)
	for field, messages := range completeness(&req.Description, len(instructions), len(req.Ingredients)).Fields {
		for _, message := range messages {
			verr.Add(field, message)
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.RecipeResponse{}, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	patch := domain.RecipePatch{
		Title:         &req.Title,
		Description:   &req.Description,
		Image:         req.Image,
		Notes:         req.Notes,
		Visibility:    &visibility,
		Instructions:  req.Instructions,
		Ingredients:   req.Ingredients,
		ApplianceUIDs: req.ApplianceUIDs,
	}

	recipe := &entities.Recipe{
		AuthorID:   caller.UserID,
		Visibility: entities.VisibilityPrivate,
		IsDraft:    false,
	}
	if err := s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := repo.CreateRecipe(ctx, recipe); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		return s.applyPatch(ctx, repo, recipe, patch)
	}); err != nil {
		return domain.RecipeResponse{}, err
	}

	metrics.RecipesPublished.Inc()
	return s.reload(ctx, recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, caller domain.Caller, id string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error) {
	recipe, err := s.ownedRecipe(ctx, caller, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	patch := req.RecipePatch
	patch.Title = &req.Title

	// a published recipe has to stay publishable
	description := recipe.Description
	if patch.Description != nil {
		description = patch.Description
	}
	instructionCount := len(recipe.Instructions)
	if len(patch.Instructions) > 0 {
		instructionCount = len(buildInstructions(recipe.ID, patch.Instructions))
	}
	ingredientCount := len(recipe.Ingredients)
	if len(patch.Ingredients) > 0 {
		ingredientCount = len(patch.Ingredients)
	}
	if err := completeness(description, instructionCount, ingredientCount).OrNil(); err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		return s.applyPatch(ctx, repo, recipe, patch)
	}); err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.reload(ctx, recipe.ID)
}

func (s *recipeService) CheckOwnership(ctx context.Context, caller domain.Caller, id string) error {
	_, err := s.ownedRecipe(ctx, caller, id)
	return err
}

func (s *recipeService) DeleteRecipe(ctx context.Context, caller domain.Caller, id string) error {
	recipe, err := s.ownedRecipe(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, recipe)
}

func (s *recipeService) ListRecipes(ctx context.Context, caller domain.Caller, page, limit int) ([]domain.RecipeShortResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, caller, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toShortResponses(recipes), count, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, caller domain.Caller, key string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetVisibleRecipe(ctx, caller, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(recipe), nil
}

func (s *recipeService) UploadImage(ctx context.Context, caller domain.Caller, id string, req domain.UploadRecipeImageRequest) (domain.RecipeResponse, error) {
	if !caller.IsAuthenticated() {
		return domain.RecipeResponse{}, domain.ErrUnauthenticated
	}
	recipeID, err := parseID(id, domain.ErrRecipeNotFound)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	if recipe.AuthorID != caller.UserID {
		// someone else's draft does not exist as far as the caller knows
		if recipe.IsDraft {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	objectKey, err := s.s3.UploadFile(ctx, recipe.ID.String(), req.Image, imageFolder, storage.AllowImage...)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	previous := s.ownedObjectKey(recipe)
	link := s.s3.GetPublicLinkKey(objectKey)
	recipe.Image = &link
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		s.removeObject(ctx, objectKey)
		return domain.RecipeResponse{}, fmt.Errorf("save recipe image: %w", err)
	}
	if previous != "" {
		s.removeObject(ctx, previous)
	}
	return s.reload(ctx, recipe.ID)
}

func (s *recipeService) draftOf(ctx context.Context, caller domain.Caller, id string) (*entities.Recipe, error) {
	if !caller.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	draftID, err := parseID(id, domain.ErrDraftNotFound)
	if err != nil {
		return nil, err
	}
	draft, err := s.recipeRepository.GetDraft(ctx, caller, draftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, err
	}
	return draft, nil
}

// ownedRecipe loads a published recipe and checks that caller wrote it.
func (s *recipeService) ownedRecipe(ctx context.Context, caller domain.Caller, id string) (*entities.Recipe, error) {
	if !caller.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	recipeID, err := parseID(id, domain.ErrRecipeNotFound)
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.IsDraft {
		return nil, domain.ErrRecipeNotFound
	}
	if recipe.AuthorID != caller.UserID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) delete(ctx context.Context, recipe *entities.Recipe) error {
	objectKey := s.ownedObjectKey(recipe)
	if err := s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		return repo.DeleteRecipe(ctx, recipe)
	}); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if objectKey != "" {
		s.removeObject(ctx, objectKey)
	}
	return nil
}

func (s *recipeService) ownedObjectKey(recipe *entities.Recipe) string {
	if s.s3 == nil || recipe.Image == nil {
		return ""
	}
	return s.s3.GetObjectKeyFromLink(*recipe.Image)
}

func (s *recipeService) removeObject(ctx context.Context, objectKey string) {
	if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
		log.Errorw("failed to remove recipe image", "object_key", objectKey, "error", err)
	}
}

func (s *recipeService) reload(ctx context.Context, id uuid.UUID) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, fmt.Errorf("reload recipe: %w", err)
	}
	return toRecipeResponse(recipe), nil
}

// applyPatch writes patch onto recipe. Must run inside a transaction.
func (s *recipeService) applyPatch(ctx context.Context, repo RecipeRepository, recipe *entities.Recipe, patch domain.RecipePatch) error {
	appliances, err := s.checkReferences(ctx, repo, patch)
	if err != nil {
		return err
	}

	if patch.Title != nil {
		recipe.Title = patch.Title
	}
	if patch.Description != nil {
		recipe.Description = patch.Description
	}
	if patch.Image != nil {
		recipe.Image = patch.Image
	}
	if patch.Notes != nil {
		recipe.Notes = patch.Notes
	}
	if patch.Visibility != nil {
		recipe.Visibility = entities.Visibility(*patch.Visibility)
	}
	if err := s.assignSlug(ctx, repo, recipe); err != nil {
		return err
	}
	if err := repo.UpdateRecipe(ctx, recipe); err != nil {
		return fmt.Errorf("save recipe: %w", err)
	}

	// an empty list leaves the stored set alone
	if len(patch.Instructions) > 0 {
		if err := repo.ReplaceInstructions(ctx, recipe.ID, buildInstructions(recipe.ID, patch.Instructions)); err != nil {
			return fmt.Errorf("replace instructions: %w", err)
		}
	}
	if len(patch.Ingredients) > 0 {
		if err := repo.ReplaceIngredients(ctx, recipe.ID, buildIngredients(recipe.ID, patch.Ingredients)); err != nil {
			return fmt.Errorf("replace ingredients: %w", err)
		}
	}
	if patch.ApplianceUIDs != nil {
		if err := repo.ReplaceAppliances(ctx, recipe, appliances); err != nil {
			return fmt.Errorf("replace appliances: %w", err)
		}
	}
	return nil
}

// checkReferences makes sure every id in patch points at a stored row and
// returns the appliances to attach.
func (s *recipeService) checkReferences(ctx context.Context, repo RecipeRepository, patch domain.RecipePatch) ([]*entities.Appliance, error) {
	verr := domain.NewValidationError()

	if len(patch.Ingredients) > 0 {
		ingredientIDs := make([]uuid.UUID, 0, len(patch.Ingredients))
		unitIDs := make([]uuid.UUID, 0, len(patch.Ingredients))
		for _, item := range patch.Ingredients {
			ingredientIDs = append(ingredientIDs, item.IngredientUID)
			if item.UnitUID != nil {
				unitIDs = append(unitIDs, *item.UnitUID)
			}
		}
		ingredients, err := repo.FindExistingIDs(ctx, &entities.Ingredient{}, ingredientIDs)
		if err != nil {
			return nil, err
		}
		units, err := repo.FindExistingIDs(ctx, &entities.Unit{}, unitIDs)
		if err != nil {
			return nil, err
		}
		for i, item := range patch.Ingredients {
			if _, ok := ingredients[item.IngredientUID]; !ok {
				verr.Add(fmt.Sprintf("ingredients[%d].ingredient_uid", i), invalidPK(item.IngredientUID))
			}
			if item.UnitUID != nil {
				if _, ok := units[*item.UnitUID]; !ok {
					verr.Add(fmt.Sprintf("ingredients[%d].unit_uid", i), invalidPK(*item.UnitUID))
				}
			}
		}
	}

	var appliances []*entities.Appliance
	if len(patch.ApplianceUIDs) > 0 {
		var err error
		appliances, err = repo.GetAppliancesByIDs(ctx, patch.ApplianceUIDs)
		if err != nil {
			return nil, err
		}
		found := make(map[uuid.UUID]struct{}, len(appliances))
		for _, appliance := range appliances {
			found[appliance.ID] = struct{}{}
		}
		for _, id := range patch.ApplianceUIDs {
			if _, ok := found[id]; !ok {
				verr.Add("appliance_uids", invalidPK(id))
			}
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return appliances, nil
}

// assignSlug gives recipe a slug the first time it has a title. An existing
// slug is never regenerated.
func (s *recipeService) assignSlug(ctx context.Context, repo RecipeRepository, recipe *entities.Recipe) error {
	if recipe.Slug != nil || recipe.Title == nil || strings.TrimSpace(*recipe.Title) == "" {
		return nil
	}

	base := utils.Slugify(*recipe.Title)
	slug := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		taken, err := repo.SlugExists(ctx, slug)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			recipe.Slug = &slug
			return nil
		}
		slug = base + "-" + utils.SlugToken()
	}
	return fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}

// completeness lists what a recipe still lacks before it can be published.
func completeness(description *string, instructions, ingredients int) *domain.ValidationError {
	verr := domain.NewValidationError()
	if instructions == 0 {
		verr.Add("instructions", domain.MessageFieldRequired)
	}
	if ingredients == 0 {
		verr.Add("ingredients", domain.MessageFieldRequired)
	}
	if description == nil || strings.TrimSpace(*description) == "" {
		verr.Add("description", domain.MessageFieldRequired)
	}
	return verr
}

func invalidPK(id uuid.UUID) string {
	return fmt.Sprintf("Invalid pk %q - object does not exist.", id.String())
}

// buildInstructions drops steps without a description.
func buildInstructions(recipeID uuid.UUID, items []domain.InstructionRequest) []*entities.Instruction {
	instructions := make([]*entities.Instruction, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		instructions = append(instructions, &entities.Instruction{
			RecipeID:    recipeID,
			Step:        item.Step,
			Description: item.Description,
			Timer:       item.Timer,
		})
	}
	return instructions
}

func buildIngredients(recipeID uuid.UUID, items []domain.RecipeIngredientRequest) []*entities.RecipeIngredient {
	ingredients := make([]*entities.RecipeIngredient, 0, len(items))
	for _, item := range items {
		ingredients = append(ingredients, &entities.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.IngredientUID,
			UnitID:       item.UnitUID,
			Quantity:     item.Quantity,
			Notes:        item.Notes,
		})
	}
	return ingredients
}
