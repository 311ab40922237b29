package recipe

import (
	"context"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		// Transaction runs fn against a repository bound to a single
		// database transaction.
		Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error

		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, recipe *entities.Recipe) error

		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetVisibleRecipe(ctx context.Context, caller domain.Caller, key string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, caller domain.Caller, page, limit int) ([]*entities.Recipe, int64, error)
		GetDrafts(ctx context.Context, caller domain.Caller) ([]*entities.Recipe, error)
		GetDraft(ctx context.Context, caller domain.Caller, id uuid.UUID) (*entities.Recipe, error)
		GetFirstDraft(ctx context.Context, caller domain.Caller) (*entities.Recipe, error)
		SlugExists(ctx context.Context, slug string) (bool, error)

		ReplaceInstructions(ctx context.Context, recipeID uuid.UUID, instructions []*entities.Instruction) error
		ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, ingredients []*entities.RecipeIngredient) error
		ReplaceAppliances(ctx context.Context, recipe *entities.Recipe, appliances []*entities.Appliance) error

		FindExistingIDs(ctx context.Context, model any, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
		GetAppliancesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Appliance, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Instructions", func(db *gorm.DB) *gorm.DB {
			return db.Order("step asc, id asc")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Ingredients.Unit").
		Preload("Appliances.Manufacturer").
		Preload("Appliances.Type")
}

func (r *recipeRepository) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx})
	})
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(recipe).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, recipe *entities.Recipe) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipe.ID).Delete(&entities.Instruction{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := db.Model(recipe).Association("Appliances").Clear(); err != nil {
		return err
	}
	return db.Where("id = ?", recipe.ID).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Scopes(withDetails).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetVisibleRecipe(ctx context.Context, caller domain.Caller, key string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	query := r.db.WithContext(ctx).Scopes(withDetails, VisibleTo(caller))
	if id, err := uuid.Parse(key); err == nil {
		query = query.Where("recipes.id = ?", id)
	} else {
		query = query.Where("recipes.slug = ?", key)
	}
	if err := query.First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, caller domain.Caller, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(VisibleTo(caller)).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Author").
		Scopes(VisibleTo(caller)).
		Offset(offset).
		Limit(limit).
		Order("recipes.updated_at desc, recipes.id desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetDrafts(ctx context.Context, caller domain.Caller) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Scopes(DraftsOf(caller)).
		Order("recipes.updated_at desc, recipes.id desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetDraft(ctx context.Context, caller domain.Caller, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Scopes(withDetails, DraftsOf(caller)).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetFirstDraft(ctx context.Context, caller domain.Caller) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Scopes(withDetails, DraftsOf(caller)).
		Order("recipes.id asc").
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) ReplaceInstructions(ctx context.Context, recipeID uuid.UUID, instructions []*entities.Instruction) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&entities.Instruction{}).Error; err != nil {
		return err
	}
	if len(instructions) == 0 {
		return nil
	}
	return db.Create(&instructions).Error
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, ingredients []*entities.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(ingredients) == 0 {
		return nil
	}
	return db.Omit(clause.Associations).Create(&ingredients).Error
}

func (r *recipeRepository) ReplaceAppliances(ctx context.Context, recipe *entities.Recipe, appliances []*entities.Appliance) error {
	association := r.db.WithContext(ctx).Model(recipe).Association("Appliances")
	if len(appliances) == 0 {
		return association.Clear()
	}
	return association.Replace(appliances)
}

// FindExistingIDs reports which of ids are present in model's table.
func (r *recipeRepository) FindExistingIDs(ctx context.Context, model any, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var existing []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	for _, id := range existing {
		found[id] = struct{}{}
	}
	return found, nil
}

func (r *recipeRepository) GetAppliancesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Appliance, error) {
	var appliances []*entities.Appliance
	if len(ids) == 0 {
		return appliances, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&appliances).Error; err != nil {
		return nil, err
	}
	return appliances, nil
}
