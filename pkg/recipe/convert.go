package recipe

import (
	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"
	"Kitchen-Backend/pkg/reference"
)

func toAuthorResponse(user *entities.User) *domain.AuthorResponse {
	if user == nil {
		return nil
	}
	return &domain.AuthorResponse{
		UID:      user.ID.String(),
		Username: user.Username,
		Handler:  user.Handler,
	}
}

func toShortResponse(recipe *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		UID:         recipe.ID.String(),
		Slug:        recipe.Slug,
		Title:       recipe.Title,
		Description: recipe.Description,
		Image:       recipe.Image,
		Visibility:  string(recipe.Visibility),
		Author:      toAuthorResponse(recipe.Author),
		UpdatedAt:   recipe.UpdatedAt,
	}
}

func toShortResponses(recipes []*entities.Recipe) []domain.RecipeShortResponse {
	res := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, toShortResponse(recipe))
	}
	return res
}

func toRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	res := domain.RecipeResponse{
		RecipeShortResponse: toShortResponse(recipe),
		Notes:               recipe.Notes,
		IsDraft:             recipe.IsDraft,
		CreatedAt:           recipe.CreatedAt,
		Ingredients:         make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients)),
		Instructions:        make([]domain.InstructionResponse, 0, len(recipe.Instructions)),
		Appliances:          make([]domain.ApplianceResponse, 0, len(recipe.Appliances)),
	}

	for _, instruction := range recipe.Instructions {
		res.Instructions = append(res.Instructions, domain.InstructionResponse{
			UID:         instruction.ID.String(),
			Step:        instruction.Step,
			Description: instruction.Description,
			Timer:       instruction.Timer,
		})
	}

	for _, item := range recipe.Ingredients {
		ingredient := domain.RecipeIngredientResponse{
			UID:      item.ID.String(),
			Quantity: item.Quantity,
			Notes:    item.Notes,
		}
		if item.Ingredient != nil {
			ingredient.Ingredient = reference.IngredientToResponse(item.Ingredient)
		}
		if item.Unit != nil {
			unit := reference.UnitToResponse(item.Unit)
			ingredient.Unit = &unit
		}
		res.Ingredients = append(res.Ingredients, ingredient)
	}

	for _, appliance := range recipe.Appliances {
		res.Appliances = append(res.Appliances, reference.ApplianceToResponse(appliance))
	}
	return res
}
