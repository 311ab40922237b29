package recipe

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"
	"Kitchen-Backend/internal/testutil"
	"Kitchen-Backend/internal/utils/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPublicURL = "https://cdn.test"

type fakeS3 struct {
	uploaded []string
	deleted  []string
}

func (f *fakeS3) UploadFile(_ context.Context, fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	key := folder + "/" + fileName + "-" + uuid.NewString()[:8] + ".png"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return testPublicURL + "/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return storage.ObjectKeyFromLink(testPublicURL, link)
}

type fixture struct {
	db        *gorm.DB
	svc       RecipeService
	s3        *fakeS3
	author    domain.Caller
	other     domain.Caller
	sugar     uuid.UUID
	flour     uuid.UUID
	gram      uuid.UUID
	oven      uuid.UUID
	anonymous domain.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	s3 := &fakeS3{}

	author := testutil.CreateUser(t, db, "author@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")

	sugar := &entities.Ingredient{Name: "Sugar"}
	flour := &entities.Ingredient{Name: "Flour"}
	gram := &entities.Unit{Name: "gram", Abbreviation: "g"}
	manufacturer := &entities.Manufacturer{Name: "Bosch"}
	applianceType := &entities.ApplianceType{Name: "Oven"}
	for _, row := range []any{sugar, flour, gram, manufacturer, applianceType} {
		require.NoError(t, db.Create(row).Error)
	}
	oven := &entities.Appliance{Model: "Serie 8", ManufacturerID: manufacturer.ID, TypeID: applianceType.ID}
	require.NoError(t, db.Create(oven).Error)

	return &fixture{
		db:        db,
		svc:       NewRecipeService(NewRecipeRepository(db), s3),
		s3:        s3,
		author:    domain.NewCaller(author.ID, domain.RoleUser),
		other:     domain.NewCaller(other.ID, domain.RoleUser),
		sugar:     sugar.ID,
		flour:     flour.ID,
		gram:      gram.ID,
		oven:      oven.ID,
		anonymous: domain.Anonymous(),
	}
}

func (f *fixture) publish(t *testing.T, caller domain.Caller, title, visibility string) domain.RecipeResponse {
	t.Helper()
	res, err := f.svc.CreateRecipe(context.Background(), caller, domain.CreateRecipeRequest{
		Title:        title,
		Description:  "A simple recipe",
		Visibility:   visibility,
		Instructions: []domain.InstructionRequest{{Step: 1, Description: "Mix everything"}},
		Ingredients:  []domain.RecipeIngredientRequest{{IngredientUID: f.sugar}},
	})
	require.NoError(t, err)
	return res
}

func strPtr(s string) *string { return &s }

func TestCreateDraft_ReturnsExistingDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, created, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.IsDraft)
	assert.Equal(t, domain.VisibilityPrivate, first.Visibility)

	again, created, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.UID, again.UID)

	otherDraft, created, err := f.svc.CreateDraft(ctx, f.other)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.UID, otherDraft.UID)

	_, _, err = f.svc.CreateDraft(ctx, f.anonymous)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestFinishDraft_ReportsEveryMissingField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, _, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)

	_, err = f.svc.FinishDraft(ctx, f.author, draft.UID)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "instructions")
	assert.Contains(t, verr.Fields, "ingredients")
	assert.Contains(t, verr.Fields, "description")

	stored, err := f.svc.GetDraft(ctx, f.author, draft.UID)
	require.NoError(t, err)
	assert.True(t, stored.IsDraft)
}

func TestFinishDraft_Publishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, _, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)

	_, err = f.svc.UpdateDraft(ctx, f.author, draft.UID, domain.UpdateDraftRequest{RecipePatch: domain.RecipePatch{
		Title:        strPtr("Pancakes"),
		Description:  strPtr("Fluffy"),
		Instructions: []domain.InstructionRequest{{Step: 1, Description: "Whisk"}, {Step: 2, Description: "   "}},
		Ingredients:  []domain.RecipeIngredientRequest{{IngredientUID: f.flour, UnitUID: &f.gram}},
	}})
	require.NoError(t, err)

	published, err := f.svc.FinishDraft(ctx, f.author, draft.UID)
	require.NoError(t, err)
	assert.False(t, published.IsDraft)
	require.NotNil(t, published.Slug)
	assert.Equal(t, "pancakes", *published.Slug)
	assert.Len(t, published.Instructions, 1)

	_, err = f.svc.GetDraft(ctx, f.author, draft.UID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	got, err := f.svc.GetRecipe(ctx, f.author, "pancakes")
	require.NoError(t, err)
	assert.Equal(t, draft.UID, got.UID)
}

func TestDraft_HiddenFromOtherUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, _, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)

	_, err = f.svc.GetDraft(ctx, f.other, draft.UID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	_, err = f.svc.GetDraft(ctx, f.anonymous, draft.UID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	_, err = f.svc.UpdateDraft(ctx, f.other, draft.UID, domain.UpdateDraftRequest{})
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	_, err = f.svc.FinishDraft(ctx, f.other, draft.UID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	assert.ErrorIs(t, f.svc.DeleteDraft(ctx, f.other, draft.UID), domain.ErrDraftNotFound)

	_, err = f.svc.GetRecipe(ctx, f.author, draft.UID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	drafts, err := f.svc.ListDrafts(ctx, f.other)
	require.NoError(t, err)
	assert.Empty(t, drafts)

	drafts, err = f.svc.ListDrafts(ctx, f.author)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	require.NoError(t, f.svc.DeleteDraft(ctx, f.author, draft.UID))
	drafts, err = f.svc.ListDrafts(ctx, f.author)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestUpdateDraft_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, _, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)

	missing := uuid.New()
	_, err = f.svc.UpdateDraft(ctx, f.author, draft.UID, domain.UpdateDraftRequest{RecipePatch: domain.RecipePatch{
		Title:         strPtr("Should not stick"),
		Ingredients:   []domain.RecipeIngredientRequest{{IngredientUID: missing, UnitUID: &missing}},
		ApplianceUIDs: []uuid.UUID{missing},
	}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ingredients[0].ingredient_uid")
	assert.Contains(t, verr.Fields, "ingredients[0].unit_uid")
	assert.Contains(t, verr.Fields, "appliance_uids")

	stored, err := f.svc.GetDraft(ctx, f.author, draft.UID)
	require.NoError(t, err)
	assert.Nil(t, stored.Title)
}

var errIngredientsDown = errors.New("ingredients table unavailable")

// brokenIngredients hands out transaction repositories whose
// ReplaceIngredients fails after everything before it has been written.
type brokenIngredients struct {
	RecipeRepository
}

func (b brokenIngredients) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return b.RecipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		return fn(brokenIngredients{RecipeRepository: repo})
	})
}

func (brokenIngredients) ReplaceIngredients(context.Context, uuid.UUID, []*entities.RecipeIngredient) error {
	return errIngredientsDown
}

func TestUpdateDraft_RollsBackOnPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, _, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)
	_, err = f.svc.UpdateDraft(ctx, f.author, draft.UID, domain.UpdateDraftRequest{RecipePatch: domain.RecipePatch{
		Title:        strPtr("Soup"),
		Instructions: []domain.InstructionRequest{{Step: 1, Description: "Chop"}, {Step: 2, Description: "Boil"}},
		Ingredients:  []domain.RecipeIngredientRequest{{IngredientUID: f.sugar}},
	}})
	require.NoError(t, err)

	broken := NewRecipeService(brokenIngredients{RecipeRepository: NewRecipeRepository(f.db)}, f.s3)
	_, err = broken.UpdateDraft(ctx, f.author, draft.UID, domain.UpdateDraftRequest{RecipePatch: domain.RecipePatch{
		Title:        strPtr("Stew"),
		Instructions: []domain.InstructionRequest{{Step: 1, Description: "Simmer"}},
		Ingredients:  []domain.RecipeIngredientRequest{{IngredientUID: f.flour}},
	}})
	require.ErrorIs(t, err, errIngredientsDown)

	stored, err := f.svc.GetDraft(ctx, f.author, draft.UID)
	require.NoError(t, err)
	require.NotNil(t, stored.Title)
	assert.Equal(t, "Soup", *stored.Title)
	require.Len(t, stored.Instructions, 2)
	assert.Equal(t, "Chop", stored.Instructions[0].Description)
	require.Len(t, stored.Ingredients, 1)
	assert.Equal(t, "Sugar", stored.Ingredients[0].Ingredient.Name)
}

func TestUpdateDraft_EmptyListsKeepCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, _, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)
	_, err = f.svc.UpdateDraft(ctx, f.author, draft.UID, domain.UpdateDraftRequest{RecipePatch: domain.RecipePatch{
		Instructions: []domain.InstructionRequest{{Step: 1, Description: "  Whisk gently "}},
		Ingredients:  []domain.RecipeIngredientRequest{{IngredientUID: f.sugar}},
	}})
	require.NoError(t, err)

	updated, err := f.svc.UpdateDraft(ctx, f.author, draft.UID, domain.UpdateDraftRequest{RecipePatch: domain.RecipePatch{
		Title:        strPtr("Meringue"),
		Instructions: []domain.InstructionRequest{},
		Ingredients:  []domain.RecipeIngredientRequest{},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Meringue", *updated.Title)
	require.Len(t, updated.Instructions, 1)
	assert.Equal(t, "  Whisk gently ", updated.Instructions[0].Description)
	assert.Len(t, updated.Ingredients, 1)
}

func TestSlug_StableAndUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.publish(t, f.author, "Banana Bread", domain.VisibilityPublic)
	second := f.publish(t, f.other, "Banana Bread", domain.VisibilityPublic)
	require.NotNil(t, first.Slug)
	require.NotNil(t, second.Slug)
	assert.Equal(t, "banana-bread", *first.Slug)
	assert.NotEqual(t, *first.Slug, *second.Slug)
	assert.Regexp(t, `^banana-bread-[0-9a-f]{8}$`, *second.Slug)

	updated, err := f.svc.UpdateRecipe(ctx, f.author, first.UID, domain.UpdateRecipeRequest{Title: "Chocolate Cake"})
	require.NoError(t, err)
	require.NotNil(t, updated.Title)
	assert.Equal(t, "Chocolate Cake", *updated.Title)
	assert.Equal(t, "banana-bread", *updated.Slug)
}

func TestVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bread := f.publish(t, f.author, "Bread", domain.VisibilityPrivate)
	soup := f.publish(t, f.author, "Soup", domain.VisibilityFriends)
	salad := f.publish(t, f.other, "Salad", domain.VisibilityPublic)
	_, _, err := f.svc.CreateDraft(ctx, f.author)
	require.NoError(t, err)

	uids := func(caller domain.Caller) []string {
		list, total, err := f.svc.ListRecipes(ctx, caller, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(len(list)), total)
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, item.UID)
		}
		return out
	}

	assert.ElementsMatch(t, []string{salad.UID}, uids(f.anonymous))
	assert.ElementsMatch(t, []string{bread.UID, soup.UID, salad.UID}, uids(f.author))
	assert.ElementsMatch(t, []string{salad.UID}, uids(f.other))

	tests := []struct {
		name    string
		caller  domain.Caller
		key     string
		visible bool
	}{
		{"anonymous private", f.anonymous, bread.UID, false},
		{"anonymous public", f.anonymous, salad.UID, true},
		{"author private", f.author, bread.UID, true},
		{"author by slug", f.author, *bread.Slug, true},
		{"other private", f.other, bread.UID, false},
		{"other friends", f.other, soup.UID, false},
		{"other private by slug", f.other, *bread.Slug, false},
		{"unknown slug", f.author, "no-such-recipe", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.GetRecipe(ctx, tt.caller, tt.key)
			if tt.visible {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
			}
		})
	}
}

func TestListRecipes_Paginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		f.publish(t, f.author, title, domain.VisibilityPublic)
	}

	page, total, err := f.svc.ListRecipes(ctx, f.anonymous, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	page, _, err = f.svc.ListRecipes(ctx, f.anonymous, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestUpdateRecipe_ReplacesCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recipe := f.publish(t, f.author, "Cookies", domain.VisibilityPublic)
	require.Len(t, recipe.Ingredients, 1)

	updated, err := f.svc.UpdateRecipe(ctx, f.author, recipe.UID, domain.UpdateRecipeRequest{
		Title: "Cookies",
		RecipePatch: domain.RecipePatch{
			Instructions: []domain.InstructionRequest{
				{Step: 2, Description: "Bake"},
				{Step: 1, Description: "Mix"},
			},
			Ingredients: []domain.RecipeIngredientRequest{
				{IngredientUID: f.flour, UnitUID: &f.gram},
			},
			ApplianceUIDs: []uuid.UUID{f.oven},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Instructions, 2)
	assert.Equal(t, "Mix", updated.Instructions[0].Description)
	assert.Equal(t, "Bake", updated.Instructions[1].Description)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Flour", updated.Ingredients[0].Ingredient.Name)
	require.NotNil(t, updated.Ingredients[0].Unit)
	assert.Equal(t, "g", updated.Ingredients[0].Unit.Abbreviation)
	require.Len(t, updated.Appliances, 1)
	assert.Equal(t, "Bosch", updated.Appliances[0].Manufacturer.Name)

	// nil collections are left alone
	updated, err = f.svc.UpdateRecipe(ctx, f.author, recipe.UID, domain.UpdateRecipeRequest{
		Title:       "Cookies",
		RecipePatch: domain.RecipePatch{Notes: strPtr("Keeps a week")},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Instructions, 2)
	assert.Len(t, updated.Appliances, 1)
	assert.Equal(t, "Keeps a week", *updated.Notes)

	// an empty appliance list clears the set
	updated, err = f.svc.UpdateRecipe(ctx, f.author, recipe.UID, domain.UpdateRecipeRequest{
		Title:       "Cookies",
		RecipePatch: domain.RecipePatch{ApplianceUIDs: []uuid.UUID{}},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Appliances)

	var count int64
	require.NoError(t, f.db.Model(&entities.Instruction{}).Where("recipe_id = ?", recipe.UID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUpdateRecipe_MustStayPublishable(t *testing.T) {
	f := newFixture(t)

	recipe := f.publish(t, f.author, "Tea", domain.VisibilityPublic)
	_, err := f.svc.UpdateRecipe(context.Background(), f.author, recipe.UID, domain.UpdateRecipeRequest{
		Title:       "Tea",
		RecipePatch: domain.RecipePatch{Instructions: []domain.InstructionRequest{{Step: 1, Description: " "}}},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "instructions")
}

func TestOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recipe := f.publish(t, f.author, "Stew", domain.VisibilityPublic)

	_, err := f.svc.UpdateRecipe(ctx, f.other, recipe.UID, domain.UpdateRecipeRequest{Title: "Mine now"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
	assert.ErrorIs(t, f.svc.CheckOwnership(ctx, f.other, recipe.UID), domain.ErrUnauthorizedRecipeAccess)
	assert.NoError(t, f.svc.CheckOwnership(ctx, f.author, recipe.UID))
	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, f.other, recipe.UID), domain.ErrUnauthorizedRecipeAccess)

	_, err = f.svc.UpdateRecipe(ctx, f.author, uuid.NewString(), domain.UpdateRecipeRequest{Title: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, f.author, "not-a-uuid"), domain.ErrRecipeNotFound)

	require.NoError(t, f.svc.DeleteRecipe(ctx, f.author, recipe.UID))
	_, err = f.svc.GetRecipe(ctx, f.author, recipe.UID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	var count int64
	require.NoError(t, f.db.Model(&entities.RecipeIngredient{}).Where("recipe_id = ?", recipe.UID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipe_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateRecipe(context.Background(), f.author, domain.CreateRecipeRequest{
		Title:        "Empty",
		Description:  " ",
		Instructions: []domain.InstructionRequest{{Step: 1, Description: ""}},
		Ingredients:  []domain.RecipeIngredientRequest{{IngredientUID: f.sugar}},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "instructions")
	assert.Contains(t, verr.Fields, "description")
	assert.NotContains(t, verr.Fields, "ingredients")
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recipe := f.publish(t, f.author, "Pizza", domain.VisibilityPublic)
	req := domain.UploadRecipeImageRequest{Image: &multipart.FileHeader{Filename: "pizza.png"}}

	_, err := f.svc.UploadImage(ctx, f.other, recipe.UID, req)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	first, err := f.svc.UploadImage(ctx, f.author, recipe.UID, req)
	require.NoError(t, err)
	require.NotNil(t, first.Image)
	assert.Equal(t, testPublicURL+"/"+f.s3.uploaded[0], *first.Image)

	_, err = f.svc.UploadImage(ctx, f.author, recipe.UID, req)
	require.NoError(t, err)
	assert.Equal(t, []string{f.s3.uploaded[0]}, f.s3.deleted)

	require.NoError(t, f.svc.DeleteRecipe(ctx, f.author, recipe.UID))
	assert.Equal(t, f.s3.uploaded, f.s3.deleted)
}
