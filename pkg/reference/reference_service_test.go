package reference

import (
	"context"
	"testing"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"
	"Kitchen-Backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (ReferenceService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewReferenceService(NewReferenceRepository(db)), db
}

func TestResolveIngredient_DeduplicatesByNormalizedName(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	first, created, err := svc.ResolveIngredient(ctx, domain.CreateIngredientRequest{Name: "Sugar"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Sugar", first.Name)

	for _, name := range []string{"Sugar", "sugar", "  SUGAR  "} {
		again, created, err := svc.ResolveIngredient(ctx, domain.CreateIngredientRequest{Name: name})
		require.NoError(t, err)
		assert.False(t, created, name)
		assert.Equal(t, first.UID, again.UID, name)
		assert.Equal(t, "Sugar", again.Name, name)
	}

	var count int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveIngredient_TrimsStoredName(t *testing.T) {
	svc, _ := newTestService(t)

	res, created, err := svc.ResolveIngredient(context.Background(), domain.CreateIngredientRequest{Name: "  Brown Rice "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Brown Rice", res.Name)
}

func TestResolveIngredient_BlankName(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.ResolveIngredient(context.Background(), domain.CreateIngredientRequest{Name: "   "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
}

func TestResolveUnit_MatchesNameOrAbbreviation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	gram, created, err := svc.ResolveUnit(ctx, domain.CreateUnitRequest{Name: "gram", Abbreviation: "g"})
	require.NoError(t, err)
	require.True(t, created)

	tests := []struct {
		name string
		req  domain.CreateUnitRequest
	}{
		{"same name other abbreviation", domain.CreateUnitRequest{Name: "Gram", Abbreviation: "gr"}},
		{"other name same abbreviation", domain.CreateUnitRequest{Name: "grams", Abbreviation: "G"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, created, err := svc.ResolveUnit(ctx, tt.req)
			require.NoError(t, err)
			assert.False(t, created)
			assert.Equal(t, gram.UID, res.UID)
			assert.Equal(t, "gram", res.Name)
			assert.Equal(t, "g", res.Abbreviation)
		})
	}

	_, created, err = svc.ResolveUnit(ctx, domain.CreateUnitRequest{Name: "kilogram", Abbreviation: "kg"})
	require.NoError(t, err)
	assert.True(t, created)

	var count int64
	require.NoError(t, db.Model(&entities.Unit{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestResolveManufacturerAndType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m1, created, err := svc.ResolveManufacturer(ctx, domain.CreateManufacturerRequest{Name: "Bosch"})
	require.NoError(t, err)
	assert.True(t, created)
	m2, created, err := svc.ResolveManufacturer(ctx, domain.CreateManufacturerRequest{Name: " bosch"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m1.UID, m2.UID)

	t1, created, err := svc.ResolveApplianceType(ctx, domain.CreateApplianceTypeRequest{Name: "Oven"})
	require.NoError(t, err)
	assert.True(t, created)
	t2, created, err := svc.ResolveApplianceType(ctx, domain.CreateApplianceTypeRequest{Name: "OVEN"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, t1.UID, t2.UID)
}

func TestResolveAppliance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	manufacturer, _, err := svc.ResolveManufacturer(ctx, domain.CreateManufacturerRequest{Name: "Bosch"})
	require.NoError(t, err)
	oven, _, err := svc.ResolveApplianceType(ctx, domain.CreateApplianceTypeRequest{Name: "Oven"})
	require.NoError(t, err)
	mixer, _, err := svc.ResolveApplianceType(ctx, domain.CreateApplianceTypeRequest{Name: "Mixer"})
	require.NoError(t, err)

	req := domain.CreateApplianceRequest{
		Model:           "Serie 8",
		ManufacturerUID: uuid.MustParse(manufacturer.UID),
		TypeUID:         uuid.MustParse(oven.UID),
	}
	first, created, err := svc.ResolveAppliance(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Bosch", first.Manufacturer.Name)
	assert.Equal(t, "Oven", first.Type.Name)

	req.Model = "serie 8"
	again, created, err := svc.ResolveAppliance(ctx, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.UID, again.UID)

	req.TypeUID = uuid.MustParse(mixer.UID)
	other, created, err := svc.ResolveAppliance(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.UID, other.UID)

	t.Run("filters", func(t *testing.T) {
		typeUID := uuid.MustParse(oven.UID)
		list, err := svc.ListAppliances(ctx, domain.ApplianceFilter{TypeUID: &typeUID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, first.UID, list[0].UID)

		manufacturerUID := uuid.MustParse(manufacturer.UID)
		list, err = svc.ListAppliances(ctx, domain.ApplianceFilter{ManufacturerUID: &manufacturerUID})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func TestResolveAppliance_MissingReferences(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.ResolveAppliance(context.Background(), domain.CreateApplianceRequest{
		Model:           "Serie 8",
		ManufacturerUID: uuid.New(),
		TypeUID:         uuid.New(),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "manufacturer_uid")
	assert.Contains(t, verr.Fields, "type_uid")
}

func TestListIngredients(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Salt", "Flour", "salt"} {
		_, _, err := svc.ResolveIngredient(ctx, domain.CreateIngredientRequest{Name: name})
		require.NoError(t, err)
	}

	list, err := svc.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Flour", list[0].Name)
	assert.Equal(t, "Salt", list[1].Name)
}
