package reference

import (
	"context"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ReferenceRepository interface {
		FindIngredientByName(ctx context.Context, name string) (*entities.Ingredient, error)
		CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		GetIngredients(ctx context.Context) ([]*entities.Ingredient, error)

		FindUnit(ctx context.Context, name, abbreviation string) (*entities.Unit, error)
		CreateUnit(ctx context.Context, unit *entities.Unit) error
		GetUnits(ctx context.Context) ([]*entities.Unit, error)

		FindManufacturerByName(ctx context.Context, name string) (*entities.Manufacturer, error)
		GetManufacturerByID(ctx context.Context, id uuid.UUID) (*entities.Manufacturer, error)
		CreateManufacturer(ctx context.Context, manufacturer *entities.Manufacturer) error
		GetManufacturers(ctx context.Context) ([]*entities.Manufacturer, error)

		FindApplianceTypeByName(ctx context.Context, name string) (*entities.ApplianceType, error)
		GetApplianceTypeByID(ctx context.Context, id uuid.UUID) (*entities.ApplianceType, error)
		CreateApplianceType(ctx context.Context, applianceType *entities.ApplianceType) error
		GetApplianceTypes(ctx context.Context) ([]*entities.ApplianceType, error)

		FindAppliance(ctx context.Context, model string, manufacturerID, typeID uuid.UUID) (*entities.Appliance, error)
		CreateAppliance(ctx context.Context, appliance *entities.Appliance) error
		GetAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]*entities.Appliance, error)
	}

	referenceRepository struct {
		db *gorm.DB
	}
)

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

// matchesName compares a column with the trimmed input, ignoring case.
func matchesName(column string) string {
	return "LOWER(TRIM(" + column + ")) = LOWER(?)"
}

func (r *referenceRepository) FindIngredientByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where(matchesName("name"), name).
		Order("id asc").
		First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *referenceRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *referenceRepository) GetIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *referenceRepository) FindUnit(ctx context.Context, name, abbreviation string) (*entities.Unit, error) {
	var unit entities.Unit
	if err := r.db.WithContext(ctx).
		Where(matchesName("name"), name).
		Or(matchesName("abbreviation"), abbreviation).
		Order("id asc").
		First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *referenceRepository) CreateUnit(ctx context.Context, unit *entities.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *referenceRepository) GetUnits(ctx context.Context) ([]*entities.Unit, error) {
	var units []*entities.Unit
	if err := r.db.WithContext(ctx).Order("name asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *referenceRepository) FindManufacturerByName(ctx context.Context, name string) (*entities.Manufacturer, error) {
	var manufacturer entities.Manufacturer
	if err := r.db.WithContext(ctx).
		Where(matchesName("name"), name).
		First(&manufacturer).Error; err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

func (r *referenceRepository) GetManufacturerByID(ctx context.Context, id uuid.UUID) (*entities.Manufacturer, error) {
	var manufacturer entities.Manufacturer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&manufacturer).Error; err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

func (r *referenceRepository) CreateManufacturer(ctx context.Context, manufacturer *entities.Manufacturer) error {
	return r.db.WithContext(ctx).Create(manufacturer).Error
}

func (r *referenceRepository) GetManufacturers(ctx context.Context) ([]*entities.Manufacturer, error) {
	var manufacturers []*entities.Manufacturer
	if err := r.db.WithContext(ctx).Order("name asc").Find(&manufacturers).Error; err != nil {
		return nil, err
	}
	return manufacturers, nil
}

func (r *referenceRepository) FindApplianceTypeByName(ctx context.Context, name string) (*entities.ApplianceType, error) {
	var applianceType entities.ApplianceType
	if err := r.db.WithContext(ctx).
		Where(matchesName("name"), name).
		First(&applianceType).Error; err != nil {
		return nil, err
	}
	return &applianceType, nil
}

func (r *referenceRepository) GetApplianceTypeByID(ctx context.Context, id uuid.UUID) (*entities.ApplianceType, error) {
	var applianceType entities.ApplianceType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&applianceType).Error; err != nil {
		return nil, err
	}
	return &applianceType, nil
}

func (r *referenceRepository) CreateApplianceType(ctx context.Context, applianceType *entities.ApplianceType) error {
	return r.db.WithContext(ctx).Create(applianceType).Error
}

func (r *referenceRepository) GetApplianceTypes(ctx context.Context) ([]*entities.ApplianceType, error) {
	var applianceTypes []*entities.ApplianceType
	if err := r.db.WithContext(ctx).Order("name asc").Find(&applianceTypes).Error; err != nil {
		return nil, err
	}
	return applianceTypes, nil
}

func (r *referenceRepository) FindAppliance(ctx context.Context, model string, manufacturerID, typeID uuid.UUID) (*entities.Appliance, error) {
	var appliance entities.Appliance
	if err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("Type").
		Where(matchesName("model"), model).
		Where("manufacturer_id = ? AND type_id = ?", manufacturerID, typeID).
		Order("id asc").
		First(&appliance).Error; err != nil {
		return nil, err
	}
	return &appliance, nil
}

func (r *referenceRepository) CreateAppliance(ctx context.Context, appliance *entities.Appliance) error {
	return r.db.WithContext(ctx).Omit("Manufacturer", "Type").Create(appliance).Error
}

func (r *referenceRepository) GetAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]*entities.Appliance, error) {
	var appliances []*entities.Appliance
	query := r.db.WithContext(ctx).Preload("Manufacturer").Preload("Type")
	if filter.ManufacturerUID != nil {
		query = query.Where("manufacturer_id = ?", *filter.ManufacturerUID)
	}
	if filter.TypeUID != nil {
		query = query.Where("type_id = ?", *filter.TypeUID)
	}
	if err := query.Order("model asc").Find(&appliances).Error; err != nil {
		return nil, err
	}
	return appliances, nil
}
