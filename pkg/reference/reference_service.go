package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"
	"Kitchen-Backend/internal/metrics"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

const (
	KindIngredient    = "ingredient"
	KindUnit          = "unit"
	KindManufacturer  = "manufacturer"
	KindApplianceType = "appliance_type"
	KindAppliance     = "appliance"
)

type (
	// ReferenceService creates reference data on first use and hands back
	// the stored row on every later request for the same name. The bool
	// result reports whether a row was created.
	ReferenceService interface {
		ResolveIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientResponse, bool, error)
		ResolveUnit(ctx context.Context, req domain.CreateUnitRequest) (domain.UnitResponse, bool, error)
		ResolveManufacturer(ctx context.Context, req domain.CreateManufacturerRequest) (domain.ManufacturerResponse, bool, error)
		ResolveApplianceType(ctx context.Context, req domain.CreateApplianceTypeRequest) (domain.ApplianceTypeResponse, bool, error)
		ResolveAppliance(ctx context.Context, req domain.CreateApplianceRequest) (domain.ApplianceResponse, bool, error)

		ListIngredients(ctx context.Context) ([]domain.IngredientResponse, error)
		ListUnits(ctx context.Context) ([]domain.UnitResponse, error)
		ListManufacturers(ctx context.Context) ([]domain.ManufacturerResponse, error)
		ListApplianceTypes(ctx context.Context) ([]domain.ApplianceTypeResponse, error)
		ListAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]domain.ApplianceResponse, error)
	}

	referenceService struct {
		referenceRepository ReferenceRepository
	}
)

func NewReferenceService(referenceRepository ReferenceRepository) ReferenceService {
	return &referenceService{referenceRepository: referenceRepository}
}

// resolve looks the row up, inserts it when absent, and falls back to a
// second lookup when the insert loses a race on a unique index.
func resolve[T any](kind string, find func() (*T, error), create func() (*T, error)) (*T, bool, error) {
	existing, err := find()
	if err == nil {
		metrics.ObserveResolution(kind, false)
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find %s: %w", kind, err)
	}

	created, err := create()
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if winner, findErr := find(); findErr == nil {
				log.Infow("reference insert lost race, returning existing row", "kind", kind)
				metrics.ObserveResolution(kind, false)
				return winner, false, nil
			}
		}
		return nil, false, fmt.Errorf("create %s: %w", kind, err)
	}

	metrics.ObserveResolution(kind, true)
	return created, true, nil
}

func (s *referenceService) ResolveIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientResponse, bool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.IngredientResponse{}, false, domain.FieldError("name", domain.MessageFieldRequired)
	}

	ingredient, created, err := resolve(KindIngredient,
		func() (*entities.Ingredient, error) {
			return s.referenceRepository.FindIngredientByName(ctx, name)
		},
		func() (*entities.Ingredient, error) {
			ingredient := &entities.Ingredient{Name: name, Image: req.Image}
			return ingredient, s.referenceRepository.CreateIngredient(ctx, ingredient)
		},
	)
	if err != nil {
		return domain.IngredientResponse{}, false, err
	}
	return IngredientToResponse(ingredient), created, nil
}

func (s *referenceService) ResolveUnit(ctx context.Context, req domain.CreateUnitRequest) (domain.UnitResponse, bool, error) {
	name := strings.TrimSpace(req.Name)
	abbreviation := strings.TrimSpace(req.Abbreviation)
	verr := domain.NewValidationError()
	if name == "" {
		verr.Add("name", domain.MessageFieldRequired)
	}
	if abbreviation == "" {
		verr.Add("abbreviation", domain.MessageFieldRequired)
	}
	if err := verr.OrNil(); err != nil {
		return domain.UnitResponse{}, false, err
	}

	unit, created, err := resolve(KindUnit,
		func() (*entities.Unit, error) {
			return s.referenceRepository.FindUnit(ctx, name, abbreviation)
		},
		func() (*entities.Unit, error) {
			unit := &entities.Unit{Name: name, Abbreviation: abbreviation}
			return unit, s.referenceRepository.CreateUnit(ctx, unit)
		},
	)
	if err != nil {
		return domain.UnitResponse{}, false, err
	}
	return UnitToResponse(unit), created, nil
}

func (s *referenceService) ResolveManufacturer(ctx context.Context, req domain.CreateManufacturerRequest) (domain.ManufacturerResponse, bool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ManufacturerResponse{}, false, domain.FieldError("name", domain.MessageFieldRequired)
	}

	manufacturer, created, err := resolve(KindManufacturer,
		func() (*entities.Manufacturer, error) {
			return s.referenceRepository.FindManufacturerByName(ctx, name)
		},
		func() (*entities.Manufacturer, error) {
			manufacturer := &entities.Manufacturer{Name: name}
			return manufacturer, s.referenceRepository.CreateManufacturer(ctx, manufacturer)
		},
	)
	if err != nil {
		return domain.ManufacturerResponse{}, false, err
	}
	return ManufacturerToResponse(manufacturer), created, nil
}

func (s *referenceService) ResolveApplianceType(ctx context.Context, req domain.CreateApplianceTypeRequest) (domain.ApplianceTypeResponse, bool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ApplianceTypeResponse{}, false, domain.FieldError("name", domain.MessageFieldRequired)
	}

	applianceType, created, err := resolve(KindApplianceType,
		func() (*entities.ApplianceType, error) {
			return s.referenceRepository.FindApplianceTypeByName(ctx, name)
		},
		func() (*entities.ApplianceType, error) {
			applianceType := &entities.ApplianceType{Name: name}
			return applianceType, s.referenceRepository.CreateApplianceType(ctx, applianceType)
		},
	)
	if err != nil {
		return domain.ApplianceTypeResponse{}, false, err
	}
	return ApplianceTypeToResponse(applianceType), created, nil
}

func (s *referenceService) ResolveAppliance(ctx context.Context, req domain.CreateApplianceRequest) (domain.ApplianceResponse, bool, error) {
	model := strings.TrimSpace(req.Model)
	verr := domain.NewValidationError()
	if model == "" {
		verr.Add("model", domain.MessageFieldRequired)
	}

	manufacturer, err := s.referenceRepository.GetManufacturerByID(ctx, req.ManufacturerUID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ApplianceResponse{}, false, err
		}
		verr.Add("manufacturer_uid", domain.ErrManufacturerNotFound.Error())
	}
	applianceType, err := s.referenceRepository.GetApplianceTypeByID(ctx, req.TypeUID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ApplianceResponse{}, false, err
		}
		verr.Add("type_uid", domain.ErrApplianceTypeNotFound.Error())
	}
	if err := verr.OrNil(); err != nil {
		return domain.ApplianceResponse{}, false, err
	}

	appliance, created, err := resolve(KindAppliance,
		func() (*entities.Appliance, error) {
			return s.referenceRepository.FindAppliance(ctx, model, manufacturer.ID, applianceType.ID)
		},
		func() (*entities.Appliance, error) {
			appliance := &entities.Appliance{
				Model:          model,
				ManufacturerID: manufacturer.ID,
				TypeID:         applianceType.ID,
			}
			if err := s.referenceRepository.CreateAppliance(ctx, appliance); err != nil {
				return nil, err
			}
			appliance.Manufacturer = manufacturer
			appliance.Type = applianceType
			return appliance, nil
		},
	)
	if err != nil {
		return domain.ApplianceResponse{}, false, err
	}
	return ApplianceToResponse(appliance), created, nil
}

func (s *referenceService) ListIngredients(ctx context.Context) ([]domain.IngredientResponse, error) {
	ingredients, err := s.referenceRepository.GetIngredients(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		res = append(res, IngredientToResponse(ingredient))
	}
	return res, nil
}

func (s *referenceService) ListUnits(ctx context.Context) ([]domain.UnitResponse, error) {
	units, err := s.referenceRepository.GetUnits(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.UnitResponse, 0, len(units))
	for _, unit := range units {
		res = append(res, UnitToResponse(unit))
	}
	return res, nil
}

func (s *referenceService) ListManufacturers(ctx context.Context) ([]domain.ManufacturerResponse, error) {
	manufacturers, err := s.referenceRepository.GetManufacturers(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.ManufacturerResponse, 0, len(manufacturers))
	for _, manufacturer := range manufacturers {
		res = append(res, ManufacturerToResponse(manufacturer))
	}
	return res, nil
}

func (s *referenceService) ListApplianceTypes(ctx context.Context) ([]domain.ApplianceTypeResponse, error) {
	applianceTypes, err := s.referenceRepository.GetApplianceTypes(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.ApplianceTypeResponse, 0, len(applianceTypes))
	for _, applianceType := range applianceTypes {
		res = append(res, ApplianceTypeToResponse(applianceType))
	}
	return res, nil
}

func (s *referenceService) ListAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]domain.ApplianceResponse, error) {
	appliances, err := s.referenceRepository.GetAppliances(ctx, filter)
	if err != nil {
		return nil, err
	}
	res := make([]domain.ApplianceResponse, 0, len(appliances))
	for _, appliance := range appliances {
		res = append(res, ApplianceToResponse(appliance))
	}
	return res, nil
}
