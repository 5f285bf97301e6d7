package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// UnitService manages the shared unit-of-measure reference data
type UnitService struct {
	unitRepo catalog.UnitRepository
}

// NewUnitService creates a new UnitService
func NewUnitService(unitRepo catalog.UnitRepository) *UnitService {
	return &UnitService{unitRepo: unitRepo}
}

// Create creates a unit. Abbreviations are unique.
func (s *UnitService) Create(ctx context.Context, req CreateUnitRequest) (*UnitResponse, error) {
	exists, err := s.unitRepo.ExistsByAbbreviation(ctx, strings.TrimSpace(req.Abbreviation))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Unit with this abbreviation already exists")
	}

	unit, err := catalog.NewUnit(req.Name, req.Abbreviation, catalog.UnitType(req.UnitType), req.ConversionFactor)
	if err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// GetByID retrieves a unit
func (s *UnitService) GetByID(ctx context.Context, id uuid.UUID) (*UnitResponse, error) {
	unit, err := s.findUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUnitResponse(unit)
	return &response, nil
}

// List retrieves units with filtering and pagination
func (s *UnitService) List(ctx context.Context, filter UnitListFilter) ([]UnitResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.UnitType != "" {
		domainFilter.Filters["unit_type"] = filter.UnitType
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	units, err := s.unitRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.unitRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUnitResponses(units), total, nil
}

// Update changes a unit's name, abbreviation, factor or active flag
func (s *UnitService) Update(ctx context.Context, id uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	unit, err := s.findUnit(ctx, id)
	if err != nil {
		return nil, err
	}

	name, abbreviation, factor := unit.Name, unit.Abbreviation, unit.ConversionFactor
	if req.Name != nil {
		name = *req.Name
	}
	if req.Abbreviation != nil && strings.TrimSpace(*req.Abbreviation) != unit.Abbreviation {
		abbreviation = *req.Abbreviation
		exists, err := s.unitRepo.ExistsByAbbreviation(ctx, strings.TrimSpace(abbreviation))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Unit with this abbreviation already exists")
		}
	}
	if req.ConversionFactor != nil {
		factor = req.ConversionFactor
	}
	if err := unit.Update(name, abbreviation, factor); err != nil {
		return nil, err
	}
	if req.Active != nil {
		unit.Active = *req.Active
	}

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	response := ToUnitResponse(unit)
	return &response, nil
}

// Delete removes a unit that no product binding references
func (s *UnitService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findUnit(ctx, id); err != nil {
		return err
	}
	inUse, err := s.unitRepo.IsInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewDomainError("UNIT_IN_USE", "Unit is bound to at least one product")
	}
	return s.unitRepo.Delete(ctx, id)
}

// Convert expresses a quantity of one unit in another unit of the same type
func (s *UnitService) Convert(ctx context.Context, req ConvertUnitRequest) (*ConvertUnitResponse, error) {
	if req.Quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	from, err := s.findUnit(ctx, req.FromUnitID)
	if err != nil {
		return nil, err
	}
	to, err := s.findUnit(ctx, req.ToUnitID)
	if err != nil {
		return nil, err
	}

	result, err := from.Convert(req.Quantity, to)
	if err != nil {
		return nil, err
	}
	return &ConvertUnitResponse{
		FromUnitID: from.ID,
		ToUnitID:   to.ID,
		Quantity:   req.Quantity,
		Result:     result,
	}, nil
}

func (s *UnitService) findUnit(ctx context.Context, id uuid.UUID) (*catalog.Unit, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnitNotFound
		}
		return nil, err
	}
	return unit, nil
}
