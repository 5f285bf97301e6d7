package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// BindingTransactor runs fn with a binding repository bound to one database
// transaction
type BindingTransactor interface {
	ExecuteBindings(ctx context.Context, fn func(bindings catalog.ProductUnitBindingRepository) error) error
}

// BindingService manages the units a product is sold and bought in.
// Every write that touches the base flag runs in a transaction and re-checks
// that the product ends with exactly one base unit.
type BindingService struct {
	productReader catalog.ProductRepository
	unitRepo      catalog.UnitRepository
	bindingRepo   catalog.ProductUnitBindingRepository
	tx            BindingTransactor
}

// NewBindingService creates a new BindingService
func NewBindingService(
	productReader catalog.ProductRepository,
	unitRepo catalog.UnitRepository,
	bindingRepo catalog.ProductUnitBindingRepository,
	tx BindingTransactor,
) *BindingService {
	return &BindingService{
		productReader: productReader,
		unitRepo:      unitRepo,
		bindingRepo:   bindingRepo,
		tx:            tx,
	}
}

// ListByProduct lists all bindings of a product, base unit first
func (s *BindingService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]BindingResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	bindings, err := s.bindingRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	unitIDs := make([]uuid.UUID, len(bindings))
	for i, b := range bindings {
		unitIDs[i] = b.UnitID
	}
	units, err := s.unitRepo.FindByIDs(ctx, unitIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Unit, len(units))
	for i := range units {
		byID[units[i].ID] = &units[i]
	}

	responses := make([]BindingResponse, len(bindings))
	for i := range bindings {
		responses[i] = ToBindingResponse(&bindings[i], product.BasePrice, byID[bindings[i].UnitID])
	}
	return responses, nil
}

// Create binds a unit to a product. The first binding of a product becomes
// its base unit.
func (s *BindingService) Create(ctx context.Context, productID uuid.UUID, req CreateBindingRequest) (*BindingResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	unit, err := s.findUnit(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}

	existing, err := s.bindingRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, b := range existing {
		if b.UnitID == req.UnitID {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Unit is already configured for this product")
		}
	}

	binding, err := catalog.NewProductUnitBinding(productID, req.UnitID, req.QuantityPerUnit)
	if err != nil {
		return nil, err
	}
	if err := binding.SetPriceOverride(req.PriceOverride); err != nil {
		return nil, err
	}
	if req.IsSalesUnit != nil || req.IsPurchaseUnit != nil {
		binding.SetUsage(boolOr(req.IsSalesUnit, binding.IsSalesUnit), boolOr(req.IsPurchaseUnit, binding.IsPurchaseUnit))
	}

	makeBase := req.IsBaseUnit || len(existing) == 0
	if makeBase {
		if err := binding.MarkAsBase(); err != nil {
			return nil, err
		}
	}

	err = s.tx.ExecuteBindings(ctx, func(bindings catalog.ProductUnitBindingRepository) error {
		if err := bindings.Save(ctx, binding); err != nil {
			return err
		}
		if !makeBase {
			return nil
		}
		if err := bindings.ClearBaseUnit(ctx, productID, binding.ID); err != nil {
			return err
		}
		return ensureSingleBase(ctx, bindings, productID)
	})
	if err != nil {
		return nil, err
	}

	response := ToBindingResponse(binding, product.BasePrice, unit)
	return &response, nil
}

// Update changes the factor, price override or usage flags of a binding
func (s *BindingService) Update(ctx context.Context, productID, bindingID uuid.UUID, req UpdateBindingRequest) (*BindingResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	binding, err := s.findBinding(ctx, s.bindingRepo, productID, bindingID)
	if err != nil {
		return nil, err
	}

	if req.QuantityPerUnit != nil {
		if err := binding.Update(*req.QuantityPerUnit); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearPriceOverride:
		if err := binding.SetPriceOverride(nil); err != nil {
			return nil, err
		}
	case req.PriceOverride != nil:
		if err := binding.SetPriceOverride(req.PriceOverride); err != nil {
			return nil, err
		}
	}
	if req.IsSalesUnit != nil || req.IsPurchaseUnit != nil {
		binding.SetUsage(boolOr(req.IsSalesUnit, binding.IsSalesUnit), boolOr(req.IsPurchaseUnit, binding.IsPurchaseUnit))
	}

	if err := s.bindingRepo.Save(ctx, binding); err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByID(ctx, binding.UnitID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	response := ToBindingResponse(binding, product.BasePrice, unit)
	return &response, nil
}

// Delete removes a binding. The base binding can only go once it is the
// product's last one.
func (s *BindingService) Delete(ctx context.Context, productID, bindingID uuid.UUID) error {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return err
	}
	return s.tx.ExecuteBindings(ctx, func(bindings catalog.ProductUnitBindingRepository) error {
		binding, err := s.findBinding(ctx, bindings, productID, bindingID)
		if err != nil {
			return err
		}
		if binding.IsBaseUnit {
			siblings, err := bindings.FindByProductID(ctx, productID)
			if err != nil {
				return err
			}
			if len(siblings) > 1 {
				return shared.NewDomainError("BASE_UNIT_IN_USE",
					"Base unit cannot be removed while the product has other units; set another base unit first")
			}
		}
		return bindings.Delete(ctx, bindingID)
	})
}

// SetBase makes the binding the product's base unit and clears the flag on
// its siblings in the same transaction
func (s *BindingService) SetBase(ctx context.Context, productID, bindingID uuid.UUID) (*BindingResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var binding *catalog.ProductUnitBinding
	err = s.tx.ExecuteBindings(ctx, func(bindings catalog.ProductUnitBindingRepository) error {
		b, err := s.findBinding(ctx, bindings, productID, bindingID)
		if err != nil {
			return err
		}
		if err := b.MarkAsBase(); err != nil {
			return err
		}
		if err := bindings.ClearBaseUnit(ctx, productID, b.ID); err != nil {
			return err
		}
		if err := bindings.Save(ctx, b); err != nil {
			return err
		}
		binding = b
		return ensureSingleBase(ctx, bindings, productID)
	})
	if err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByID(ctx, binding.UnitID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	response := ToBindingResponse(binding, product.BasePrice, unit)
	return &response, nil
}

func ensureSingleBase(ctx context.Context, bindings catalog.ProductUnitBindingRepository, productID uuid.UUID) error {
	count, err := bindings.CountBaseUnits(ctx, productID)
	if err != nil {
		return err
	}
	if count != 1 {
		return shared.NewDomainError("INVALID_BASE_UNIT",
			fmt.Sprintf("A product must have exactly one base unit, found %d", count))
	}
	return nil
}

func (s *BindingService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productReader.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *BindingService) findUnit(ctx context.Context, id uuid.UUID) (*catalog.Unit, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnitNotFound
		}
		return nil, err
	}
	return unit, nil
}

func (s *BindingService) findBinding(ctx context.Context, repo catalog.ProductUnitBindingRepository, productID, bindingID uuid.UUID) (*catalog.ProductUnitBinding, error) {
	binding, err := repo.FindByID(ctx, bindingID)
	if err != nil {
		return nil, err
	}
	if binding.ProductID != productID {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Unit binding not found for this product")
	}
	return binding, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
