package persistence

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductUnitRepository implements ProductUnitBindingRepository using GORM
type GormProductUnitRepository struct {
	db *gorm.DB
}

// NewGormProductUnitRepository creates a new GormProductUnitRepository
func NewGormProductUnitRepository(db *gorm.DB) *GormProductUnitRepository {
	return &GormProductUnitRepository{db: db}
}

// FindByID finds a binding by its ID
func (r *GormProductUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductUnitBinding, error) {
	var binding catalog.ProductUnitBinding
	if err := r.db.WithContext(ctx).First(&binding, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &binding, nil
}

// FindByProductID finds all bindings of a product, base unit first
func (r *GormProductUnitRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]catalog.ProductUnitBinding, error) {
	var bindings []catalog.ProductUnitBinding
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_base_unit DESC, quantity ASC").
		Find(&bindings).Error; err != nil {
		return nil, err
	}
	return bindings, nil
}

// FindByProductIDs finds bindings of several products keyed by product id
func (r *GormProductUnitRepository) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]catalog.ProductUnitBinding, error) {
	result := make(map[uuid.UUID][]catalog.ProductUnitBinding, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var bindings []catalog.ProductUnitBinding
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&bindings).Error; err != nil {
		return nil, err
	}
	for _, b := range bindings {
		result[b.ProductID] = append(result[b.ProductID], b)
	}
	return result, nil
}

// FindByProductAndUnit finds the binding between a product and a unit
func (r *GormProductUnitRepository) FindByProductAndUnit(ctx context.Context, productID, unitID uuid.UUID) (*catalog.ProductUnitBinding, error) {
	var binding catalog.ProductUnitBinding
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND unit_id = ?", productID, unitID).
		First(&binding).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &binding, nil
}

// Save creates or updates a binding
func (r *GormProductUnitRepository) Save(ctx context.Context, binding *catalog.ProductUnitBinding) error {
	err := r.db.WithContext(ctx).Save(binding).Error
	return mapDuplicate(err, shared.CodeAlreadyExists, "Unit is already configured for this product")
}

// Delete deletes a binding
func (r *GormProductUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductUnitBinding{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearBaseUnit clears the base flag on every binding of the product except keepID
func (r *GormProductUnitRepository) ClearBaseUnit(ctx context.Context, productID, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&catalog.ProductUnitBinding{}).
		Where("product_id = ? AND id <> ? AND is_base_unit = ?", productID, keepID, true).
		Update("is_base_unit", false).Error
}

// CountBaseUnits counts bindings flagged as base unit
func (r *GormProductUnitRepository) CountBaseUnits(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ProductUnitBinding{}).
		Where("product_id = ? AND is_base_unit = ?", productID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.ProductUnitBindingRepository = (*GormProductUnitRepository)(nil)
