package persistence

import (
	"context"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &product, nil
}

// FindByCode finds a product by its code
func (r *GormProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&product).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDsForUpdate loads products ordered by id with SELECT ... FOR UPDATE,
// so concurrent transactions touching overlapping products lock in the same order.
func (r *GormProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Clauses(forUpdate).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	query = paginate(query, filter, productSort)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountLowStock counts active products at or below their minimum stock
func (r *GormProductRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("active = ? AND min_stock > 0 AND stock <= min_stock", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates a product or updates its descriptive columns. Stock is only
// written on insert; afterwards it changes through UpdateStock under a row lock.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&catalog.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"code":        product.Code,
			"name":        product.Name,
			"description": product.Description,
			"base_price":  product.BasePrice,
			"min_stock":   product.MinStock,
			"active":      product.Active,
			"version":     product.Version,
			"updated_at":  product.UpdatedAt,
		})
	if result.Error != nil {
		return mapDuplicate(result.Error, shared.CodeAlreadyExists, "Product code already exists")
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return mapDuplicate(db.Create(product).Error, shared.CodeAlreadyExists, "Product code already exists")
}

// UpdateStock persists the stock and version columns only
func (r *GormProductRepository) UpdateStock(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"stock":      product.Stock,
			"version":    product.Version,
			"updated_at": product.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a product. Bindings and promotions cascade; invoice lines
// and production records keep it alive.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return mapInUse(result.Error, "PRODUCT_IN_USE", "Product is referenced by invoices or production records")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if a product with the given code exists
func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies search and the active/low_stock filters
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	if low, ok := filter.Filters["low_stock"].(bool); ok && low {
		query = query.Where("min_stock > 0 AND stock <= min_stock")
	}
	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
