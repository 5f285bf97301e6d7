package persistence

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPromotionRepository implements PromotionRepository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// FindByID finds a promotion by its ID
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Promotion, error) {
	var promotion catalog.Promotion
	if err := r.db.WithContext(ctx).First(&promotion, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &promotion, nil
}

// FindAll finds promotions matching the filter
func (r *GormPromotionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Promotion, error) {
	var promotions []catalog.Promotion
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Promotion{}), filter), filter, promotionSort)
	if err := query.Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// Count counts promotions matching the filter
func (r *GormPromotionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Promotion{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActiveByProductIDs returns active promotions of the given products in
// creation order, which is the evaluation order.
func (r *GormPromotionRepository) FindActiveByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]catalog.Promotion, error) {
	if len(productIDs) == 0 {
		return []catalog.Promotion{}, nil
	}
	var promotions []catalog.Promotion
	if err := r.db.WithContext(ctx).
		Where("product_id IN ? AND active = ?", productIDs, true).
		Order("created_at ASC, id ASC").
		Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// Save creates or updates a promotion
func (r *GormPromotionRepository) Save(ctx context.Context, promotion *catalog.Promotion) error {
	return r.db.WithContext(ctx).Save(promotion).Error
}

// Delete deletes a promotion
func (r *GormPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Promotion{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormPromotionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if productID, ok := filter.Filters["product_id"].(uuid.UUID); ok {
		query = query.Where("product_id = ?", productID)
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	if promoType, ok := filter.Filters["promotion_type"].(string); ok && promoType != "" {
		query = query.Where("promotion_type = ?", promoType)
	}
	return query
}

var _ catalog.PromotionRepository = (*GormPromotionRepository)(nil)
