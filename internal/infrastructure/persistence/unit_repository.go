package persistence

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Unit, error) {
	var unit catalog.Unit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &unit, nil
}

// FindByIDs finds several units
func (r *GormUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Unit, error) {
	if len(ids) == 0 {
		return []catalog.Unit{}, nil
	}
	var units []catalog.Unit
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindAll finds units matching the filter
func (r *GormUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Unit, error) {
	var units []catalog.Unit
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Unit{}), filter), filter, unitSort)
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Count counts units matching the filter
func (r *GormUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Unit{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByAbbreviation checks whether the abbreviation is taken
func (r *GormUnitRepository) ExistsByAbbreviation(ctx context.Context, abbreviation string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Unit{}).
		Where("abbreviation = ?", abbreviation).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *catalog.Unit) error {
	err := r.db.WithContext(ctx).Save(unit).Error
	return mapDuplicate(err, shared.CodeAlreadyExists, "Unit abbreviation already exists")
}

// Delete deletes a unit
func (r *GormUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Unit{}, "id = ?", id)
	if result.Error != nil {
		return mapInUse(result.Error, "UNIT_IN_USE", "Unit is referenced by invoice lines")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IsInUse reports whether a product binding references the unit
func (r *GormUnitRepository) IsInUse(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ProductUnitBinding{}).
		Where("unit_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(abbreviation) LIKE ?", pattern, pattern)
	}
	if unitType, ok := filter.Filters["unit_type"].(string); ok && unitType != "" {
		query = query.Where("unit_type = ?", unitType)
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	return query
}

var _ catalog.UnitRepository = (*GormUnitRepository)(nil)
