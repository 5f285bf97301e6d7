package persistence

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/production"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductionRecordRepository implements ProductionRecordRepository using GORM
type GormProductionRecordRepository struct {
	db *gorm.DB
}

// NewGormProductionRecordRepository creates a new GormProductionRecordRepository
func NewGormProductionRecordRepository(db *gorm.DB) *GormProductionRecordRepository {
	return &GormProductionRecordRepository{db: db}
}

// FindByID finds a production record by its ID
func (r *GormProductionRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionRecord, error) {
	var record production.ProductionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &record, nil
}

// FindByIDForUpdate locks the record row until the transaction ends
func (r *GormProductionRecordRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*production.ProductionRecord, error) {
	var record production.ProductionRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&record, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &record, nil
}

// FindAll finds records matching the filter
func (r *GormProductionRecordRepository) FindAll(ctx context.Context, filter production.RecordFilter) ([]production.ProductionRecord, error) {
	var records []production.ProductionRecord
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&production.ProductionRecord{}), filter),
		filter.Filter, productionSort)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts records matching the filter
func (r *GormProductionRecordRepository) Count(ctx context.Context, filter production.RecordFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&production.ProductionRecord{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByBatchNumber checks whether the batch number is taken
func (r *GormProductionRecordRepository) ExistsByBatchNumber(ctx context.Context, batchNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&production.ProductionRecord{}).
		Where("batch_number = ?", batchNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a production record
func (r *GormProductionRecordRepository) Save(ctx context.Context, record *production.ProductionRecord) error {
	err := r.db.WithContext(ctx).Save(record).Error
	return mapDuplicate(err, shared.CodeAlreadyExists, "Batch number already exists")
}

func (r *GormProductionRecordRepository) applyFilter(query *gorm.DB, filter production.RecordFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(batch_number) LIKE ?", likePattern(filter.Search))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	return query
}

var _ production.ProductionRecordRepository = (*GormProductionRecordRepository)(nil)
