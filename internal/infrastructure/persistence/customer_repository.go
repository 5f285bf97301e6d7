package persistence

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/partner"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &customer, nil
}

// FindByIDs finds several customers
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Customer, error) {
	if len(ids) == 0 {
		return []partner.Customer{}, nil
	}
	var customers []partner.Customer
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindAll finds customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&partner.Customer{}), filter), filter, customerSort)
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Customer{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByDocumentNumber checks whether the document number is registered
func (r *GormCustomerRepository) ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&partner.Customer{}).
		Where("document_number = ?", documentNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	err := r.db.WithContext(ctx).Save(customer).Error
	return mapDuplicate(err, shared.CodeAlreadyExists, "Document number already registered")
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Customer{}, "id = ?", id)
	if result.Error != nil {
		return mapInUse(result.Error, "CUSTOMER_IN_USE", "Customer is referenced by invoices")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(document_number) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern)
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	return query
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
