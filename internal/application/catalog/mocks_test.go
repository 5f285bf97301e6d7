package catalog

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountLowStock(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type MockBindingRepository struct {
	mock.Mock
}

func (m *MockBindingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductUnitBinding, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductUnitBinding), args.Error(1)
}

func (m *MockBindingRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]catalog.ProductUnitBinding, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.ProductUnitBinding), args.Error(1)
}

func (m *MockBindingRepository) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]catalog.ProductUnitBinding, error) {
	args := m.Called(ctx, productIDs)
	return args.Get(0).(map[uuid.UUID][]catalog.ProductUnitBinding), args.Error(1)
}

func (m *MockBindingRepository) FindByProductAndUnit(ctx context.Context, productID, unitID uuid.UUID) (*catalog.ProductUnitBinding, error) {
	args := m.Called(ctx, productID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductUnitBinding), args.Error(1)
}

func (m *MockBindingRepository) Save(ctx context.Context, binding *catalog.ProductUnitBinding) error {
	return m.Called(ctx, binding).Error(0)
}

func (m *MockBindingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBindingRepository) ClearBaseUnit(ctx context.Context, productID, keepID uuid.UUID) error {
	return m.Called(ctx, productID, keepID).Error(0)
}

func (m *MockBindingRepository) CountBaseUnits(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Promotion, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPromotionRepository) FindActiveByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]catalog.Promotion, error) {
	args := m.Called(ctx, productIDs)
	return args.Get(0).([]catalog.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Save(ctx context.Context, promotion *catalog.Promotion) error {
	return m.Called(ctx, promotion).Error(0)
}

func (m *MockPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Unit, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Unit, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Unit), args.Error(1)
}

func (m *MockUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) ExistsByAbbreviation(ctx context.Context, abbreviation string) (bool, error) {
	args := m.Called(ctx, abbreviation)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *catalog.Unit) error {
	return m.Called(ctx, unit).Error(0)
}

func (m *MockUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUnitRepository) IsInUse(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// inlineTransactor runs the callback against the given repository without a
// real transaction
type inlineTransactor struct {
	bindings catalog.ProductUnitBindingRepository
	calls    int
}

func (t *inlineTransactor) ExecuteBindings(_ context.Context, fn func(catalog.ProductUnitBindingRepository) error) error {
	t.calls++
	return fn(t.bindings)
}
