package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	catalogapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/catalog"
	partnerapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/partner"
	productionapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/production"
	salesapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// newTestRouter mounts h under /api/v1<domain> with the validator and
// request middleware the real router installs.
func newTestRouter(domain string, h registrar) *gin.Engine {
	middleware.SetupValidator()
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Idempotency(middleware.DefaultIdempotencyConfig()))
	h.RegisterRoutes(r.Group("/api/v1" + domain))
	return r
}

func doRequest(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// MockInvoiceService is a testify mock of InvoiceService
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Quote(ctx context.Context, req salesapp.CreateInvoiceRequest) (*salesapp.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.QuoteResponse), args.Error(1)
}

func (m *MockInvoiceService) Create(ctx context.Context, req salesapp.CreateInvoiceRequest, key string) (*salesapp.InvoiceResponse, error) {
	args := m.Called(ctx, req, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*salesapp.InvoiceResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, filter salesapp.InvoiceListFilter) ([]salesapp.InvoiceListResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]salesapp.InvoiceListResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceService) Update(ctx context.Context, id uuid.UUID, req salesapp.UpdateInvoiceRequest) (*salesapp.InvoiceResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) ChangeStatus(ctx context.Context, id uuid.UUID, req salesapp.ChangeStatusRequest) (*salesapp.InvoiceResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockProductService is a testify mock of ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) product(args mock.Arguments) (*catalogapp.ProductResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	return m.product(m.Called(ctx, req))
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductService) List(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalogapp.ProductResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	return m.product(m.Called(ctx, id, req))
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) Activate(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductService) Deactivate(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	return m.product(m.Called(ctx, id))
}

// MockUnitService is a testify mock of UnitService
type MockUnitService struct {
	mock.Mock
}

func (m *MockUnitService) unit(args mock.Arguments) (*catalogapp.UnitResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.UnitResponse), args.Error(1)
}

func (m *MockUnitService) Create(ctx context.Context, req catalogapp.CreateUnitRequest) (*catalogapp.UnitResponse, error) {
	return m.unit(m.Called(ctx, req))
}

func (m *MockUnitService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.UnitResponse, error) {
	return m.unit(m.Called(ctx, id))
}

func (m *MockUnitService) List(ctx context.Context, filter catalogapp.UnitListFilter) ([]catalogapp.UnitResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalogapp.UnitResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockUnitService) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateUnitRequest) (*catalogapp.UnitResponse, error) {
	return m.unit(m.Called(ctx, id, req))
}

func (m *MockUnitService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUnitService) Convert(ctx context.Context, req catalogapp.ConvertUnitRequest) (*catalogapp.ConvertUnitResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ConvertUnitResponse), args.Error(1)
}

// MockBindingService is a testify mock of BindingService
type MockBindingService struct {
	mock.Mock
}

func (m *MockBindingService) binding(args mock.Arguments) (*catalogapp.BindingResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.BindingResponse), args.Error(1)
}

func (m *MockBindingService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]catalogapp.BindingResponse, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.BindingResponse), args.Error(1)
}

func (m *MockBindingService) Create(ctx context.Context, productID uuid.UUID, req catalogapp.CreateBindingRequest) (*catalogapp.BindingResponse, error) {
	return m.binding(m.Called(ctx, productID, req))
}

func (m *MockBindingService) Update(ctx context.Context, productID, bindingID uuid.UUID, req catalogapp.UpdateBindingRequest) (*catalogapp.BindingResponse, error) {
	return m.binding(m.Called(ctx, productID, bindingID, req))
}

func (m *MockBindingService) Delete(ctx context.Context, productID, bindingID uuid.UUID) error {
	return m.Called(ctx, productID, bindingID).Error(0)
}

func (m *MockBindingService) SetBase(ctx context.Context, productID, bindingID uuid.UUID) (*catalogapp.BindingResponse, error) {
	return m.binding(m.Called(ctx, productID, bindingID))
}

// MockPromotionService is a testify mock of PromotionService
type MockPromotionService struct {
	mock.Mock
}

func (m *MockPromotionService) promotion(args mock.Arguments) (*catalogapp.PromotionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PromotionResponse), args.Error(1)
}

func (m *MockPromotionService) Create(ctx context.Context, req catalogapp.PromotionRequest) (*catalogapp.PromotionResponse, error) {
	return m.promotion(m.Called(ctx, req))
}

func (m *MockPromotionService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.PromotionResponse, error) {
	return m.promotion(m.Called(ctx, id))
}

func (m *MockPromotionService) List(ctx context.Context, filter catalogapp.PromotionListFilter) ([]catalogapp.PromotionResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalogapp.PromotionResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockPromotionService) Update(ctx context.Context, id uuid.UUID, req catalogapp.PromotionRequest) (*catalogapp.PromotionResponse, error) {
	return m.promotion(m.Called(ctx, id, req))
}

func (m *MockPromotionService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCustomerService is a testify mock of CustomerService
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) customer(args mock.Arguments) (*partnerapp.CustomerResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) Create(ctx context.Context, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	return m.customer(m.Called(ctx, req))
}

func (m *MockCustomerService) GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.CustomerResponse, error) {
	return m.customer(m.Called(ctx, id))
}

func (m *MockCustomerService) List(ctx context.Context, filter partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partnerapp.CustomerResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerService) Update(ctx context.Context, id uuid.UUID, req partnerapp.UpdateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	return m.customer(m.Called(ctx, id, req))
}

func (m *MockCustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockProductionService is a testify mock of ProductionService
type MockProductionService struct {
	mock.Mock
}

func (m *MockProductionService) record(args mock.Arguments) (*productionapp.RecordResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productionapp.RecordResponse), args.Error(1)
}

func (m *MockProductionService) Create(ctx context.Context, req productionapp.CreateRecordRequest) (*productionapp.RecordResponse, error) {
	return m.record(m.Called(ctx, req))
}

func (m *MockProductionService) GetByID(ctx context.Context, id uuid.UUID) (*productionapp.RecordResponse, error) {
	return m.record(m.Called(ctx, id))
}

func (m *MockProductionService) List(ctx context.Context, filter productionapp.RecordListFilter) ([]productionapp.RecordResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]productionapp.RecordResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductionService) Complete(ctx context.Context, id uuid.UUID) (*productionapp.RecordResponse, error) {
	return m.record(m.Called(ctx, id))
}

func (m *MockProductionService) Cancel(ctx context.Context, id uuid.UUID) (*productionapp.RecordResponse, error) {
	return m.record(m.Called(ctx, id))
}

var (
	_ InvoiceService    = (*MockInvoiceService)(nil)
	_ ProductService    = (*MockProductService)(nil)
	_ UnitService       = (*MockUnitService)(nil)
	_ BindingService    = (*MockBindingService)(nil)
	_ PromotionService  = (*MockPromotionService)(nil)
	_ CustomerService   = (*MockCustomerService)(nil)
	_ ProductionService = (*MockProductionService)(nil)
)
