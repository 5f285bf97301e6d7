package catalog

import (
	"context"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations. Catalog
// changes are published after the save so the audit trail sees them.
type ProductService struct {
	productRepo catalog.ProductRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(productRepo catalog.ProductRepository, publisher shared.EventPublisher, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{productRepo: productRepo, publisher: publisher, logger: logger}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, strings.ToUpper(req.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Product with this code already exists")
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.BasePrice)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	// Opening stock; afterwards stock only moves through invoices and production
	if req.InitialStock != nil {
		if err := product.RestoreStock(*req.InitialStock); err != nil {
			return nil, err
		}
	}

	// the opening state is one creation, not a chain of edits
	product.ClearDomainEvents()
	product.AddDomainEvent(catalog.NewProductCreatedEvent(product))

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List returns one page of products, ordered by code unless asked otherwise
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := filter.domainFilter()
	products, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

func (filter ProductListFilter) domainFilter() shared.Filter {
	f := shared.DefaultFilter()
	f.OrderBy, f.OrderDir = "code", "asc"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}
	if filter.LowStock {
		f.Filters["low_stock"] = true
	}
	return f
}

// Update edits descriptive fields, price and threshold. Stock is not
// editable here; it moves only through invoices and production.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	return s.modify(ctx, productID, func(p *catalog.Product) error {
		if req.Name != nil || req.Description != nil {
			name, description := p.Name, p.Description
			if req.Name != nil {
				name = *req.Name
			}
			if req.Description != nil {
				description = *req.Description
			}
			if err := p.Update(name, description); err != nil {
				return err
			}
		}
		if req.BasePrice != nil {
			if err := p.SetBasePrice(*req.BasePrice); err != nil {
				return err
			}
		}
		if req.MinStock != nil {
			return p.SetMinStock(*req.MinStock)
		}
		return nil
	})
}

// Delete removes a product that no invoice line, binding or promotion
// references; the repository reports PRODUCT_IN_USE otherwise.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	s.publish(ctx, catalog.NewProductDeletedEvent(product.Snapshot()))
	return nil
}

func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.modify(ctx, productID, (*catalog.Product).Activate)
}

// Deactivate hides a product from new sales. Pending invoices keep their lines.
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.modify(ctx, productID, (*catalog.Product).Deactivate)
}

// modify loads a product, applies change and saves the descriptive columns
func (s *ProductService) modify(ctx context.Context, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish product events", zap.Error(err))
	}
}
