package catalog

import (
	"context"
	"errors"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionService manages per-product promotions
type PromotionService struct {
	promotionRepo catalog.PromotionRepository
	productReader catalog.ProductRepository
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promotionRepo catalog.PromotionRepository, productReader catalog.ProductRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		productReader: productReader,
	}
}

// Create creates a promotion for an existing product
func (s *PromotionService) Create(ctx context.Context, req PromotionRequest) (*PromotionResponse, error) {
	if err := s.ensureProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	promotion, err := catalog.NewPromotion(req.ProductID, req.Name, toTerms(req))
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		promotion.Deactivate()
	}

	if err := s.promotionRepo.Save(ctx, promotion); err != nil {
		return nil, err
	}
	response := ToPromotionResponse(promotion)
	return &response, nil
}

// GetByID retrieves a promotion
func (s *PromotionService) GetByID(ctx context.Context, id uuid.UUID) (*PromotionResponse, error) {
	promotion, err := s.promotionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPromotionResponse(promotion)
	return &response, nil
}

// List retrieves promotions, optionally narrowed to one product
func (s *PromotionService) List(ctx context.Context, filter PromotionListFilter) ([]PromotionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.PromotionType != "" {
		domainFilter.Filters["promotion_type"] = filter.PromotionType
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	promotions, err := s.promotionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.promotionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPromotionResponses(promotions), total, nil
}

// Update replaces the name, terms and active flag of a promotion. Invoices
// already created keep the promotion results they were priced with.
func (s *PromotionService) Update(ctx context.Context, id uuid.UUID, req PromotionRequest) (*PromotionResponse, error) {
	promotion, err := s.promotionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ProductID != promotion.ProductID {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "A promotion cannot be moved to another product")
	}

	if err := promotion.Update(req.Name, toTerms(req)); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != promotion.Active {
		if *req.Active {
			promotion.Activate()
		} else {
			promotion.Deactivate()
		}
	}

	if err := s.promotionRepo.Save(ctx, promotion); err != nil {
		return nil, err
	}
	response := ToPromotionResponse(promotion)
	return &response, nil
}

// Delete removes a promotion
func (s *PromotionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.promotionRepo.Delete(ctx, id)
}

func (s *PromotionService) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productReader.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrProductNotFound
		}
		return err
	}
	return nil
}

func toTerms(req PromotionRequest) catalog.PromotionTerms {
	terms := catalog.PromotionTerms{
		Type:               catalog.PromotionType(req.PromotionType),
		BuyQuantity:        req.BuyQuantity,
		GetQuantity:        req.GetQuantity,
		DiscountPercentage: decimal.Zero,
		DiscountAmount:     decimal.Zero,
		MinQuantity:        req.MinQuantity,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
	}
	if req.DiscountPercentage != nil {
		terms.DiscountPercentage = *req.DiscountPercentage
	}
	if req.DiscountAmount != nil {
		terms.DiscountAmount = *req.DiscountAmount
	}
	return terms
}
