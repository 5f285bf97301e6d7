package production

import (
	"context"
	"errors"
	"fmt"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/production"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockLifecycle moves a batch out of in_process under a row lock.
// Completion adds the batch quantity to the product's stock.
type StockLifecycle interface {
	CompleteProduction(ctx context.Context, id uuid.UUID) (*production.ProductionRecord, error)
	CancelProduction(ctx context.Context, id uuid.UUID) (*production.ProductionRecord, error)
}

// RecordService handles production batches
type RecordService struct {
	recordRepo    production.ProductionRecordRepository
	productReader catalog.ProductRepository
	lifecycle     StockLifecycle
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewRecordService creates a new RecordService. publisher may be nil.
func NewRecordService(
	recordRepo production.ProductionRecordRepository,
	productReader catalog.ProductRepository,
	lifecycle StockLifecycle,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{
		recordRepo:    recordRepo,
		productReader: productReader,
		lifecycle:     lifecycle,
		publisher:     publisher,
		logger:        logger,
	}
}

// Create registers an in-process batch. Stock is untouched until the batch
// is completed.
func (s *RecordService) Create(ctx context.Context, req CreateRecordRequest) (*RecordResponse, error) {
	if _, err := s.productReader.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, err
	}

	record, err := production.NewProductionRecord(req.ProductID, req.BatchNumber, req.Quantity, req.Notes)
	if err != nil {
		return nil, err
	}
	exists, err := s.recordRepo.ExistsByBatchNumber(ctx, record.BatchNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("Batch number %s already exists", record.BatchNumber))
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("production started",
		zap.String("record_id", record.ID.String()),
		zap.String("batch_number", record.BatchNumber),
		zap.Int64("quantity", record.Quantity),
	)
	s.publish(ctx, record)

	response := ToRecordResponse(record)
	return &response, nil
}

// GetByID retrieves a production record
func (s *RecordService) GetByID(ctx context.Context, id uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// List retrieves production records, newest first by default
func (s *RecordService) List(ctx context.Context, filter RecordListFilter) ([]RecordResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := production.RecordFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Status:    production.RecordStatus(filter.Status),
		ProductID: filter.ProductID,
	}

	records, err := s.recordRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.recordRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToRecordResponses(records), total, nil
}

// Complete adds the batch quantity to stock. A batch completes at most once.
func (s *RecordService) Complete(ctx context.Context, id uuid.UUID) (*RecordResponse, error) {
	record, err := s.lifecycle.CompleteProduction(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// Cancel abandons an in-process batch
func (s *RecordService) Cancel(ctx context.Context, id uuid.UUID) (*RecordResponse, error) {
	record, err := s.lifecycle.CancelProduction(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

func (s *RecordService) publish(ctx context.Context, record *production.ProductionRecord) {
	events := record.GetDomainEvents()
	record.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}
