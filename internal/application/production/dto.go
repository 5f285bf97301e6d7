package production

import (
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/production"
	"github.com/google/uuid"
)

// CreateRecordRequest registers a new batch
type CreateRecordRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	BatchNumber string    `json:"batch_number" binding:"required,min=1,max=50"`
	Quantity    int64     `json:"quantity" binding:"required,gt=0,lte=1000000000"`
	Notes       string    `json:"notes"`
}

// RecordResponse represents a production record in API responses
type RecordResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	BatchNumber string     `json:"batch_number"`
	Quantity    int64      `json:"quantity"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// RecordListFilter represents filter options for production record list
type RecordListFilter struct {
	Search    string     `form:"search"`
	Status    string     `form:"status" binding:"omitempty,oneof=in_process completed cancelled"`
	ProductID *uuid.UUID `form:"product_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToRecordResponse converts a domain ProductionRecord to RecordResponse
func ToRecordResponse(r *production.ProductionRecord) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		BatchNumber: r.BatchNumber,
		Quantity:    r.Quantity,
		Status:      string(r.Status),
		Notes:       r.Notes,
		CompletedAt: r.CompletedAt,
		CancelledAt: r.CancelledAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// ToRecordResponses converts a slice of records
func ToRecordResponses(records []production.ProductionRecord) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i := range records {
		responses[i] = ToRecordResponse(&records[i])
	}
	return responses
}
