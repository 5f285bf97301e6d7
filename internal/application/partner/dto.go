package partner

import (
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	DocumentNumber string `json:"document_number" binding:"required,min=1,max=30"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Phone          string `json:"phone" binding:"max=50"`
	Address        string `json:"address"`
}

// UpdateCustomerRequest represents a request to update a customer.
// The document number cannot change.
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email   *string `json:"email" binding:"omitempty,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	DocumentNumber string    `json:"document_number"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		Name:           c.Name,
		DocumentNumber: c.DocumentNumber,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}

// ToCustomerResponses converts a slice of domain Customers to responses
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
