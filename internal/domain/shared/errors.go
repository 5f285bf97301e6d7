package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
// This lets callers write errors.Is(err, shared.ErrNotFound) against errors
// created with a more specific message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across bounded contexts
const (
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInvalidState           = "INVALID_STATE_TRANSITION"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeUnitNotConfigured      = "UNIT_NOT_CONFIGURED"
	CodeIncompatibleUnitType   = "INCOMPATIBLE_UNIT_TYPE"
	CodeEmptyInvoice           = "EMPTY_INVOICE"
	CodeDuplicateInvoiceNumber = "DUPLICATE_INVOICE_NUMBER"
	CodeProductNotFound        = "PRODUCT_NOT_FOUND"
	CodeCustomerNotFound       = "CUSTOMER_NOT_FOUND"
	CodeUnitNotFound           = "UNIT_NOT_FOUND"
	CodeInvoiceNotFound        = "INVOICE_NOT_FOUND"
	CodeIdempotencyReplay      = "IDEMPOTENCY_REPLAY"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized           = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidState           = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrUnitNotConfigured      = NewDomainError(CodeUnitNotConfigured, "Unit is not configured for this product")
	ErrIncompatibleUnitType   = NewDomainError(CodeIncompatibleUnitType, "Units have different unit types")
	ErrEmptyInvoice           = NewDomainError(CodeEmptyInvoice, "Invoice must contain at least one line")
	ErrDuplicateInvoiceNumber = NewDomainError(CodeDuplicateInvoiceNumber, "Invoice number already exists")
	ErrProductNotFound        = NewDomainError(CodeProductNotFound, "Product not found")
	ErrCustomerNotFound       = NewDomainError(CodeCustomerNotFound, "Customer not found")
	ErrUnitNotFound           = NewDomainError(CodeUnitNotFound, "Unit not found")
	ErrInvoiceNotFound        = NewDomainError(CodeInvoiceNotFound, "Invoice not found")
	ErrIdempotencyReplay      = NewDomainError(CodeIdempotencyReplay, "Request with this idempotency key was already processed")
)

// InsufficientStockError carries the figures behind a failed stock check.
// It unwraps to a DomainError with code INSUFFICIENT_STOCK.
type InsufficientStockError struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int64     `json:"requested"`
	Available   int64     `json:"available"`
}

// NewInsufficientStockError creates an InsufficientStockError
func NewInsufficientStockError(productID uuid.UUID, productName string, requested, available int64) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:   productID,
		ProductName: productName,
		Requested:   requested,
		Available:   available,
	}
}

// Shortfall returns how many base units are missing
func (e *InsufficientStockError) Shortfall() int64 {
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID.String()
	}
	return fmt.Sprintf("Insufficient stock for %s: requested %d, available %d, shortfall %d",
		name, e.Requested, e.Available, e.Shortfall())
}

// Unwrap exposes the DomainError so handlers can map the code
func (e *InsufficientStockError) Unwrap() error {
	return NewDomainError(CodeInsufficientStock, e.Error())
}
