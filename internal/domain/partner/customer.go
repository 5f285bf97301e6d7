package partner

import (
	"net/mail"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
)

// Customer is a buyer referenced by invoices
type Customer struct {
	shared.BaseAggregateRoot
	Name           string `gorm:"type:varchar(200);not null"`
	DocumentNumber string `gorm:"type:varchar(30);not null;uniqueIndex"`
	Email          string `gorm:"type:varchar(200)"`
	Phone          string `gorm:"type:varchar(50)"`
	Address        string `gorm:"type:text"`
	Active         bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// ContactInfo holds the optional contact fields of a customer
type ContactInfo struct {
	Email   string
	Phone   string
	Address string
}

// NewCustomer creates an active customer
func NewCustomer(name, documentNumber string, contact ContactInfo) (*Customer, error) {
	name = strings.TrimSpace(name)
	documentNumber = strings.TrimSpace(documentNumber)
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateDocumentNumber(documentNumber); err != nil {
		return nil, err
	}
	if err := validateEmail(contact.Email); err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		DocumentNumber:    documentNumber,
		Email:             strings.TrimSpace(contact.Email),
		Phone:             strings.TrimSpace(contact.Phone),
		Address:           strings.TrimSpace(contact.Address),
		Active:            true,
	}, nil
}

// Update changes the customer's name and contact info. The document number is immutable.
func (c *Customer) Update(name string, contact ContactInfo) error {
	name = strings.TrimSpace(name)
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if err := validateEmail(contact.Email); err != nil {
		return err
	}
	c.Name = name
	c.Email = strings.TrimSpace(contact.Email)
	c.Phone = strings.TrimSpace(contact.Phone)
	c.Address = strings.TrimSpace(contact.Address)
	c.IncrementVersion()
	return nil
}

// Deactivate hides the customer from new invoices
func (c *Customer) Deactivate() {
	c.Active = false
	c.IncrementVersion()
}

// Activate re-enables the customer
func (c *Customer) Activate() {
	c.Active = true
	c.IncrementVersion()
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateDocumentNumber(doc string) error {
	if doc == "" {
		return shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	if len(doc) > 30 {
		return shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot exceed 30 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}
