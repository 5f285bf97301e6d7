package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/partner"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByDocumentNumber(ctx, strings.TrimSpace(req.DocumentNumber))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Customer with this document number already exists")
	}

	customer, err := partner.NewCustomer(req.Name, req.DocumentNumber, partner.ContactInfo{
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns one page of customers, alphabetical unless asked otherwise
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	f := filter.domainFilter()
	customers, err := s.customerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

func (filter CustomerListFilter) domainFilter() shared.Filter {
	f := shared.DefaultFilter()
	f.OrderBy, f.OrderDir, f.Search = "name", "asc", filter.Search
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
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}
	return f
}

// Update updates a customer's name, contact info or active flag
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	contact := partner.ContactInfo{Email: customer.Email, Phone: customer.Phone, Address: customer.Address}
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Address != nil {
		contact.Address = *req.Address
	}
	if err := customer.Update(name, contact); err != nil {
		return nil, err
	}

	if req.Active != nil && *req.Active != customer.Active {
		if *req.Active {
			customer.Activate()
		} else {
			customer.Deactivate()
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a customer. Customers referenced by invoices are kept;
// deactivate them instead.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) findCustomer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}
