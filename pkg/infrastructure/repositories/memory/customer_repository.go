package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
)

// CustomerRepository provides in-memory customer storage. Customer codes are
// unique alongside IDs.
type CustomerRepository struct {
	customers *table[uuid.UUID, entities.Customer]
	codesMu   sync.Mutex
	codes     map[string]uuid.UUID
}

// NewCustomerRepository creates a new in-memory customer repository
func NewCustomerRepository(expectedCustomers int) *CustomerRepository {
	return &CustomerRepository{
		customers: newTable[uuid.UUID, entities.Customer](expectedCustomers),
		codes:     make(map[string]uuid.UUID, expectedCustomers),
	}
}

// Verify interface compliance
var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// LoadCustomers loads customers into the repository
func (r *CustomerRepository) LoadCustomers(ctx context.Context, customers []*entities.Customer) error {
	for _, customer := range customers {
		if err := r.CreateCustomer(ctx, customer); err != nil {
			return err
		}
	}
	return nil
}

// CreateCustomer stores a customer; ID and code must be unused
func (r *CustomerRepository) CreateCustomer(_ context.Context, customer *entities.Customer) error {
	r.codesMu.Lock()
	defer r.codesMu.Unlock()

	if _, taken := r.codes[customer.Code]; taken {
		return fmt.Errorf("%w: customer code %s", repositories.ErrAlreadyExists, customer.Code)
	}
	if err := r.customers.insert(customer.ID, *customer); err != nil {
		return err
	}
	r.codes[customer.Code] = customer.ID
	return nil
}

// GetCustomer returns a customer by ID
func (r *CustomerRepository) GetCustomer(_ context.Context, id uuid.UUID) (*entities.Customer, error) {
	return r.customers.get(id)
}

// ListCustomers returns customers ordered by opts.Sorts, defaulting to code
func (r *CustomerRepository) ListCustomers(_ context.Context, opts repositories.ListOptions) ([]*entities.Customer, error) {
	return list(r.customers.all(nil), sortfields.Customers, opts, sortfields.DefaultCodeSorts)
}

// DeleteCustomer removes a customer and frees its code
func (r *CustomerRepository) DeleteCustomer(_ context.Context, id uuid.UUID) error {
	r.codesMu.Lock()
	defer r.codesMu.Unlock()

	customer, err := r.customers.get(id)
	if err != nil {
		return err
	}
	if err := r.customers.delete(id); err != nil {
		return err
	}
	delete(r.codes, customer.Code)
	return nil
}
