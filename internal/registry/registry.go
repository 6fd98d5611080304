// Package registry provides the in-memory customer and account
// collections that stand in for a database in this simulator. A single
// mutex serializes structural changes (new customers, new accounts);
// balance mutations are guarded per-account in the domain layer.
package registry

import (
	"sync"

	"github.com/boddenberg/banco-sim-go/internal/domain"
)

// Settings carries the defaults applied to every opened account.
type Settings struct {
	Branch         string
	WithdrawLimit  float64
	MaxWithdrawals int
}

// DefaultSettings returns the standard account rules: branch "0001",
// withdrawal limit 500, three withdrawals per account.
func DefaultSettings() Settings {
	return Settings{
		Branch:         domain.DefaultBranch,
		WithdrawLimit:  domain.DefaultWithdrawLimit,
		MaxWithdrawals: domain.DefaultMaxWithdrawals,
	}
}

// InMemory holds all customers and accounts for the lifetime of one run.
// Nothing is persisted and nothing is ever removed.
type InMemory struct {
	mu       sync.Mutex
	settings Settings

	customers []*domain.Customer
	byCPF     map[string]*domain.Customer
	accounts  []*domain.CheckingAccount
}

// NewInMemory creates an empty registry.
func NewInMemory(settings Settings) *InMemory {
	return &InMemory{
		settings: settings,
		byCPF:    make(map[string]*domain.Customer),
	}
}

// CreateCustomer registers a new customer. A duplicate CPF is rejected
// and leaves the registry unchanged.
func (r *InMemory) CreateCustomer(cpf, name, birthDate, address string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCPF[cpf]; exists {
		return nil, &domain.ErrDuplicateCustomer{CPF: cpf}
	}

	c := domain.NewCustomer(cpf, name, birthDate, address)
	r.customers = append(r.customers, c)
	r.byCPF[cpf] = c
	return c, nil
}

// FindCustomer looks up a customer by CPF.
func (r *InMemory) FindCustomer(cpf string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findCustomer(cpf)
}

func (r *InMemory) findCustomer(cpf string) (*domain.Customer, error) {
	c, ok := r.byCPF[cpf]
	if !ok {
		return nil, &domain.ErrCustomerNotFound{CPF: cpf}
	}
	return c, nil
}

// OpenAccount opens a checking account for an existing customer. Numbers
// are assigned monotonically starting at 1 and never reused; removal is
// not supported, so count+1 stays monotonic.
func (r *InMemory) OpenAccount(cpf string) (*domain.CheckingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.findCustomer(cpf)
	if err != nil {
		return nil, err
	}

	number := len(r.accounts) + 1
	acct := domain.NewCheckingAccount(number, r.settings.Branch, c, r.settings.WithdrawLimit, r.settings.MaxWithdrawals)
	r.accounts = append(r.accounts, acct)
	c.AddAccount(acct)
	return acct, nil
}

// Accounts returns the customer's accounts in opening order.
func (r *InMemory) Accounts(cpf string) ([]*domain.CheckingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.findCustomer(cpf)
	if err != nil {
		return nil, err
	}
	return c.Accounts(), nil
}

// AllAccounts returns every account in the registry, in opening order.
func (r *InMemory) AllAccounts() []*domain.CheckingAccount {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.CheckingAccount, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Account finds the customer's account with the given number.
func (r *InMemory) Account(cpf string, number int) (*domain.CheckingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.findCustomer(cpf)
	if err != nil {
		return nil, err
	}
	if c.AccountCount() == 0 {
		return nil, &domain.ErrNoAccountForCustomer{CPF: cpf}
	}
	for _, acct := range c.Accounts() {
		if acct.Number() == number {
			return acct, nil
		}
	}
	return nil, &domain.ErrAccountNotFound{CPF: cpf, Number: number}
}

// SelectAccount picks one of the customer's accounts by a 1-based index.
// With exactly one account the choice is ignored and that account is
// returned. Out-of-range choices are rejected with no side effect.
func (r *InMemory) SelectAccount(cpf string, choice int) (*domain.CheckingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.findCustomer(cpf)
	if err != nil {
		return nil, err
	}

	accounts := c.Accounts()
	switch {
	case len(accounts) == 0:
		return nil, &domain.ErrNoAccountForCustomer{CPF: cpf}
	case len(accounts) == 1:
		return accounts[0], nil
	case choice < 1 || choice > len(accounts):
		return nil, &domain.ErrInvalidAccountSelection{Choice: choice, Count: len(accounts)}
	}
	return accounts[choice-1], nil
}

// CustomerCount returns the number of registered customers.
func (r *InMemory) CustomerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.customers)
}

// AccountCount returns the number of opened accounts.
func (r *InMemory) AccountCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}
