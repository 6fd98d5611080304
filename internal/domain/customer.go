package domain

import "sync"

// Customer is a natural person identified by a unique CPF. Customers own
// an ordered list of accounts and are never deleted in-session.
type Customer struct {
	mu        sync.RWMutex
	cpf       string
	name      string
	birthDate string
	address   string
	accounts  []*CheckingAccount
}

// NewCustomer creates a customer. CPF uniqueness is enforced by the
// registry at creation, not here.
func NewCustomer(cpf, name, birthDate, address string) *Customer {
	return &Customer{
		cpf:       cpf,
		name:      name,
		birthDate: birthDate,
		address:   address,
	}
}

func (c *Customer) CPF() string       { return c.cpf }
func (c *Customer) Name() string      { return c.name }
func (c *Customer) BirthDate() string { return c.birthDate }
func (c *Customer) Address() string   { return c.address }

// AddAccount appends an account to the customer's list. Account numbers
// are globally unique by construction via the registry, so no uniqueness
// check happens here.
func (c *Customer) AddAccount(acct *CheckingAccount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts = append(c.accounts, acct)
}

// Accounts returns a copy of the customer's accounts in opening order.
func (c *Customer) Accounts() []*CheckingAccount {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*CheckingAccount, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// AccountCount returns how many accounts the customer owns.
func (c *Customer) AccountCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.accounts)
}

// Execute runs a transaction against one of the customer's accounts and
// returns the resulting balance. Pure delegation: the transaction applies
// itself.
func (c *Customer) Execute(acct *CheckingAccount, tx Transaction) (float64, error) {
	return tx.Apply(acct)
}
