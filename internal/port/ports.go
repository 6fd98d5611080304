// Package port defines the interfaces (ports) for the service layer's
// dependencies. Following hexagonal architecture, these ports decouple
// the service layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/banco-sim-go/internal/domain"
)

// Registry is the directory of customers and accounts. The in-memory
// implementation is the only one; a persistent one would be an
// enhancement, not a requirement.
type Registry interface {
	CreateCustomer(cpf, name, birthDate, address string) (*domain.Customer, error)
	FindCustomer(cpf string) (*domain.Customer, error)
	OpenAccount(cpf string) (*domain.CheckingAccount, error)
	Accounts(cpf string) ([]*domain.CheckingAccount, error)
	AllAccounts() []*domain.CheckingAccount
	Account(cpf string, number int) (*domain.CheckingAccount, error)
	SelectAccount(cpf string, choice int) (*domain.CheckingAccount, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// EventNotifier fans transaction events out to subscribers. Delivery is
// best-effort and never fails the transaction that produced the event.
type EventNotifier interface {
	Dispatch(ctx context.Context, event domain.TransactionEvent)
}
