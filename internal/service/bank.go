// Package service provides the business logic layer (use cases) over the
// in-memory registry: customer onboarding, account opening, deposits,
// withdrawals and statements.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/banco-sim-go/internal/domain"
	"github.com/boddenberg/banco-sim-go/internal/infra/observability"
	"github.com/boddenberg/banco-sim-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var bankTracer = otel.Tracer("service/bank")

// BankService orchestrates all banking operations against the registry.
type BankService struct {
	registry port.Registry
	cache    port.Cache[*domain.Statement]
	notifier port.EventNotifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewBankService creates a bank service with all dependencies injected.
func NewBankService(
	registry port.Registry,
	cache port.Cache[*domain.Statement],
	notifier port.EventNotifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *BankService {
	return &BankService{
		registry: registry,
		cache:    cache,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// ============================================================
// Customers
// ============================================================

// CreateCustomer registers a new customer. Duplicate CPFs are rejected
// with no state change.
func (s *BankService) CreateCustomer(ctx context.Context, cpf, name, birthDate, address string) (*domain.CustomerProfile, error) {
	_, span := bankTracer.Start(ctx, "BankService.CreateCustomer")
	defer span.End()
	span.SetAttributes(attribute.String("customer.cpf", cpf))

	if cpf == "" {
		return nil, &domain.ErrValidation{Field: "cpf", Message: "required"}
	}
	if name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}

	c, err := s.registry.CreateCustomer(cpf, name, birthDate, address)
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.String("cpf", cpf))
	return profileOf(c), nil
}

// GetCustomer returns a customer's profile.
func (s *BankService) GetCustomer(ctx context.Context, cpf string) (*domain.CustomerProfile, error) {
	_, span := bankTracer.Start(ctx, "BankService.GetCustomer")
	defer span.End()

	c, err := s.registry.FindCustomer(cpf)
	if err != nil {
		return nil, err
	}
	return profileOf(c), nil
}

// ============================================================
// Accounts
// ============================================================

// OpenAccount opens a checking account for an existing customer.
func (s *BankService) OpenAccount(ctx context.Context, cpf string) (*domain.AccountSummary, error) {
	_, span := bankTracer.Start(ctx, "BankService.OpenAccount")
	defer span.End()
	span.SetAttributes(attribute.String("customer.cpf", cpf))

	acct, err := s.registry.OpenAccount(cpf)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account opened",
		zap.String("cpf", cpf),
		zap.Int("number", acct.Number()),
	)
	summary := domain.Summarize(acct)
	return &summary, nil
}

// ListAccounts lists the customer's accounts in opening order.
func (s *BankService) ListAccounts(ctx context.Context, cpf string) ([]domain.AccountSummary, error) {
	_, span := bankTracer.Start(ctx, "BankService.ListAccounts")
	defer span.End()

	accounts, err := s.registry.Accounts(cpf)
	if err != nil {
		return nil, err
	}
	return summarize(accounts), nil
}

// ListAllAccounts lists every account in the registry.
func (s *BankService) ListAllAccounts(ctx context.Context) []domain.AccountSummary {
	_, span := bankTracer.Start(ctx, "BankService.ListAllAccounts")
	defer span.End()

	return summarize(s.registry.AllAccounts())
}

// GetAccount returns the listing view of one account.
func (s *BankService) GetAccount(ctx context.Context, cpf string, number int) (*domain.AccountSummary, error) {
	_, span := bankTracer.Start(ctx, "BankService.GetAccount")
	defer span.End()

	acct, err := s.registry.Account(cpf, number)
	if err != nil {
		return nil, err
	}
	summary := domain.Summarize(acct)
	return &summary, nil
}

// SelectAccountNumber resolves a 1-based choice among a customer's
// accounts to an account number. With a single account the choice is
// ignored. Used by interactive callers.
func (s *BankService) SelectAccountNumber(ctx context.Context, cpf string, choice int) (int, error) {
	acct, err := s.registry.SelectAccount(cpf, choice)
	if err != nil {
		return 0, err
	}
	return acct.Number(), nil
}

// ============================================================
// Transactions
// ============================================================

// Deposit credits an account. The resulting event carries the new balance.
func (s *BankService) Deposit(ctx context.Context, cpf string, number int, amount float64) (*domain.TransactionEvent, error) {
	ctx, span := bankTracer.Start(ctx, "BankService.Deposit")
	defer span.End()
	span.SetAttributes(attribute.String("customer.cpf", cpf), attribute.Float64("amount", amount))

	return s.transact(ctx, cpf, number, domain.NewDeposit(amount), domain.KindDeposit)
}

// Withdraw debits an account, subject to the checking rules: the
// per-withdrawal limit is checked before the lifetime withdrawal count,
// then funds, then amount validity.
func (s *BankService) Withdraw(ctx context.Context, cpf string, number int, amount float64) (*domain.TransactionEvent, error) {
	ctx, span := bankTracer.Start(ctx, "BankService.Withdraw")
	defer span.End()
	span.SetAttributes(attribute.String("customer.cpf", cpf), attribute.Float64("amount", amount))

	return s.transact(ctx, cpf, number, domain.NewWithdrawal(amount), domain.KindWithdrawal)
}

func (s *BankService) transact(ctx context.Context, cpf string, number int, tx domain.Transaction, kind domain.TransactionKind) (*domain.TransactionEvent, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(string(kind), time.Since(start)) }()

	acct, err := s.registry.Account(cpf, number)
	if err != nil {
		return nil, err
	}
	staleKey := statementKey(cpf, number, acct.Generation())

	// Pure composition: the customer delegates to the transaction,
	// which applies itself to the account. The returned balance is the
	// one this transaction produced, not whatever the account holds by
	// the time the event is built.
	balance, err := acct.Owner().Execute(acct, tx)
	if err != nil {
		s.metrics.IncrTransaction(kind, "rejected")
		s.logger.Warn("transaction rejected",
			zap.String("cpf", cpf),
			zap.Int("number", number),
			zap.String("kind", string(kind)),
			zap.Float64("amount", tx.Amount()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.IncrTransaction(kind, "success")
	// Eviction is cleanup only: the key embeds the account generation,
	// so a statement rendered for the superseded generation can never be
	// served after this transaction even if it is stored concurrently.
	s.cache.Delete(staleKey)

	event := domain.TransactionEvent{
		ID:            uuid.NewString(),
		CPF:           cpf,
		AccountNumber: number,
		Kind:          kind,
		Amount:        tx.Amount(),
		Balance:       balance,
		At:            time.Now(),
	}
	s.notifier.Dispatch(ctx, event)

	s.logger.Info("transaction applied",
		zap.String("cpf", cpf),
		zap.Int("number", number),
		zap.String("kind", string(kind)),
		zap.Float64("amount", tx.Amount()),
		zap.Float64("balance", event.Balance),
	)
	return &event, nil
}

// ============================================================
// Statements
// ============================================================

// Statement renders an account's history plus current balance. Rendered
// statements are cached per account generation: a successful transaction
// bumps the generation, so a concurrently rendered statement stored after
// the transaction's eviction still lands under a key no reader computes
// anymore.
func (s *BankService) Statement(ctx context.Context, cpf string, number int) (*domain.Statement, error) {
	_, span := bankTracer.Start(ctx, "BankService.Statement")
	defer span.End()
	span.SetAttributes(attribute.String("customer.cpf", cpf), attribute.Int("account.number", number))

	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("statement", time.Since(start)) }()

	acct, err := s.registry.Account(cpf, number)
	if err != nil {
		return nil, err
	}

	key := statementKey(cpf, number, acct.Generation())
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("statement")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("statement")

	st := &domain.Statement{
		Branch:        acct.Branch(),
		AccountNumber: acct.Number(),
		HolderCPF:     acct.Owner().CPF(),
		HolderName:    acct.Owner().Name(),
		Entries:       acct.History().Entries(),
		Balance:       acct.Balance(),
		GeneratedAt:   time.Now(),
	}
	s.cache.Set(key, st)
	return st, nil
}

func statementKey(cpf string, number int, generation uint64) string {
	return fmt.Sprintf("statement:%s:%d:%d", cpf, number, generation)
}

func profileOf(c *domain.Customer) *domain.CustomerProfile {
	numbers := make([]int, 0, c.AccountCount())
	for _, acct := range c.Accounts() {
		numbers = append(numbers, acct.Number())
	}
	return &domain.CustomerProfile{
		CPF:       c.CPF(),
		Name:      c.Name(),
		BirthDate: c.BirthDate(),
		Address:   c.Address(),
		Accounts:  numbers,
	}
}

func summarize(accounts []*domain.CheckingAccount) []domain.AccountSummary {
	out := make([]domain.AccountSummary, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, domain.Summarize(acct))
	}
	return out
}
