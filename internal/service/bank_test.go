package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/banco-sim-go/internal/domain"
	"github.com/boddenberg/banco-sim-go/internal/infra/cache"
	"github.com/boddenberg/banco-sim-go/internal/infra/observability"
	"github.com/boddenberg/banco-sim-go/internal/registry"
	"github.com/boddenberg/banco-sim-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockNotifier struct {
	mu     sync.Mutex
	events []domain.TransactionEvent
}

func (m *mockNotifier) Dispatch(_ context.Context, event domain.TransactionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockNotifier) Events() []domain.TransactionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.TransactionEvent, len(m.events))
	copy(out, m.events)
	return out
}

func newService(t *testing.T) (*service.BankService, *mockNotifier) {
	t.Helper()
	notifier := &mockNotifier{}
	svc := service.NewBankService(
		registry.NewInMemory(registry.DefaultSettings()),
		cache.New[*domain.Statement](time.Minute),
		notifier,
		observability.NewMetrics(),
		zap.NewNop(),
	)
	return svc, notifier
}

// --- Tests ---

func TestCreateCustomer_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, "", "Ana", "", "")
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for empty cpf, got %v", err)
	}

	_, err = svc.CreateCustomer(ctx, "111", "", "", "")
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
}

func TestDepositAndWithdraw_EmitEvents(t *testing.T) {
	svc, notifier := newService(t)
	ctx := context.Background()

	if _, err := svc.CreateCustomer(ctx, "111", "Ana", "01-01-1990", "Rua A"); err != nil {
		t.Fatal(err)
	}
	acct, err := svc.OpenAccount(ctx, "111")
	if err != nil {
		t.Fatal(err)
	}

	dep, err := svc.Deposit(ctx, "111", acct.Number, 300)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if dep.Balance != 300 || dep.Kind != domain.KindDeposit {
		t.Errorf("unexpected deposit event: %+v", dep)
	}

	wd, err := svc.Withdraw(ctx, "111", acct.Number, 100)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if wd.Balance != 200 || wd.Kind != domain.KindWithdrawal {
		t.Errorf("unexpected withdrawal event: %+v", wd)
	}

	events := notifier.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 dispatched events, got %d", len(events))
	}
	if events[0].ID == events[1].ID {
		t.Error("expected distinct event ids")
	}
}

func TestWithdraw_RejectionEmitsNoEvent(t *testing.T) {
	svc, notifier := newService(t)
	ctx := context.Background()

	svc.CreateCustomer(ctx, "111", "Ana", "", "")
	acct, _ := svc.OpenAccount(ctx, "111")

	_, err := svc.Withdraw(ctx, "111", acct.Number, 50)
	var insufficient *domain.ErrInsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(notifier.Events()) != 0 {
		t.Errorf("expected no events for rejected withdrawal, got %d", len(notifier.Events()))
	}
}

func TestStatement_CachedUntilNextTransaction(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.CreateCustomer(ctx, "111", "Ana", "", "")
	acct, _ := svc.OpenAccount(ctx, "111")
	svc.Deposit(ctx, "111", acct.Number, 100)

	first, err := svc.Statement(ctx, "111", acct.Number)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Statement(ctx, "111", acct.Number)
	if err != nil {
		t.Fatal(err)
	}
	if !first.GeneratedAt.Equal(second.GeneratedAt) {
		t.Error("expected second statement to come from cache")
	}

	// A successful transaction invalidates the cached statement.
	svc.Deposit(ctx, "111", acct.Number, 50)
	third, err := svc.Statement(ctx, "111", acct.Number)
	if err != nil {
		t.Fatal(err)
	}
	if len(third.Entries) != 2 {
		t.Errorf("expected 2 entries after invalidation, got %d", len(third.Entries))
	}
	if third.Balance != 150 {
		t.Errorf("expected balance 150, got %.2f", third.Balance)
	}
}

// gateCache wraps a real cache and blocks the first Set until released,
// reproducing a statement render that finishes after a concurrent
// transaction already evicted the account's cache entry.
type gateCache struct {
	inner   *cache.InMemory[*domain.Statement]
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateCache) Get(key string) (*domain.Statement, bool) { return g.inner.Get(key) }

func (g *gateCache) Set(key string, value *domain.Statement) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	g.inner.Set(key, value)
}

func (g *gateCache) Delete(key string) { g.inner.Delete(key) }

func TestStatement_ConcurrentTransactionNeverServesStaleCache(t *testing.T) {
	gate := &gateCache{
		inner:   cache.New[*domain.Statement](time.Minute),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := service.NewBankService(
		registry.NewInMemory(registry.DefaultSettings()),
		gate,
		&mockNotifier{},
		observability.NewMetrics(),
		zap.NewNop(),
	)
	ctx := context.Background()

	svc.CreateCustomer(ctx, "111", "Ana", "", "")
	acct, _ := svc.OpenAccount(ctx, "111")
	if _, err := svc.Deposit(ctx, "111", acct.Number, 100); err != nil {
		t.Fatal(err)
	}

	// Render a statement at balance 100; its store blocks on the gate.
	rendered := make(chan *domain.Statement, 1)
	go func() {
		st, err := svc.Statement(ctx, "111", acct.Number)
		if err != nil {
			t.Error(err)
		}
		rendered <- st
	}()
	<-gate.entered

	// The deposit lands while the stale statement is still unstored.
	if _, err := svc.Deposit(ctx, "111", acct.Number, 50); err != nil {
		t.Fatal(err)
	}
	close(gate.release)

	stale := <-rendered
	if stale != nil && stale.Balance != 100 {
		t.Fatalf("expected the racing render to have seen balance 100, got %.2f", stale.Balance)
	}

	// The stale store must not be visible to later reads.
	fresh, err := svc.Statement(ctx, "111", acct.Number)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Balance != 150 {
		t.Errorf("expected balance 150 after the concurrent deposit, got %.2f", fresh.Balance)
	}
	if len(fresh.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(fresh.Entries))
	}
}

func TestStatement_RejectedTransactionKeepsCache(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.CreateCustomer(ctx, "111", "Ana", "", "")
	acct, _ := svc.OpenAccount(ctx, "111")
	svc.Deposit(ctx, "111", acct.Number, 100)

	first, _ := svc.Statement(ctx, "111", acct.Number)

	if _, err := svc.Withdraw(ctx, "111", acct.Number, 1000); err == nil {
		t.Fatal("expected withdrawal to be rejected")
	}

	again, _ := svc.Statement(ctx, "111", acct.Number)
	if !first.GeneratedAt.Equal(again.GeneratedAt) {
		t.Error("expected cache to survive a rejected transaction")
	}
}

func TestDeposit_ConcurrentEventsCarryDistinctBalances(t *testing.T) {
	svc, notifier := newService(t)
	ctx := context.Background()

	svc.CreateCustomer(ctx, "111", "Ana", "", "")
	acct, _ := svc.OpenAccount(ctx, "111")

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Deposit(ctx, "111", acct.Number, 1); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	// Each event reports the balance its own deposit produced, so the
	// balances are a permutation of 1..n.
	events := notifier.Events()
	if len(events) != n {
		t.Fatalf("expected %d events, got %d", n, len(events))
	}
	seen := make(map[float64]bool, n)
	for _, e := range events {
		if seen[e.Balance] {
			t.Fatalf("balance %.2f reported twice", e.Balance)
		}
		seen[e.Balance] = true
	}
}

func TestSelectAccountNumber(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.CreateCustomer(ctx, "111", "Ana", "", "")
	svc.OpenAccount(ctx, "111")
	second, _ := svc.OpenAccount(ctx, "111")

	number, err := svc.SelectAccountNumber(ctx, "111", 2)
	if err != nil {
		t.Fatalf("expected selection to succeed, got %v", err)
	}
	if number != second.Number {
		t.Errorf("expected account %d, got %d", second.Number, number)
	}

	_, err = svc.SelectAccountNumber(ctx, "111", 5)
	var invalid *domain.ErrInvalidAccountSelection
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidAccountSelection, got %v", err)
	}
}
