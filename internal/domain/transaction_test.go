package domain_test

import (
	"sync"
	"testing"

	"github.com/boddenberg/banco-sim-go/internal/domain"
)

func TestApply_RecordsHistoryOnSuccess(t *testing.T) {
	c, a := newAccount(t)

	if _, err := c.Execute(a, domain.NewDeposit(200)); err != nil {
		t.Fatalf("expected deposit to succeed, got %v", err)
	}
	if _, err := c.Execute(a, domain.NewWithdrawal(80)); err != nil {
		t.Fatalf("expected withdrawal to succeed, got %v", err)
	}

	entries := a.History().Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Kind != domain.KindDeposit || entries[0].Amount != 200 {
		t.Errorf("entry 0: expected deposit of 200, got %s %.2f", entries[0].Kind, entries[0].Amount)
	}
	if entries[1].Kind != domain.KindWithdrawal || entries[1].Amount != 80 {
		t.Errorf("entry 1: expected withdrawal of 80, got %s %.2f", entries[1].Kind, entries[1].Amount)
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Error("expected distinct non-empty entry ids")
	}
	if entries[1].At.Before(entries[0].At) {
		t.Error("expected entries ordered by application time")
	}
}

func TestApply_ReturnsResultingBalance(t *testing.T) {
	c, a := newAccount(t)

	balance, err := c.Execute(a, domain.NewDeposit(200))
	if err != nil {
		t.Fatal(err)
	}
	if balance != 200 {
		t.Errorf("expected deposit to return balance 200, got %.2f", balance)
	}

	balance, err = c.Execute(a, domain.NewWithdrawal(80))
	if err != nil {
		t.Fatal(err)
	}
	if balance != 120 {
		t.Errorf("expected withdrawal to return balance 120, got %.2f", balance)
	}
}

// Each application must report the balance it produced, even when other
// transactions land on the account between the mutation and the caller
// reading the result. Concurrent unit deposits therefore return pairwise
// distinct balances.
func TestApply_ConcurrentDepositsReturnDistinctBalances(t *testing.T) {
	c, a := newAccount(t)

	const n = 100
	var wg sync.WaitGroup
	results := make(chan float64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			balance, err := c.Execute(a, domain.NewDeposit(1))
			if err != nil {
				t.Error(err)
				return
			}
			results <- balance
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[float64]bool, n)
	for balance := range results {
		if seen[balance] {
			t.Fatalf("balance %.2f returned twice", balance)
		}
		seen[balance] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d distinct balances, got %d", n, len(seen))
	}
}

func TestApply_FailedTransactionLeavesNoTrace(t *testing.T) {
	c, a := newAccount(t)

	if _, err := c.Execute(a, domain.NewWithdrawal(50)); err == nil {
		t.Fatal("expected withdrawal on empty account to fail")
	}
	if a.History().Len() != 0 {
		t.Errorf("expected empty history, got %d entries", a.History().Len())
	}
	if a.Balance() != 0 {
		t.Errorf("expected balance 0, got %.2f", a.Balance())
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c, a := newAccount(t)
	if _, err := c.Execute(a, domain.NewDeposit(10)); err != nil {
		t.Fatal(err)
	}

	entries := a.History().Entries()
	entries[0].Amount = 9999

	if got := a.History().Entries()[0].Amount; got != 10 {
		t.Errorf("expected history to be unaffected by caller mutation, got %.2f", got)
	}
}

func TestWithdrawalCount_OnlyCountsWithdrawals(t *testing.T) {
	c, a := newAccount(t)

	for i := 0; i < 5; i++ {
		if _, err := c.Execute(a, domain.NewDeposit(100)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Execute(a, domain.NewWithdrawal(30)); err != nil {
		t.Fatal(err)
	}

	if got := a.History().WithdrawalCount(); got != 1 {
		t.Errorf("expected withdrawal count 1, got %d", got)
	}
}
