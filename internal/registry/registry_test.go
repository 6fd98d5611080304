package registry_test

import (
	"errors"
	"testing"

	"github.com/boddenberg/banco-sim-go/internal/domain"
	"github.com/boddenberg/banco-sim-go/internal/registry"
)

func newRegistry() *registry.InMemory {
	return registry.NewInMemory(registry.DefaultSettings())
}

func TestCreateCustomer_DuplicateCPFRejected(t *testing.T) {
	r := newRegistry()

	if _, err := r.CreateCustomer("111", "Ana", "01-01-1980", "Rua A"); err != nil {
		t.Fatalf("expected first creation to succeed, got %v", err)
	}

	_, err := r.CreateCustomer("111", "Outra Ana", "02-02-1982", "Rua B")
	var dup *domain.ErrDuplicateCustomer
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicateCustomer, got %v", err)
	}
	if r.CustomerCount() != 1 {
		t.Errorf("expected customer count to stay 1, got %d", r.CustomerCount())
	}
}

func TestFindCustomer_NotFound(t *testing.T) {
	r := newRegistry()

	_, err := r.FindCustomer("999")
	var notFound *domain.ErrCustomerNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestOpenAccount_NumbersMonotonicAcrossCustomers(t *testing.T) {
	r := newRegistry()
	r.CreateCustomer("111", "Ana", "", "")
	r.CreateCustomer("222", "Bruno", "", "")

	owners := []string{"111", "222", "111", "111", "222"}
	for i, cpf := range owners {
		acct, err := r.OpenAccount(cpf)
		if err != nil {
			t.Fatalf("account %d: %v", i+1, err)
		}
		if acct.Number() != i+1 {
			t.Errorf("expected account number %d, got %d", i+1, acct.Number())
		}
	}

	if r.AccountCount() != len(owners) {
		t.Errorf("expected %d accounts, got %d", len(owners), r.AccountCount())
	}
}

func TestOpenAccount_UnknownCustomer(t *testing.T) {
	r := newRegistry()

	_, err := r.OpenAccount("999")
	var notFound *domain.ErrCustomerNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if r.AccountCount() != 0 {
		t.Errorf("expected no accounts, got %d", r.AccountCount())
	}
}

func TestAccount_OwnershipEnforced(t *testing.T) {
	r := newRegistry()
	r.CreateCustomer("111", "Ana", "", "")
	r.CreateCustomer("222", "Bruno", "", "")
	acct, _ := r.OpenAccount("111")

	// Bruno cannot address Ana's account.
	_, err := r.Account("222", acct.Number())
	var noAccount *domain.ErrNoAccountForCustomer
	if !errors.As(err, &noAccount) {
		t.Fatalf("expected ErrNoAccountForCustomer, got %v", err)
	}

	r.OpenAccount("222")
	_, err = r.Account("222", acct.Number())
	var notFound *domain.ErrAccountNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSelectAccount(t *testing.T) {
	r := newRegistry()
	r.CreateCustomer("111", "Ana", "", "")

	// Zero accounts.
	_, err := r.SelectAccount("111", 1)
	var noAccount *domain.ErrNoAccountForCustomer
	if !errors.As(err, &noAccount) {
		t.Fatalf("expected ErrNoAccountForCustomer, got %v", err)
	}

	// Single account: choice is ignored.
	first, _ := r.OpenAccount("111")
	acct, err := r.SelectAccount("111", 42)
	if err != nil {
		t.Fatalf("expected auto-selection with one account, got %v", err)
	}
	if acct.Number() != first.Number() {
		t.Errorf("expected account %d, got %d", first.Number(), acct.Number())
	}

	// Multiple accounts: 1-based index, out-of-range rejected.
	second, _ := r.OpenAccount("111")
	for _, choice := range []int{0, 3, -1} {
		_, err := r.SelectAccount("111", choice)
		var invalid *domain.ErrInvalidAccountSelection
		if !errors.As(err, &invalid) {
			t.Fatalf("choice %d: expected ErrInvalidAccountSelection, got %v", choice, err)
		}
	}

	acct, err = r.SelectAccount("111", 2)
	if err != nil {
		t.Fatalf("expected choice 2 to resolve, got %v", err)
	}
	if acct.Number() != second.Number() {
		t.Errorf("expected account %d, got %d", second.Number(), acct.Number())
	}
}

func TestAllAccounts_OpeningOrder(t *testing.T) {
	r := newRegistry()
	r.CreateCustomer("111", "Ana", "", "")
	r.CreateCustomer("222", "Bruno", "", "")
	r.OpenAccount("222")
	r.OpenAccount("111")
	r.OpenAccount("222")

	all := r.AllAccounts()
	if len(all) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(all))
	}
	for i, acct := range all {
		if acct.Number() != i+1 {
			t.Errorf("position %d: expected number %d, got %d", i, i+1, acct.Number())
		}
	}
}
