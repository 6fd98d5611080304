// Package domain holds the core bookkeeping model: customers, checking
// accounts, transactions and their history. Balances are only ever mutated
// through Withdraw and Deposit; every other component goes through those
// two operations.
package domain

import "sync"

// Defaults for checking accounts, applied when the registry opens an
// account without explicit overrides.
const (
	DefaultBranch         = "0001"
	DefaultWithdrawLimit  = 500.0
	DefaultMaxWithdrawals = 3
)

// CheckingAccount is the only account variant. It carries a per-withdrawal
// amount limit and a maximum withdrawal count over the account's lifetime.
// The owning customer is fixed at creation and never transferred.
//
// The mutex serializes balance and history mutation per account.
type CheckingAccount struct {
	mu             sync.Mutex
	number         int
	branch         string
	owner          *Customer
	balance        float64
	generation     uint64
	history        *History
	withdrawLimit  float64
	maxWithdrawals int
}

// NewCheckingAccount creates an account with zero balance for an existing
// customer. The number is assigned by the registry and is never reused.
func NewCheckingAccount(number int, branch string, owner *Customer, withdrawLimit float64, maxWithdrawals int) *CheckingAccount {
	return &CheckingAccount{
		number:         number,
		branch:         branch,
		owner:          owner,
		history:        NewHistory(),
		withdrawLimit:  withdrawLimit,
		maxWithdrawals: maxWithdrawals,
	}
}

func (a *CheckingAccount) Number() int            { return a.number }
func (a *CheckingAccount) Branch() string         { return a.branch }
func (a *CheckingAccount) Owner() *Customer       { return a.owner }
func (a *CheckingAccount) History() *History      { return a.history }
func (a *CheckingAccount) WithdrawLimit() float64 { return a.withdrawLimit }
func (a *CheckingAccount) MaxWithdrawals() int    { return a.maxWithdrawals }

// Balance returns the current balance.
func (a *CheckingAccount) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Generation counts successful transactions against the account. Derived
// snapshots (cached statements) key on it, so a snapshot built for an
// older generation can never be served after a later transaction.
func (a *CheckingAccount) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

// Withdraw debits the account and returns the resulting balance.
// Checking pre-checks run before the base rule, in this order:
// per-withdrawal limit, lifetime withdrawal count, then sufficient funds,
// then positive amount. When both checking pre-checks would fail, the
// limit error wins. No failure mutates balance.
func (a *CheckingAccount) Withdraw(amount float64) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdraw(amount)
}

// Deposit credits the account and returns the resulting balance.
// Non-positive amounts are rejected.
func (a *CheckingAccount) Deposit(amount float64) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deposit(amount)
}

// withdraw applies the withdrawal rules. Caller holds a.mu. The returned
// balance is read inside the critical section so callers see the balance
// this withdrawal produced, not a later one.
func (a *CheckingAccount) withdraw(amount float64) (float64, error) {
	if amount > a.withdrawLimit {
		return a.balance, &ErrWithdrawalLimitExceeded{Limit: a.withdrawLimit, Amount: amount}
	}
	if a.history.WithdrawalCount() >= a.maxWithdrawals {
		return a.balance, &ErrWithdrawalCountExceeded{Max: a.maxWithdrawals}
	}
	if amount > a.balance {
		return a.balance, &ErrInsufficientFunds{Available: a.balance, Required: amount}
	}
	if amount <= 0 {
		return a.balance, &ErrInvalidAmount{Amount: amount}
	}
	a.balance -= amount
	a.generation++
	return a.balance, nil
}

// deposit applies the deposit rule. Caller holds a.mu.
func (a *CheckingAccount) deposit(amount float64) (float64, error) {
	if amount <= 0 {
		return a.balance, &ErrInvalidAmount{Amount: amount}
	}
	a.balance += amount
	a.generation++
	return a.balance, nil
}
