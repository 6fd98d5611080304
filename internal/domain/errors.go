package domain

import "fmt"

// Error types for consistent error handling across the simulator.
// All domain errors are non-fatal: callers report them and carry on.

// ErrCustomerNotFound indicates no customer is registered under a CPF.
type ErrCustomerNotFound struct {
	CPF string
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer not found: %s", e.CPF)
}

// ErrDuplicateCustomer indicates the CPF is already registered.
type ErrDuplicateCustomer struct {
	CPF string
}

func (e *ErrDuplicateCustomer) Error() string {
	return fmt.Sprintf("customer already registered: %s", e.CPF)
}

// ErrAccountNotFound indicates the customer owns no account with that number.
type ErrAccountNotFound struct {
	CPF    string
	Number int
}

func (e *ErrAccountNotFound) Error() string {
	return fmt.Sprintf("account %d not found for customer %s", e.Number, e.CPF)
}

// ErrNoAccountForCustomer indicates the customer owns zero accounts
// when an operation requires one.
type ErrNoAccountForCustomer struct {
	CPF string
}

func (e *ErrNoAccountForCustomer) Error() string {
	return fmt.Sprintf("customer %s has no accounts", e.CPF)
}

// ErrInvalidAmount indicates a non-positive transaction amount.
type ErrInvalidAmount struct {
	Amount float64
}

func (e *ErrInvalidAmount) Error() string {
	return fmt.Sprintf("invalid amount: %.2f", e.Amount)
}

// ErrInsufficientFunds indicates a withdrawal exceeds the balance.
type ErrInsufficientFunds struct {
	Available float64
	Required  float64
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: available=%.2f required=%.2f", e.Available, e.Required)
}

// ErrWithdrawalLimitExceeded indicates the amount is over the
// per-withdrawal limit of a checking account.
type ErrWithdrawalLimitExceeded struct {
	Limit  float64
	Amount float64
}

func (e *ErrWithdrawalLimitExceeded) Error() string {
	return fmt.Sprintf("withdrawal limit exceeded: limit=%.2f requested=%.2f", e.Limit, e.Amount)
}

// ErrWithdrawalCountExceeded indicates the account already reached its
// maximum number of withdrawals.
type ErrWithdrawalCountExceeded struct {
	Max int
}

func (e *ErrWithdrawalCountExceeded) Error() string {
	return fmt.Sprintf("maximum number of withdrawals exceeded: max=%d", e.Max)
}

// ErrInvalidAccountSelection indicates an out-of-range choice among a
// customer's accounts.
type ErrInvalidAccountSelection struct {
	Choice int
	Count  int
}

func (e *ErrInvalidAccountSelection) Error() string {
	return fmt.Sprintf("invalid account selection: choice=%d accounts=%d", e.Choice, e.Count)
}

// ErrValidation indicates malformed input (bad request body, missing field).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
