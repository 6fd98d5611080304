package domain

// Transaction is the contract every transaction variant fulfils: it holds
// an amount and knows how to apply itself to an account. Apply returns the
// balance the application produced, read under the account lock. On
// success the account's history records it; a failed application has no
// side effect beyond the returned error.
type Transaction interface {
	Amount() float64
	Apply(acct *CheckingAccount) (float64, error)
}

// Withdrawal is an immutable withdrawal request.
type Withdrawal struct {
	amount float64
}

// NewWithdrawal creates a withdrawal transaction.
func NewWithdrawal(amount float64) Withdrawal {
	return Withdrawal{amount: amount}
}

func (w Withdrawal) Amount() float64 { return w.amount }

// Apply debits the account and, on success, appends a withdrawal entry to
// its history. The account rules, the history append and the balance read
// run under the account lock so the withdrawal count and the returned
// balance stay consistent.
func (w Withdrawal) Apply(acct *CheckingAccount) (float64, error) {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	balance, err := acct.withdraw(w.amount)
	if err != nil {
		return balance, err
	}
	acct.history.Append(KindWithdrawal, w.amount)
	return balance, nil
}

// Deposit is an immutable deposit request.
type Deposit struct {
	amount float64
}

// NewDeposit creates a deposit transaction.
func NewDeposit(amount float64) Deposit {
	return Deposit{amount: amount}
}

func (d Deposit) Amount() float64 { return d.amount }

// Apply credits the account and, on success, appends a deposit entry to
// its history.
func (d Deposit) Apply(acct *CheckingAccount) (float64, error) {
	acct.mu.Lock()
	defer acct.mu.Unlock()

	balance, err := acct.deposit(d.amount)
	if err != nil {
		return balance, err
	}
	acct.history.Append(KindDeposit, d.amount)
	return balance, nil
}
