package domain

import "time"

// Statement is the printed view of an account: its history plus the
// current balance. It is a snapshot, safe to cache and serialize.
type Statement struct {
	Branch        string         `json:"branch"`
	AccountNumber int            `json:"account_number"`
	HolderCPF     string         `json:"holder_cpf"`
	HolderName    string         `json:"holder_name"`
	Entries       []HistoryEntry `json:"entries"`
	Balance       float64        `json:"balance"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// AccountSummary is the listing view of an account ("listar contas").
type AccountSummary struct {
	Branch         string  `json:"branch"`
	Number         int     `json:"number"`
	HolderCPF      string  `json:"holder_cpf"`
	HolderName     string  `json:"holder_name"`
	Balance        float64 `json:"balance"`
	WithdrawLimit  float64 `json:"withdraw_limit"`
	MaxWithdrawals int     `json:"max_withdrawals"`
}

// CustomerProfile is the serializable view of a customer.
type CustomerProfile struct {
	CPF       string `json:"cpf"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
	Accounts  []int  `json:"accounts"`
}

// TransactionEvent is emitted after every successful transaction, for
// webhook subscribers.
type TransactionEvent struct {
	ID            string          `json:"id"`
	CPF           string          `json:"cpf"`
	AccountNumber int             `json:"account_number"`
	Kind          TransactionKind `json:"kind"`
	Amount        float64         `json:"amount"`
	Balance       float64         `json:"balance"`
	At            time.Time       `json:"at"`
}

// OperationsSummary aggregates operation counters for the summary
// endpoint. Values are cumulative since process start.
type OperationsSummary struct {
	Deposits     int64   `json:"deposits"`
	Withdrawals  int64   `json:"withdrawals"`
	Rejected     int64   `json:"rejected"`
	CacheHitRate float64 `json:"cache_hit_rate"`
	Period       string  `json:"period"`
}

// Summarize builds the listing view of an account.
func Summarize(a *CheckingAccount) AccountSummary {
	return AccountSummary{
		Branch:         a.Branch(),
		Number:         a.Number(),
		HolderCPF:      a.Owner().CPF(),
		HolderName:     a.Owner().Name(),
		Balance:        a.Balance(),
		WithdrawLimit:  a.WithdrawLimit(),
		MaxWithdrawals: a.MaxWithdrawals(),
	}
}
