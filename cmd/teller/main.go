// Command teller is the interactive text-menu frontend of the simulator.
// It drives the same service layer as the HTTP API, in-process, with
// state living only for the lifetime of the run.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/boddenberg/banco-sim-go/internal/config"
	"github.com/boddenberg/banco-sim-go/internal/domain"
	"github.com/boddenberg/banco-sim-go/internal/infra/cache"
	"github.com/boddenberg/banco-sim-go/internal/infra/notify"
	"github.com/boddenberg/banco-sim-go/internal/infra/observability"
	"github.com/boddenberg/banco-sim-go/internal/infra/resilience"
	"github.com/boddenberg/banco-sim-go/internal/registry"
	"github.com/boddenberg/banco-sim-go/internal/service"
)

const menuText = `
================ MENU ================
[d]	Depositar
[s]	Sacar
[e]	Extrato
[nc]	Nova conta
[lc]	Listar contas
[nu]	Novo cliente
[q]	Sair
=> `

type teller struct {
	svc *service.BankService
	in  *bufio.Scanner
}

func main() {
	_ = config.LoadDotEnv(".env")
	cfg := config.Load()

	// Keep the console clean unless the operator asks for logs.
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "error"
	}
	logger := observability.NewLogger(level)
	defer logger.Sync()

	metrics := observability.NewMetrics()
	reg := registry.NewInMemory(registry.Settings{
		Branch:         cfg.BranchCode,
		WithdrawLimit:  cfg.WithdrawLimit,
		MaxWithdrawals: cfg.MaxWithdrawals,
	})
	statementCache := cache.New[*domain.Statement](cfg.StatementCacheTTL)

	// No webhook subscribers in teller mode.
	notifier := notify.NewWebhookNotifier(nil, nil, resilience.NewCircuitBreaker("webhooks"), resilience.Config{}, cfg.WebhookTimeout, metrics, logger)

	t := &teller{
		svc: service.NewBankService(reg, statementCache, notifier, metrics, logger),
		in:  bufio.NewScanner(os.Stdin),
	}
	t.run()
}

func (t *teller) run() {
	for {
		switch t.prompt(menuText) {
		case "d":
			t.deposit()
		case "s":
			t.withdraw()
		case "e":
			t.statement()
		case "nc":
			t.newAccount()
		case "lc":
			t.listAccounts()
		case "nu":
			t.newCustomer()
		case "q":
			fmt.Println("\nSaindo do sistema... Obrigado por usar nosso banco!")
			return
		default:
			fmt.Println("\n@@@ Operação inválida, por favor selecione novamente a operação desejada. @@@")
		}
	}
}

func (t *teller) prompt(label string) string {
	fmt.Print(label)
	if !t.in.Scan() {
		// EOF behaves like quitting.
		return "q"
	}
	return strings.TrimSpace(t.in.Text())
}

// selectAccount resolves which of the customer's accounts to operate on.
// One account is picked automatically; with several, the operator chooses
// by 1-based index and is re-prompted until the choice is valid.
func (t *teller) selectAccount(cpf string) (int, bool) {
	accounts, err := t.svc.ListAccounts(context.Background(), cpf)
	if err != nil {
		fmt.Println("\n@@@ Cliente não encontrado! @@@")
		return 0, false
	}
	if len(accounts) == 0 {
		fmt.Println("\n@@@ Cliente não possui conta! @@@")
		return 0, false
	}
	if len(accounts) == 1 {
		return accounts[0].Number, true
	}

	fmt.Println("\nO cliente possui mais de uma conta. Por favor, escolha uma:")
	for i, acct := range accounts {
		fmt.Printf("[%d] Conta Corrente nº: %d\n", i+1, acct.Number)
	}
	for {
		raw := t.prompt("Digite o número da conta desejada: ")
		choice, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Println("\n@@@ Entrada inválida. Por favor, digite um número. @@@")
			continue
		}
		number, err := t.svc.SelectAccountNumber(context.Background(), cpf, choice)
		if err != nil {
			fmt.Println("\n@@@ Opção inválida. Por favor, escolha um número da lista. @@@")
			continue
		}
		return number, true
	}
}

func (t *teller) deposit() {
	cpf := t.prompt("Informe o CPF do cliente: ")
	if _, err := t.svc.GetCustomer(context.Background(), cpf); err != nil {
		fmt.Println("\n@@@ Cliente não encontrado! @@@")
		return
	}

	amount, err := strconv.ParseFloat(t.prompt("Informe o valor do depósito: "), 64)
	if err != nil {
		fmt.Println("\n@@@ Valor inválido! A operação de depósito foi cancelada. @@@")
		return
	}

	number, ok := t.selectAccount(cpf)
	if !ok {
		return
	}

	if _, err := t.svc.Deposit(context.Background(), cpf, number, amount); err != nil {
		fmt.Printf("\n@@@ Operação falhou! %s @@@\n", reason(err))
		return
	}
	fmt.Println("\n=== Depósito realizado com sucesso! ===")
}

func (t *teller) withdraw() {
	cpf := t.prompt("Informe o CPF do cliente: ")
	if _, err := t.svc.GetCustomer(context.Background(), cpf); err != nil {
		fmt.Println("\n@@@ Cliente não encontrado! @@@")
		return
	}

	amount, err := strconv.ParseFloat(t.prompt("Informe o valor do saque: "), 64)
	if err != nil {
		fmt.Println("\n@@@ Valor inválido! A operação de saque foi cancelada. @@@")
		return
	}

	number, ok := t.selectAccount(cpf)
	if !ok {
		return
	}

	if _, err := t.svc.Withdraw(context.Background(), cpf, number, amount); err != nil {
		fmt.Printf("\n@@@ Operação falhou! %s @@@\n", reason(err))
		return
	}
	fmt.Println("\n=== Saque realizado com sucesso! ===")
}

func (t *teller) statement() {
	cpf := t.prompt("Informe o CPF do cliente: ")
	if _, err := t.svc.GetCustomer(context.Background(), cpf); err != nil {
		fmt.Println("\n@@@ Cliente não encontrado! @@@")
		return
	}

	number, ok := t.selectAccount(cpf)
	if !ok {
		return
	}

	st, err := t.svc.Statement(context.Background(), cpf, number)
	if err != nil {
		fmt.Printf("\n@@@ Operação falhou! %s @@@\n", reason(err))
		return
	}

	fmt.Println("\n================ EXTRATO ================")
	if len(st.Entries) == 0 {
		fmt.Println("Não foram realizadas movimentações.")
	} else {
		for _, e := range st.Entries {
			fmt.Printf("%s:\n\tR$ %.2f - %s\n", entryLabel(e.Kind), e.Amount, e.At.Format("02-01-2006 15:04:05"))
		}
	}
	fmt.Printf("\nSaldo:\n\tR$ %.2f\n", st.Balance)
	fmt.Println("==========================================")
}

func (t *teller) newCustomer() {
	cpf := t.prompt("Informe o CPF (somente número): ")
	if _, err := t.svc.GetCustomer(context.Background(), cpf); err == nil {
		fmt.Println("\n@@@ Já existe cliente com esse CPF! @@@")
		return
	}

	name := t.prompt("Informe o nome completo: ")
	birthDate := t.prompt("Informe a data de nascimento (dd-mm-aaaa): ")
	address := t.prompt("Informe o endereço (logradouro, nro - bairro - cidade/sigla estado): ")

	if _, err := t.svc.CreateCustomer(context.Background(), cpf, name, birthDate, address); err != nil {
		fmt.Printf("\n@@@ Operação falhou! %s @@@\n", reason(err))
		return
	}
	fmt.Println("\n=== Cliente criado com sucesso! ===")
}

func (t *teller) newAccount() {
	cpf := t.prompt("Informe o CPF do cliente: ")

	acct, err := t.svc.OpenAccount(context.Background(), cpf)
	if err != nil {
		fmt.Println("\n@@@ Cliente não encontrado. Por favor, crie um novo usuário (opção 'nu') antes de criar uma conta. @@@")
		return
	}

	fmt.Printf("\n=== Conta criada com sucesso! Agência: %s C/C: %d ===\n", acct.Branch, acct.Number)
}

func (t *teller) listAccounts() {
	accounts := t.svc.ListAllAccounts(context.Background())
	if len(accounts) == 0 {
		fmt.Println("\n@@@ Nenhuma conta foi criada ainda. @@@")
		return
	}

	for _, acct := range accounts {
		fmt.Println(strings.Repeat("=", 100))
		fmt.Printf("Agência:\t%s\nC/C:\t\t%d\nTitular:\t%s\n", acct.Branch, acct.Number, acct.HolderName)
	}
}

func entryLabel(kind domain.TransactionKind) string {
	if kind == domain.KindWithdrawal {
		return "Saque"
	}
	return "Depósito"
}

// reason turns a domain error into an operator-facing message.
func reason(err error) string {
	switch err.(type) {
	case *domain.ErrInsufficientFunds:
		return "Você não tem saldo suficiente."
	case *domain.ErrWithdrawalLimitExceeded:
		return "O valor do saque excede o limite."
	case *domain.ErrWithdrawalCountExceeded:
		return "Número máximo de saques excedido."
	case *domain.ErrInvalidAmount:
		return "O valor informado é inválido."
	default:
		return err.Error()
	}
}
