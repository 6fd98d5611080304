package handler

import (
	"net/http"

	"github.com/boddenberg/banco-sim-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Account Handlers
// ============================================================

func openAccountHandler(svc *service.BankService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /customers/{cpf}/accounts")
		defer span.End()

		cpf := chi.URLParam(r, "cpf")
		summary, err := svc.OpenAccount(ctx, cpf)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, summary)
	}
}

func listAccountsHandler(svc *service.BankService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /customers/{cpf}/accounts")
		defer span.End()

		cpf := chi.URLParam(r, "cpf")
		accounts, err := svc.ListAccounts(ctx, cpf)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

func listAllAccountsHandler(svc *service.BankService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /accounts")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.ListAllAccounts(ctx))
	}
}

func getAccountHandler(svc *service.BankService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /customers/{cpf}/accounts/{number}")
		defer span.End()

		cpf := chi.URLParam(r, "cpf")
		number, err := accountNumber(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		summary, err := svc.GetAccount(ctx, cpf, number)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
