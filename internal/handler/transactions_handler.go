package handler

import (
	"encoding/json"
	"net/http"

	"github.com/boddenberg/banco-sim-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Transaction & Statement Handlers
// ============================================================

type amountRequest struct {
	Amount float64 `json:"amount"`
}

func depositHandler(svc *service.BankService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /deposits")
		defer span.End()

		cpf := chi.URLParam(r, "cpf")
		number, err := accountNumber(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var req amountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		event, err := svc.Deposit(ctx, cpf, number, req.Amount)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, event)
	}
}

func withdrawHandler(svc *service.BankService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /withdrawals")
		defer span.End()

		cpf := chi.URLParam(r, "cpf")
		number, err := accountNumber(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var req amountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		event, err := svc.Withdraw(ctx, cpf, number, req.Amount)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, event)
	}
}

func statementHandler(svc *service.BankService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /statement")
		defer span.End()

		cpf := chi.URLParam(r, "cpf")
		number, err := accountNumber(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		statement, err := svc.Statement(ctx, cpf, number)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, statement)
	}
}
