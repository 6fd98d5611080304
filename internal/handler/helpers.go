package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/boddenberg/banco-sim-go/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// accountNumber parses the {number} URL parameter.
func accountNumber(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "number")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &domain.ErrValidation{Field: "number", Message: "must be a positive integer"}
	}
	return n, nil
}

// handleServiceError maps domain errors to HTTP responses. Domain errors
// are non-fatal: they become client-visible statuses, never a crash.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var customerNotFound *domain.ErrCustomerNotFound
	var accountNotFound *domain.ErrAccountNotFound
	var noAccount *domain.ErrNoAccountForCustomer
	var duplicate *domain.ErrDuplicateCustomer
	var invalidAmount *domain.ErrInvalidAmount
	var invalidSelection *domain.ErrInvalidAccountSelection
	var validation *domain.ErrValidation
	var insufficientFunds *domain.ErrInsufficientFunds
	var limitExceeded *domain.ErrWithdrawalLimitExceeded
	var countExceeded *domain.ErrWithdrawalCountExceeded

	switch {
	case errors.As(err, &customerNotFound):
		logger.Debug("customer not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &accountNotFound):
		logger.Debug("account not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &noAccount):
		logger.Debug("customer has no accounts", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicate):
		logger.Debug("duplicate customer", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &invalidAmount):
		logger.Debug("invalid amount", zap.Float64("amount", invalidAmount.Amount))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &invalidSelection):
		logger.Debug("invalid account selection", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &insufficientFunds):
		logger.Warn("insufficient funds",
			zap.Float64("available", insufficientFunds.Available),
			zap.Float64("required", insufficientFunds.Required),
		)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &limitExceeded):
		logger.Warn("withdrawal limit exceeded", zap.String("error", err.Error()))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &countExceeded):
		logger.Warn("withdrawal count exceeded", zap.String("error", err.Error()))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
