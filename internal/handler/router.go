package handler

import (
	"net/http"

	"github.com/boddenberg/banco-sim-go/internal/infra/observability"
	"github.com/boddenberg/banco-sim-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(bankSvc *service.BankService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Customers ("novo cliente")
		r.Post("/customers", createCustomerHandler(bankSvc, logger))
		r.Get("/customers/{cpf}", getCustomerHandler(bankSvc, logger))

		// Accounts ("nova conta" / "listar contas")
		r.Post("/customers/{cpf}/accounts", openAccountHandler(bankSvc, logger))
		r.Get("/customers/{cpf}/accounts", listAccountsHandler(bankSvc, logger))
		r.Get("/customers/{cpf}/accounts/{number}", getAccountHandler(bankSvc, logger))
		r.Get("/accounts", listAllAccountsHandler(bankSvc, logger))

		// Transactions ("depositar" / "sacar")
		r.Post("/customers/{cpf}/accounts/{number}/deposits", depositHandler(bankSvc, logger))
		r.Post("/customers/{cpf}/accounts/{number}/withdrawals", withdrawHandler(bankSvc, logger))

		// Statement ("extrato")
		r.Get("/customers/{cpf}/accounts/{number}/statement", statementHandler(bankSvc, logger))

		// Operation counters snapshot
		r.Get("/metrics/summary", metricsSummaryHandler(metrics, logger))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Nothing external to wait for: the registry is in-memory.
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func metricsSummaryHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /metrics/summary")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.OperationsSnapshot())
	}
}
