// Package notify delivers transaction events to operator-configured
// webhook URLs. Delivery is best-effort: a failed delivery is logged and
// counted but never fails the transaction that produced the event.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/banco-sim-go/internal/domain"
	"github.com/boddenberg/banco-sim-go/internal/infra/observability"
	"github.com/boddenberg/banco-sim-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("infra/notify")

// WebhookNotifier posts transaction events to each configured URL with
// retry, circuit breaker and bulkhead protection. With no URLs configured
// it is a no-op (the teller runs it that way).
type WebhookNotifier struct {
	httpClient *http.Client
	urls       []string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
	timeout    time.Duration
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewWebhookNotifier creates a notifier for the given subscriber URLs.
func NewWebhookNotifier(
	httpClient *http.Client,
	urls []string,
	cb *gobreaker.CircuitBreaker,
	cfg resilience.Config,
	timeout time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *WebhookNotifier {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	return &WebhookNotifier{
		httpClient: httpClient,
		urls:       urls,
		cb:         cb,
		cfg:        cfg,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		timeout:    timeout,
		metrics:    metrics,
		logger:     logger,
	}
}

// Enabled reports whether any subscriber is configured.
func (n *WebhookNotifier) Enabled() bool { return len(n.urls) > 0 }

// Dispatch fans the event out to all subscribers in the background.
// It returns immediately; deliveries must never delay a transaction.
func (n *WebhookNotifier) Dispatch(ctx context.Context, event domain.TransactionEvent) {
	if !n.Enabled() {
		return
	}
	go n.deliverAll(event)
}

func (n *WebhookNotifier) deliverAll(event domain.TransactionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	// Independent deliveries: one failing subscriber must not cancel the rest.
	var g errgroup.Group
	for _, url := range n.urls {
		url := url
		g.Go(func() error {
			return n.deliver(ctx, url, event)
		})
	}
	if err := g.Wait(); err != nil {
		n.logger.Warn("webhook delivery failed",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.Error(err),
		)
	}
}

func (n *WebhookNotifier) deliver(ctx context.Context, url string, event domain.TransactionEvent) error {
	ctx, span := tracer.Start(ctx, "WebhookNotifier.deliver")
	defer span.End()
	span.SetAttributes(
		attribute.String("webhook.url", url),
		attribute.String("event.kind", string(event.Kind)),
	)

	if err := n.bulkhead.Acquire(ctx); err != nil {
		n.metrics.IncrWebhookDelivery("error")
		return err
	}
	defer n.bulkhead.Release()

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = n.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, n.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := n.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 300 {
				return fmt.Errorf("webhook returned status %d", resp.StatusCode)
			}
			return nil
		})
	})
	if err != nil {
		n.metrics.IncrWebhookDelivery("error")
		return err
	}

	n.metrics.IncrWebhookDelivery("success")
	return nil
}
