// Package metrics exposes Prometheus collectors for the bot runtime.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/coinbot/core/logger"
)

const namespace = "coinbot"

// Registry holds every collector of this package plus Go and process collectors.
var Registry = prometheus.NewRegistry()

var (
	updatesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_received_total",
			Help:      "Telegram updates received, by kind",
		},
		[]string{"kind"},
	)

	handlersHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handlers_handled_total",
			Help:      "Handler invocations, by handler and status",
		},
		[]string{"handler", "status"},
	)

	handlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Handler wall time",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Outbound Telegram calls, by action and status",
		},
		[]string{"action", "status"},
	)

	externalCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_calls_total",
			Help:      "Calls to market data and chart providers, by service, operation and status",
		},
		[]string{"service", "op", "status"},
	)

	externalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_call_duration_seconds",
			Help:      "Duration of provider calls",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "op"},
	)

	sessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Chats with an in-memory session",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		updatesReceived,
		handlersHandled,
		handlerDuration,
		messagesSent,
		externalCalls,
		externalDuration,
		sessions,
	)
}

// RecordUpdate counts an incoming update of the given kind (message, callback, ...).
func RecordUpdate(kind string) {
	updatesReceived.WithLabelValues(kind).Inc()
}

// RecordHandler counts a finished handler and observes its duration.
func RecordHandler(handler, status string, took time.Duration) {
	handlersHandled.WithLabelValues(handler, status).Inc()
	handlerDuration.WithLabelValues(handler).Observe(took.Seconds())
}

// RecordMessageSent counts an outbound Telegram call.
func RecordMessageSent(action, status string) {
	messagesSent.WithLabelValues(action, status).Inc()
}

// RecordExternalCall counts a provider request and observes its duration.
func RecordExternalCall(service, op string, err error, took time.Duration) {
	status := "ok"
	if err != nil {
		status = "fail"
	}
	externalCalls.WithLabelValues(service, op, status).Inc()
	externalDuration.WithLabelValues(service, op).Observe(took.Seconds())
}

// SetSessions publishes the current number of sessions.
func SetSessions(n int) {
	sessions.Set(float64(n))
}

// Serve exposes Registry on listen+path until ctx is done. Empty listen is a no-op.
func Serve(ctx context.Context, listen, path string) error {
	if listen == "" {
		return nil
	}
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, logger.CompMetrics, "metrics.listen",
		slog.String("listen", listen),
		slog.String("url", path),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
