// Package httptransport assembles the HTTP surface: middleware stack, session
// routes, health probes, and the metrics endpoint.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	exchangehandler "diyivi/internal/exchange/handler"
	"diyivi/internal/platform/device"
	"diyivi/internal/platform/health"
	"diyivi/internal/platform/middleware"
	signaturehandler "diyivi/internal/signature/handler"
)

// NewRouter wires all public endpoints with middleware.
// Uses chi router for better middleware support and routing.
func NewRouter(
	exchange *exchangehandler.Handler,
	signature *signaturehandler.Handler,
	healthHandler *health.Handler,
	devices *device.Service,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Device(devices))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	exchange.Register(r)
	signature.Register(r)
	healthHandler.Register(r)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
