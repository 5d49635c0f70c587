package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"diyivi/internal/catalog"
	exchangehandler "diyivi/internal/exchange/handler"
	exchangemetrics "diyivi/internal/exchange/metrics"
	exchangeservice "diyivi/internal/exchange/service"
	exchangestore "diyivi/internal/exchange/store"
	"diyivi/internal/platform/config"
	"diyivi/internal/platform/device"
	"diyivi/internal/platform/health"
	"diyivi/internal/platform/logger"
	signaturehandler "diyivi/internal/signature/handler"
	signaturemetrics "diyivi/internal/signature/metrics"
	signatureservice "diyivi/internal/signature/service"
	signaturestore "diyivi/internal/signature/store"
	httptransport "diyivi/internal/transport/http"
	"diyivi/internal/verifier"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing diyivi",
		"addr", cfg.Addr,
		"session_ttl", cfg.SessionTTL.String(),
		"verifier_issuer", cfg.VerifierIssuerID,
	)

	cat := catalog.New(catalog.Default())
	signer := verifier.NewRequestSigner(cfg.VerifierSecret, cfg.VerifierIssuerID, cfg.RequestValidity)
	vf := verifier.WithTimeout(verifier.NewJWTVerifier(cfg.VerifierSecret), cfg.VerifierTimeout)

	exchangeStore := exchangestore.New()
	exchangeSvc := exchangeservice.NewService(exchangeStore, cat, vf, signer, log,
		exchangeservice.WithMetrics(exchangemetrics.New()),
		exchangeservice.WithSessionTTL(cfg.SessionTTL),
	)

	signatureStore := signaturestore.New()
	signatureSvc := signatureservice.NewService(signatureStore, cat, vf, signer, log,
		signatureservice.WithMetrics(signaturemetrics.New()),
		signatureservice.WithSessionTTL(cfg.SessionTTL),
	)

	healthHandler := health.New()
	devices := device.NewService(true)

	router := httptransport.NewRouter(
		exchangehandler.New(exchangeSvc, log),
		signaturehandler.New(signatureSvc, log),
		healthHandler,
		devices,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				exchangeSvc.Sweep(ctx)
				signatureSvc.Sweep(ctx)
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
