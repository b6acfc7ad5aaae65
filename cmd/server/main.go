// Command server runs the GiftFNDR HTTP API.
//
//	@title			GiftFNDR API
//	@version		1.0
//	@description	Gift suggestions for a described recipient, plus short-lived share links.
//	@BasePath		/api
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/giftfndr-backend/docs"
	"github.com/tbourn/giftfndr-backend/internal/clock"
	"github.com/tbourn/giftfndr-backend/internal/config"
	httpapi "github.com/tbourn/giftfndr-backend/internal/http"
	"github.com/tbourn/giftfndr-backend/internal/llm"
	"github.com/tbourn/giftfndr-backend/internal/observability"
	"github.com/tbourn/giftfndr-backend/internal/services"
	"github.com/tbourn/giftfndr-backend/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownGrace = 20 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		return errors.Wrap(err, "tracing")
	}

	store, closeStore, err := openStore(cfg.Share)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := httpapi.NewServices(store, newCompleter(cfg.LLM), clock.Real{}, cfg)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go sweepEvery(ctx, svc.Share, cfg.Share.SweepInterval)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", appVersion).
			Str("share_store", cfg.Share.Store).
			Bool("generator", cfg.LLM.APIKey != "").
			Msg("starting server")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("tracer shutdown")
	}
	log.Info().Str("addr", srv.Addr).Msg("server stopped")
	return nil
}

// newCompleter returns the upstream client, or nil when no API key is set so
// every request is served from the fallback catalog.
func newCompleter(cfg config.LLMConfig) services.Completer {
	if cfg.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set; serving fallback suggestions only")
		return nil
	}
	return llm.New(llm.Options{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	})
}
