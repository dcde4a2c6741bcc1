package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/tracing"
)

// AppInfo carries everything needed to boot one service instance.
type AppInfo struct {
	ServiceName    string
	Port           int
	JaegerEndpoint string
	Handler        http.Handler
	// Cleanup hooks run in order during shutdown, after the HTTP server has
	// stopped accepting requests. Closing tenant storage belongs here.
	Cleanup []func(ctx context.Context)
}

// StartService runs the HTTP server and blocks until SIGINT/SIGTERM, then
// shuts everything down gracefully.
func StartService(info AppInfo) {
	logger.Init(info.ServiceName)

	tp, err := tracing.InitTracerProvider(info.ServiceName, info.JaegerEndpoint)
	if err != nil {
		logger.Ctx(context.Background()).Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(info.Port),
		Handler:           info.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Ctx(context.Background()).Info().Int("port", info.Port).Msgf("%s listening", info.ServiceName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Ctx(context.Background()).Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Ctx(context.Background()).Info().Msgf("shutting down %s", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("error shutting down http server")
	}

	for _, cleanup := range info.Cleanup {
		cleanup(ctx)
	}

	if err := tp.Shutdown(ctx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("error shutting down tracer provider")
	}

	logger.Ctx(ctx).Info().Msgf("%s gracefully shut down", info.ServiceName)
}
