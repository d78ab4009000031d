package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"docman/internal/adapter/cache"
	"docman/internal/adapter/repo"
	"docman/internal/domain"
	"docman/internal/http/handlers"
	"docman/internal/http/httpapi"
	"docman/internal/infra"
	"docman/internal/ingestion"
	"docman/internal/processing"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	jobs := repo.NewJobRepository(runner)

	var docs domain.DocumentGateway = repo.NewDocumentGateway(runner)
	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		docs = cache.NewDocumentCache(docs, redisClient, cfg.DocumentCacheTTL, logger)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("document metadata cache enabled")
	}

	client, err := processing.NewClient(processing.Options{
		BaseURL: cfg.ProcessorBaseURL,
		APIKey:  cfg.ProcessorAPIKey,
		Timeout: cfg.ProcessorTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure processing client")
	}

	svc := ingestion.NewService(jobs, docs, client, logger)
	app := handlers.NewApp(svc, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// Let in-flight dispatches record their outcome before the pool closes.
	drained := make(chan struct{})
	go func() {
		svc.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(cfg.ProcessorTimeout + 5*time.Second):
		logger.Warn().Msg("shutdown: dispatches still in flight, giving up")
	}

	logger.Info().Msg("server stopped")
}
