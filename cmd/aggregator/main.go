package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/app/service"
	"asset_aggregator/internal/client"
	"asset_aggregator/internal/config"
	"asset_aggregator/internal/infrastructure/restapi"
	"asset_aggregator/internal/observability"
	"asset_aggregator/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger.BridgeSlog(zapLogger)

	zapLogger.Info("Asset aggregation service starting",
		zap.String("defaultProvider", cfg.Aggregator.DefaultProvider))

	metrics := observability.NewMetrics("asset_aggregator")

	// Provider clients. The RPC connection is the caller-owned handle the
	// strategies use for native balances and on-chain account reads.
	birdeyeClient := client.NewBirdeyeClient(cfg.Birdeye, zapLogger)
	heliusClient := client.NewHeliusClient(cfg.Helius, zapLogger)
	rpcClient := client.NewRPCClient(cfg.RPC, zapLogger)
	imageFetcher := client.NewURIFetcher(
		time.Duration(cfg.RPC.RequestTimeoutMillis)*time.Millisecond, zapLogger)

	priceResolver := service.NewPriceService(birdeyeClient, cfg.PriceSvc, metrics, zapLogger)

	providers := map[string]port.AssetProvider{
		service.ProviderBirdeye: service.NewBirdeyeProvider(
			birdeyeClient, rpcClient, zapLogger, cfg.Aggregator.MaxConcurrentBalanceLookups),
		service.ProviderHelius: service.NewHeliusProvider(heliusClient, rpcClient, zapLogger),
		service.ProviderOnchain: service.NewOnchainProvider(
			rpcClient, imageFetcher, priceResolver, zapLogger, cfg.Aggregator.MaxConcurrentBalanceLookups),
	}
	registry, err := service.NewRegistry(providers, cfg.Aggregator.DefaultProvider)
	if err != nil {
		zapLogger.Fatal("Failed to build provider registry", zap.Error(err))
	}
	zapLogger.Info("Provider registry initialized", zap.Strings("providers", registry.Names()))

	assetHandler := restapi.NewAssetHandler(registry, priceResolver)
	router := restapi.SetupRouter(assetHandler, cfg.Server, metrics)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	zapLogger.Info("Shutdown signal received, stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	} else {
		zapLogger.Info("HTTP server stopped")
	}
}
