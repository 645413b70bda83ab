// Package main serves the collateral-type read API for one Synthetix V3
// deployment. It resolves the deployment from CHAIN_ID and PRESET, fetches
// collateral data through multicall batching, and serves it over HTTP behind
// a keyed query cache (Redis when REDIS_ADDR is set, in-memory otherwise).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	inboundhttp "github.com/Synthetixio/v3-data/internal/adapters/inbound/http"
	"github.com/Synthetixio/v3-data/internal/adapters/outbound/memory"
	redisadapter "github.com/Synthetixio/v3-data/internal/adapters/outbound/redis"
	"github.com/Synthetixio/v3-data/internal/adapters/outbound/synthetix"
	"github.com/Synthetixio/v3-data/internal/pkg/blockchain"
	"github.com/Synthetixio/v3-data/internal/pkg/blockchain/multicall"
	"github.com/Synthetixio/v3-data/internal/pkg/env"
	"github.com/Synthetixio/v3-data/internal/ports/outbound"
	"github.com/Synthetixio/v3-data/internal/services/collateral"
)

// Build-time variables - can be set via ldflags, otherwise populated from Go's build info.
var (
	GitCommit string
	BuildTime string
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if GitCommit == "" {
					GitCommit = setting.Value
				}
			case "vcs.time":
				if BuildTime == "" {
					BuildTime = setting.Value
				}
			}
		}
	}
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("collateral-api\n")
		fmt.Printf("  Commit:     %s\n", GitCommit)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.ParseLogLevel(slog.LevelInfo),
	}))
	slog.SetDefault(logger)

	logger.Info("starting collateral-api", "commit", GitCommit)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, logger); err != nil {
		logger.Error("failed", "error", err)
		os.Exit(1)
	}

	logger.Info("stopped")
}

func run(ctx context.Context, logger *slog.Logger) error {
	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		return fmt.Errorf("RPC_URL environment variable is required")
	}

	chainID := env.GetInt("CHAIN_ID", 1)
	preset := env.Get("PRESET", "main")

	deployment, err := blockchain.GetDeployment(chainID, preset)
	if err != nil {
		return err
	}

	ethClient, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("connecting to RPC node: %w", err)
	}
	defer ethClient.Close()

	multicaller, err := multicall.NewClient(ethClient, deployment.Multicall3)
	if err != nil {
		return fmt.Errorf("creating multicall client: %w", err)
	}

	source, err := synthetix.NewClient(synthetix.ClientConfig{
		Deployment: deployment,
		Logger:     logger,
	}, multicaller)
	if err != nil {
		return fmt.Errorf("creating collateral source: %w", err)
	}

	cache, err := createCache(logger)
	if err != nil {
		return fmt.Errorf("creating query cache: %w", err)
	}
	defer cache.Close()

	service, err := collateral.NewService(collateral.ServiceConfig{
		Network: deployment.Network,
		Logger:  logger,
	}, source, cache)
	if err != nil {
		return fmt.Errorf("creating collateral service: %w", err)
	}

	handler := inboundhttp.NewHandler(service, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:         env.Get("HTTP_ADDR", ":8080"),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr, "network", deployment.Network)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return nil
}

// createCache builds the query cache: Redis when REDIS_ADDR is set, otherwise
// an in-memory cache scoped to this process.
func createCache(logger *slog.Logger) (outbound.QueryCache, error) {
	ttl := env.GetDuration("CACHE_TTL", 5*time.Minute)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory cache", "ttl", ttl)
		return memory.NewQueryCache(ttl), nil
	}

	cfg := redisadapter.ConfigDefaults()
	cfg.Addr = redisAddr
	cfg.Password = os.Getenv("REDIS_PASSWORD")
	cfg.DB = int(env.GetInt("REDIS_DB", 0))
	cfg.TTL = ttl

	return redisadapter.NewQueryCache(cfg, logger)
}
