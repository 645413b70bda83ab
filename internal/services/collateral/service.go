// Package collateral provides the cache-aware accessor over the on-chain
// collateral source. Results are cached per (network, filter) key; any loader
// error propagates unchanged to the caller and is never cached.
package collateral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Synthetixio/v3-data/internal/domain/entity"
	"github.com/Synthetixio/v3-data/internal/ports/inbound"
	"github.com/Synthetixio/v3-data/internal/ports/outbound"
)

const (
	// tracerName is the instrumentation name for this service.
	tracerName = "github.com/Synthetixio/v3-data/internal/services/collateral"
)

// ErrCollateralNotFound is returned when the selector cannot resolve a
// record: either the symbol is unknown or the collection is empty.
var ErrCollateralNotFound = errors.New("collateral type not found")

// Compile-time check that Service implements inbound.CollateralReader
var _ inbound.CollateralReader = (*Service)(nil)

// ServiceConfig holds configuration for the collateral service.
type ServiceConfig struct {
	// Network names the target deployment; it is part of every cache key.
	Network string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Service wraps a CollateralSource in a query cache keyed by network name and
// filter flag. A cache entry is created on first use, expires per the cache
// adapter's TTL, and is refilled on the next read.
type Service struct {
	config ServiceConfig
	source outbound.CollateralSource
	cache  outbound.QueryCache
	logger *slog.Logger
	tracer trace.Tracer
}

// NewService creates a new collateral service.
func NewService(config ServiceConfig, source outbound.CollateralSource, cache outbound.QueryCache) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if config.Network == "" {
		return nil, fmt.Errorf("network is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Service{
		config: config,
		source: source,
		cache:  cache,
		logger: config.Logger.With("component", "collateral-service", "network", config.Network),
		tracer: otel.Tracer(tracerName),
	}, nil
}

// CollateralTypes returns the collateral types for the configured network.
// Cache unavailability degrades to a direct fetch; loader errors propagate.
func (s *Service) CollateralTypes(ctx context.Context, includeDelegationDisabled bool) ([]entity.CollateralType, error) {
	ctx, span := s.tracer.Start(ctx, "CollateralTypes", trace.WithAttributes(
		attribute.String("network", s.config.Network),
		attribute.Bool("includeDelegationDisabled", includeDelegationDisabled),
	))
	defer span.End()

	key := s.cacheKey(includeDelegationDisabled)

	if cached := s.readCache(ctx, key); cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	collateralTypes, err := s.source.FetchCollateralTypes(ctx, includeDelegationDisabled)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	s.writeCache(ctx, key, collateralTypes)

	return collateralTypes, nil
}

// CollateralType selects one record by case-insensitive symbol match. An
// empty symbol selects the first record. The lookup runs against the default
// filter (delegation-disabled collateral excluded).
func (s *Service) CollateralType(ctx context.Context, symbol string) (*entity.CollateralType, error) {
	collateralTypes, err := s.CollateralTypes(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(collateralTypes) == 0 {
		return nil, fmt.Errorf("no collateral types on network %s: %w", s.config.Network, ErrCollateralNotFound)
	}

	if symbol == "" {
		return &collateralTypes[0], nil
	}

	for i := range collateralTypes {
		if strings.EqualFold(collateralTypes[i].Symbol, symbol) {
			return &collateralTypes[i], nil
		}
	}

	return nil, fmt.Errorf("symbol %q on network %s: %w", symbol, s.config.Network, ErrCollateralNotFound)
}

// Invalidate drops both filter variants of the cached collection, forcing the
// next read to refetch. Used on network switch or manual refresh.
func (s *Service) Invalidate(ctx context.Context) error {
	var errs []error
	for _, flag := range []bool{false, true} {
		if err := s.cache.Delete(ctx, s.cacheKey(flag)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ping checks the cache backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

func (s *Service) cacheKey(includeDelegationDisabled bool) string {
	return fmt.Sprintf("collateral-types:%s:%t", s.config.Network, includeDelegationDisabled)
}

// readCache returns the cached collection or nil. Cache errors and stale
// encodings are logged and treated as misses.
func (s *Service) readCache(ctx context.Context, key string) []entity.CollateralType {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed, falling through to fetch", "key", key, "error", err)
		return nil
	}
	if data == nil {
		return nil
	}

	var collateralTypes []entity.CollateralType
	if err := json.Unmarshal(data, &collateralTypes); err != nil {
		s.logger.Warn("cache entry not decodable, refetching", "key", key, "error", err)
		return nil
	}
	return collateralTypes
}

func (s *Service) writeCache(ctx context.Context, key string, collateralTypes []entity.CollateralType) {
	data, err := json.Marshal(collateralTypes)
	if err != nil {
		s.logger.Warn("failed to encode collateral types for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
