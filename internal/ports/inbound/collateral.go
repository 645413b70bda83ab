package inbound

import (
	"context"

	"github.com/Synthetixio/v3-data/internal/domain/entity"
)

// CollateralReader is the read API exposed to inbound adapters.
type CollateralReader interface {
	// CollateralTypes returns all collateral types for the configured
	// network, cached per (network, filter) key.
	CollateralTypes(ctx context.Context, includeDelegationDisabled bool) ([]entity.CollateralType, error)

	// CollateralType selects one record by case-insensitive symbol match.
	// An empty symbol selects the first record.
	CollateralType(ctx context.Context, symbol string) (*entity.CollateralType, error)

	// Ping reports whether the service's dependencies are reachable.
	Ping(ctx context.Context) error
}
