package outbound

import (
	"context"

	"github.com/Synthetixio/v3-data/internal/domain/entity"
)

// CollateralSource fetches the full set of collateral types for one network.
// Implementations return records in contract declaration order; any schema or
// decode failure discards the whole batch.
type CollateralSource interface {
	FetchCollateralTypes(ctx context.Context, includeDelegationDisabled bool) ([]entity.CollateralType, error)
}
