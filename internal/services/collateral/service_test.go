package collateral

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Synthetixio/v3-data/internal/adapters/outbound/memory"
	"github.com/Synthetixio/v3-data/internal/domain/entity"
)

// stubSource implements outbound.CollateralSource with a canned response and
// a call counter.
type stubSource struct {
	collateralTypes []entity.CollateralType
	err             error
	calls           int
}

func (s *stubSource) FetchCollateralTypes(ctx context.Context, includeDelegationDisabled bool) ([]entity.CollateralType, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.collateralTypes, nil
}

func makeCollateralType(token byte, symbol, display string) entity.CollateralType {
	return entity.CollateralType{
		CollateralConfiguration: entity.CollateralConfiguration{
			DepositingEnabled:    true,
			IssuanceRatioD18:     big.NewInt(3e18),
			LiquidationRatioD18:  big.NewInt(15e17),
			LiquidationRewardD18: big.NewInt(1e17),
			MinDelegationD18:     big.NewInt(1e18),
			OracleNodeID:         common.HexToHash("0x01"),
			TokenAddress:         common.BytesToAddress([]byte{token}),
		},
		Symbol:        symbol,
		DisplaySymbol: display,
		PriceD18:      big.NewInt(1e18),
	}
}

func newTestService(t *testing.T, source *stubSource) *Service {
	t.Helper()
	service, err := NewService(ServiceConfig{Network: "mainnet"}, source, memory.NewQueryCache(time.Minute))
	if err != nil {
		t.Fatalf("creating service: %v", err)
	}
	return service
}

func TestCollateralTypesCachesResult(t *testing.T) {
	source := &stubSource{collateralTypes: []entity.CollateralType{
		makeCollateralType(0x10, "WETH", "ETH"),
		makeCollateralType(0x20, "SNX", "SNX"),
	}}
	service := newTestService(t, source)
	ctx := context.Background()

	first, err := service.CollateralTypes(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 records, got %d", len(first))
	}
	if source.calls != 1 {
		t.Fatalf("expected 1 source call, got %d", source.calls)
	}

	second, err := service.CollateralTypes(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("expected cache hit, source called %d times", source.calls)
	}
	if len(second) != 2 || second[0].Symbol != "WETH" || second[0].DisplaySymbol != "ETH" {
		t.Errorf("cached result does not round-trip: %+v", second)
	}
	if second[0].PriceD18.Cmp(first[0].PriceD18) != 0 {
		t.Errorf("cached price mismatch: %s vs %s", second[0].PriceD18, first[0].PriceD18)
	}
}

func TestCollateralTypesFilterVariantsCachedSeparately(t *testing.T) {
	source := &stubSource{collateralTypes: []entity.CollateralType{
		makeCollateralType(0x10, "SNX", "SNX"),
	}}
	service := newTestService(t, source)
	ctx := context.Background()

	if _, err := service.CollateralTypes(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.CollateralTypes(ctx, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("expected separate cache entries per filter flag, got %d source calls", source.calls)
	}
}

func TestCollateralTypesErrorPropagatesAndIsNotCached(t *testing.T) {
	source := &stubSource{err: errors.New("schema validation failed")}
	service := newTestService(t, source)
	ctx := context.Background()

	if _, err := service.CollateralTypes(ctx, false); err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, err := service.CollateralTypes(ctx, false); err == nil {
		t.Fatal("expected error on second call, got nil")
	}
	if source.calls != 2 {
		t.Errorf("expected errors to bypass the cache, got %d source calls", source.calls)
	}
}

func TestCollateralTypeSelector(t *testing.T) {
	source := &stubSource{collateralTypes: []entity.CollateralType{
		makeCollateralType(0x10, "WETH", "ETH"),
		makeCollateralType(0x20, "SNX", "SNX"),
	}}
	service := newTestService(t, source)
	ctx := context.Background()

	tests := []struct {
		name       string
		symbol     string
		wantSymbol string
		wantErr    bool
	}{
		{name: "exact match", symbol: "SNX", wantSymbol: "SNX"},
		{name: "case-insensitive match", symbol: "snx", wantSymbol: "SNX"},
		{name: "mixed case match", symbol: "wEtH", wantSymbol: "WETH"},
		{name: "empty symbol returns first", symbol: "", wantSymbol: "WETH"},
		{name: "unknown symbol", symbol: "DOGE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := service.CollateralType(ctx, tt.symbol)
			if tt.wantErr {
				if !errors.Is(err, ErrCollateralNotFound) {
					t.Fatalf("expected ErrCollateralNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ct.Symbol != tt.wantSymbol {
				t.Errorf("expected symbol %q, got %q", tt.wantSymbol, ct.Symbol)
			}
		})
	}
}

func TestCollateralTypeEmptyCollection(t *testing.T) {
	source := &stubSource{collateralTypes: []entity.CollateralType{}}
	service := newTestService(t, source)

	_, err := service.CollateralType(context.Background(), "")
	if !errors.Is(err, ErrCollateralNotFound) {
		t.Fatalf("expected ErrCollateralNotFound for empty collection, got %v", err)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	source := &stubSource{collateralTypes: []entity.CollateralType{
		makeCollateralType(0x10, "SNX", "SNX"),
	}}
	service := newTestService(t, source)
	ctx := context.Background()

	if _, err := service.CollateralTypes(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.Invalidate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.CollateralTypes(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("expected refetch after invalidation, got %d source calls", source.calls)
	}
}

func TestNewServiceValidation(t *testing.T) {
	cache := memory.NewQueryCache(time.Minute)
	source := &stubSource{}

	if _, err := NewService(ServiceConfig{Network: "mainnet"}, nil, cache); err == nil {
		t.Error("expected error for nil source")
	}
	if _, err := NewService(ServiceConfig{Network: "mainnet"}, source, nil); err == nil {
		t.Error("expected error for nil cache")
	}
	if _, err := NewService(ServiceConfig{}, source, cache); err == nil {
		t.Error("expected error for empty network")
	}
}
