package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Synthetixio/v3-data/internal/domain/entity"
	"github.com/Synthetixio/v3-data/internal/services/collateral"
)

// stubReader implements inbound.CollateralReader for handler tests.
type stubReader struct {
	collateralTypes []entity.CollateralType
	fetchErr        error
	pingErr         error

	lastIncludeFlag bool
}

func (s *stubReader) CollateralTypes(ctx context.Context, includeDelegationDisabled bool) ([]entity.CollateralType, error) {
	s.lastIncludeFlag = includeDelegationDisabled
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.collateralTypes, nil
}

func (s *stubReader) CollateralType(ctx context.Context, symbol string) (*entity.CollateralType, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.collateralTypes) == 0 {
		return nil, collateral.ErrCollateralNotFound
	}
	if symbol == "" {
		return &s.collateralTypes[0], nil
	}
	for i := range s.collateralTypes {
		if strings.EqualFold(s.collateralTypes[i].Symbol, symbol) {
			return &s.collateralTypes[i], nil
		}
	}
	return nil, fmt.Errorf("symbol %q: %w", symbol, collateral.ErrCollateralNotFound)
}

func (s *stubReader) Ping(ctx context.Context) error {
	return s.pingErr
}

func makeCollateralType(symbol, display string) entity.CollateralType {
	return entity.CollateralType{
		CollateralConfiguration: entity.CollateralConfiguration{
			DepositingEnabled:    true,
			IssuanceRatioD18:     big.NewInt(3e18),
			LiquidationRatioD18:  big.NewInt(15e17),
			LiquidationRewardD18: big.NewInt(1e17),
			MinDelegationD18:     big.NewInt(1e18),
			OracleNodeID:         common.HexToHash("0x01"),
			TokenAddress:         common.HexToAddress("0x0000000000000000000000000000000000000010"),
		},
		Symbol:        symbol,
		DisplaySymbol: display,
		PriceD18:      big.NewInt(1e18),
	}
}

func newTestServer(reader *stubReader) *httptest.Server {
	handler := NewHandler(reader, nil)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestCollateralTypesEndpoint(t *testing.T) {
	reader := &stubReader{collateralTypes: []entity.CollateralType{
		makeCollateralType("WETH", "ETH"),
		makeCollateralType("SNX", "SNX"),
	}}
	server := newTestServer(reader)
	defer server.Close()

	resp, err := http.Get(server.URL + "/collateral-types")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if reader.lastIncludeFlag {
		t.Error("expected default filter without query parameter")
	}

	var got []entity.CollateralType
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 2 || got[0].DisplaySymbol != "ETH" {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestCollateralTypesEndpointIncludeFlag(t *testing.T) {
	reader := &stubReader{}
	server := newTestServer(reader)
	defer server.Close()

	resp, err := http.Get(server.URL + "/collateral-types?includeDelegationDisabled=true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if !reader.lastIncludeFlag {
		t.Error("expected includeDelegationDisabled flag to pass through")
	}
}

func TestCollateralTypesEndpointUpstreamFailure(t *testing.T) {
	reader := &stubReader{fetchErr: errors.New("schema validation failed")}
	server := newTestServer(reader)
	defer server.Close()

	resp, err := http.Get(server.URL + "/collateral-types")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", resp.StatusCode)
	}
}

func TestCollateralTypeEndpoint(t *testing.T) {
	reader := &stubReader{collateralTypes: []entity.CollateralType{
		makeCollateralType("WETH", "ETH"),
		makeCollateralType("SNX", "SNX"),
	}}
	server := newTestServer(reader)
	defer server.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantSymbol string
	}{
		{name: "exact match", path: "/collateral-types/SNX", wantStatus: http.StatusOK, wantSymbol: "SNX"},
		{name: "case-insensitive match", path: "/collateral-types/snx", wantStatus: http.StatusOK, wantSymbol: "SNX"},
		{name: "unknown symbol", path: "/collateral-types/DOGE", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantSymbol == "" {
				return
			}
			var got entity.CollateralType
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if got.Symbol != tt.wantSymbol {
				t.Errorf("expected symbol %q, got %q", tt.wantSymbol, got.Symbol)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&stubReader{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestHealthEndpointUnhealthy(t *testing.T) {
	server := newTestServer(&stubReader{pingErr: errors.New("connection refused")})
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
}
