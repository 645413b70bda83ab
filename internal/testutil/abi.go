package testutil

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Synthetixio/v3-data/internal/domain/entity"
	"github.com/Synthetixio/v3-data/internal/pkg/blockchain/abis"
)

// PackCollateralConfigurations ABI-encodes configurations as
// getCollateralConfigurations() return data.
func PackCollateralConfigurations(t *testing.T, configs []entity.CollateralConfiguration) []byte {
	t.Helper()
	coreABI, err := abis.GetCoreProxyABI()
	if err != nil {
		t.Fatalf("loading core proxy ABI: %v", err)
	}

	raw := make([]struct {
		DepositingEnabled    bool           `json:"depositingEnabled"`
		IssuanceRatioD18     *big.Int       `json:"issuanceRatioD18"`
		LiquidationRatioD18  *big.Int       `json:"liquidationRatioD18"`
		LiquidationRewardD18 *big.Int       `json:"liquidationRewardD18"`
		OracleNodeId         [32]byte       `json:"oracleNodeId"`
		TokenAddress         common.Address `json:"tokenAddress"`
		MinDelegationD18     *big.Int       `json:"minDelegationD18"`
	}, len(configs))
	for i, cfg := range configs {
		raw[i].DepositingEnabled = cfg.DepositingEnabled
		raw[i].IssuanceRatioD18 = cfg.IssuanceRatioD18
		raw[i].LiquidationRatioD18 = cfg.LiquidationRatioD18
		raw[i].LiquidationRewardD18 = cfg.LiquidationRewardD18
		raw[i].OracleNodeId = [32]byte(cfg.OracleNodeID)
		raw[i].TokenAddress = cfg.TokenAddress
		raw[i].MinDelegationD18 = cfg.MinDelegationD18
	}

	data, err := coreABI.Methods["getCollateralConfigurations"].Outputs.Pack(raw)
	if err != nil {
		t.Fatalf("packing collateral configurations: %v", err)
	}
	return data
}

// PackSymbol ABI-encodes a token symbol as symbol() return data.
func PackSymbol(t *testing.T, symbol string) []byte {
	t.Helper()
	erc20ABI, err := abis.GetERC20ABI()
	if err != nil {
		t.Fatalf("loading ERC20 ABI: %v", err)
	}
	data, err := erc20ABI.Methods["symbol"].Outputs.Pack(symbol)
	if err != nil {
		t.Fatalf("packing symbol: %v", err)
	}
	return data
}

// PackCollateralPrice ABI-encodes a price as getCollateralPrice() return data.
func PackCollateralPrice(t *testing.T, price *big.Int) []byte {
	t.Helper()
	coreABI, err := abis.GetCoreProxyABI()
	if err != nil {
		t.Fatalf("loading core proxy ABI: %v", err)
	}
	data, err := coreABI.Methods["getCollateralPrice"].Outputs.Pack(price)
	if err != nil {
		t.Fatalf("packing price: %v", err)
	}
	return data
}

// MulticallResult matches the multicall3 aggregate3 output tuple.
type MulticallResult struct {
	Success    bool
	ReturnData []byte
}

// PackMulticallAggregate3 ABI-encodes results as aggregate3 return data.
func PackMulticallAggregate3(t *testing.T, results []MulticallResult) []byte {
	t.Helper()
	multicallABI, err := abis.GetMulticall3ABI()
	if err != nil {
		t.Fatalf("loading multicall3 ABI: %v", err)
	}
	raw := make([]struct {
		Success    bool   `json:"success"`
		ReturnData []byte `json:"returnData"`
	}, len(results))
	for i, r := range results {
		raw[i].Success = r.Success
		raw[i].ReturnData = r.ReturnData
	}
	data, err := multicallABI.Methods["aggregate3"].Outputs.Pack(raw)
	if err != nil {
		t.Fatalf("packing aggregate3 results: %v", err)
	}
	return data
}
