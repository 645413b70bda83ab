package synthetix

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Synthetixio/v3-data/internal/domain/entity"
)

// excludedSymbols are collateral types the upstream configuration still lists
// but that must not surface. sUSDC and its static-yield wrapper carry a known
// bad configuration pending an upstream fix.
// TODO: drop once the sUSDC configuration is corrected on-chain.
var excludedSymbols = map[string]struct{}{
	"sUSDC":     {},
	"stataUSDC": {},
}

// assembleCollateralTypes zips configurations, symbols and prices into
// CollateralType records by positional index.
//
// Invariant: the three slices come from calls built in configuration order,
// so index i of each refers to the same token. The decoded values carry no
// key to cross-check against, so a length mismatch is the only detectable
// ordering fault and fails the whole batch.
func assembleCollateralTypes(
	configs []entity.CollateralConfiguration,
	symbols []string,
	prices []*big.Int,
) ([]entity.CollateralType, error) {
	if len(symbols) != len(configs) || len(prices) != len(configs) {
		return nil, fmt.Errorf("mismatched result lengths: %d configurations, %d symbols, %d prices",
			len(configs), len(symbols), len(prices))
	}

	collateralTypes := make([]entity.CollateralType, 0, len(configs))
	for i, config := range configs {
		ct, err := entity.NewCollateralType(config, symbols[i], displaySymbol(symbols[i]), prices[i])
		if err != nil {
			return nil, fmt.Errorf("building collateral type for token %s: %w", config.TokenAddress.Hex(), err)
		}
		collateralTypes = append(collateralTypes, *ct)
	}

	return collateralTypes, nil
}

// displaySymbol maps a token symbol to its display form. Only WETH is renamed;
// every other symbol passes through unchanged.
func displaySymbol(symbol string) string {
	if symbol == "WETH" {
		return "ETH"
	}
	return symbol
}

// filterCollateralTypes removes the hardcoded exclusions and, unless
// includeDelegationDisabled is set, collateral types whose minimum delegation
// is the delegation-disabled sentinel. Input order is preserved.
func filterCollateralTypes(collateralTypes []entity.CollateralType, includeDelegationDisabled bool) []entity.CollateralType {
	filtered := make([]entity.CollateralType, 0, len(collateralTypes))
	for _, ct := range collateralTypes {
		if isExcludedSymbol(ct.Symbol) {
			continue
		}
		if !includeDelegationDisabled && ct.DelegationDisabled() {
			continue
		}
		filtered = append(filtered, ct)
	}
	return filtered
}

func isExcludedSymbol(symbol string) bool {
	for excluded := range excludedSymbols {
		if strings.EqualFold(symbol, excluded) {
			return true
		}
	}
	return false
}
