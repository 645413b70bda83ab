package entity

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// maxUint256 is the sentinel the core contract stores as minDelegationD18 when
// delegation is disabled for a collateral type.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// CollateralConfiguration holds the per-asset protocol parameters read from
// the core contract. All D18 fields are fixed-point integers with 18 implied
// decimal places. A configuration is immutable within a fetch cycle.
type CollateralConfiguration struct {
	DepositingEnabled    bool           `json:"depositingEnabled"`
	IssuanceRatioD18     *big.Int       `json:"issuanceRatioD18"`
	LiquidationRatioD18  *big.Int       `json:"liquidationRatioD18"`
	LiquidationRewardD18 *big.Int       `json:"liquidationRewardD18"`
	MinDelegationD18     *big.Int       `json:"minDelegationD18"`
	OracleNodeID         common.Hash    `json:"oracleNodeId"`
	TokenAddress         common.Address `json:"tokenAddress"`
}

// Validate checks that the decoded record matches the expected schema.
// There is no partial-success path: one invalid record fails the whole fetch.
func (c *CollateralConfiguration) Validate() error {
	if c.IssuanceRatioD18 == nil {
		return fmt.Errorf("issuanceRatioD18 must not be nil")
	}
	if c.LiquidationRatioD18 == nil {
		return fmt.Errorf("liquidationRatioD18 must not be nil")
	}
	if c.LiquidationRewardD18 == nil {
		return fmt.Errorf("liquidationRewardD18 must not be nil")
	}
	if c.MinDelegationD18 == nil {
		return fmt.Errorf("minDelegationD18 must not be nil")
	}
	if c.TokenAddress == (common.Address{}) {
		return fmt.Errorf("tokenAddress must not be the zero address")
	}
	return nil
}

// DelegationDisabled reports whether delegation is switched off for this
// collateral type (minDelegationD18 set to the maximum representable value).
func (c *CollateralConfiguration) DelegationDisabled() bool {
	return c.MinDelegationD18 != nil && c.MinDelegationD18.Cmp(maxUint256) == 0
}

// CollateralType is a CollateralConfiguration joined with the token symbol
// and the current oracle price.
type CollateralType struct {
	CollateralConfiguration

	Symbol        string   `json:"symbol"`
	DisplaySymbol string   `json:"displaySymbol"`
	PriceD18      *big.Int `json:"priceD18"`
}

// NewCollateralType creates a CollateralType with validation.
func NewCollateralType(config CollateralConfiguration, symbol, displaySymbol string, priceD18 *big.Int) (*CollateralType, error) {
	ct := &CollateralType{
		CollateralConfiguration: config,
		Symbol:                  symbol,
		DisplaySymbol:           displaySymbol,
		PriceD18:                priceD18,
	}
	if err := ct.Validate(); err != nil {
		return nil, err
	}
	return ct, nil
}

// Validate checks that all fields have valid values.
func (ct *CollateralType) Validate() error {
	if err := ct.CollateralConfiguration.Validate(); err != nil {
		return err
	}
	if ct.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if ct.DisplaySymbol == "" {
		return fmt.Errorf("displaySymbol must not be empty")
	}
	if ct.PriceD18 == nil {
		return fmt.Errorf("priceD18 must not be nil")
	}
	return nil
}

// Price returns the oracle price as a decimal value (priceD18 / 1e18).
func (ct *CollateralType) Price() *big.Float {
	if ct.PriceD18 == nil {
		return big.NewFloat(0)
	}
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	return new(big.Float).Quo(new(big.Float).SetInt(ct.PriceD18), divisor)
}

// MaxUint256 returns the delegation-disabled sentinel value. Callers must not
// mutate the result.
func MaxUint256() *big.Int {
	return maxUint256
}
