// Package synthetix provides the on-chain implementation of the
// CollateralSource port. It reads collateral configurations, token symbols
// and oracle prices from the Synthetix V3 CoreProxy via multicall batching.
package synthetix

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/Synthetixio/v3-data/internal/domain/entity"
	"github.com/Synthetixio/v3-data/internal/pkg/blockchain"
	"github.com/Synthetixio/v3-data/internal/pkg/blockchain/abis"
	"github.com/Synthetixio/v3-data/internal/ports/outbound"
)

// Compile-time check that Client implements outbound.CollateralSource
var _ outbound.CollateralSource = (*Client)(nil)

// ClientConfig holds configuration for the on-chain collateral source.
type ClientConfig struct {
	// Deployment identifies the CoreProxy and Multicall3 addresses for the
	// target network.
	Deployment blockchain.Deployment

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Client fetches collateral data from the core contract. All reads target the
// latest block; schema or decode failures discard the whole batch, there is
// no retry or per-item fallback.
type Client struct {
	deployment  blockchain.Deployment
	multicaller outbound.Multicaller
	coreABI     *abi.ABI
	erc20ABI    *abi.ABI
	logger      *slog.Logger
}

// NewClient creates a new on-chain collateral source.
func NewClient(config ClientConfig, multicaller outbound.Multicaller) (*Client, error) {
	if multicaller == nil {
		return nil, fmt.Errorf("multicaller is required")
	}
	if config.Deployment.CoreProxy == (common.Address{}) {
		return nil, fmt.Errorf("deployment has no core proxy address")
	}

	coreABI, err := abis.GetCoreProxyABI()
	if err != nil {
		return nil, fmt.Errorf("loading core proxy ABI: %w", err)
	}
	erc20ABI, err := abis.GetERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("loading ERC20 ABI: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		deployment:  config.Deployment,
		multicaller: multicaller,
		coreABI:     coreABI,
		erc20ABI:    erc20ABI,
		logger:      logger.With("component", "synthetix-client", "network", config.Deployment.Network),
	}, nil
}

// FetchCollateralTypes loads configurations, then symbols and prices in two
// concurrent batched reads, and joins the three by positional index.
func (c *Client) FetchCollateralTypes(ctx context.Context, includeDelegationDisabled bool) ([]entity.CollateralType, error) {
	configs, err := c.fetchConfigurations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching collateral configurations: %w", err)
	}
	if len(configs) == 0 {
		return []entity.CollateralType{}, nil
	}

	tokens := make([]common.Address, len(configs))
	for i, cfg := range configs {
		tokens[i] = cfg.TokenAddress
	}

	// Symbols and prices are independent round-trips; issue both and await
	// jointly. Either failure discards the whole result.
	var symbols []string
	var prices []*big.Int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		symbols, err = c.fetchSymbols(gctx, tokens)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = c.fetchPrices(gctx, tokens)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	collateralTypes, err := assembleCollateralTypes(configs, symbols, prices)
	if err != nil {
		return nil, err
	}

	filtered := filterCollateralTypes(collateralTypes, includeDelegationDisabled)

	c.logger.Debug("fetched collateral types",
		"configured", len(configs),
		"returned", len(filtered),
		"includeDelegationDisabled", includeDelegationDisabled,
	)

	return filtered, nil
}

// fetchConfigurations reads the full collateral configuration list in one
// getCollateralConfigurations(false) call and validates every record.
func (c *Client) fetchConfigurations(ctx context.Context) ([]entity.CollateralConfiguration, error) {
	callData, err := c.coreABI.Pack("getCollateralConfigurations", false)
	if err != nil {
		return nil, fmt.Errorf("packing getCollateralConfigurations: %w", err)
	}

	calls := []outbound.Call{
		{Target: c.deployment.CoreProxy, AllowFailure: false, CallData: callData},
	}

	results, err := c.multicaller.Execute(ctx, calls, nil)
	if err != nil {
		return nil, fmt.Errorf("executing multicall: %w", err)
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("expected 1 multicall result, got %d", len(results))
	}
	if !results[0].Success {
		return nil, fmt.Errorf("getCollateralConfigurations call failed")
	}

	return c.unpackConfigurations(results[0].ReturnData)
}

func (c *Client) unpackConfigurations(data []byte) ([]entity.CollateralConfiguration, error) {
	unpacked, err := c.coreABI.Unpack("getCollateralConfigurations", data)
	if err != nil {
		return nil, fmt.Errorf("unpacking getCollateralConfigurations: %w", err)
	}

	raw, ok := unpacked[0].([]struct {
		DepositingEnabled    bool           `json:"depositingEnabled"`
		IssuanceRatioD18     *big.Int       `json:"issuanceRatioD18"`
		LiquidationRatioD18  *big.Int       `json:"liquidationRatioD18"`
		LiquidationRewardD18 *big.Int       `json:"liquidationRewardD18"`
		OracleNodeId         [32]byte       `json:"oracleNodeId"`
		TokenAddress         common.Address `json:"tokenAddress"`
		MinDelegationD18     *big.Int       `json:"minDelegationD18"`
	})
	if !ok {
		return nil, fmt.Errorf("unexpected getCollateralConfigurations return type %T", unpacked[0])
	}

	configs := make([]entity.CollateralConfiguration, len(raw))
	for i, r := range raw {
		configs[i] = entity.CollateralConfiguration{
			DepositingEnabled:    r.DepositingEnabled,
			IssuanceRatioD18:     r.IssuanceRatioD18,
			LiquidationRatioD18:  r.LiquidationRatioD18,
			LiquidationRewardD18: r.LiquidationRewardD18,
			MinDelegationD18:     r.MinDelegationD18,
			OracleNodeID:         common.Hash(r.OracleNodeId),
			TokenAddress:         r.TokenAddress,
		}
		if err := configs[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid collateral configuration at index %d (token %s): %w",
				i, r.TokenAddress.Hex(), err)
		}
	}

	return configs, nil
}

// fetchSymbols reads symbol() for every token in one batched multicall.
// Results are positional: symbols[i] belongs to tokens[i].
func (c *Client) fetchSymbols(ctx context.Context, tokens []common.Address) ([]string, error) {
	callData, err := c.erc20ABI.Pack("symbol")
	if err != nil {
		return nil, fmt.Errorf("packing symbol: %w", err)
	}

	calls := make([]outbound.Call, len(tokens))
	for i, token := range tokens {
		calls[i] = outbound.Call{Target: token, AllowFailure: false, CallData: callData}
	}

	results, err := c.multicaller.Execute(ctx, calls, nil)
	if err != nil {
		return nil, fmt.Errorf("executing symbol multicall: %w", err)
	}
	if len(results) != len(tokens) {
		return nil, fmt.Errorf("expected %d symbol results, got %d", len(tokens), len(results))
	}

	symbols := make([]string, len(results))
	for i, r := range results {
		if !r.Success {
			return nil, fmt.Errorf("symbol call failed for token %s", tokens[i].Hex())
		}
		unpacked, err := c.erc20ABI.Unpack("symbol", r.ReturnData)
		if err != nil {
			return nil, fmt.Errorf("unpacking symbol for token %s: %w", tokens[i].Hex(), err)
		}
		symbol, ok := unpacked[0].(string)
		if !ok {
			return nil, fmt.Errorf("unexpected symbol return type %T for token %s", unpacked[0], tokens[i].Hex())
		}
		symbols[i] = symbol
	}

	return symbols, nil
}

// fetchPrices reads getCollateralPrice(token) for every token in one batched
// multicall. Prices are D18 fixed-point integers, positional like symbols.
func (c *Client) fetchPrices(ctx context.Context, tokens []common.Address) ([]*big.Int, error) {
	calls := make([]outbound.Call, len(tokens))
	for i, token := range tokens {
		callData, err := c.coreABI.Pack("getCollateralPrice", token)
		if err != nil {
			return nil, fmt.Errorf("packing getCollateralPrice for token %s: %w", token.Hex(), err)
		}
		calls[i] = outbound.Call{Target: c.deployment.CoreProxy, AllowFailure: false, CallData: callData}
	}

	results, err := c.multicaller.Execute(ctx, calls, nil)
	if err != nil {
		return nil, fmt.Errorf("executing price multicall: %w", err)
	}
	if len(results) != len(tokens) {
		return nil, fmt.Errorf("expected %d price results, got %d", len(tokens), len(results))
	}

	prices := make([]*big.Int, len(results))
	for i, r := range results {
		if !r.Success {
			return nil, fmt.Errorf("getCollateralPrice call failed for token %s", tokens[i].Hex())
		}
		unpacked, err := c.coreABI.Unpack("getCollateralPrice", r.ReturnData)
		if err != nil {
			return nil, fmt.Errorf("unpacking getCollateralPrice for token %s: %w", tokens[i].Hex(), err)
		}
		price, ok := unpacked[0].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("unexpected getCollateralPrice return type %T for token %s", unpacked[0], tokens[i].Hex())
		}
		prices[i] = price
	}

	return prices, nil
}
