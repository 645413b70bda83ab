package blockchain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Deployment identifies the statically known contract addresses for one
// (chain ID, preset) pair. The set is fixed at build time; resolving an
// unknown pair is an explicit error, never a zero value.
type Deployment struct {
	Network    string
	ChainID    int64
	Preset     string
	CoreProxy  common.Address
	Multicall3 common.Address
}

type deploymentKey struct {
	ChainID int64
	Preset  string
}

var deploymentRegistry = map[deploymentKey]Deployment{
	{1, "main"}: {
		Network:    "mainnet",
		ChainID:    1,
		Preset:     "main",
		CoreProxy:  common.HexToAddress("0xffffffaEff0B96Ea8e4f94b2253f31abdD875847"),
		Multicall3: Multicall3,
	},
	{10, "main"}: {
		Network:    "optimism-mainnet",
		ChainID:    10,
		Preset:     "main",
		CoreProxy:  common.HexToAddress("0xffffffaEff0B96Ea8e4f94b2253f31abdD875847"),
		Multicall3: Multicall3,
	},
	{11155111, "main"}: {
		Network:    "sepolia",
		ChainID:    11155111,
		Preset:     "main",
		CoreProxy:  common.HexToAddress("0xffffffaEff0B96Ea8e4f94b2253f31abdD875847"),
		Multicall3: Multicall3,
	},
	{8453, "andromeda"}: {
		Network:    "base-mainnet-andromeda",
		ChainID:    8453,
		Preset:     "andromeda",
		CoreProxy:  common.HexToAddress("0x32C222A9A159782aFD7529c87FA34b96CA72C696"),
		Multicall3: Multicall3,
	},
	{84532, "andromeda"}: {
		Network:    "base-sepolia-andromeda",
		ChainID:    84532,
		Preset:     "andromeda",
		CoreProxy:  common.HexToAddress("0x764F4C95FDA0D6f8114faC54f6709b1B45f919a1"),
		Multicall3: Multicall3,
	},
	{42161, "main"}: {
		Network:    "arbitrum-mainnet",
		ChainID:    42161,
		Preset:     "main",
		CoreProxy:  common.HexToAddress("0xffffffaEff0B96Ea8e4f94b2253f31abdD875847"),
		Multicall3: Multicall3,
	},
	{421614, "main"}: {
		Network:    "arbitrum-sepolia",
		ChainID:    421614,
		Preset:     "main",
		CoreProxy:  common.HexToAddress("0x76490713314fCEC173f44e99346F54c6e92a8E42"),
		Multicall3: Multicall3,
	},
}

// GetDeployment resolves the deployment for a (chainID, preset) pair.
func GetDeployment(chainID int64, preset string) (Deployment, error) {
	deployment, ok := deploymentRegistry[deploymentKey{ChainID: chainID, Preset: preset}]
	if !ok {
		return Deployment{}, fmt.Errorf("unsupported chainId %d preset %q", chainID, preset)
	}
	return deployment, nil
}

// Deployments returns all known deployments. The result is a copy.
func Deployments() []Deployment {
	out := make([]Deployment, 0, len(deploymentRegistry))
	for _, d := range deploymentRegistry {
		out = append(out, d)
	}
	return out
}
