package abis

import "github.com/ethereum/go-ethereum/accounts/abi"

// GetCoreProxyABI returns the ABI for the Synthetix V3 CoreProxy contract,
// limited to the read functions used here: getCollateralConfigurations
// (full collateral parameter list) and getCollateralPrice (D18 oracle price).
func GetCoreProxyABI() (*abi.ABI, error) {
	return ParseABI(`[
		{
			"inputs": [
				{"name": "hideDisabled", "type": "bool"}
			],
			"name": "getCollateralConfigurations",
			"outputs": [
				{
					"components": [
						{"name": "depositingEnabled", "type": "bool"},
						{"name": "issuanceRatioD18", "type": "uint256"},
						{"name": "liquidationRatioD18", "type": "uint256"},
						{"name": "liquidationRewardD18", "type": "uint256"},
						{"name": "oracleNodeId", "type": "bytes32"},
						{"name": "tokenAddress", "type": "address"},
						{"name": "minDelegationD18", "type": "uint256"}
					],
					"name": "collaterals",
					"type": "tuple[]"
				}
			],
			"stateMutability": "view",
			"type": "function"
		},
		{
			"inputs": [
				{"name": "collateralType", "type": "address"}
			],
			"name": "getCollateralPrice",
			"outputs": [
				{"name": "", "type": "uint256"}
			],
			"stateMutability": "view",
			"type": "function"
		}
	]`)
}
