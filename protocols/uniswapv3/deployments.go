package uniswapv3

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/walletkit/swapquote-go/chains"
)

// QuoterKind selects the quoter contract generation. Both generations return
// the quoted amount in the first 32 bytes of the result; they differ in the
// single-hop call shape (flat arguments vs a params tuple).
type QuoterKind uint8

const (
	QuoterV1 QuoterKind = iota + 1
	QuoterV2
)

// Deployment is a quoter contract deployment for one (variant, chain) pair.
type Deployment struct {
	Quoter common.Address
	Kind   QuoterKind
}

var deployments = map[Variant]map[uint64]Deployment{
	VariantUniswapV3: {
		chains.Mainnet:  {Quoter: common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6"), Kind: QuoterV1},
		chains.Optimism: {Quoter: common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6"), Kind: QuoterV1},
		chains.Arbitrum: {Quoter: common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6"), Kind: QuoterV1},
		chains.Polygon:  {Quoter: common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6"), Kind: QuoterV1},
		chains.Base:     {Quoter: common.HexToAddress("0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a"), Kind: QuoterV2},
	},
	VariantPancakeV3: {
		chains.BNB:     {Quoter: common.HexToAddress("0xB048Bbc1Ee6b733FFfCFb9e9CeF7375518e25997"), Kind: QuoterV2},
		chains.Mainnet: {Quoter: common.HexToAddress("0xB048Bbc1Ee6b733FFfCFb9e9CeF7375518e25997"), Kind: QuoterV2},
	},
	VariantSushiSwapV3: {
		chains.Mainnet: {Quoter: common.HexToAddress("0x64e8802FE490fa7cc61d3463958199161Bb608A7"), Kind: QuoterV2},
	},
}

// ResolveQuoterAddress returns the quoter deployment for a variant on a chain.
func ResolveQuoterAddress(variant Variant, chainID uint64) (Deployment, error) {
	byChain, ok := deployments[variant]
	if !ok {
		return Deployment{}, fmt.Errorf("%w: %q", ErrUnsupportedVariant, variant)
	}
	dep, ok := byChain[chainID]
	if !ok {
		return Deployment{}, fmt.Errorf("%w: %q has no deployment on chain %d", ErrUnsupportedVariant, variant, chainID)
	}
	return dep, nil
}
