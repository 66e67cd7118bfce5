package tokenregistry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/walletkit/swapquote-go/chains"
)

var (
	ErrNoWrappedNative = errors.New("tokenregistry: no wrapped native token for chain")
	ErrUnknownToken    = errors.New("tokenregistry: unknown token")
)

// Token is a safe, structured representation of a token's data for external use.
type Token struct {
	Address  common.Address `json:"address"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
}

// wrappedNative maps a chain ID to its wrapped native asset, the bridge token
// used for multi-hop routing on that chain.
var wrappedNative = map[uint64]Token{
	chains.Mainnet:  {Address: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
	chains.Optimism: {Address: common.HexToAddress("0x4200000000000000000000000000000000000006"), Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
	chains.BNB:      {Address: common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEF60aF814a3f6F0Ee75"), Name: "Wrapped BNB", Symbol: "WBNB", Decimals: 18},
	chains.Polygon:  {Address: common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"), Name: "Wrapped Matic", Symbol: "WMATIC", Decimals: 18},
	chains.Base:     {Address: common.HexToAddress("0x4200000000000000000000000000000000000006"), Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
	chains.Arbitrum: {Address: common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
}

// known is a small curated token table per chain, keyed by upper-case symbol.
// It exists for CLI/console convenience; the quoting core itself accepts any
// address and never consults it.
var known = map[uint64]map[string]Token{
	chains.Mainnet: {
		"WETH": wrappedNative[chains.Mainnet],
		"USDC": {Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Name: "USD Coin", Symbol: "USDC", Decimals: 6},
		"USDT": {Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Name: "Tether USD", Symbol: "USDT", Decimals: 6},
		"DAI":  {Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Name: "Dai Stablecoin", Symbol: "DAI", Decimals: 18},
		"WBTC": {Address: common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), Name: "Wrapped BTC", Symbol: "WBTC", Decimals: 8},
	},
	chains.Optimism: {
		"WETH": wrappedNative[chains.Optimism],
		"USDC": {Address: common.HexToAddress("0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"), Name: "USD Coin", Symbol: "USDC", Decimals: 6},
	},
	chains.BNB: {
		"WBNB": wrappedNative[chains.BNB],
		"USDT": {Address: common.HexToAddress("0x55d398326f99059fF775485246999027B3197955"), Name: "Tether USD", Symbol: "USDT", Decimals: 18},
	},
	chains.Polygon: {
		"WMATIC": wrappedNative[chains.Polygon],
		"USDC":   {Address: common.HexToAddress("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"), Name: "USD Coin", Symbol: "USDC", Decimals: 6},
	},
	chains.Base: {
		"WETH": wrappedNative[chains.Base],
		"USDC": {Address: common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"), Name: "USD Coin", Symbol: "USDC", Decimals: 6},
	},
	chains.Arbitrum: {
		"WETH": wrappedNative[chains.Arbitrum],
		"USDC": {Address: common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831"), Name: "USD Coin", Symbol: "USDC", Decimals: 6},
	},
}

// WrappedNative returns the bridge token for a chain.
func WrappedNative(chainID uint64) (Token, error) {
	token, ok := wrappedNative[chainID]
	if !ok {
		return Token{}, fmt.Errorf("%w %d", ErrNoWrappedNative, chainID)
	}
	return token, nil
}

// BySymbol looks a token up in the curated table.
func BySymbol(chainID uint64, symbol string) (Token, error) {
	token, ok := known[chainID][strings.ToUpper(symbol)]
	if !ok {
		return Token{}, fmt.Errorf("%w %q on chain %d", ErrUnknownToken, symbol, chainID)
	}
	return token, nil
}
