package uniswapv3

import (
	"errors"
	"fmt"

	"github.com/walletkit/swapquote-go/trade"
)

var ErrUnsupportedVariant = errors.New("uniswapv3: unsupported exchange variant")

// Variant identifies a concentrated-liquidity exchange deployment family.
// Forks share the quoter call shape but differ in fee schedule and addresses.
type Variant string

const (
	VariantUniswapV3   Variant = "uniswap-v3"
	VariantPancakeV3   Variant = "pancakeswap-v3"
	VariantSushiSwapV3 Variant = "sushiswap-v3"
)

// variantTiers holds the fee schedule per variant. Slice order is try order
// and the tie-break order: with equal quotes the earlier (cheaper) tier wins.
var variantTiers = map[Variant][]trade.FeeTier{
	VariantUniswapV3:   {trade.FeeLowest, trade.FeeLow, trade.FeeMedium, trade.FeeHigh},
	VariantPancakeV3:   {trade.FeeLowest, trade.FeeLow, 2500, trade.FeeHigh},
	VariantSushiSwapV3: {trade.FeeLowest, trade.FeeLow, trade.FeeMedium, trade.FeeHigh},
}

// TiersFor returns the ordered fee schedule for a variant.
// The returned slice is a copy and safe to retain.
func TiersFor(variant Variant) ([]trade.FeeTier, error) {
	tiers, ok := variantTiers[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVariant, variant)
	}
	out := make([]trade.FeeTier, len(tiers))
	copy(out, tiers)
	return out, nil
}
