package router

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	uniswapv3 "github.com/walletkit/swapquote-go/protocols/uniswapv3"
	"github.com/walletkit/swapquote-go/trade"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Quoter prices candidate swaps through simulated contract calls.
// *uniswapv3.Quoter implements it; tests substitute scripted fakes.
type Quoter interface {
	QuoteExactInputSingle(ctx context.Context, variant uniswapv3.Variant, tokenIn, tokenOut common.Address, fee trade.FeeTier, amountIn *big.Int) (*big.Int, error)
	QuoteExactOutputSingle(ctx context.Context, variant uniswapv3.Variant, tokenIn, tokenOut common.Address, fee trade.FeeTier, amountOut *big.Int) (*big.Int, error)
	QuoteExactInput(ctx context.Context, variant uniswapv3.Variant, path trade.Path, amountIn *big.Int) (*big.Int, error)
	QuoteExactOutput(ctx context.Context, variant uniswapv3.Variant, path trade.Path, amountOut *big.Int) (*big.Int, error)
}
