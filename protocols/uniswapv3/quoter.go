package uniswapv3

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/walletkit/swapquote-go/trade"
)

var ErrShortReturnData = errors.New("uniswapv3: return data shorter than one word")

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// CallClient executes one read-only contract invocation and returns the raw
// return data. The transport in streams/jsonrpc/caller implements it.
type CallClient interface {
	SimulateCall(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

const quoterV1JSON = `[
	{"type":"function","name":"quoteExactInputSingle","stateMutability":"nonpayable","inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"fee","type":"uint24"},{"name":"amountIn","type":"uint256"},{"name":"sqrtPriceLimitX96","type":"uint160"}],"outputs":[{"name":"amountOut","type":"uint256"}]},
	{"type":"function","name":"quoteExactOutputSingle","stateMutability":"nonpayable","inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"fee","type":"uint24"},{"name":"amountOut","type":"uint256"},{"name":"sqrtPriceLimitX96","type":"uint160"}],"outputs":[{"name":"amountIn","type":"uint256"}]},
	{"type":"function","name":"quoteExactInput","stateMutability":"nonpayable","inputs":[{"name":"path","type":"bytes"},{"name":"amountIn","type":"uint256"}],"outputs":[{"name":"amountOut","type":"uint256"}]},
	{"type":"function","name":"quoteExactOutput","stateMutability":"nonpayable","inputs":[{"name":"path","type":"bytes"},{"name":"amountOut","type":"uint256"}],"outputs":[{"name":"amountIn","type":"uint256"}]}
]`

const quoterV2JSON = `[
	{"type":"function","name":"quoteExactInputSingle","stateMutability":"nonpayable","inputs":[{"name":"params","type":"tuple","components":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amount","type":"uint256"},{"name":"fee","type":"uint24"},{"name":"sqrtPriceLimitX96","type":"uint160"}]}],"outputs":[{"name":"amountOut","type":"uint256"},{"name":"sqrtPriceX96After","type":"uint160"},{"name":"initializedTicksCrossed","type":"uint32"},{"name":"gasEstimate","type":"uint256"}]},
	{"type":"function","name":"quoteExactOutputSingle","stateMutability":"nonpayable","inputs":[{"name":"params","type":"tuple","components":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amount","type":"uint256"},{"name":"fee","type":"uint24"},{"name":"sqrtPriceLimitX96","type":"uint160"}]}],"outputs":[{"name":"amountIn","type":"uint256"},{"name":"sqrtPriceX96After","type":"uint160"},{"name":"initializedTicksCrossed","type":"uint32"},{"name":"gasEstimate","type":"uint256"}]},
	{"type":"function","name":"quoteExactInput","stateMutability":"nonpayable","inputs":[{"name":"path","type":"bytes"},{"name":"amountIn","type":"uint256"}],"outputs":[{"name":"amountOut","type":"uint256"},{"name":"sqrtPriceX96AfterList","type":"uint160[]"},{"name":"initializedTicksCrossedList","type":"uint32[]"},{"name":"gasEstimate","type":"uint256"}]},
	{"type":"function","name":"quoteExactOutput","stateMutability":"nonpayable","inputs":[{"name":"path","type":"bytes"},{"name":"amountOut","type":"uint256"}],"outputs":[{"name":"amountIn","type":"uint256"},{"name":"sqrtPriceX96AfterList","type":"uint160[]"},{"name":"initializedTicksCrossedList","type":"uint32[]"},{"name":"gasEstimate","type":"uint256"}]}
]`

var (
	quoterV1ABI = mustParseABI(quoterV1JSON)
	quoterV2ABI = mustParseABI(quoterV2JSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("uniswapv3: invalid quoter ABI: %v", err))
	}
	return parsed
}

func abiFor(kind QuoterKind) abi.ABI {
	if kind == QuoterV2 {
		return quoterV2ABI
	}
	return quoterV1ABI
}

// quoteSingleParams mirrors the QuoterV2 params tuple. Field order matters.
type quoteSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Amount            *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

// Config holds the configuration for the Quoter.
type Config struct {
	Caller  CallClient
	ChainID uint64
	Logger  Logger
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.Caller == nil {
		return errors.New("config: Caller is required")
	}
	if c.ChainID == 0 {
		return errors.New("config: ChainID is required")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	return nil
}

// Quoter prices trades by simulating quoter contract calls through a
// CallClient. It holds no mutable state and is safe for concurrent use.
type Quoter struct {
	caller  CallClient
	chainID uint64
	logger  Logger
}

// NewQuoter constructs a Quoter from a validated Config.
func NewQuoter(cfg Config) (*Quoter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Quoter{
		caller:  cfg.Caller,
		chainID: cfg.ChainID,
		logger:  cfg.Logger,
	}, nil
}

// QuoteExactInputSingle simulates a direct swap of amountIn through one pool
// and returns the output amount.
func (q *Quoter) QuoteExactInputSingle(ctx context.Context, variant Variant, tokenIn, tokenOut common.Address, fee trade.FeeTier, amountIn *big.Int) (*big.Int, error) {
	return q.quoteSingle(ctx, variant, "quoteExactInputSingle", tokenIn, tokenOut, fee, amountIn)
}

// QuoteExactOutputSingle simulates a direct swap solving for the input amount
// that yields exactly amountOut.
func (q *Quoter) QuoteExactOutputSingle(ctx context.Context, variant Variant, tokenIn, tokenOut common.Address, fee trade.FeeTier, amountOut *big.Int) (*big.Int, error) {
	return q.quoteSingle(ctx, variant, "quoteExactOutputSingle", tokenIn, tokenOut, fee, amountOut)
}

// QuoteExactInput simulates a multi-hop swap of amountIn along path and
// returns the combined output amount.
func (q *Quoter) QuoteExactInput(ctx context.Context, variant Variant, path trade.Path, amountIn *big.Int) (*big.Int, error) {
	dep, err := ResolveQuoterAddress(variant, q.chainID)
	if err != nil {
		return nil, err
	}
	packed, err := EncodePath(path)
	if err != nil {
		return nil, err
	}
	data, err := abiFor(dep.Kind).Pack("quoteExactInput", packed, amountIn)
	if err != nil {
		return nil, fmt.Errorf("uniswapv3: pack quoteExactInput: %w", err)
	}
	return q.call(ctx, dep.Quoter, data)
}

// QuoteExactOutput simulates a multi-hop swap along path solving for the input
// amount that yields exactly amountOut. The path is supplied in forward
// (input to output) order; the reversed wire encoding is handled here.
func (q *Quoter) QuoteExactOutput(ctx context.Context, variant Variant, path trade.Path, amountOut *big.Int) (*big.Int, error) {
	dep, err := ResolveQuoterAddress(variant, q.chainID)
	if err != nil {
		return nil, err
	}
	packed, err := EncodePathReversed(path)
	if err != nil {
		return nil, err
	}
	data, err := abiFor(dep.Kind).Pack("quoteExactOutput", packed, amountOut)
	if err != nil {
		return nil, fmt.Errorf("uniswapv3: pack quoteExactOutput: %w", err)
	}
	return q.call(ctx, dep.Quoter, data)
}

func (q *Quoter) quoteSingle(ctx context.Context, variant Variant, method string, tokenIn, tokenOut common.Address, fee trade.FeeTier, amount *big.Int) (*big.Int, error) {
	dep, err := ResolveQuoterAddress(variant, q.chainID)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch dep.Kind {
	case QuoterV2:
		data, err = abiFor(dep.Kind).Pack(method, quoteSingleParams{
			TokenIn:           tokenIn,
			TokenOut:          tokenOut,
			Amount:            amount,
			Fee:               new(big.Int).SetUint64(uint64(fee)),
			SqrtPriceLimitX96: new(big.Int),
		})
	default:
		data, err = abiFor(dep.Kind).Pack(method, tokenIn, tokenOut, new(big.Int).SetUint64(uint64(fee)), amount, new(big.Int))
	}
	if err != nil {
		return nil, fmt.Errorf("uniswapv3: pack %s: %w", method, err)
	}
	return q.call(ctx, dep.Quoter, data)
}

func (q *Quoter) call(ctx context.Context, to common.Address, data []byte) (*big.Int, error) {
	raw, err := q.caller.SimulateCall(ctx, to, data)
	if err != nil {
		// Routine for pools that do not exist or hold no liquidity; the
		// search layer decides whether this matters.
		q.logger.Debug("quote simulation failed", "quoter", to, "error", err)
		return nil, fmt.Errorf("uniswapv3: quote call failed: %w", err)
	}
	return decodeAmount(raw)
}

// decodeAmount reads the leading 32-byte word of the return data as an
// unsigned big integer. Every quoter method returns the quoted amount first,
// so this covers both quoter generations.
func decodeAmount(raw []byte) (*big.Int, error) {
	if len(raw) < 32 {
		return nil, fmt.Errorf("%w (%d bytes)", ErrShortReturnData, len(raw))
	}
	return new(big.Int).SetBytes(raw[:32]), nil
}
