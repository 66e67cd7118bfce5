package router

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/walletkit/swapquote-go/protocols/tokenregistry"
	uniswapv3 "github.com/walletkit/swapquote-go/protocols/uniswapv3"
	"github.com/walletkit/swapquote-go/trade"
)

var (
	ErrTradeNotFound = errors.New("router: no executable trade found")
	ErrInvalidAmount = errors.New("router: amount must be greater than zero")
)

// Config holds the configuration for the Router.
type Config struct {
	Quoter   Quoter
	ChainID  uint64
	Logger   Logger
	Registry prometheus.Registerer
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.Quoter == nil {
		return errors.New("config: Quoter is required")
	}
	if c.ChainID == 0 {
		return errors.New("config: ChainID is required")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.Registry == nil {
		return errors.New("config: Registry is required")
	}
	return nil
}

// Option configures the Router.
// The interface method is unexported to prevent external modification after New.
type Option interface {
	apply(*Router)
}

type funcOption func(*Router)

func (f funcOption) apply(r *Router) {
	f(r)
}

func newOption(f func(*Router)) Option {
	return funcOption(f)
}

// WithBridgeToken overrides the bridge asset used for two-hop fallback routes.
// The default is the chain's wrapped native token.
func WithBridgeToken(token common.Address) Option {
	return newOption(func(r *Router) {
		r.bridge = token
	})
}

// WithSequentialTiers disables the per-tier fan-out and quotes tiers one at a
// time, for rate-limited transports.
func WithSequentialTiers() Option {
	return newOption(func(r *Router) {
		r.sequential = true
	})
}

// Router discovers the best executable trade for a pair by simulating quoter
// calls across every fee tier, falling back to a two-hop route through the
// bridge asset when no direct pool works. It holds no state across searches
// and is safe for concurrent use.
type Router struct {
	quoter     Quoter
	chainID    uint64
	logger     Logger
	metrics    *Metrics
	bridge     common.Address // zero address disables the bridged fallback
	sequential bool
}

// New constructs a Router from a validated Config.
func New(cfg Config, opts ...Option) (*Router, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &Router{
		quoter:  cfg.Quoter,
		chainID: cfg.ChainID,
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.Registry),
	}
	for _, opt := range opts {
		opt.apply(r)
	}

	if r.bridge == (common.Address{}) {
		wrapped, err := tokenregistry.WrappedNative(cfg.ChainID)
		if err != nil {
			r.logger.Warn("no wrapped native token for chain, bridged fallback disabled",
				"chain_id", cfg.ChainID)
		} else {
			r.bridge = wrapped.Address
		}
	}
	return r, nil
}

// BestTradeExactIn finds the route maximizing the output for a fixed input.
func (r *Router) BestTradeExactIn(ctx context.Context, variant uniswapv3.Variant, tokenIn, tokenOut common.Address, amountIn *big.Int) (*trade.Result, error) {
	return r.search(ctx, variant, trade.ExactIn, tokenIn, tokenOut, amountIn)
}

// BestTradeExactOut finds the route minimizing the input for a fixed output.
func (r *Router) BestTradeExactOut(ctx context.Context, variant uniswapv3.Variant, tokenIn, tokenOut common.Address, amountOut *big.Int) (*trade.Result, error) {
	return r.search(ctx, variant, trade.ExactOut, tokenIn, tokenOut, amountOut)
}

func (r *Router) search(ctx context.Context, variant uniswapv3.Variant, mode trade.Mode, tokenIn, tokenOut common.Address, amount *big.Int) (*trade.Result, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if tokenIn == tokenOut {
		return nil, fmt.Errorf("router: %w", trade.ErrSameToken)
	}

	tiers, err := uniswapv3.TiersFor(variant)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcome := outcomeNotFound
	defer func() {
		r.metrics.searchDuration.WithLabelValues(mode.String(), outcome).Observe(time.Since(start).Seconds())
	}()

	direct, found, err := r.bestSingleHop(ctx, variant, tiers, mode, tokenIn, tokenOut, amount)
	if err != nil {
		outcome = outcomeCancelled
		return nil, err
	}
	if found {
		outcome = outcomeDirect
		path, err := trade.NewPath(trade.PathItem{TokenIn: tokenIn, TokenOut: tokenOut, Fee: direct.fee})
		if err != nil {
			return nil, err
		}
		return newResult(mode, path, amount, direct.amount), nil
	}

	bridged, err := r.bestBridged(ctx, variant, tiers, mode, tokenIn, tokenOut, amount)
	if err != nil {
		outcome = outcomeCancelled
		return nil, err
	}
	if bridged == nil {
		r.logger.Debug("no direct or bridged candidate",
			"variant", variant, "mode", mode.String(), "token_in", tokenIn, "token_out", tokenOut)
		return nil, ErrTradeNotFound
	}
	outcome = outcomeBridged
	return bridged, nil
}

// directQuote is one successful fee-tier attempt.
type directQuote struct {
	fee    trade.FeeTier
	amount *big.Int
}

// bestSingleHop quotes every fee tier for one pool pair and reduces the
// successes to a single winner. Individual tier failures are absorbed; the
// only error it returns is cancellation.
func (r *Router) bestSingleHop(ctx context.Context, variant uniswapv3.Variant, tiers []trade.FeeTier, mode trade.Mode, tokenIn, tokenOut common.Address, amount *big.Int) (directQuote, bool, error) {
	if err := ctx.Err(); err != nil {
		return directQuote{}, false, err
	}

	type attempt struct {
		amount *big.Int
		err    error
	}
	attempts := make([]attempt, len(tiers))

	quoteTier := func(i int, fee trade.FeeTier) {
		if err := ctx.Err(); err != nil {
			attempts[i] = attempt{err: err}
			return
		}
		quoted, err := r.quoteSingle(ctx, variant, mode, tokenIn, tokenOut, fee, amount)
		attempts[i] = attempt{amount: quoted, err: err}
	}

	if r.sequential {
		for i, fee := range tiers {
			quoteTier(i, fee)
		}
	} else {
		// Tier attempts are data-independent, so they fan out. Each goroutine
		// writes only its own slot; reduction happens after the barrier.
		var wg sync.WaitGroup
		for i, fee := range tiers {
			wg.Add(1)
			go func(i int, fee trade.FeeTier) {
				defer wg.Done()
				quoteTier(i, fee)
			}(i, fee)
		}
		wg.Wait()
	}

	if err := ctx.Err(); err != nil {
		return directQuote{}, false, err
	}

	// Reduce in registry order so an equal later quote never displaces an
	// earlier (cheaper-tier) winner.
	var best directQuote
	found := false
	for i, a := range attempts {
		if a.err != nil {
			r.metrics.tierCalls.WithLabelValues(string(variant), tierCallFailed).Inc()
			r.logger.Debug("tier quote excluded",
				"variant", variant, "fee", tiers[i], "token_in", tokenIn, "token_out", tokenOut, "error", a.err)
			continue
		}
		r.metrics.tierCalls.WithLabelValues(string(variant), tierCallOK).Inc()
		if !found || betterQuote(mode, a.amount, best.amount) {
			best = directQuote{fee: tiers[i], amount: a.amount}
			found = true
		}
	}
	return best, found, nil
}

// betterQuote reports whether candidate strictly beats current for the mode:
// more output for ExactIn, less input for ExactOut.
func betterQuote(mode trade.Mode, candidate, current *big.Int) bool {
	if mode == trade.ExactOut {
		return candidate.Cmp(current) < 0
	}
	return candidate.Cmp(current) > 0
}

func (r *Router) quoteSingle(ctx context.Context, variant uniswapv3.Variant, mode trade.Mode, tokenIn, tokenOut common.Address, fee trade.FeeTier, amount *big.Int) (*big.Int, error) {
	if mode == trade.ExactOut {
		return r.quoter.QuoteExactOutputSingle(ctx, variant, tokenIn, tokenOut, fee, amount)
	}
	return r.quoter.QuoteExactInputSingle(ctx, variant, tokenIn, tokenOut, fee, amount)
}

// bestBridged attempts a two-hop route through the bridge asset. A nil result
// with nil error means the fallback produced no candidate; the only error it
// returns is cancellation. The two legs have a strict data dependency (the
// second leg's amount comes from the first), so they are never parallelized
// with each other.
func (r *Router) bestBridged(ctx context.Context, variant uniswapv3.Variant, tiers []trade.FeeTier, mode trade.Mode, tokenIn, tokenOut common.Address, amount *big.Int) (*trade.Result, error) {
	if r.bridge == (common.Address{}) || tokenIn == r.bridge || tokenOut == r.bridge {
		// A pair against the bridge asset was already covered by the direct
		// search; there is nothing left to route through.
		return nil, nil
	}

	var inFee, outFee trade.FeeTier
	switch mode {
	case trade.ExactOut:
		// The leg nearest the output is solved first: its required input is
		// unknown until quoted, and becomes the first leg's target output.
		legOut, found, err := r.bestSingleHop(ctx, variant, tiers, mode, r.bridge, tokenOut, amount)
		if err != nil || !found {
			return nil, err
		}
		legIn, found, err := r.bestSingleHop(ctx, variant, tiers, mode, tokenIn, r.bridge, legOut.amount)
		if err != nil || !found {
			return nil, err
		}
		inFee, outFee = legIn.fee, legOut.fee
	default:
		legIn, found, err := r.bestSingleHop(ctx, variant, tiers, mode, tokenIn, r.bridge, amount)
		if err != nil || !found {
			return nil, err
		}
		legOut, found, err := r.bestSingleHop(ctx, variant, tiers, mode, r.bridge, tokenOut, legIn.amount)
		if err != nil || !found {
			return nil, err
		}
		inFee, outFee = legIn.fee, legOut.fee
	}

	path, err := trade.NewPath(
		trade.PathItem{TokenIn: tokenIn, TokenOut: r.bridge, Fee: inFee},
		trade.PathItem{TokenIn: r.bridge, TokenOut: tokenOut, Fee: outFee},
	)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The per-leg quotes each priced their own pool in isolation; the whole
	// path is re-simulated in one call for the authoritative combined amount.
	verified, err := r.verifyPath(ctx, variant, mode, path, amount)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Debug("bridged path verification failed",
			"variant", variant, "mode", mode.String(), "bridge", r.bridge, "error", err)
		return nil, nil
	}
	return newResult(mode, path, amount, verified), nil
}

func (r *Router) verifyPath(ctx context.Context, variant uniswapv3.Variant, mode trade.Mode, path trade.Path, amount *big.Int) (*big.Int, error) {
	if mode == trade.ExactOut {
		return r.quoter.QuoteExactOutput(ctx, variant, path, amount)
	}
	return r.quoter.QuoteExactInput(ctx, variant, path, amount)
}

// newResult builds the immutable search outcome. fixed is the caller-supplied
// constraint, solved the quoted amount for the other leg.
func newResult(mode trade.Mode, path trade.Path, fixed, solved *big.Int) *trade.Result {
	res := &trade.Result{
		Mode:     mode,
		Path:     path,
		TokenIn:  path.TokenIn(),
		TokenOut: path.TokenOut(),
	}
	if mode == trade.ExactOut {
		res.AmountIn = new(big.Int).Set(solved)
		res.AmountOut = new(big.Int).Set(fixed)
	} else {
		res.AmountIn = new(big.Int).Set(fixed)
		res.AmountOut = new(big.Int).Set(solved)
	}
	return res
}
