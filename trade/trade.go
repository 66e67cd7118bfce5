package trade

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrEmptyPath   = errors.New("trade: path must contain at least one hop")
	ErrSameToken   = errors.New("trade: tokenIn and tokenOut must differ")
	ErrBrokenChain = errors.New("trade: adjacent hops do not chain")
)

// FeeTier is a pool fee level in hundredths of a basis point
// (i.e. 500 = 0.05%). The set of valid tiers depends on the exchange variant.
type FeeTier uint32

const (
	FeeLowest FeeTier = 100
	FeeLow    FeeTier = 500
	FeeMedium FeeTier = 3000
	FeeHigh   FeeTier = 10000
)

// Mode selects which leg of a trade is the caller-supplied constraint.
type Mode uint8

const (
	// ExactIn fixes the input amount and solves for the maximum output.
	ExactIn Mode = iota
	// ExactOut fixes the output amount and solves for the minimum input.
	ExactOut
)

func (m Mode) String() string {
	switch m {
	case ExactIn:
		return "exactIn"
	case ExactOut:
		return "exactOut"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// PathItem is a single swap hop through one pool.
type PathItem struct {
	TokenIn  common.Address `json:"tokenIn"`
	TokenOut common.Address `json:"tokenOut"`
	Fee      FeeTier        `json:"fee"`
}

// Path is a non-empty ordered sequence of hops. Each hop's TokenOut must equal
// the next hop's TokenIn. A length-1 path is a direct swap, length 2 is a swap
// bridged through an intermediate asset.
type Path []PathItem

// NewPath validates the hops and returns them as a Path.
func NewPath(items ...PathItem) (Path, error) {
	p := Path(items)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the path invariants: non-empty, no self-swap hops, and
// hop chaining between every adjacent pair.
func (p Path) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPath
	}
	for i, item := range p {
		if item.TokenIn == item.TokenOut {
			return fmt.Errorf("%w (hop %d)", ErrSameToken, i)
		}
		if i > 0 && p[i-1].TokenOut != item.TokenIn {
			return fmt.Errorf("%w (hop %d out = %s, hop %d in = %s)",
				ErrBrokenChain, i-1, p[i-1].TokenOut, i, item.TokenIn)
		}
	}
	return nil
}

// TokenIn returns the input token of the whole route.
func (p Path) TokenIn() common.Address {
	return p[0].TokenIn
}

// TokenOut returns the output token of the whole route.
func (p Path) TokenOut() common.Address {
	return p[len(p)-1].TokenOut
}

// Result is the immutable outcome of a best-trade search.
type Result struct {
	Mode      Mode           `json:"mode"`
	Path      Path           `json:"path"`
	TokenIn   common.Address `json:"tokenIn"`
	TokenOut  common.Address `json:"tokenOut"`
	AmountIn  *big.Int       `json:"amountIn"`
	AmountOut *big.Int       `json:"amountOut"`
}

// IsSingleHop reports whether the winning route is a direct swap.
func (r *Result) IsSingleHop() bool {
	return len(r.Path) == 1
}

// SingleHopFee returns the fee tier of a direct trade.
// Calling it on a multi-hop result is a contract violation and panics;
// callers must check IsSingleHop first.
func (r *Result) SingleHopFee() FeeTier {
	if !r.IsSingleHop() {
		panic(fmt.Sprintf("trade: SingleHopFee called on a %d-hop path", len(r.Path)))
	}
	return r.Path[0].Fee
}
