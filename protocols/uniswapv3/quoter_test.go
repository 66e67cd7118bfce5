package uniswapv3

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walletkit/swapquote-go/chains"
	"github.com/walletkit/swapquote-go/trade"
)

var (
	tokenA = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	tokenB = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	weth   = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mocks ---

// mockCaller records the last simulated call and plays back a scripted result.
type mockCaller struct {
	lastTo   common.Address
	lastData []byte
	ret      []byte
	err      error
}

func (m *mockCaller) SimulateCall(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	m.lastTo = to
	m.lastData = data
	if m.err != nil {
		return nil, m.err
	}
	return m.ret, nil
}

// encodeWord left-pads an amount to one 32-byte return word.
func encodeWord(amount *big.Int) []byte {
	word := make([]byte, 32)
	amount.FillBytes(word)
	return word
}

func newTestQuoter(t *testing.T, chainID uint64, caller CallClient) *Quoter {
	t.Helper()
	q, err := NewQuoter(Config{Caller: caller, ChainID: chainID, Logger: testLogger()})
	require.NoError(t, err)
	return q
}

// --- Tests ---

func TestTiersFor(t *testing.T) {
	tiers, err := TiersFor(VariantUniswapV3)
	require.NoError(t, err)
	assert.Equal(t, []trade.FeeTier{trade.FeeLowest, trade.FeeLow, trade.FeeMedium, trade.FeeHigh}, tiers)

	pancake, err := TiersFor(VariantPancakeV3)
	require.NoError(t, err)
	assert.Equal(t, []trade.FeeTier{100, 500, 2500, 10000}, pancake)

	// mutating the returned slice must not leak into the registry
	tiers[0] = 42
	again, err := TiersFor(VariantUniswapV3)
	require.NoError(t, err)
	assert.Equal(t, trade.FeeLowest, again[0])

	_, err = TiersFor(Variant("bogus-dex"))
	assert.ErrorIs(t, err, ErrUnsupportedVariant)
}

func TestResolveQuoterAddress(t *testing.T) {
	dep, err := ResolveQuoterAddress(VariantUniswapV3, chains.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6"), dep.Quoter)
	assert.Equal(t, QuoterV1, dep.Kind)

	dep, err = ResolveQuoterAddress(VariantPancakeV3, chains.BNB)
	require.NoError(t, err)
	assert.Equal(t, QuoterV2, dep.Kind)

	_, err = ResolveQuoterAddress(Variant("bogus-dex"), chains.Mainnet)
	assert.ErrorIs(t, err, ErrUnsupportedVariant)

	// known variant, chain without a deployment
	_, err = ResolveQuoterAddress(VariantPancakeV3, chains.Optimism)
	assert.ErrorIs(t, err, ErrUnsupportedVariant)
}

func TestEncodePath(t *testing.T) {
	path, err := trade.NewPath(
		trade.PathItem{TokenIn: tokenA, TokenOut: weth, Fee: trade.FeeLow},
		trade.PathItem{TokenIn: weth, TokenOut: tokenB, Fee: trade.FeeMedium},
	)
	require.NoError(t, err)

	packed, err := EncodePath(path)
	require.NoError(t, err)
	require.Len(t, packed, 20+3+20+3+20)

	assert.Equal(t, tokenA.Bytes(), packed[:20])
	assert.Equal(t, []byte{0x00, 0x01, 0xf4}, packed[20:23]) // 500 big-endian
	assert.Equal(t, weth.Bytes(), packed[23:43])
	assert.Equal(t, []byte{0x00, 0x0b, 0xb8}, packed[43:46]) // 3000 big-endian
	assert.Equal(t, tokenB.Bytes(), packed[46:66])
}

func TestEncodePathReversed(t *testing.T) {
	path, err := trade.NewPath(
		trade.PathItem{TokenIn: tokenA, TokenOut: weth, Fee: trade.FeeLow},
		trade.PathItem{TokenIn: weth, TokenOut: tokenB, Fee: trade.FeeMedium},
	)
	require.NoError(t, err)

	packed, err := EncodePathReversed(path)
	require.NoError(t, err)
	require.Len(t, packed, 66)

	// output token first, fees walked backwards
	assert.Equal(t, tokenB.Bytes(), packed[:20])
	assert.Equal(t, []byte{0x00, 0x0b, 0xb8}, packed[20:23])
	assert.Equal(t, weth.Bytes(), packed[23:43])
	assert.Equal(t, []byte{0x00, 0x01, 0xf4}, packed[43:46])
	assert.Equal(t, tokenA.Bytes(), packed[46:66])
}

func TestEncodePathRejectsInvalid(t *testing.T) {
	_, err := EncodePath(trade.Path{})
	assert.ErrorIs(t, err, trade.ErrEmptyPath)

	_, err = EncodePathReversed(trade.Path{
		{TokenIn: tokenA, TokenOut: weth, Fee: trade.FeeLow},
		{TokenIn: tokenB, TokenOut: weth, Fee: trade.FeeLow},
	})
	assert.ErrorIs(t, err, trade.ErrBrokenChain)
}

func TestQuoteExactInputSingleV1(t *testing.T) {
	caller := &mockCaller{ret: encodeWord(big.NewInt(123456))}
	q := newTestQuoter(t, chains.Mainnet, caller)

	out, err := q.QuoteExactInputSingle(context.Background(), VariantUniswapV3, tokenA, tokenB, trade.FeeMedium, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(123456), out)

	assert.Equal(t, common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6"), caller.lastTo)
	// quoteExactInputSingle(address,address,uint24,uint256,uint160)
	assert.Equal(t, []byte{0xf7, 0x72, 0x9d, 0x43}, caller.lastData[:4])
	require.Len(t, caller.lastData, 4+5*32)
}

func TestQuoteExactOutputSingleV1(t *testing.T) {
	caller := &mockCaller{ret: encodeWord(big.NewInt(999))}
	q := newTestQuoter(t, chains.Mainnet, caller)

	in, err := q.QuoteExactOutputSingle(context.Background(), VariantUniswapV3, tokenA, tokenB, trade.FeeLow, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(999), in)

	// quoteExactOutputSingle(address,address,uint24,uint256,uint160)
	assert.Equal(t, []byte{0x30, 0xd0, 0x7f, 0x21}, caller.lastData[:4])
}

func TestQuoteSingleV2TupleShape(t *testing.T) {
	caller := &mockCaller{ret: encodeWord(big.NewInt(777))}
	q := newTestQuoter(t, chains.BNB, caller)

	out, err := q.QuoteExactInputSingle(context.Background(), VariantPancakeV3, tokenA, tokenB, trade.FeeLow, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(777), out)

	// quoteExactInputSingle((address,address,uint256,uint24,uint160))
	assert.Equal(t, []byte{0xc6, 0xa5, 0x02, 0x6a}, caller.lastData[:4])
	require.Len(t, caller.lastData, 4+5*32)

	_, err = q.QuoteExactOutputSingle(context.Background(), VariantPancakeV3, tokenA, tokenB, trade.FeeLow, big.NewInt(1000))
	require.NoError(t, err)
	// quoteExactOutputSingle((address,address,uint256,uint24,uint160))
	assert.Equal(t, []byte{0xbd, 0x21, 0x70, 0x4a}, caller.lastData[:4])
}

func TestQuoteExactInputPath(t *testing.T) {
	caller := &mockCaller{ret: encodeWord(big.NewInt(47))}
	q := newTestQuoter(t, chains.Mainnet, caller)

	path, err := trade.NewPath(
		trade.PathItem{TokenIn: tokenA, TokenOut: weth, Fee: trade.FeeLow},
		trade.PathItem{TokenIn: weth, TokenOut: tokenB, Fee: trade.FeeMedium},
	)
	require.NoError(t, err)

	out, err := q.QuoteExactInput(context.Background(), VariantUniswapV3, path, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(47), out)
	// quoteExactInput(bytes,uint256)
	assert.Equal(t, []byte{0xcd, 0xca, 0x17, 0x53}, caller.lastData[:4])

	_, err = q.QuoteExactOutput(context.Background(), VariantUniswapV3, path, big.NewInt(47))
	require.NoError(t, err)
	// quoteExactOutput(bytes,uint256)
	assert.Equal(t, []byte{0x2f, 0x80, 0xbb, 0x1d}, caller.lastData[:4])
}

func TestQuoteCallFailure(t *testing.T) {
	callErr := errors.New("execution reverted")
	caller := &mockCaller{err: callErr}
	q := newTestQuoter(t, chains.Mainnet, caller)

	_, err := q.QuoteExactInputSingle(context.Background(), VariantUniswapV3, tokenA, tokenB, trade.FeeMedium, big.NewInt(1000))
	assert.ErrorIs(t, err, callErr)
}

func TestQuoteShortReturnData(t *testing.T) {
	caller := &mockCaller{ret: []byte{0x01, 0x02}}
	q := newTestQuoter(t, chains.Mainnet, caller)

	_, err := q.QuoteExactInputSingle(context.Background(), VariantUniswapV3, tokenA, tokenB, trade.FeeMedium, big.NewInt(1000))
	assert.ErrorIs(t, err, ErrShortReturnData)
}

func TestQuoteUnsupportedVariantBeforeAnyCall(t *testing.T) {
	caller := &mockCaller{ret: encodeWord(big.NewInt(1))}
	q := newTestQuoter(t, chains.Mainnet, caller)

	_, err := q.QuoteExactInputSingle(context.Background(), Variant("bogus-dex"), tokenA, tokenB, trade.FeeMedium, big.NewInt(1000))
	assert.ErrorIs(t, err, ErrUnsupportedVariant)
	assert.Nil(t, caller.lastData)
}

func TestNewQuoterConfigValidation(t *testing.T) {
	_, err := NewQuoter(Config{ChainID: chains.Mainnet, Logger: testLogger()})
	assert.Error(t, err)

	_, err = NewQuoter(Config{Caller: &mockCaller{}, Logger: testLogger()})
	assert.Error(t, err)

	_, err = NewQuoter(Config{Caller: &mockCaller{}, ChainID: chains.Mainnet})
	assert.Error(t, err)
}
