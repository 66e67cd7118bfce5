package uniswapv3

import (
	"github.com/walletkit/swapquote-go/trade"
)

// Packed path layout used by quoteExactInput/quoteExactOutput:
// 20 bytes token, 3 bytes fee, 20 bytes token, repeated for every extra hop.
const (
	addrSize    = 20
	feeSize     = 3
	hopSize     = addrSize + feeSize
	minPathSize = addrSize + feeSize + addrSize
)

// EncodePath packs a path input-token first, the layout quoteExactInput expects.
func EncodePath(p trade.Path) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, addrSize+len(p)*hopSize)
	buf = append(buf, p[0].TokenIn.Bytes()...)
	for _, item := range p {
		buf = appendFee(buf, item.Fee)
		buf = append(buf, item.TokenOut.Bytes()...)
	}
	return buf, nil
}

// EncodePathReversed packs a path output-token first. quoteExactOutput walks
// the route backwards from the fixed output amount, so it takes the path in
// this orientation.
func EncodePathReversed(p trade.Path) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, addrSize+len(p)*hopSize)
	buf = append(buf, p[len(p)-1].TokenOut.Bytes()...)
	for i := len(p) - 1; i >= 0; i-- {
		buf = appendFee(buf, p[i].Fee)
		buf = append(buf, p[i].TokenIn.Bytes()...)
	}
	return buf, nil
}

// appendFee writes a fee tier as a big-endian uint24.
func appendFee(buf []byte, fee trade.FeeTier) []byte {
	return append(buf, byte(fee>>16), byte(fee>>8), byte(fee))
}
