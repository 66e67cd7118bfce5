package chains

// Supported chain IDs.
const (
	Mainnet  uint64 = 1
	Optimism uint64 = 10
	BNB      uint64 = 56
	Polygon  uint64 = 137
	Base     uint64 = 8453
	Arbitrum uint64 = 42161
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Name returns a human label for a chain ID, or "unknown" for chains this
// module has no deployments on.
func Name(chainID uint64) string {
	switch chainID {
	case Mainnet:
		return "ethereum"
	case Optimism:
		return "optimism"
	case BNB:
		return "bnb-smart-chain"
	case Polygon:
		return "polygon"
	case Base:
		return "base"
	case Arbitrum:
		return "arbitrum"
	default:
		return "unknown"
	}
}
