package caller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultCallTimeout = 10 * time.Second

	// Quotes price the next trade, so only the latest state is meaningful.
	blockLatest = "latest"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the configuration for the Client.
type Config struct {
	URL      string
	Logger   Logger
	Registry prometheus.Registerer

	// CallTimeout bounds a single eth_call. Zero means the default.
	CallTimeout time.Duration
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.URL == "" {
		return errors.New("config: URL is required")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.Registry == nil {
		return errors.New("config: Registry is required")
	}
	return nil
}

// Metrics tracks simulated-call traffic against the node.
type Metrics struct {
	callDuration prometheus.Histogram
	calls        *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		callDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swapquote",
			Subsystem: "caller",
			Name:      "eth_call_duration_seconds",
			Help:      "Duration of a single eth_call simulation.",
			Buckets:   prometheus.DefBuckets,
		}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swapquote",
			Subsystem: "caller",
			Name:      "eth_calls_total",
			Help:      "Simulated calls issued, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.callDuration, m.calls)
	return m
}

// callMsg is the eth_call transaction object. Only the fields a read-only
// quote simulation needs are sent.
type callMsg struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

// Client executes read-only contract simulations over JSON-RPC.
// It is safe for concurrent use; the underlying rpc.Client multiplexes.
type Client struct {
	rpc         *rpc.Client
	logger      Logger
	metrics     *Metrics
	callTimeout time.Duration
}

// Dial connects to the node and returns a ready Client.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rpcClient, err := rpc.DialContext(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("caller: failed to dial %s: %w", cfg.URL, err)
	}

	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &Client{
		rpc:         rpcClient,
		logger:      cfg.Logger,
		metrics:     NewMetrics(cfg.Registry),
		callTimeout: timeout,
	}, nil
}

// SimulateCall executes one read-only contract invocation against the latest
// block and returns the raw return data.
func (c *Client) SimulateCall(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	timer := prometheus.NewTimer(c.metrics.callDuration)
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var out hexutil.Bytes
	err := c.rpc.CallContext(ctx, &out, "eth_call", callMsg{To: to, Data: data}, blockLatest)
	if err != nil {
		c.metrics.calls.WithLabelValues("failed").Inc()
		c.logger.Debug("eth_call failed", "to", to, "error", err)
		return nil, fmt.Errorf("caller: eth_call failed: %w", err)
	}
	c.metrics.calls.WithLabelValues("ok").Inc()
	return out, nil
}

// Close tears down the underlying RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}
