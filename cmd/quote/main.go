package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/walletkit/swapquote-go/cmd/quote/config"
	"github.com/walletkit/swapquote-go/protocols/tokenregistry"
	uniswapv3 "github.com/walletkit/swapquote-go/protocols/uniswapv3"
	"github.com/walletkit/swapquote-go/router"
	"github.com/walletkit/swapquote-go/streams/jsonrpc/caller"
	"github.com/walletkit/swapquote-go/trade"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file.")
	tokenIn := flag.String("in", "", "Input token: 0x address or a known symbol.")
	tokenOut := flag.String("out", "", "Output token: 0x address or a known symbol.")
	amountArg := flag.String("amount", "", "Amount in base units (wei-style integer).")
	modeArg := flag.String("mode", "exactin", "Trade mode: exactin or exactout.")
	flag.Parse()

	rootLogger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	prometheusRegistry := prometheus.DefaultRegisterer

	log.Printf("Loading configuration from: %s", *configPath)
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		rootLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	amount, ok := new(big.Int).SetString(*amountArg, 10)
	if !ok || amount.Sign() <= 0 {
		rootLogger.Error("Invalid -amount, expected a positive base-unit integer", "amount", *amountArg)
		os.Exit(1)
	}

	in, err := resolveToken(cfg.ChainID, *tokenIn)
	if err != nil {
		rootLogger.Error("Failed to resolve -in token", "error", err)
		os.Exit(1)
	}
	out, err := resolveToken(cfg.ChainID, *tokenOut)
	if err != nil {
		rootLogger.Error("Failed to resolve -out token", "error", err)
		os.Exit(1)
	}

	// Create a context that cancels when the OS sends an interrupt (Ctrl+C) or termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	callClient, err := caller.Dial(ctx, caller.Config{
		URL:      cfg.RPCURL,
		Logger:   rootLogger.With("component", "caller"),
		Registry: prometheusRegistry,
	})
	if err != nil {
		rootLogger.Error("Failed to dial RPC node", "url", cfg.RPCURL, "error", err)
		os.Exit(1)
	}
	defer callClient.Close()

	quoter, err := uniswapv3.NewQuoter(uniswapv3.Config{
		Caller:  callClient,
		ChainID: cfg.ChainID,
		Logger:  rootLogger.With("component", "quoter"),
	})
	if err != nil {
		rootLogger.Error("Failed to initialize quoter", "error", err)
		os.Exit(1)
	}

	bestTrade, err := router.New(router.Config{
		Quoter:   quoter,
		ChainID:  cfg.ChainID,
		Logger:   rootLogger.With("component", "router"),
		Registry: prometheusRegistry,
	})
	if err != nil {
		rootLogger.Error("Failed to initialize router", "error", err)
		os.Exit(1)
	}

	variant := uniswapv3.Variant(cfg.Variant)
	var result *trade.Result
	switch strings.ToLower(*modeArg) {
	case "exactin":
		result, err = bestTrade.BestTradeExactIn(ctx, variant, in, out, amount)
	case "exactout":
		result, err = bestTrade.BestTradeExactOut(ctx, variant, in, out, amount)
	default:
		rootLogger.Error("Invalid -mode, expected exactin or exactout", "mode", *modeArg)
		os.Exit(1)
	}
	if err != nil {
		rootLogger.Error("Best-trade search failed", "error", err)
		os.Exit(1)
	}

	printResult(result)
}

// resolveToken accepts either a raw address or a curated symbol.
func resolveToken(chainID uint64, arg string) (common.Address, error) {
	if arg == "" {
		return common.Address{}, fmt.Errorf("token argument is required")
	}
	if strings.HasPrefix(arg, "0x") || strings.HasPrefix(arg, "0X") {
		if !common.IsHexAddress(arg) {
			return common.Address{}, fmt.Errorf("invalid token address %q", arg)
		}
		return common.HexToAddress(arg), nil
	}
	token, err := tokenregistry.BySymbol(chainID, arg)
	if err != nil {
		return common.Address{}, err
	}
	return token.Address, nil
}

func printResult(res *trade.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "mode\t%s\n", res.Mode)
	fmt.Fprintf(w, "amount in\t%s\n", res.AmountIn)
	fmt.Fprintf(w, "amount out\t%s\n", res.AmountOut)
	if res.IsSingleHop() {
		fmt.Fprintf(w, "route\tdirect (fee %d)\n", res.SingleHopFee())
	} else {
		fmt.Fprintf(w, "route\tbridged (%d hops)\n", len(res.Path))
	}
	for i, hop := range res.Path {
		fmt.Fprintf(w, "hop %d\t%s -> %s @ %d\n", i+1, hop.TokenIn.Hex(), hop.TokenOut.Hex(), hop.Fee)
	}
	w.Flush()
}
