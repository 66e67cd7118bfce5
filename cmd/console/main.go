package main

import (
	"bufio"
	"context"
	"errors"
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
	"github.com/walletkit/swapquote-go/chains"
	"github.com/walletkit/swapquote-go/cmd/quote/config"
	"github.com/walletkit/swapquote-go/protocols/tokenregistry"
	uniswapv3 "github.com/walletkit/swapquote-go/protocols/uniswapv3"
	"github.com/walletkit/swapquote-go/router"
	"github.com/walletkit/swapquote-go/streams/jsonrpc/caller"
	"github.com/walletkit/swapquote-go/trade"
)

// --- VISUAL CONSTANTS ---
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Red   = "\033[31m"
	Green = "\033[32m"
	Cyan  = "\033[36m"
)

// header prints a styled section header
func header(title string) {
	fmt.Println("\n" + Bold + Cyan + ":: " + title + " ::" + Reset)
}

func fail(format string, args ...any) {
	fmt.Println(Red + fmt.Sprintf(format, args...) + Reset)
}

type console struct {
	router  *router.Router
	chainID uint64
	variant uniswapv3.Variant
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file.")
	flag.Parse()

	rootLogger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	log.Printf("Loading configuration from: %s", *configPath)
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		rootLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	callClient, err := caller.Dial(ctx, caller.Config{
		URL:      cfg.RPCURL,
		Logger:   rootLogger.With("component", "caller"),
		Registry: prometheus.DefaultRegisterer,
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
		Registry: prometheus.DefaultRegisterer,
	})
	if err != nil {
		rootLogger.Error("Failed to initialize router", "error", err)
		os.Exit(1)
	}

	c := &console{
		router:  bestTrade,
		chainID: cfg.ChainID,
		variant: uniswapv3.Variant(cfg.Variant),
	}

	header(fmt.Sprintf("swap quote console: %s (chain %d), %s", chains.Name(cfg.ChainID), cfg.ChainID, cfg.Variant))
	c.printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Bold + "> " + Reset)
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "exit", "quit":
			return
		case "help":
			c.printHelp()
		case "tiers":
			c.printTiers()
		case "quote":
			c.runQuote(ctx, fields[1:])
		default:
			fail("unknown command %q, try help", fields[0])
		}
	}
}

func (c *console) printHelp() {
	header("commands")
	fmt.Println("  quote <in> <out> <amount> [exactout]  find the best trade (amount in base units)")
	fmt.Println("  tiers                                 show the fee schedule of the active variant")
	fmt.Println("  help                                  this text")
	fmt.Println("  exit                                  leave")
}

func (c *console) printTiers() {
	tiers, err := uniswapv3.TiersFor(c.variant)
	if err != nil {
		fail("%v", err)
		return
	}
	header(fmt.Sprintf("fee schedule for %s", c.variant))
	for i, fee := range tiers {
		fmt.Printf("  %d. %d (%.2f%%)\n", i+1, fee, float64(fee)/10000)
	}
}

func (c *console) runQuote(ctx context.Context, args []string) {
	if len(args) < 3 {
		fail("usage: quote <in> <out> <amount> [exactout]")
		return
	}

	in, err := c.resolveToken(args[0])
	if err != nil {
		fail("%v", err)
		return
	}
	out, err := c.resolveToken(args[1])
	if err != nil {
		fail("%v", err)
		return
	}
	amount, ok := new(big.Int).SetString(args[2], 10)
	if !ok || amount.Sign() <= 0 {
		fail("amount must be a positive base-unit integer")
		return
	}

	mode := trade.ExactIn
	if len(args) > 3 && strings.EqualFold(args[3], "exactout") {
		mode = trade.ExactOut
	}

	var res *trade.Result
	if mode == trade.ExactOut {
		res, err = c.router.BestTradeExactOut(ctx, c.variant, in, out, amount)
	} else {
		res, err = c.router.BestTradeExactIn(ctx, c.variant, in, out, amount)
	}
	if err != nil {
		if errors.Is(err, router.ErrTradeNotFound) {
			fail("no executable trade found for this pair")
			return
		}
		fail("%v", err)
		return
	}

	header("best trade")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "mode\t%s\n", res.Mode)
	fmt.Fprintf(w, "amount in\t%s\n", res.AmountIn)
	fmt.Fprintf(w, "amount out\t%s\n", Green+res.AmountOut.String()+Reset)
	for i, hop := range res.Path {
		fmt.Fprintf(w, "hop %d\t%s -> %s @ %d\n", i+1, hop.TokenIn.Hex(), hop.TokenOut.Hex(), hop.Fee)
	}
	w.Flush()
}

func (c *console) resolveToken(arg string) (common.Address, error) {
	if strings.HasPrefix(arg, "0x") || strings.HasPrefix(arg, "0X") {
		if !common.IsHexAddress(arg) {
			return common.Address{}, fmt.Errorf("invalid token address %q", arg)
		}
		return common.HexToAddress(arg), nil
	}
	token, err := tokenregistry.BySymbol(c.chainID, arg)
	if err != nil {
		return common.Address{}, err
	}
	return token.Address, nil
}
