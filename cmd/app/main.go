package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"apex_bot/internal/app"
	"apex_bot/internal/domain"
	"apex_bot/internal/infra/binance"

	"github.com/shopspring/decimal"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	symbol := flag.String("symbol", "", "trading pair symbol (e.g. BTCUSDT)")
	side := flag.String("side", "", "order side: BUY or SELL")
	kind := flag.String("type", "", "order type: MARKET, LIMIT, or STOP_LIMIT")
	quantity := flag.String("quantity", "", "order quantity in base asset")
	price := flag.String("price", "", "order price (required for LIMIT/STOP_LIMIT)")
	stopPrice := flag.String("stop-price", "", "stop trigger price (required for STOP_LIMIT)")
	history := flag.Int("history", 0, "print the N most recent order attempts and exit")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *history > 0 {
		printHistory(bootstrap, *history)
		return
	}

	if err := bootstrap.ValidateConnection(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var req domain.OrderRequest
	var err error
	if *symbol == "" && *side == "" && *kind == "" {
		req, err = promptOrder(ctx, bootstrap)
	} else {
		req, err = orderFromFlags(*symbol, *side, *kind, *quantity, *price, *stopPrice)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	outcome := bootstrap.Engine.PlaceOrder(ctx, req)
	printOutcome(outcome)
	if !outcome.OK() {
		os.Exit(1)
	}
}

// orderFromFlags assembles a request from command-line arguments. Field
// validation proper happens in the engine; this only parses numbers.
func orderFromFlags(symbol, side, kind, quantity, price, stopPrice string) (domain.OrderRequest, error) {
	req := domain.OrderRequest{Symbol: symbol, Side: side, Kind: kind}

	var err error
	if req.Quantity, err = decimal.NewFromString(quantity); err != nil {
		return req, fmt.Errorf("--quantity %q is not a number", quantity)
	}
	if price != "" {
		if req.Price, err = decimal.NewFromString(price); err != nil {
			return req, fmt.Errorf("--price %q is not a number", price)
		}
	}
	if stopPrice != "" {
		if req.StopPrice, err = decimal.NewFromString(stopPrice); err != nil {
			return req, fmt.Errorf("--stop-price %q is not a number", stopPrice)
		}
	}
	return req, nil
}

// promptOrder collects an order interactively, re-prompting until each
// field parses. Validation rules still run in the engine; the prompts
// only prevent obvious typos from going through a network round trip.
func promptOrder(ctx context.Context, bootstrap *app.Bootstrap) (domain.OrderRequest, error) {
	fmt.Println("==============================")
	fmt.Println(" APEX Bot - Binance Futures Testnet Trader")
	fmt.Println("==============================")

	reader := bufio.NewReader(os.Stdin)

	symbol := promptChoice(reader, "Enter symbol (e.g. BTCUSDT): ", func(s string) bool {
		return strings.HasSuffix(strings.ToUpper(s), "USDT") && len(s) >= 6
	}, "Invalid symbol. Must end with 'USDT'.")
	symbol = strings.ToUpper(symbol)

	side := promptChoice(reader, "Enter side (BUY/SELL): ", func(s string) bool {
		u := strings.ToUpper(s)
		return u == domain.SideBuy || u == domain.SideSell
	}, "Invalid side. Enter BUY or SELL.")

	kind := promptChoice(reader, "Enter order type (MARKET/LIMIT/STOP_LIMIT): ", func(s string) bool {
		u := strings.ToUpper(s)
		return u == domain.KindMarket || u == domain.KindLimit || u == domain.KindStopLimit
	}, "Invalid type. Enter MARKET, LIMIT, or STOP_LIMIT.")
	kind = strings.ToUpper(kind)

	rules := bootstrap.Engine.Rules(ctx, symbol)
	if rules != nil {
		fmt.Printf("\nSymbol rules for %s:\n", symbol)
		fmt.Printf("- Min quantity: %s\n", rules.MinQty)
		fmt.Printf("- Step size:    %s\n", rules.StepSize)
		fmt.Printf("- Min notional: %s USDT\n\n", rules.MinNotional)
	} else {
		fmt.Println("\n[WARNING] Could not fetch symbol rules; only basic checks will run.")
	}

	showMarkPrice(ctx, bootstrap, symbol)

	req := domain.OrderRequest{Symbol: symbol, Side: side, Kind: kind}
	req.Quantity = promptDecimal(reader, "Enter quantity: ")
	if req.NeedsPrice() {
		req.Price = promptDecimal(reader, "Enter price: ")
	}
	if req.NeedsStopPrice() {
		req.StopPrice = promptDecimal(reader, "Enter stop price: ")
	}

	printSummary(req)

	// Below-minimum notional is only a warning; let the user back out
	// before the order is sent.
	if rules != nil && req.EstimatedNotional().LessThan(rules.MinNotional) {
		fmt.Printf("[WARNING] Order value (%s USDT) is below the minimum (%s USDT).\n",
			req.EstimatedNotional(), rules.MinNotional)
		if !confirm(reader, "Continue anyway? (y/n): ") {
			return req, fmt.Errorf("order canceled")
		}
	}

	if !confirm(reader, "Place this order? (y/n): ") {
		return req, fmt.Errorf("order canceled")
	}
	return req, nil
}

// showMarkPrice briefly taps the mark price stream so the user sees
// roughly where the market is before typing a price.
func showMarkPrice(ctx context.Context, bootstrap *app.Bootstrap, symbol string) {
	worker := binance.NewMarkPriceWorker(bootstrap.Config.API.Binance.WSURL, symbol)
	if err := worker.Connect(ctx); err != nil {
		return
	}
	defer worker.Disconnect()

	deadline := time.Now().Add(4 * time.Second)
	for time.Now().Before(deadline) {
		if price, at := worker.LastPrice(); price.IsPositive() {
			fmt.Printf("Current mark price: %s (as of %s)\n\n", price, at.Format("15:04:05"))
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(200 * time.Millisecond):
		}
	}
	slog.Debug("no mark price update before deadline", slog.String("symbol", symbol))
}

func promptChoice(reader *bufio.Reader, prompt string, valid func(string) bool, complaint string) string {
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			os.Exit(1)
		}
		line = strings.TrimSpace(line)
		if valid(line) {
			return line
		}
		fmt.Println(complaint)
	}
}

func promptDecimal(reader *bufio.Reader, prompt string) decimal.Decimal {
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			os.Exit(1)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Enter a valid number (e.g. 0.001).")
			continue
		}
		if !value.IsPositive() {
			fmt.Println("Value must be greater than 0.")
			continue
		}
		return value
	}
}

func confirm(reader *bufio.Reader, prompt string) bool {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func printSummary(req domain.OrderRequest) {
	fmt.Println("\n=== Order Summary ===")
	fmt.Printf("Symbol:    %s\n", req.Symbol)
	fmt.Printf("Side:      %s\n", req.Side)
	fmt.Printf("Type:      %s\n", req.Kind)
	fmt.Printf("Quantity:  %s\n", req.Quantity)
	if req.Price.IsPositive() {
		fmt.Printf("Price:     %s\n", req.Price)
	}
	if req.StopPrice.IsPositive() {
		fmt.Printf("Stop Price: %s\n", req.StopPrice)
	}
	fmt.Println("=====================")
}

func printOutcome(outcome domain.Outcome) {
	for _, warning := range outcome.Warnings {
		fmt.Printf("[WARNING] %s\n", warning)
	}
	if outcome.OK() {
		fmt.Printf("Order placed successfully! Order ID: %s, status: %s\n",
			outcome.Accepted.OrderID, outcome.Accepted.Status)
		return
	}
	fmt.Printf("Order rejected (%s): %s\n", outcome.Rejected.Stage, outcome.Rejected.Reason)
}

func printHistory(bootstrap *app.Bootstrap, limit int) {
	records, err := bootstrap.Storage.RecentOrders(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load history: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No order attempts recorded yet.")
		return
	}
	for _, rec := range records {
		status := "REJECTED"
		detail := rec.Reason
		if rec.Accepted {
			status = "ACCEPTED"
			detail = fmt.Sprintf("id=%s status=%s", rec.OrderID, rec.Status)
		}
		fmt.Printf("%s  %-8s %-4s %-10s qty=%-10s %s  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Symbol, rec.Side, rec.Kind, rec.Quantity, status, detail)
	}
}
