package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"apex_bot/internal/domain"
	"apex_bot/internal/infra"

	"github.com/shopspring/decimal"
)

// Client is the Binance USDT-M Futures testnet REST client (boundary layer).
// It implements domain.ExchangeGateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     *Signer
	logger     *slog.Logger
}

// NewClient creates a new Binance futures API client.
func NewClient(cfg *infra.Config) *Client {
	signer := NewSigner(
		cfg.API.Binance.APIKey,
		cfg.API.Binance.SecretKey,
		cfg.API.Binance.RecvWindowMS,
	)

	return &Client{
		baseURL: strings.TrimSuffix(cfg.API.Binance.RestURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		signer: signer,
		logger: slog.Default().With("module", "binance_client"),
	}
}

// CreateOrder performs one order-placement attempt. Failures come back as
// *domain.Fault, already mapped onto the category taxonomy.
func (c *Client) CreateOrder(ctx context.Context, params domain.OrderParams) (*domain.OrderAck, error) {
	values := url.Values{}
	values.Set("symbol", params.Symbol)
	values.Set("side", params.Side)
	values.Set("type", params.Type)
	values.Set("quantity", params.Quantity)
	if params.Price != "" {
		values.Set("price", params.Price)
	}
	if params.StopPrice != "" {
		values.Set("stopPrice", params.StopPrice)
	}
	if params.TimeInForce != "" {
		values.Set("timeInForce", params.TimeInForce)
	}
	if params.ClientOrderID != "" {
		values.Set("newClientOrderId", params.ClientOrderID)
	}

	body, err := c.doSigned(ctx, http.MethodPost, "/fapi/v1/order", values)
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewFault(domain.FaultUnknown, "unparseable order response", err)
	}

	ack := &domain.OrderAck{
		OrderID: strconv.FormatInt(resp.OrderID, 10),
		Status:  resp.Status,
		Fields: map[string]string{
			"symbol":        resp.Symbol,
			"side":          resp.Side,
			"type":          resp.Type,
			"origQty":       resp.OrigQty,
			"price":         resp.Price,
			"stopPrice":     resp.StopPrice,
			"timeInForce":   resp.TimeInForce,
			"clientOrderId": resp.ClientOrderID,
		},
	}

	c.logger.Info("order placed",
		slog.String("order_id", ack.OrderID),
		slog.String("symbol", resp.Symbol),
		slog.String("status", resp.Status))
	return ack, nil
}

// SymbolRules fetches the trading constraints for one symbol from the
// instrument metadata. (nil, nil) means unknown or not currently trading.
func (c *Client) SymbolRules(ctx context.Context, symbol string) (*domain.SymbolRules, error) {
	values := url.Values{}
	values.Set("symbol", symbol)

	body, err := c.doPublic(ctx, http.MethodGet, "/fapi/v1/exchangeInfo", values)
	if err != nil {
		return nil, err
	}

	var info exchangeInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse exchangeInfo: %w", err)
	}

	for _, s := range info.Symbols {
		if s.Symbol != symbol || s.Status != symbolStatusTrading {
			continue
		}
		return rulesFromFilters(symbol, s.Filters), nil
	}
	return nil, nil
}

// ValidateConnection performs a signed balance call to prove the
// credentials and the network path work before any order is attempted.
func (c *Client) ValidateConnection(ctx context.Context) error {
	_, err := c.doSigned(ctx, http.MethodGet, "/fapi/v2/balance", url.Values{})
	if err != nil {
		var fault *domain.Fault
		if errors.As(err, &fault) && fault.Category == domain.FaultNetwork {
			return fmt.Errorf("cannot reach the futures testnet, check your connection: %w", err)
		}
		return fmt.Errorf("testnet rejected the credentials, check your API keys: %w", err)
	}
	return nil
}

// rulesFromFilters extracts LOT_SIZE and MIN_NOTIONAL, falling back to the
// long-standing defaults when a filter is absent.
func rulesFromFilters(symbol string, filters []infoFilter) *domain.SymbolRules {
	rules := &domain.SymbolRules{
		Symbol:      symbol,
		MinQty:      mustDec(defaultMinQty),
		StepSize:    mustDec(defaultStepSize),
		MinNotional: mustDec(defaultMinNotional),
	}

	for _, f := range filters {
		switch f.FilterType {
		case filterLotSize:
			if d, err := decimal.NewFromString(f.MinQty); err == nil {
				rules.MinQty = d
			}
			if d, err := decimal.NewFromString(f.StepSize); err == nil {
				rules.StepSize = d
			}
		case filterMinNotional:
			if d, err := decimal.NewFromString(f.Notional); err == nil {
				rules.MinNotional = d
			}
		}
	}
	return rules
}

// doSigned sends an authenticated request and maps every failure mode to a
// *domain.Fault.
func (c *Client) doSigned(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	query := c.signer.Sign(params)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return nil, domain.NewFault(domain.FaultUnknown, "failed to build request", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewFault(domain.FaultNetwork, "request failed: "+err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewFault(domain.FaultNetwork, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, faultFromResponse(resp.StatusCode, body)
	}
	return body, nil
}

// doPublic sends an unauthenticated request. Errors stay plain: callers of
// the metadata endpoints treat any failure as a resolver miss.
func (c *Client) doPublic(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance api error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return body, nil
}

// faultFromResponse maps an HTTP status and Binance error envelope onto
// the fault taxonomy.
func faultFromResponse(status int, body []byte) *domain.Fault {
	var envelope errorResponse
	_ = json.Unmarshal(body, &envelope)

	msg := envelope.Msg
	if msg == "" {
		msg = fmt.Sprintf("status=%d body=%s", status, strings.TrimSpace(string(body)))
	}
	if envelope.Code != 0 {
		msg = fmt.Sprintf("[%d] %s", envelope.Code, msg)
	}

	category := categorize(status, envelope.Code)
	return domain.NewFault(category, msg, nil)
}

// categorize follows the Binance error conventions: -2014/-2015 are key
// problems, -1003 and HTTP 429/418 are rate limits, remaining 4xx are
// requests the exchange could not accept.
func categorize(status, code int) string {
	switch code {
	case -2014, -2015: // bad API key format / invalid key, IP, or permissions
		return domain.FaultAuth
	case -1003: // too many requests
		return domain.FaultRateLimit
	}

	switch status {
	case http.StatusUnauthorized:
		return domain.FaultAuth
	case http.StatusForbidden:
		return domain.FaultPermission
	case http.StatusTooManyRequests, http.StatusTeapot: // 418: auto-ban for repeat offenders
		return domain.FaultRateLimit
	}

	if status >= 400 && status < 500 {
		return domain.FaultMalformed
	}
	if status >= 500 {
		return domain.FaultNetwork
	}
	return domain.FaultUnknown
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
