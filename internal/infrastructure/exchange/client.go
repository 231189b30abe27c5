package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
)

// Client is the REST exchange gateway. Amounts and prices are formatted
// with decimal so wire values never carry float artifacts.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// signedRequest is the shared helper for signed REST calls.
func (c *Client) signedRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	if c.baseURL == "" {
		return nil, port.ErrNotConnected
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	query := params.Encode()
	endpoint := fmt.Sprintf("%s%s?%s&signature=%s", c.baseURL, path, query, c.sign(query))

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, translateStatus(resp.StatusCode, body)
	}
	return body, nil
}

func decStr(v float64) string {
	return decimal.NewFromFloat(v).Round(8).String()
}

func (c *Client) FetchBalance(ctx context.Context) (map[string]float64, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/api/v1/balance", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Free map[string]float64 `json:"free"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode balance: %w", err)
	}
	return out.Free, nil
}

func (c *Client) CreateOrder(ctx context.Context, symbol string, typ port.OrderType, side port.OrderSide, amount, price float64, params *port.OrderParams) (*port.Order, error) {
	vals := url.Values{}
	vals.Set("symbol", symbol)
	vals.Set("type", string(typ))
	vals.Set("side", string(side))
	vals.Set("amount", decStr(amount))
	if price > 0 {
		vals.Set("price", decStr(price))
	}
	if params != nil && params.StopPrice > 0 {
		vals.Set("stopPrice", decStr(params.StopPrice))
	}

	body, err := c.signedRequest(ctx, http.MethodPost, "/api/v1/order", vals)
	if err != nil {
		return nil, err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &port.Order{
		ID:     out.ID,
		Symbol: symbol,
		Type:   typ,
		Side:   side,
		Amount: amount,
		Price:  price,
	}, nil
}

func (c *Client) FetchOpenOrders(ctx context.Context, symbol string) ([]*port.Order, error) {
	vals := url.Values{}
	vals.Set("symbol", symbol)
	body, err := c.signedRequest(ctx, http.MethodGet, "/api/v1/orders", vals)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		ID     string  `json:"id"`
		Symbol string  `json:"symbol"`
		Type   string  `json:"type"`
		Side   string  `json:"side"`
		Amount float64 `json:"amount"`
		Price  float64 `json:"price"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	out := make([]*port.Order, 0, len(raw))
	for _, o := range raw {
		out = append(out, &port.Order{
			ID:     o.ID,
			Symbol: o.Symbol,
			Type:   port.OrderType(o.Type),
			Side:   port.OrderSide(o.Side),
			Amount: o.Amount,
			Price:  o.Price,
		})
	}
	return out, nil
}

func (c *Client) CancelOrder(ctx context.Context, id, symbol string) error {
	vals := url.Values{}
	vals.Set("id", id)
	vals.Set("symbol", symbol)
	_, err := c.signedRequest(ctx, http.MethodDelete, "/api/v1/order", vals)
	return err
}

func (c *Client) FetchPositions(ctx context.Context) ([]*port.ExchangePosition, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/api/v1/positions", nil)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		ID            string  `json:"id"`
		Symbol        string  `json:"symbol"`
		Contracts     float64 `json:"contracts"`
		EntryPrice    float64 `json:"entryPrice"`
		UnrealizedPnL float64 `json:"unrealizedPnl"`
		Timestamp     int64   `json:"timestamp"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}
	out := make([]*port.ExchangePosition, 0, len(raw))
	for _, p := range raw {
		out = append(out, &port.ExchangePosition{
			ID:            p.ID,
			Symbol:        p.Symbol,
			Contracts:     p.Contracts,
			EntryPrice:    p.EntryPrice,
			UnrealizedPnL: p.UnrealizedPnL,
			Timestamp:     p.Timestamp,
		})
	}
	return out, nil
}

func (c *Client) TickerPrice(ctx context.Context, symbol string) (*port.Ticker, error) {
	vals := url.Values{}
	vals.Set("symbol", symbol)
	body, err := c.signedRequest(ctx, http.MethodGet, "/api/v1/ticker", vals)
	if err != nil {
		return nil, err
	}
	var out struct {
		Last float64 `json:"last"`
		Ts   int64   `json:"ts"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode ticker: %w", err)
	}
	return &port.Ticker{Symbol: symbol, Last: out.Last, Ts: out.Ts}, nil
}

func (c *Client) FetchOHLCV(ctx context.Context, symbol string, fromMs, toMs int64) ([]model.PriceSample, error) {
	vals := url.Values{}
	vals.Set("symbol", symbol)
	vals.Set("from", strconv.FormatInt(fromMs, 10))
	vals.Set("to", strconv.FormatInt(toMs, 10))
	body, err := c.signedRequest(ctx, http.MethodGet, "/api/v1/ohlcv", vals)
	if err != nil {
		return nil, err
	}
	var out []model.PriceSample
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode ohlcv: %w", err)
	}
	return out, nil
}

var _ port.ExchangeGateway = (*Client)(nil)
