// Package market is a small CoinGecko REST client.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/metrics"
)

// DefaultBaseURL is the public CoinGecko API.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

const apiKeyHeader = "x-cg-demo-api-key"

// Prices maps coin id -> currency -> price, as returned by simple/price.
type Prices map[string]map[string]decimal.Decimal

// Point is one sample of a historical series.
type Point struct {
	Time  time.Time
	Price decimal.Decimal
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market %s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

// Code names the failure for handler error codes.
func (e *StatusError) Code() string { return "coingecko_http_" + strconv.Itoa(e.Status) }

// StatusCode exposes the HTTP status for error classification.
func (e *StatusError) StatusCode() int { return e.Status }

// Client talks to CoinGecko.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient builds a client. Empty baseURL selects DefaultBaseURL; a nil
// httpClient selects http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// SimplePrice returns spot prices of ids in each of the vs currencies.
// Coins or currencies the provider does not know are absent from the result.
func (c *Client) SimplePrice(ctx context.Context, ids, vs []string) (Prices, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.Join(vs, ","))

	var out Prices
	if err := c.get(ctx, "simple_price", "/simple/price", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarketChart returns the price series of coin id in vs over the trailing days.
func (c *Client) MarketChart(ctx context.Context, id, vs string, days int) ([]Point, error) {
	q := url.Values{}
	q.Set("vs_currency", vs)
	q.Set("days", strconv.Itoa(days))

	var raw struct {
		Prices [][2]decimal.Decimal `json:"prices"`
	}
	if err := c.get(ctx, "market_chart", "/coins/"+url.PathEscape(id)+"/market_chart", q, &raw); err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(raw.Prices))
	for _, p := range raw.Prices {
		points = append(points, Point{
			Time:  time.UnixMilli(p[0].IntPart()).UTC(),
			Price: p[1],
		})
	}
	return points, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, dst any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordExternalCall("coingecko", op, err, time.Since(start))
		if err != nil {
			logger.Warn(ctx, logger.CompMarket, "request.fail",
				slog.String("op", op),
				logger.Err(err),
				slog.Duration("took", logger.Took(start)),
			)
			return
		}
		logger.Debug(ctx, logger.CompMarket, "request.ok",
			slog.String("op", op),
			slog.Duration("took", logger.Took(start)),
		)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("market %s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("market %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("market %s: decode response: %w", op, err)
	}
	return nil
}
