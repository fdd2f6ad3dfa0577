// Package quickchart renders Chart.js configurations into hosted images.
package quickchart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/metrics"
)

// DefaultBaseURL is the public QuickChart service.
const DefaultBaseURL = "https://quickchart.io"

// ErrNotCreated is returned when the service answers 200 without a URL.
var ErrNotCreated = errors.New("quickchart: chart not created")

// Request is the body of POST /chart/create.
type Request struct {
	Chart           any    `json:"chart"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	Version         string `json:"version,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("quickchart: unexpected status %d: %s", e.Status, e.Body)
}

// Code names the failure for handler error codes.
func (e *StatusError) Code() string { return "quickchart_http_" + strconv.Itoa(e.Status) }

// StatusCode exposes the HTTP status for error classification.
func (e *StatusError) StatusCode() int { return e.Status }

// Client talks to QuickChart.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a client. Empty baseURL selects DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Create renders r and returns the short URL of the image.
func (c *Client) Create(ctx context.Context, r Request) (chartURL string, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordExternalCall("quickchart", "create", err, time.Since(start))
		if err != nil {
			logger.Warn(ctx, logger.CompQuickChart, "create.fail",
				logger.Err(err),
				slog.Duration("took", logger.Took(start)),
			)
			return
		}
		logger.Debug(ctx, logger.CompQuickChart, "create.ok",
			slog.String("url", chartURL),
			slog.Duration("took", logger.Took(start)),
		)
	}()

	body, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("quickchart: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chart/create", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("quickchart: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("quickchart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var result struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("quickchart: decode response: %w", err)
	}
	if !result.Success || result.URL == "" {
		return "", ErrNotCreated
	}
	return result.URL, nil
}
