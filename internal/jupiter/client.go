// Package jupiter is a client for the Jupiter v6 swap API: price quotes and
// executable swap transaction payloads.
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://quote-api.jup.ag/v6"
	DefaultTimeout     = 15 * time.Second
	DefaultSlippageBps = 300 // 3%
)

// Client calls the Jupiter quote and swap endpoints.
type Client struct {
	baseURL     string
	client      *http.Client
	slippageBps int
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithSlippageBps sets the slippage tolerance in basis points.
func WithSlippageBps(bps int) ClientOption {
	return func(c *Client) {
		c.slippageBps = bps
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a Jupiter API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		slippageBps: DefaultSlippageBps,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote requests a price quote for swapping amountLamports of inputMint
// into outputMint.
func (c *Client) Quote(ctx context.Context, inputMint, outputMint string, amountLamports uint64) (*Quote, error) {
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", strconv.FormatUint(amountLamports, 10))
	q.Set("slippageBps", strconv.Itoa(c.slippageBps))
	q.Set("onlyDirectRoutes", "false")

	reqURL := fmt.Sprintf("%s/quote?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty quote response")
	}

	var parsed struct {
		InAmount  string `json:"inAmount"`
		OutAmount string `json:"outAmount"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	if parsed.OutAmount == "" {
		return nil, fmt.Errorf("quote missing outAmount")
	}

	outAmount, err := strconv.ParseUint(parsed.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse outAmount %q: %w", parsed.OutAmount, err)
	}

	var inAmount uint64
	if parsed.InAmount != "" {
		inAmount, err = strconv.ParseUint(parsed.InAmount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse inAmount %q: %w", parsed.InAmount, err)
		}
	}

	return &Quote{
		InputMint:  inputMint,
		OutputMint: outputMint,
		InAmount:   inAmount,
		OutAmount:  outAmount,
		Raw:        json.RawMessage(body),
	}, nil
}

// Swap requests an unsigned transaction payload executing the quote,
// addressed to userPublicKey. Native SOL is wrapped and unwrapped as
// needed, with automatic compute limit and priority fee estimation.
func (c *Client) Swap(ctx context.Context, quote *Quote, userPublicKey string) (string, error) {
	if quote == nil || len(quote.Raw) == 0 {
		return "", fmt.Errorf("nil quote")
	}

	payload := map[string]interface{}{
		"quoteResponse":             quote.Raw,
		"userPublicKey":             userPublicKey,
		"wrapAndUnwrapSol":          true,
		"dynamicComputeUnitLimit":   true,
		"prioritizationFeeLamports": "auto",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		SwapTransaction string `json:"swapTransaction"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal swap response: %w", err)
	}
	if parsed.SwapTransaction == "" {
		return "", fmt.Errorf("no swap transaction received")
	}

	return parsed.SwapTransaction, nil
}
