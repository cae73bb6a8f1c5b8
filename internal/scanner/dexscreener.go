package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"solana-survival-bot/internal/domain"
)

// Default DexScreener configuration.
const (
	DefaultDexScreenerURL = "https://api.dexscreener.com/latest/dex/search"
	DefaultSearchQuery    = "SOL"
	DefaultChainID        = "solana"
	DefaultFetchTimeout   = 10 * time.Second
)

// DexScreenerSource fetches trending pairs from the DexScreener search API.
type DexScreenerSource struct {
	baseURL string
	query   string
	chainID string
	client  *http.Client
}

// DexScreenerOption configures DexScreenerSource.
type DexScreenerOption func(*DexScreenerSource)

// WithBaseURL sets the search endpoint URL.
func WithBaseURL(u string) DexScreenerOption {
	return func(s *DexScreenerSource) {
		s.baseURL = u
	}
}

// WithQuery sets the search query.
func WithQuery(q string) DexScreenerOption {
	return func(s *DexScreenerSource) {
		s.query = q
	}
}

// WithChainID sets the chain to filter pairs by.
func WithChainID(id string) DexScreenerOption {
	return func(s *DexScreenerSource) {
		s.chainID = id
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(c *http.Client) DexScreenerOption {
	return func(s *DexScreenerSource) {
		s.client = c
	}
}

// NewDexScreenerSource creates a DexScreener market data source.
func NewDexScreenerSource(opts ...DexScreenerOption) *DexScreenerSource {
	s := &DexScreenerSource{
		baseURL: DefaultDexScreenerURL,
		query:   DefaultSearchQuery,
		chainID: DefaultChainID,
		client:  &http.Client{Timeout: DefaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider name.
func (s *DexScreenerSource) Name() string {
	return "dexscreener"
}

// searchResponse mirrors the DexScreener /latest/dex/search payload.
// priceUsd arrives as a string; every other numeric field may be absent and
// defaults to zero.
type searchResponse struct {
	Pairs []pair `json:"pairs"`
}

type pair struct {
	ChainID     string      `json:"chainId"`
	BaseToken   token       `json:"baseToken"`
	PriceUSD    string      `json:"priceUsd"`
	Liquidity   liquidity   `json:"liquidity"`
	Volume      volume      `json:"volume"`
	PriceChange priceChange `json:"priceChange"`
	Txns        txns        `json:"txns"`
}

type token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type liquidity struct {
	USD float64 `json:"usd"`
}

type volume struct {
	H24 float64 `json:"h24"`
}

type priceChange struct {
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type txns struct {
	H24 buysSells `json:"h24"`
}

type buysSells struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

// Fetch queries the search API and normalizes pairs on the configured chain.
func (s *DexScreenerSource) Fetch(ctx context.Context) ([]*domain.TokenSnapshot, error) {
	reqURL := fmt.Sprintf("%s?q=%s", s.baseURL, url.QueryEscape(s.query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
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

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	snapshots := make([]*domain.TokenSnapshot, 0, len(result.Pairs))
	for _, p := range result.Pairs {
		if p.ChainID != s.chainID {
			continue
		}
		snapshots = append(snapshots, &domain.TokenSnapshot{
			Address:           p.BaseToken.Address,
			Name:              p.BaseToken.Name,
			Symbol:            p.BaseToken.Symbol,
			PriceUSD:          parsePrice(p.PriceUSD),
			LiquidityUSD:      p.Liquidity.USD,
			Volume24hUSD:      p.Volume.H24,
			PriceChange1hPct:  p.PriceChange.H1,
			PriceChange6hPct:  p.PriceChange.H6,
			PriceChange24hPct: p.PriceChange.H24,
			TxnCount24h:       p.Txns.H24.Buys + p.Txns.H24.Sells,
		})
	}

	return snapshots, nil
}

// parsePrice converts the string-typed priceUsd field, defaulting to zero.
func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

var _ Source = (*DexScreenerSource)(nil)
