// Package quoteclient fetches current market prices from Alpha Vantage.
package quoteclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-petr/portfolio-tracker/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the production Alpha Vantage endpoint.
const DefaultBaseURL = "https://www.alphavantage.co"

// Client calls the Alpha Vantage GLOBAL_QUOTE function.
// It performs no retries; retry policy belongs to the caller.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a quote client. An empty baseURL selects the production
// endpoint; timeout bounds every GetPrice call.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// globalQuoteResponse maps the GLOBAL_QUOTE payload. Note and Information
// are set on rate-limit responses instead of the quote object.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// GetPrice returns the latest known trade price for the given ticker.
// Every failure mode maps to domain.ErrQuoteUnavailable with the cause wrapped.
func (c *Client) GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return decimal.Zero, fmt.Errorf("%w: empty ticker", domain.ErrQuoteUnavailable)
	}

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", ticker)
	q.Set("apikey", c.apiKey)

	reqURL := c.baseURL + "/query?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, ticker, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		l.Warn().Err(err).Str("ticker", ticker).Msg("quote request failed")
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.Warn().Int("status_code", resp.StatusCode).Str("ticker", ticker).Msg("quote request failed")
		return decimal.Zero, fmt.Errorf("%w: %s: http %d", domain.ErrQuoteUnavailable, ticker, resp.StatusCode)
	}

	var body globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		l.Warn().Err(err).Str("ticker", ticker).Msg("malformed quote response")
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, ticker, err)
	}

	if body.Note != "" || body.Information != "" {
		l.Warn().Str("ticker", ticker).Msg("quote provider rate limited")
		return decimal.Zero, fmt.Errorf("%w: %s: rate limited", domain.ErrQuoteUnavailable, ticker)
	}

	if body.GlobalQuote.Price == "" {
		return decimal.Zero, fmt.Errorf("%w: %s: no price in response", domain.ErrQuoteUnavailable, ticker)
	}

	price, err := decimal.NewFromString(body.GlobalQuote.Price)
	if err != nil {
		l.Warn().Err(err).Str("ticker", ticker).Msg("malformed quote price")
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, ticker, err)
	}

	return price, nil
}
