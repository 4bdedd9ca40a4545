// Package cheapshark is the remote source gateway for deal listings. It
// issues one paged GET against the public CheapShark API and decodes the
// JSON array it returns. There is no retry: a failure goes straight back
// to the caller as a *TransportError.
package cheapshark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aanand-mishra/deals-registry/internal/types"
)

const DefaultBaseURL = "https://www.cheapshark.com/api/1.0"

// TransportError covers every way a page request can fail: the request
// never completed, the server answered non-2xx, or the body was not the
// expected JSON.
type TransportError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("cheapshark: unexpected status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("cheapshark: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Config configures a Client. Zero values mean: default base URL, all
// stores, no client timeout, no throttling.
type Config struct {
	BaseURL   string
	StoreID   string
	Timeout   time.Duration
	RateLimit float64
	HTTP      *http.Client
}

type Client struct {
	baseURL    string
	storeID    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		baseURL:    baseURL,
		storeID:    cfg.StoreID,
		httpClient: httpClient,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c
}

// FetchPage requests page pageIndex holding up to pageSize deals. An empty
// slice with a nil error means the source has nothing on that page.
func (c *Client) FetchPage(ctx context.Context, pageIndex, pageSize int) ([]types.Deal, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(pageIndex, pageSize), nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	deals := []types.Deal{}
	if err := json.NewDecoder(resp.Body).Decode(&deals); err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode deals: %w", err)}
	}
	if deals == nil {
		deals = []types.Deal{}
	}
	return deals, nil
}

func (c *Client) pageURL(pageIndex, pageSize int) string {
	q := url.Values{}
	if c.storeID != "" {
		q.Set("storeID", c.storeID)
	}
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("pageNumber", strconv.Itoa(pageIndex))
	return c.baseURL + "/deals?" + q.Encode()
}
