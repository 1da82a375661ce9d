package betprovider

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	"github.com/riskibarqy/bet-tracker/internal/domain/stats"
	"github.com/riskibarqy/bet-tracker/internal/ingest"
	"github.com/riskibarqy/bet-tracker/internal/platform/logging"
	"github.com/riskibarqy/bet-tracker/internal/platform/resilience"
	"github.com/riskibarqy/bet-tracker/internal/usecase"
)

// Providers disagree on where the bet collection lives, so the client walks
// a list of candidate paths and keeps the first one that answers.
var betPathCandidates = []string{"/bets", "/api/bets", "/v1/bets"}
var statsPathCandidates = []string{"/stats", "/api/stats", "/v1/stats"}

var errProviderTransient = crerr.New("bet provider transient failure")
var errProviderNotFound = crerr.New("bet provider endpoint not found")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchBets pulls the raw bet collection for userID and normalizes it into
// canonical bets. Whatever shape the provider answers with (bare array,
// wrapped object, paginated envelope) goes through the same parser.
func (c *Client) FetchBets(ctx context.Context, userID string) ([]bet.Bet, error) {
	payload, err := c.fetchFirst(ctx, betPathCandidates, userID)
	if err != nil {
		return nil, err
	}

	return ingest.ParseBetList(payload), nil
}

// FetchStats pulls the provider's pre-aggregated summary. found is false
// when no stats endpoint answered with a usable payload.
func (c *Client) FetchStats(ctx context.Context, userID string) (stats.Stats, bool, error) {
	payload, err := c.fetchFirst(ctx, statsPathCandidates, userID)
	if err != nil {
		// A provider without a stats endpoint is not an error, just a miss.
		if stderrors.Is(err, errProviderNotFound) {
			return stats.Stats{}, false, nil
		}
		return stats.Stats{}, false, err
	}
	if payload == nil {
		return stats.Stats{}, false, nil
	}

	return ingest.NormalizeStats(payload), true, nil
}

// fetchFirst tries each candidate path in order and returns the first
// decodable payload. A non-retryable miss (404 and friends) moves on to the
// next candidate; transport failures abort.
func (c *Client) fetchFirst(ctx context.Context, paths []string, userID string) (any, error) {
	var lastErr error
	for _, path := range paths {
		payload, err := c.doJSON(ctx, path, map[string]string{"user_id": userID})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.WarnContext(ctx, "provider endpoint failed, trying next candidate",
				"path", path,
				"error", err,
			)
			continue
		}
		return payload, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no provider endpoint configured")
	}
	return nil, fmt.Errorf("all provider endpoints failed: %w", lastErr)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string) (any, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: provider base url is not configured", usecase.ErrDependencyUnavailable)
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "bet provider circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: bet provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var payload any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return payload, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errProviderTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			} else if resp.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: status=404 url=%s", errProviderNotFound, fullURL)
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "bet provider request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errProviderTransient)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
