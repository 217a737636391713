// Package vrchat fetches world metadata from the VRChat API.
package vrchat

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/worldsalbum/worlds-server/internal/domain"
)

// Client errors.
var (
	// ErrWorldNotFound means the remote API has no world with that ID,
	// typically because it was unpublished or deleted.
	ErrWorldNotFound = errors.New("world not found on remote API")

	// ErrUnavailable means the circuit breaker is open after repeated
	// failures and the request was not attempted.
	ErrUnavailable = errors.New("metadata API unavailable")
)

// Client provides access to the VRChat world API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient creates a new VRChat client.
// Rate limited to one request per second with a small burst; the API bans
// aggressive callers. Repeated failures trip a circuit breaker so scans keep
// running while the API is down.
func NewClient(baseURL, userAgent string, logger *slog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "vrchat",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing world is a valid answer, not an API failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrWorldNotFound)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("metadata API circuit state changed",
					"from", from.String(),
					"to", to.String(),
				)
			}
		},
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
		now:     time.Now,
	}
}

// FetchWorld retrieves the current metadata snapshot for a world.
func (c *Client) FetchWorld(ctx context.Context, worldID string) (*domain.WorldMetadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetchWorld(ctx, worldID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, err
	}

	meta, ok := result.(*domain.WorldMetadata)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", result)
	}
	return meta, nil
}

func (c *Client) fetchWorld(ctx context.Context, worldID string) (*domain.WorldMetadata, error) {
	reqURL := c.baseURL + "/worlds/" + url.PathEscape(worldID)

	if c.logger != nil {
		c.logger.Debug("fetching world metadata", "world_id", worldID, "url", reqURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decoding.
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrWorldNotFound
	default:
		return nil, fmt.Errorf("metadata request failed: status %d", resp.StatusCode)
	}

	var wr worldResponse
	if err := json.UnmarshalRead(resp.Body, &wr); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if wr.ID == "" {
		wr.ID = worldID
	}

	return wr.toDomain(c.now().UTC()), nil
}
