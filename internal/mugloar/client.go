// Package mugloar is a typed client for the Dragons of Mugloar v2 API.
//
// The client exposes the five game operations (start, investigate
// reputation, list messages, list shop items, solve, buy) and returns
// validated typed values or a *RemoteError. Retry of transient failures
// is handled here; the decision engine above never retries.
//
// Usage:
//
//	client := mugloar.NewClient(mugloar.Config{})
//	info, err := client.StartGame(ctx)
package mugloar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public game server.
const DefaultBaseURL = "https://dragonsofmugloar.com/api/v2"

// Config holds configuration for the API client.
type Config struct {
	// BaseURL of the game API. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// MaxRetries is the maximum number of retry attempts for retryable
	// errors. Defaults to 3 if zero; set negative to disable retries.
	MaxRetries int

	// BaseRetryDelay is the initial delay before the first retry.
	// Defaults to 1 second if zero.
	BaseRetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff delay.
	// Defaults to 10 seconds if zero.
	MaxRetryDelay time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for
	// testing). Defaults to a client with a 30s timeout.
	HTTPClient *http.Client

	// UserAgent overrides the User-Agent header. Optional.
	UserAgent string
}

// Client is a Dragons of Mugloar API client. Safe for concurrent use.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a client with the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseRetryDelay == 0 {
		cfg.BaseRetryDelay = time.Second
	}
	if cfg.MaxRetryDelay == 0 {
		cfg.MaxRetryDelay = 10 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{config: cfg, http: httpClient}
}

// BaseURL returns the configured API base.
func (c *Client) BaseURL() string { return c.config.BaseURL }

// StartGame creates a new game session.
func (c *Client) StartGame(ctx context.Context) (GameInfo, error) {
	var resp startResponse
	if err := c.do(ctx, http.MethodPost, "/game/start", &resp); err != nil {
		return GameInfo{}, err
	}
	if resp.GameID == "" {
		return GameInfo{}, protocolError("start: missing gameId")
	}
	fields := []*int{resp.Lives, resp.Gold, resp.Level, resp.Score, resp.HighScore, resp.Turn}
	for _, f := range fields {
		if f == nil {
			return GameInfo{}, protocolError("start: missing numeric field")
		}
	}
	return GameInfo{
		GameID:    resp.GameID,
		Lives:     *resp.Lives,
		Gold:      *resp.Gold,
		Level:     *resp.Level,
		Score:     *resp.Score,
		HighScore: *resp.HighScore,
		Turn:      *resp.Turn,
	}, nil
}

// InvestigateReputation queries the three reputation axes. The call
// advances the server's turn counter even though the response does not
// echo it back; session accounting is the caller's concern.
func (c *Client) InvestigateReputation(ctx context.Context, gameID string) (Reputation, error) {
	var resp reputationResponse
	path := "/" + gameID + "/investigate/reputation"
	if err := c.do(ctx, http.MethodPost, path, &resp); err != nil {
		return Reputation{}, err
	}
	if resp.People == nil || resp.State == nil || resp.Underworld == nil {
		return Reputation{}, protocolError("investigate: missing reputation field")
	}
	return Reputation{People: *resp.People, State: *resp.State, Underworld: *resp.Underworld}, nil
}

// Messages lists the current quest offers with text fields decoded.
func (c *Client) Messages(ctx context.Context, gameID string) ([]Message, error) {
	// The documented envelope is an object, but the server sends a bare
	// array as the root.
	var resp []messageResponse
	if err := c.do(ctx, http.MethodGet, "/"+gameID+"/messages", &resp); err != nil {
		return nil, err
	}
	msgs := make([]Message, 0, len(resp))
	for _, m := range resp {
		if m.AdID == "" || m.Reward == nil || m.ExpiresIn == nil {
			return nil, protocolError("messages: malformed entry (adId=%q)", m.AdID)
		}
		if *m.Reward < 0 || *m.ExpiresIn < 0 {
			return nil, protocolError("messages: negative reward/expiry for %q", m.AdID)
		}
		cipher := cipherOf(m.Encrypted)
		text, err := decodeText(cipher, m.Message)
		if err != nil {
			return nil, protocolError("messages: undecodable text for %q: %v", m.AdID, err)
		}
		probability, err := decodeText(cipher, m.Probability)
		if err != nil {
			return nil, protocolError("messages: undecodable probability for %q: %v", m.AdID, err)
		}
		adID, err := decodeText(cipher, m.AdID)
		if err != nil {
			return nil, protocolError("messages: undecodable adId %q: %v", m.AdID, err)
		}
		msgs = append(msgs, Message{
			AdID:        adID,
			Text:        text,
			Reward:      *m.Reward,
			ExpiresIn:   *m.ExpiresIn,
			Probability: probability,
			Cipher:      cipher,
		})
	}
	return msgs, nil
}

// Solve attempts a quest.
func (c *Client) Solve(ctx context.Context, gameID, adID string) (SolveResult, error) {
	var resp solveResponse
	path := "/" + gameID + "/solve/" + adID
	if err := c.do(ctx, http.MethodPost, path, &resp); err != nil {
		return SolveResult{}, err
	}
	if resp.Success == nil || resp.Lives == nil || resp.Gold == nil ||
		resp.Score == nil || resp.HighScore == nil || resp.Turn == nil {
		return SolveResult{}, protocolError("solve: missing field in response")
	}
	return SolveResult{
		Success:   *resp.Success,
		Lives:     *resp.Lives,
		Gold:      *resp.Gold,
		Score:     *resp.Score,
		HighScore: *resp.HighScore,
		Turn:      *resp.Turn,
		Narrative: resp.Message,
	}, nil
}

// ShopItems lists the purchasable items.
func (c *Client) ShopItems(ctx context.Context, gameID string) ([]Item, error) {
	// Bare-array root, same as Messages.
	var resp []itemResponse
	if err := c.do(ctx, http.MethodGet, "/"+gameID+"/shop", &resp); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(resp))
	for _, it := range resp {
		if it.ID == "" || it.Cost == nil {
			return nil, protocolError("shop: malformed entry (id=%q)", it.ID)
		}
		items = append(items, Item{ID: it.ID, Name: it.Name, Cost: *it.Cost})
	}
	return items, nil
}

// BuyItem purchases an item.
func (c *Client) BuyItem(ctx context.Context, gameID, itemID string) (BuyResult, error) {
	var resp buyResponse
	path := "/" + gameID + "/shop/buy/" + itemID
	if err := c.do(ctx, http.MethodPost, path, &resp); err != nil {
		return BuyResult{}, err
	}
	if resp.Success == nil || resp.Gold == nil || resp.Lives == nil ||
		resp.Level == nil || resp.Turn == nil {
		return BuyResult{}, protocolError("buy: missing field in response")
	}
	return BuyResult{
		Success: *resp.Success,
		Gold:    *resp.Gold,
		Lives:   *resp.Lives,
		Level:   *resp.Level,
		Turn:    *resp.Turn,
	}, nil
}

// --- Core request plumbing ---

// do sends a request with automatic retry on retryable errors and decodes
// the JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, out any) error {
	var lastErr *RemoteError

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay(attempt)):
			case <-ctx.Done():
				return transportError(ctx.Err())
			}
		}

		err := c.doOnce(ctx, method, path, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !err.IsRetryable() {
			return err
		}
	}

	return &RemoteError{
		Kind:       lastErr.Kind,
		Detail:     fmt.Sprintf("max retries exceeded: %s", lastErr.Detail),
		StatusCode: lastErr.StatusCode,
		Err:        lastErr.Err,
	}
}

func (c *Client) doOnce(ctx context.Context, method, path string, out any) *RemoteError {
	url := strings.TrimRight(c.config.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return protocolError("%s %s: invalid response JSON: %v", method, path, err)
	}
	return nil
}

// retryDelay calculates the backoff delay for a given attempt number.
func (c *Client) retryDelay(attempt int) time.Duration {
	delay := c.config.BaseRetryDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > c.config.MaxRetryDelay {
		delay = c.config.MaxRetryDelay
	}
	return delay
}
