package datagen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/toca/internal/domain/model"
	"github.com/okian/toca/pkg/logger"
)

// Client talks JSON to a running analytics service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// get fetches path and decodes a 200 response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// post sends body as JSON and returns the status code and raw response.
func (c *Client) post(ctx context.Context, path string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	out, err := readResponseBody(resp)
	return resp.StatusCode, out, err
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// Health verifies the service answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}

// Leaderboard fetches the top limit entries; limit <= 0 fetches every player.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	path := "/api/players/leaderboard"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var lb []model.LeaderboardEntry
	if err := c.get(ctx, path, &lb); err != nil {
		return nil, err
	}
	return lb, nil
}

// Session fetches one session by id.
func (c *Client) Session(ctx context.Context, id string) (model.TrainingSession, error) {
	var ts model.TrainingSession
	err := c.get(ctx, "/api/training-sessions/"+id, &ts)
	return ts, err
}

type submitResult int

const (
	submitFailed submitResult = iota
	submitAccepted
	submitDuplicate
)

// submit posts one session and classifies the answer.
func (c *Client) submit(ctx context.Context, ts model.TrainingSession) (submitResult, error) { //nolint:gocritic // hugeParam: sessions travel by value
	status, body, err := c.post(ctx, "/api/training-sessions", ts)
	if err != nil {
		return submitFailed, err
	}
	var ack ackResponse
	switch status {
	case http.StatusAccepted:
		return submitAccepted, nil
	case http.StatusOK:
		if err := json.Unmarshal(body, &ack); err == nil && !ack.Duplicate {
			return submitFailed, fmt.Errorf("unexpected ack: %s", string(body))
		}
		return submitDuplicate, nil
	default:
		return submitFailed, fmt.Errorf("HTTP %d: %s", status, string(body))
	}
}

// submitSessions posts sessions with cfg.Workers concurrent requests.
func submitSessions(ctx context.Context, cfg *Config, c *Client, sessions []model.TrainingSession, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting sessions", logger.Int("count", len(sessions)), logger.Int("workers", cfg.Workers))

	var accepted, duplicate, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range sessions {
		ts := sessions[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := c.submit(gctx, ts)
			switch res {
			case submitAccepted:
				accepted.Add(1)
			case submitDuplicate:
				duplicate.Add(1)
			default:
				failed.Add(1)
				if cfg.Verbose {
					log.Warn(gctx, "submission failed", logger.String("id", ts.ID), logger.Error(err))
				}
			}
			return nil
		})
	}
	err := g.Wait()

	stats.SessionsAccepted = int(accepted.Load())
	stats.SessionsDuplicate = int(duplicate.Load())
	stats.SessionsFailed = int(failed.Load())
	stats.SessionsSubmitted = stats.SessionsAccepted + stats.SessionsDuplicate + stats.SessionsFailed

	log.Info(ctx, "session submission completed",
		logger.Int("accepted", stats.SessionsAccepted),
		logger.Int("duplicate", stats.SessionsDuplicate),
		logger.Int("failed", stats.SessionsFailed))
	return err
}

// retrieveSessions reads every submitted session back and counts the ones
// the service has stored.
func retrieveSessions(ctx context.Context, cfg *Config, c *Client, sessions []model.TrainingSession, stats *Stats) error {
	log := logger.Get()
	var retrieved atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range sessions {
		id := sessions[i].ID
		g.Go(func() error {
			if _, err := c.Session(gctx, id); err != nil {
				if cfg.Verbose {
					log.Warn(gctx, "session not readable", logger.String("id", id), logger.Error(err))
				}
				return nil
			}
			retrieved.Add(1)
			return nil
		})
	}
	err := g.Wait()
	stats.SessionsRetrieved = int(retrieved.Load())
	log.Info(ctx, "session read-back completed",
		logger.Int("retrieved", stats.SessionsRetrieved),
		logger.Int("missing", len(sessions)-stats.SessionsRetrieved))
	return err
}
