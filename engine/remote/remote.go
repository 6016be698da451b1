// Package remote implements the engine contract over HTTP request/response
// calls to a best-move service, as an alternative to the persistent
// channel client.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"laskan/engine"
)

// healthTimeout bounds the Init probe when the caller's context carries no
// deadline of its own.
const healthTimeout = 5 * time.Second

type bestMoveRequest struct {
	Position   string `json:"position"`
	MoveTimeMs int64  `json:"moveTimeMs"`
	Skill      *int   `json:"skill,omitempty"`
	TimeoutMs  int64  `json:"timeoutMs,omitempty"`
}

type bestMoveResponse struct {
	OK    bool   `json:"ok"`
	Move  string `json:"move"`
	Error string `json:"error"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}

// Client talks to a remote best-move service. Unlike the channel client
// there is no session warm-up to speak of; Init is a bounded health probe
// and every search is one cancellable request.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger

	mu    sync.Mutex
	ready bool
	skill int
}

// New creates a client for the service at baseURL (no trailing slash).
func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:  baseURL,
		http:  &http.Client{},
		log:   log,
		skill: -1,
	}
}

// Ready reports whether the last health probe succeeded.
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Init probes the service's health endpoint within a bounded time.
func (c *Client) Init(ctx context.Context) error {
	if c.Ready() {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, healthTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrUnreachable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	var health healthResponse
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&health) != nil || !health.OK {
		return fmt.Errorf("%w: health probe failed (status %d)", engine.ErrUnreachable, resp.StatusCode)
	}

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	c.log.Debug("remote engine reachable", zap.String("base", c.base))
	return nil
}

// SetSkillLevel records the skill to send with subsequent searches; skill
// travels inside each request, so there is nothing to configure remotely.
func (c *Client) SetSkillLevel(ctx context.Context, skill int) error {
	if skill < 0 {
		return nil
	}
	c.mu.Lock()
	c.skill = skill
	c.mu.Unlock()
	return nil
}

// BestMove issues one search request. The request is bound to its own
// timeout context, so the underlying call is cancelled on every exit path.
// A refusal or malformed body is reported distinctly from a timeout so the
// caller can tell "answered but refused" apart from "never answered".
func (c *Client) BestMove(ctx context.Context, req engine.Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	body := bestMoveRequest{
		Position:   req.Position,
		MoveTimeMs: req.MoveTime.Milliseconds(),
		TimeoutMs:  req.Timeout.Milliseconds(),
	}
	skill := req.Skill
	if skill < 0 {
		c.mu.Lock()
		skill = c.skill
		c.mu.Unlock()
	}
	if skill >= 0 {
		body.Skill = &skill
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/bestmove", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", engine.ErrUnreachable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", fmt.Errorf("%w: no answer within budget", engine.ErrTimeout)
		}
		return "", fmt.Errorf("%w: %v", engine.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("%w: %v", engine.ErrUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", engine.ErrNoMove, resp.StatusCode)
	}
	var answer bestMoveResponse
	if err := json.Unmarshal(raw, &answer); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", engine.ErrNoMove, err)
	}
	if !answer.OK || answer.Move == "" {
		return "", fmt.Errorf("%w: %s", engine.ErrNoMove, answer.Error)
	}
	return answer.Move, nil
}

// Reset forgets the health probe; the next Init re-checks.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = false
	c.skill = -1
}

// Close releases pooled connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
