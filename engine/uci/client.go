// Package uci implements the engine contract over a persistent line
// protocol channel to a subprocess, in the manner of UCI engines.
package uci

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"laskan/engine"
)

const (
	handshakeCmd   = "uci"
	handshakeAck   = "uciok"
	readyCmd       = "isready"
	readyAck       = "readyok"
	bestMovePrefix = "bestmove"
	noMoveSentinel = "(none)"
)

func isBestMove(line string) bool {
	return strings.HasPrefix(line, bestMovePrefix+" ") || line == bestMovePrefix
}

// Client drives a best-move engine over its stdin/stdout line protocol.
// The channel may drop commands sent before it is ready, so every command
// expecting a specific response is re-sent until that response arrives
// (see EnsureDelivered).
type Client struct {
	log     *zap.Logger
	factory func() transport

	initG singleflight.Group

	mu      sync.Mutex
	tr      transport
	started bool
	ready   bool
	skill   int
	fatal   error
	fatalCh chan struct{}
	router  *router
	gen     int
}

// New creates a client for the engine binary at path. The process is not
// started until the first Init.
func New(path string, args []string, log *zap.Logger) *Client {
	return newClient(func() transport { return newProcTransport(path, args) }, log)
}

func newClient(factory func() transport, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		log:     log,
		factory: factory,
		skill:   -1,
		fatalCh: make(chan struct{}),
		router:  newRouter(),
	}
}

// Ready reports whether the handshake has completed.
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Init performs the two-step handshake. It is idempotent: a ready client
// returns immediately, and concurrent callers join the single in-flight
// handshake instead of starting another. A sticky channel failure surfaces
// here without retrying; only Reset clears it.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.fatal != nil {
		err := c.fatal
		c.mu.Unlock()
		return err
	}
	if c.ready {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	_, err, _ := c.initG.Do("init", func() (interface{}, error) {
		return nil, c.handshake(ctx)
	})
	return err
}

func (c *Client) handshake(ctx context.Context) error {
	if err := c.startTransport(); err != nil {
		return err
	}
	if err := c.roundTrip(ctx, handshakeCmd, handshakeAck); err != nil {
		return err
	}
	if err := c.roundTrip(ctx, readyCmd, readyAck); err != nil {
		return err
	}
	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	c.log.Debug("engine ready")
	return nil
}

func (c *Client) startTransport() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	// The callbacks are bound to this session. A transport torn down by
	// Reset keeps running its reader goroutine for a moment; its EOF must
	// not poison the replacement session.
	gen := c.gen
	rt := c.router
	tr := c.factory()
	err := tr.Start(func(chunk string) {
		c.log.Debug("engine recv", zap.String("line", chunk))
		rt.dispatch(chunk)
	}, func(err error) { c.onChannelError(gen, err) })
	if err != nil {
		err = fmt.Errorf("%w: %v", engine.ErrChannelError, err)
		c.setFatalLocked(err)
		return err
	}
	c.tr = tr
	c.started = true
	return nil
}

// onChannelError records a channel-level failure. It is sticky: recorded
// once and surfaced on every subsequent attempt until an explicit Reset,
// because a failed channel is unusable rather than merely slow. Failures
// from a superseded session are ignored.
func (c *Client) onChannelError(gen int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.setFatalLocked(fmt.Errorf("%w: %v", engine.ErrChannelError, err))
}

func (c *Client) setFatalLocked(err error) {
	if c.fatal != nil {
		return
	}
	c.fatal = err
	c.ready = false
	close(c.fatalCh)
	c.log.Warn("engine channel failed", zap.Error(err))
}

// roundTrip sends cmd redundantly until the exact ack line is observed.
func (c *Client) roundTrip(ctx context.Context, cmd, ack string) error {
	w := c.router.await(func(line string) bool { return line == ack })
	_, err := EnsureDelivered(ctx, func() error { return c.send(cmd) }, w.ch, resendInterval)
	if err != nil {
		c.router.cancel(w)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: no %q after %q", engine.ErrInitTimeout, ack, cmd)
		}
		return err
	}
	return nil
}

func (c *Client) send(cmd string) error {
	c.mu.Lock()
	tr, fatal := c.tr, c.fatal
	c.mu.Unlock()
	if fatal != nil {
		return fatal
	}
	if tr == nil {
		return fmt.Errorf("%w: transport not started", engine.ErrChannelError)
	}
	c.log.Debug("engine send", zap.String("cmd", cmd))
	return tr.Send(cmd)
}

// SetSkillLevel configures engine strength. The protocol has no ack for
// configuration commands, so a readiness round trip serves as the
// synchronization proof. A no-op when ready and already at that skill.
func (c *Client) SetSkillLevel(ctx context.Context, skill int) error {
	if skill < 0 {
		return nil
	}
	c.mu.Lock()
	if c.ready && c.skill == skill {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.Init(ctx); err != nil {
		return err
	}
	if err := c.send(fmt.Sprintf("setoption name Skill Level value %d", skill)); err != nil {
		return err
	}
	if err := c.roundTrip(ctx, readyCmd, readyAck); err != nil {
		return err
	}
	c.mu.Lock()
	c.skill = skill
	c.mu.Unlock()
	return nil
}

// BestMove runs one search. The position and compute command are sent once
// after readiness is established; redundant sending applies only to the
// handshake commands, since re-issuing a compute command would restart the
// search.
func (c *Client) BestMove(ctx context.Context, req engine.Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	c.mu.Lock()
	fatalCh := c.fatalCh
	c.mu.Unlock()

	if req.Skill >= 0 {
		if err := c.SetSkillLevel(ctx, req.Skill); err != nil {
			return "", err
		}
	} else if err := c.Init(ctx); err != nil {
		return "", err
	}

	// Drop any response left over from an earlier search nobody consumed.
	if n := c.router.drain(isBestMove); n > 0 {
		c.log.Debug("discarded stale responses", zap.Int("count", n))
	}

	w := c.router.await(isBestMove)
	if err := c.send("position " + req.Position); err != nil {
		c.router.cancel(w)
		return "", err
	}
	if err := c.send(fmt.Sprintf("go movetime %d", req.MoveTime.Milliseconds())); err != nil {
		c.router.cancel(w)
		return "", err
	}

	select {
	case line := <-w.ch:
		return parseBestMove(line)
	case <-fatalCh:
		c.router.cancel(w)
		c.mu.Lock()
		err := c.fatal
		c.mu.Unlock()
		return "", err
	case <-ctx.Done():
		c.router.cancel(w)
		return "", fmt.Errorf("%w: no move within budget", engine.ErrTimeout)
	}
}

func parseBestMove(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[1] == noMoveSentinel {
		return "", fmt.Errorf("%w: %q", engine.ErrNoMove, line)
	}
	return fields[1], nil
}

// NewGame tells a ready engine that the next search is from a fresh game.
// Synchronized by a readiness round trip like configuration commands.
func (c *Client) NewGame(ctx context.Context) error {
	if !c.Ready() {
		return nil
	}
	if err := c.send("ucinewgame"); err != nil {
		return err
	}
	return c.roundTrip(ctx, readyCmd, readyAck)
}

// Reset tears down the session and clears the sticky failure. The next
// Init starts a fresh process and handshake.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tr != nil {
		c.tr.Close()
	}
	c.tr = nil
	c.started = false
	c.ready = false
	c.skill = -1
	c.fatal = nil
	c.fatalCh = make(chan struct{})
	c.router = newRouter()
	c.gen++
}

// Close shuts the engine down.
func (c *Client) Close() {
	c.mu.Lock()
	tr := c.tr
	c.gen++
	c.mu.Unlock()
	if tr != nil {
		c.send("quit")
		tr.Close()
	}
}
