// Package engine defines the contract for best-move engines.
package engine

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy. Callers classify with errors.Is; clients wrap these with
// detail at the failure site.
var (
	// ErrInitTimeout means the handshake or readiness ack never arrived in
	// budget. Recoverable: the engine may simply be cold.
	ErrInitTimeout = errors.New("engine init timeout")

	// ErrTimeout means a search was issued but no move arrived in budget.
	ErrTimeout = errors.New("engine timeout")

	// ErrChannelError means the engine channel itself failed (process died,
	// pipe broke). Sticky until an explicit reset.
	ErrChannelError = errors.New("engine channel error")

	// ErrUnreachable means the remote engine could not be reached at the
	// transport layer.
	ErrUnreachable = errors.New("engine unreachable")

	// ErrNoMove means the engine answered but supplied no usable move.
	ErrNoMove = errors.New("engine returned no move")
)

// IsTimeout reports whether err belongs to the transient timeout family
// that the orchestrator answers with fallback play and backoff.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrInitTimeout) || errors.Is(err, ErrTimeout)
}

// Request is one best-move query. Position is in the wire notation the
// engine consumes; MoveTime is the compute budget handed to the engine;
// Timeout bounds the whole call (zero means the caller's context governs).
// Skill below zero leaves the engine's current skill untouched.
type Request struct {
	Position string
	MoveTime time.Duration
	Skill    int
	Timeout  time.Duration
}

// Client is a best-move engine binding. Implementations must make Init
// idempotent; callers (the orchestrator) never issue a second BestMove
// before the first resolves on the same session.
type Client interface {
	// Init makes the engine ready. Calling it while ready is a no-op;
	// calling it while a handshake is in flight joins that handshake.
	Init(ctx context.Context) error

	// Ready reports whether the engine has completed its handshake.
	Ready() bool

	// SetSkillLevel configures engine strength (0-20). A no-op when the
	// engine is ready and already at that skill.
	SetSkillLevel(ctx context.Context, skill int) error

	// BestMove runs one search and returns the move in wire form.
	BestMove(ctx context.Context, req Request) (string, error)

	// Reset tears the session down, clearing any sticky failure. The next
	// Init starts from scratch.
	Reset()

	// Close releases the engine.
	Close()
}
