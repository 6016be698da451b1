package uci

import (
	"context"
	"time"
)

// resendInterval is how often a command awaiting a specific response line
// is re-sent while the response has not arrived.
const resendInterval = 400 * time.Millisecond

// EnsureDelivered sends a command, then re-sends it on a fixed interval
// until the awaited line arrives on result or the context expires. The
// channel may silently drop commands sent before it is ready to accept
// them; re-sending an idempotent command until its response is observed is
// what makes the handshake survive that window.
func EnsureDelivered(ctx context.Context, send func() error, result <-chan string, interval time.Duration) (string, error) {
	if err := send(); err != nil {
		return "", err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case line := <-result:
			return line, nil
		case <-ticker.C:
			if err := send(); err != nil {
				return "", err
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
