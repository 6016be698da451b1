package uci

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"laskan/engine"
)

// fakeTransport scripts the engine side of the channel. Replies are
// delivered synchronously from Send, and the first dropFirst sends are
// swallowed to model a channel that is not yet accepting commands.
type fakeTransport struct {
	mu        sync.Mutex
	onLine    func(string)
	onErr     func(error)
	sent      []string
	dropFirst int
	reply     func(cmd string) string
}

func defaultReply(cmd string) string {
	switch {
	case cmd == "uci":
		return "id name fake\nuciok"
	case cmd == "isready":
		return "readyok"
	case strings.HasPrefix(cmd, "go "):
		return "bestmove a3b4"
	}
	return ""
}

func (f *fakeTransport) Start(onLine func(string), onErr func(error)) error {
	f.onLine = onLine
	f.onErr = onErr
	return nil
}

func (f *fakeTransport) Send(line string) error {
	f.mu.Lock()
	f.sent = append(f.sent, line)
	dropped := f.dropFirst > 0
	if dropped {
		f.dropFirst--
	}
	reply := ""
	if !dropped && f.reply != nil {
		reply = f.reply(line)
	}
	onLine := f.onLine
	f.mu.Unlock()

	if reply != "" && onLine != nil {
		onLine(reply)
	}
	return nil
}

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) sentCount(cmd string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if s == cmd {
			n++
		}
	}
	return n
}

func (f *fakeTransport) pushLine(line string) {
	f.mu.Lock()
	onLine := f.onLine
	f.mu.Unlock()
	onLine(line)
}

func (f *fakeTransport) fail(err error) {
	f.mu.Lock()
	onErr := f.onErr
	f.mu.Unlock()
	onErr(err)
}

func newFakeClient() (*Client, *fakeTransport) {
	f := &fakeTransport{reply: defaultReply}
	c := newClient(func() transport { return f }, nil)
	return c, f
}

func TestHandshake(t *testing.T) {
	c, f := newFakeClient()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if !c.Ready() {
		t.Fatal("client should be ready after the handshake")
	}
	if f.sentCount("uci") != 1 || f.sentCount("isready") != 1 {
		t.Fatalf("unexpected handshake traffic: %v", f.sent)
	}

	// A second Init is a no-op.
	if err := c.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if f.sentCount("uci") != 1 {
		t.Fatal("ready client should not repeat the handshake")
	}
}

func TestHandshakeSurvivesDroppedCommands(t *testing.T) {
	c, f := newFakeClient()
	f.dropFirst = 2 // the channel swallows the first two commands

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if got := f.sentCount("uci"); got < 3 {
		t.Fatalf("expected the handshake command re-sent until acked, got %d sends", got)
	}
	if !c.Ready() {
		t.Fatal("client should recover once the channel starts responding")
	}
}

func TestHandshakeTimeout(t *testing.T) {
	c, f := newFakeClient()
	f.reply = func(string) string { return "" } // engine never answers

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()
	err := c.Init(ctx)
	if !errors.Is(err, engine.ErrInitTimeout) {
		t.Fatalf("expected ErrInitTimeout, got %v", err)
	}
	if !engine.IsTimeout(err) {
		t.Fatal("init timeout should be in the timeout family")
	}
}

func TestBestMove(t *testing.T) {
	c, f := newFakeClient()
	ctx := context.Background()

	move, err := c.BestMove(ctx, engine.Request{
		Position: "p,p,p,p/p,p,p/p,p,p,p/,,/P,P,P,P/P,P,P/P,P,P,P w",
		MoveTime: 150 * time.Millisecond,
		Skill:    3,
		Timeout:  2 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	if move != "a3b4" {
		t.Fatalf("expected a3b4, got %q", move)
	}
	if f.sentCount("setoption name Skill Level value 3") != 1 {
		t.Fatalf("skill should be configured once: %v", f.sent)
	}
	if f.sentCount("go movetime 150") != 1 {
		t.Fatalf("compute command should be sent exactly once: %v", f.sent)
	}
}

func TestBestMoveNoMove(t *testing.T) {
	c, f := newFakeClient()
	f.reply = func(cmd string) string {
		if strings.HasPrefix(cmd, "go ") {
			return "bestmove (none)"
		}
		return defaultReply(cmd)
	}

	_, err := c.BestMove(context.Background(), engine.Request{
		Position: "x w", MoveTime: 100 * time.Millisecond, Skill: -1, Timeout: 2 * time.Second,
	})
	if !errors.Is(err, engine.ErrNoMove) {
		t.Fatalf("expected ErrNoMove, got %v", err)
	}
}

func TestBestMoveTimeout(t *testing.T) {
	c, f := newFakeClient()
	f.reply = func(cmd string) string {
		if strings.HasPrefix(cmd, "go ") {
			return "" // search never answers
		}
		return defaultReply(cmd)
	}

	_, err := c.BestMove(context.Background(), engine.Request{
		Position: "x w", MoveTime: 50 * time.Millisecond, Skill: -1, Timeout: 200 * time.Millisecond,
	})
	if !errors.Is(err, engine.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !engine.IsTimeout(err) {
		t.Fatal("search timeout should be in the timeout family")
	}
}

func TestStaleBestMoveDiscarded(t *testing.T) {
	c, f := newFakeClient()
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A response from an abandoned search arrives while nobody waits.
	f.pushLine("bestmove g3f4")

	move, err := c.BestMove(context.Background(), engine.Request{
		Position: "x w", MoveTime: 100 * time.Millisecond, Skill: -1, Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	if move != "a3b4" {
		t.Fatalf("stale response should be discarded, got %q", move)
	}
}

func TestChannelErrorIsSticky(t *testing.T) {
	c, f := newFakeClient()
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.fail(io.ErrUnexpectedEOF)

	if c.Ready() {
		t.Fatal("a failed channel must not report ready")
	}
	if err := c.Init(context.Background()); !errors.Is(err, engine.ErrChannelError) {
		t.Fatalf("expected sticky ErrChannelError, got %v", err)
	}
	_, err := c.BestMove(context.Background(), engine.Request{
		Position: "x w", MoveTime: 50 * time.Millisecond, Skill: -1, Timeout: time.Second,
	})
	if !errors.Is(err, engine.ErrChannelError) {
		t.Fatalf("expected sticky ErrChannelError, got %v", err)
	}

	// Only an explicit reset clears the failure.
	c.Reset()
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("reset should allow a fresh handshake: %v", err)
	}
	if !c.Ready() {
		t.Fatal("client should be ready after reset and re-init")
	}
}

func TestResetIgnoresOldTransportFailure(t *testing.T) {
	c, f := newFakeClient()
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Reset kills the process, whose reader goroutine then reports EOF.
	// That report belongs to the torn-down session and must not mark the
	// fresh one as failed.
	f.mu.Lock()
	staleErr := f.onErr
	f.mu.Unlock()
	c.Reset()
	staleErr(io.EOF)

	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("session after reset should be clean: %v", err)
	}
	if !c.Ready() {
		t.Fatal("client should be ready after reset and re-init")
	}

	// A late report from the dead transport is equally ignored afterwards.
	staleErr(io.EOF)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("stale failure must not poison the live session: %v", err)
	}
}

func TestChannelErrorInterruptsSearch(t *testing.T) {
	c, f := newFakeClient()
	f.reply = func(cmd string) string {
		if strings.HasPrefix(cmd, "go ") {
			return ""
		}
		return defaultReply(cmd)
	}
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.BestMove(context.Background(), engine.Request{
			Position: "x w", MoveTime: 50 * time.Millisecond, Skill: -1, Timeout: 5 * time.Second,
		})
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	f.fail(fmt.Errorf("pipe closed"))

	select {
	case err := <-done:
		if !errors.Is(err, engine.ErrChannelError) {
			t.Fatalf("expected ErrChannelError, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("search should abort when the channel fails")
	}
}

func TestSetSkillLevelNoOp(t *testing.T) {
	c, f := newFakeClient()
	ctx := context.Background()

	if err := c.SetSkillLevel(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if err := c.SetSkillLevel(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if got := f.sentCount("setoption name Skill Level value 5"); got != 1 {
		t.Fatalf("repeated skill should be a no-op, got %d sends", got)
	}

	if err := c.SetSkillLevel(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if got := f.sentCount("setoption name Skill Level value 7"); got != 1 {
		t.Fatalf("changed skill should be sent, got %d sends", got)
	}
}

func TestNewGameRequiresReady(t *testing.T) {
	c, f := newFakeClient()
	if err := c.NewGame(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.sentCount("ucinewgame") != 0 {
		t.Fatal("ucinewgame must not be sent before the handshake")
	}

	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.NewGame(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.sentCount("ucinewgame") != 1 {
		t.Fatalf("expected one ucinewgame, got %v", f.sent)
	}
}
