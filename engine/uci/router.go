package uci

import (
	"strings"
	"sync"
)

// backlogLimit bounds how many unclaimed lines are kept for waiters that
// have not registered yet. Oldest lines are dropped first.
const backlogLimit = 64

type waiter struct {
	match func(string) bool
	ch    chan string
}

// router dispatches incoming protocol lines to registered waiters. A line
// goes to the first waiter (FIFO) whose predicate matches; unmatched lines
// join a bounded backlog consulted when a waiter registers later, so a
// response arriving before its wait is still delivered.
type router struct {
	mu      sync.Mutex
	waiters []*waiter
	backlog []string
}

func newRouter() *router {
	return &router{}
}

// dispatch routes a chunk of engine output. A chunk may carry several
// newline-delimited lines; each is trimmed and routed on its own.
func (r *router) dispatch(chunk string) {
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.dispatchLine(line)
	}
}

func (r *router) dispatchLine(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.waiters {
		if w.match(line) {
			r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
			w.ch <- line
			return
		}
	}
	if len(r.backlog) >= backlogLimit {
		r.backlog = r.backlog[1:]
	}
	r.backlog = append(r.backlog, line)
}

// await registers interest in the next line matching the predicate. If a
// matching line is already in the backlog it is consumed and delivered
// immediately. The returned waiter's channel has capacity one.
func (r *router) await(match func(string) bool) *waiter {
	w := &waiter{match: match, ch: make(chan string, 1)}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, line := range r.backlog {
		if match(line) {
			r.backlog = append(r.backlog[:i], r.backlog[i+1:]...)
			w.ch <- line
			return w
		}
	}
	r.waiters = append(r.waiters, w)
	return w
}

// cancel deregisters a waiter that is no longer wanted.
func (r *router) cancel(w *waiter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.waiters {
		if reg == w {
			r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
			return
		}
	}
}

// drain removes every backlog line matching the predicate and returns the
// count. Used to discard responses left over from an abandoned search
// before issuing a new one.
func (r *router) drain(match func(string) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.backlog[:0]
	dropped := 0
	for _, line := range r.backlog {
		if match(line) {
			dropped++
			continue
		}
		kept = append(kept, line)
	}
	r.backlog = kept
	return dropped
}
