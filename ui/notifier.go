package ui

import (
	"sync"

	"github.com/rivo/tview"

	"laskan/bot"
)

// Notifier relays orchestrator callbacks onto the tview event loop. All
// methods are safe to call from any goroutine. Updates are applied in call
// order: an input-disable followed by an input-enable must never land
// reversed, or the board stays locked with nothing left to unlock it.
type Notifier struct {
	app     *tview.Application
	board   *BoardUI
	panel   *GameInfoPanel
	updates chan func()
	apply   func(func())

	mu      sync.Mutex
	prompts map[string]func()
	order   []string
}

func NewNotifier(app *tview.Application, board *BoardUI, panel *GameInfoPanel) *Notifier {
	n := &Notifier{
		app:     app,
		board:   board,
		panel:   panel,
		updates: make(chan func(), 64),
		prompts: make(map[string]func()),
	}
	n.apply = func(f func()) { app.QueueUpdateDraw(f) }
	go n.relay()
	return n
}

func (n *Notifier) SetInputEnabled(enabled bool) {
	n.queue(func() {
		n.board.SetInputEnabled(enabled)
	})
}

func (n *Notifier) SetStatus(status bot.Status, detail string) {
	n.queue(func() {
		n.panel.SetStatus(status, detail)
		// Status changes follow moves, so the last-move highlight tracks
		// moves the orchestrator played as well as the player's own.
		if m, ok := n.board.game.LastMove(); ok {
			n.board.NoteMove(m)
		} else {
			n.board.RefreshHint()
		}
	})
}

func (n *Notifier) Prompt(key, message string, onActivate func()) {
	n.mu.Lock()
	if _, ok := n.prompts[key]; !ok {
		n.order = append(n.order, key)
	}
	n.prompts[key] = onActivate
	n.mu.Unlock()
	n.queue(func() {
		n.panel.SetPrompt(message)
	})
}

func (n *Notifier) Clear(key string) {
	n.mu.Lock()
	if _, ok := n.prompts[key]; ok {
		delete(n.prompts, key)
		for i, k := range n.order {
			if k == key {
				n.order = append(n.order[:i], n.order[i+1:]...)
				break
			}
		}
	}
	empty := len(n.prompts) == 0
	n.mu.Unlock()
	if empty {
		n.queue(func() {
			n.panel.SetPrompt("")
		})
	}
}

// Activate fires the most recent prompt's action, if any prompt is
// pending. Returns true when a prompt consumed the activation.
func (n *Notifier) Activate() bool {
	n.mu.Lock()
	var fn func()
	if len(n.order) > 0 {
		fn = n.prompts[n.order[len(n.order)-1]]
	}
	n.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// queue hands a UI mutation to the relay worker. The buffer keeps callers
// on the draw goroutine from blocking on their own event loop.
func (n *Notifier) queue(f func()) {
	n.updates <- f
}

// relay is the single worker that moves mutations onto the tview
// goroutine, one at a time, in the order they were queued.
func (n *Notifier) relay() {
	for f := range n.updates {
		n.apply(f)
	}
}
