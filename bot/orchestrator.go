package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"laskan/engine"
	"laskan/rules"
	"laskan/types"
)

const (
	// pollInterval is the re-poll delay while the engine is warming up.
	pollInterval = 500 * time.Millisecond

	// Per-move timeout: the engine's compute budget plus a pad, clamped so
	// play stays responsive regardless of preset.
	moveTimeoutPad = 2 * time.Second
	moveTimeoutMin = 2500 * time.Millisecond
	moveTimeoutMax = 8 * time.Second

	// Linear backoff after engine timeouts: failureCount * step, capped.
	backoffStep = 5 * time.Second
	backoffMax  = 90 * time.Second

	// defaultWarmupTimeout bounds first-time engine startup. Deliberately
	// much longer than the per-move timeout; a slow start delays
	// full-strength play, never the game.
	defaultWarmupTimeout = 3 * time.Minute

	// adaptMinPlies is the minimum game length for an outcome to feed the
	// adaptive controller.
	adaptMinPlies = 24

	pausePromptKey = "bot.paused"
)

// Config wires an Orchestrator.
type Config struct {
	Game     *rules.Game
	Engine   engine.Client
	Settings SettingsStore
	Adaptive AdaptiveStore
	Notifier Notifier
	Log      *zap.Logger

	// Seed drives the fallback heuristic's randomness.
	Seed int64

	// AllowFallbackDuringWarmup plays heuristic moves instead of waiting
	// for a cold engine.
	AllowFallbackDuringWarmup bool

	WarmupTimeout time.Duration

	// Archive, when set, is called once per finished game.
	Archive func(winner types.Color, draw bool)
}

type result struct {
	id   uint64
	move string
	err  error
}

// Orchestrator decides when the engine is consulted, plays fallback moves
// when it cannot answer, and feeds game outcomes to the adaptive
// controller. All state lives on the Run goroutine; external calls post
// onto its action queue, so no field needs a lock except the read-only
// snapshot handed to the UI.
type Orchestrator struct {
	game     *rules.Game
	eng      engine.Client
	store    SettingsStore
	adaptive AdaptiveStore
	notifier Notifier
	log      *zap.Logger
	archive  func(winner types.Color, draw bool)

	rng                 *rand.Rand
	warmupTimeout       time.Duration
	allowFallbackWarmly bool

	actions chan func()
	results chan result

	// Run-goroutine state.
	settings     Settings
	adapt        map[Tier]AdaptState
	busy         bool
	requestID    uint64
	failureCount int
	backoffUntil time.Time
	warming      bool
	fallbackOnly bool
	stuckErr     error
	inTakeback   bool

	now func() time.Time

	snapMu    sync.RWMutex
	snapSet   Settings
	snapAdapt map[Tier]AdaptState
}

// New loads persisted settings and adaptive state and returns an
// orchestrator ready to Run.
func New(cfg Config) *Orchestrator {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	warmup := cfg.WarmupTimeout
	if warmup <= 0 {
		warmup = defaultWarmupTimeout
	}

	o := &Orchestrator{
		game:                cfg.Game,
		eng:                 cfg.Engine,
		store:               cfg.Settings,
		adaptive:            cfg.Adaptive,
		notifier:            cfg.Notifier,
		log:                 log,
		archive:             cfg.Archive,
		rng:                 rand.New(rand.NewSource(cfg.Seed)),
		warmupTimeout:       warmup,
		allowFallbackWarmly: cfg.AllowFallbackDuringWarmup,
		actions:             make(chan func(), 64),
		results:             make(chan result, 8),
		adapt:               make(map[Tier]AdaptState),
		now:                 time.Now,
	}

	settings, err := cfg.Settings.Load()
	if err != nil {
		log.Warn("settings load failed, using defaults", zap.Error(err))
		settings = DefaultSettings()
	}
	settings.White = ParsePlayer(string(settings.White))
	settings.Black = ParsePlayer(string(settings.Black))
	o.settings = settings

	for _, tier := range Tiers {
		st, err := cfg.Adaptive.Load(tier)
		if err != nil {
			o.adapt[tier] = Normalize(nil)
			continue
		}
		o.adapt[tier] = Normalize(&st)
	}
	o.syncSnapshot()
	return o
}

// Run drives the control loop until ctx is cancelled. It is the single
// consumer of the game's event channel and the single writer of all
// orchestration state.
func (o *Orchestrator) Run(ctx context.Context) {
	// Startup counts as a new game: a configured bot must not surprise the
	// player with an instant opening move.
	o.handleEvent(rules.Event{Reason: rules.ReasonNewGame})

	events := o.game.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			o.handleEvent(ev)
		case res := <-o.results:
			o.handleResult(res)
		case f := <-o.actions:
			f()
		}
	}
}

// do posts work onto the Run goroutine. Dropping on a full queue is safe:
// everything posted is a nudge over state that the loop re-derives.
func (o *Orchestrator) do(f func()) {
	select {
	case o.actions <- f:
	default:
	}
}

// Kick asks the loop to re-inspect the game state.
func (o *Orchestrator) Kick() { o.do(o.evaluate) }

// SetPaused pauses or resumes automated play.
func (o *Orchestrator) SetPaused(paused bool) {
	o.do(func() { o.setPaused(paused) })
}

// TogglePause flips the paused flag.
func (o *Orchestrator) TogglePause() {
	o.do(func() { o.setPaused(!o.settings.Paused) })
}

// Configure assigns the players for both sides.
func (o *Orchestrator) Configure(white, black Player) {
	o.do(func() {
		o.settings.White = white
		o.settings.Black = black
		o.saveSettings()
		o.evaluate()
	})
}

// ResetEngine tears down the engine session, clearing sticky failures and
// backoff, and re-evaluates.
func (o *Orchestrator) ResetEngine() {
	o.do(func() {
		o.eng.Reset()
		o.stuckErr = nil
		o.fallbackOnly = false
		o.failureCount = 0
		o.backoffUntil = time.Time{}
		o.warming = false
		o.invalidateInflight()
		o.evaluate()
	})
}

// SetSublevel manually pins a tier's difficulty. The float estimate is
// moved with it so the next adapted game starts from the chosen level.
func (o *Orchestrator) SetSublevel(tier Tier, sub int) {
	o.do(func() {
		st := Normalize(&AdaptState{SubFloat: float64(sub), Applied: sub})
		o.adapt[tier] = st
		if err := o.adaptive.Save(tier, st); err != nil {
			o.log.Warn("adaptive save failed", zap.String("tier", string(tier)), zap.Error(err))
		}
		o.syncSnapshot()
	})
}

// ResetLearning overwrites every tier's adaptive state with the default.
func (o *Orchestrator) ResetLearning() {
	o.do(func() {
		for _, tier := range Tiers {
			st := Normalize(nil)
			o.adapt[tier] = st
			if err := o.adaptive.Save(tier, st); err != nil {
				o.log.Warn("adaptive save failed", zap.String("tier", string(tier)), zap.Error(err))
			}
		}
		o.syncSnapshot()
	})
}

// CurrentSettings returns a snapshot safe to read from any goroutine.
func (o *Orchestrator) CurrentSettings() Settings {
	o.snapMu.RLock()
	defer o.snapMu.RUnlock()
	return o.snapSet
}

// AppliedSublevel returns the sublevel a tier currently plays at.
func (o *Orchestrator) AppliedSublevel(tier Tier) int {
	o.snapMu.RLock()
	defer o.snapMu.RUnlock()
	return o.snapAdapt[tier].Applied
}

func (o *Orchestrator) syncSnapshot() {
	o.snapMu.Lock()
	o.snapSet = o.settings
	if o.snapAdapt == nil {
		o.snapAdapt = make(map[Tier]AdaptState, len(o.adapt))
	}
	for tier, st := range o.adapt {
		o.snapAdapt[tier] = st
	}
	o.snapMu.Unlock()
}

func (o *Orchestrator) saveSettings() {
	if err := o.store.Save(o.settings); err != nil {
		o.log.Warn("settings save failed", zap.Error(err))
	}
	o.syncSnapshot()
}

func (o *Orchestrator) setPaused(paused bool) {
	if o.settings.Paused == paused {
		return
	}
	o.settings.Paused = paused
	o.saveSettings()
	if !paused {
		o.notifier.Clear(pausePromptKey)
	}
	o.evaluate()
}

func (o *Orchestrator) handleEvent(ev rules.Event) {
	o.log.Debug("turn event", zap.Stringer("reason", ev.Reason))
	switch ev.Reason {
	case rules.ReasonNewGame:
		o.invalidateInflight()
		o.failureCount = 0
		o.backoffUntil = time.Time{}
		if o.settings.AnyBot() && !o.settings.Paused {
			o.settings.Paused = true
			o.saveSettings()
		}
		o.resetEngineGame()
		o.evaluate()
	case rules.ReasonMove:
		o.evaluate()
	case rules.ReasonUndo:
		o.invalidateInflight()
		if o.inTakeback {
			o.inTakeback = false
		} else {
			o.pauseForNavigation()
			o.maybeTakeback()
		}
		o.evaluate()
	case rules.ReasonRedo, rules.ReasonJump:
		o.invalidateInflight()
		o.pauseForNavigation()
		o.evaluate()
	case rules.ReasonGameOver:
		o.invalidateInflight()
		o.onGameOver()
	}
}

// resetEngineGame tells an engine that understands fresh-game boundaries
// about the reset. Best effort.
func (o *Orchestrator) resetEngineGame() {
	type gameResetter interface {
		NewGame(context.Context) error
	}
	if ng, ok := o.eng.(gameResetter); ok {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), pollInterval*4)
			defer cancel()
			if err := ng.NewGame(ctx); err != nil {
				o.log.Debug("engine new-game sync failed", zap.Error(err))
			}
		}()
	}
}

// pauseForNavigation pauses the bot after a deliberate undo/redo/jump in a
// human-vs-bot game so it does not instantly replay from the new position.
func (o *Orchestrator) pauseForNavigation() {
	if _, single := o.settings.SingleHuman(); !single {
		return
	}
	if !o.settings.Paused {
		o.settings.Paused = true
		o.saveSettings()
	}
}

// maybeTakeback performs the second half of a takeback: when an undo
// leaves the bot to move and the other side is human, undo one more ply so
// the human is left to move. The loop is guarded against kicking a bot
// reply between the two undos.
func (o *Orchestrator) maybeTakeback() {
	side := o.game.SideToMove()
	if !o.settings.PlayerFor(side).IsBot() {
		return
	}
	if o.settings.PlayerFor(side.Opponent()).IsBot() {
		return
	}
	if !o.game.CanUndo() {
		return
	}
	o.inTakeback = true
	if err := o.game.Undo(); err != nil {
		o.inTakeback = false
		o.log.Warn("takeback undo failed", zap.Error(err))
	}
}

// invalidateInflight abandons any outstanding engine request. The request
// keeps computing (cooperative cancellation) but its response will no
// longer match the current id and is discarded on arrival.
func (o *Orchestrator) invalidateInflight() {
	if o.busy {
		o.requestID++
		o.busy = false
	}
}

// evaluate is the turn-decision algorithm, run whenever the game changes
// or the loop kicks itself.
func (o *Orchestrator) evaluate() {
	if o.busy || o.game.GameOver() {
		return
	}

	side := o.game.SideToMove()
	player := o.settings.PlayerFor(side)
	if !player.IsBot() {
		o.notifier.SetInputEnabled(true)
		if o.settings.AnyBot() {
			o.notifier.SetStatus(StatusIdle, "")
		} else {
			o.notifier.SetStatus(StatusOff, "")
		}
		return
	}

	if o.settings.Paused {
		o.notifier.SetInputEnabled(false)
		o.notifier.SetStatus(StatusPaused, "")
		o.notifier.Prompt(pausePromptKey, "bot paused - press space to resume", func() {
			o.SetPaused(false)
		})
		return
	}

	o.ensureWarmup()

	if o.stuckErr != nil && !o.eng.Ready() {
		o.notifier.SetInputEnabled(true)
		o.notifier.SetStatus(StatusError, o.stuckErr.Error())
		return
	}

	if o.fallbackOnly {
		o.playFallback()
		return
	}

	if !o.eng.Ready() {
		if !o.allowFallbackWarmly {
			o.notifier.SetInputEnabled(false)
			o.notifier.SetStatus(StatusWarming, "")
			o.scheduleKick(pollInterval)
			return
		}
		o.playFallback()
		return
	}

	// Backoff gate: during a degraded spell the engine is not even asked,
	// so its multi-second timeout is not re-incurred every move.
	if o.now().Before(o.backoffUntil) {
		o.playFallback()
		return
	}

	o.requestID++
	id := o.requestID
	o.busy = true
	o.notifier.SetInputEnabled(false)
	o.notifier.SetStatus(StatusThinking, "")

	preset := o.activePreset(side, player.Tier())
	req := engine.Request{
		Position: rules.PositionNotation(o.game.State()),
		MoveTime: preset.MoveTime,
		Skill:    preset.Skill,
		Timeout:  moveTimeout(preset.MoveTime),
	}
	o.log.Debug("consulting engine",
		zap.Uint64("request", id),
		zap.Int("skill", preset.Skill),
		zap.Duration("moveTime", preset.MoveTime))

	go func() {
		move, err := o.eng.BestMove(context.Background(), req)
		o.results <- result{id: id, move: move, err: err}
	}()
}

// activePreset picks the preset for the effective sublevel: the adaptive
// applied value against a human opponent, the neutral default otherwise
// (adaptation only tracks human-vs-bot games).
func (o *Orchestrator) activePreset(side types.Color, tier Tier) Preset {
	sub := DefaultSublevel
	if !o.settings.PlayerFor(side.Opponent()).IsBot() {
		sub = o.adapt[tier].Applied
	}
	return PresetFor(tier, sub)
}

func (o *Orchestrator) handleResult(res result) {
	if res.id != o.requestID {
		o.log.Debug("stale engine response discarded", zap.Uint64("request", res.id))
		return
	}
	o.busy = false

	if res.err != nil {
		switch {
		case engine.IsTimeout(res.err):
			// Transient hiccup: back off linearly and keep playing with the
			// heuristic. Warm-up is not reset; the engine may be slow, not
			// broken.
			o.failureCount++
			delay := time.Duration(o.failureCount) * backoffStep
			if delay > backoffMax {
				delay = backoffMax
			}
			o.backoffUntil = o.now().Add(delay)
			o.log.Warn("engine timeout, backing off",
				zap.Int("failures", o.failureCount),
				zap.Duration("backoff", delay))
			o.playFallback()
		case errors.Is(res.err, engine.ErrUnreachable):
			o.fallbackOnly = true
			o.log.Warn("engine unreachable, fallback only from here", zap.Error(res.err))
			o.playFallback()
		default:
			// Anything else leaves the human free to act instead of a
			// silently stuck UI.
			if errors.Is(res.err, engine.ErrChannelError) {
				o.stuckErr = res.err
			}
			o.notifier.SetInputEnabled(true)
			o.notifier.SetStatus(StatusError, res.err.Error())
			o.log.Error("engine failure", zap.Error(res.err))
		}
		return
	}

	o.failureCount = 0
	move, err := types.ParseMove(res.move)
	if err == nil {
		err = o.game.Play(move)
	}
	if err != nil {
		o.notifier.SetInputEnabled(true)
		o.notifier.SetStatus(StatusError, fmt.Sprintf("engine move %q rejected", res.move))
		o.log.Error("engine move rejected", zap.String("move", res.move), zap.Error(err))
		return
	}
	// The move's own event re-enters the loop and schedules the next bot
	// turn when both sides are automated.
}

func (o *Orchestrator) playFallback() {
	moves := o.game.LegalMoves()
	m, err := FallbackMove(moves, o.rng)
	if err != nil {
		o.notifier.SetInputEnabled(true)
		o.notifier.SetStatus(StatusError, "no move available")
		o.log.Error("fallback failed", zap.Error(err))
		return
	}
	o.notifier.SetStatus(StatusFallback, "")
	if err := o.game.Play(m); err != nil {
		o.notifier.SetInputEnabled(true)
		o.notifier.SetStatus(StatusError, err.Error())
		o.log.Error("fallback move rejected", zap.Error(err))
	}
}

// ensureWarmup keeps at most one background handshake in flight whenever a
// bot is configured. Its timeout is independent of and much longer than
// the per-move budget.
func (o *Orchestrator) ensureWarmup() {
	if o.warming || o.fallbackOnly || o.stuckErr != nil || o.eng.Ready() {
		return
	}
	o.warming = true
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.warmupTimeout)
		defer cancel()
		err := o.eng.Init(ctx)
		o.do(func() {
			o.warming = false
			if err != nil {
				switch {
				case errors.Is(err, engine.ErrUnreachable):
					o.fallbackOnly = true
				case errors.Is(err, engine.ErrChannelError):
					o.stuckErr = err
				}
				o.log.Warn("engine warm-up failed", zap.Error(err))
			}
			o.evaluate()
		})
	}()
}

func (o *Orchestrator) scheduleKick(d time.Duration) {
	time.AfterFunc(d, func() { o.do(o.evaluate) })
}

func (o *Orchestrator) onGameOver() {
	o.notifier.SetInputEnabled(true)
	o.notifier.Clear(pausePromptKey)
	o.notifier.SetStatus(StatusIdle, "")

	winner, over := o.game.Winner()
	if !over {
		return
	}
	if o.archive != nil {
		o.archive(winner, winner == types.NoColor)
	}

	humanColor, single := o.settings.SingleHuman()
	ply := o.game.PlyCount()
	if !single || ply < adaptMinPlies {
		return
	}
	botTier := o.settings.PlayerFor(humanColor.Opponent()).Tier()
	score := 0.5
	switch winner {
	case humanColor:
		score = 1 // the human won, the bot should get harder
	case humanColor.Opponent():
		score = 0
	}
	prev := o.adapt[botTier]
	next := AdaptAfterGame(botTier, prev, score)
	o.adapt[botTier] = next
	if err := o.adaptive.Save(botTier, next); err != nil {
		o.log.Warn("adaptive save failed", zap.String("tier", string(botTier)), zap.Error(err))
	}
	o.syncSnapshot()
	o.log.Info("difficulty adapted",
		zap.String("tier", string(botTier)),
		zap.Float64("score", score),
		zap.Float64("subFloat", next.SubFloat),
		zap.Int("applied", next.Applied))
}

func moveTimeout(moveTime time.Duration) time.Duration {
	t := moveTime + moveTimeoutPad
	if t < moveTimeoutMin {
		t = moveTimeoutMin
	}
	if t > moveTimeoutMax {
		t = moveTimeoutMax
	}
	return t
}
