// Package bot contains the automated-opponent subsystem: per-side
// settings, difficulty presets, the adaptive difficulty controller, the
// fallback move heuristic, and the orchestrator that drives an external
// best-move engine.
package bot

import "laskan/types"

// Player is what controls one side: a human or a bot tier.
type Player string

const (
	PlayerHuman        Player = "human"
	PlayerBeginner     Player = "beginner"
	PlayerIntermediate Player = "intermediate"
	PlayerStrong       Player = "strong"
)

// IsBot reports whether the player is an automated tier.
func (p Player) IsBot() bool {
	switch p {
	case PlayerBeginner, PlayerIntermediate, PlayerStrong:
		return true
	}
	return false
}

// Tier returns the tier for a bot player, or "" for a human.
func (p Player) Tier() Tier {
	if p.IsBot() {
		return Tier(p)
	}
	return ""
}

// ParsePlayer normalizes a stored player value; anything unrecognized is
// treated as human.
func ParsePlayer(raw string) Player {
	switch Player(raw) {
	case PlayerBeginner, PlayerIntermediate, PlayerStrong:
		return Player(raw)
	}
	return PlayerHuman
}

// Tier is a named difficulty band.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierStrong       Tier = "strong"
)

// Tiers lists all tiers in ascending strength order.
var Tiers = []Tier{TierBeginner, TierIntermediate, TierStrong}

// Settings is the persisted bot configuration.
type Settings struct {
	White  Player `json:"white"`
	Black  Player `json:"black"`
	Paused bool   `json:"paused"`
}

// DefaultSettings is human vs beginner bot, paused until the human starts.
func DefaultSettings() Settings {
	return Settings{White: PlayerHuman, Black: PlayerBeginner, Paused: true}
}

// PlayerFor returns who controls the given color.
func (s Settings) PlayerFor(c types.Color) Player {
	if c == types.White {
		return s.White
	}
	return s.Black
}

// AnyBot reports whether either side is automated.
func (s Settings) AnyBot() bool {
	return s.White.IsBot() || s.Black.IsBot()
}

// SingleHuman returns the human's color when exactly one side is human.
func (s Settings) SingleHuman() (types.Color, bool) {
	whiteHuman := !s.White.IsBot()
	blackHuman := !s.Black.IsBot()
	if whiteHuman == blackHuman {
		return types.NoColor, false
	}
	if whiteHuman {
		return types.White, true
	}
	return types.Black, true
}

// SettingsStore persists bot settings. Implementations load once at
// startup and are written back after every mutation.
type SettingsStore interface {
	Load() (Settings, error)
	Save(Settings) error
}

// AdaptiveStore persists one AdaptState per tier.
type AdaptiveStore interface {
	Load(Tier) (AdaptState, error)
	Save(Tier, AdaptState) error
}

// Status is the user-visible orchestrator state. The vocabulary is fixed
// so a stalled engine is never indistinguishable from a frozen UI.
type Status int

const (
	StatusIdle Status = iota
	StatusOff
	StatusWarming
	StatusThinking
	StatusPaused
	StatusFallback
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return ""
	case StatusOff:
		return "bot off"
	case StatusWarming:
		return "warming up"
	case StatusThinking:
		return "thinking"
	case StatusPaused:
		return "paused"
	case StatusFallback:
		return "fallback in use"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Notifier is the UI-facing surface the orchestrator talks to. It is
// exercised, not owned, by the bot subsystem.
type Notifier interface {
	SetInputEnabled(enabled bool)
	SetStatus(s Status, detail string)

	// Prompt shows a sticky message under key until Clear; onActivate runs
	// when the user acts on it (for example tapping to resume).
	Prompt(key, message string, onActivate func())
	Clear(key string)
}
