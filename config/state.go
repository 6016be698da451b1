package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/adrg/xdg"

	"laskan/bot"
)

var stateFile = "laskan/state.json"

type persistedState struct {
	Bot   bot.Settings              `json:"bot"`
	Adapt map[string]bot.AdaptState `json:"adapt"`
}

// StateStore persists bot settings and per-tier adaptive state as a single
// JSON document in the XDG state directory. It implements both
// bot.SettingsStore and bot.AdaptiveStore.
type StateStore struct {
	mu    sync.Mutex
	state persistedState
	read  bool
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (s *StateStore) Load() (bot.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readLocked(); err != nil {
		return bot.DefaultSettings(), err
	}
	return s.state.Bot, nil
}

func (s *StateStore) Save(settings bot.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Best effort read so a partial in-memory view does not clobber
	// adaptive state written by an earlier run.
	s.readLocked()
	s.state.Bot = settings
	return s.writeLocked()
}

func (s *StateStore) LoadAdapt(tier bot.Tier) (bot.AdaptState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readLocked(); err != nil {
		return bot.AdaptState{}, err
	}
	st, ok := s.state.Adapt[string(tier)]
	if !ok {
		return bot.Normalize(nil), nil
	}
	return st, nil
}

func (s *StateStore) SaveAdapt(tier bot.Tier, st bot.AdaptState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readLocked()
	if s.state.Adapt == nil {
		s.state.Adapt = make(map[string]bot.AdaptState)
	}
	s.state.Adapt[string(tier)] = st
	return s.writeLocked()
}

func (s *StateStore) readLocked() error {
	if s.read {
		return nil
	}
	absPath, err := xdg.SearchStateFile(stateFile)
	if err != nil {
		// No file yet is not an error; defaults apply.
		s.read = true
		s.state = persistedState{Bot: bot.DefaultSettings()}
		return nil
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return err
	}
	var st persistedState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	s.state = st
	s.read = true
	return nil
}

func (s *StateStore) writeLocked() error {
	absPath, err := xdg.StateFile(stateFile)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(absPath, data, 0664)
}

// AdaptiveView adapts a StateStore to the bot.AdaptiveStore interface,
// whose method names collide with the settings ones.
type AdaptiveView struct {
	Store *StateStore
}

func (v AdaptiveView) Load(tier bot.Tier) (bot.AdaptState, error) {
	return v.Store.LoadAdapt(tier)
}

func (v AdaptiveView) Save(tier bot.Tier, st bot.AdaptState) error {
	return v.Store.SaveAdapt(tier, st)
}
