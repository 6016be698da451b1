// Package ui provides terminal UI components for laskan.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"laskan/bot"
)

// SetupHooks are the callbacks the setup screen fires. Sublevel and
// SetSublevel expose the difficulty gauge for the currently selected bot
// tier.
type SetupHooks struct {
	OnStart     func(white, black bot.Player)
	OnHistory   func()
	OnColors    func()
	OnCancel    func()
	Sublevel    func(bot.Tier) int
	SetSublevel func(bot.Tier, int)
}

var setupPlayers = []bot.Player{
	bot.PlayerHuman,
	bot.PlayerBeginner,
	bot.PlayerIntermediate,
	bot.PlayerStrong,
}

func playerIndex(p bot.Player) int {
	for i, sp := range setupPlayers {
		if sp == p {
			return i
		}
	}
	return 0
}

// GameSetupUI is the new-game card: per-side player selection, a
// difficulty gauge, and the menu buttons.
type GameSetupUI struct {
	*MenuCard
	hooks SetupHooks

	whiteSel *RadioSelect
	blackSel *RadioSelect
	slider   *LevelSlider
	buttons  []*MenuButton

	white bot.Player
	black bot.Player
	focus int
}

// NewGameSetup creates the setup card seeded with the persisted settings.
func NewGameSetup(settings bot.Settings, hooks SetupHooks) *GameSetupUI {
	setup := &GameSetupUI{
		MenuCard: NewMenuCard("L A S K A N"),
		hooks:    hooks,
		white:    settings.White,
		black:    settings.Black,
	}

	options := []RadioOption{
		{Label: "Human"},
		{Label: "Beginner", Description: "bot"},
		{Label: "Intermediate", Description: "bot"},
		{Label: "Strong", Description: "bot"},
	}

	setup.whiteSel = NewRadioSelect("White", options, playerIndex(settings.White), func(i int) {
		setup.white = setupPlayers[i]
		setup.syncSlider()
	})
	setup.blackSel = NewRadioSelect("Black", options, playerIndex(settings.Black), func(i int) {
		setup.black = setupPlayers[i]
		setup.syncSlider()
	})

	setup.slider = NewLevelSlider("Difficulty", 0, bot.Sublevels-1, bot.DefaultSublevel, func(v int) {
		if tier, ok := setup.gaugeTier(); ok && hooks.SetSublevel != nil {
			hooks.SetSublevel(tier, v)
		}
	})

	setup.buttons = []*MenuButton{
		NewMenuButton("Start Game", true, func() {
			if hooks.OnStart != nil {
				hooks.OnStart(setup.white, setup.black)
			}
		}),
		NewMenuButton("History", false, hooks.OnHistory),
		NewMenuButton("Colors", false, hooks.OnColors),
		NewMenuButton("Quit", false, hooks.OnCancel),
	}

	setup.syncSlider()
	setup.applyFocus()
	return setup
}

// gaugeTier picks which tier the difficulty gauge shows: the black bot if
// there is one, else the white bot.
func (s *GameSetupUI) gaugeTier() (bot.Tier, bool) {
	if s.black.IsBot() {
		return s.black.Tier(), true
	}
	if s.white.IsBot() {
		return s.white.Tier(), true
	}
	return "", false
}

// syncSlider reloads the gauge from the adaptive state of the selected
// tier.
func (s *GameSetupUI) syncSlider() {
	if tier, ok := s.gaugeTier(); ok && s.hooks.Sublevel != nil {
		s.slider.value = s.hooks.Sublevel(tier)
	}
}

// RefreshGauge re-syncs the difficulty gauge, called when adaptive state
// changed behind the screen.
func (s *GameSetupUI) RefreshGauge() {
	s.syncSlider()
}

func (s *GameSetupUI) focusCount() int {
	return 3 + len(s.buttons)
}

func (s *GameSetupUI) applyFocus() {
	s.whiteSel.SetFocused(s.focus == 0)
	s.blackSel.SetFocused(s.focus == 1)
	s.slider.SetFocused(s.focus == 2)
	for i, b := range s.buttons {
		b.SetFocused(s.focus == 3+i)
	}
	s.MenuCard.SetFocused(true)
}

// Draw renders the card and its components.
func (s *GameSetupUI) Draw(screen tcell.Screen) {
	s.MenuCard.Draw(screen)

	x, y, width, _ := s.GetInnerRect()
	if width < 20 {
		return
	}

	row := y + 6
	row += s.whiteSel.Draw(screen, x+3, row, width-6)
	row++
	row += s.blackSel.Draw(screen, x+3, row, width-6)
	row++
	if _, ok := s.gaugeTier(); ok {
		row += s.slider.Draw(screen, x+3, row, width-6)
		row++
	}

	s.DrawDivider(screen, row)
	row += 2

	col := x + 3
	for _, b := range s.buttons {
		col += b.Draw(screen, col, row) + 2
	}
}

// InputHandler routes keys to the focused component, with Tab cycling the
// focus.
func (s *GameSetupUI) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return s.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		switch event.Key() {
		case tcell.KeyTab:
			s.focus = (s.focus + 1) % s.focusCount()
			if s.focus == 2 {
				if _, ok := s.gaugeTier(); !ok {
					s.focus++
				}
			}
			s.applyFocus()
			return
		case tcell.KeyBacktab:
			s.focus = (s.focus + s.focusCount() - 1) % s.focusCount()
			if s.focus == 2 {
				if _, ok := s.gaugeTier(); !ok {
					s.focus--
				}
			}
			s.applyFocus()
			return
		}

		switch s.focus {
		case 0:
			s.whiteSel.HandleKey(event)
		case 1:
			s.blackSel.HandleKey(event)
		case 2:
			s.slider.HandleKey(event)
		default:
			btn := s.buttons[s.focus-3]
			if btn.HandleKey(event) {
				return
			}
			// Left/Right hops between buttons.
			switch event.Key() {
			case tcell.KeyLeft:
				if s.focus > 3 {
					s.focus--
					s.applyFocus()
				}
			case tcell.KeyRight:
				if s.focus < s.focusCount()-1 {
					s.focus++
					s.applyFocus()
				}
			}
		}
	})
}
