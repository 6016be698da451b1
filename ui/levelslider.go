package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// LevelSlider is a one-row horizontal gauge adjusted with Left/Right.
type LevelSlider struct {
	label    string
	min      int
	max      int
	value    int
	focused  bool
	onChange func(int)
}

func NewLevelSlider(label string, min, max, initial int, onChange func(int)) *LevelSlider {
	return &LevelSlider{
		label:    label,
		min:      min,
		max:      max,
		value:    initial,
		onChange: onChange,
	}
}

func (s *LevelSlider) SetFocused(focused bool) {
	s.focused = focused
}

// HandleKey nudges the value with Left/Right.
func (s *LevelSlider) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		s.SetValue(s.value - 1)
		return true
	case tcell.KeyRight:
		s.SetValue(s.value + 1)
		return true
	}
	return false
}

// Draw renders the slider and returns the rows used (always one).
func (s *LevelSlider) Draw(screen tcell.Screen, x, y, width int) int {
	cursor := "  "
	if s.focused {
		cursor = "▸ "
	}
	col := printCard(screen, x, y, cursor, cardText(MenuColors.Selected))
	col = printCard(screen, col, y, "◈ ", cardText(MenuColors.TitleAccent))
	col = printCard(screen, col, y, s.label+"   ", cardText(MenuColors.Label))

	arrows := cardText(MenuColors.Unselected)
	if s.focused {
		arrows = cardText(MenuColors.Selected)
	}
	col = printCard(screen, col, y, "◀ ", arrows)

	filled := s.value - s.min + 1
	for i := 0; i < s.max-s.min+1; i++ {
		cell, style := '░', cardText(MenuColors.Unselected)
		if i < filled {
			cell, style = '█', cardText(MenuColors.Selected)
		}
		screen.SetContent(col, y, cell, nil, style)
		col++
	}
	col = printCard(screen, col+1, y, fmt.Sprintf("%d ", s.value), cardText(MenuColors.Label))
	printCard(screen, col, y, "▶", arrows)
	return 1
}

// Value returns the current value.
func (s *LevelSlider) Value() int {
	return s.value
}

// SetValue moves the gauge; out-of-range values are ignored.
func (s *LevelSlider) SetValue(v int) {
	if v < s.min || v > s.max {
		return
	}
	s.value = v
	if s.onChange != nil {
		s.onChange(s.value)
	}
}
