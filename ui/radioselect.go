package ui

import "github.com/gdamore/tcell/v2"

// RadioOption is one choice in a RadioSelect.
type RadioOption struct {
	Label       string
	Description string
}

// RadioSelect is a vertical single-choice group under a diamond header.
type RadioSelect struct {
	label    string
	options  []RadioOption
	selected int
	focused  bool
	onChange func(int)
}

func NewRadioSelect(label string, options []RadioOption, initial int, onChange func(int)) *RadioSelect {
	return &RadioSelect{
		label:    label,
		options:  options,
		selected: initial,
		onChange: onChange,
	}
}

func (r *RadioSelect) SetFocused(focused bool) {
	r.focused = focused
}

// HandleKey moves the selection with Up/Down.
func (r *RadioSelect) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyUp:
		r.SetSelected(r.selected - 1)
		return true
	case tcell.KeyDown:
		r.SetSelected(r.selected + 1)
		return true
	}
	return false
}

// Draw renders the group and returns the rows used.
func (r *RadioSelect) Draw(screen tcell.Screen, x, y, width int) int {
	row := y
	col := printCard(screen, x, row, "◈ ", cardText(MenuColors.TitleAccent))
	printCard(screen, col, row, r.label, cardText(MenuColors.Label))
	row++

	for i, opt := range r.options {
		style := cardText(MenuColors.Unselected)
		mark := "○ "
		if i == r.selected {
			style = cardText(MenuColors.Selected)
			mark = "● "
		}
		cursor := "  "
		if r.focused && i == r.selected {
			cursor = "▸ "
		}
		col = printCard(screen, x+2, row, cursor, cardText(MenuColors.Selected))
		col = printCard(screen, col, row, mark, style)
		col = printCard(screen, col, row, opt.Label, style)
		if opt.Description != "" {
			printCard(screen, col+1, row, opt.Description, cardText(MenuColors.Hint))
		}
		row++
	}
	return row - y
}

// Selected returns the selected index.
func (r *RadioSelect) Selected() int {
	return r.selected
}

// SetSelected moves the selection; out-of-range indexes are ignored.
func (r *RadioSelect) SetSelected(index int) {
	if index < 0 || index >= len(r.options) {
		return
	}
	r.selected = index
	if r.onChange != nil {
		r.onChange(r.selected)
	}
}
