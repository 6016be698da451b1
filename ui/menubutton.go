package ui

import "github.com/gdamore/tcell/v2"

// MenuButton is a card button. The primary button carries a ▶ marker;
// the focused button renders as a filled pill, the rest as bracketed
// labels.
type MenuButton struct {
	label    string
	primary  bool
	focused  bool
	onSelect func()
}

func NewMenuButton(label string, primary bool, onSelect func()) *MenuButton {
	return &MenuButton{label: label, primary: primary, onSelect: onSelect}
}

func (b *MenuButton) SetFocused(focused bool) {
	b.focused = focused
}

// HandleKey fires the button on Enter.
func (b *MenuButton) HandleKey(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyEnter {
		return false
	}
	if b.onSelect != nil {
		b.onSelect()
	}
	return true
}

func (b *MenuButton) text() string {
	if b.primary {
		return "▶ " + b.label
	}
	return b.label
}

// Draw renders the button and returns the width used.
func (b *MenuButton) Draw(screen tcell.Screen, x, y int) int {
	if b.focused {
		pill := tcell.StyleDefault.
			Foreground(MenuColors.ButtonText).
			Background(MenuColors.ButtonFocus)
		printCard(screen, x, y, " "+b.text()+" ", pill)
	} else {
		col := printCard(screen, x, y, "[", cardText(MenuColors.Border))
		col = printCard(screen, col, y, b.text(), cardText(MenuColors.Hint))
		printCard(screen, col, y, "]", cardText(MenuColors.Border))
	}
	return b.Width()
}

// Width is the drawn width: the label plus padding or brackets.
func (b *MenuButton) Width() int {
	return len([]rune(b.text())) + 2
}
