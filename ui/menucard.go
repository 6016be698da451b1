package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuCard is the rounded-border card the menu screens draw onto. It
// paints the surface, border and title header; subclasses draw their
// content below the header divider.
type MenuCard struct {
	*tview.Box
	title   string
	focused bool
}

func NewMenuCard(title string) *MenuCard {
	return &MenuCard{Box: tview.NewBox(), title: title}
}

func (c *MenuCard) borderStyle() tcell.Style {
	if c.focused {
		return cardText(MenuColors.BorderFocus)
	}
	return cardText(MenuColors.Border)
}

func (c *MenuCard) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width < 10 || height < 5 {
		return
	}

	surface := tcell.StyleDefault.Background(MenuColors.CardBG)
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, surface)
		}
	}

	border := c.borderStyle()
	c.rule(screen, y, '╭', '╮')
	for row := y + 1; row < y+height-1; row++ {
		screen.SetContent(x, row, '│', nil, border)
		screen.SetContent(x+width-1, row, '│', nil, border)
	}
	c.rule(screen, y+height-1, '╰', '╯')

	if c.title == "" {
		return
	}
	header := "⬡  " + c.title
	col := x + (width-len([]rune(header)))/2
	col = printCard(screen, col, y+2, "⬡  ", cardText(MenuColors.TitleAccent))
	printCard(screen, col, y+2, c.title, cardText(MenuColors.Title).Bold(true))
	c.DrawDivider(screen, y+4)
}

// rule draws a full-width horizontal border line with the given end caps.
func (c *MenuCard) rule(screen tcell.Screen, row int, left, right rune) {
	x, _, width, _ := c.GetInnerRect()
	border := c.borderStyle()
	screen.SetContent(x, row, left, nil, border)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, row, '─', nil, border)
	}
	screen.SetContent(x+width-1, row, right, nil, border)
}

// DrawDivider separates card sections at the given row.
func (c *MenuCard) DrawDivider(screen tcell.Screen, divY int) {
	c.rule(screen, divY, '├', '┤')
}

func (c *MenuCard) SetFocused(focused bool) {
	c.focused = focused
}
