package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"laskan/bot"
	"laskan/rules"
)

const panelRule = "[dimgray]──────────────────────[-:-:-]\n"

// moveListWindow caps how many trailing moves the panel shows.
const moveListWindow = 12

// GameInfoPanel displays game information, bot status, and the move list
// alongside the board.
type GameInfoPanel struct {
	box    *tview.TextView
	game   *rules.Game
	status bot.Status
	detail string
	prompt string
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel(game *rules.Game) *GameInfoPanel {
	box := tview.NewTextView()
	box.SetDynamicColors(true)
	box.SetBorder(false)
	box.SetTextAlign(tview.AlignLeft)
	return &GameInfoPanel{box: box, game: game}
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetStatus updates the bot status line.
func (p *GameInfoPanel) SetStatus(status bot.Status, detail string) {
	p.status = status
	p.detail = detail
	p.Refresh()
}

// SetPrompt shows (or with an empty message clears) a prompt line.
func (p *GameInfoPanel) SetPrompt(message string) {
	p.prompt = message
	p.Refresh()
}

// Refresh rewrites the panel text from the current game state.
func (p *GameInfoPanel) Refresh() {
	var b strings.Builder

	b.WriteString("[white::b]Game Info[-:-:-]\n")
	b.WriteString(panelRule)

	white, black := p.game.State().CountColumns()
	fmt.Fprintf(&b, "[white]Ply:[-:-:-] %d\n", p.game.PlyCount())
	fmt.Fprintf(&b, "[white]Columns:[-:-:-] ○ %d  ● %d\n", white, black)

	if p.status != bot.StatusIdle {
		line := p.status.String()
		if p.detail != "" {
			line += ": " + p.detail
		}
		color := "[yellow]"
		if p.status == bot.StatusError {
			color = "[red]"
		}
		fmt.Fprintf(&b, "[white]Bot:[-:-:-] %s%s[-]\n", color, line)
	}

	if p.prompt != "" {
		fmt.Fprintf(&b, "\n[yellow]%s[-]\n", p.prompt)
	}

	if tree := p.game.Tree(); tree.NumVariations() > 1 {
		fmt.Fprintf(&b, "[dimgray]var %d/%d[-]\n", tree.VariationIndex()+1, tree.NumVariations())
	}

	p.writeMoveList(&b, p.game.Moves())
	p.box.SetText(b.String())
}

// writeMoveList appends the tail of the move list, newest move marked.
func (p *GameInfoPanel) writeMoveList(b *strings.Builder, moves []string) {
	if len(moves) == 0 {
		return
	}
	b.WriteString("\n[white::b]Moves[-:-:-]\n")
	b.WriteString(panelRule)

	start := 0
	if len(moves) > moveListWindow {
		start = len(moves) - moveListWindow
	}
	for i := start; i < len(moves); i++ {
		side := "[dimgray]W[-]"
		if i%2 == 1 {
			side = "[white]B[-]"
		}
		marker := " "
		if i == len(moves)-1 {
			marker = "[white]>[-]"
		}
		fmt.Fprintf(b, "%s[dimgray]%3d.[-] %s %s\n", marker, i+1, side, moves[i])
	}
	if start > 0 {
		fmt.Fprintf(b, "[dimgray]  ··· %d earlier[-]\n", start)
	}
}

// boardWithPanel lays the board out beside the info panel.
func boardWithPanel(board *BoardUI, panel *GameInfoPanel) *tview.Flex {
	row := tview.NewFlex().SetDirection(tview.FlexColumn)
	row.AddItem(board.Box, 0, 1, true)
	row.AddItem(panel.Box(), 26, 0, false)
	return row
}

// hCenter wraps a primitive so it renders centered at a fixed width.
func hCenter(item tview.Primitive, width int) *tview.Flex {
	row := tview.NewFlex().SetDirection(tview.FlexColumn)
	row.AddItem(nil, 0, 1, false)
	row.AddItem(item, width, 0, true)
	row.AddItem(nil, 0, 1, false)
	return row
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) (*tview.Flex, *GameInfoPanel) {
	infoPanel := NewGameInfoPanel(board.game)
	board.infoPanel = infoPanel

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardWithPanel(board, infoPanel), 0, 1, true)
	mainFlex.AddItem(hint, 4, 0, false)
	return mainFlex, infoPanel
}

// RebuildNormalLayout restores the normal game layout with board, info
// panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, panel *GameInfoPanel, hint *tview.TextView) {
	gameFrame.Clear()
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardWithPanel(board, panel), 0, 1, true)
	gameFrame.AddItem(hint, 4, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI) {
	gameFrame.Clear()
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)
	gameFrame.AddItem(hCenter(board.Box, rules.Size*2+4), rules.Size+2, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}

// CreateCenteredForm creates a centered container for the setup screen.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	return hCenter(form, maxWidth)
}
