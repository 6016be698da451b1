package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"laskan/config"
	"laskan/record"
	"laskan/rules"
	"laskan/types"
)

// HistoryBrowserUI lists archived games with a final-position preview.
// Final positions are replayed from the move record on demand and kept
// until the next Refresh, since replaying a long game is not free.
type HistoryBrowserUI struct {
	flex   *tview.Flex
	list   *tview.List
	board  *tview.Box
	hint   *tview.TextView
	onDone func()

	games  []record.GameInfo
	finals map[int]*rules.State
	cursor int
}

func NewHistoryBrowser(onDone func()) *HistoryBrowserUI {
	hb := &HistoryBrowserUI{
		onDone: onDone,
		finals: map[int]*rules.State{},
	}

	hb.list = tview.NewList()
	hb.list.ShowSecondaryText(false)
	hb.list.SetHighlightFullLine(true)
	hb.list.SetBorder(true)
	hb.list.SetTitle(" Game History ")
	hb.list.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.list.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))
	hb.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.cursor = index
	})
	hb.list.SetInputCapture(hb.handleKey)

	hb.board = tview.NewBox()
	hb.board.SetBorder(true)
	hb.board.SetTitle(" Preview ")
	hb.board.SetDrawFunc(hb.drawFinal)

	hb.hint = tview.NewTextView()
	hb.hint.SetBorder(false)
	hb.hint.SetDynamicColors(true)
	hb.hint.SetText("  [dimgray]d[-] delete  [dimgray]q[-] back")

	panes := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.list, 38, 0, true).
		AddItem(hb.board, 0, 1, false)
	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(panes, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.reload()
	return hb
}

// Flex returns the screen's layout container.
func (hb *HistoryBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh drops cached positions and rescans the archive.
func (hb *HistoryBrowserUI) Refresh() {
	hb.finals = map[int]*rules.State{}
	hb.reload()
}

func (hb *HistoryBrowserUI) reload() {
	hb.list.Clear()
	hb.games, hb.cursor = nil, 0

	games, err := record.ListGames(config.ArchiveDir())
	if err != nil || len(games) == 0 {
		hb.list.AddItem("[dimgray]No games found[-]", "", 0, nil)
		return
	}
	hb.games = games
	for _, g := range games {
		hb.list.AddItem(fmt.Sprintf("%s  %s v %s  %s",
			g.Date, g.White, g.Black, resultText(g.Result, "...")), "", 0, nil)
	}
}

func resultText(r, unfinished string) string {
	if r == "" || r == "?" {
		return unfinished
	}
	return r
}

func (hb *HistoryBrowserUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	key := event.Rune()
	if event.Key() == tcell.KeyEscape {
		key = 'q'
	}
	switch key {
	case 'q':
		if hb.onDone != nil {
			hb.onDone()
		}
	case 'd':
		hb.deleteSelected()
	default:
		return event
	}
	return nil
}

func (hb *HistoryBrowserUI) deleteSelected() {
	if hb.cursor < 0 || hb.cursor >= len(hb.games) {
		return
	}
	os.Remove(hb.games[hb.cursor].FilePath)
	hb.Refresh()
}

// finalPosition replays the selected game to its last recorded move,
// caching the result. Returns nil when the record cannot be read.
func (hb *HistoryBrowserUI) finalPosition(index int) *rules.State {
	if state, ok := hb.finals[index]; ok {
		return state
	}
	state, err := replayToEnd(hb.games[index].FilePath)
	if err != nil {
		return nil
	}
	hb.finals[index] = state
	return state
}

// replayToEnd rebuilds the final position of an archived game. Moves are
// matched against the legal list at each ply so malformed files stop
// replaying instead of corrupting the board.
func replayToEnd(path string) (*rules.State, error) {
	_, moves, err := record.ReadGame(path)
	if err != nil {
		return nil, err
	}
	state := rules.Initial()
	for _, encoded := range moves {
		m, err := types.ParseMove(encoded)
		if err != nil {
			break
		}
		matched := false
		for _, legal := range rules.LegalMoves(state) {
			if types.SameSquares(legal, m) {
				m = legal
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		if err := rules.Apply(state, m); err != nil {
			break
		}
	}
	return state, nil
}

func topGlyph(col rules.Column) (rune, bool) {
	if len(col) == 0 {
		return '·', false
	}
	if col.Top().Kind == types.Officer {
		return '◉', col.Top().Color == types.White
	}
	return '●', col.Top().Color == types.White
}

func (hb *HistoryBrowserUI) drawFinal(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if hb.cursor < 0 || hb.cursor >= len(hb.games) {
		return x, y, width, height
	}
	if width < rules.Size*2+4 || height < rules.Size+7 {
		return x, y, width, height
	}
	state := hb.finalPosition(hb.cursor)
	if state == nil {
		return x, y, width, height
	}

	left, top := x+2, y+1
	squareStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	pieceStyle := map[bool]tcell.Style{
		true:  tcell.StyleDefault.Foreground(tcell.PaletteColor(250)),
		false: tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true),
	}
	for rank := rules.Size - 1; rank >= 0; rank-- {
		row := top + (rules.Size - 1 - rank)
		for file := 0; file < rules.Size; file++ {
			sq := types.Square{File: file, Rank: rank}
			if !rules.Playable(sq) {
				screen.SetContent(left+file*2, row, ' ', nil, squareStyle)
				continue
			}
			col := state.At(sq)
			ch, isWhite := topGlyph(col)
			style := squareStyle
			if len(col) > 0 {
				style = pieceStyle[isWhite]
			}
			screen.SetContent(left+file*2, row, ch, nil, style)
		}
	}

	game := hb.games[hb.cursor]
	dim := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
	accent := tcell.StyleDefault.Foreground(tcell.PaletteColor(109))
	lines := []struct {
		text  string
		style tcell.Style
	}{
		{fmt.Sprintf("%d moves", game.MoveCount), dim},
		{fmt.Sprintf("W: %s", game.White), dim},
		{fmt.Sprintf("B: %s", game.Black), dim},
		{fmt.Sprintf("Result: %s", resultText(game.Result, "Unfinished")), accent},
	}
	for i, line := range lines {
		drawText(screen, left, top+rules.Size+1+i, line.text, line.style)
	}
	return x, y, width, height
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}
