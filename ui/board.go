// Package ui specifies custom controls for tview to assist in playing Lasca in the terminal.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"laskan/config"
	"laskan/rules"
	"laskan/types"
)

// Style indexes into BoardUI.styles.
const (
	styleDarkBG = iota
	styleLightBG
	styleBlackFG
	styleWhiteFG
	styleOfficerFG
	styleCursorFG
	styleCursorBG
	styleLastBG
	styleSelectedBG
)

type BoardUI struct {
	Box          *tview.Box
	hint         *tview.TextView
	cfg          *config.Config
	game         *rules.Game
	app          *tview.Application
	styles       []tcell.Color
	infoPanel    *GameInfoPanel
	focusMode    bool
	inputEnabled bool

	// Cursor and pending move source. -1 means no cursor.
	curFile int
	curRank int
	source  *types.Square
	last    *types.Move
}

func NewBoard(app *tview.Application, c *config.Config, game *rules.Game, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:          tview.NewBox(),
		hint:         hint,
		game:         game,
		app:          app,
		curFile:      -1,
		curRank:      -1,
		inputEnabled: true,
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		state := board.game.State()
		// 2 characters per cell for square appearance
		boardW, boardH := rules.Size*2, rules.Size

		for rank := 0; rank < rules.Size; rank++ {
			screenRow := y + (rules.Size - 1 - rank)
			for file := 0; file < rules.Size; file++ {
				sq := types.Square{File: file, Rank: rank}
				playable := rules.Playable(sq)

				bg := board.styles[styleLightBG]
				if playable {
					bg = board.styles[styleDarkBG]
				}
				if board.isSelected(sq) {
					bg = board.styles[styleSelectedBG]
				} else if board.isCursor(sq) && board.cfg.Theme.DrawCursorBackground {
					bg = board.styles[styleCursorBG]
				} else if board.isLastTarget(sq) {
					bg = board.styles[styleLastBG]
				}

				drawRune := ' '
				countRune := ' '
				fg := board.styles[styleCursorFG]
				if playable {
					drawRune = board.cfg.Theme.Symbols.DarkSquare
					col := state.At(sq)
					if len(col) > 0 {
						top := col.Top()
						if top.Kind == types.Officer {
							drawRune = board.cfg.Theme.Symbols.Officer
							fg = board.styles[styleOfficerFG]
						} else {
							drawRune = board.cfg.Theme.Symbols.Soldier
							if top.Color == types.White {
								fg = board.styles[styleWhiteFG]
							} else {
								fg = board.styles[styleBlackFG]
							}
						}
						if board.cfg.Theme.ShowStackCounts && len(col) > 1 && len(col) <= 9 {
							countRune = rune('0' + len(col))
						}
					}
				}
				if board.isCursor(sq) && !board.cfg.Theme.DrawCursorBackground && drawRune == board.cfg.Theme.Symbols.DarkSquare {
					drawRune = board.cfg.Theme.Symbols.Cursor
				}

				style := tcell.StyleDefault.Background(bg).Foreground(fg)
				screen.SetContent(x+4+file*2, screenRow, drawRune, nil, style)
				screen.SetContent(x+4+file*2+1, screenRow, countRune, nil, style)
			}
		}
		drawCoordinates(screen, x, y, board)
		// Add offset for coordinate display
		return x, y, boardW + 4, boardH + 2
	})
	return board
}

func (b *BoardUI) isCursor(sq types.Square) bool {
	return sq.File == b.curFile && sq.Rank == b.curRank
}

func (b *BoardUI) isSelected(sq types.Square) bool {
	return b.source != nil && *b.source == sq
}

func (b *BoardUI) isLastTarget(sq types.Square) bool {
	return b.last != nil && b.last.To == sq
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (b *BoardUI) ToggleFocusMode() bool {
	b.focusMode = !b.focusMode
	b.RefreshHint()
	return b.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (b *BoardUI) SetFocusMode(enabled bool) {
	b.focusMode = enabled
	b.RefreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (b *BoardUI) IsFocusMode() bool {
	return b.focusMode
}

// SetInputEnabled controls whether cursor movement and move entry are
// accepted. The bot locks input while it owns the turn.
func (b *BoardUI) SetInputEnabled(enabled bool) {
	b.inputEnabled = enabled
	if !enabled {
		b.source = nil
	}
	b.RefreshHint()
}

func (b *BoardUI) InputEnabled() bool {
	return b.inputEnabled
}

// Cursor returns the cursor square, or nil when the cursor is unset.
func (b *BoardUI) Cursor() *types.Square {
	if b.curFile == -1 && b.curRank == -1 {
		return nil
	}
	return &types.Square{File: b.curFile, Rank: b.curRank}
}

// MoveSelection moves the cursor by the given file/rank delta, placing it
// on the board center when unset.
func (b *BoardUI) MoveSelection(h, v int) {
	if !b.inputEnabled {
		return
	}
	if b.Cursor() == nil {
		b.curFile = rules.Size / 2
		b.curRank = rules.Size / 2
		return
	}
	if b.curFile+h < 0 || b.curFile+h >= rules.Size {
		return
	}
	if b.curRank+v < 0 || b.curRank+v >= rules.Size {
		return
	}
	b.curFile += h
	b.curRank += v
}

// ResetSelection clears the pending move source, or the cursor itself when
// no source is pending.
func (b *BoardUI) ResetSelection() bool {
	if b.source != nil {
		b.source = nil
		return true
	}
	if b.Cursor() != nil {
		b.curFile = -1
		b.curRank = -1
		return true
	}
	return false
}

// Activate handles Enter on the cursor square: first press picks up one of
// the player's columns, second press drops it on the destination. Illegal
// targets keep the source selected.
func (b *BoardUI) Activate() {
	if !b.inputEnabled || b.game.GameOver() {
		return
	}
	cursor := b.Cursor()
	if cursor == nil {
		return
	}
	sq := *cursor
	if !rules.Playable(sq) {
		return
	}

	if b.source == nil || *b.source == sq {
		col := b.game.State().At(sq)
		if len(col) > 0 && col.Top().Color == b.game.SideToMove() {
			b.source = &sq
			b.RefreshHint()
		}
		return
	}

	for _, legal := range b.game.LegalMoves() {
		if legal.From == *b.source && legal.To == sq {
			b.source = nil
			if err := b.game.Play(legal); err == nil {
				b.last = &legal
			}
			b.RefreshHint()
			return
		}
	}
}

// NoteMove records an externally played move for last-move highlighting.
func (b *BoardUI) NoteMove(m types.Move) {
	b.last = &m
	b.RefreshHint()
}

// ClearLastMove drops the last-move highlight, used after undo and resets.
func (b *BoardUI) ClearLastMove() {
	b.last = nil
	b.RefreshHint()
}

func (b *BoardUI) SetConfig(c *config.Config) {
	b.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.DarkSquareColor),
		tcell.PaletteColor(c.Theme.Colors.LightSquareColor),
		tcell.PaletteColor(c.Theme.Colors.BlackColor),
		tcell.PaletteColor(c.Theme.Colors.WhiteColor),
		tcell.PaletteColor(c.Theme.Colors.OfficerMarkColor),
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG),
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG),
		tcell.PaletteColor(c.Theme.Colors.SelectedColorBG),
	}
	b.cfg = c
}

// RefreshHint rewrites the status bar from the current game state.
func (b *BoardUI) RefreshHint() {
	if b.infoPanel != nil {
		b.infoPanel.Refresh()
	}

	// Focus mode shows minimal hint
	if b.focusMode {
		b.hint.SetText("  f to toggle")
		return
	}

	var statusLine, turnLine, controlsLine string

	if b.game.GameOver() {
		winner, _ := b.game.Winner()
		outcome := "Draw"
		switch winner {
		case types.White:
			outcome = "White wins"
		case types.Black:
			outcome = "Black wins"
		}
		statusLine = "───────── Game Complete ─────────\n\n"
		turnLine = fmt.Sprintf("  Result: %s\n", outcome)
		controlsLine = "\n  n · new game   q · return to menu"
	} else {
		if b.source != nil {
			statusLine = fmt.Sprintf("  ◆ %s selected\n\n", b.source)
		}

		if b.inputEnabled {
			piece := "●"
			side := "Black"
			if b.game.SideToMove() == types.White {
				piece = "○"
				side = "White"
			}
			turnLine = fmt.Sprintf("  %s Your move (%s)\n", piece, side)
		} else {
			turnLine = "  ◌ Thinking...\n"
		}

		controlsLine = `
  hjkl/↑↓←→ move   ⏎ pick up / drop
   u undo  ⌦ redo  ␣ pause  f focus  q quit`
	}

	b.hint.SetText(fmt.Sprintf("%s%s%s", statusLine, turnLine, controlsLine))
}

func drawCoordinates(s tcell.Screen, x, y int, b *BoardUI) {
	hCoord := int('a')
	if b.cfg.Theme.FullWidthLetters {
		hCoord = int('ａ')
	}

	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(b.styles[styleCursorBG])

	for file := 0; file < rules.Size; file++ {
		_style := style
		if file == b.curFile {
			_style = highlight
		}
		// 2-char cells
		s.SetContent(x+4+(file*2), y+rules.Size+1, rune(hCoord+file), nil, _style)
		s.SetContent(x+4+(file*2)+1, y+rules.Size+1, ' ', nil, _style)
	}

	for rank := 0; rank < rules.Size; rank++ {
		_style := style
		if rank == b.curRank {
			_style = highlight
		}
		// Rank 1 sits on the bottom row.
		s.SetContent(x+2, y+rules.Size-1-rank, rune('1'+rank), nil, _style)
	}
	s.Show()
}
