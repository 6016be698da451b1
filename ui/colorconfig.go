package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"laskan/config"
	"laskan/rules"
	"laskan/types"
)

// paletteEntry is one selectable board color.
type paletteEntry struct {
	code int
	name string
}

// The two palettes the editor cycles through with Tab: deep tones for
// the playable squares, warm tones for the rest of the board.
var darkSquareColors = []paletteEntry{
	{94, "Saddle Brown"},
	{130, "Dark Orange"},
	{136, "Dark Brown"},
	{88, "Dark Red"},
	{52, "Dark Maroon"},
	{22, "Dark Green"},
	{23, "Teal"},
	{24, "Dark Cyan"},
	{17, "Navy Blue"},
	{54, "Purple"},
	{232, "Black"},
	{236, "Dark Gray"},
	{240, "Gray"},
	{244, "Medium Gray"},
	{16, "True Black"},
}

var lightSquareColors = []paletteEntry{
	{230, "Light Cream"},
	{229, "Pale Yellow"},
	{228, "Light Gold"},
	{222, "Gold"},
	{220, "Bright Yellow"},
	{214, "Orange Gold"},
	{208, "Dark Orange"},
	{180, "Tan"},
	{179, "Light Brown"},
	{172, "Brown"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{252, "Light Gray"},
	{250, "Gray"},
	{248, "Medium Gray"},
	{244, "Dark Gray"},
	{188, "Light Beige"},
	{181, "Dusty Rose"},
	{223, "Peach"},
	{216, "Salmon"},
}

// ColorConfigUI is the board color editor: a palette list on the left
// and a live preview of the opening position on the right. Moving the
// highlight previews a color; Enter persists it. Confirming the light
// palette drops back to the dark one, confirming the dark palette
// finishes the screen.
type ColorConfigUI struct {
	flex    *tview.Flex
	list    *tview.List
	preview *tview.Box
	cfg     *config.Config
	onDone  func()

	dark         int
	light        int
	editingLight bool
}

func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:    cfg,
		onDone: onDone,
		dark:   cfg.Theme.Colors.DarkSquareColor,
		light:  cfg.Theme.Colors.LightSquareColor,
	}

	cc.list = tview.NewList()
	cc.list.SetBorder(true)
	cc.list.ShowSecondaryText(false)
	cc.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		palette := cc.palette()
		if index >= 0 && index < len(palette) {
			*cc.editing() = palette[index].code
		}
	})
	cc.list.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index >= 0 && index < len(cc.palette()) {
			cc.apply()
		}
	})
	cc.reloadList()

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.list, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)
	return cc
}

// palette returns the entries for the side being edited.
func (cc *ColorConfigUI) palette() []paletteEntry {
	if cc.editingLight {
		return lightSquareColors
	}
	return darkSquareColors
}

// editing returns the pending selection for the side being edited.
func (cc *ColorConfigUI) editing() *int {
	if cc.editingLight {
		return &cc.light
	}
	return &cc.dark
}

func (cc *ColorConfigUI) apply() {
	if cc.editingLight {
		cc.cfg.Theme.Colors.LightSquareColor = cc.light
		cc.cfg.Save()
		cc.editingLight = false
		cc.reloadList()
		return
	}
	cc.cfg.Theme.Colors.DarkSquareColor = cc.dark
	cc.cfg.Save()
	cc.onDone()
}

func (cc *ColorConfigUI) reloadList() {
	cc.list.Clear()
	if cc.editingLight {
		cc.list.SetTitle(" Select Light Squares (Tab: switch to dark) ")
	} else {
		cc.list.SetTitle(" Select Dark Squares (Tab: switch to light) ")
	}
	current := *cc.editing()
	for i, c := range cc.palette() {
		cc.list.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
		if c.code == current {
			cc.list.SetCurrentItem(i)
		}
	}
}

// drawPreview renders the opening position with the pending colors.
func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < 20 || height < 10 {
		return x, y, width, height
	}

	dark := tcell.PaletteColor(cc.dark)
	light := tcell.PaletteColor(cc.light)
	onDark := map[types.Color]tcell.Style{
		types.White: tcell.StyleDefault.Background(dark).Foreground(tcell.PaletteColor(cc.cfg.Theme.Colors.WhiteColor)),
		types.Black: tcell.StyleDefault.Background(dark).Foreground(tcell.PaletteColor(cc.cfg.Theme.Colors.BlackColor)),
	}
	darkStyle := tcell.StyleDefault.Background(dark).Foreground(light)
	lightStyle := tcell.StyleDefault.Background(light).Foreground(dark)

	startX, startY := x+2, y+1
	state := rules.Initial()
	for rank := rules.Size - 1; rank >= 0; rank-- {
		row := startY + (rules.Size - 1 - rank)
		for file := 0; file < rules.Size; file++ {
			sq := types.Square{File: file, Rank: rank}
			ch, style := ' ', lightStyle
			if rules.Playable(sq) {
				ch, style = cc.cfg.Theme.Symbols.DarkSquare, darkStyle
				if col := state.At(sq); len(col) > 0 {
					ch = cc.cfg.Theme.Symbols.Soldier
					style = onDark[col.Top().Color]
				}
			}
			screen.SetContent(startX+file*2, row, ch, nil, style)
			screen.SetContent(startX+file*2+1, row, ' ', nil, style)
		}
	}

	info := fmt.Sprintf("Dark: %d  Light: %d", cc.dark, cc.light)
	if cc.editingLight {
		info = fmt.Sprintf("Light: %d  Dark: %d", cc.light, cc.dark)
	}
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+rules.Size+1, ch, nil, tcell.StyleDefault)
		}
	}
	return x, y, width, height
}

// Flex returns the screen's layout container.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture hooks key handling on the palette list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.list.SetInputCapture(capture)
}

// ToggleMode switches which palette is being edited.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingLight = !cc.editingLight
	cc.reloadList()
}
