package ui

import "github.com/gdamore/tcell/v2"

// Card palette shared by the menu widgets. Indexed colors so the menus
// render the same on any 256-color terminal, independent of the board
// theme.
var MenuColors = struct {
	Border      tcell.Color
	BorderFocus tcell.Color
	CardBG      tcell.Color
	Title       tcell.Color
	TitleAccent tcell.Color
	Label       tcell.Color
	Hint        tcell.Color
	Selected    tcell.Color
	Unselected  tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
}{
	Border:      tcell.PaletteColor(60),
	BorderFocus: tcell.PaletteColor(109),
	CardBG:      tcell.PaletteColor(236),
	Title:       tcell.PaletteColor(255),
	TitleAccent: tcell.PaletteColor(109),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	Selected:    tcell.PaletteColor(109),
	Unselected:  tcell.PaletteColor(245),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
}

// cardText styles text drawn onto the card surface.
func cardText(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(MenuColors.CardBG)
}

// printCard writes a string onto the card and returns the column after
// it, so widget rows compose left to right.
func printCard(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
