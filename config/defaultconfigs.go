package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawPieceBackground:  true,
		DrawCursorBackground: true,
		ShowStackCounts:      true,
		FullWidthLetters:     false,
		Colors: ConfigColors{
			DarkSquareColor:   94,
			LightSquareColor:  180,
			BlackColor:        232,
			WhiteColor:        255,
			OfficerMarkColor:  178,
			CursorColorFG:     2,
			CursorColorBG:     4,
			SelectedColorBG:   6,
			LastPlayedColorBG: 2,
		},
		Symbols: ConfigSymbols{
			Soldier:    '●',
			Officer:    '◉',
			DarkSquare: '·',
			Cursor:     '┼',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Engine: EngineConfig{
			Path:             "laskad",
			URL:              "",
			FallbackOnCold:   false,
			WarmupTimeoutSec: 180,
		},
		DebugLog: "",
	}
}
