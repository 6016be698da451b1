package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
)

var (
	cfgFile = "laskan/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	DarkSquareColor   int `json:"dark_square"`
	LightSquareColor  int `json:"light_square"`
	BlackColor        int `json:"black"`
	WhiteColor        int `json:"white"`
	OfficerMarkColor  int `json:"officer_mark"`
	CursorColorFG     int `json:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg"`
	SelectedColorBG   int `json:"selected_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
}

type ConfigSymbols struct {
	Soldier    rune `json:"soldier"`
	Officer    rune `json:"officer"`
	DarkSquare rune `json:"dark_square"`
	Cursor     rune `json:"cursor"`
}

type Theme struct {
	DrawPieceBackground  bool          `json:"draw_piece_bg"`
	DrawCursorBackground bool          `json:"draw_cursor_bg"`
	ShowStackCounts      bool          `json:"show_stack_counts"`
	FullWidthLetters     bool          `json:"fullwidth_letters"`
	Colors               ConfigColors  `json:"colors"`
	Symbols              ConfigSymbols `json:"symbols"`
}

// EngineConfig selects and tunes the best-move engine. Path starts a
// local subprocess; URL, when set, takes precedence and talks to a remote
// service instead.
type EngineConfig struct {
	Path             string `json:"path"`
	URL              string `json:"url"`
	FallbackOnCold   bool   `json:"fallback_on_cold"`
	WarmupTimeoutSec int    `json:"warmup_timeout_sec"`
}

type Config struct {
	Theme    Theme        `json:"theme"`
	Engine   EngineConfig `json:"engine"`
	DebugLog string       `json:"debug_log"`
}

// envOverrides beat both defaults and the config file.
type envOverrides struct {
	EnginePath string `env:"LASKAN_ENGINE_PATH"`
	EngineURL  string `env:"LASKAN_ENGINE_URL"`
	DebugLog   string `env:"LASKAN_DEBUG_LOG"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		readCfgFile(absPath, &config)
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, err
	}
	if ov.EnginePath != "" {
		config.Engine.Path = ov.EnginePath
	}
	if ov.EngineURL != "" {
		config.Engine.URL = ov.EngineURL
	}
	if ov.DebugLog != "" {
		config.DebugLog = ov.DebugLog
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Soldier, c.Theme.Symbols.Officer, c.Theme.Symbols.DarkSquare} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Engine.Path == "" && c.Engine.URL == "" {
		return &InvalidConfig{"either engine.path or engine.url must be set"}
	}
	return nil
}

func (c *Config) Save() {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		panic(err)
	}
	saveCfgFile(absPath, c, 0664)
}

// DebugLogPath resolves the debug log destination, defaulting into the
// XDG state directory.
func (c *Config) DebugLogPath() string {
	if c.DebugLog != "" {
		return c.DebugLog
	}
	return filepath.Join(xdg.StateHome, "laskan", "debug.log")
}

// ArchiveDir is where finished games are stored.
func ArchiveDir() string {
	return filepath.Join(xdg.DataHome, "laskan", "games")
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		panic(err)
	}
	err = os.WriteFile(filePath, jsonData, perm)
	if err != nil {
		panic(err)
	}
}

func readCfgFile(filePath string, a interface{}) {
	configReader, err := os.ReadFile(filePath)
	if err == nil {
		err = json.Unmarshal(configReader, &a)
		if err != nil {
			panic(err)
		}
	}
}
