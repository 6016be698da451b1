// laskan is a terminal application to play Lasca against an external
// best-move engine.
package main

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"laskan/bot"
	"laskan/config"
	"laskan/engine"
	"laskan/engine/remote"
	"laskan/engine/uci"
	"laskan/record"
	"laskan/rules"
	"laskan/types"
	"laskan/ui"
)

// Version is stamped by the release build.
var Version = "dev"

var (
	flagEngine     = flag.String("engine", "", "Path to the engine binary")
	flagURL        = flag.String("url", "", "Base URL of a remote engine service")
	flagWhite      = flag.String("white", "", "White player (human, beginner, intermediate, strong)")
	flagBlack      = flag.String("black", "", "Black player (human, beginner, intermediate, strong)")
	flagFallback   = flag.Bool("fallback-warmup", false, "Play heuristic moves while the engine warms up")
	flagDebugLog   = flag.String("debuglog", "", "Debug log file path")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with saved settings")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var gameFrame *tview.Flex
var gamePanel *ui.GameInfoPanel
var gameHint *tview.TextView
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("laskan %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		panic(err)
	}
	if *flagEngine != "" {
		cfg.Engine.Path = *flagEngine
	}
	if *flagURL != "" {
		cfg.Engine.URL = *flagURL
	}
	if *flagDebugLog != "" {
		cfg.DebugLog = *flagDebugLog
	}

	logger, err := buildLogger(cfg.DebugLogPath())
	if err != nil {
		fmt.Printf("Failed to open debug log: %s\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// A local engine must be on disk before the UI starts.
	if cfg.Engine.URL == "" {
		if err := checkEngine(); err != nil {
			fmt.Printf("Error: engine %q not found.\n", cfg.Engine.Path)
			fmt.Println("Point laskan at a best-move engine:")
			fmt.Println("  laskan -engine /path/to/engine")
			fmt.Println("  laskan -url http://host:port")
			fmt.Println("or set LASKAN_ENGINE_PATH / LASKAN_ENGINE_URL.")
			return
		}
	}

	var eng engine.Client
	if cfg.Engine.URL != "" {
		eng = remote.New(cfg.Engine.URL, logger)
	} else {
		eng = uci.New(cfg.Engine.Path, nil, logger)
	}
	defer eng.Close()

	game := rules.NewGame()
	store := config.NewStateStore()

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⬡ laskan ")

	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoard(app, cfg, game, gameHint)
	gameFrame, gamePanel = ui.CreateGameLayout(gameBoard, gameHint)

	notifier := ui.NewNotifier(app, gameBoard, gamePanel)

	orch := bot.New(bot.Config{
		Game:                      game,
		Engine:                    eng,
		Settings:                  store,
		Adaptive:                  config.AdaptiveView{Store: store},
		Notifier:                  notifier,
		Log:                       logger,
		Seed:                      cryptoSeed(),
		AllowFallbackDuringWarmup: *flagFallback || cfg.Engine.FallbackOnCold,
		WarmupTimeout:             time.Duration(cfg.Engine.WarmupTimeoutSec) * time.Second,
		Archive:                   archiveGame(game, store, logger),
	})

	// Flag overrides for the players apply before the loop starts.
	if *flagWhite != "" || *flagBlack != "" {
		settings := orch.CurrentSettings()
		white, black := settings.White, settings.Black
		if *flagWhite != "" {
			white = bot.ParsePlayer(*flagWhite)
		}
		if *flagBlack != "" {
			black = bot.ParsePlayer(*flagBlack)
		}
		orch.Configure(white, black)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orch.Run(ctx)

	// Arrow keys and their vim equivalents share one routing table.
	cursorKeys := map[tcell.Key][2]int{
		tcell.KeyUp: {0, 1}, tcell.KeyDown: {0, -1},
		tcell.KeyLeft: {-1, 0}, tcell.KeyRight: {1, 0},
	}
	vimKeys := map[rune][2]int{
		'k': {0, 1}, 'j': {0, -1}, 'h': {-1, 0}, 'l': {1, 0},
	}
	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if !gameBoard.ResetSelection() {
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		if d, ok := cursorKeys[event.Key()]; ok {
			gameBoard.MoveSelection(d[0], d[1])
			return event
		}
		switch event.Key() {
		case tcell.KeyEnter:
			gameBoard.Activate()
		case tcell.KeyDelete:
			game.Redo()
		case tcell.KeyRune:
			if d, ok := vimKeys[event.Rune()]; ok {
				gameBoard.MoveSelection(d[0], d[1])
				return event
			}
			switch event.Rune() {
			case 'u':
				gameBoard.ClearLastMove()
				game.Undo()
			case 'r':
				game.Redo()
			case ' ':
				if !notifier.Activate() {
					orch.TogglePause()
				}
			case 'n':
				gameBoard.ClearLastMove()
				game.Reset()
			case 'E':
				orch.ResetEngine()
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gamePanel, gameHint)
				}
			}
		}
		return event
	})

	settings := orch.CurrentSettings()
	setupUI := ui.NewGameSetup(settings, ui.SetupHooks{
		OnStart: func(white, black bot.Player) {
			orch.Configure(white, black)
			gameBoard.ClearLastMove()
			game.Reset()
			rootPage.SwitchToPage("gameview")
		},
		OnHistory: func() {
			rootPage.SwitchToPage("history")
		},
		OnColors: func() {
			rootPage.SwitchToPage("colors")
		},
		OnCancel: func() {
			app.Stop()
		},
		Sublevel:    orch.AppliedSublevel,
		SetSublevel: orch.SetSublevel,
	})
	setupUI.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'q':
				app.Stop()
				return nil
			case 'R':
				orch.ResetLearning()
				setupUI.RefreshGauge()
				return nil
			}
		}
		return event
	})
	setupScreen := ui.CreateCenteredForm(setupUI, 48)

	// Esc or q leaves the color editor, Tab flips which palette it edits.
	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	history := ui.NewHistoryBrowser(func() {
		rootPage.SwitchToPage("setup")
	})
	// Rescan the archive whenever the browser comes to the front.
	rootPage.SetChangedFunc(func() {
		name, _ := rootPage.GetFrontPage()
		if name == "history" {
			history.Refresh()
		}
	})

	quickStart := *flagQuickStart || *flagFocus || *flagWhite != "" || *flagBlack != ""

	rootPage.AddPage("setup", setupScreen, true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)
	rootPage.AddPage("history", history.Flex(), true, false)

	if quickStart && *flagFocus {
		gameBoard.SetFocusMode(true)
		ui.BuildFocusLayout(gameFrame, gameBoard)
	}
	gameBoard.RefreshHint()

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		panic(err)
	}
}

// archiveGame returns the orchestrator's game-over hook: it writes the
// finished game into the archive directory.
func archiveGame(game *rules.Game, store *config.StateStore, logger *zap.Logger) func(winner types.Color, draw bool) {
	return func(winner types.Color, draw bool) {
		botCfg, _ := store.Load()

		result := "draw"
		switch winner {
		case types.White:
			result = "white"
		case types.Black:
			result = "black"
		}
		info := record.GameInfo{
			White:  string(botCfg.White),
			Black:  string(botCfg.Black),
			Result: result,
		}
		path, err := record.Save(config.ArchiveDir(), info, game.Moves())
		if err != nil {
			logger.Warn("archive save failed", zap.Error(err))
			return
		}
		logger.Info("game archived", zap.String("path", path))
	}
}

// buildLogger writes structured JSON logs to a file so the TUI screen
// stays clean.
func buildLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}

// checkEngine verifies that the engine binary is accessible.
func checkEngine() error {
	path := cfg.Engine.Path
	if path == "" {
		path = "laskad"
	}
	_, err := exec.LookPath(path)
	return err
}

// cryptoSeed produces a random seed for the fallback heuristic.
func cryptoSeed() int64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
