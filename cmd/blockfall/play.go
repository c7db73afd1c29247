package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/audio"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var flagSound bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game in the terminal.

Controls:
  Left/H, Right/L   - Move
  Down/J            - Soft drop
  Up/X, Z           - Rotate clockwise, counter-clockwise
  Space             - Hard drop
  P/Esc             - Pause
  R                 - New game
  M                 - Toggle sound
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Gravity every 1000ms
  normal - Gravity every 800ms
  hard   - Gravity every 500ms

Examples:
  blockfall play
  blockfall play --seed 42
  blockfall play --difficulty hard
  blockfall play --config ./my-blockfall.yaml --log ./blockfall.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Enable sound effects")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cmd.Flags().Changed("sound") {
		cfg.Sound.Enabled = flagSound
	}

	logger, closeLog, err := fileLogger("blockfall")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	var player *audio.Player
	if cfg.Sound.Enabled {
		player = audio.NewPlayer(true, cfg.Sound.Volume, logger)
		if err := player.Init(); err != nil {
			player = nil
		}
	}

	opts := tui.Options{
		Game: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Store:     store,
		Logger:    logger,
		FixedSeed: flagSeed != 0,
	}
	if player != nil {
		opts.Player = player
	}
	runErr := tui.Run(opts)

	if player != nil {
		player.Close()
	}
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
