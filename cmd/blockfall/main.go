// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall play            - Play a game
//	blockfall serve           - Start SSH server for remote play
//	blockfall replays         - List saved replays
//	blockfall replay <id>     - Re-run a saved replay and print the result
//
// Global flags:
//
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--config <path>       - Use a custom YAML config
//	--difficulty <name>   - Gravity preset: easy, normal, hard
//	--db <path>           - Set database path (default: ~/.blockfall/replays.db)
//	--log <path>          - Write debug logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/logging"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagLogPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "blockfall - falling blocks in your terminal",
	Long: `blockfall is a terminal falling-block puzzle game. Every game is
recorded as a replay that can be re-run deterministically from its seed.

Available commands:
  play     - Play a game
  serve    - Start SSH server for remote play
  replays  - List saved replays
  replay   - Re-run a saved replay

Examples:
  blockfall play
  blockfall play --difficulty hard --sound
  blockfall serve --ssh :2222
  blockfall replays --browse
  blockfall replay 3f2a9c1e`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Driver frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/replays.db", "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write debug logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig loads the YAML config and applies the difficulty preset.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty)); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// fileLogger opens the --log file. Without it, logs are discarded. The
// returned close function is never nil.
func fileLogger(prefix string) (*log.Logger, func(), error) {
	if flagLogPath == "" {
		return logging.Discard(), func() {}, nil
	}
	logger, f, err := logging.OpenFile(flagLogPath, prefix)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}
