package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/engine"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagLimit  int
	flagBrowse bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List saved replays",
	Long: `Display saved replays, most recent first.

Examples:
  blockfall replays
  blockfall replays --limit 5
  blockfall replays --browse
  blockfall replays rm 3f2a9c1e`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

var replaysRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved replay",
	Args:  cobra.ExactArgs(1),
	Run:   runReplaysRm,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-run a saved replay and print the final field",
	Long: `Rebuild a saved game from its seed and action journal, then print the
final field. The ID may be shortened to any unique prefix.

Examples:
  blockfall replay 3f2a9c1e`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of replays to show")
	replaysCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Pick a replay interactively")
	replaysCmd.AddCommand(replaysRmCmd)
}

func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening replay database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runReplays(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	if flagBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		rec, err := tui.RunReplayBrowser(store, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if rec != nil {
			printReplay(rec)
		}
		return
	}

	replays, err := store.RecentReplays(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving replays: %v\n", err)
		os.Exit(1)
	}

	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'blockfall play' to record one!")
		return
	}

	fmt.Printf("  %-8s  %-5s  %-9s  %-20s  %s\n", "ID", "Lines", "Result", "Seed", "Date")
	fmt.Printf("  %-8s  %-5s  %-9s  %-20s  %s\n", "--", "-----", "------", "----", "----")
	for _, r := range replays {
		result := "quit"
		if r.GameOver {
			result = "game over"
		}
		fmt.Printf("  %-8s  %-5d  %-9s  %-20d  %s\n",
			r.ID.String()[:8], r.Lines, result, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.Stats(); err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Total: %d lines\n", stats.Games, stats.TotalLines)
	}
}

func runReplaysRm(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	rec := findReplay(store, args[0])
	if err := store.DeleteReplay(rec.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted replay %s\n", rec.ID)
}

func runReplay(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	printReplay(findReplay(store, args[0]))
}

// findReplay resolves an ID prefix or exits with a message.
func findReplay(store *storage.Store, prefix string) *storage.ReplayRecord {
	rec, err := store.FindReplay(prefix)
	switch {
	case errors.Is(err, storage.ErrAmbiguousID):
		fmt.Fprintf(os.Stderr, "Error: %q matches more than one replay, use a longer prefix\n", prefix)
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	case rec == nil:
		fmt.Fprintf(os.Stderr, "Error: no replay matches %q\n", prefix)
		os.Exit(1)
	}
	return rec
}

// printReplay rebuilds a replay headlessly and prints the final field.
func printReplay(rec *storage.ReplayRecord) {
	ctrl, err := engine.ReplayEncoded(engine.Options{
		Width:      rec.Width,
		Height:     rec.Height,
		Seed:       rec.Seed,
		Randomizer: rec.Randomizer,
	}, rec.Actions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying %s: %v\n", rec.ID, err)
		os.Exit(1)
	}

	snap := ctrl.Snapshot()
	fmt.Printf("Replay %s (%s, seed %d, %s)\n", rec.ID, rec.Session, rec.Seed, rec.Randomizer)
	fmt.Println()
	fmt.Println(ctrl.String())
	fmt.Println()
	fmt.Printf("Lines: %d  State: %s  Next: %s  Actions: %d\n",
		snap.ClearedLines, snap.State, snap.NextKind, len(ctrl.Journal()))
	if snap.ClearedLines != rec.Lines || ctrl.IsOver() != rec.GameOver {
		fmt.Fprintf(os.Stderr, "Warning: replay diverged from the recorded result (%d lines, over=%v)\n",
			rec.Lines, rec.GameOver)
	}
}
