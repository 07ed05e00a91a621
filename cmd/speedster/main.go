// Package main provides the CLI entrypoint for speedster.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/speedster/internal/config"
	"github.com/verte-zerg/speedster/internal/model"
	"github.com/verte-zerg/speedster/internal/scramble"
	"github.com/verte-zerg/speedster/internal/sound"
	"github.com/verte-zerg/speedster/internal/stats"
	"github.com/verte-zerg/speedster/internal/statsui"
	"github.com/verte-zerg/speedster/internal/store"
	"github.com/verte-zerg/speedster/internal/timer"
	"github.com/verte-zerg/speedster/internal/tui"
)

const dateLayout = "2006-01-02"

var (
	dbPath    string
	debugPath string
	debugFile *os.File

	timerCountdown      int
	timerSampleInterval int
	timerScrambleLength int
	timerSound          bool
	timerWindow         int

	statsSince  string
	statsLast   int
	statsWindow int
	statsDate   string
	statsPlain  bool

	solvesDate    string
	clearYes      bool
	scrambleCount int
	scrambleCheck string
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	closeDebugLog()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "speedster",
		Short:             "Terminal speedcubing timer",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupLogging,
		RunE:              runTimerCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the solve database (default: $XDG_DATA_HOME/speedster/speedster.db)")
	rootCmd.PersistentFlags().StringVar(&debugPath, "debug", "", "write debug log to this file")

	defaults := config.Defaults()
	rootCmd.Flags().IntVar(&timerCountdown, "countdown", defaults.Countdown, "countdown steps before timing starts")
	rootCmd.Flags().IntVar(&timerSampleInterval, "sample-interval-ms", int(defaults.SampleInterval/time.Millisecond), "running time refresh interval in milliseconds")
	rootCmd.Flags().IntVar(&timerScrambleLength, "scramble-length", defaults.ScrambleLength, "moves per scramble")
	rootCmd.Flags().BoolVar(&timerSound, "sound", defaults.Sound, "play a cue when timing starts")
	rootCmd.Flags().IntVar(&timerWindow, "average-window", defaults.AverageWindow, "solves in the trailing average")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSolvesCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newScrambleCmd())

	return rootCmd
}

// setupLogging routes the standard logger to the debug file, or discards it
// so nothing is written over a running TUI.
func setupLogging(_ *cobra.Command, _ []string) error {
	if debugPath == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(debugPath, "speedster")
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	debugFile = f
	return nil
}

func closeDebugLog() {
	if debugFile == nil {
		return
	}
	if err := debugFile.Close(); err != nil {
		logErrf("failed to close debug log: %v\n", err)
	}
}

func loadFileConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func resolveTimerConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	applyIntConfig(cmd, "countdown", &timerCountdown, fileCfg.Timer.Countdown)
	applyIntConfig(cmd, "sample-interval-ms", &timerSampleInterval, fileCfg.Timer.SampleIntervalMs)
	applyIntConfig(cmd, "scramble-length", &timerScrambleLength, fileCfg.Timer.ScrambleLength)
	applyBoolConfig(cmd, "sound", &timerSound, fileCfg.Timer.Sound)
	applyIntConfig(cmd, "average-window", &timerWindow, fileCfg.Timer.AverageWindow)

	cfg := model.Config{
		Countdown:      timerCountdown,
		SampleInterval: time.Duration(timerSampleInterval) * time.Millisecond,
		ScrambleLength: timerScrambleLength,
		Sound:          timerSound,
		AverageWindow:  timerWindow,
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func openStore() (*store.Store, func(), error) {
	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg, err := resolveTimerConfig(cmd, fileCfg)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	machine := timer.New(st, sound.New(cfg.Sound),
		timer.WithCountdown(cfg.Countdown, time.Second),
		timer.WithSampleInterval(cfg.SampleInterval),
		timer.WithWindow(cfg.AverageWindow),
		timer.WithGenerator(scramble.New().WithLength(cfg.ScrambleLength)),
	)
	log.Printf("timer started: countdown=%d window=%d sound=%t", cfg.Countdown, cfg.AverageWindow, cfg.Sound)

	program := tea.NewProgram(tui.NewModel(machine, st), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progression",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N solves")
	cmd.Flags().IntVar(&statsWindow, "window", stats.DefaultWindow, "rolling average window")
	cmd.Flags().StringVar(&statsDate, "date", "", "open the solve list on this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "window", &statsWindow, fileCfg.Stats.Window)
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	if statsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	since, err := parseDateFlag("--since", statsSince)
	if err != nil {
		return err
	}
	day, err := parseDateFlag("--date", statsDate)
	if err != nil {
		return err
	}
	cfg := model.StatsConfig{
		Since:  since,
		Last:   statsLast,
		Window: statsWindow,
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if statsPlain || !isTerminal(os.Stdout) {
		return printStats(cmd.OutOrStdout(), st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	if day != nil {
		m.ShowDay(*day)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(w io.Writer, st stats.Lister, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load solves: %w", err)
	}
	if err := stats.RenderSummary(w, report.Solves, cfg.Window); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(w, report.Solves, cfg.Window, 0, 0, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSolvesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solves",
		Short: "List recorded solves",
		Args:  cobra.NoArgs,
		RunE:  runSolvesCmd,
	}
	cmd.Flags().StringVar(&solvesDate, "date", "", "only solves from this day (YYYY-MM-DD)")
	return cmd
}

func runSolvesCmd(cmd *cobra.Command, _ []string) error {
	day, err := parseDateFlag("--date", solvesDate)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	solves, err := listSolves(context.Background(), st, day)
	if err != nil {
		return fmt.Errorf("failed to load solves: %w", err)
	}
	if err := stats.RenderSolveTable(cmd.OutOrStdout(), solves); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// listSolves returns solves oldest first, limited to one day when day is set.
func listSolves(ctx context.Context, st stats.Lister, day *time.Time) ([]model.Solve, error) {
	solves, err := st.ListSolves(ctx, day)
	if err != nil || day == nil {
		return solves, err
	}
	end := day.AddDate(0, 0, 1)
	out := solves[:0]
	for _, s := range solves {
		if s.Timestamp.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one solve",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.Delete(context.Background(), args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no solve with id %q", args[0])
		}
		return fmt.Errorf("failed to delete solve: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0]); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded solve",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVar(&clearYes, "yes", false, "confirm permanent deletion")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	n, err := st.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count solves: %w", err)
	}
	if n == 0 {
		logErrln("No solves to delete.")
		return nil
	}
	if !clearYes {
		logErrf("This will permanently delete all %d solve(s). Re-run with --yes to confirm.\n", n)
		return fmt.Errorf("refusing to delete without --yes")
	}
	if err := st.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete solves: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d solve(s)\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newScrambleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scramble",
		Short: "Print scrambles",
		Args:  cobra.NoArgs,
		RunE:  runScrambleCmd,
	}
	cmd.Flags().IntVar(&scrambleCount, "count", 1, "number of scrambles")
	cmd.Flags().IntVar(&timerScrambleLength, "length", config.Defaults().ScrambleLength, "moves per scramble")
	cmd.Flags().StringVar(&scrambleCheck, "check", "", "validate a scramble instead of generating one")
	return cmd
}

func runScrambleCmd(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("check") {
		return checkScramble(cmd.OutOrStdout(), scrambleCheck)
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "length", &timerScrambleLength, fileCfg.Timer.ScrambleLength)
	if scrambleCount < 1 {
		return fmt.Errorf("--count must be >= 1")
	}
	if timerScrambleLength < 1 {
		return fmt.Errorf("--length must be >= 1")
	}
	gen := scramble.New().WithLength(timerScrambleLength)
	for i := 0; i < scrambleCount; i++ {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), gen.String()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// checkScramble parses notation such as "R U' F2" and rejects sequences
// that turn the same face or axis twice in a row.
func checkScramble(w io.Writer, notation string) error {
	moves, err := scramble.Parse(notation)
	if err != nil {
		return fmt.Errorf("invalid scramble: %w", err)
	}
	if len(moves) == 0 {
		return fmt.Errorf("invalid scramble: no moves")
	}
	if !scramble.Valid(moves) {
		return fmt.Errorf("invalid scramble: consecutive moves turn the same axis")
	}
	if _, err := fmt.Fprintf(w, "%s (%d moves)\n", scramble.Format(moves), len(moves)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", name, err)
	}
	return &parsed, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
