package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/dxp-leaderboard/internal/cache"
	"github.com/pfrederiksen/dxp-leaderboard/internal/config"
	"github.com/pfrederiksen/dxp-leaderboard/internal/leaderboard"
	"github.com/pfrederiksen/dxp-leaderboard/internal/logger"
	"github.com/pfrederiksen/dxp-leaderboard/internal/notifier"
	"github.com/pfrederiksen/dxp-leaderboard/internal/roster"
	"github.com/pfrederiksen/dxp-leaderboard/internal/schedule"
	"github.com/pfrederiksen/dxp-leaderboard/internal/scraper"
	"github.com/pfrederiksen/dxp-leaderboard/internal/storage"
	"github.com/pfrederiksen/dxp-leaderboard/internal/tally"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Notifier kinds accepted by --notify.
const (
	NotifyNone     = "none"
	NotifyDryRun   = "dry-run"
	NotifyTelegram = "telegram"
	NotifyTwitter  = "twitter"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	cfgFile string
	dataDir string
	verbose bool
}

type options struct {
	*globalOptions

	format string
	sort   string
	strict bool
	teams  []string
	notify string
	save   bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	global := &globalOptions{}
	opts := &options{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "dxp-leaderboard",
		Short: "Tally Fruit Wars double-xp gains per team",
		Long: `A CLI tool that scrapes each player's double-xp gain from runeclan,
sums the gains per team and prints a leaderboard ready to paste into chat.
Running without a subcommand is the same as "run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&global.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/dxp-leaderboard/config.yaml)")
	pf.StringVar(&global.dataDir, "data-dir", "", "Directory for the saved leaderboard (overrides storage.data_dir)")
	pf.BoolVar(&global.verbose, "verbose", false, "Enable debug logging")

	addTallyFlags(cmd.Flags(), opts, NotifyNone)

	runOpts := &options{globalOptions: global}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape every player and print the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(cmd, runOpts)
		},
	}
	addTallyFlags(runCmd.Flags(), runOpts, NotifyNone)

	watchOpts := &options{globalOptions: global}
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Post the leaderboard at the top of every hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, watchOpts)
		},
	}
	addTallyFlags(watchCmd.Flags(), watchOpts, NotifyDryRun)

	showOpts := &options{globalOptions: global}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the last saved leaderboard without scraping",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, showOpts)
		},
	}
	showCmd.Flags().StringVar(&showOpts.format, "format", "text", "Output format: text or json")
	showCmd.Flags().StringVar(&showOpts.sort, "sort", string(SortByRoster), "Team order: roster or total")

	teamsOpts := &options{globalOptions: global}
	teamsCmd := &cobra.Command{
		Use:   "teams",
		Short: "List the configured teams and players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTeams(cmd, teamsOpts)
		},
	}

	cmd.AddCommand(runCmd, watchCmd, showCmd, teamsCmd)
	return cmd
}

func addTallyFlags(fs *pflag.FlagSet, opts *options, defaultNotify string) {
	fs.StringVar(&opts.format, "format", "text", "Output format: text or json")
	fs.StringVar(&opts.sort, "sort", string(SortByRoster), "Team order: roster or total")
	fs.BoolVar(&opts.strict, "strict", false, "Abort when a player page cannot be fetched instead of counting 0")
	fs.StringSliceVar(&opts.teams, "team", nil, "Only tally these teams (repeatable)")
	fs.StringVar(&opts.notify, "notify", defaultNotify, "Also post to: none, dry-run, telegram or twitter")
	fs.BoolVar(&opts.save, "save", false, "Save the leaderboard to the data directory")
}

// loadConfig reads configuration and points the default logger at stderr.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	v := viper.New()
	if err := config.Init(v, opts.cfgFile); err != nil {
		return nil, err
	}
	if opts.dataDir != "" {
		v.Set("storage.data_dir", opts.dataDir)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	level, _ := logger.ParseLevel(cfg.Logging.Level)
	if opts.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	return cfg, nil
}

// runLeaderboard is the main command logic
func runLeaderboard(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(opts.sort)
	if err != nil {
		return err
	}
	// A dry-run post replaces the text board on stdout; JSON output keeps
	// stdout to itself.
	notifyOut := cmd.OutOrStdout()
	if format == FormatJSON {
		notifyOut = cmd.ErrOrStderr()
	}
	n, err := newNotifier(opts.notify, cfg, notifyOut)
	if err != nil {
		return err
	}
	_, dryRun := n.(*notifier.DryRunNotifier)

	ctx := cmd.Context()
	board, err := collect(ctx, cfg, opts, order)
	if err != nil {
		return err
	}

	if !dryRun || format != FormatText {
		if err := WriteOutput(cmd.OutOrStdout(), board, format); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if n != nil {
		if err := n.Notify(ctx, board); err != nil {
			return fmt.Errorf("posting leaderboard: %w", err)
		}
	}
	return nil
}

// runWatch posts a fresh leaderboard on the hourly schedule until interrupted.
func runWatch(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	order, err := parseSortOrder(opts.sort)
	if err != nil {
		return err
	}
	n, err := newNotifier(opts.notify, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("watch needs a notifier (--notify dry-run, telegram or twitter)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := func(ctx context.Context) error {
		logger.Info("Auto-posting dxp results", nil)
		board, err := collect(ctx, cfg, opts, order)
		if err != nil {
			return err
		}
		return n.Notify(ctx, board)
	}

	err = schedule.New(cfg.Schedule.Interval).Run(ctx, job)
	if errors.Is(err, context.Canceled) {
		logger.Info("Stopped watching", nil)
		return nil
	}
	return err
}

// runShow prints the last saved leaderboard
func runShow(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(opts.sort)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	board, err := store.LoadBoard()
	if err != nil {
		return fmt.Errorf("loading leaderboard: %w", err)
	}

	out := cmd.OutOrStdout()
	if board.Empty() {
		fmt.Fprintln(out, "No saved leaderboard. Run with --save first.")
		return nil
	}

	board.Results = sortResults(board.Results, order)
	if format == FormatText {
		fmt.Fprintln(out, notifier.Header(board.CheckedAt))
	}
	return WriteOutput(out, board, format)
}

// runTeams lists the rosters
func runTeams(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, team := range cfg.Teams {
		fmt.Fprintf(out, "%s (%d): %s\n", team.Name, len(team.Players), strings.Join(team.Players, ", "))
	}
	return nil
}

// collect scrapes and tallies the selected teams and optionally saves the board.
func collect(ctx context.Context, cfg *config.Config, opts *options, order SortOrder) (*leaderboard.Board, error) {
	start := time.Now()
	logger.DefaultMetrics().Reset()

	teams, err := roster.Select(cfg.Teams, opts.teams)
	if err != nil {
		return nil, err
	}

	lookup, closeLookup := newLookup(ctx, cfg)
	defer closeLookup()

	logger.Info("Tallying teams", logger.Fields{"teams": len(teams), "strict": opts.strict})

	results, err := tally.TallyAll(ctx, teams, lookup, tally.Options{Strict: opts.strict})
	if err != nil {
		return nil, fmt.Errorf("tallying teams: %w", err)
	}
	reportMissing(results)

	board := leaderboard.NewBoard(sortResults(results, order), time.Now())

	if opts.save {
		store, err := storage.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		if err := store.SaveBoard(board); err != nil {
			return nil, fmt.Errorf("saving leaderboard: %w", err)
		}
		logger.Debug("Saved leaderboard", logger.Fields{"path": store.Path()})
	}

	fields := logger.DefaultMetrics().Fields()
	fields["duration"] = time.Since(start).Round(time.Millisecond).String()
	logger.Info("Run complete", fields)

	return board, nil
}

// newLookup builds the scraper lookup, fronted by Redis when a cache URL is configured.
// An unreachable cache is logged and skipped.
func newLookup(ctx context.Context, cfg *config.Config) (tally.LookupFunc, func()) {
	var lookup tally.LookupFunc = scraper.New(cfg.ScraperOptions()).FetchXP
	if cfg.Cache.RedisURL == "" {
		return lookup, func() {}
	}

	store, err := cache.NewRedisStore(ctx, cfg.Cache.RedisURL)
	if err != nil {
		logger.Warn("Lookup cache unavailable, scraping every player", logger.Fields{"error": err.Error()})
		return lookup, func() {}
	}
	return cache.Cached(store, lookup, cfg.Cache.TTL), func() { store.Close() }
}

// reportMissing logs every player who counted as zero.
func reportMissing(results []tally.TeamResult) {
	for _, r := range results {
		for _, p := range r.Ranked {
			if p.Found {
				continue
			}
			fields := logger.Fields{"player": p.Name, "team": r.Team}
			if p.Err != nil {
				fields["error"] = p.Err.Error()
				logger.Warn("Could not read xp, counting 0", fields)
				continue
			}
			logger.Warn("No xp element found, they probably have 0 xp", fields)
		}
	}
}

// newNotifier returns nil for "none".
func newNotifier(kind string, cfg *config.Config, out io.Writer) (notifier.Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", NotifyNone:
		return nil, nil
	case NotifyDryRun:
		return notifier.NewDryRunNotifier(out), nil
	case NotifyTelegram:
		n, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("initializing telegram: %w", err)
		}
		return n, nil
	case NotifyTwitter:
		n, err := notifier.NewTwitterNotifier()
		if err != nil {
			return nil, fmt.Errorf("initializing twitter: %w", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("invalid notify: %s (must be none, dry-run, telegram or twitter)", kind)
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
