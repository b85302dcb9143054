package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"mystravastats/internal/analysis"
	"mystravastats/internal/config"
	"mystravastats/internal/display"
	"mystravastats/internal/logging"
	"mystravastats/internal/service"
	"mystravastats/internal/store"
	"mystravastats/internal/strava"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mystravastats",
		Short:         "Best efforts, slopes and Eddington statistics from your Strava activities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logging.Init(opts.debug)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			logging.Sync()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.mystravastats/config.yaml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "verbose development logging")

	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newSyncCmd(opts))
	root.AddCommand(newEffortsCmd(opts))
	root.AddCommand(newSlopesCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	return root
}

// app is what every command needs once the config is loaded
type app struct {
	cfg   *config.Config
	store *store.Store
	units display.Units
}

func openApp(opts *rootOptions, needCredentials bool) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if errors.Is(err, config.ErrNoConfig) {
		return nil, errors.New("no config file found, run `mystravastats init` first")
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if needCredentials {
		err = cfg.Validate()
	} else {
		err = cfg.ValidateAnalysis()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &app{cfg: cfg, store: st, units: display.NewUnits(cfg.Display)}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logging.Warnw("closing database", "error", err)
	}
}

func (a *app) statistics() *service.StatisticsService {
	return service.NewStatisticsService(a.store, service.StatisticsOptions{
		Rule:                 a.cfg.SelectionRule(),
		Segmenter:            a.cfg.SegmenterConfig(),
		Workers:              a.cfg.Analysis.Workers,
		StreakIncludeLastDay: a.cfg.Analysis.StreakIncludeLastDay,
	})
}

func (a *app) tokenSource(ctx context.Context) oauth2.TokenSource {
	return strava.TokenSource(ctx,
		strava.OAuthConfig(a.cfg.Strava.ClientID, a.cfg.Strava.ClientSecret),
		a.cfg.Strava.AccessToken, a.cfg.Strava.RefreshToken)
}

// saveRotatedToken writes back a refresh token Strava replaced during the run
func (a *app) saveRotatedToken(ts oauth2.TokenSource, configPath string) {
	tok, err := ts.Token()
	if err != nil || tok.RefreshToken == "" || tok.RefreshToken == a.cfg.Strava.RefreshToken {
		return
	}
	a.cfg.Strava.AccessToken = tok.AccessToken
	a.cfg.Strava.RefreshToken = tok.RefreshToken
	if err := config.Save(configPath, a.cfg); err != nil {
		logging.Warnw("saving refreshed token", "error", err)
		return
	}
	logging.Debugw("saved rotated refresh token")
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an example config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			created, err := config.CreateExample(path)
			if err != nil {
				return fmt.Errorf("creating example config: %w", err)
			}
			out := cmd.OutOrStdout()
			if !created {
				_, _ = fmt.Fprintf(out, "Config already exists at %s\n", path)
				return nil
			}
			_, _ = fmt.Fprintf(out, "Created %s\n\n", path)
			_, _ = fmt.Fprintln(out, "Add your Strava API client id, secret and refresh token to it, then run `mystravastats sync`.")
			_, _ = fmt.Fprintln(out, "Get them from: https://www.strava.com/settings/api")
			return nil
		},
	}
}

func newSyncCmd(opts *rootOptions) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download new activities and streams, then update best efforts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.Strava.RefreshToken == "" {
				return errors.New("strava.refresh_token is required to sync, see https://developers.strava.com/docs/authentication/")
			}
			ts := a.tokenSource(cmd.Context())
			defer a.saveRotatedToken(ts, opts.configPath)

			svc := service.NewSyncService(strava.NewClient(ts), a.store, a.cfg.SelectionRule())

			out := cmd.OutOrStdout()
			printer := display.NewProgressPrinter(out, !plain && isTerminal(out))

			updates := make(chan service.SyncProgress, 16)
			var result *service.SyncResult
			var syncErr error
			done := make(chan struct{})
			go func() {
				defer close(done)
				result, syncErr = svc.SyncAll(cmd.Context(), updates)
			}()

			for p := range updates {
				printer.Print(p)
			}
			<-done
			printer.Finish()

			_, _ = fmt.Fprintln(out, display.RenderSyncSummary(result, syncErr))
			return syncErr
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print one line per phase instead of a live progress bar")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func newEffortsCmd(opts *rootOptions) *cobra.Command {
	var activityType string
	var cached bool
	cmd := &cobra.Command{
		Use:   "efforts",
		Short: "Compute the best efforts for an activity type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := a.statistics()
			if cached {
				efforts, err := svc.CachedEfforts(cmd.Context(), activityType)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), display.RenderCachedEfforts(activityType, efforts, a.units))
				return nil
			}

			report, err := svc.Efforts(cmd.Context(), activityType)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), display.RenderEfforts(report, a.units))
			return nil
		},
	}
	cmd.Flags().StringVar(&activityType, "type", analysis.Ride, "Strava activity type, e.g. Run, Ride, VirtualRide, Hike")
	cmd.Flags().BoolVar(&cached, "cached", false, "show the stored best efforts without recomputing")
	return cmd
}

func newSlopesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slopes <activity-id>",
		Short: "Split one activity into ascents, descents and plateaus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid activity id %q: %w", args[0], err)
			}

			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.statistics().Slopes(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), display.RenderSlopes(report, a.units))
			return nil
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var activityType string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals, Eddington number and streaks for an activity type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.statistics().Aggregates(cmd.Context(), activityType)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), display.RenderAggregates(report, a.units))
			return nil
		},
	}
	cmd.Flags().StringVar(&activityType, "type", analysis.Ride, "Strava activity type")
	return cmd
}
