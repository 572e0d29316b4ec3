package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/routineland/routine/internal/api"
	"github.com/routineland/routine/internal/backup"
	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/goals"
	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/internal/remind"
	"github.com/routineland/routine/internal/stats"
	"github.com/routineland/routine/internal/store"
	"github.com/routineland/routine/internal/ui"
)

var (
	dbPath     string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routine",
		Short: "Personal goal tracker with daily, weekly, monthly and yearly goals",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default ~/.config/routine/routine.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/routine/config.yaml)")

	rootCmd.AddCommand(uiCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(doneCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(backupCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(remindersCmd())
	rootCmd.AddCommand(remindCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadAppConfig resolves the config file and database path from flags.
func loadAppConfig() (*model.AppConfig, error) {
	path := configPath
	if path == "" {
		path = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Materialize the default config on first run so users have a file to
	// edit.
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if saveErr := model.SaveConfig(path, cfg); saveErr != nil {
			slog.Warn("writing default config failed", "path", path, "error", saveErr)
		}
	}

	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = model.DefaultDBPath()
	}

	return cfg, nil
}

// openStore opens the SQLite store, creating its directory if needed.
func openStore(cfg *model.AppConfig) (*store.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}
	return store.NewSQLiteStore(cfg.DBPath)
}

// withStore runs fn with an open store and service, closing on return.
func withStore(fn func(cfg *model.AppConfig, st *store.SQLiteStore, svc *goals.Service) error) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(cfg, st, goals.NewService(st))
}

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive goal screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *model.AppConfig, st *store.SQLiteStore, svc *goals.Service) error {
				p := tea.NewProgram(ui.New(svc, st), tea.WithAltScreen())
				_, err := p.Run()
				return err
			})
		},
	}
}

func addCmd() *cobra.Command {
	var (
		timeframe string
		category  string
		startAt   string
		duration  float64
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !model.IsTimeframe(timeframe) {
				return fmt.Errorf("timeframe must be daily, weekly, monthly or yearly")
			}

			return withStore(func(_ *model.AppConfig, _ *store.SQLiteStore, svc *goals.Service) error {
				tf := model.Timeframe(timeframe)

				if startAt == "" {
					startAt = dateutil.FormatDate(time.Now()) + "T09:00"
				}
				if !cmd.Flags().Changed("duration") {
					duration = model.PolicyFor(tf).DefaultValue
				}

				goal, err := svc.Add(context.Background(), goals.AddParams{
					Timeframe:     tf,
					Title:         strings.Join(args, " "),
					CategoryID:    category,
					StartAt:       startAt,
					DurationValue: duration,
				})
				if err != nil {
					return err
				}

				fmt.Printf("added %s goal %s (%s → %s)\n", goal.Timeframe, goal.ID, goal.StartAt, goal.EndAt)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "daily", "daily, weekly, monthly or yearly")
	cmd.Flags().StringVarP(&category, "category", "c", model.CategoryOther, "category id")
	cmd.Flags().StringVarP(&startAt, "start", "s", "", "start as YYYY-MM-DDTHH:MM (default today 09:00)")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "duration in the timeframe's unit")

	return cmd
}

func listCmd() *cobra.Command {
	var (
		timeframe string
		category  string
		query     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !model.IsTimeframe(timeframe) {
				return fmt.Errorf("timeframe must be daily, weekly, monthly or yearly")
			}

			return withStore(func(_ *model.AppConfig, _ *store.SQLiteStore, svc *goals.Service) error {
				groups, err := svc.List(context.Background(), goals.ListFilter{
					Timeframe: model.Timeframe(timeframe),
					Category:  category,
					Query:     query,
				})
				if err != nil {
					return err
				}

				if len(groups) == 0 {
					fmt.Println("no goals")
					return nil
				}

				now := svc.Now()
				for _, group := range groups {
					fmt.Printf("%s\n", group.Category.DisplayName)
					for _, g := range group.Goals {
						marker := " "
						switch stats.LiveStatus(now, g) {
						case model.StatusDone:
							marker = "x"
						case model.StatusFuture:
							marker = "~"
						}
						fmt.Printf("  [%s] %s  %s → %s  (%s)\n", marker, g.Title, g.StartAt, g.EndAt, g.ID)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "daily", "daily, weekly, monthly or yearly")
	cmd.Flags().StringVarP(&category, "category", "c", model.CategoryFilterAll, "category id or 'all'")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search title and description")

	return cmd
}

func editCmd() *cobra.Command {
	var (
		title    string
		category string
		startAt  string
		duration float64
	)

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *model.AppConfig, st *store.SQLiteStore, svc *goals.Service) error {
				ctx := context.Background()

				state, err := svc.State(ctx)
				if err != nil {
					return err
				}
				var current *model.Goal
				for i := range state.Goals {
					if state.Goals[i].ID == args[0] {
						current = &state.Goals[i]
						break
					}
				}
				if current == nil {
					return goals.ErrNotFound
				}

				// Unchanged flags keep the stored values.
				if !cmd.Flags().Changed("title") {
					title = current.Title
				}
				if !cmd.Flags().Changed("category") {
					category = current.CategoryID
				}
				if !cmd.Flags().Changed("start") {
					startAt = current.StartAt
				}
				if !cmd.Flags().Changed("duration") {
					duration = current.DurationValue
				}

				goal, err := svc.Edit(ctx, args[0], goals.EditParams{
					Title:         title,
					CategoryID:    category,
					StartAt:       startAt,
					DurationValue: duration,
				})
				if err != nil {
					return err
				}

				fmt.Printf("updated %s (%s → %s)\n", goal.ID, goal.StartAt, goal.EndAt)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category id")
	cmd.Flags().StringVarP(&startAt, "start", "s", "", "new start as YYYY-MM-DDTHH:MM")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "new duration in the timeframe's unit")

	return cmd
}

func doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle a goal between done and in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *model.AppConfig, _ *store.SQLiteStore, svc *goals.Service) error {
				goal, err := svc.ToggleDone(context.Background(), args[0])
				if err != nil {
					return err
				}
				if goal.Status == model.StatusDone {
					fmt.Printf("done: %s\n", goal.Title)
				} else {
					fmt.Printf("reopened: %s\n", goal.Title)
				}
				return nil
			})
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *model.AppConfig, _ *store.SQLiteStore, svc *goals.Service) error {
				if err := svc.Remove(context.Background(), args[0]); err != nil {
					return err
				}
				fmt.Println("deleted")
				return nil
			})
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *model.AppConfig, _ *store.SQLiteStore, svc *goals.Service) error {
				state, err := svc.State(context.Background())
				if err != nil {
					return err
				}

				now := svc.Now()
				home := stats.ComputeHomeStats(now, state.Goals)
				totals := stats.ComputeTotals(now, state.Goals)

				fmt.Printf("done today:     %d\n", home.DoneToday)
				fmt.Printf("done this week: %d\n", home.DoneThisWeek)
				fmt.Printf("streak:         %d days\n", home.StreakDays)
				fmt.Printf("overall:        %d/%d (%d%%)\n", totals.Done, totals.All, totals.Percent)

				for _, tf := range model.Timeframes {
					st := stats.ComputeTimeframeStats(now, state.Goals, tf)
					fmt.Printf("%-8s open %d, done %d\n", tf, st.Open, st.Done)
				}
				return nil
			})
		},
	}
}

func backupCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export state and preferences to a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *model.AppConfig, st *store.SQLiteStore, _ *goals.Service) error {
				now := time.Now()
				doc, err := backup.Build(context.Background(), st, now)
				if err != nil {
					return err
				}

				data, err := backup.Encode(doc)
				if err != nil {
					return err
				}

				if output == "" {
					output = backup.Filename(now)
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("writing backup: %w", err)
				}

				fmt.Printf("wrote %s (%d goals)\n", output, len(doc.State.Goals))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default routineland-backup-<date>.json)")

	return cmd
}

func restoreCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Replace all state and preferences with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}

			doc, err := backup.Parse(text)
			if err != nil {
				return err
			}

			if !yes {
				return fmt.Errorf("restore replaces all current goals; re-run with --yes to confirm")
			}

			return withStore(func(_ *model.AppConfig, st *store.SQLiteStore, _ *goals.Service) error {
				if err := backup.Restore(context.Background(), st, doc); err != nil {
					return err
				}
				fmt.Printf("restored %d goals from %s\n", len(doc.State.Goals), args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive restore")

	return cmd
}

func remindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminders [on|off|status]",
		Short: "Enable, disable or inspect goal-start reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *model.AppConfig, st *store.SQLiteStore, _ *goals.Service) error {
				ctx := context.Background()
				switch args[0] {
				case "on":
					return st.SaveRemindersPrefs(ctx, model.RemindersPrefs{Enabled: true})
				case "off":
					return st.SaveRemindersPrefs(ctx, model.RemindersPrefs{Enabled: false})
				case "status":
					prefs, err := st.LoadRemindersPrefs(ctx)
					if err != nil {
						return err
					}
					if prefs.Enabled {
						fmt.Println("reminders: on")
					} else {
						fmt.Println("reminders: off")
					}
					return nil
				default:
					return fmt.Errorf("expected on, off or status")
				}
			})
		},
	}
}

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder poller until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(cfg *model.AppConfig, st *store.SQLiteStore, _ *goals.Service) error {
				engine := remind.New(
					st,
					remind.LogNotifier{},
					time.Duration(cfg.Reminders.PollIntervalSec)*time.Second,
					time.Duration(cfg.Reminders.LookbackSec)*time.Second,
				)

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				err := engine.Run(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(cfg *model.AppConfig, st *store.SQLiteStore, svc *goals.Service) error {
				if addr == "" {
					addr = cfg.Server.Addr
				}
				return api.New(svc, st, addr).Run()
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
