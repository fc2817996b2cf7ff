package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"daytrack/internal/calendar"
	"daytrack/internal/config"
	"daytrack/internal/logger"
	"daytrack/internal/ops"
	"daytrack/internal/report"
	"daytrack/internal/sched"
	"daytrack/internal/server"
	"daytrack/internal/storage"
	"daytrack/internal/store"
)

type app struct {
	cfg   config.Config
	log   *zap.Logger
	kv    *storage.BoltKV
	store *store.Store
	cal   *calendar.Repo
}

func openApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)

	kv, err := storage.OpenBolt(filepath.Join(cfg.DataDir, "daytrack.db"))
	if err != nil {
		return nil, fmt.Errorf("open data store: %w", err)
	}

	st := store.New(kv, store.RealClock{}, log)
	cal := calendar.NewRepo(kv, time.Now, log)
	return &app{cfg: cfg, log: log, kv: kv, store: st, cal: cal}, nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		a.log.Warn("close data store", zap.Error(err))
	}
	_ = a.log.Sync()
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API and the midnight day-tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.close()

			tick, err := sched.NewDayTick(a.cfg.DayTick.Schedule, a.store, a.log)
			if err != nil {
				return fmt.Errorf("day tick schedule: %w", err)
			}
			tick.Start()
			defer tick.Stop()

			srv := &http.Server{
				Addr:    a.cfg.HTTP.Addr,
				Handler: server.New(a.store, a.cal, a.log).Engine(),
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("listening", zap.String("addr", a.cfg.HTTP.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func enddayCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "endday",
		Short: "Run the day-boundary reset pass once and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.close()

			tasks, err := a.store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("day %s, %d task(s)\n", a.store.Today(), len(tasks))
			for _, t := range tasks {
				fmt.Printf("  [%s] %-24s streak=%d done=%v\n", t.Kind, t.Title, t.StreakCount, t.CompletedToday)
			}
			return nil
		},
	}
}

func reportCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the aggregate summary for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.close()

			tasks, err := a.store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			events, err := a.cal.List(cmd.Context())
			if err != nil {
				return err
			}

			s := report.Build(tasks, events, a.store.Today())
			fmt.Printf("day:              %s\n", s.Day)
			fmt.Printf("tasks:            %d (%d done today, %d pending)\n", s.TotalTasks, s.CompletedToday, s.PendingToday)
			if s.BestStreak > 0 {
				fmt.Printf("best streak:      %d (%s)\n", s.BestStreak, s.BestStreakTitle)
			}
			fmt.Printf("streak days:      %d\n", s.TotalStreakDays)
			fmt.Printf("progress:         %.0f%%\n", s.ProgressRatio*100)
			fmt.Printf("upcoming events:  %d\n", s.UpcomingEvents)
			return nil
		},
	}
}

func backupCmd(cfgPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory to a tar.gz",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("daytrack-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
			}
			if err := ops.Backup(cfg.DataDir, out); err != nil {
				return err
			}
			fmt.Printf("backed up %s to %s\n", cfg.DataDir, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "archive path")
	return cmd
}

func wipeCmd(cfgPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Erase all tasks, events and the reset marker",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to wipe without --yes")
			}
			a, err := openApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Clear(cmd.Context()); err != nil {
				return err
			}
			if err := a.cal.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("all data erased")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}
