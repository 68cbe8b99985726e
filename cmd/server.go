package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/pista-scheduler/internal/appointlet"
	"github.com/example/pista-scheduler/internal/booking"
	"github.com/example/pista-scheduler/internal/clock"
	"github.com/example/pista-scheduler/internal/config"
	"github.com/example/pista-scheduler/internal/jobs"
	"github.com/example/pista-scheduler/internal/notify"
	"github.com/example/pista-scheduler/internal/scheduler"
	"github.com/example/pista-scheduler/internal/web"
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the booking API + job scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			st, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			client := appointlet.New(appointlet.WithBaseURL(cfg.APIBaseURL))
			history := booking.NewHistory(st)
			exec := &booking.Executor{
				Client:  client,
				Store:   st,
				History: history,
				Notify:  notify.NewLogger(log),
				Log:     log,
			}
			jobStore := jobs.NewStore(st)

			sched := scheduler.New(jobStore, exec, clock.NewReal(), log)
			if err := sched.Start(ctx); err != nil {
				return err
			}
			defer sched.Stop()

			srv := &web.Server{
				Client:    client,
				Store:     st,
				Jobs:      jobStore,
				Scheduler: sched,
				Executor:  exec,
				History:   history,
				Log:       log,
			}
			return web.Start(ctx, cfg.ListenAddr, srv.Routes(), log)
		},
	}
}
