package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/pista-scheduler/internal/appointlet"
	"github.com/example/pista-scheduler/internal/booking"
	"github.com/example/pista-scheduler/internal/config"
	"github.com/example/pista-scheduler/internal/court"
	"github.com/example/pista-scheduler/internal/notify"
)

func newBookCmd() *cobra.Command {
	var (
		courtKey string
		startStr string
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Book a slot now using the saved profile",
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

			ct, ok := court.ByKey(courtKey)
			if !ok {
				return fmt.Errorf("unknown court %q (want padel or frontenis)", courtKey)
			}
			start, err := time.Parse(time.RFC3339, startStr)
			if err != nil {
				return fmt.Errorf("invalid --start (want RFC3339, e.g. 2025-06-11T07:00:00Z)")
			}

			ctx := context.Background()
			st, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			exec := &booking.Executor{
				Client:  appointlet.New(appointlet.WithBaseURL(cfg.APIBaseURL)),
				Store:   st,
				History: booking.NewHistory(st),
				Notify:  notify.NewLogger(log),
				Log:     log,
			}
			rec, err := exec.Execute(ctx, ct, start)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "booked %s %s -> %s (id=%s)\n", ct.Name, rec.Start, rec.End, rec.ID)
			return nil
		},
	}

	c.Flags().StringVar(&courtKey, "court", "padel", "court key: padel or frontenis")
	c.Flags().StringVar(&startStr, "start", "", "slot start instant, RFC3339")
	_ = c.MarkFlagRequired("start")
	return c
}
