package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/pista-scheduler/internal/config"
	"github.com/example/pista-scheduler/internal/court"
	"github.com/example/pista-scheduler/internal/jobs"
)

func newJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage scheduled booking jobs",
	}
	cmd.AddCommand(newJobCreateCmd())
	cmd.AddCommand(newJobListCmd())
	cmd.AddCommand(newJobCancelCmd())
	return cmd
}

func newJobCreateCmd() *cobra.Command {
	var (
		courtKey string
		startStr string
		fireStr  string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Schedule a single booking attempt for a future instant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ct, ok := court.ByKey(courtKey)
			if !ok {
				return fmt.Errorf("unknown court %q (want padel or frontenis)", courtKey)
			}
			desiredStart, err := time.Parse(time.RFC3339, startStr)
			if err != nil {
				return fmt.Errorf("invalid --start (want RFC3339)")
			}
			fireAt, err := time.Parse(time.RFC3339, fireStr)
			if err != nil {
				return fmt.Errorf("invalid --fire-at (want RFC3339)")
			}

			ctx := context.Background()
			st, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			j, err := jobs.NewStore(st).Create(ctx, ct, desiredStart, fireAt)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created job id=%s court=%s desired_start=%s fire_at=%s\n",
				j.ID, j.Court, j.DesiredStart.Format(time.RFC3339), j.FireAt.Format(time.RFC3339))
			fmt.Fprintln(os.Stdout, "the attempt fires next time the server is running at that instant")
			return nil
		},
	}

	c.Flags().StringVar(&courtKey, "court", "padel", "court key: padel or frontenis")
	c.Flags().StringVar(&startStr, "start", "", "desired slot start, RFC3339")
	c.Flags().StringVar(&fireStr, "fire-at", "", "when to attempt the booking, RFC3339")
	_ = c.MarkFlagRequired("start")
	_ = c.MarkFlagRequired("fire-at")
	return c
}

func newJobListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			list, err := jobs.NewStore(st).List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(os.Stdout, "no scheduled jobs")
				return nil
			}
			for _, j := range list {
				fmt.Fprintf(os.Stdout, "%s  court=%-9s desired_start=%s fire_at=%s\n",
					j.ID, j.Court, j.DesiredStart.Format(time.RFC3339), j.FireAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newJobCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a scheduled job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := jobs.NewStore(st).Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "removed job %s (a running server drops its timer on next reload)\n", args[0])
			return nil
		},
	}
}
