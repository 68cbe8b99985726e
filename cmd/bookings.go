package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/pista-scheduler/internal/booking"
	"github.com/example/pista-scheduler/internal/config"
)

func newBookingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List confirmed bookings, most recent first",
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

			recs, err := booking.NewHistory(st).List(ctx)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(os.Stdout, "no bookings yet")
				return nil
			}
			for _, r := range recs {
				fmt.Fprintf(os.Stdout, "%s  %s  %s -> %s (%s)\n",
					r.ID, r.Service.Name, r.Start, r.End, r.Timezone)
			}
			return nil
		},
	}
}
