package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/pista-scheduler/internal/appointlet"
	"github.com/example/pista-scheduler/internal/availability"
	"github.com/example/pista-scheduler/internal/config"
	"github.com/example/pista-scheduler/internal/court"
)

func newSlotsCmd() *cobra.Command {
	var (
		courtKey string
		dateStr  string
	)

	c := &cobra.Command{
		Use:   "slots",
		Short: "List available start times for a court on a local calendar day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ct, ok := court.ByKey(courtKey)
			if !ok {
				return fmt.Errorf("unknown court %q (want padel or frontenis)", courtKey)
			}
			date, err := availability.ParseDate(dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD)")
			}
			loc, err := court.Location()
			if err != nil {
				return err
			}

			client := appointlet.New(appointlet.WithBaseURL(cfg.APIBaseURL))
			slots, err := client.AvailableTimes(context.Background(), ct)
			if err != nil {
				return err
			}

			kept := availability.OnLocalDate(slots, date, loc)
			if len(kept) == 0 {
				fmt.Fprintf(os.Stdout, "no slots for %s on %s\n", ct.Name, date)
				return nil
			}
			for _, t := range kept {
				fmt.Fprintf(os.Stdout, "%s  (local %s)\n", appointlet.WireTime(t), t.In(loc).Format("15:04"))
			}
			return nil
		},
	}

	c.Flags().StringVar(&courtKey, "court", "padel", "court key: padel or frontenis")
	c.Flags().StringVar(&dateStr, "date", "", "local calendar day YYYY-MM-DD")
	_ = c.MarkFlagRequired("date")
	return c
}
