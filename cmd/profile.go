package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/pista-scheduler/internal/config"
	"github.com/example/pista-scheduler/internal/profile"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the requester profile sent with every booking",
	}
	cmd.AddCommand(newProfileSetCmd())
	cmd.AddCommand(newProfileShowCmd())
	return cmd
}

func newProfileSetCmd() *cobra.Command {
	var p profile.Profile

	c := &cobra.Command{
		Use:   "set",
		Short: "Save the profile fields; all five are required before booking",
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

			// Merge over the saved profile so fields can be set one at a time.
			cur, err := profile.Load(ctx, st)
			if err != nil {
				return err
			}
			merged := merge(cur, p)
			if err := profile.Save(ctx, st, merged); err != nil {
				return err
			}
			if err := merged.Validate(); err != nil {
				fmt.Fprintln(os.Stdout, "saved; profile still incomplete, bookings will be refused until all five fields are set")
				return nil
			}
			fmt.Fprintln(os.Stdout, "saved")
			return nil
		},
	}

	c.Flags().StringVar(&p.Email, "email", "", "email")
	c.Flags().StringVar(&p.FirstName, "first-name", "", "first name")
	c.Flags().StringVar(&p.LastName, "last-name", "", "last name")
	c.Flags().StringVar(&p.Locality, "locality", "", "locality")
	c.Flags().StringVar(&p.Phone, "phone", "", "phone")
	return c
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved profile",
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

			p, err := profile.Load(ctx, st)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "email:      %s\n", p.Email)
			fmt.Fprintf(os.Stdout, "first name: %s\n", p.FirstName)
			fmt.Fprintf(os.Stdout, "last name:  %s\n", p.LastName)
			fmt.Fprintf(os.Stdout, "locality:   %s\n", p.Locality)
			fmt.Fprintf(os.Stdout, "phone:      %s\n", p.Phone)
			if err := p.Validate(); err != nil {
				fmt.Fprintln(os.Stdout, "profile incomplete: bookings will be refused")
			}
			return nil
		},
	}
}

func merge(cur, next profile.Profile) profile.Profile {
	if next.Email != "" {
		cur.Email = next.Email
	}
	if next.FirstName != "" {
		cur.FirstName = next.FirstName
	}
	if next.LastName != "" {
		cur.LastName = next.LastName
	}
	if next.Locality != "" {
		cur.Locality = next.Locality
	}
	if next.Phone != "" {
		cur.Phone = next.Phone
	}
	return cur
}
