package main

import (
	"fmt"

	"github.com/2beens/befit/internal/bootstrap"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Ensure the admin account and the default exercise types exist",
	Long: `Runs the same identity bootstrap the service runs on startup.

The admin account is created only when missing, and the exercise types
are inserted only when the exercise_type table is empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := bootstrap.EnsureAdmin(ctx, identityManager, cfg.AdminEmail, secrets.AdminPassword); err != nil {
			return err
		}

		seeded, err := bootstrap.SeedExerciseTypes(ctx, gymRepo)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s admin account [%s]\n", color.GreenString("✓"), cfg.AdminEmail)
		if seeded == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), color.New(color.Faint).Sprint("  exercise types already present, nothing seeded"))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s seeded %d exercise types\n", color.GreenString("✓"), seeded)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
