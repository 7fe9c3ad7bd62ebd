package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/2beens/befit/internal/identity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagPassword string
	flagAdmin    bool
)

var createUserCmd = &cobra.Command{
	Use:   "create-user <email>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := identityManager.Register(cmd.Context(), identity.RegisterRequest{
			Email:           args[0],
			Password:        flagPassword,
			ConfirmPassword: flagPassword,
		})
		if err != nil {
			var regErr *identity.RegistrationError
			if errors.As(err, &regErr) {
				for _, msg := range regErr.Messages() {
					fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("  - %s", msg))
				}
			}
			return fmt.Errorf("create user: %w", err)
		}

		if flagAdmin {
			if _, _, err := identityManager.EnsureAccount(cmd.Context(), user.Email, flagPassword, identity.RoleAdmin); err != nil {
				return fmt.Errorf("add admin role: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s created user %s %s\n",
			color.GreenString("✓"), user.Email, color.New(color.Faint).Sprint(user.ID))
		return nil
	},
}

var deleteUserCmd = &cobra.Command{
	Use:     "delete-user <email>",
	Aliases: []string{"rm-user"},
	Short:   "Delete a user together with all their training sessions",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := identityManager.FindByEmail(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, identity.ErrUserNotFound) {
				return fmt.Errorf("user not found: %s", args[0])
			}
			return err
		}

		if err := identityManager.DeleteUser(cmd.Context(), user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s deleted user %s %s\n",
			color.YellowString("✗"), user.Email, color.New(color.Faint).Sprint(user.ID))
		revokeTokens(cmd.Context(), cmd.OutOrStdout(), authService, user.ID)
		return nil
	},
}

type tokenRevoker interface {
	LogoutUser(ctx context.Context, userID string) (int, error)
}

// revokeTokens logs the user out everywhere. The user row is already gone at
// this point, so a redis failure is reported but does not fail the command.
func revokeTokens(ctx context.Context, out io.Writer, revoker tokenRevoker, userID string) {
	removed, err := revoker.LogoutUser(ctx, userID)
	if err != nil {
		fmt.Fprintf(out, "%s revoke login tokens: %s\n", color.RedString("!"), err)
		return
	}
	fmt.Fprintf(out, "%s revoked %d login tokens\n", color.YellowString("✗"), removed)
}

func init() {
	createUserCmd.Flags().StringVarP(&flagPassword, "password", "p", "", "account password")
	createUserCmd.Flags().BoolVar(&flagAdmin, "admin", false, "also add the user to the Admin role")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(deleteUserCmd)
}
