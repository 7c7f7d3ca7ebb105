package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

func newLoginCommand(app *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in with email and password",
		Long: `Sign in and keep the session for later commands.

Without --password the password is read from the first line of stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			// The bound stores load as soon as the identity arrives.
			for _, bind := range []func(context.Context) func(){app.tasks.Bind, app.shopping.Bind, app.recipes.Bind} {
				defer bind(cmd.Context())()
			}
			if err := check(app.session.Login(cmd.Context(), args[0], password)); err != nil {
				return err
			}
			app.printf("%s %s\n", successStyle.Render("signed in as"), signedInAs(*app.session.Identity()))
			app.printf("%s\n", renderSummary(app.tasks.Items(), app.shopping.Items(), app.recipes.Items()))
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")
	return cmd
}

func newLogoutCommand(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.session.Logout()
			app.printf("signed out\n")
			return nil
		},
	}
}

func newWhoamiCommand(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			app.printf("%s\n", renderUser(*user))
			return nil
		},
	}
}

func newPasswdCommand(app *app) *cobra.Command {
	var oldPassword, password, passwordConfirm string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.signedIn(cmd.Context()); err != nil {
				return err
			}
			if err := check(app.session.ChangePassword(cmd.Context(), oldPassword, password, passwordConfirm)); err != nil {
				return err
			}
			app.printf("%s\n", successStyle.Render("password changed"))
			return nil
		},
	}
	cmd.Flags().StringVar(&oldPassword, "old", "", "current password")
	cmd.Flags().StringVar(&password, "new", "", "new password")
	cmd.Flags().StringVar(&passwordConfirm, "confirm", "", "new password again")
	cmd.MarkFlagRequired("old")
	cmd.MarkFlagRequired("new")
	cmd.MarkFlagRequired("confirm")
	return cmd
}

func newPrefsCommand(app *app) *cobra.Command {
	var theme string
	var haptics bool

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change theme and haptics preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("theme") && !cmd.Flags().Changed("haptics") {
				app.printf("theme: %s\nhaptics: %t\n", user.Theme, user.HapticsEnabled)
				return nil
			}

			nextTheme := user.Theme
			if cmd.Flags().Changed("theme") {
				nextTheme = models.Theme(theme)
				if !nextTheme.Valid() {
					return errors.New("theme must be system, light or dark")
				}
			}
			nextHaptics := user.HapticsEnabled
			if cmd.Flags().Changed("haptics") {
				nextHaptics = haptics
			}
			if err := check(app.session.UpdatePreferences(cmd.Context(), nextTheme, nextHaptics)); err != nil {
				return err
			}
			app.printf("theme: %s\nhaptics: %t\n", nextTheme, nextHaptics)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "system, light or dark")
	cmd.Flags().BoolVar(&haptics, "haptics", false, "enable haptic feedback in the app")
	return cmd
}
