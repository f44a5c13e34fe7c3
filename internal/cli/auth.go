package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Leorodrigs/deathstore-storefront/internal/gateway"
	"github.com/Leorodrigs/deathstore-storefront/internal/session"
)

func newLoginCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login EMAIL PASSWORD",
		Short: "Authenticate against the backend and persist the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			resp, err := a.Gateway.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.Session.Login(resp.Token, resp.User); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "logged in as %s\n", resp.User.Email)
			return nil
		},
	}
}

func newSignupCommand(app func() *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "signup EMAIL PASSWORD",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			resp, err := a.Gateway.Signup(cmd.Context(), gateway.SignupRequest{
				Name:     name,
				Email:    args[0],
				Password: args[1],
			})
			if err != nil {
				return err
			}
			if err := a.Session.Login(resp.Token, resp.User); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "welcome, %s\n", resp.User.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for the new account")
	return cmd
}

func newLogoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, "logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			sess := a.Session.Session()
			if sess == nil {
				if a.Session.State() == session.StateExpired {
					fmt.Fprintln(a.Out, "session expired; please log in again")
					return nil
				}
				fmt.Fprintln(a.Out, "not logged in")
				return nil
			}
			role := "customer"
			if sess.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(a.Out, "%s <%s> (%s)\n", sess.Name, sess.Email, role)
			return nil
		},
	}
}
