package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Leorodrigs/deathstore-storefront/internal/gateway"
)

func newUsersCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer user accounts (admin)",
	}
	cmd.AddCommand(newUsersListCommand(app))
	cmd.AddCommand(newUsersShowCommand(app))
	cmd.AddCommand(newUsersUpdateCommand(app))
	cmd.AddCommand(newUsersDeleteCommand(app))
	return cmd
}

func newUsersListCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireAdmin(); err != nil {
				return err
			}
			users, err := a.Gateway.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
			for _, u := range users {
				role := "customer"
				if u.IsAdmin {
					role = "admin"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, role)
			}
			return w.Flush()
		},
	}
}

func newUsersShowCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireAdmin(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			u, err := a.Gateway.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "%s <%s> admin=%t\n", u.Name, u.Email, u.IsAdmin)
			return nil
		},
	}
}

func newUsersUpdateCommand(app func() *App) *cobra.Command {
	var (
		name  string
		email string
		admin bool
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireAdmin(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			var update gateway.UserUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if cmd.Flags().Changed("admin") {
				update.IsAdmin = &admin
			}
			u, err := a.Gateway.UpdateUser(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "updated user %d: %s\n", u.ID, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant or revoke the admin flag")
	return cmd
}

func newUsersDeleteCommand(app func() *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireAdmin(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			if !yes && !a.Confirm(fmt.Sprintf("Delete user %d?", id)) {
				return nil
			}
			if err := a.Gateway.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "deleted user %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
