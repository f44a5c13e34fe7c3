package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the storefront CLI.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		verbose    bool
		app        *App
	)

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "DeathStore storefront client",
		Long:          "Browse the catalog, manage your cart and administer the DeathStore backend.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			app.Out = cmd.OutOrStdout()
			app.In = cmd.InOrStdin()
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	appRef := func() *App { return app }
	cmd.AddCommand(newLoginCommand(appRef))
	cmd.AddCommand(newSignupCommand(appRef))
	cmd.AddCommand(newLogoutCommand(appRef))
	cmd.AddCommand(newWhoamiCommand(appRef))
	cmd.AddCommand(newProductsCommand(appRef))
	cmd.AddCommand(newUsersCommand(appRef))
	cmd.AddCommand(newCartCommand(appRef))

	return cmd
}
