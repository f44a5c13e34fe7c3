package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newCartCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and mutate your cart",
	}
	cmd.AddCommand(newCartShowCommand(app))
	cmd.AddCommand(newCartAddCommand(app))
	cmd.AddCommand(newCartIncCommand(app))
	cmd.AddCommand(newCartDecCommand(app))
	cmd.AddCommand(newCartRemoveCommand(app))
	cmd.AddCommand(newCartClearCommand(app))
	cmd.AddCommand(newCartCheckoutCommand(app))
	return cmd
}

func newCartShowCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Fetch and display the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireSession(); err != nil {
				return err
			}
			if err := a.Cart.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("could not load cart: %w", err)
			}
			lines := a.Cart.Lines()
			if len(lines) == 0 {
				fmt.Fprintln(a.Out, "cart is empty")
				return nil
			}
			w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LINE\tPRODUCT\tQTY\tUNIT\tSUBTOTAL")
			for _, l := range lines {
				fmt.Fprintf(w, "%s\t%s\t%d\tR$ %.2f\tR$ %.2f\n",
					l.ID, l.Product.Name, l.Quantity, l.Product.Price,
					l.Product.Price*float64(l.Quantity))
			}
			w.Flush()
			fmt.Fprintf(a.Out, "total: R$ %.2f\n", a.Cart.Total())
			return nil
		},
	}
}

func newCartAddCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireSession(); err != nil {
				return err
			}
			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			if err := a.Cart.AddItem(cmd.Context(), productID); err != nil {
				return fmt.Errorf("could not add product: %w", err)
			}
			fmt.Fprintf(a.Out, "added product %d\n", productID)
			return nil
		},
	}
}

// fetchedLineOp fetches the snapshot first so the engine has the line to
// operate on, then runs op against it.
func fetchedLineOp(app func() *App, use, short string, op func(a *App, cmd *cobra.Command, lineID string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireSession(); err != nil {
				return err
			}
			if err := a.Cart.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("could not load cart: %w", err)
			}
			if _, ok := a.Cart.Line(args[0]); !ok {
				return fmt.Errorf("no cart line %q", args[0])
			}
			return op(a, cmd, args[0])
		},
	}
}

func newCartIncCommand(app func() *App) *cobra.Command {
	return fetchedLineOp(app, "inc LINE_ID", "Increase a line's quantity by one",
		func(a *App, cmd *cobra.Command, lineID string) error {
			if err := a.Cart.Increment(cmd.Context(), lineID); err != nil {
				return fmt.Errorf("could not update quantity: %w", err)
			}
			line, _ := a.Cart.Line(lineID)
			fmt.Fprintf(a.Out, "%s: quantity %d\n", line.Product.Name, line.Quantity)
			return nil
		})
}

func newCartDecCommand(app func() *App) *cobra.Command {
	return fetchedLineOp(app, "dec LINE_ID", "Decrease a line's quantity by one",
		func(a *App, cmd *cobra.Command, lineID string) error {
			if err := a.Cart.Decrement(cmd.Context(), lineID); err != nil {
				return fmt.Errorf("could not update quantity: %w", err)
			}
			line, _ := a.Cart.Line(lineID)
			fmt.Fprintf(a.Out, "%s: quantity %d\n", line.Product.Name, line.Quantity)
			return nil
		})
}

func newCartRemoveCommand(app func() *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove LINE_ID",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireSession(); err != nil {
				return err
			}
			if err := a.Cart.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("could not load cart: %w", err)
			}
			line, ok := a.Cart.Line(args[0])
			if !ok {
				return fmt.Errorf("no cart line %q", args[0])
			}
			if !yes && !a.Confirm(fmt.Sprintf("Remove %q from the cart?", line.Product.Name)) {
				return nil
			}
			if err := a.Cart.ConfirmedRemove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("could not remove item: %w", err)
			}
			fmt.Fprintf(a.Out, "removed %s\n", line.Product.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newCartClearCommand(app func() *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireSession(); err != nil {
				return err
			}
			if !yes && !a.Confirm("Empty the whole cart?") {
				return nil
			}
			if err := a.Cart.ConfirmedClear(cmd.Context()); err != nil {
				return fmt.Errorf("could not clear cart: %w", err)
			}
			fmt.Fprintln(a.Out, "cart cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newCartCheckoutCommand(app func() *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Finalize the purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.RequireSession(); err != nil {
				return err
			}
			if err := a.Cart.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("could not load cart: %w", err)
			}
			if len(a.Cart.Lines()) == 0 {
				return fmt.Errorf("cart is empty")
			}
			if !yes && !a.Confirm(fmt.Sprintf("Finalize purchase of R$ %.2f?", a.Cart.Total())) {
				return nil
			}
			receipt, err := a.Cart.Checkout(cmd.Context())
			if err != nil {
				return fmt.Errorf("checkout failed: %w", err)
			}
			fmt.Fprintf(a.Out, "purchase complete: R$ %.2f\n", receipt.Total)
			if !receipt.Expired(time.Now()) {
				fmt.Fprintln(a.Out, "thank you for shopping at the DeathStore")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
