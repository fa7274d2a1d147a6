package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ThatoMphasane/thato/internal/client"
	"github.com/ThatoMphasane/thato/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the product catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tQTY")
			for _, p := range st.Products() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Quantity)
			}
			return w.Flush()
		})
	},
}

var (
	addPrice       string
	addQuantity    int
	addCategory    string
	addDescription string
)

var productsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := decimal.NewFromString(addPrice)
		if err != nil {
			return fmt.Errorf("invalid price %q", addPrice)
		}
		return withState(func(ctx context.Context, st *client.State) error {
			created, err := st.CreateProduct(ctx, dto.CreateProductRequest{
				Name:        args[0],
				Price:       &price,
				Quantity:    &addQuantity,
				Category:    addCategory,
				Description: addDescription,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created product %d: %s\n", created.ID, created.Name)
			return nil
		})
	},
}

var (
	updName        string
	updPrice       string
	updQuantity    int
	updCategory    string
	updDescription string
)

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a product record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(updPrice)
		if err != nil {
			return fmt.Errorf("invalid price %q", updPrice)
		}
		return withState(func(ctx context.Context, st *client.State) error {
			updated, err := st.UpdateProduct(ctx, id, dto.UpdateProductRequest{
				Name:        &updName,
				Price:       &price,
				Quantity:    &updQuantity,
				Category:    &updCategory,
				Description: &updDescription,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Updated product %d: %s\n", updated.ID, updated.Name)
			return nil
		})
	},
}

var productsSetQtyCmd = &cobra.Command{
	Use:   "set-qty <id> <quantity>",
	Short: "Write an absolute stock quantity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return withState(func(ctx context.Context, st *client.State) error {
			if err := st.SetQuantity(ctx, id, qty); err != nil {
				return err
			}
			if p, ok := st.Product(id); ok {
				fmt.Printf("%s now at %d units\n", p.Name, p.Quantity)
			}
			return nil
		})
	},
}

var productsSellCmd = &cobra.Command{
	Use:   "sell <id> <quantity>",
	Short: "Sell stock (validated locally, confirmed by the server)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdjust(func(ctx context.Context, st *client.State, id uint, qty int) error { return st.Sell(ctx, id, qty) }),
}

var productsRestockCmd = &cobra.Command{
	Use:   "restock <id> <quantity>",
	Short: "Add stock",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdjust(func(ctx context.Context, st *client.State, id uint, qty int) error { return st.AddStock(ctx, id, qty) }),
}

var productsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		return withState(func(ctx context.Context, st *client.State) error {
			if err := st.DeleteProduct(ctx, id); err != nil {
				return err
			}
			fmt.Println("Product deleted successfully.")
			return nil
		})
	},
}

func runAdjust(fn func(ctx context.Context, st *client.State, id uint, qty int) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return withState(func(ctx context.Context, st *client.State) error {
			if err := fn(ctx, st, id, qty); err != nil {
				return err
			}
			if p, ok := st.Product(id); ok {
				fmt.Printf("%s now at %d units\n", p.Name, p.Quantity)
			}
			return nil
		})
	}
}

func parseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(v), nil
}

func init() {
	productsAddCmd.Flags().StringVar(&addPrice, "price", "0.00", "unit price")
	productsAddCmd.Flags().IntVar(&addQuantity, "quantity", 0, "initial stock")
	productsAddCmd.Flags().StringVar(&addCategory, "category", "", "category")
	productsAddCmd.Flags().StringVar(&addDescription, "description", "", "description")
	_ = productsAddCmd.MarkFlagRequired("category")
	_ = productsAddCmd.MarkFlagRequired("description")

	// The server accepts only the full record on this path, so every flag
	// is required.
	productsUpdateCmd.Flags().StringVar(&updName, "name", "", "product name")
	productsUpdateCmd.Flags().StringVar(&updPrice, "price", "", "unit price")
	productsUpdateCmd.Flags().IntVar(&updQuantity, "quantity", 0, "stock level")
	productsUpdateCmd.Flags().StringVar(&updCategory, "category", "", "category")
	productsUpdateCmd.Flags().StringVar(&updDescription, "description", "", "description")
	for _, f := range []string{"name", "price", "quantity", "category", "description"} {
		_ = productsUpdateCmd.MarkFlagRequired(f)
	}

	productsCmd.AddCommand(productsListCmd, productsAddCmd, productsUpdateCmd, productsSetQtyCmd,
		productsSellCmd, productsRestockCmd, productsRmCmd)
	rootCmd.AddCommand(productsCmd)
}
