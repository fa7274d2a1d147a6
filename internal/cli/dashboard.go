package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ThatoMphasane/thato/internal/client"

	"github.com/spf13/cobra"
)

var (
	lowStockThreshold int
	reportOut         string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show stock levels, inventory value per category, and low-stock items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			fmt.Printf("Total inventory value: M%s\n\n", st.InventoryValue("").StringFixed(2))

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tVALUE")
			for _, cat := range st.Categories() {
				fmt.Fprintf(w, "%s\tM%s\n", cat, st.InventoryValue(cat).StringFixed(2))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			low := st.LowStock(lowStockThreshold)
			if len(low) == 0 {
				fmt.Println("\nNo products below the stock threshold.")
				return nil
			}
			fmt.Printf("\nLow stock (below %d units):\n", lowStockThreshold)
			for _, p := range low {
				fmt.Printf("  %s — %d left\n", p.Name, p.Quantity)
			}
			return nil
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Download the PDF inventory report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			pdf, err := st.API().InventoryReport(ctx)
			if err != nil {
				return err
			}
			if err := os.WriteFile(reportOut, pdf, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d bytes)\n", reportOut, len(pdf))
			return nil
		})
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Show the locally recorded sale and restock history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			txns := st.Transactions()
			if len(txns) == 0 {
				fmt.Println("No transactions recorded yet.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTYPE\tPRODUCT\tQTY")
			for _, t := range txns {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.Date, t.Type, t.Product, t.Quantity)
			}
			return w.Flush()
		})
	},
}

func init() {
	dashboardCmd.Flags().IntVar(&lowStockThreshold, "threshold", client.DefaultLowStockThreshold, "low-stock threshold")
	reportCmd.Flags().StringVar(&reportOut, "out", "inventory-report.pdf", "output file")

	rootCmd.AddCommand(dashboardCmd, reportCmd, transactionsCmd)
}
