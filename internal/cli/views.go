package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"provision-store/internal/client"
	"provision-store/internal/config"
	"provision-store/internal/customers"
	"provision-store/internal/models"
	"provision-store/internal/services"
)

const recentBillCount = 5

func newDashboardCmd() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show stats, recent bills and low-stock products",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			api := client.FromEnv(config.LoadClientEnv())

			stats, err := api.Stats(ctx)
			if err != nil {
				return fmt.Errorf("load stats: %w", err)
			}
			bills, err := api.Bills(ctx)
			if err != nil {
				return fmt.Errorf("load bills: %w", err)
			}
			products, err := api.Products(ctx)
			if err != nil {
				return fmt.Errorf("load products: %w", err)
			}

			return renderDashboard(cmd.OutOrStdout(), stats, bills, products, threshold)
		},
	}
	cmd.Flags().IntVar(&threshold, "low-stock", services.DefaultLowStockThreshold, "units below which a product counts as low stock")
	return cmd
}

func renderDashboard(out io.Writer, stats models.DashboardStats, bills []models.Bill, products []models.Product, threshold int) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	fmt.Fprintln(w, "PRODUCTS\tBILLS\tREVENUE\tLOW STOCK")
	fmt.Fprintf(w, "%d\t%d\t%.2f\t%d\n", stats.TotalProducts, stats.TotalBills, stats.TotalRevenue, stats.LowStockProducts)
	fmt.Fprintln(w)

	recent := make([]models.Bill, len(bills))
	copy(recent, bills)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentBillCount {
		recent = recent[:recentBillCount]
	}

	fmt.Fprintln(w, "RECENT BILLS")
	fmt.Fprintln(w, "NUMBER\tCUSTOMER\tTOTAL\tSTATUS\tDATE")
	for _, b := range recent {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
			b.BillNumber, b.CustomerName, b.TotalAmount, b.PaymentStatus, b.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "LOW STOCK")
	fmt.Fprintln(w, "NAME\tCATEGORY\tUNITS")
	for _, p := range products {
		if p.Units < threshold {
			fmt.Fprintf(w, "%s\t%s\t%d\n", p.Name, p.Category, p.Units)
		}
	}
	return w.Flush()
}

func newCustomersCmd() *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Group bills by customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.FromEnv(config.LoadClientEnv())

			bills, err := api.Bills(cmd.Context())
			if err != nil {
				return fmt.Errorf("load bills: %w", err)
			}

			list := customers.Filter(customers.Group(bills), search, status)
			return renderCustomers(cmd.OutOrStdout(), list, customers.Summarize(list))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match name (case-insensitive) or phone")
	cmd.Flags().StringVar(&status, "status", customers.StatusAll, "paid, pending, partial or all")
	return cmd
}

func renderCustomers(out io.Writer, list []models.Customer, summary models.CustomerSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tPHONE\tBILLS\tPAID\tPENDING")
	for _, c := range list {
		phone := c.Phone
		if phone == "" {
			phone = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n", c.Name, phone, len(c.Bills), c.PaidTotal, c.PendingTotal)
	}
	fmt.Fprintf(w, "TOTAL\t%d customers\t\t%.2f\t%.2f\n", summary.Customers, summary.PaidTotal, summary.PendingTotal)
	return w.Flush()
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Print an admin access token for API_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.FromEnv(config.LoadClientEnv())
			token, err := api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
