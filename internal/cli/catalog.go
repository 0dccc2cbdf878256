package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"provision-store/internal/client"
	"provision-store/internal/config"
	"provision-store/internal/models"
	"provision-store/internal/services"
)

func newProductsCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally matching name or category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.FromEnv(config.LoadClientEnv())

			products, err := api.Products(cmd.Context())
			if err != nil {
				return fmt.Errorf("load products: %w", err)
			}
			return renderProducts(cmd.OutOrStdout(), filterProducts(products, search))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match name or category (case-insensitive)")

	cmd.AddCommand(newProductCreateCmd())
	cmd.AddCommand(newProductUpdateCmd())
	cmd.AddCommand(newProductDeleteCmd())
	return cmd
}

func filterProducts(products []models.Product, search string) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out
}

func renderProducts(out io.Writer, products []models.Product) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tUNITS\tWEIGHT\tPRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g %s\t%.2f\n",
			p.ID.Hex(), p.Name, p.Category, p.Units, p.Weight, p.WeightUnit, p.Price)
	}
	return w.Flush()
}

// productFlags binds the product fields; only flags the user set end up in
// the request.
type productFlags struct {
	name, weightUnit, category, description string
	units                                   int
	weight, price                           float64
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().IntVar(&f.units, "units", 0, "units in stock")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "weight per unit")
	cmd.Flags().StringVar(&f.weightUnit, "weight-unit", "", "kg or gram")
	cmd.Flags().Float64Var(&f.price, "price", 0, "price per unit")
	cmd.Flags().StringVar(&f.category, "category", "", "product category")
	cmd.Flags().StringVar(&f.description, "description", "", "optional description")
}

func (f *productFlags) input(cmd *cobra.Command) services.ProductInput {
	var in services.ProductInput
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = &f.name
	}
	if changed("units") {
		units := models.FlexInt(f.units)
		in.Units = &units
	}
	if changed("weight") {
		weight := models.FlexFloat(f.weight)
		in.Weight = &weight
	}
	if changed("weight-unit") {
		in.WeightUnit = &f.weightUnit
	}
	if changed("price") {
		price := models.FlexFloat(f.price)
		in.Price = &price
	}
	if changed("category") {
		in.Category = &f.category
	}
	if changed("description") {
		in.Description = &f.description
	}
	return in
}

func newProductCreateCmd() *cobra.Command {
	var flags productFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.FromEnv(config.LoadClientEnv())
			product, err := api.CreateProduct(cmd.Context(), flags.input(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created product %s (%s)\n", product.ID.Hex(), product.Name)
			return nil
		},
	}
	flags.register(cmd)
	for _, name := range []string{"name", "units", "weight", "price", "category"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newProductUpdateCmd() *cobra.Command {
	var flags productFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.FromEnv(config.LoadClientEnv())
			product, err := api.UpdateProduct(cmd.Context(), args[0], flags.input(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated product %s (%s, %d units)\n", product.ID.Hex(), product.Name, product.Units)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newProductDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.FromEnv(config.LoadClientEnv())
			if err := api.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %s\n", args[0])
			return nil
		},
	}
}

func newBillsCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "bills",
		Short: "List bills, optionally matching bill number or customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.FromEnv(config.LoadClientEnv())

			bills, err := api.Bills(cmd.Context())
			if err != nil {
				return fmt.Errorf("load bills: %w", err)
			}
			return renderBills(cmd.OutOrStdout(), filterBills(bills, search))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match bill number or customer name (case-insensitive)")

	cmd.AddCommand(newBillCreateCmd())
	cmd.AddCommand(newBillUpdateCmd())
	cmd.AddCommand(newBillDeleteCmd())
	return cmd
}

func filterBills(bills []models.Bill, search string) []models.Bill {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return bills
	}
	out := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if strings.Contains(strings.ToLower(b.BillNumber), needle) ||
			strings.Contains(strings.ToLower(b.CustomerName), needle) {
			out = append(out, b)
		}
	}
	return out
}

func renderBills(out io.Writer, bills []models.Bill) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tCUSTOMER\tITEMS\tTOTAL\tSTATUS\tMETHOD\tDATE")
	for _, b := range bills {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\t%s\t%s\n",
			b.ID.Hex(), b.BillNumber, b.CustomerName, len(b.Items), b.TotalAmount,
			b.PaymentStatus, b.PaymentMethod, b.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// parseBillItem reads productId:quantity[:unitPrice].
func parseBillItem(raw string) (services.BillItemInput, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return services.BillItemInput{}, fmt.Errorf("item %q: want productId:quantity[:unitPrice]", raw)
	}

	quantity, err := strconv.Atoi(parts[1])
	if err != nil {
		return services.BillItemInput{}, fmt.Errorf("item %q: invalid quantity", raw)
	}
	item := services.BillItemInput{ProductID: parts[0], Quantity: models.FlexInt(quantity)}

	if len(parts) == 3 {
		price, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return services.BillItemInput{}, fmt.Errorf("item %q: invalid unit price", raw)
		}
		unitPrice := models.FlexFloat(price)
		item.UnitPrice = &unitPrice
	}
	return item, nil
}

type billFlags struct {
	customer, phone, status, method string
	items                           []string
}

func (f *billFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&f.status, "status", "", "paid, pending or partial")
	cmd.Flags().StringVar(&f.method, "method", "", "cash, card, upi or credit")
	cmd.Flags().StringArrayVar(&f.items, "item", nil, "productId:quantity[:unitPrice], repeatable")
}

func (f *billFlags) input(cmd *cobra.Command) (services.BillInput, error) {
	var in services.BillInput
	changed := cmd.Flags().Changed
	if changed("customer") {
		in.CustomerName = &f.customer
	}
	if changed("phone") {
		in.CustomerPhone = &f.phone
	}
	if changed("status") {
		in.PaymentStatus = &f.status
	}
	if changed("method") {
		in.PaymentMethod = &f.method
	}
	if changed("item") {
		items := make([]services.BillItemInput, 0, len(f.items))
		for _, raw := range f.items {
			item, err := parseBillItem(raw)
			if err != nil {
				return in, err
			}
			items = append(items, item)
		}
		in.Items = &items
	}
	return in, nil
}

func newBillCreateCmd() *cobra.Command {
	var flags billFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a bill; units are taken off each product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.input(cmd)
			if err != nil {
				return err
			}
			api := client.FromEnv(config.LoadClientEnv())
			bill, err := api.CreateBill(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s for %s, total %.2f\n", bill.BillNumber, bill.CustomerName, bill.TotalAmount)
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func newBillUpdateCmd() *cobra.Command {
	var flags billFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a bill; stock is not adjusted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.input(cmd)
			if err != nil {
				return err
			}
			api := client.FromEnv(config.LoadClientEnv())
			bill, err := api.UpdateBill(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s: %s, total %.2f\n", bill.BillNumber, bill.PaymentStatus, bill.TotalAmount)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newBillDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bill; sold units are not restocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.FromEnv(config.LoadClientEnv())
			if err := api.DeleteBill(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted bill %s\n", args[0])
			return nil
		},
	}
}
