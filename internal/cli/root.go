// Package cli holds the provision-store command tree.
package cli

import (
	"github.com/spf13/cobra"

	"provision-store/internal/config"
	"provision-store/internal/logging"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "provision-store",
		Short:         "Provision store inventory and billing",
		Long:          "Runs the provision store API and offers dashboard and customer views over it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.Load()
			logging.Setup(config.AppEnv.IsProduction())
		},
	}

	// Server
	root.AddCommand(newServeCmd())
	root.AddCommand(newIndexesCmd())

	// API client
	root.AddCommand(newDashboardCmd())
	root.AddCommand(newProductsCmd())
	root.AddCommand(newBillsCmd())
	root.AddCommand(newCustomersCmd())
	root.AddCommand(newLoginCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
