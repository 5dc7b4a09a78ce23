package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "restaurant",
	Short: "Restaurant ordering backend",
	Long: `Multi-tenant restaurant ordering backend.

Customers browse a store's menu and place orders. Staff manage the
catalog, tables and order lifecycle and read dashboard summaries.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
