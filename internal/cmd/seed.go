package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and its store",
	Long: `Create the admin account and its store from the ADMIN_* settings.
Existing records are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if a.db == nil {
			return errors.New("DATABASE_URL is required for seed")
		}
		return a.seed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
