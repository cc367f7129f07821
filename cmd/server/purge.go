package main

import (
	"fmt"

	"github.com/dom/attendance-platform/internal/service"
	"github.com/spf13/cobra"
)

var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Delete expired refresh tokens now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		purger := service.NewTokenPurger(a.repos.RefreshToken, a.repos.SuperAdminRefreshToken, a.log)
		result, err := purger.PurgeExpired(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "purged %d admin and %d super admin refresh tokens\n",
			result.AdminTokens, result.SuperAdminTokens)
		return nil
	},
}
