package main

import (
	"fmt"
	"os"

	"github.com/dom/attendance-platform/internal/service"
	"github.com/spf13/cobra"
)

var (
	superAdminInput service.CreateSuperAdminInput

	createSuperAdminCmd = &cobra.Command{
		Use:   "create-superadmin",
		Short: "Create a platform super admin",
		Long:  "Create a platform super admin. The password is read from SUPERADMIN_PASSWORD when --password is not given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if superAdminInput.Password == "" {
				superAdminInput.Password = os.Getenv("SUPERADMIN_PASSWORD")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			services, err := service.NewServices(a.repos, a.cfg, a.log)
			if err != nil {
				return err
			}

			admin, err := services.SuperAuth.Create(cmd.Context(), superAdminInput)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created super admin %q (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}
)

func init() {
	flags := createSuperAdminCmd.Flags()
	flags.StringVarP(&superAdminInput.Username, "username", "u", "", "login name")
	flags.StringVarP(&superAdminInput.Password, "password", "p", "", "password")
	flags.StringVar(&superAdminInput.Email, "email", "", "email address")
	flags.StringVar(&superAdminInput.FirstName, "first-name", "", "first name")
	flags.StringVar(&superAdminInput.LastName, "last-name", "", "last name")
	createSuperAdminCmd.MarkFlagRequired("username")
}
