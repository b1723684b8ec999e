package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tms/backend/internal/application/identity"
)

var tenantCreateCmd = &cobra.Command{
	Use:   "create <subdomain>",
	Short: "Onboard a tenant with an administrator",
	Long: `Onboard a tenant workspace.

The tenant is created active together with the default roles (Admin,
Operator, Viewer) and an administrator account holding the Admin role.

Example:
  tmsctl tenant create acme --name "Acme Logistics" \
    --admin-email ops@acme.test --admin-password 'S3cure-pass' --admin-first-name Ana`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		email, _ := flags.GetString("admin-email")
		password, _ := flags.GetString("admin-password")
		first, _ := flags.GetString("admin-first-name")
		last, _ := flags.GetString("admin-last-name")
		phone, _ := flags.GetString("phone")
		if name == "" {
			name = args[0]
		}

		result, err := a.services.Tenant.Onboard(cmd.Context(), identity.OnboardInput{
			Name:           name,
			Subdomain:      args[0],
			ContactPhone:   phone,
			AdminEmail:     email,
			AdminPassword:  password,
			AdminFirstName: first,
			AdminLastName:  last,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Created tenant '%s' with %d roles\n", result.Tenant.Subdomain, len(result.Roles))
		return render(cmd, table{
			header: []string{"TENANT ID", "SUBDOMAIN", "ADMIN ID", "ADMIN EMAIL"},
			rows: [][]string{{
				result.Tenant.ID.String(), result.Tenant.Subdomain,
				result.Admin.ID.String(), result.Admin.Email,
			}},
			raw: result,
		})
	}),
}

func init() {
	tenantCmd.AddCommand(tenantCreateCmd)
	f := tenantCreateCmd.Flags()
	f.String("name", "", "Display name (default: the subdomain)")
	f.String("phone", "", "Contact phone")
	f.String("admin-email", "", "Administrator email")
	f.String("admin-password", "", "Administrator password")
	f.String("admin-first-name", "Admin", "Administrator first name")
	f.String("admin-last-name", "", "Administrator last name")
	_ = tenantCreateCmd.MarkFlagRequired("admin-email")
	_ = tenantCreateCmd.MarkFlagRequired("admin-password")
}
