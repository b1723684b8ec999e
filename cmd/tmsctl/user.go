package main

import (
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage tenant users",
}

var userApproveCmd = &cobra.Command{
	Use:   "approve <email>",
	Short: "Approve a pending user",
	Long: `Approve a user who registered through /api/auth/register.

Registered users stay pending and cannot sign in until approved.

Example:
  tmsctl user approve --tenant acme driver.desk@acme.test`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		sub, _ := cmd.Flags().GetString("tenant")
		tenant, err := a.services.Tenant.ResolveBySubdomain(cmd.Context(), sub)
		if err != nil {
			return err
		}
		u, err := a.services.User.ApproveByEmail(cmd.Context(), tenant.ID, args[0])
		if err != nil {
			return err
		}
		return render(cmd, table{
			header: []string{"ID", "EMAIL", "STATUS"},
			rows:   [][]string{{u.ID.String(), u.Email, u.Status}},
			raw:    u,
		})
	}),
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userApproveCmd)
	userApproveCmd.Flags().String("tenant", "", "Tenant subdomain")
	_ = userApproveCmd.MarkFlagRequired("tenant")
}
