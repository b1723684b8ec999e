package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tms/backend/internal/domain/shared"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Inspect tenant roles",
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the roles of a tenant with their permissions",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		sub, _ := cmd.Flags().GetString("tenant")
		tenant, err := a.services.Tenant.ResolveBySubdomain(cmd.Context(), sub)
		if err != nil {
			return err
		}
		result, err := a.services.Role.List(cmd.Context(), tenant.ID, shared.Filter{Page: 1, PageSize: shared.MaxPageSize})
		if err != nil {
			return err
		}
		t := table{
			header: []string{"NAME", "SYSTEM", "USERS", "PERMISSIONS"},
			raw:    result.Items,
		}
		for _, r := range result.Items {
			t.rows = append(t.rows, []string{
				r.Name, strconv.FormatBool(r.IsSystem), strconv.FormatInt(r.UserCount, 10),
				strings.Join(r.Permissions, ","),
			})
		}
		return render(cmd, t)
	}),
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rolesCmd.AddCommand(rolesListCmd)
	rolesListCmd.Flags().String("tenant", "", "Tenant subdomain")
	_ = rolesListCmd.MarkFlagRequired("tenant")
}
