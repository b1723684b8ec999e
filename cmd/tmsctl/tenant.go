package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tms/backend/internal/application/identity"
	"github.com/tms/backend/internal/domain/shared"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
	Long:  `Create, list, suspend and re-activate tenant workspaces.`,
}

var tenantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenants",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		page, _ := cmd.Flags().GetInt("page")
		search, _ := cmd.Flags().GetString("search")
		result, err := a.services.Tenant.List(cmd.Context(), shared.Filter{
			Page:     page,
			PageSize: shared.MaxPageSize,
			Search:   search,
		})
		if err != nil {
			return err
		}
		t := table{
			header: []string{"SUBDOMAIN", "NAME", "STATUS", "CONTACT", "CREATED"},
			raw:    result,
		}
		for _, tn := range result.Items {
			t.rows = append(t.rows, []string{
				tn.Subdomain, tn.Name, tn.Status, tn.ContactEmail,
				tn.CreatedAt.Format("2006-01-02"),
			})
		}
		if err := render(cmd, t); err != nil {
			return err
		}
		if result.Page < result.TotalPages {
			fmt.Fprintf(cmd.ErrOrStderr(), "page %d of %d; use --page %d for more\n",
				result.Page, result.TotalPages, result.Page+1)
		}
		return nil
	}),
}

var tenantSuspendCmd = &cobra.Command{
	Use:   "suspend <subdomain>",
	Short: "Suspend a tenant",
	Long: `Suspend a tenant. Requests for its subdomain are rejected with 403
until it is activated again. Data is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		tn, err := a.services.Tenant.Suspend(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return renderTenant(cmd, tn)
	}),
}

var tenantActivateCmd = &cobra.Command{
	Use:   "activate <subdomain>",
	Short: "Activate a suspended tenant",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		tn, err := a.services.Tenant.Activate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return renderTenant(cmd, tn)
	}),
}

func renderTenant(cmd *cobra.Command, tn *identity.TenantDTO) error {
	return render(cmd, table{
		header: []string{"ID", "SUBDOMAIN", "NAME", "STATUS"},
		rows:   [][]string{{tn.ID.String(), tn.Subdomain, tn.Name, tn.Status}},
		raw:    tn,
	})
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(tenantListCmd, tenantSuspendCmd, tenantActivateCmd)
	tenantListCmd.Flags().Int("page", 1, "Page number")
	tenantListCmd.Flags().String("search", "", "Filter by name or subdomain")
}
