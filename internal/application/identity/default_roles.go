package identity

import (
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/identity"
	"gopkg.in/yaml.v3"
)

// AdminRoleName is the seeded role given to the onboarding user
const AdminRoleName = "Admin"

//go:embed default_roles.yaml
var defaultRolesYAML []byte

// RoleTemplate describes a role seeded into new tenants
type RoleTemplate struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	System      bool     `yaml:"system"`
	Permissions []string `yaml:"permissions"`
}

type roleTemplateFile struct {
	Roles []RoleTemplate `yaml:"roles"`
}

// DefaultRoleTemplates parses the embedded default role set
func DefaultRoleTemplates() ([]RoleTemplate, error) {
	return ParseRoleTemplates(defaultRolesYAML)
}

// ParseRoleTemplates parses a role template document
func ParseRoleTemplates(data []byte) ([]RoleTemplate, error) {
	var file roleTemplateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse role templates: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("parse role templates: no roles defined")
	}
	return file.Roles, nil
}

// buildRoles instantiates the templates for a tenant
func buildRoles(tenantID uuid.UUID, templates []RoleTemplate) ([]*identity.TenantRole, error) {
	roles := make([]*identity.TenantRole, 0, len(templates))
	for _, tpl := range templates {
		var (
			role *identity.TenantRole
			err  error
		)
		if tpl.System {
			role, err = identity.NewSystemRole(tenantID, tpl.Name, tpl.Description, tpl.Permissions)
		} else {
			role, err = identity.NewTenantRole(tenantID, tpl.Name, tpl.Description, tpl.Permissions)
		}
		if err != nil {
			return nil, fmt.Errorf("role template %q: %w", tpl.Name, err)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
