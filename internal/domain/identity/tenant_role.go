package identity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// PermissionWildcard grants every resource or every action
const PermissionWildcard = "*"

var permissionPattern = regexp.MustCompile(`^([a-z][a-z0-9_-]*|\*):([a-z][a-z0-9_-]*|\*)$`)

// TenantRole is a named permission set assigned to tenant users
type TenantRole struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	Permissions []string
	IsSystem    bool
}

// NewTenantRole creates a role with the given permissions
func NewTenantRole(tenantID uuid.UUID, name, description string, permissions []string) (*TenantRole, error) {
	if err := validateRoleName(name); err != nil {
		return nil, err
	}
	r := &TenantRole{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Description:         description,
	}
	if err := r.SetPermissions(permissions); err != nil {
		return nil, err
	}
	return r, nil
}

// NewSystemRole creates a role that cannot be deleted
func NewSystemRole(tenantID uuid.UUID, name, description string, permissions []string) (*TenantRole, error) {
	r, err := NewTenantRole(tenantID, name, description, permissions)
	if err != nil {
		return nil, err
	}
	r.IsSystem = true
	return r, nil
}

// Update changes the role's name and description
func (r *TenantRole) Update(name, description string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(name)
	r.Description = description
	r.Touch()
	return nil
}

// SetPermissions replaces the permission set. Codes are normalized, deduplicated and sorted.
func (r *TenantRole) SetPermissions(permissions []string) error {
	seen := make(map[string]bool, len(permissions))
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		code := strings.ToLower(strings.TrimSpace(p))
		if code == PermissionWildcard {
			code = "*:*"
		}
		if err := ValidatePermission(code); err != nil {
			return err
		}
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	sort.Strings(out)
	r.Permissions = out
	r.Touch()
	return nil
}

// HasPermission reports whether any granted permission covers required
func (r *TenantRole) HasPermission(required string) bool {
	for _, granted := range r.Permissions {
		if PermissionMatches(granted, required) {
			return true
		}
	}
	return false
}

// CanDelete reports whether the role may be removed
func (r *TenantRole) CanDelete() bool {
	return !r.IsSystem
}

// ValidatePermission checks a resource:action permission code
func ValidatePermission(code string) error {
	if !permissionPattern.MatchString(code) {
		return shared.NewDomainErrorf("INVALID_PERMISSION", "Invalid permission %q, expected resource:action", code)
	}
	return nil
}

// PermissionMatches reports whether granted covers required, honoring * on either side of the colon
func PermissionMatches(granted, required string) bool {
	if granted == PermissionWildcard || granted == "*:*" || granted == required {
		return true
	}
	gRes, gAct, ok := strings.Cut(granted, ":")
	if !ok {
		return false
	}
	rRes, rAct, ok := strings.Cut(required, ":")
	if !ok {
		return false
	}
	return (gRes == PermissionWildcard || gRes == rRes) && (gAct == PermissionWildcard || gAct == rAct)
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}
