package valueobject

import (
	"regexp"
	"strings"

	"github.com/tms/backend/internal/domain/shared"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{1,61}[a-z0-9])$`)

var reservedSubdomains = map[string]bool{
	"www":   true,
	"api":   true,
	"app":   true,
	"admin": true,
	"mail":  true,
}

// Subdomain is the DNS label a tenant is served under
type Subdomain struct {
	value string
}

// NewSubdomain validates a tenant subdomain label
func NewSubdomain(raw string) (Subdomain, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if len(v) < 3 || len(v) > 63 || !subdomainPattern.MatchString(v) {
		return Subdomain{}, shared.NewDomainError("INVALID_SUBDOMAIN",
			"Subdomain must be 3-63 lowercase letters, digits or hyphens")
	}
	if reservedSubdomains[v] {
		return Subdomain{}, shared.NewDomainErrorf("INVALID_SUBDOMAIN", "Subdomain %q is reserved", v)
	}
	return Subdomain{value: v}, nil
}

// IsValidSubdomain reports whether raw can be used as a tenant subdomain
func IsValidSubdomain(raw string) bool {
	_, err := NewSubdomain(raw)
	return err == nil
}

// String returns the label
func (s Subdomain) String() string {
	return s.value
}
