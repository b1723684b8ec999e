package valueobject

import (
	"regexp"
	"strings"

	"github.com/tms/backend/internal/domain/shared"
)

var containerNumberPattern = regexp.MustCompile(`^[A-Z]{3}[UJZ][0-9]{7}$`)

// ContainerNumber is an ISO 6346 freight container identifier such as MSCU1234565:
// three-letter owner code, equipment category, six-digit serial and a check digit.
type ContainerNumber struct {
	value string
}

// NewContainerNumber normalizes and validates a container number, including its check digit
func NewContainerNumber(raw string) (ContainerNumber, error) {
	v := normalizeContainerNumber(raw)
	if !containerNumberPattern.MatchString(v) {
		return ContainerNumber{}, shared.NewDomainError("INVALID_CONTAINER_NUMBER",
			"Container number must be 4 letters followed by 7 digits (ISO 6346)")
	}
	if ContainerCheckDigit(v[:10]) != int(v[10]-'0') {
		return ContainerNumber{}, shared.NewDomainErrorf("INVALID_CONTAINER_NUMBER",
			"Container number %s has an invalid check digit", v)
	}
	return ContainerNumber{value: v}, nil
}

// IsValidContainerNumber reports whether raw is a well-formed ISO 6346 number
func IsValidContainerNumber(raw string) bool {
	_, err := NewContainerNumber(raw)
	return err == nil
}

// ContainerCheckDigit computes the ISO 6346 check digit for the first ten characters.
// Letters map to 10..38 skipping multiples of 11; position i is weighted by 2^i;
// the sum mod 11 gives the digit, with 10 folding to 0.
func ContainerCheckDigit(prefix string) int {
	sum := 0
	for i := 0; i < len(prefix) && i < 10; i++ {
		sum += charValue(prefix[i]) << i
	}
	d := sum % 11
	if d == 10 {
		return 0
	}
	return d
}

func charValue(c byte) int {
	if c >= '0' && c <= '9' {
		return int(c - '0')
	}
	v := 10
	for l := byte('A'); l < c; l++ {
		v++
		if v%11 == 0 {
			v++
		}
	}
	return v
}

func normalizeContainerNumber(raw string) string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "", "-", "", "/", "").Replace(v)
}

// String returns the normalized number
func (c ContainerNumber) String() string {
	return c.value
}

// OwnerCode returns the three-letter owner prefix
func (c ContainerNumber) OwnerCode() string {
	if len(c.value) < 3 {
		return ""
	}
	return c.value[:3]
}

// IsZero reports whether the number is unset
func (c ContainerNumber) IsZero() bool {
	return c.value == ""
}
