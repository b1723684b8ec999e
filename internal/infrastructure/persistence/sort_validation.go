package persistence

import (
	"strings"

	"github.com/tms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// withSortFields returns the common fields plus extra
func withSortFields(extra ...string) map[string]bool {
	fields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

// CommonSortFields contains fields common to every table
var CommonSortFields = withSortFields()

var (
	TenantSortFields      = withSortFields("name", "subdomain", "status")
	UserSortFields        = withSortFields("email", "first_name", "last_name", "status", "last_login_at")
	RoleSortFields        = withSortFields("name", "is_system")
	WarehouseSortFields   = withSortFields("code", "name", "city", "country", "status")
	DriverSortFields      = withSortFields("name", "license_number", "license_expiry", "status")
	VehicleSortFields     = withSortFields("registration", "type", "make", "status", "max_payload_kg")
	BookingSortFields     = withSortFields("booking_number", "direction", "customer_name", "status", "eta", "etd")
	ContainerSortFields   = withSortFields("container_number", "booking_id", "direction", "size", "status", "received_at", "put_away_at", "picked_up_at", "dispatched_at")
	ProductLineSortFields = withSortFields("sku", "container_id", "expected_quantity", "received_quantity", "expiry_date")
	PutAwaySortFields     = withSortFields("sku", "location_code", "quantity", "allocated_quantity", "put_away_at", "warehouse_id")
	AllocationSortFields  = withSortFields("sku", "quantity", "picked_quantity", "status", "container_id")
	PickupSortFields      = withSortFields("quantity", "picked_at", "allocation_id")
	DispatchSortFields    = withSortFields("dispatch_number", "status", "scheduled_at", "started_at", "delivered_at")
)

// paginate applies whitelisted ordering and paging from the filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// searchLike matches the search term case-insensitively against any of columns.
// LOWER/LIKE keeps the query portable between PostgreSQL and SQLite.
func searchLike(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// lastNumber returns the greatest value of column starting with prefix, or ""
func lastNumber(query *gorm.DB, column, prefix string) (string, error) {
	var numbers []string
	err := query.Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}
