package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestValidateSortOrder(t *testing.T) {
	for in, want := range map[string]string{
		"":                          "DESC",
		"asc":                       "ASC",
		"  ASC ":                    "ASC",
		"desc":                      "DESC",
		"sideways":                  "DESC",
		"ASC; DROP TABLE bookings;": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(in), "%q", in)
	}
}

func TestValidateSortField(t *testing.T) {
	for in, want := range map[string]string{
		"":                               "created_at",
		"eta":                            "eta",
		" booking_number ":               "booking_number",
		"BOOKING_NUMBER":                 "created_at",
		"password_hash":                  "created_at",
		"eta; DROP TABLE bookings;--":    "created_at",
		"eta, (SELECT 1)":                "created_at",
		"CASE WHEN 1=1 THEN eta END":     "created_at",
		"status' OR '1'='1":              "created_at",
	} {
		assert.Equal(t, want, ValidateSortField(in, BookingSortFields, "created_at"), "%q", in)
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	for _, fields := range []map[string]bool{
		TenantSortFields, UserSortFields, RoleSortFields, WarehouseSortFields,
		DriverSortFields, VehicleSortFields, BookingSortFields, ContainerSortFields,
		ProductLineSortFields, PutAwaySortFields, AllocationSortFields,
		PickupSortFields, DispatchSortFields,
	} {
		for _, common := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, fields[common])
		}
		assert.Greater(t, len(fields), 4)
	}
	assert.False(t, UserSortFields["password_hash"])
}

func TestPaginate(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)

	type row struct{ ID uint }

	t.Run("whitelisted field with paging", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "rows" ORDER BY container_number ASC LIMIT \$1 OFFSET \$2`).
			WithArgs(20, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := shared.Filter{Page: 2, PageSize: 20, OrderBy: "container_number", OrderDir: "asc"}
		var rows []row
		require.NoError(t, paginate(db.Table("rows"), filter, ContainerSortFields, "created_at").Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown field falls back and no paging", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "rows" ORDER BY created_at DESC$`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := shared.Filter{OrderBy: "password"}
		var rows []row
		require.NoError(t, paginate(db.Table("rows"), filter, UserSortFields, "created_at").Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchLike(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)

	type row struct{ ID uint }

	mock.ExpectQuery(`SELECT \* FROM "rows" WHERE \(LOWER\(code\) LIKE \$1 OR LOWER\(name\) LIKE \$2\)`).
		WithArgs("%north%", "%north%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	var rows []row
	require.NoError(t, searchLike(db.Table("rows"), "  North ", "code", "name").Find(&rows).Error)
	assert.NoError(t, mock.ExpectationsWereMet())

	unchanged := db.Table("rows")
	assert.Equal(t, unchanged, searchLike(unchanged, "   ", "code"))
}
