package persistence

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/domain/warehouse"
)

func TestTenantRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := testCtx()

	acme, err := identity.NewTenant("Acme Logistics", "acme")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, acme))
	beta, err := identity.NewTenant("Beta Haulage", "beta-haul")
	require.NoError(t, err)
	require.NoError(t, beta.Suspend())
	require.NoError(t, repo.Save(ctx, beta))

	found, err := repo.FindBySubdomain(ctx, "  ACME ")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, found.ID)
	assert.Equal(t, identity.TenantStatusActive, found.Status)

	exists, err := repo.ExistsBySubdomain(ctx, "beta-haul")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindBySubdomain(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	suspended, err := repo.FindAll(ctx, shared.DefaultFilter().With("status", identity.TenantStatusSuspended))
	require.NoError(t, err)
	require.Len(t, suspended, 1)
	assert.Equal(t, "beta-haul", suspended[0].Subdomain)

	count, err := repo.Count(ctx, shared.Filter{Search: "logis"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTenantUserAndRoleRepositories(t *testing.T) {
	db := newTestDB(t)
	users := NewGormTenantUserRepository(db)
	roles := NewGormTenantRoleRepository(db)
	ctx := testCtx()
	tenantID, otherTenant := newTenantID(), newTenantID()

	role, err := identity.NewSystemRole(tenantID, "Admin", "everything", []string{"*"})
	require.NoError(t, err)
	require.NoError(t, roles.Save(ctx, role))

	byName, err := roles.FindByName(ctx, tenantID, "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"*:*"}, byName.Permissions)
	assert.True(t, byName.IsSystem)

	taken, err := roles.ExistsByName(ctx, otherTenant, "Admin")
	require.NoError(t, err)
	assert.False(t, taken, "role names are unique per tenant only")

	u, err := identity.NewActiveTenantUser(tenantID, "Ops@Acme.io", "s3cretpass", "Olive", "Ops")
	require.NoError(t, err)
	require.NoError(t, u.AssignRole(role.ID))
	require.NoError(t, users.Save(ctx, u))

	found, err := users.FindByEmail(ctx, tenantID, "OPS@acme.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.True(t, found.VerifyPassword("s3cretpass"))

	_, err = users.FindByEmail(ctx, otherTenant, "ops@acme.io")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	n, err := users.CountByRole(ctx, tenantID, role.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	err = users.DeleteForTenant(ctx, otherTenant, u.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	require.NoError(t, users.DeleteForTenant(ctx, tenantID, u.ID))
}

func TestWarehouseRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormWarehouseRepository(db)
	ctx := testCtx()
	f := newFixture(t, db)

	north := f.warehouse("wh-north")
	south := f.warehouse("WH-SOUTH")
	require.NoError(t, south.Deactivate())
	require.NoError(t, repo.Save(ctx, south))

	t.Run("find by code is case-insensitive", func(t *testing.T) {
		w, err := repo.FindByCode(ctx, f.tenantID, "wh-north")
		require.NoError(t, err)
		assert.Equal(t, north.ID, w.ID)
		assert.Equal(t, "WH-NORTH", w.Code)
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, newTenantID(), north.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		list, err := repo.FindAllForTenant(ctx, newTenantID(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("status filter and ordering", func(t *testing.T) {
		active, err := repo.FindAllForTenant(ctx, f.tenantID, shared.DefaultFilter().With("status", warehouse.StatusActive))
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, north.ID, active[0].ID)

		all, err := repo.FindAllForTenant(ctx, f.tenantID, shared.Filter{OrderBy: "code", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "WH-NORTH", all[0].Code)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, f.tenantID, south.ID))
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, f.tenantID, south.ID), shared.ErrNotFound)
		count, err := repo.CountForTenant(ctx, f.tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestContainerRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormContainerRepository(db)
	ctx := testCtx()
	f := newFixture(t, db)
	wh := f.warehouse("WH1")
	b := f.booking(freight.DirectionImport, wh, "IMP-20260101-0001")

	c := f.container(b)

	open, err := repo.ExistsOpenNumber(ctx, f.tenantID, c.ContainerNumber, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, open)

	open, err = repo.ExistsOpenNumber(ctx, f.tenantID, c.ContainerNumber, c.ID)
	require.NoError(t, err)
	assert.False(t, open, "the container itself is excluded")

	f.advance(c, freight.ContainerStatusReceived)
	f.advance(c, freight.ContainerStatusPutAway)

	open, err = repo.ExistsOpenNumber(ctx, f.tenantID, c.ContainerNumber, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, open, "a finished container frees its number")

	second := f.container(b)
	byBooking, err := repo.FindByBooking(ctx, f.tenantID, b.ID)
	require.NoError(t, err)
	assert.Len(t, byBooking, 2)

	counts, err := repo.CountByStatus(ctx, f.tenantID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []freight.StatusCount{
		{Direction: "import", Status: "expecting", Count: 1},
		{Direction: "import", Status: "put_away", Count: 1},
	}, counts)

	loaded, err := repo.FindByIDForUpdate(ctx, f.tenantID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, freight.ContainerStatusExpecting, loaded.Status)
	assert.Equal(t, b.ID, loaded.BookingID)
}

func TestPutAwayRepository_Sums(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPutAwayRepository(db)
	ctx := testCtx()
	f := newFixture(t, db)
	wh := f.warehouse("WH1")
	c := f.container(f.booking(freight.DirectionImport, wh, "IMP-20260101-0001"))
	line := f.line(c, "sku-1", 10)
	f.advance(c, freight.ContainerStatusReceived)

	first := f.putAway(c, line, wh, "A-01-01", 6, 0)
	second := f.putAway(c, line, wh, "a-01-02", 4, 6)

	total, err := repo.SumByProductLine(ctx, f.tenantID, line.ID, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(total), "got %s", total)

	others, err := repo.SumByProductLine(ctx, f.tenantID, line.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4).Equal(others), "got %s", others)

	require.NoError(t, second.Reserve(decimal.NewFromInt(4)))
	require.NoError(t, repo.Save(ctx, second))

	available, err := repo.SumAvailable(ctx, f.tenantID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6).Equal(available), "got %s", available)

	onlyAvailable, err := repo.FindAllForTenant(ctx, f.tenantID, shared.DefaultFilter().With("available_only", true))
	require.NoError(t, err)
	require.Len(t, onlyAvailable, 1)
	assert.Equal(t, first.ID, onlyAvailable[0].ID)

	byLocation, err := repo.FindAllForTenant(ctx, f.tenantID, shared.DefaultFilter().With("location_code", "a-01-02"))
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "A-01-02", byLocation[0].LocationCode)

	withStock, err := repo.CountWithStockByWarehouse(ctx, f.tenantID, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), withStock)

	empty, err := repo.SumByProductLine(ctx, newTenantID(), line.ID, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestAllocationAndPickupRepositories(t *testing.T) {
	db := newTestDB(t)
	allocations := NewGormAllocationRepository(db)
	pickups := NewGormPickupRepository(db)
	ctx := testCtx()
	f := newFixture(t, db)
	wh := f.warehouse("WH1")
	imp := f.container(f.booking(freight.DirectionImport, wh, "IMP-20260101-0001"))
	line := f.line(imp, "SKU-1", 10)
	f.advance(imp, freight.ContainerStatusReceived)
	src := f.putAway(imp, line, wh, "A-01-01", 10, 0)

	exp := f.container(f.booking(freight.DirectionExport, wh, "EXP-20260101-0001"))
	a, err := stock.NewAllocation(exp, src, decimal.NewFromInt(3))
	require.NoError(t, err)
	require.NoError(t, allocations.Save(ctx, a))

	p, err := stock.NewPickupStock(exp, a, decimal.NewFromInt(2), uuid.Nil, "first pick")
	require.NoError(t, err)
	require.NoError(t, pickups.Save(ctx, p))
	require.NoError(t, allocations.Save(ctx, a))

	locked, err := allocations.FindByContainerForUpdate(ctx, f.tenantID, exp.ID)
	require.NoError(t, err)
	require.Len(t, locked, 1)
	assert.True(t, decimal.NewFromInt(2).Equal(locked[0].PickedQuantity))
	assert.Equal(t, "SKU-1", locked[0].SKU)

	n, err := allocations.CountByContainer(ctx, f.tenantID, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	byAllocation, err := pickups.FindAllForTenant(ctx, f.tenantID, shared.DefaultFilter().With("allocation_id", a.ID))
	require.NoError(t, err)
	require.Len(t, byAllocation, 1)
	assert.Equal(t, "first pick", byAllocation[0].Notes)

	assert.ErrorIs(t, pickups.DeleteForTenant(ctx, newTenantID(), p.ID), shared.ErrNotFound)
	require.NoError(t, pickups.DeleteForTenant(ctx, f.tenantID, p.ID))
}

func TestBookingAndDispatchRepositories(t *testing.T) {
	db := newTestDB(t)
	bookings := NewGormBookingRepository(db)
	dispatches := NewGormDispatchRepository(db)
	ctx := testCtx()
	f := newFixture(t, db)
	wh := f.warehouse("WH1")

	imp := f.booking(freight.DirectionImport, wh, "IMP-20260101-0001")
	f.booking(freight.DirectionImport, wh, "IMP-20260101-0002")
	exp := f.booking(freight.DirectionExport, wh, "EXP-20260101-0001")

	last, err := bookings.LastNumberWithPrefix(ctx, f.tenantID, "IMP-20260101-")
	require.NoError(t, err)
	assert.Equal(t, "IMP-20260101-0002", last)

	last, err = bookings.LastNumberWithPrefix(ctx, newTenantID(), "IMP-20260101-")
	require.NoError(t, err)
	assert.Empty(t, last, "sequences are per tenant")

	open, err := bookings.CountByWarehouse(ctx, f.tenantID, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), open)

	require.NoError(t, imp.Cancel(false))
	require.NoError(t, bookings.Save(ctx, imp))
	open, err = bookings.CountByWarehouse(ctx, f.tenantID, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), open)

	statusCounts, err := bookings.CountByStatus(ctx, f.tenantID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []freight.StatusCount{
		{Direction: "export", Status: "confirmed", Count: 1},
		{Direction: "import", Status: "cancelled", Count: 1},
		{Direction: "import", Status: "confirmed", Count: 1},
	}, statusCounts)

	impContainer := f.container(f.booking(freight.DirectionImport, wh, "IMP-20260101-0003"))
	line := f.line(impContainer, "SKU-1", 5)
	f.advance(impContainer, freight.ContainerStatusReceived)
	src := f.putAway(impContainer, line, wh, "B-01", 5, 0)
	picked := f.pickedExport(exp, src, 5)

	driver := f.driver("Dana Driver", "dl-100")
	truck := f.vehicle("ab 12 cd")
	d := f.dispatch("DSP-20260101-0001", picked, exp, driver, truck)

	active, err := dispatches.ExistsActiveForContainer(ctx, f.tenantID, picked.ID, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, active)
	active, err = dispatches.ExistsActiveForContainer(ctx, f.tenantID, picked.ID, d.ID)
	require.NoError(t, err)
	assert.False(t, active)

	byDriver, err := dispatches.CountActiveByDriver(ctx, f.tenantID, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byDriver)

	require.NoError(t, d.Cancel())
	require.NoError(t, dispatches.Save(ctx, d))
	byVehicle, err := dispatches.CountActiveByVehicle(ctx, f.tenantID, truck.ID)
	require.NoError(t, err)
	assert.Zero(t, byVehicle)

	dispatchCounts, err := dispatches.CountByStatus(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, []dispatch.StatusCount{{Status: dispatch.StatusCancelled, Count: 1}}, dispatchCounts)

	last, err = dispatches.LastNumberWithPrefix(ctx, f.tenantID, "DSP-20260101-")
	require.NoError(t, err)
	assert.Equal(t, "DSP-20260101-0001", last)
}

func TestBookingNumbers_UniquePerTenant(t *testing.T) {
	db := newTestDB(t)
	bookings := NewGormBookingRepository(db)
	f := newFixture(t, db)
	wh := f.warehouse("WH1")
	f.booking(freight.DirectionImport, wh, "IMP-20260101-0001")

	dup, err := freight.NewBooking(f.tenantID, "IMP-20260101-0001", freight.DirectionImport, wh.ID, freight.BookingDetails{CustomerName: "Acme"})
	require.NoError(t, err)
	assert.ErrorIs(t, bookings.Save(testCtx(), dup), shared.ErrAlreadyExists)

	other := newFixture(t, db)
	other.booking(freight.DirectionImport, other.warehouse("WH1"), "IMP-20260101-0001")
}

func TestStatusHistoryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStatusHistoryRepository(db)
	ctx := testCtx()
	f := newFixture(t, db)
	c := f.container(f.booking(freight.DirectionImport, f.warehouse("WH1"), "IMP-20260101-0001"))
	actor := uuid.New()

	require.NoError(t, c.TransitionTo(freight.ContainerStatusReceived, actor))
	require.NoError(t, c.TransitionTo(freight.ContainerStatusPutAway, uuid.Nil))
	for _, evt := range c.GetDomainEvents() {
		changed, ok := evt.(*freight.ContainerStatusChangedEvent)
		require.True(t, ok)
		require.NoError(t, repo.Append(ctx, freight.NewStatusHistory(changed)))
	}

	history, err := repo.FindByContainer(ctx, f.tenantID, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, freight.ContainerStatusExpecting, history[0].FromStatus)
	assert.Equal(t, freight.ContainerStatusReceived, history[0].ToStatus)
	require.NotNil(t, history[0].ActorID)
	assert.Equal(t, actor, *history[0].ActorID)
	assert.Nil(t, history[1].ActorID)

	other, err := repo.FindByContainer(ctx, newTenantID(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil, "Warehouse"))
	other := errors.New("connection reset")
	assert.Same(t, other, translate(other, "Warehouse"))
}
