package stock

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/tests/testutil"
)

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type services struct {
	putAways    *PutAwayService
	allocations *AllocationService
	pickups     *PickupService
}

func newServices(f *testutil.Fixture) services {
	return services{
		putAways:    NewPutAwayService(f.Repos.PutAway, f.TxScope, f.Logger),
		allocations: NewAllocationService(f.Repos.Allocation, f.TxScope, f.Logger),
		pickups:     NewPickupService(f.Repos.Pickup, f.TxScope, f.Logger),
	}
}

func TestPutAwayService_Create(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f).putAways
	wh := f.SeedWarehouse("WH1")
	c, line := f.SeedReceivedImport(wh, "SKU-1", 100)

	req := CreatePutAwayRequest{
		ContainerID:   c.ID,
		ProductLineID: line.ID,
		WarehouseID:   wh.ID,
		LocationCode:  "a-01-02",
		Quantity:      qty(60),
	}
	p, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, req)
	require.NoError(t, err)
	assert.Equal(t, "A-01-02", p.LocationCode)
	assert.Equal(t, "SKU-1", p.SKU)
	assert.True(t, p.AvailableQuantity.Equal(qty(60)))
	require.NotNil(t, p.PutAwayBy)
	assert.Equal(t, f.ActorID, *p.PutAwayBy)

	t.Run("over the received quantity", func(t *testing.T) {
		over := req
		over.Quantity = qty(41)
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, over)
		assert.Equal(t, "QUANTITY_EXCEEDED", errorCode(t, err))
	})

	t.Run("split across locations", func(t *testing.T) {
		rest := req
		rest.LocationCode = "B-02-01"
		rest.Quantity = qty(40)
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, rest)
		require.NoError(t, err)
	})

	t.Run("bad location", func(t *testing.T) {
		bad := req
		bad.LocationCode = "A 01"
		bad.Quantity = qty(1)
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bad)
		assert.Equal(t, "INVALID_LOCATION", errorCode(t, err))
	})

	t.Run("container not received", func(t *testing.T) {
		b := f.SeedBooking(freight.DirectionImport, wh, true)
		pending := f.SeedContainer(b)
		pendingLine := f.SeedProductLine(pending, "SKU-2", 5)
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreatePutAwayRequest{
			ContainerID:   pending.ID,
			ProductLineID: pendingLine.ID,
			WarehouseID:   wh.ID,
			LocationCode:  "A-01-01",
			Quantity:      qty(5),
		})
		assert.Equal(t, "INVALID_STATE", errorCode(t, err))
	})

	t.Run("other tenant", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, uuid.New(), f.ActorID, req)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestPutAwayService_UpdateAndDelete(t *testing.T) {
	f := testutil.NewFixture(t)
	s := newServices(f)
	wh := f.SeedWarehouse("WH1")
	c, line := f.SeedReceivedImport(wh, "SKU-1", 60)
	p := f.SeedPutAway(c, line, wh, "A-01-01", 30)

	newQty := qty(50)
	loc := "c-03-01"
	updated, err := s.putAways.Update(f.Ctx, f.TenantID, p.ID, UpdatePutAwayRequest{Quantity: &newQty, LocationCode: &loc})
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(qty(50)))
	assert.Equal(t, "C-03-01", updated.LocationCode)

	tooMuch := qty(61)
	_, err = s.putAways.Update(f.Ctx, f.TenantID, p.ID, UpdatePutAwayRequest{Quantity: &tooMuch})
	assert.Equal(t, "QUANTITY_EXCEEDED", errorCode(t, err))

	other := f.SeedPutAway(c, line, wh, "A-01-09", 10)

	page, err := s.putAways.List(f.Ctx, f.TenantID, shared.Filter{}.With("location_code", "C-03-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	exp := f.SeedContainer(f.SeedBooking(freight.DirectionExport, wh, true))
	_, err = s.allocations.Create(f.Ctx, f.TenantID, f.ActorID, CreateAllocationRequest{
		ContainerID:    exp.ID,
		PutAwayStockID: p.ID,
		Quantity:       qty(20),
	})
	require.NoError(t, err)

	below := qty(10)
	_, err = s.putAways.Update(f.Ctx, f.TenantID, p.ID, UpdatePutAwayRequest{Quantity: &below})
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, err))

	err = s.putAways.Delete(f.Ctx, f.TenantID, p.ID)
	assert.Equal(t, "STOCK_ALLOCATED", errorCode(t, err))

	require.NoError(t, s.putAways.Delete(f.Ctx, f.TenantID, other.ID))
	_, err = s.putAways.GetByID(f.Ctx, f.TenantID, other.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestAllocationService(t *testing.T) {
	f := testutil.NewFixture(t)
	s := newServices(f)
	wh := f.SeedWarehouse("WH1")
	source := f.SeedStock(wh, "SKU-9", 40)
	exp := f.SeedContainer(f.SeedBooking(freight.DirectionExport, wh, true))

	a, err := s.allocations.Create(f.Ctx, f.TenantID, f.ActorID, CreateAllocationRequest{
		ContainerID:    exp.ID,
		PutAwayStockID: source.ID,
		Quantity:       qty(25),
	})
	require.NoError(t, err)
	assert.Equal(t, "allocated", a.Status)
	assert.Equal(t, "SKU-9", a.SKU)
	assert.True(t, a.RemainingQuantity.Equal(qty(25)))

	row, err := s.putAways.GetByID(f.Ctx, f.TenantID, source.ID)
	require.NoError(t, err)
	assert.True(t, row.AllocatedQuantity.Equal(qty(25)))
	assert.True(t, row.AvailableQuantity.Equal(qty(15)))

	t.Run("insufficient stock", func(t *testing.T) {
		_, err := s.allocations.Create(f.Ctx, f.TenantID, f.ActorID, CreateAllocationRequest{
			ContainerID:    exp.ID,
			PutAwayStockID: source.ID,
			Quantity:       qty(16),
		})
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})

	t.Run("import container", func(t *testing.T) {
		imp, _ := f.SeedReceivedImport(wh, "SKU-10", 5)
		_, err := s.allocations.Create(f.Ctx, f.TenantID, f.ActorID, CreateAllocationRequest{
			ContainerID:    imp.ID,
			PutAwayStockID: source.ID,
			Quantity:       qty(1),
		})
		assert.Equal(t, "INVALID_DIRECTION", errorCode(t, err))
	})

	t.Run("resize", func(t *testing.T) {
		grown, err := s.allocations.Update(f.Ctx, f.TenantID, a.ID, UpdateAllocationRequest{Quantity: qty(40)})
		require.NoError(t, err)
		assert.True(t, grown.Quantity.Equal(qty(40)))

		_, err = s.allocations.Update(f.Ctx, f.TenantID, a.ID, UpdateAllocationRequest{Quantity: qty(41)})
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		_, err = s.allocations.Update(f.Ctx, f.TenantID, a.ID, UpdateAllocationRequest{Quantity: qty(30)})
		require.NoError(t, err)
		row, err := s.putAways.GetByID(f.Ctx, f.TenantID, source.ID)
		require.NoError(t, err)
		assert.True(t, row.AllocatedQuantity.Equal(qty(30)))
	})

	t.Run("list by container", func(t *testing.T) {
		page, err := s.allocations.List(f.Ctx, f.TenantID, shared.Filter{}.With("container_id", exp.ID.String()))
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("delete releases the source", func(t *testing.T) {
		require.NoError(t, s.allocations.Delete(f.Ctx, f.TenantID, a.ID))
		row, err := s.putAways.GetByID(f.Ctx, f.TenantID, source.ID)
		require.NoError(t, err)
		assert.True(t, row.AllocatedQuantity.IsZero())
		assert.True(t, row.AvailableQuantity.Equal(qty(40)))
	})
}

func TestPickupService(t *testing.T) {
	f := testutil.NewFixture(t)
	s := newServices(f)
	wh := f.SeedWarehouse("WH1")
	source := f.SeedStock(wh, "SKU-5", 20)
	exp := f.SeedContainer(f.SeedBooking(freight.DirectionExport, wh, true))
	a, err := s.allocations.Create(f.Ctx, f.TenantID, f.ActorID, CreateAllocationRequest{
		ContainerID:    exp.ID,
		PutAwayStockID: source.ID,
		Quantity:       qty(12),
	})
	require.NoError(t, err)

	first, err := s.pickups.Create(f.Ctx, f.TenantID, f.ActorID, CreatePickupRequest{AllocationID: a.ID, Quantity: qty(8), Notes: " aisle 3 "})
	require.NoError(t, err)
	assert.Equal(t, exp.ID, first.ContainerID)
	assert.Equal(t, source.ID, first.PutAwayStockID)
	assert.Equal(t, "aisle 3", first.Notes)

	_, err = s.pickups.Create(f.Ctx, f.TenantID, f.ActorID, CreatePickupRequest{AllocationID: a.ID, Quantity: qty(5)})
	assert.Equal(t, "QUANTITY_EXCEEDED", errorCode(t, err))

	_, err = s.pickups.Create(f.Ctx, f.TenantID, f.ActorID, CreatePickupRequest{AllocationID: a.ID, Quantity: qty(4)})
	require.NoError(t, err)

	alloc, err := s.allocations.GetByID(f.Ctx, f.TenantID, a.ID)
	require.NoError(t, err)
	assert.True(t, alloc.PickedQuantity.Equal(qty(12)))
	assert.True(t, alloc.RemainingQuantity.IsZero())

	err = s.allocations.Delete(f.Ctx, f.TenantID, a.ID)
	assert.Equal(t, "ALLOCATION_PICKED", errorCode(t, err))

	_, err = s.allocations.Update(f.Ctx, f.TenantID, a.ID, UpdateAllocationRequest{Quantity: qty(10)})
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, err))

	page, err := s.pickups.List(f.Ctx, f.TenantID, shared.Filter{}.With("allocation_id", a.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	require.NoError(t, s.pickups.Delete(f.Ctx, f.TenantID, first.ID))
	alloc, err = s.allocations.GetByID(f.Ctx, f.TenantID, a.ID)
	require.NoError(t, err)
	assert.True(t, alloc.PickedQuantity.Equal(qty(4)))
	assert.Equal(t, "allocated", alloc.Status)

	t.Run("container already picked up", func(t *testing.T) {
		c, err := f.Repos.Container.FindByIDForTenant(f.Ctx, f.TenantID, exp.ID)
		require.NoError(t, err)
		c.Status = freight.ContainerStatusPickedUp
		require.NoError(t, f.Repos.Container.Save(f.Ctx, c))

		_, err = s.pickups.Create(f.Ctx, f.TenantID, f.ActorID, CreatePickupRequest{AllocationID: a.ID, Quantity: qty(1)})
		assert.Equal(t, "INVALID_STATE", errorCode(t, err))
	})
}
