package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/infrastructure/printing"
	"github.com/tms/backend/internal/infrastructure/storage"
	"github.com/tms/backend/tests/testutil"
)

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}

type flow struct {
	f         *testutil.Fixture
	svc       *DispatchService
	container *freight.Container
	alloc     *stock.Allocation
	driver    *fleet.Driver
	vehicle   *fleet.Vehicle
}

func newFlow(t *testing.T) *flow {
	f := testutil.NewFixture(t)
	wh := f.SeedWarehouse("WH1")
	c, a := f.SeedPickedExport(wh, "SKU-1", 12)
	svc := NewDispatchService(f.Repos.Dispatch, f.TxScope, f.Logger)
	svc.now = func() time.Time { return time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC) }
	return &flow{
		f:         f,
		svc:       svc,
		container: c,
		alloc:     a,
		driver:    f.SeedDriver("Ali Hassan"),
		vehicle:   f.SeedVehicle("WXY 1234"),
	}
}

func (fl *flow) request() CreateDispatchRequest {
	return CreateDispatchRequest{
		ContainerID:        fl.container.ID,
		DriverID:           fl.driver.ID,
		VehicleID:          fl.vehicle.ID,
		DestinationAddress: " 12 Quay Road, Port Klang ",
		ScheduledAt:        time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC),
	}
}

func TestDispatchService_Create(t *testing.T) {
	fl := newFlow(t)
	f := fl.f

	d, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	require.NoError(t, err)
	assert.Equal(t, "DSP-20260502-0001", d.DispatchNumber)
	assert.Equal(t, "planned", d.Status)
	assert.Equal(t, "12 Quay Road, Port Klang", d.DestinationAddress)

	_, err = fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	assert.Equal(t, "DISPATCH_EXISTS", errorCode(t, err))

	t.Run("container not picked up", func(t *testing.T) {
		wh := f.SeedWarehouse("WH2")
		pending := f.SeedContainer(f.SeedBooking(freight.DirectionExport, wh, true))
		req := fl.request()
		req.ContainerID = pending.ID
		_, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, req)
		assert.Equal(t, "INVALID_STATE", errorCode(t, err))
	})

	t.Run("expired license", func(t *testing.T) {
		_, err := fl.svc.Cancel(f.Ctx, f.TenantID, d.ID)
		require.NoError(t, err)

		expired := f.SeedDriver("Old License")
		past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, expired.Update(expired.Name, "", &past, ""))
		require.NoError(t, f.Repos.Driver.Save(f.Ctx, expired))

		req := fl.request()
		req.DriverID = expired.ID
		_, err = fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, req)
		assert.Equal(t, "LICENSE_EXPIRED", errorCode(t, err))
	})

	t.Run("numbering continues after a cancelled dispatch", func(t *testing.T) {
		next, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
		require.NoError(t, err)
		assert.Equal(t, "DSP-20260502-0002", next.DispatchNumber)
	})

	t.Run("other tenant", func(t *testing.T) {
		_, err := fl.svc.Create(f.Ctx, uuid.New(), f.ActorID, fl.request())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestDispatchService_StartAndComplete(t *testing.T) {
	fl := newFlow(t)
	f := fl.f
	events := testutil.RecordEvents(
		dispatch.EventTypeDispatchPlanned,
		dispatch.EventTypeDispatchStarted,
		dispatch.EventTypeDispatchDelivered,
		freight.EventTypeBookingCompleted,
	)
	f.Bus.Subscribe(events)

	d, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	require.NoError(t, err)

	_, err = fl.svc.Complete(f.Ctx, f.TenantID, d.ID)
	assert.Equal(t, "INVALID_STATE", errorCode(t, err))

	started, err := fl.svc.Start(f.Ctx, f.TenantID, d.ID, f.ActorID)
	require.NoError(t, err)
	assert.Equal(t, "in_transit", started.Status)
	require.NotNil(t, started.StartedAt)

	c, err := f.Repos.Container.FindByIDForTenant(f.Ctx, f.TenantID, fl.container.ID)
	require.NoError(t, err)
	assert.Equal(t, freight.ContainerStatusDispatched, c.Status)
	assert.NotNil(t, c.DispatchedAt)

	a, err := f.Repos.Allocation.FindByIDForTenant(f.Ctx, f.TenantID, fl.alloc.ID)
	require.NoError(t, err)
	assert.Equal(t, stock.AllocationStatusDispatched, a.Status)

	source, err := f.Repos.PutAway.FindByIDForTenant(f.Ctx, f.TenantID, fl.alloc.PutAwayStockID)
	require.NoError(t, err)
	assert.True(t, source.DispatchedQuantity.Equal(a.Quantity))
	assert.True(t, source.OnHand().IsZero())

	driver, err := f.Repos.Driver.FindByIDForTenant(f.Ctx, f.TenantID, fl.driver.ID)
	require.NoError(t, err)
	assert.Equal(t, fleet.DriverStatusOnDuty, driver.Status)

	err = fl.svc.Delete(f.Ctx, f.TenantID, d.ID)
	assert.Equal(t, "INVALID_STATE", errorCode(t, err))

	delivered, err := fl.svc.Complete(f.Ctx, f.TenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "delivered", delivered.Status)

	driver, err = f.Repos.Driver.FindByIDForTenant(f.Ctx, f.TenantID, fl.driver.ID)
	require.NoError(t, err)
	assert.Equal(t, fleet.DriverStatusAvailable, driver.Status)
	vehicle, err := f.Repos.Vehicle.FindByIDForTenant(f.Ctx, f.TenantID, fl.vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, fleet.VehicleStatusAvailable, vehicle.Status)

	b, err := f.Repos.Booking.FindByIDForTenant(f.Ctx, f.TenantID, fl.container.BookingID)
	require.NoError(t, err)
	assert.Equal(t, freight.BookingStatusCompleted, b.Status)

	assert.Equal(t, []string{
		dispatch.EventTypeDispatchPlanned,
		dispatch.EventTypeDispatchStarted,
		dispatch.EventTypeDispatchDelivered,
		freight.EventTypeBookingCompleted,
	}, events.Types())
}

func TestDispatchService_StartBusyDriver(t *testing.T) {
	fl := newFlow(t)
	f := fl.f

	d, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	require.NoError(t, err)

	require.NoError(t, fl.driver.SetStatus(fleet.DriverStatusOffDuty))
	require.NoError(t, f.Repos.Driver.Save(f.Ctx, fl.driver))

	_, err = fl.svc.Start(f.Ctx, f.TenantID, d.ID, f.ActorID)
	assert.Equal(t, "DRIVER_UNAVAILABLE", errorCode(t, err))

	// nothing moved
	c, err := f.Repos.Container.FindByIDForTenant(f.Ctx, f.TenantID, fl.container.ID)
	require.NoError(t, err)
	assert.Equal(t, freight.ContainerStatusPickedUp, c.Status)
	got, err := fl.svc.GetByID(f.Ctx, f.TenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "planned", got.Status)
}

func TestDispatchService_UpdateCancelDelete(t *testing.T) {
	fl := newFlow(t)
	f := fl.f

	d, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	require.NoError(t, err)

	other := f.SeedDriver("Siti Aminah")
	remarks := "Gate 4"
	updated, err := fl.svc.Update(f.Ctx, f.TenantID, d.ID, UpdateDispatchRequest{DriverID: &other.ID, Remarks: &remarks})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.DriverID)
	assert.Equal(t, "Gate 4", updated.Remarks)

	blank := "  "
	_, err = fl.svc.Update(f.Ctx, f.TenantID, d.ID, UpdateDispatchRequest{DestinationAddress: &blank})
	assert.Equal(t, "INVALID_DESTINATION", errorCode(t, err))

	page, err := fl.svc.List(f.Ctx, f.TenantID, shared.Filter{}.With("status", "planned"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	cancelled, err := fl.svc.Cancel(f.Ctx, f.TenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = fl.svc.Cancel(f.Ctx, f.TenantID, d.ID)
	assert.Equal(t, "INVALID_STATE", errorCode(t, err))

	require.NoError(t, fl.svc.Delete(f.Ctx, f.TenantID, d.ID))
	_, err = fl.svc.GetByID(f.Ctx, f.TenantID, d.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestDispatchService_Create_NumberAfterDelete(t *testing.T) {
	fl := newFlow(t)
	f := fl.f

	first, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	require.NoError(t, err)
	_, err = fl.svc.Cancel(f.Ctx, f.TenantID, first.ID)
	require.NoError(t, err)
	second, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	require.NoError(t, err)
	require.NoError(t, fl.svc.Delete(f.Ctx, f.TenantID, first.ID))
	_, err = fl.svc.Cancel(f.Ctx, f.TenantID, second.ID)
	require.NoError(t, err)

	third, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	require.NoError(t, err)
	assert.Equal(t, "DSP-20260502-0002", second.DispatchNumber)
	assert.Equal(t, "DSP-20260502-0003", third.DispatchNumber)
}

type fakePDF struct {
	html string
}

func (p *fakePDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	p.html = html
	return []byte("%PDF-1.7 fake"), nil
}

func deliveryNoteRepos(f *testutil.Fixture) DeliveryNoteRepositories {
	r := f.Repos
	return DeliveryNoteRepositories{
		Tenants:     r.Tenant,
		Dispatches:  r.Dispatch,
		Containers:  r.Container,
		Bookings:    r.Booking,
		Warehouses:  r.Warehouse,
		Drivers:     r.Driver,
		Vehicles:    r.Vehicle,
		Allocations: r.Allocation,
		PutAways:    r.PutAway,
	}
}

func TestDeliveryNoteService(t *testing.T) {
	fl := newFlow(t)
	f := fl.f
	f.SeedTenant("acme")

	d, err := fl.svc.Create(f.Ctx, f.TenantID, f.ActorID, fl.request())
	require.NoError(t, err)

	t.Run("html without storage", func(t *testing.T) {
		svc := NewDeliveryNoteService(deliveryNoteRepos(f), printing.NewTemplateEngine(), nil, nil, "Harbor Logistics", f.Logger)
		note, err := svc.Generate(f.Ctx, f.TenantID, d.ID)
		require.NoError(t, err)
		assert.Equal(t, FormatHTML, note.Format)
		assert.Contains(t, note.HTML, d.DispatchNumber)
		assert.Contains(t, note.HTML, fl.container.ContainerNumber)
		assert.Contains(t, note.HTML, "A-01-01")
		assert.Contains(t, note.HTML, "Harbor Logistics")
	})

	t.Run("pdf is stored and linked", func(t *testing.T) {
		store := storage.NewMemoryObjectStorage("http://files.test")
		pdf := &fakePDF{}
		svc := NewDeliveryNoteService(deliveryNoteRepos(f), printing.NewTemplateEngine(), pdf, store, "Harbor Logistics", f.Logger)

		note, err := svc.Generate(f.Ctx, f.TenantID, d.ID)
		require.NoError(t, err)
		assert.Equal(t, FormatPDF, note.Format)
		assert.True(t, strings.HasSuffix(note.Key, d.DispatchNumber+".pdf"))
		assert.True(t, strings.HasPrefix(note.URL, "http://files.test/"))
		require.NotNil(t, note.ExpiresAt)
		assert.Contains(t, pdf.html, d.DispatchNumber)

		body, ok := store.Get(note.Key)
		require.True(t, ok)
		assert.Equal(t, "%PDF-1.7 fake", string(body))

		saved, err := fl.svc.GetByID(f.Ctx, f.TenantID, d.ID)
		require.NoError(t, err)
		assert.Equal(t, note.Key, saved.DeliveryNoteKey)
	})

	t.Run("cancelled dispatch", func(t *testing.T) {
		_, err := fl.svc.Cancel(f.Ctx, f.TenantID, d.ID)
		require.NoError(t, err)
		svc := NewDeliveryNoteService(deliveryNoteRepos(f), printing.NewTemplateEngine(), nil, nil, "", f.Logger)
		_, err = svc.Generate(f.Ctx, f.TenantID, d.ID)
		assert.Equal(t, "INVALID_STATE", errorCode(t, err))
	})
}
