package freight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/application/document"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/storage"
	"github.com/tms/backend/tests/testutil"
)

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}

type services struct {
	bookings   *BookingService
	containers *ContainerService
	lines      *ProductLineService
}

func newServices(f *testutil.Fixture, store document.ObjectStorage) services {
	r := f.Repos
	return services{
		bookings:   NewBookingService(r.Booking, r.Container, r.Warehouse, store, f.TxScope, f.Logger),
		containers: NewContainerService(r.Container, r.Booking, r.ProductLine, r.StatusHistory, r.PutAway, r.Allocation, f.TxScope, f.Logger),
		lines:      NewProductLineService(r.ProductLine, r.Container, r.PutAway, f.TxScope, f.Logger),
	}
}

func bookingRequest(direction string, warehouseID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{
		Direction:           direction,
		WarehouseID:         warehouseID,
		BookingDetailsInput: BookingDetailsInput{CustomerName: "Acme Imports", VesselName: "MSC Aurora"},
	}
}

func TestBookingService_Create_Numbering(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).bookings
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC) }
	wh := f.SeedWarehouse("WH1")

	first, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
	require.NoError(t, err)
	second, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
	require.NoError(t, err)
	export, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("export", wh.ID))
	require.NoError(t, err)

	assert.Equal(t, "IMP-20260314-0001", first.BookingNumber)
	assert.Equal(t, "IMP-20260314-0002", second.BookingNumber)
	assert.Equal(t, "EXP-20260314-0001", export.BookingNumber)
	assert.Equal(t, "draft", first.Status)

	t.Run("sequence is per tenant", func(t *testing.T) {
		other := testutil.NewFixture(t)
		otherWH := other.SeedWarehouse("WH1")
		otherSvc := newServices(other, nil).bookings
		otherSvc.now = svc.now
		resp, err := otherSvc.Create(other.Ctx, other.TenantID, other.ActorID, bookingRequest("import", otherWH.ID))
		require.NoError(t, err)
		assert.Equal(t, "IMP-20260314-0001", resp.BookingNumber)
	})
}

func TestBookingService_Create_Validation(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).bookings
	wh := f.SeedWarehouse("WH1")

	t.Run("unknown direction", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("transit", wh.ID))
		assert.Equal(t, "INVALID_DIRECTION", errorCode(t, err))
	})

	t.Run("warehouse of another tenant", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, uuid.New(), f.ActorID, bookingRequest("import", wh.ID))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("inactive warehouse", func(t *testing.T) {
		inactive := f.SeedWarehouse("WH2")
		require.NoError(t, inactive.Deactivate())
		require.NoError(t, f.Repos.Warehouse.Save(f.Ctx, inactive))
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", inactive.ID))
		assert.Equal(t, "WAREHOUSE_INACTIVE", errorCode(t, err))
	})
}

func TestBookingService_Lifecycle(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil)
	wh := f.SeedWarehouse("WH1")

	b, err := svc.bookings.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
	require.NoError(t, err)

	confirmed, err := svc.bookings.Confirm(f.Ctx, f.TenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	_, err = svc.bookings.Confirm(f.Ctx, f.TenantID, b.ID)
	assert.Equal(t, "INVALID_STATE", errorCode(t, err))

	_, err = svc.bookings.Complete(f.Ctx, f.TenantID, b.ID)
	assert.Equal(t, "INVALID_STATE", errorCode(t, err), "no containers yet")

	c, err := svc.containers.Create(f.Ctx, f.TenantID, f.ActorID, CreateContainerRequest{
		BookingID:       b.ID,
		ContainerNumber: testutil.NextContainerNumber(),
		Size:            "40HC",
	})
	require.NoError(t, err)

	_, err = svc.bookings.Complete(f.Ctx, f.TenantID, b.ID)
	assert.Equal(t, "CONTAINERS_PENDING", errorCode(t, err))

	_, err = svc.containers.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "received"})
	require.NoError(t, err)

	got, err := svc.bookings.GetByID(f.Ctx, f.TenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got.Status)

	_, err = svc.bookings.Cancel(f.Ctx, f.TenantID, b.ID)
	assert.Equal(t, "INVALID_STATE", errorCode(t, err), "containers already handled")
}

func TestBookingService_Cancel(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).bookings
	wh := f.SeedWarehouse("WH1")

	b, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("export", wh.ID))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(f.Ctx, f.TenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = svc.Cancel(f.Ctx, f.TenantID, b.ID)
	assert.Equal(t, "INVALID_STATE", errorCode(t, err))

	_, err = svc.Update(f.Ctx, f.TenantID, b.ID, UpdateBookingRequest{BookingDetailsInput: BookingDetailsInput{CustomerName: "Late"}})
	assert.Equal(t, "INVALID_STATE", errorCode(t, err))
}

func TestBookingService_Update(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).bookings
	wh := f.SeedWarehouse("WH1")
	other := f.SeedWarehouse("WH2")

	b, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
	require.NoError(t, err)

	updated, err := svc.Update(f.Ctx, f.TenantID, b.ID, UpdateBookingRequest{
		WarehouseID:         &other.ID,
		BookingDetailsInput: BookingDetailsInput{CustomerName: "Globex", VoyageNumber: "024W"},
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.WarehouseID)
	assert.Equal(t, "Globex", updated.CustomerName)
	assert.Equal(t, "024W", updated.VoyageNumber)

	_, err = svc.Confirm(f.Ctx, f.TenantID, b.ID)
	require.NoError(t, err)

	_, err = svc.Update(f.Ctx, f.TenantID, b.ID, UpdateBookingRequest{
		WarehouseID:         &wh.ID,
		BookingDetailsInput: BookingDetailsInput{CustomerName: "Globex"},
	})
	assert.Equal(t, "INVALID_STATE", errorCode(t, err), "warehouse is fixed once confirmed")
}

func TestBookingService_Delete(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil)
	wh := f.SeedWarehouse("WH1")

	t.Run("draft without containers", func(t *testing.T) {
		b, err := svc.bookings.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
		require.NoError(t, err)
		require.NoError(t, svc.bookings.Delete(f.Ctx, f.TenantID, b.ID))
		_, err = svc.bookings.GetByID(f.Ctx, f.TenantID, b.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("draft with containers", func(t *testing.T) {
		b, err := svc.bookings.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
		require.NoError(t, err)
		_, err = svc.containers.Create(f.Ctx, f.TenantID, f.ActorID, CreateContainerRequest{
			BookingID: b.ID, ContainerNumber: testutil.NextContainerNumber(), Size: "20GP",
		})
		require.NoError(t, err)
		assert.Equal(t, "BOOKING_HAS_CONTAINERS", errorCode(t, svc.bookings.Delete(f.Ctx, f.TenantID, b.ID)))
	})

	t.Run("confirmed", func(t *testing.T) {
		b := f.SeedBooking(freight.DirectionImport, wh, true)
		assert.Equal(t, "INVALID_STATE", errorCode(t, svc.bookings.Delete(f.Ctx, f.TenantID, b.ID)))
	})
}

func TestBookingService_Create_NumberAfterDelete(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).bookings
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	wh := f.SeedWarehouse("WH1")

	first, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
	require.NoError(t, err)
	second, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(f.Ctx, f.TenantID, first.ID))

	third, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
	require.NoError(t, err)
	assert.Equal(t, "IMP-20261019-0002", second.BookingNumber)
	assert.Equal(t, "IMP-20261019-0003", third.BookingNumber)
	assert.NotEqual(t, second.BookingNumber, third.BookingNumber)

	fourth, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, bookingRequest("import", wh.ID))
	require.NoError(t, err)
	assert.Equal(t, "IMP-20261019-0004", fourth.BookingNumber)
}

func TestBookingService_Attachments(t *testing.T) {
	f := testutil.NewFixture(t)
	store := storage.NewMemoryObjectStorage("http://files.test")
	svc := newServices(f, store).bookings
	b := f.SeedBooking(freight.DirectionImport, f.SeedWarehouse("WH1"), false)

	body := "commercial invoice"
	att, err := svc.UploadAttachment(f.Ctx, f.TenantID, b.ID, "C:\\docs\\invoice 01.pdf", "application/pdf", int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "invoice_01.pdf", att.FileName)
	assert.True(t, strings.HasPrefix(att.Key, "tenants/"+f.TenantID.String()+"/bookings/"+b.ID.String()+"/attachments/"))
	assert.NotEmpty(t, att.URL)

	list, err := svc.ListAttachments(f.Ctx, f.TenantID, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "invoice_01.pdf", list[0].FileName)
	assert.Equal(t, int64(len(body)), list[0].Size)

	t.Run("too large", func(t *testing.T) {
		_, err := svc.UploadAttachment(f.Ctx, f.TenantID, b.ID, "big.bin", "", MaxAttachmentSize+1, strings.NewReader(""))
		assert.Equal(t, shared.ErrInvalidInput.Code, errorCode(t, err))
	})

	t.Run("another tenant", func(t *testing.T) {
		_, err := svc.ListAttachments(f.Ctx, uuid.New(), b.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("storage disabled", func(t *testing.T) {
		disabled := newServices(f, nil).bookings
		_, err := disabled.UploadAttachment(f.Ctx, f.TenantID, b.ID, "a.txt", "text/plain", 1, strings.NewReader("a"))
		assert.Equal(t, "STORAGE_DISABLED", errorCode(t, err))
	})
}

func TestContainerService_Create(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).containers
	wh := f.SeedWarehouse("WH1")
	imp := f.SeedBooking(freight.DirectionImport, wh, true)
	exp := f.SeedBooking(freight.DirectionExport, wh, true)
	number := testutil.NextContainerNumber()
	tare := decimal.NewFromInt(3800)
	gross := decimal.NewFromInt(21000)

	c, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateContainerRequest{
		BookingID:       imp.ID,
		ContainerNumber: strings.ToLower(number),
		Size:            "40HC",
		SealNumber:      "SL123",
		TareWeightKg:    &tare,
		GrossWeightKg:   &gross,
	})
	require.NoError(t, err)
	assert.Equal(t, number, c.ContainerNumber)
	assert.Equal(t, "expecting", c.Status)
	assert.Equal(t, "received", c.NextStatus)
	assert.Equal(t, "import", c.Direction)

	t.Run("export starts allocated", func(t *testing.T) {
		e, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateContainerRequest{
			BookingID: exp.ID, ContainerNumber: testutil.NextContainerNumber(), Size: "20GP",
		})
		require.NoError(t, err)
		assert.Equal(t, "allocated", e.Status)
		assert.Equal(t, "picked_up", e.NextStatus)
	})

	t.Run("open number is unique", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateContainerRequest{
			BookingID: exp.ID, ContainerNumber: number, Size: "20GP",
		})
		assert.Equal(t, shared.ErrAlreadyExists.Code, errorCode(t, err))
	})

	t.Run("bad check digit", func(t *testing.T) {
		bad := number[:10] + string(rune('0'+(int(number[10]-'0')+1)%10))
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateContainerRequest{
			BookingID: imp.ID, ContainerNumber: bad, Size: "20GP",
		})
		require.Error(t, err)
	})

	t.Run("gross below tare", func(t *testing.T) {
		light := decimal.NewFromInt(100)
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateContainerRequest{
			BookingID: imp.ID, ContainerNumber: testutil.NextContainerNumber(), Size: "20GP",
			TareWeightKg: &tare, GrossWeightKg: &light,
		})
		assert.Equal(t, "INVALID_WEIGHT", errorCode(t, err))
	})
}

func TestContainerService_ImportFlow(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Bus.Subscribe(NewStatusHistoryHandler(f.Repos.StatusHistory, f.Logger))
	svc := newServices(f, nil)
	wh := f.SeedWarehouse("WH1")
	b := f.SeedBooking(freight.DirectionImport, wh, true)
	c := f.SeedContainer(b)
	line := f.SeedProductLine(c, "SKU-1", 10)

	_, err := svc.containers.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "put_away"})
	assert.Equal(t, shared.ErrInvalidTransition.Code, errorCode(t, err), "cannot skip received")

	received, err := svc.containers.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "received"})
	require.NoError(t, err)
	assert.Equal(t, "received", received.Status)
	assert.NotNil(t, received.ReceivedAt)

	gotLine, err := svc.lines.GetByID(f.Ctx, f.TenantID, line.ID)
	require.NoError(t, err)
	require.NotNil(t, gotLine.ReceivedQuantity)
	assert.True(t, decimal.NewFromInt(10).Equal(*gotLine.ReceivedQuantity), "received defaults to expected")

	_, err = svc.containers.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "put_away"})
	assert.Equal(t, "PUT_AWAY_INCOMPLETE", errorCode(t, err))

	cont, err := f.Repos.Container.FindByIDForTenant(f.Ctx, f.TenantID, c.ID)
	require.NoError(t, err)
	storedLine, err := f.Repos.ProductLine.FindByIDForTenant(f.Ctx, f.TenantID, line.ID)
	require.NoError(t, err)
	f.SeedPutAway(cont, storedLine, wh, "A-01-01", 6)

	_, err = svc.containers.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "put_away"})
	assert.Equal(t, "PUT_AWAY_INCOMPLETE", errorCode(t, err), "4 pieces still on the floor")

	f.SeedPutAway(cont, storedLine, wh, "A-01-02", 4)
	done, err := svc.containers.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "put_away"})
	require.NoError(t, err)
	assert.Equal(t, "put_away", done.Status)
	assert.Empty(t, done.NextStatus)

	history, err := svc.containers.History(f.Ctx, f.TenantID, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "expecting", history[0].FromStatus)
	assert.Equal(t, "received", history[0].ToStatus)
	assert.Equal(t, "received", history[1].FromStatus)
	assert.Equal(t, "put_away", history[1].ToStatus)
	require.NotNil(t, history[1].ActorID)
	assert.Equal(t, f.ActorID, *history[1].ActorID)

	completed, err := svc.bookings.Complete(f.Ctx, f.TenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)
}

func TestContainerService_PutAwayWithoutLines(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).containers
	c := f.SeedContainer(f.SeedBooking(freight.DirectionImport, f.SeedWarehouse("WH1"), true))

	_, err := svc.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "received"})
	require.NoError(t, err)
	done, err := svc.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "put_away"})
	require.NoError(t, err, "an empty container has nothing left on the floor")
	assert.Equal(t, "put_away", done.Status)
}

func TestContainerService_ChangeStatus_Guards(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).containers
	wh := f.SeedWarehouse("WH1")

	t.Run("draft booking blocks receipt", func(t *testing.T) {
		c := f.SeedContainer(f.SeedBooking(freight.DirectionImport, wh, false))
		_, err := svc.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "received"})
		assert.Equal(t, "INVALID_STATE", errorCode(t, err))
	})

	t.Run("export cannot be picked without allocations", func(t *testing.T) {
		c := f.SeedContainer(f.SeedBooking(freight.DirectionExport, wh, true))
		_, err := svc.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "picked_up"})
		assert.Equal(t, "PICKUP_INCOMPLETE", errorCode(t, err))
	})

	t.Run("dispatch goes through a dispatch", func(t *testing.T) {
		c := f.SeedContainer(f.SeedBooking(freight.DirectionExport, wh, true))
		require.NoError(t, c.TransitionTo(freight.ContainerStatusPickedUp, f.ActorID))
		require.NoError(t, f.Repos.Container.Save(f.Ctx, c))
		_, err := svc.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "dispatched"})
		assert.Equal(t, "DISPATCH_REQUIRED", errorCode(t, err))
	})

	t.Run("status from the other direction", func(t *testing.T) {
		c := f.SeedContainer(f.SeedBooking(freight.DirectionImport, wh, true))
		_, err := svc.ChangeStatus(f.Ctx, f.TenantID, c.ID, f.ActorID, ChangeStatusRequest{Status: "picked_up"})
		assert.Equal(t, shared.ErrInvalidTransition.Code, errorCode(t, err))
	})

	t.Run("another tenant", func(t *testing.T) {
		c := f.SeedContainer(f.SeedBooking(freight.DirectionImport, wh, true))
		_, err := svc.ChangeStatus(f.Ctx, uuid.New(), c.ID, f.ActorID, ChangeStatusRequest{Status: "received"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestContainerService_UpdateAndDelete(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).containers
	wh := f.SeedWarehouse("WH1")
	b := f.SeedBooking(freight.DirectionImport, wh, true)

	c := f.SeedContainer(b)
	size := "45HC"
	seal := "SEAL-9"
	updated, err := svc.Update(f.Ctx, f.TenantID, c.ID, UpdateContainerRequest{Size: &size, SealNumber: &seal})
	require.NoError(t, err)
	assert.Equal(t, "45HC", updated.Size)
	assert.Equal(t, "SEAL-9", updated.SealNumber)

	f.SeedProductLine(c, "SKU-1", 5)
	assert.Equal(t, "CONTAINER_IN_USE", errorCode(t, svc.Delete(f.Ctx, f.TenantID, c.ID)))

	empty := f.SeedContainer(b)
	require.NoError(t, svc.Delete(f.Ctx, f.TenantID, empty.ID))

	received, _ := f.SeedReceivedImport(wh, "SKU-2", 1)
	assert.Equal(t, "INVALID_STATE", errorCode(t, svc.Delete(f.Ctx, f.TenantID, received.ID)))
	_, err = svc.Update(f.Ctx, f.TenantID, received.ID, UpdateContainerRequest{Size: &size})
	assert.Equal(t, "INVALID_STATE", errorCode(t, err))
}

func TestContainerService_List(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).containers
	wh := f.SeedWarehouse("WH1")
	imp := f.SeedBooking(freight.DirectionImport, wh, true)
	exp := f.SeedBooking(freight.DirectionExport, wh, true)
	f.SeedContainer(imp)
	f.SeedContainer(imp)
	f.SeedContainer(exp)

	page, err := svc.List(f.Ctx, f.TenantID, shared.Filter{}.With("booking_id", imp.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.List(f.Ctx, f.TenantID, shared.Filter{}.With("status", "allocated"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestProductLineService(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).lines
	wh := f.SeedWarehouse("WH1")
	c := f.SeedContainer(f.SeedBooking(freight.DirectionImport, wh, true))

	line, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateProductLineRequest{
		ContainerID:      c.ID,
		SKU:              " sku-100 ",
		ExpectedQuantity: decimal.NewFromInt(24),
		ProductLineInput: ProductLineInput{Unit: "ctn", Description: "Ceramic tiles"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SKU-100", line.SKU)
	assert.Nil(t, line.ReceivedQuantity)

	t.Run("non-positive expected quantity", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateProductLineRequest{
			ContainerID: c.ID, SKU: "X", ExpectedQuantity: decimal.Zero, ProductLineInput: ProductLineInput{Unit: "pcs"},
		})
		assert.Equal(t, "INVALID_QUANTITY", errorCode(t, err))
	})

	t.Run("export containers carry no lines", func(t *testing.T) {
		e := f.SeedContainer(f.SeedBooking(freight.DirectionExport, wh, true))
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateProductLineRequest{
			ContainerID: e.ID, SKU: "X", ExpectedQuantity: decimal.NewFromInt(1), ProductLineInput: ProductLineInput{Unit: "pcs"},
		})
		assert.Equal(t, "INVALID_DIRECTION", errorCode(t, err))
	})

	t.Run("received quantity only after receipt", func(t *testing.T) {
		qty := decimal.NewFromInt(20)
		_, err := svc.Update(f.Ctx, f.TenantID, line.ID, UpdateProductLineRequest{ReceivedQuantity: &qty})
		assert.Equal(t, "INVALID_STATE", errorCode(t, err))
	})

	expected := decimal.NewFromInt(30)
	updated, err := svc.Update(f.Ctx, f.TenantID, line.ID, UpdateProductLineRequest{ExpectedQuantity: &expected})
	require.NoError(t, err)
	assert.True(t, expected.Equal(updated.ExpectedQuantity))
	assert.Equal(t, "ctn", updated.Unit, "details kept when not sent")

	page, err := svc.List(f.Ctx, f.TenantID, shared.Filter{}.With("container_id", c.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.Delete(f.Ctx, f.TenantID, line.ID))
}

func TestProductLineService_ReceivedQuantity(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, nil).lines
	wh := f.SeedWarehouse("WH1")
	c, line := f.SeedReceivedImport(wh, "SKU-1", 10)
	f.SeedPutAway(c, line, wh, "B-02-01", 6)

	short := decimal.NewFromInt(5)
	_, err := svc.Update(f.Ctx, f.TenantID, line.ID, UpdateProductLineRequest{ReceivedQuantity: &short})
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, err), "below what is already put away")

	counted := decimal.NewFromInt(8)
	resp, err := svc.Update(f.Ctx, f.TenantID, line.ID, UpdateProductLineRequest{ReceivedQuantity: &counted})
	require.NoError(t, err)
	require.NotNil(t, resp.ReceivedQuantity)
	assert.True(t, counted.Equal(*resp.ReceivedQuantity))

	assert.Equal(t, "PRODUCT_LINE_IN_USE", errorCode(t, svc.Delete(f.Ctx, f.TenantID, line.ID)))
}

// lockRecorder notes which containers were row-locked inside a transaction
type lockRecorder struct {
	inner  scope.TransactionScope
	locked []uuid.UUID
}

func (l *lockRecorder) Execute(ctx context.Context, fn func(repos scope.TransactionalRepositories) error) error {
	return l.inner.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		return fn(lockingRepos{TransactionalRepositories: repos, rec: l})
	})
}

type lockingRepos struct {
	scope.TransactionalRepositories
	rec *lockRecorder
}

func (r lockingRepos) ContainerRepo() freight.ContainerRepository {
	return lockingContainers{ContainerRepository: r.TransactionalRepositories.ContainerRepo(), rec: r.rec}
}

type lockingContainers struct {
	freight.ContainerRepository
	rec *lockRecorder
}

func (c lockingContainers) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*freight.Container, error) {
	c.rec.locked = append(c.rec.locked, id)
	return c.ContainerRepository.FindByIDForUpdate(ctx, tenantID, id)
}

func TestProductLineService_LocksContainer(t *testing.T) {
	f := testutil.NewFixture(t)
	rec := &lockRecorder{inner: f.TxScope}
	r := f.Repos
	svc := NewProductLineService(r.ProductLine, r.Container, r.PutAway, rec, f.Logger)
	wh := f.SeedWarehouse("WH1")

	t.Run("delete", func(t *testing.T) {
		rec.locked = nil
		c := f.SeedContainer(f.SeedBooking(freight.DirectionImport, wh, true))
		line := f.SeedProductLine(c, "SKU-1", 3)

		require.NoError(t, svc.Delete(f.Ctx, f.TenantID, line.ID))
		assert.Equal(t, []uuid.UUID{c.ID}, rec.locked)
		_, err := f.Repos.ProductLine.FindByIDForTenant(f.Ctx, f.TenantID, line.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejected delete keeps the line", func(t *testing.T) {
		rec.locked = nil
		c, line := f.SeedReceivedImport(wh, "SKU-2", 4)
		f.SeedPutAway(c, line, wh, "A-01-01", 1)

		assert.Equal(t, "PRODUCT_LINE_IN_USE", errorCode(t, svc.Delete(f.Ctx, f.TenantID, line.ID)))
		assert.Equal(t, []uuid.UUID{c.ID}, rec.locked)
		_, err := f.Repos.ProductLine.FindByIDForTenant(f.Ctx, f.TenantID, line.ID)
		assert.NoError(t, err)
	})

	t.Run("received quantity", func(t *testing.T) {
		rec.locked = nil
		c, line := f.SeedReceivedImport(wh, "SKU-3", 4)
		counted := decimal.NewFromInt(3)

		_, err := svc.Update(f.Ctx, f.TenantID, line.ID, UpdateProductLineRequest{ReceivedQuantity: &counted})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{c.ID}, rec.locked)
	})
}
