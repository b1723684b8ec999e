package warehouse

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

func newTestService(f *testutil.Fixture) *WarehouseService {
	return NewWarehouseService(f.Repos.Warehouse, f.Repos.PutAway, f.Repos.Booking, f.TxScope, f.Logger)
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}

func TestWarehouseService_Create(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newTestService(f)
	capacity := decimal.NewFromInt(1200)

	resp, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateWarehouseRequest{
		Code:        "wh-01",
		Name:        "Port Klang DC",
		City:        "Klang",
		Country:     "MY",
		ContactName: "Aisha",
		CapacityCBM: &capacity,
	})
	require.NoError(t, err)
	assert.Equal(t, "WH-01", resp.Code)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "Aisha", resp.ContactName)
	require.NotNil(t, resp.CapacityCBM)
	assert.True(t, capacity.Equal(*resp.CapacityCBM))

	t.Run("duplicate code is rejected", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateWarehouseRequest{Code: "WH-01", Name: "Other"})
		assert.Equal(t, shared.ErrAlreadyExists.Code, errorCode(t, err))
	})

	t.Run("same code in another tenant is allowed", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, uuid.New(), f.ActorID, CreateWarehouseRequest{Code: "WH-01", Name: "Other"})
		assert.NoError(t, err)
	})
}

func TestWarehouseService_GetByID_OtherTenant(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newTestService(f)

	resp, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateWarehouseRequest{Code: "WH-01", Name: "Main"})
	require.NoError(t, err)

	_, err = svc.GetByID(f.Ctx, uuid.New(), resp.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestWarehouseService_List(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newTestService(f)

	for _, code := range []string{"A1", "B1", "C1"} {
		_, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateWarehouseRequest{Code: code, Name: "Warehouse " + code})
		require.NoError(t, err)
	}

	page, err := svc.List(f.Ctx, f.TenantID, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
}

func TestWarehouseService_Update(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newTestService(f)
	capacity := decimal.NewFromInt(500)

	created, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateWarehouseRequest{Code: "WH-01", Name: "Main", CapacityCBM: &capacity})
	require.NoError(t, err)

	name := "Main DC"
	zero := decimal.Zero
	resp, err := svc.Update(f.Ctx, f.TenantID, created.ID, UpdateWarehouseRequest{Name: &name, CapacityCBM: &zero})
	require.NoError(t, err)
	assert.Equal(t, "Main DC", resp.Name)
	assert.Nil(t, resp.CapacityCBM)

	got, err := svc.GetByID(f.Ctx, f.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main DC", got.Name)
}

func TestWarehouseService_ActivateDeactivate(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newTestService(f)

	created, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateWarehouseRequest{Code: "WH-01", Name: "Main"})
	require.NoError(t, err)

	resp, err := svc.Deactivate(f.Ctx, f.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	_, err = svc.Deactivate(f.Ctx, f.TenantID, created.ID)
	assert.Error(t, err)

	resp, err = svc.Activate(f.Ctx, f.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}

func TestWarehouseService_Delete(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newTestService(f)

	t.Run("unused warehouse is removed", func(t *testing.T) {
		created, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateWarehouseRequest{Code: "TMP", Name: "Temp"})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(f.Ctx, f.TenantID, created.ID))

		_, err = svc.GetByID(f.Ctx, f.TenantID, created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("warehouse with an open booking is kept", func(t *testing.T) {
		created, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateWarehouseRequest{Code: "BUSY", Name: "Busy"})
		require.NoError(t, err)
		b, err := freight.NewBooking(f.TenantID, "IMP-20260101-0001", freight.DirectionImport, created.ID, freight.BookingDetails{CustomerName: "Acme"})
		require.NoError(t, err)
		require.NoError(t, f.Repos.Booking.Save(f.Ctx, b))

		err = svc.Delete(f.Ctx, f.TenantID, created.ID)
		assert.Equal(t, "WAREHOUSE_IN_USE", errorCode(t, err))
	})

	t.Run("missing warehouse", func(t *testing.T) {
		err := svc.Delete(f.Ctx, f.TenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
