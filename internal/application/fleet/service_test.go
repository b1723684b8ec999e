package fleet

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/tests/testutil"
)

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}

func TestDriverService_CreateAndList(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := NewDriverService(f.Repos.Driver, f.Logger)

	expiry := time.Now().AddDate(1, 0, 0)
	resp, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateDriverRequest{
		Name:          "Ravi Kumar",
		Phone:         "+60 12 345 6789",
		LicenseNumber: "gdl-1001",
		LicenseExpiry: &expiry,
	})
	require.NoError(t, err)
	assert.Equal(t, "GDL-1001", resp.LicenseNumber)
	assert.Equal(t, "available", resp.Status)
	assert.True(t, resp.LicenseValid)

	_, err = svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateDriverRequest{Name: "Other", LicenseNumber: "GDL-1001"})
	assert.Equal(t, shared.ErrAlreadyExists.Code, errorCode(t, err))

	page, err := svc.List(f.Ctx, f.TenantID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	other, err := svc.List(f.Ctx, uuid.New(), shared.Filter{})
	require.NoError(t, err)
	assert.Zero(t, other.Total)
}

func TestDriverService_Update(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := NewDriverService(f.Repos.Driver, f.Logger)

	created, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateDriverRequest{Name: "Ravi", LicenseNumber: "L1"})
	require.NoError(t, err)

	past := time.Now().AddDate(0, -1, 0)
	phone := "555-0100"
	resp, err := svc.Update(f.Ctx, f.TenantID, created.ID, UpdateDriverRequest{Phone: &phone, LicenseExpiry: &past})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", resp.Name)
	assert.Equal(t, "555-0100", resp.Phone)
	assert.False(t, resp.LicenseValid)
}

func TestDriverService_StatusAndDelete(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := NewDriverService(f.Repos.Driver, f.Logger)

	created, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateDriverRequest{Name: "Ravi", LicenseNumber: "L1"})
	require.NoError(t, err)

	t.Run("on_duty cannot be set by hand", func(t *testing.T) {
		_, err := svc.SetStatus(f.Ctx, f.TenantID, created.ID, SetStatusRequest{Status: "on_duty"})
		assert.Equal(t, "INVALID_STATUS", errorCode(t, err))
	})

	t.Run("off_duty", func(t *testing.T) {
		resp, err := svc.SetStatus(f.Ctx, f.TenantID, created.ID, SetStatusRequest{Status: "off_duty"})
		require.NoError(t, err)
		assert.Equal(t, "off_duty", resp.Status)
	})

	t.Run("driver on duty cannot be deleted", func(t *testing.T) {
		_, err := svc.SetStatus(f.Ctx, f.TenantID, created.ID, SetStatusRequest{Status: "available"})
		require.NoError(t, err)
		d, err := f.Repos.Driver.FindByIDForTenant(f.Ctx, f.TenantID, created.ID)
		require.NoError(t, err)
		require.NoError(t, d.GoOnDuty())
		require.NoError(t, f.Repos.Driver.Save(f.Ctx, d))

		err = svc.Delete(f.Ctx, f.TenantID, created.ID)
		assert.Equal(t, "DRIVER_ON_DUTY", errorCode(t, err))
	})

	t.Run("other tenant sees not found", func(t *testing.T) {
		err := svc.Delete(f.Ctx, uuid.New(), created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestVehicleService_Lifecycle(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := NewVehicleService(f.Repos.Vehicle, f.Logger)

	payload := decimal.NewFromInt(28000)
	created, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateVehicleRequest{
		Registration: "wxy 1234",
		Type:         "prime_mover",
		Make:         "Volvo",
		MaxPayloadKg: &payload,
	})
	require.NoError(t, err)
	assert.Equal(t, "WXY1234", created.Registration)
	assert.True(t, payload.Equal(created.MaxPayloadKg))

	_, err = svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateVehicleRequest{Registration: "WXY1234", Type: "van"})
	assert.Equal(t, shared.ErrAlreadyExists.Code, errorCode(t, err))

	model := "FH16"
	updated, err := svc.Update(f.Ctx, f.TenantID, created.ID, UpdateVehicleRequest{Model: &model})
	require.NoError(t, err)
	assert.Equal(t, "FH16", updated.Model)
	assert.Equal(t, "Volvo", updated.Make)

	resp, err := svc.SetStatus(f.Ctx, f.TenantID, created.ID, SetStatusRequest{Status: "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", resp.Status)

	_, err = svc.SetStatus(f.Ctx, f.TenantID, created.ID, SetStatusRequest{Status: "in_use"})
	assert.Error(t, err)

	require.NoError(t, svc.Delete(f.Ctx, f.TenantID, created.ID))
	_, err = svc.GetByID(f.Ctx, f.TenantID, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestVehicleService_DeleteInUse(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := NewVehicleService(f.Repos.Vehicle, f.Logger)

	created, err := svc.Create(f.Ctx, f.TenantID, f.ActorID, CreateVehicleRequest{Registration: "ABC1", Type: "rigid"})
	require.NoError(t, err)
	v, err := f.Repos.Vehicle.FindByIDForTenant(f.Ctx, f.TenantID, created.ID)
	require.NoError(t, err)
	require.NoError(t, v.PutInUse())
	require.NoError(t, f.Repos.Vehicle.Save(f.Ctx, v))

	err = svc.Delete(f.Ctx, f.TenantID, created.ID)
	assert.Equal(t, "VEHICLE_IN_USE", errorCode(t, err))
}
