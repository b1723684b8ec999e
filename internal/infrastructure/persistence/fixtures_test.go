package persistence

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

var containerSerial atomic.Int64

// nextContainerNumber returns a fresh ISO 6346 number with a valid check digit
func nextContainerNumber() string {
	prefix := fmt.Sprintf("TMSU%06d", containerSerial.Add(1))
	return prefix + strconv.Itoa(valueobject.ContainerCheckDigit(prefix))
}

// fixture builds and persists a tenant's freight graph step by step
type fixture struct {
	t        *testing.T
	db       *gorm.DB
	tenantID uuid.UUID
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	return &fixture{t: t, db: db, tenantID: newTenantID()}
}

func (f *fixture) warehouse(code string) *warehouse.Warehouse {
	w, err := warehouse.NewWarehouse(f.tenantID, code, "Warehouse "+code)
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormWarehouseRepository(f.db).Save(testCtx(), w))
	return w
}

func (f *fixture) booking(direction freight.Direction, wh *warehouse.Warehouse, number string) *freight.Booking {
	b, err := freight.NewBooking(f.tenantID, number, direction, wh.ID, freight.BookingDetails{CustomerName: "Acme Freight"})
	require.NoError(f.t, err)
	require.NoError(f.t, b.Confirm())
	require.NoError(f.t, NewGormBookingRepository(f.db).Save(testCtx(), b))
	return b
}

func (f *fixture) container(b *freight.Booking) *freight.Container {
	c, err := freight.NewContainer(b, nextContainerNumber(), freight.ContainerSize40HC)
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormContainerRepository(f.db).Save(testCtx(), c))
	return c
}

func (f *fixture) advance(c *freight.Container, to freight.ContainerStatus) {
	require.NoError(f.t, c.TransitionTo(to, uuid.Nil))
	require.NoError(f.t, NewGormContainerRepository(f.db).Save(testCtx(), c))
}

func (f *fixture) line(c *freight.Container, sku string, expected int64) *freight.ProductLine {
	l, err := freight.NewProductLine(c, sku, decimal.NewFromInt(expected), freight.ProductLineDetails{Unit: freight.UnitCartons})
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormProductLineRepository(f.db).Save(testCtx(), l))
	return l
}

func (f *fixture) putAway(c *freight.Container, l *freight.ProductLine, wh *warehouse.Warehouse, location string, qty, already int64) *stock.PutAwayStock {
	p, err := stock.NewPutAwayStock(c, l, wh, location, decimal.NewFromInt(qty), decimal.NewFromInt(already))
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormPutAwayRepository(f.db).Save(testCtx(), p))
	return p
}

func (f *fixture) driver(name, license string) *fleet.Driver {
	d, err := fleet.NewDriver(f.tenantID, name, license)
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormDriverRepository(f.db).Save(testCtx(), d))
	return d
}

func (f *fixture) vehicle(registration string) *fleet.Vehicle {
	v, err := fleet.NewVehicle(f.tenantID, registration, fleet.VehicleTypePrimeMover)
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormVehicleRepository(f.db).Save(testCtx(), v))
	return v
}

// pickedExport returns a picked-up export container on b with one fully picked allocation from src
func (f *fixture) pickedExport(b *freight.Booking, src *stock.PutAwayStock, qty int64) *freight.Container {
	c := f.container(b)
	a, err := stock.NewAllocation(c, src, decimal.NewFromInt(qty))
	require.NoError(f.t, err)
	require.NoError(f.t, a.RecordPick(decimal.NewFromInt(qty)))
	require.NoError(f.t, a.MarkPickedUp())
	require.NoError(f.t, NewGormAllocationRepository(f.db).Save(testCtx(), a))
	require.NoError(f.t, NewGormPutAwayRepository(f.db).Save(testCtx(), src))
	f.advance(c, freight.ContainerStatusPickedUp)
	return c
}

func (f *fixture) dispatch(number string, c *freight.Container, b *freight.Booking, d *fleet.Driver, v *fleet.Vehicle) *dispatch.Dispatch {
	disp, err := dispatch.NewDispatch(number, c, b, d, v, dispatch.Details{
		DestinationAddress: "1 Harbour Road",
		ScheduledAt:        time.Now().Add(time.Hour),
	})
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormDispatchRepository(f.db).Save(testCtx(), disp))
	return disp
}
