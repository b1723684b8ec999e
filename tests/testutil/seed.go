package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/domain/warehouse"
)

// Seed helpers build state directly through the domain and repositories so
// service tests can start mid-flow. Domain events raised here are not published.

// SeedTenant stores the fixture's tenant under subdomain
func (f *Fixture) SeedTenant(subdomain string) *identity.Tenant {
	f.T.Helper()
	t, err := identity.NewTenant("Tenant "+subdomain, subdomain)
	require.NoError(f.T, err)
	t.ID = f.TenantID
	require.NoError(f.T, f.Repos.Tenant.Save(f.Ctx, t))
	return t
}

// SeedWarehouse stores an active warehouse
func (f *Fixture) SeedWarehouse(code string) *warehouse.Warehouse {
	f.T.Helper()
	w, err := warehouse.NewWarehouse(f.TenantID, code, "Warehouse "+code)
	require.NoError(f.T, err)
	require.NoError(f.T, f.Repos.Warehouse.Save(f.Ctx, w))
	return w
}

var bookingSerial atomic.Int64

// SeedBooking stores a booking of the direction; confirmed bookings accept container work
func (f *Fixture) SeedBooking(direction freight.Direction, wh *warehouse.Warehouse, confirmed bool) *freight.Booking {
	f.T.Helper()
	number := fmt.Sprintf("%s-SEED-%04d", direction.NumberPrefix(), bookingSerial.Add(1))
	b, err := freight.NewBooking(f.TenantID, number, direction, wh.ID, freight.BookingDetails{CustomerName: "Seed Customer"})
	require.NoError(f.T, err)
	if confirmed {
		require.NoError(f.T, b.Confirm())
	}
	require.NoError(f.T, f.Repos.Booking.Save(f.Ctx, b))
	return b
}

// SeedContainer stores a 40HC container on the booking in its initial status
func (f *Fixture) SeedContainer(b *freight.Booking) *freight.Container {
	f.T.Helper()
	c, err := freight.NewContainer(b, NextContainerNumber(), freight.ContainerSize40HC)
	require.NoError(f.T, err)
	require.NoError(f.T, f.Repos.Container.Save(f.Ctx, c))
	return c
}

// SeedProductLine stores a line expecting qty pieces of sku
func (f *Fixture) SeedProductLine(c *freight.Container, sku string, qty int64) *freight.ProductLine {
	f.T.Helper()
	line, err := freight.NewProductLine(c, sku, decimal.NewFromInt(qty), freight.ProductLineDetails{Unit: freight.UnitPieces})
	require.NoError(f.T, err)
	require.NoError(f.T, f.Repos.ProductLine.Save(f.Ctx, line))
	return line
}

// SeedReceivedImport stores a confirmed import booking with one received
// container holding one line of qty pieces of sku
func (f *Fixture) SeedReceivedImport(wh *warehouse.Warehouse, sku string, qty int64) (*freight.Container, *freight.ProductLine) {
	f.T.Helper()
	b := f.SeedBooking(freight.DirectionImport, wh, true)
	require.NoError(f.T, b.MarkInProgress())
	require.NoError(f.T, f.Repos.Booking.Save(f.Ctx, b))

	c := f.SeedContainer(b)
	line := f.SeedProductLine(c, sku, qty)
	require.NoError(f.T, c.TransitionTo(freight.ContainerStatusReceived, f.ActorID))
	require.NoError(f.T, f.Repos.Container.Save(f.Ctx, c))
	line.DefaultReceived()
	require.NoError(f.T, f.Repos.ProductLine.Save(f.Ctx, line))
	return c, line
}

// SeedPutAway shelves qty of the line at location
func (f *Fixture) SeedPutAway(c *freight.Container, line *freight.ProductLine, wh *warehouse.Warehouse, location string, qty int64) *stock.PutAwayStock {
	f.T.Helper()
	already, err := f.Repos.PutAway.SumByProductLine(f.Ctx, f.TenantID, line.ID, uuid.Nil)
	require.NoError(f.T, err)
	p, err := stock.NewPutAwayStock(c, line, wh, location, decimal.NewFromInt(qty), already)
	require.NoError(f.T, err)
	require.NoError(f.T, f.Repos.PutAway.Save(f.Ctx, p))
	return p
}

// SeedStock returns put-away stock of qty pieces of sku ready to allocate
func (f *Fixture) SeedStock(wh *warehouse.Warehouse, sku string, qty int64) *stock.PutAwayStock {
	f.T.Helper()
	c, line := f.SeedReceivedImport(wh, sku, qty)
	return f.SeedPutAway(c, line, wh, "A-01-01", qty)
}

// SeedDriver stores an available driver with an unexpiring license
func (f *Fixture) SeedDriver(name string) *fleet.Driver {
	f.T.Helper()
	d, err := fleet.NewDriver(f.TenantID, name, "LIC-"+uuid.NewString()[:8])
	require.NoError(f.T, err)
	require.NoError(f.T, f.Repos.Driver.Save(f.Ctx, d))
	return d
}

// SeedVehicle stores an available prime mover
func (f *Fixture) SeedVehicle(registration string) *fleet.Vehicle {
	f.T.Helper()
	v, err := fleet.NewVehicle(f.TenantID, registration, fleet.VehicleTypePrimeMover)
	require.NoError(f.T, err)
	require.NoError(f.T, f.Repos.Vehicle.Save(f.Ctx, v))
	return v
}

// SeedPickedExport returns an export container already picked up, carrying a
// fully picked allocation of qty pieces of sku shelved in wh
func (f *Fixture) SeedPickedExport(wh *warehouse.Warehouse, sku string, qty int64) (*freight.Container, *stock.Allocation) {
	f.T.Helper()
	source := f.SeedStock(wh, sku, qty)
	c := f.SeedContainer(f.SeedBooking(freight.DirectionExport, wh, true))

	a, err := stock.NewAllocation(c, source, decimal.NewFromInt(qty))
	require.NoError(f.T, err)
	require.NoError(f.T, a.RecordPick(decimal.NewFromInt(qty)))
	require.NoError(f.T, a.MarkPickedUp())
	require.NoError(f.T, f.Repos.PutAway.Save(f.Ctx, source))
	require.NoError(f.T, f.Repos.Allocation.Save(f.Ctx, a))

	require.NoError(f.T, c.TransitionTo(freight.ContainerStatusPickedUp, f.ActorID))
	require.NoError(f.T, f.Repos.Container.Save(f.Ctx, c))
	return c, a
}
