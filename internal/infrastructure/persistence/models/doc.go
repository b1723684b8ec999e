// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model carries a ToDomain and a
// FromDomain mapper and the repositories only ever write models.
//
// Files follow the bounded contexts:
//   - identity.go: tenants, tenant users, tenant roles
//   - warehouse.go: warehouses
//   - fleet.go: drivers, vehicles
//   - freight.go: bookings, container details, product lines, status history
//   - stock.go: put-away stock, allocations, pickups
//   - dispatch.go: dispatches
package models
