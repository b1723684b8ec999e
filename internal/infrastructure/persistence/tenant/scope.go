// Package tenant provides tenant scoping for GORM.
//
// Repositories restrict every statement with Scope, and RegisterGuard installs
// callbacks that refuse UPDATE and DELETE statements on tenant tables that carry
// no tenant condition, so a missing scope fails loudly instead of touching
// another tenant's rows.
//
// Usage:
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&containers)
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// Column is the tenant column present on every tenant-owned table
const Column = "tenant_id"

// ErrTenantIDRequired is returned when a statement has no tenant to scope to
var ErrTenantIDRequired = errors.New("tenant_id is required but not found")

// ErrUnscopedWrite is returned by the guard for tenant-table writes without a tenant condition
var ErrUnscopedWrite = errors.New("update or delete on a tenant table without a tenant_id condition")

// Scope applies tenant filtering to GORM queries
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(Column+" = ?", tenantID)
	}
}

// FromContext returns the tenant ID stored on the context by the tenant middleware
func FromContext(ctx context.Context) (uuid.UUID, error) {
	raw := logger.TenantID(ctx)
	if raw == "" {
		return uuid.Nil, ErrTenantIDRequired
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrTenantIDRequired
	}
	return id, nil
}

// ScopeContext applies tenant filtering using the tenant ID on the statement's context
func ScopeContext(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		id, err := FromContext(ctx)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		return Scope(id)(db)
	}
}
