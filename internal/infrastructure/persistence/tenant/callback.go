package tenant

import (
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	guardUpdate = "tenant:guard_update"
	guardDelete = "tenant:guard_delete"
)

// RegisterGuard installs the write guard on db
func RegisterGuard(db *gorm.DB) error {
	if err := db.Callback().Update().Before("gorm:update").Register(guardUpdate, guardUpdateCallback); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register(guardDelete, guardDeleteCallback)
}

// RemoveGuard uninstalls the write guard
func RemoveGuard(db *gorm.DB) {
	_ = db.Callback().Update().Remove(guardUpdate)
	_ = db.Callback().Delete().Remove(guardDelete)
}

// guardUpdateCallback allows an update when it is filtered by tenant or writes
// a single model that carries its own tenant ID (Save by primary key).
func guardUpdateCallback(db *gorm.DB) {
	if skip(db) || hasTenantCondition(db) || modelHasTenant(db) {
		return
	}
	_ = db.AddError(ErrUnscopedWrite)
}

func guardDeleteCallback(db *gorm.DB) {
	if skip(db) || hasTenantCondition(db) {
		return
	}
	_ = db.AddError(ErrUnscopedWrite)
}

// skip reports statements on tables without a tenant column
func skip(db *gorm.DB) bool {
	if db.Error != nil || db.Statement.Schema == nil {
		return true
	}
	return db.Statement.Schema.LookUpField(Column) == nil
}

func hasTenantCondition(db *gorm.DB) bool {
	c, ok := db.Statement.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, expr := range where.Exprs {
		if exprHasTenant(expr) {
			return true
		}
	}
	return false
}

func exprHasTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return columnIsTenant(e.Column)
	case clause.IN:
		return columnIsTenant(e.Column)
	case clause.Expr:
		return strings.Contains(e.SQL, Column)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, Column)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if exprHasTenant(cond) {
				return true
			}
		}
	}
	return false
}

func columnIsTenant(col interface{}) bool {
	switch c := col.(type) {
	case clause.Column:
		return c.Name == Column
	case string:
		return c == Column
	}
	return false
}

func modelHasTenant(db *gorm.DB) bool {
	rv := db.Statement.ReflectValue
	if rv.Kind() != reflect.Struct {
		return false
	}
	field := db.Statement.Schema.LookUpField(Column)
	_, zero := field.ValueOf(db.Statement.Context, rv)
	return !zero
}
