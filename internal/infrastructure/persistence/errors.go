package persistence

import (
	"errors"

	"github.com/tms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translate maps driver-level errors onto domain errors. resource names the
// entity in not-found messages.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainErrorf(shared.ErrAlreadyExists.Code, "%s already exists", resource)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainErrorf(shared.ErrInvalidState.Code, "%s is still referenced by other records", resource)
	}
	return err
}

// deleted returns not-found when a delete touched no rows
func deleted(result *gorm.DB, resource string) error {
	if result.Error != nil {
		return translate(result.Error, resource)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(resource)
	}
	return nil
}
