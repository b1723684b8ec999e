package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/warehouse"
)

type recordingPublisher struct {
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return p.err
}

func TestGormTransactionScope_PublishesAfterCommit(t *testing.T) {
	db := newTestDB(t)
	pub := &recordingPublisher{}
	txScope := NewGormTransactionScope(db, pub)
	f := newFixture(t, db)
	c := f.container(f.booking(freight.DirectionImport, f.warehouse("WH1"), "IMP-20260101-0001"))

	err := txScope.Execute(testCtx(), func(repos scope.TransactionalRepositories) error {
		locked, err := repos.ContainerRepo().FindByIDForUpdate(testCtx(), f.tenantID, c.ID)
		if err != nil {
			return err
		}
		if err := locked.TransitionTo(freight.ContainerStatusReceived, f.tenantID); err != nil {
			return err
		}
		repos.Track(locked)
		return repos.ContainerRepo().Save(testCtx(), locked)
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, freight.EventTypeContainerStatusChanged, pub.events[0].EventType())

	stored, err := NewGormContainerRepository(db).FindByIDForTenant(testCtx(), f.tenantID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, freight.ContainerStatusReceived, stored.Status)
}

func TestGormTransactionScope_RollsBackWithoutPublishing(t *testing.T) {
	db := newTestDB(t)
	pub := &recordingPublisher{}
	txScope := NewGormTransactionScope(db, pub)
	tenantID := newTenantID()
	boom := errors.New("boom")

	err := txScope.Execute(testCtx(), func(repos scope.TransactionalRepositories) error {
		w, err := warehouse.NewWarehouse(tenantID, "WH9", "Rolled back")
		if err != nil {
			return err
		}
		if err := repos.WarehouseRepo().Save(testCtx(), w); err != nil {
			return err
		}
		require.NoError(t, w.Deactivate())
		repos.Track(w)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, pub.events)

	exists, err := NewGormWarehouseRepository(db).ExistsByCode(testCtx(), tenantID, "WH9")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormTransactionScope_PublishErrorIsNotReturned(t *testing.T) {
	db := newTestDB(t)
	pub := &recordingPublisher{err: errors.New("handler failed")}
	txScope := NewGormTransactionScope(db, pub)
	tenantID := newTenantID()

	err := txScope.Execute(testCtx(), func(repos scope.TransactionalRepositories) error {
		w, err := warehouse.NewWarehouse(tenantID, "WH2", "Committed")
		if err != nil {
			return err
		}
		repos.Track(w)
		return repos.WarehouseRepo().Save(testCtx(), w)
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pub.events)

	exists, err := NewGormWarehouseRepository(db).ExistsByCode(testCtx(), tenantID, "wh2")
	require.NoError(t, err)
	assert.True(t, exists)
}
