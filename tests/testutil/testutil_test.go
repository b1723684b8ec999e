package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/shared"
)

func TestNextContainerNumber(t *testing.T) {
	a, b := NextContainerNumber(), NextContainerNumber()

	assert.Len(t, a, 11)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "TSTU", a[:4])
}

func TestAssertEventually(t *testing.T) {
	start := time.Now()
	AssertEventually(t, func() bool { return time.Since(start) > 20*time.Millisecond }, time.Second, 5*time.Millisecond)
	AssertEventually(t, func() bool { return true }, time.Millisecond, time.Millisecond)
}

func TestEventRecorder(t *testing.T) {
	rec := RecordEvents("container.status_changed")
	assert.Equal(t, []string{"container.status_changed"}, rec.EventTypes())
	assert.Empty(t, rec.Types())

	tenantID, containerID := uuid.New(), uuid.New()
	first := shared.NewBaseDomainEvent("container.status_changed", "Container", containerID, tenantID)
	second := shared.NewBaseDomainEvent("container.status_changed", "Container", containerID, tenantID)
	require.NoError(t, rec.Handle(context.Background(), &first))
	require.NoError(t, rec.Handle(context.Background(), &second))

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, first.ID, events[0].EventID())
	assert.Equal(t, []string{"container.status_changed", "container.status_changed"}, rec.Types())

	// the copy is detached
	events[0] = nil
	assert.NotNil(t, rec.Events()[0])
}
