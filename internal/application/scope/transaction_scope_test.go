package scope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
)

func TestEvents_DrainsInOrder(t *testing.T) {
	tenantID := uuid.New()
	b1, err := freight.NewBooking(tenantID, "IMP-20260101-0001", freight.DirectionImport, uuid.New(), freight.BookingDetails{CustomerName: "Acme"})
	assert.NoError(t, err)
	b2, err := freight.NewBooking(tenantID, "EXP-20260101-0001", freight.DirectionExport, uuid.New(), freight.BookingDetails{CustomerName: "Acme"})
	assert.NoError(t, err)
	assert.NoError(t, b2.Confirm())

	events := Events([]EventSource{b1, b2})

	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	assert.Equal(t, []string{
		freight.EventTypeBookingCreated,
		freight.EventTypeBookingCreated,
		freight.EventTypeBookingConfirmed,
	}, types)
	assert.Empty(t, b1.GetDomainEvents())
	assert.Empty(t, Events([]EventSource{b1, b2}))
}

func TestEvents_Empty(t *testing.T) {
	assert.Equal(t, []shared.DomainEvent(nil), Events(nil))
}
