package main

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

func TestFakeContainerNumber_IsValid(t *testing.T) {
	f := gofakeit.New(7)
	for i := 0; i < 200; i++ {
		n := fakeContainerNumber(f)
		assert.True(t, valueobject.IsValidContainerNumber(n), "generated %s", n)
	}
}

func TestPlanBookings(t *testing.T) {
	plans := planBookings(gofakeit.New(42), 6)
	require.Len(t, plans, 6)

	for i, p := range plans {
		if i%3 == 2 {
			assert.Equal(t, "export", p.request.Direction, "booking %d", i)
		} else {
			assert.Equal(t, "import", p.request.Direction, "booking %d", i)
		}
		assert.Equal(t, i%2 == 0, p.confirm)
		assert.NotEmpty(t, p.request.CustomerName)
		require.NotNil(t, p.request.ETA)
		require.NotNil(t, p.request.ETD)
		assert.False(t, p.request.ETA.Before(*p.request.ETD), "ETA must not precede ETD")
		assert.LessOrEqual(t, len(p.request.PortOfLoading), 10)

		require.NotEmpty(t, p.containers)
		assert.LessOrEqual(t, len(p.containers), 3)
		for _, c := range p.containers {
			assert.Contains(t, seedSizes, c.request.Size)
			if p.request.Direction == "export" {
				assert.Empty(t, c.lines)
				continue
			}
			require.NotEmpty(t, c.lines)
			for _, l := range c.lines {
				assert.True(t, l.ExpectedQuantity.IsPositive())
				assert.Contains(t, seedUnits, l.Unit)
				require.NotNil(t, l.WeightKg)
				assert.True(t, l.WeightKg.IsPositive())
			}
		}
	}
}

func TestPlanBookings_SameSeedSamePlan(t *testing.T) {
	a := planBookings(gofakeit.New(99), 3)
	b := planBookings(gofakeit.New(99), 3)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].request.CustomerName, b[i].request.CustomerName)
		assert.Equal(t, a[i].containers[0].request.ContainerNumber, b[i].containers[0].request.ContainerNumber)
	}
}
