package freight

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductLine(t *testing.T) {
	details := ProductLineDetails{Description: "Widgets", Unit: UnitCartons}

	t.Run("adds to an expecting import container", func(t *testing.T) {
		c := newTestContainer(t, DirectionImport)
		line, err := NewProductLine(c, " sku-1 ", decimal.NewFromInt(10), details)
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", line.SKU)
		assert.Nil(t, line.ReceivedQuantity)
		assert.True(t, line.EffectiveReceived().Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects export containers", func(t *testing.T) {
		c := newTestContainer(t, DirectionExport)
		_, err := NewProductLine(c, "SKU-1", decimal.NewFromInt(10), details)
		assert.Error(t, err)
	})

	t.Run("rejects put away containers", func(t *testing.T) {
		c := newTestContainer(t, DirectionImport)
		require.NoError(t, c.TransitionTo(ContainerStatusReceived, uuid.Nil))
		require.NoError(t, c.TransitionTo(ContainerStatusPutAway, uuid.Nil))
		_, err := NewProductLine(c, "SKU-1", decimal.NewFromInt(10), details)
		assert.Error(t, err)
	})

	t.Run("rejects non positive quantity and bad unit", func(t *testing.T) {
		c := newTestContainer(t, DirectionImport)
		_, err := NewProductLine(c, "SKU-1", decimal.Zero, details)
		assert.Error(t, err)
		_, err = NewProductLine(c, "SKU-1", decimal.NewFromInt(1), ProductLineDetails{Unit: Unit("box")})
		assert.Error(t, err)
	})
}

func TestProductLine_ReceivedQuantity(t *testing.T) {
	c := newTestContainer(t, DirectionImport)
	line, err := NewProductLine(c, "SKU-1", decimal.NewFromInt(10), ProductLineDetails{Unit: UnitPieces})
	require.NoError(t, err)

	t.Run("only once received", func(t *testing.T) {
		assert.Error(t, line.SetReceivedQuantity(c, decimal.NewFromInt(9), decimal.Zero))
	})

	require.NoError(t, c.TransitionTo(ContainerStatusReceived, uuid.Nil))

	t.Run("cannot drop below put away", func(t *testing.T) {
		assert.Error(t, line.SetReceivedQuantity(c, decimal.NewFromInt(3), decimal.NewFromInt(4)))
	})

	t.Run("records the count", func(t *testing.T) {
		require.NoError(t, line.SetReceivedQuantity(c, decimal.NewFromInt(9), decimal.Zero))
		assert.True(t, line.EffectiveReceived().Equal(decimal.NewFromInt(9)))
		line.DefaultReceived()
		assert.True(t, line.ReceivedQuantity.Equal(decimal.NewFromInt(9)))
	})

	t.Run("defaults to expected", func(t *testing.T) {
		other, err := NewProductLine(c, "SKU-2", decimal.NewFromInt(5), ProductLineDetails{Unit: UnitPieces})
		require.NoError(t, err)
		other.DefaultReceived()
		require.NotNil(t, other.ReceivedQuantity)
		assert.True(t, other.ReceivedQuantity.Equal(decimal.NewFromInt(5)))
	})
}
