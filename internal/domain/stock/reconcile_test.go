package stock

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
)

func TestCheckPutAwayComplete(t *testing.T) {
	c, line := receivedImport(t, 10)
	other, err := freight.NewProductLine(c, "SKU-2", dec(4), freight.ProductLineDetails{Unit: freight.UnitPieces})
	require.NoError(t, err)
	w := newWarehouse(t)

	first, err := NewPutAwayStock(c, line, w, "A-01", dec(6), decimal.Zero)
	require.NoError(t, err)
	second, err := NewPutAwayStock(c, line, w, "A-02", dec(4), dec(6))
	require.NoError(t, err)

	lines := []freight.ProductLine{*line, *other}

	err = CheckPutAwayComplete(lines, []PutAwayStock{*first, *second})
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PUT_AWAY_INCOMPLETE", de.Code)
	assert.Equal(t, []string{"SKU-2: 0 of 4 put away"}, de.Details)

	third, err := NewPutAwayStock(c, other, w, "B-01", dec(4), decimal.Zero)
	require.NoError(t, err)
	assert.NoError(t, CheckPutAwayComplete(lines, []PutAwayStock{*first, *second, *third}))
	assert.True(t, SumPutAway([]PutAwayStock{*first, *second}).Equal(dec(10)))
}

func TestCheckPutAwayComplete_NoLines(t *testing.T) {
	assert.NoError(t, CheckPutAwayComplete(nil, nil))
}

func TestCheckPickupComplete(t *testing.T) {
	assert.Error(t, CheckPickupComplete(nil))

	source := newPutAway(t, 10)
	exp := newContainer(t, freight.DirectionExport, "MSCU1234566")
	a, err := NewAllocation(exp, source, dec(4))
	require.NoError(t, err)
	require.NoError(t, a.RecordPick(dec(1)))

	err = CheckPickupComplete([]Allocation{*a})
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{"SKU-1: 1 of 4 picked"}, de.Details)

	require.NoError(t, a.RecordPick(dec(3)))
	assert.NoError(t, CheckPickupComplete([]Allocation{*a}))
}
