package stock

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
)

// CheckPutAwayComplete verifies every product line is fully put away.
// It returns a PUT_AWAY_INCOMPLETE error listing each line's shortfall.
// A container without lines has nothing left to put away.
func CheckPutAwayComplete(lines []freight.ProductLine, putAways []PutAwayStock) error {
	totals := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for i := range putAways {
		totals[putAways[i].ProductLineID] = totals[putAways[i].ProductLineID].Add(putAways[i].Quantity)
	}
	var shortfalls []string
	for i := range lines {
		received := lines[i].EffectiveReceived()
		done := totals[lines[i].ID]
		if !done.Equal(received) {
			shortfalls = append(shortfalls, fmt.Sprintf("%s: %s of %s put away", lines[i].SKU, done, received))
		}
	}
	if len(shortfalls) > 0 {
		return shared.NewDomainError("PUT_AWAY_INCOMPLETE", "All received goods must be put away first").
			WithDetails(shortfalls...)
	}
	return nil
}

// CheckPickupComplete verifies the container has allocations and all of them are fully picked
func CheckPickupComplete(allocs []Allocation) error {
	if len(allocs) == 0 {
		return shared.NewDomainError("PICKUP_INCOMPLETE", "Container has no stock allocated")
	}
	var pending []string
	for i := range allocs {
		if !allocs[i].IsFullyPicked() {
			pending = append(pending, fmt.Sprintf("%s: %s of %s picked", allocs[i].SKU, allocs[i].PickedQuantity, allocs[i].Quantity))
		}
	}
	if len(pending) > 0 {
		return shared.NewDomainError("PICKUP_INCOMPLETE", "All allocated stock must be picked first").
			WithDetails(pending...)
	}
	return nil
}

// SumPutAway totals the quantity of the given rows
func SumPutAway(rows []PutAwayStock) decimal.Decimal {
	total := decimal.Zero
	for i := range rows {
		total = total.Add(rows[i].Quantity)
	}
	return total
}
