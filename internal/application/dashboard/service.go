// Package dashboard aggregates per-tenant operational counts.
package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/stock"
)

// ContainerCount is the number of containers of one direction in one status
type ContainerCount struct {
	Direction string `json:"direction"`
	Status    string `json:"status"`
	Count     int64  `json:"count"`
}

// Summary is the dashboard payload
type Summary struct {
	Containers     []ContainerCount `json:"containers"`
	Bookings       map[string]int64 `json:"bookings"`
	Dispatches     map[string]int64 `json:"dispatches"`
	AvailableStock decimal.Decimal  `json:"available_stock"`
}

// Service builds dashboard summaries
type Service struct {
	containerRepo freight.ContainerRepository
	bookingRepo   freight.BookingRepository
	dispatchRepo  dispatch.DispatchRepository
	putAwayRepo   stock.PutAwayRepository
}

// NewService creates a dashboard service
func NewService(
	containerRepo freight.ContainerRepository,
	bookingRepo freight.BookingRepository,
	dispatchRepo dispatch.DispatchRepository,
	putAwayRepo stock.PutAwayRepository,
) *Service {
	return &Service{
		containerRepo: containerRepo,
		bookingRepo:   bookingRepo,
		dispatchRepo:  dispatchRepo,
		putAwayRepo:   putAwayRepo,
	}
}

// Summary returns the tenant's container, booking and dispatch counts and its available stock
func (s *Service) Summary(ctx context.Context, tenantID uuid.UUID) (*Summary, error) {
	containers, err := s.containerRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	dispatches, err := s.dispatchRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	available, err := s.putAwayRepo.SumAvailable(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		Containers:     make([]ContainerCount, 0, len(containers)),
		Bookings:       make(map[string]int64, len(bookings)),
		Dispatches:     make(map[string]int64, len(dispatches)),
		AvailableStock: available,
	}
	for _, c := range containers {
		out.Containers = append(out.Containers, ContainerCount{Direction: c.Direction, Status: c.Status, Count: c.Count})
	}
	for _, b := range bookings {
		out.Bookings[b.Status] += b.Count
	}
	for _, d := range dispatches {
		out.Dispatches[string(d.Status)] = d.Count
	}
	return out, nil
}
