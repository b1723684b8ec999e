package freight

import (
	"context"
	"fmt"

	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StatusHistoryHandler appends every container status change to the history table
type StatusHistoryHandler struct {
	historyRepo freight.StatusHistoryRepository
	logger      *zap.Logger
}

// NewStatusHistoryHandler creates the handler
func NewStatusHistoryHandler(historyRepo freight.StatusHistoryRepository, logger *zap.Logger) *StatusHistoryHandler {
	return &StatusHistoryHandler{historyRepo: historyRepo, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *StatusHistoryHandler) EventTypes() []string {
	return []string{freight.EventTypeContainerStatusChanged}
}

// Handle implements shared.EventHandler
func (h *StatusHistoryHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	e, ok := evt.(*freight.ContainerStatusChangedEvent)
	if !ok {
		return fmt.Errorf("status history: unexpected event %T", evt)
	}
	if err := h.historyRepo.Append(ctx, freight.NewStatusHistory(e)); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	h.logger.Debug("Container status recorded",
		zap.String("container_id", e.AggregateID().String()),
		zap.String("from", string(e.From)),
		zap.String("to", string(e.To)),
	)
	return nil
}
