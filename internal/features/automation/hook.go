package automation

import (
	"context"

	"go-helpdesk/internal/features/ticket"
)

// TicketHook bridges ticket lifecycle events into automation triggers.
type TicketHook struct {
	service AutomationService
}

func NewTicketHook(service AutomationService) ticket.LifecycleHook {
	return &TicketHook{service: service}
}

func (h *TicketHook) TicketCreated(ctx context.Context, t *ticket.Ticket) {
	h.service.ExecuteFromTrigger(ctx, TriggerTicketCreated, t)
}

func (h *TicketHook) TicketUpdated(ctx context.Context, t *ticket.Ticket) {
	h.service.ExecuteFromTrigger(ctx, TriggerTicketUpdated, t)
}
