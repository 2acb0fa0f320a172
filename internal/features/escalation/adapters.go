package escalation

import (
	"context"

	"go-helpdesk/internal/features/notification"
	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ticketMutatorAdapter executes ticket intents against the ticket feature's
// repositories. Status changes and assignments go straight to the repository
// so sweep-originated mutations carry the system actor, not a user.
type ticketMutatorAdapter struct {
	tickets  ticket.TicketRepository
	comments ticket.CommentRepository
}

func NewTicketMutator(tickets ticket.TicketRepository, comments ticket.CommentRepository) TicketMutator {
	return &ticketMutatorAdapter{
		tickets:  tickets,
		comments: comments,
	}
}

func (a *ticketMutatorAdapter) SetStatus(ctx context.Context, ticketID primitive.ObjectID, status ticket.TicketStatus, comment string) error {
	return a.tickets.UpdateStatus(ctx, ticketID, status, primitive.NilObjectID, comment)
}

func (a *ticketMutatorAdapter) Assign(ctx context.Context, ticketID, userID primitive.ObjectID) error {
	return a.tickets.Assign(ctx, ticketID, &userID)
}

func (a *ticketMutatorAdapter) AppendSystemComment(ctx context.Context, ticketID primitive.ObjectID, text string) error {
	return a.comments.Create(ctx, &ticket.TicketComment{
		TicketID:   ticketID,
		Content:    text,
		IsInternal: true,
		AuthorType: ticket.CommentAuthorSystem,
	})
}

func (a *ticketMutatorAdapter) RecordEscalation(ctx context.Context, ticketID primitive.ObjectID, entry ticket.EscalationHistoryEntry) error {
	return a.tickets.PushEscalation(ctx, ticketID, entry)
}

type notifierAdapter struct {
	service notification.NotificationService
}

func NewNotifier(service notification.NotificationService) Notifier {
	return &notifierAdapter{service: service}
}

func (a *notifierAdapter) Notify(ctx context.Context, userID primitive.ObjectID, channels []string, title, message, link string) error {
	converted := make([]notification.Channel, 0, len(channels))
	for _, c := range channels {
		converted = append(converted, notification.Channel(c))
	}
	return a.service.Send(ctx, userID, converted, title, message, notification.NotificationTypeEscalation, link)
}
