package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/notification"
	"go-helpdesk/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LifecycleHook receives ticket lifecycle events. Implementations must not
// fail the originating operation.
type LifecycleHook interface {
	TicketCreated(ctx context.Context, t *Ticket)
	TicketUpdated(ctx context.Context, t *Ticket)
}

type TicketService interface {
	CreateTicket(ctx context.Context, t *Ticket) error
	GetTicket(ctx context.Context, id string) (*Ticket, error)
	ListTickets(ctx context.Context, filter map[string]interface{}, page, limit int64, sortBy string, sortOrder int) ([]Ticket, int64, error)
	UpdateTicket(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteTicket(ctx context.Context, id string) error

	AssignTicket(ctx context.Context, id string, assigneeID string) error
	UnassignTicket(ctx context.Context, id string) error
	ChangeStatus(ctx context.Context, id string, status TicketStatus, comment string) error

	AddComment(ctx context.Context, comment *TicketComment) error
	ListComments(ctx context.Context, ticketID string, includeInternal bool) ([]TicketComment, error)

	FindOverdue(ctx context.Context) ([]Ticket, error)
}

type TicketServiceImpl struct {
	repo         TicketRepository
	commentRepo  CommentRepository
	slaService   SLAService
	auditService audit.AuditService
	notifier     notification.NotificationService
	hook         LifecycleHook
	logger       *zap.Logger
}

func NewTicketService(
	repo TicketRepository,
	commentRepo CommentRepository,
	slaService SLAService,
	auditService audit.AuditService,
	notifier notification.NotificationService,
	hook LifecycleHook,
	logger *zap.Logger,
) TicketService {
	return &TicketServiceImpl{
		repo:         repo,
		commentRepo:  commentRepo,
		slaService:   slaService,
		auditService: auditService,
		notifier:     notifier,
		hook:         hook,
		logger:       logger,
	}
}

func (s *TicketServiceImpl) CreateTicket(ctx context.Context, t *Ticket) error {
	if t.Subject == "" {
		return errors.New("subject is required")
	}
	if t.CustomerEmail == "" {
		return errors.New("customer email is required")
	}
	if t.Priority == "" {
		t.Priority = TicketPriorityMedium
	}
	if t.Channel == "" {
		t.Channel = TicketChannelPortal
	}

	number, err := s.repo.GetNextTicketNumber(ctx)
	if err != nil {
		return err
	}
	t.TicketNumber = number
	t.CreatedAt = time.Now()

	if err := s.slaService.ApplyPolicy(ctx, t); err != nil {
		s.logger.Warn("failed to apply SLA policy", zap.Error(err))
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return err
	}

	changes := map[string]models.Change{
		"ticket_number": {New: t.TicketNumber},
		"subject":       {New: t.Subject},
		"priority":      {New: t.Priority},
	}
	_ = s.auditService.LogChange(ctx, models.AuditActionCreate, "tickets", t.ID.Hex(), changes)

	if t.AssignedTo != nil {
		s.notifyAssignee(ctx, *t.AssignedTo, t)
	}
	s.hook.TicketCreated(ctx, t)
	return nil
}

func (s *TicketServiceImpl) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid ticket ID")
	}
	return s.repo.FindByID(ctx, objID)
}

func (s *TicketServiceImpl) ListTickets(ctx context.Context, filter map[string]interface{}, page, limit int64, sortBy string, sortOrder int) ([]Ticket, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := bson.M{}
	for k, v := range filter {
		switch k {
		case "status", "priority", "channel", "category":
			query[k] = v
		case "assigned_to":
			if id, err := primitive.ObjectIDFromHex(fmt.Sprint(v)); err == nil {
				query[k] = id
			}
		case "unassigned":
			query["assigned_to"] = bson.M{"$exists": false}
		case "search":
			query["$or"] = []bson.M{
				{"subject": bson.M{"$regex": v, "$options": "i"}},
				{"ticket_number": bson.M{"$regex": v, "$options": "i"}},
				{"customer_email": bson.M{"$regex": v, "$options": "i"}},
			}
		case "tag":
			query["tags"] = v
		}
	}

	return s.repo.FindAll(ctx, query, page, limit, sortBy, sortOrder)
}

func (s *TicketServiceImpl) UpdateTicket(ctx context.Context, id string, updates map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	old, err := s.repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	set := bson.M{}
	for k, v := range updates {
		// status and assignment mutations go through their dedicated flows
		switch k {
		case "_id", "ticket_number", "status", "assigned_to", "status_history", "escalation_history", "created_at":
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil
	}

	if err := s.repo.Update(ctx, objID, set); err != nil {
		return err
	}

	changes := map[string]models.Change{}
	for k, v := range set {
		changes[k] = models.Change{New: v}
	}
	changes["ticket_number"] = models.Change{Old: old.TicketNumber, New: old.TicketNumber}
	_ = s.auditService.LogChange(ctx, models.AuditActionUpdate, "tickets", id, changes)

	if updated, err := s.repo.FindByID(ctx, objID); err == nil {
		s.hook.TicketUpdated(ctx, updated)
	}
	return nil
}

func (s *TicketServiceImpl) DeleteTicket(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}
	old, _ := s.repo.FindByID(ctx, objID)
	if err := s.repo.Delete(ctx, objID); err != nil {
		return err
	}
	_ = s.auditService.LogChange(ctx, models.AuditActionDelete, "tickets", id, map[string]models.Change{
		"ticket": {Old: old, New: "DELETED"},
	})
	return nil
}

func (s *TicketServiceImpl) AssignTicket(ctx context.Context, id string, assigneeID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}
	assignee, err := primitive.ObjectIDFromHex(assigneeID)
	if err != nil {
		return errors.New("invalid assignee ID")
	}

	t, err := s.repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.repo.Assign(ctx, objID, &assignee); err != nil {
		return err
	}

	var oldAssignee interface{}
	if t.AssignedTo != nil {
		oldAssignee = t.AssignedTo.Hex()
	}
	_ = s.auditService.LogChange(ctx, models.AuditActionUpdate, "tickets", id, map[string]models.Change{
		"assigned_to": {Old: oldAssignee, New: assigneeID},
	})

	s.notifyAssignee(ctx, assignee, t)
	return nil
}

func (s *TicketServiceImpl) UnassignTicket(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	t, err := s.repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if t.AssignedTo == nil {
		return nil
	}

	if err := s.repo.Assign(ctx, objID, nil); err != nil {
		return err
	}

	_ = s.auditService.LogChange(ctx, models.AuditActionUpdate, "tickets", id, map[string]models.Change{
		"assigned_to": {Old: t.AssignedTo.Hex(), New: nil},
	})
	return nil
}

func (s *TicketServiceImpl) ChangeStatus(ctx context.Context, id string, status TicketStatus, comment string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid ticket status: %s", status)
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	t, err := s.repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if t.Status == status {
		return nil
	}

	changedBy := actorObjectID(ctx)
	if err := s.repo.UpdateStatus(ctx, objID, status, changedBy, comment); err != nil {
		return err
	}

	_ = s.auditService.LogChange(ctx, models.AuditActionUpdate, "tickets", id, map[string]models.Change{
		"status": {Old: t.Status, New: status},
	})
	return nil
}

// AddComment stores the comment and, for public agent replies, stamps the
// ticket's response timestamps used by SLA and escalation timing.
func (s *TicketServiceImpl) AddComment(ctx context.Context, comment *TicketComment) error {
	if comment.Content == "" {
		return errors.New("comment content is required")
	}

	t, err := s.repo.FindByID(ctx, comment.TicketID)
	if err != nil {
		return err
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return err
	}

	if comment.AuthorType == CommentAuthorUser && !comment.IsInternal {
		now := time.Now()
		set := bson.M{"last_response_at": now}
		if t.FirstResponseAt == nil {
			set["first_response_at"] = now
		}
		if err := s.repo.Update(ctx, comment.TicketID, set); err != nil {
			s.logger.Warn("failed to stamp response time",
				zap.String("ticket_id", comment.TicketID.Hex()),
				zap.Error(err))
		}
	}
	return nil
}

func (s *TicketServiceImpl) ListComments(ctx context.Context, ticketID string, includeInternal bool) ([]TicketComment, error) {
	objID, err := primitive.ObjectIDFromHex(ticketID)
	if err != nil {
		return nil, errors.New("invalid ticket ID")
	}
	return s.commentRepo.FindByTicket(ctx, objID, includeInternal)
}

func (s *TicketServiceImpl) FindOverdue(ctx context.Context) ([]Ticket, error) {
	return s.repo.FindOverdueSLA(ctx, time.Now())
}

func actorObjectID(ctx context.Context) primitive.ObjectID {
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			return id
		}
	}
	return primitive.NilObjectID
}

func (s *TicketServiceImpl) notifyAssignee(ctx context.Context, assignee primitive.ObjectID, t *Ticket) {
	err := s.notifier.Send(ctx, assignee,
		[]notification.Channel{notification.ChannelInApp, notification.ChannelEmail},
		"Ticket assigned",
		fmt.Sprintf("Ticket %s (%s) has been assigned to you", t.TicketNumber, t.Subject),
		notification.NotificationTypeTicket,
		"/tickets/"+t.ID.Hex())
	if err != nil {
		s.logger.Warn("assignment notification failed",
			zap.String("ticket_id", t.ID.Hex()),
			zap.Error(err))
	}
}
