package automation

import (
	"context"
	"fmt"
	"strings"

	"go-helpdesk/internal/features/notification"
	"go-helpdesk/internal/features/ticket"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ActionExecutor interface {
	ExecuteActions(ctx context.Context, actions []RuleAction, t *ticket.Ticket) error
}

type ActionExecutorImpl struct {
	tickets  ticket.TicketRepository
	notifier notification.NotificationService
	logger   *zap.Logger
}

func NewActionExecutor(tickets ticket.TicketRepository, notifier notification.NotificationService, logger *zap.Logger) ActionExecutor {
	return &ActionExecutorImpl{
		tickets:  tickets,
		notifier: notifier,
		logger:   logger,
	}
}

func (e *ActionExecutorImpl) ExecuteActions(ctx context.Context, actions []RuleAction, t *ticket.Ticket) error {
	var firstErr error
	for _, action := range actions {
		var err error
		switch action.Type {
		case ActionSetField:
			err = e.executeSetField(ctx, action.Config, t)
		case ActionAddTag:
			err = e.executeAddTag(ctx, action.Config, t)
		case ActionSendNotification:
			err = e.executeSendNotification(ctx, action.Config, t)
		case ActionRunScript:
			err = e.executeRunScript(action.Config, t)
		default:
			err = fmt.Errorf("unknown action type: %s", action.Type)
		}
		if err != nil {
			e.logger.Error("automation action failed",
				zap.String("action", string(action.Type)),
				zap.String("ticket_id", t.ID.Hex()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// settable fields for set_field actions
var settableFields = map[string]bool{
	"priority": true,
	"category": true,
	"subject":  true,
}

func (e *ActionExecutorImpl) executeSetField(ctx context.Context, config map[string]interface{}, t *ticket.Ticket) error {
	field, _ := config["field"].(string)
	value := config["value"]
	if field == "" {
		return fmt.Errorf("field is required for set_field")
	}
	if !settableFields[field] {
		return fmt.Errorf("field %q cannot be set by automation", field)
	}
	return e.tickets.Update(ctx, t.ID, bson.M{field: value})
}

func (e *ActionExecutorImpl) executeAddTag(ctx context.Context, config map[string]interface{}, t *ticket.Ticket) error {
	tag, _ := config["tag"].(string)
	if tag == "" {
		return fmt.Errorf("tag is required for add_tag")
	}
	for _, existing := range t.Tags {
		if existing == tag {
			return nil
		}
	}
	return e.tickets.Update(ctx, t.ID, bson.M{"tags": append(t.Tags, tag)})
}

func (e *ActionExecutorImpl) executeSendNotification(ctx context.Context, config map[string]interface{}, t *ticket.Ticket) error {
	userID, _ := config["user_id"].(string)
	title, _ := config["title"].(string)
	message, _ := config["message"].(string)

	if userID == "" {
		return fmt.Errorf("user_id is required for notification")
	}
	if title == "" {
		return fmt.Errorf("notification title is required")
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user_id: %w", err)
	}

	fields := ticketFields(t)
	title = replacePlaceholders(title, fields)
	message = replacePlaceholders(message, fields)

	return e.notifier.Send(ctx, objID,
		[]notification.Channel{notification.ChannelInApp},
		title, message, notification.NotificationTypeTicket,
		"/tickets/"+t.ID.Hex())
}

func (e *ActionExecutorImpl) executeRunScript(config map[string]interface{}, t *ticket.Ticket) error {
	scriptContent, _ := config["script"].(string)
	if scriptContent == "" {
		return fmt.Errorf("script content is required")
	}

	script := tengo.NewScript([]byte(scriptContent))
	script.Add("ticket", ticketFields(t))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("failed to compile script: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}
	return nil
}

// ticketFields flattens a ticket to the fields conditions, placeholders and
// scripts can reference.
func ticketFields(t *ticket.Ticket) map[string]interface{} {
	assigned := ""
	if t.AssignedTo != nil {
		assigned = t.AssignedTo.Hex()
	}
	return map[string]interface{}{
		"id":             t.ID.Hex(),
		"ticket_number":  t.TicketNumber,
		"subject":        t.Subject,
		"description":    t.Description,
		"status":         string(t.Status),
		"priority":       string(t.Priority),
		"channel":        string(t.Channel),
		"category":       t.Category,
		"customer_email": t.CustomerEmail,
		"customer_name":  t.CustomerName,
		"assigned_to":    assigned,
	}
}

func replacePlaceholders(template string, fields map[string]interface{}) string {
	result := template
	for key, value := range fields {
		result = strings.ReplaceAll(result, "{"+key+"}", fmt.Sprintf("%v", value))
	}
	return result
}
