package ticket

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus represents the status of a ticket
type TicketStatus string

const (
	TicketStatusNew      TicketStatus = "new"
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// ValidStatus reports whether s is one of the known status slugs.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusNew, TicketStatusOpen, TicketStatusPending, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority represents the priority level of a ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketChannel represents the channel through which the ticket was created
type TicketChannel string

const (
	TicketChannelEmail  TicketChannel = "email"
	TicketChannelChat   TicketChannel = "chat"
	TicketChannelPortal TicketChannel = "portal"
	TicketChannelPhone  TicketChannel = "phone"
)

// StatusHistoryEntry represents a status change in the ticket lifecycle
type StatusHistoryEntry struct {
	Status    TicketStatus       `json:"status" bson:"status"`
	ChangedBy primitive.ObjectID `json:"changed_by" bson:"changed_by"`
	ChangedAt time.Time          `json:"changed_at" bson:"changed_at"`
	Comment   string             `json:"comment,omitempty" bson:"comment,omitempty"`
}

// EscalationHistoryEntry represents an escalation event
type EscalationHistoryEntry struct {
	Level       int                `json:"level" bson:"level"`
	EscalatedAt time.Time          `json:"escalated_at" bson:"escalated_at"`
	Reason      string             `json:"reason" bson:"reason"`
	RuleID      primitive.ObjectID `json:"rule_id,omitempty" bson:"rule_id,omitempty"`
}

// Ticket represents a customer support ticket
type Ticket struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TicketNumber string             `json:"ticket_number" bson:"ticket_number"`
	Subject      string             `json:"subject" bson:"subject"`
	Description  string             `json:"description" bson:"description"`

	// Channel Information
	Channel TicketChannel `json:"channel" bson:"channel"`

	// Priority & SLA
	Priority        TicketPriority      `json:"priority" bson:"priority"`
	SLAPolicyID     *primitive.ObjectID `json:"sla_policy_id,omitempty" bson:"sla_policy_id,omitempty"`
	DueDate         *time.Time          `json:"due_date,omitempty" bson:"due_date,omitempty"`
	ResponseDueDate *time.Time          `json:"response_due_date,omitempty" bson:"response_due_date,omitempty"`
	FirstResponseAt *time.Time          `json:"first_response_at,omitempty" bson:"first_response_at,omitempty"`
	LastResponseAt  *time.Time          `json:"last_response_at,omitempty" bson:"last_response_at,omitempty"`

	// Status Workflow
	Status        TicketStatus         `json:"status" bson:"status"`
	StatusHistory []StatusHistoryEntry `json:"status_history,omitempty" bson:"status_history,omitempty"`

	// Assignment. UnassignedAt records when the ticket last lost its
	// assignee; nil when it has never been assigned (created_at applies).
	AssignedTo   *primitive.ObjectID `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	AssignedAt   *time.Time          `json:"assigned_at,omitempty" bson:"assigned_at,omitempty"`
	UnassignedAt *time.Time          `json:"unassigned_at,omitempty" bson:"unassigned_at,omitempty"`

	// Customer Information
	CustomerID    *primitive.ObjectID `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	CustomerEmail string              `json:"customer_email" bson:"customer_email"`
	CustomerName  string              `json:"customer_name" bson:"customer_name"`

	// Escalation
	EscalationLevel   int                      `json:"escalation_level" bson:"escalation_level"`
	EscalationHistory []EscalationHistoryEntry `json:"escalation_history,omitempty" bson:"escalation_history,omitempty"`

	// Tags and Categories
	Tags     []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Category string   `json:"category,omitempty" bson:"category,omitempty"`

	// Timestamps
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// SLAPolicy represents a Service Level Agreement policy
type SLAPolicy struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`

	// Priority Mapping
	Priority TicketPriority `json:"priority" bson:"priority"`

	// Time Limits (in minutes)
	ResponseTime   int `json:"response_time" bson:"response_time"`
	ResolutionTime int `json:"resolution_time" bson:"resolution_time"`

	// Status
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CommentAuthorType distinguishes human comments from ones appended by rules.
type CommentAuthorType string

const (
	CommentAuthorUser   CommentAuthorType = "user"
	CommentAuthorSystem CommentAuthorType = "system"
)

// TicketComment represents a comment or note on a ticket
type TicketComment struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TicketID   primitive.ObjectID `json:"ticket_id" bson:"ticket_id"`
	Content    string             `json:"content" bson:"content"`
	IsInternal bool               `json:"is_internal" bson:"is_internal"`

	// Author
	AuthorType CommentAuthorType  `json:"author_type" bson:"author_type"`
	CreatedBy  primitive.ObjectID `json:"created_by,omitempty" bson:"created_by,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
