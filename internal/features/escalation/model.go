package escalation

import (
	"time"

	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeCondition selects which ticket timestamp anchors the elapsed-time
// computation for a rule.
type TimeCondition string

const (
	// TimeConditionUnassigned measures time since the ticket became
	// unassigned (created_at if it was never assigned). Only applies while
	// the ticket is currently unassigned.
	TimeConditionUnassigned TimeCondition = "unassigned_time"
	// TimeConditionNoResponse measures time since the last agent response
	// (created_at if there has been none).
	TimeConditionNoResponse TimeCondition = "no_response_time"
	// TimeConditionResolution measures time since creation, while the
	// ticket is unresolved.
	TimeConditionResolution TimeCondition = "resolution_time"
	// TimeConditionCustom anchors at the ticket's last update.
	TimeConditionCustom TimeCondition = "custom_time"
)

type TimeUnit string

const (
	TimeUnitMinutes TimeUnit = "minutes"
	TimeUnitHours   TimeUnit = "hours"
	TimeUnitDays    TimeUnit = "days"
)

// AssignmentState is a tri-state assignment condition: empty matches any
// ticket, the other two require the ticket to be unassigned or assigned.
type AssignmentState string

const (
	AssignmentAny        AssignmentState = ""
	AssignmentUnassigned AssignmentState = "unassigned"
	AssignmentAssigned   AssignmentState = "assigned"
)

// Conditions is the subject-matter predicate of a rule. Unset fields match
// any ticket; set fields are ANDed.
type Conditions struct {
	Status     *ticket.TicketStatus   `json:"status,omitempty" bson:"status,omitempty"`
	Priority   *ticket.TicketPriority `json:"priority,omitempty" bson:"priority,omitempty"`
	Assignment AssignmentState        `json:"assignment,omitempty" bson:"assignment,omitempty"`
}

// NotifyAction sends a notification to each recipient over the configured
// channel mix.
type NotifyAction struct {
	Recipients []primitive.ObjectID `json:"recipients" bson:"recipients"`
	Channels   []string             `json:"channels" bson:"channels"`
}

type CommentAction struct {
	Text string `json:"text" bson:"text"`
}

type StatusAction struct {
	Target ticket.TicketStatus `json:"target" bson:"target"`
}

type AssignAction struct {
	UserID primitive.ObjectID `json:"user_id" bson:"user_id"`
}

// Actions holds one optional variant per supported action kind. A nil field
// means the action is not configured on the rule.
type Actions struct {
	NotifySupervisor *NotifyAction  `json:"notify_supervisor,omitempty" bson:"notify_supervisor,omitempty"`
	AddComment       *CommentAction `json:"add_comment,omitempty" bson:"add_comment,omitempty"`
	SetStatus        *StatusAction  `json:"set_status,omitempty" bson:"set_status,omitempty"`
	AssignToUser     *AssignAction  `json:"assign_to_user,omitempty" bson:"assign_to_user,omitempty"`
}

// Rule is a configured escalation rule.
type Rule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`

	IsActive bool `json:"is_active" bson:"is_active"`
	// Priority orders evaluation among rules: lower values are evaluated
	// first.
	Priority int `json:"priority" bson:"priority"`

	Conditions Conditions `json:"conditions" bson:"conditions"`
	Actions    Actions    `json:"actions" bson:"actions"`

	TimeCondition TimeCondition `json:"time_condition" bson:"time_condition"`
	TimeThreshold int           `json:"time_threshold" bson:"time_threshold"`
	TimeUnit      TimeUnit      `json:"time_unit" bson:"time_unit"`

	// Business window. Start/End are "HH:MM"; WorkingDays are weekday
	// indices with Sunday = 0.
	BusinessHoursOnly  bool   `json:"business_hours_only" bson:"business_hours_only"`
	BusinessHoursStart string `json:"business_hours_start,omitempty" bson:"business_hours_start,omitempty"`
	BusinessHoursEnd   string `json:"business_hours_end,omitempty" bson:"business_hours_end,omitempty"`
	WorkingDays        []int  `json:"working_days,omitempty" bson:"working_days,omitempty"`

	RepeatEscalation bool `json:"repeat_escalation" bson:"repeat_escalation"`
	// RepeatInterval is in minutes.
	RepeatInterval int `json:"repeat_interval,omitempty" bson:"repeat_interval,omitempty"`
	MaxRepeats     int `json:"max_repeats,omitempty" bson:"max_repeats,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// FireLog records that a rule has fired for a ticket. One document per
// (rule, ticket) pair, enforced by a unique compound index.
type FireLog struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RuleID     primitive.ObjectID `json:"rule_id" bson:"rule_id"`
	TicketID   primitive.ObjectID `json:"ticket_id" bson:"ticket_id"`
	FiredAt    time.Time          `json:"fired_at" bson:"fired_at"`
	TimesFired int                `json:"times_fired" bson:"times_fired"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
