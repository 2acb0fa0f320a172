package automation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TriggerType string

const (
	TriggerTicketCreated TriggerType = "ticket_created"
	TriggerTicketUpdated TriggerType = "ticket_updated"
)

type ConditionOperator string

const (
	OperatorEquals    ConditionOperator = "equals"
	OperatorNotEquals ConditionOperator = "not_equals"
	OperatorContains  ConditionOperator = "contains"
)

type ActionType string

const (
	ActionSetField         ActionType = "set_field"
	ActionAddTag           ActionType = "add_tag"
	ActionSendNotification ActionType = "send_notification"
	ActionRunScript        ActionType = "run_script"
)

type RuleCondition struct {
	Field    string            `json:"field" bson:"field"`
	Operator ConditionOperator `json:"operator" bson:"operator"`
	Value    interface{}       `json:"value" bson:"value"`
}

type RuleAction struct {
	Type   ActionType             `json:"type" bson:"type"`
	Config map[string]interface{} `json:"config" bson:"config"`
}

// AutomationRule runs on ticket lifecycle triggers, unlike escalation rules
// which run on the periodic sweep.
type AutomationRule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	TriggerType TriggerType        `json:"trigger_type" bson:"trigger_type"`
	Active      bool               `json:"active" bson:"active"`
	Conditions  []RuleCondition    `json:"conditions" bson:"conditions"`
	Actions     []RuleAction       `json:"actions" bson:"actions"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
