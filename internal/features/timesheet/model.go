package timesheet

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeEntry is one block of agent work, optionally tied to a ticket. Either
// StartedAt/EndedAt or an explicit DurationMins is supplied; the service
// derives the missing one.
type TimeEntry struct {
	ID       primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	AgentID  primitive.ObjectID  `json:"agent_id" bson:"agent_id"`
	TicketID *primitive.ObjectID `json:"ticket_id,omitempty" bson:"ticket_id,omitempty"`

	StartedAt    time.Time  `json:"started_at" bson:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	DurationMins int        `json:"duration_mins" bson:"duration_mins"`

	Note     string `json:"note,omitempty" bson:"note,omitempty"`
	Billable bool   `json:"billable" bson:"billable"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
