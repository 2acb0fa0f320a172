package backup

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type RunTrigger string

const (
	TriggerManual    RunTrigger = "manual"
	TriggerScheduled RunTrigger = "scheduled"
)

// Run is one backup execution.
type Run struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Status     RunStatus          `json:"status" bson:"status"`
	Trigger    RunTrigger         `json:"trigger" bson:"trigger"`
	StartedAt  time.Time          `json:"started_at" bson:"started_at"`
	FinishedAt *time.Time         `json:"finished_at,omitempty" bson:"finished_at,omitempty"`

	Directory   string   `json:"directory" bson:"directory"`
	Collections []string `json:"collections" bson:"collections"`
	Documents   int64    `json:"documents" bson:"documents"`
	Archived    int64    `json:"archived" bson:"archived"`

	Error string `json:"error,omitempty" bson:"error,omitempty"`
}
