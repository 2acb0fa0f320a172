package escalation

import (
	"testing"

	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func statusPtr(s ticket.TicketStatus) *ticket.TicketStatus       { return &s }
func priorityPtr(p ticket.TicketPriority) *ticket.TicketPriority { return &p }

func TestConditionsMatches(t *testing.T) {
	agent := primitive.NewObjectID()

	openHigh := &ticket.Ticket{
		Status:   ticket.TicketStatusOpen,
		Priority: ticket.TicketPriorityHigh,
	}
	assignedTicket := &ticket.Ticket{
		Status:     ticket.TicketStatusOpen,
		Priority:   ticket.TicketPriorityHigh,
		AssignedTo: &agent,
	}

	tests := []struct {
		name       string
		conditions Conditions
		ticket     *ticket.Ticket
		want       bool
	}{
		{
			name:       "empty conditions match any ticket",
			conditions: Conditions{},
			ticket:     openHigh,
			want:       true,
		},
		{
			name:       "all set fields match",
			conditions: Conditions{Status: statusPtr(ticket.TicketStatusOpen), Priority: priorityPtr(ticket.TicketPriorityHigh), Assignment: AssignmentUnassigned},
			ticket:     openHigh,
			want:       true,
		},
		{
			name:       "status mismatch fails",
			conditions: Conditions{Status: statusPtr(ticket.TicketStatusPending), Priority: priorityPtr(ticket.TicketPriorityHigh)},
			ticket:     openHigh,
			want:       false,
		},
		{
			name:       "priority mismatch fails",
			conditions: Conditions{Status: statusPtr(ticket.TicketStatusOpen), Priority: priorityPtr(ticket.TicketPriorityLow)},
			ticket:     openHigh,
			want:       false,
		},
		{
			name:       "unassigned condition fails on assigned ticket",
			conditions: Conditions{Assignment: AssignmentUnassigned},
			ticket:     assignedTicket,
			want:       false,
		},
		{
			name:       "assigned condition matches assigned ticket",
			conditions: Conditions{Assignment: AssignmentAssigned},
			ticket:     assignedTicket,
			want:       true,
		},
		{
			name:       "assigned condition fails on unassigned ticket",
			conditions: Conditions{Assignment: AssignmentAssigned},
			ticket:     openHigh,
			want:       false,
		},
		{
			name:       "any assignment matches both",
			conditions: Conditions{Assignment: AssignmentAny},
			ticket:     assignedTicket,
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conditions.Matches(tt.ticket); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
