package escalation

import "go-helpdesk/internal/features/ticket"

// Matches reports whether the ticket satisfies every set condition field.
// Unset fields match any ticket; there is no OR or negation.
func (c Conditions) Matches(t *ticket.Ticket) bool {
	if c.Status != nil && t.Status != *c.Status {
		return false
	}
	if c.Priority != nil && t.Priority != *c.Priority {
		return false
	}
	switch c.Assignment {
	case AssignmentUnassigned:
		if t.AssignedTo != nil {
			return false
		}
	case AssignmentAssigned:
		if t.AssignedTo == nil {
			return false
		}
	}
	return true
}
