package escalation

import (
	"fmt"

	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IntentKind string

const (
	IntentNotify  IntentKind = "notify"
	IntentComment IntentKind = "comment"
	IntentStatus  IntentKind = "status"
	IntentAssign  IntentKind = "assign"
)

// Intent is a side-effect request produced by a fired rule. The dispatcher
// only builds intents; executing them is the sweep's job.
type Intent struct {
	Kind IntentKind

	// notify
	Recipient primitive.ObjectID
	Channels  []string

	// comment
	Comment string

	// status
	Status ticket.TicketStatus

	// assign
	AssigneeID primitive.ObjectID
}

// buildIntents turns a rule's configured actions into intents. Misconfigured
// actions (empty recipients, unknown status, zero assignee) produce an error
// instead of an intent; one bad action does not suppress the others.
func buildIntents(rule *Rule) ([]Intent, []error) {
	var intents []Intent
	var errs []error

	if a := rule.Actions.NotifySupervisor; a != nil {
		if len(a.Recipients) == 0 {
			errs = append(errs, fmt.Errorf("rule %s: notify_supervisor has no recipients", rule.Name))
		} else {
			channels := a.Channels
			if len(channels) == 0 {
				channels = []string{"in_app"}
			}
			for _, recipient := range a.Recipients {
				intents = append(intents, Intent{
					Kind:      IntentNotify,
					Recipient: recipient,
					Channels:  channels,
				})
			}
		}
	}

	if a := rule.Actions.AddComment; a != nil {
		if a.Text == "" {
			errs = append(errs, fmt.Errorf("rule %s: add_comment has no text", rule.Name))
		} else {
			intents = append(intents, Intent{Kind: IntentComment, Comment: a.Text})
		}
	}

	if a := rule.Actions.SetStatus; a != nil {
		if !ticket.ValidStatus(a.Target) {
			errs = append(errs, fmt.Errorf("rule %s: set_status target %q is not a known status", rule.Name, a.Target))
		} else {
			intents = append(intents, Intent{Kind: IntentStatus, Status: a.Target})
		}
	}

	if a := rule.Actions.AssignToUser; a != nil {
		if a.UserID.IsZero() {
			errs = append(errs, fmt.Errorf("rule %s: assign_to_user has no user", rule.Name))
		} else {
			intents = append(intents, Intent{Kind: IntentAssign, AssigneeID: a.UserID})
		}
	}

	return intents, errs
}
