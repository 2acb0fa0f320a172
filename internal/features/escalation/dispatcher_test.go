package escalation

import (
	"testing"

	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildIntentsNotifyPerRecipient(t *testing.T) {
	u1, u2 := primitive.NewObjectID(), primitive.NewObjectID()
	rule := &Rule{
		Name: "notify rule",
		Actions: Actions{
			NotifySupervisor: &NotifyAction{
				Recipients: []primitive.ObjectID{u1, u2},
				Channels:   []string{"email", "in_app"},
			},
		},
	}

	intents, errs := buildIntents(rule)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(intents) != 2 {
		t.Fatalf("got %d intents, want 2", len(intents))
	}
	for i, want := range []primitive.ObjectID{u1, u2} {
		if intents[i].Kind != IntentNotify || intents[i].Recipient != want {
			t.Errorf("intent %d = %+v, want notify to %s", i, intents[i], want.Hex())
		}
	}
}

func TestBuildIntentsEmptyRecipientsIsError(t *testing.T) {
	rule := &Rule{
		Name:    "broken notify",
		Actions: Actions{NotifySupervisor: &NotifyAction{}},
	}

	intents, errs := buildIntents(rule)
	if len(intents) != 0 {
		t.Errorf("got %d intents, want 0", len(intents))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
}

func TestBuildIntentsUnknownStatusIsError(t *testing.T) {
	rule := &Rule{
		Name: "mixed rule",
		Actions: Actions{
			SetStatus:  &StatusAction{Target: ticket.TicketStatus("archived")},
			AddComment: &CommentAction{Text: "escalated"},
		},
	}

	intents, errs := buildIntents(rule)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	// the bad status must not suppress the comment action
	if len(intents) != 1 || intents[0].Kind != IntentComment {
		t.Fatalf("got %+v, want one comment intent", intents)
	}
}

func TestBuildIntentsAllActions(t *testing.T) {
	assignee := primitive.NewObjectID()
	rule := &Rule{
		Name: "full rule",
		Actions: Actions{
			NotifySupervisor: &NotifyAction{Recipients: []primitive.ObjectID{primitive.NewObjectID()}},
			AddComment:       &CommentAction{Text: "breached"},
			SetStatus:        &StatusAction{Target: ticket.TicketStatusPending},
			AssignToUser:     &AssignAction{UserID: assignee},
		},
	}

	intents, errs := buildIntents(rule)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(intents) != 4 {
		t.Fatalf("got %d intents, want 4", len(intents))
	}

	kinds := map[IntentKind]bool{}
	for _, intent := range intents {
		kinds[intent.Kind] = true
	}
	for _, kind := range []IntentKind{IntentNotify, IntentComment, IntentStatus, IntentAssign} {
		if !kinds[kind] {
			t.Errorf("missing %s intent", kind)
		}
	}
}

func TestBuildIntentsNoActions(t *testing.T) {
	intents, errs := buildIntents(&Rule{Name: "empty"})
	if len(intents) != 0 || len(errs) != 0 {
		t.Errorf("empty actions produced intents=%v errs=%v", intents, errs)
	}
}
