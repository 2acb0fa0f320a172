package escalation

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRuleRepo struct {
	rules []Rule
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *Rule) error {
	rule.ID = primitive.NewObjectID()
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeRuleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Rule, error) {
	for i := range f.rules {
		if f.rules[i].ID == id {
			return &f.rules[i], nil
		}
	}
	return nil, errors.New("escalation rule not found")
}

func (f *fakeRuleRepo) FindAll(ctx context.Context) ([]Rule, error) {
	return f.rules, nil
}

func (f *fakeRuleRepo) FindActive(ctx context.Context) ([]Rule, error) {
	var active []Rule
	for _, r := range f.rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	return active, nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	return nil
}

func (f *fakeRuleRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type fireKey struct {
	rule, tkt primitive.ObjectID
}

type fakeFireRepo struct {
	entries    map[fireKey]*FireLog
	claimLoses bool
}

func newFakeFireRepo() *fakeFireRepo {
	return &fakeFireRepo{entries: map[fireKey]*FireLog{}}
}

func (f *fakeFireRepo) Find(ctx context.Context, ruleID, ticketID primitive.ObjectID) (*FireLog, error) {
	if e, ok := f.entries[fireKey{ruleID, ticketID}]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeFireRepo) TryRecordFire(ctx context.Context, ruleID, ticketID primitive.ObjectID, priorTimesFired int, now time.Time) (bool, error) {
	if f.claimLoses {
		return false, nil
	}
	key := fireKey{ruleID, ticketID}
	existing := f.entries[key]
	if priorTimesFired == 0 {
		if existing != nil {
			return false, nil
		}
		f.entries[key] = &FireLog{RuleID: ruleID, TicketID: ticketID, FiredAt: now, TimesFired: 1}
		return true, nil
	}
	if existing == nil || existing.TimesFired != priorTimesFired {
		return false, nil
	}
	existing.TimesFired++
	existing.FiredAt = now
	return true, nil
}

func (f *fakeFireRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeTicketReader struct {
	tickets []ticket.Ticket
}

func (f *fakeTicketReader) FindOpen(ctx context.Context) ([]ticket.Ticket, error) {
	return f.tickets, nil
}

type mutationCall struct {
	kind   IntentKind
	ticket primitive.ObjectID
	status ticket.TicketStatus
	user   primitive.ObjectID
	text   string
}

type fakeMutator struct {
	calls       []mutationCall
	escalations []ticket.EscalationHistoryEntry
	failStatus  int
}

func (f *fakeMutator) SetStatus(ctx context.Context, ticketID primitive.ObjectID, status ticket.TicketStatus, comment string) error {
	if f.failStatus > 0 {
		f.failStatus--
		return errors.New("transient status failure")
	}
	f.calls = append(f.calls, mutationCall{kind: IntentStatus, ticket: ticketID, status: status})
	return nil
}

func (f *fakeMutator) Assign(ctx context.Context, ticketID, userID primitive.ObjectID) error {
	f.calls = append(f.calls, mutationCall{kind: IntentAssign, ticket: ticketID, user: userID})
	return nil
}

func (f *fakeMutator) AppendSystemComment(ctx context.Context, ticketID primitive.ObjectID, text string) error {
	f.calls = append(f.calls, mutationCall{kind: IntentComment, ticket: ticketID, text: text})
	return nil
}

func (f *fakeMutator) RecordEscalation(ctx context.Context, ticketID primitive.ObjectID, entry ticket.EscalationHistoryEntry) error {
	f.escalations = append(f.escalations, entry)
	return nil
}

type notifyCall struct {
	user     primitive.ObjectID
	channels []string
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, userID primitive.ObjectID, channels []string, title, message, link string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, notifyCall{user: userID, channels: channels})
	return nil
}

type fakeAudit struct{}

func (fakeAudit) LogChange(ctx context.Context, action models.AuditAction, module string, recordID string, changes map[string]models.Change) error {
	return nil
}

func (fakeAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]models.AuditLog, error) {
	return nil, nil
}

type sweepFixture struct {
	service  EscalationService
	rules    *fakeRuleRepo
	fires    *fakeFireRepo
	reader   *fakeTicketReader
	mutator  *fakeMutator
	notifier *fakeNotifier
}

func newSweepFixture() *sweepFixture {
	f := &sweepFixture{
		rules:    &fakeRuleRepo{},
		fires:    newFakeFireRepo(),
		reader:   &fakeTicketReader{},
		mutator:  &fakeMutator{},
		notifier: &fakeNotifier{},
	}
	f.service = NewEscalationService(f.rules, f.fires, f.reader, f.mutator, f.notifier, fakeAudit{}, zap.NewNop())
	return f
}

func unassignedRule(recipient primitive.ObjectID, active bool) Rule {
	return Rule{
		ID:            primitive.NewObjectID(),
		Name:          "unassigned over 60m",
		IsActive:      active,
		Conditions:    Conditions{Status: statusPtr(ticket.TicketStatusOpen), Assignment: AssignmentUnassigned},
		TimeCondition: TimeConditionUnassigned,
		TimeThreshold: 60,
		TimeUnit:      TimeUnitMinutes,
		Actions: Actions{
			NotifySupervisor: &NotifyAction{Recipients: []primitive.ObjectID{recipient}},
		},
	}
}

func openTicket(age time.Duration) ticket.Ticket {
	return ticket.Ticket{
		ID:           primitive.NewObjectID(),
		TicketNumber: "TKT-000042",
		Subject:      "printer on fire",
		Status:       ticket.TicketStatusOpen,
		CreatedAt:    time.Now().Add(-age),
	}
}

func TestSweepEndToEnd(t *testing.T) {
	f := newSweepFixture()
	supervisor := primitive.NewObjectID()
	f.rules.rules = []Rule{unassignedRule(supervisor, true)}
	f.reader.tickets = []ticket.Ticket{openTicket(90 * time.Minute)}

	result, err := f.service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}
	if result.Fired != 1 {
		t.Fatalf("Fired = %d, want 1", result.Fired)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected sweep errors: %v", result.Errors)
	}
	if len(f.notifier.calls) != 1 || f.notifier.calls[0].user != supervisor {
		t.Errorf("notifier calls = %+v, want one call to supervisor", f.notifier.calls)
	}
	if len(f.fires.entries) != 1 {
		t.Errorf("fire-log entries = %d, want 1", len(f.fires.entries))
	}
	if len(f.mutator.escalations) != 1 || f.mutator.escalations[0].Level != 1 {
		t.Errorf("escalations = %+v, want one level-1 entry", f.mutator.escalations)
	}
}

func TestSweepInactiveRuleNeverFires(t *testing.T) {
	f := newSweepFixture()
	f.rules.rules = []Rule{unassignedRule(primitive.NewObjectID(), false)}
	f.reader.tickets = []ticket.Ticket{openTicket(48 * time.Hour)}

	result, err := f.service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}
	if result.Fired != 0 {
		t.Errorf("Fired = %d, want 0", result.Fired)
	}
	if len(f.notifier.calls) != 0 || len(f.mutator.calls) != 0 {
		t.Error("inactive rule produced actions")
	}
}

func TestSweepUnderThresholdDoesNotFire(t *testing.T) {
	f := newSweepFixture()
	f.rules.rules = []Rule{unassignedRule(primitive.NewObjectID(), true)}
	f.reader.tickets = []ticket.Ticket{openTicket(30 * time.Minute)}

	result, err := f.service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}
	if result.Fired != 0 {
		t.Errorf("Fired = %d, want 0", result.Fired)
	}
}

func TestSweepFiresOncePerPairWithoutRepeat(t *testing.T) {
	f := newSweepFixture()
	f.rules.rules = []Rule{unassignedRule(primitive.NewObjectID(), true)}
	f.reader.tickets = []ticket.Ticket{openTicket(90 * time.Minute)}

	first, err := f.service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("first RunSweep() error = %v", err)
	}
	second, err := f.service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("second RunSweep() error = %v", err)
	}

	if first.Fired != 1 || second.Fired != 0 {
		t.Errorf("fired = (%d, %d), want (1, 0)", first.Fired, second.Fired)
	}
	if len(f.notifier.calls) != 1 {
		t.Errorf("notifier calls = %d, want 1", len(f.notifier.calls))
	}
}

func TestSweepLostFireClaimSkipsDispatch(t *testing.T) {
	f := newSweepFixture()
	f.fires.claimLoses = true
	f.rules.rules = []Rule{unassignedRule(primitive.NewObjectID(), true)}
	f.reader.tickets = []ticket.Ticket{openTicket(90 * time.Minute)}

	result, err := f.service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}
	if result.Fired != 0 {
		t.Errorf("Fired = %d, want 0", result.Fired)
	}
	if len(f.notifier.calls) != 0 {
		t.Error("lost claim must not dispatch actions")
	}
}

func TestSweepCollectsErrorsAndContinues(t *testing.T) {
	f := newSweepFixture()
	f.notifier.err = errors.New("smtp down")
	supervisor := primitive.NewObjectID()

	rule := unassignedRule(supervisor, true)
	rule.Actions.AddComment = &CommentAction{Text: "escalated: no agent assigned"}
	f.rules.rules = []Rule{rule}
	f.reader.tickets = []ticket.Ticket{openTicket(90 * time.Minute)}

	result, err := f.service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}
	if result.Fired != 1 {
		t.Errorf("Fired = %d, want 1", result.Fired)
	}
	if len(result.Errors) == 0 {
		t.Error("expected the notify failure to be collected")
	}
	// the failed notify must not block the comment action
	if len(f.mutator.calls) != 1 || f.mutator.calls[0].kind != IntentComment {
		t.Errorf("mutator calls = %+v, want one comment", f.mutator.calls)
	}
}

func TestSweepRetriesStatusMutation(t *testing.T) {
	f := newSweepFixture()
	f.mutator.failStatus = 2

	rule := unassignedRule(primitive.NewObjectID(), true)
	rule.Actions = Actions{SetStatus: &StatusAction{Target: ticket.TicketStatusPending}}
	f.rules.rules = []Rule{rule}
	f.reader.tickets = []ticket.Ticket{openTicket(90 * time.Minute)}

	result, err := f.service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected retries to absorb transient failures, got %v", result.Errors)
	}
	if len(f.mutator.calls) != 1 || f.mutator.calls[0].status != ticket.TicketStatusPending {
		t.Errorf("mutator calls = %+v, want one status change", f.mutator.calls)
	}
}

func TestSweepRepeatSchedule(t *testing.T) {
	f := newSweepFixture()
	supervisor := primitive.NewObjectID()

	rule := unassignedRule(supervisor, true)
	rule.RepeatEscalation = true
	rule.RepeatInterval = 30
	rule.MaxRepeats = 3
	f.rules.rules = []Rule{rule}
	f.reader.tickets = []ticket.Ticket{openTicket(24 * time.Hour)}

	// first sweep fires
	if result, _ := f.service.RunSweep(context.Background()); result.Fired != 1 {
		t.Fatalf("first sweep fired %d, want 1", result.Fired)
	}

	// immediately after, the interval has not elapsed
	if result, _ := f.service.RunSweep(context.Background()); result.Fired != 0 {
		t.Fatalf("second sweep fired %d, want 0", result.Fired)
	}

	// age the fire-log entry past the interval twice more
	key := fireKey{rule.ID, f.reader.tickets[0].ID}
	for i := 0; i < 2; i++ {
		f.fires.entries[key].FiredAt = time.Now().Add(-31 * time.Minute)
		if result, _ := f.service.RunSweep(context.Background()); result.Fired != 1 {
			t.Fatalf("repeat sweep %d fired %d, want 1", i+1, result.Fired)
		}
	}

	// exhausted at max_repeats
	f.fires.entries[key].FiredAt = time.Now().Add(-31 * time.Minute)
	if result, _ := f.service.RunSweep(context.Background()); result.Fired != 0 {
		t.Fatalf("exhausted sweep fired %d, want 0", result.Fired)
	}
	if got := f.fires.entries[key].TimesFired; got != 3 {
		t.Errorf("times fired = %d, want 3", got)
	}
}

func TestUpdateRuleValidatesMergedRule(t *testing.T) {
	f := newSweepFixture()

	rule := unassignedRule(primitive.NewObjectID(), true)
	if err := f.service.CreateRule(context.Background(), &rule); err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	id := rule.ID.Hex()

	tests := []struct {
		name    string
		updates map[string]interface{}
		wantErr bool
	}{
		{
			name:    "valid field change",
			updates: map[string]interface{}{"time_threshold": 45},
			wantErr: false,
		},
		{
			name:    "unknown time unit rejected",
			updates: map[string]interface{}{"time_unit": "fortnights"},
			wantErr: true,
		},
		{
			name:    "unknown time condition rejected",
			updates: map[string]interface{}{"time_condition": "phase_of_moon"},
			wantErr: true,
		},
		{
			name: "repeat without interval rejected",
			updates: map[string]interface{}{
				"repeat_escalation": true,
				"max_repeats":       3,
			},
			wantErr: true,
		},
		{
			name:    "clearing the name rejected",
			updates: map[string]interface{}{"name": ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.UpdateRule(context.Background(), id, tt.updates)
			if (err != nil) != tt.wantErr {
				t.Errorf("UpdateRule() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateRuleValidation(t *testing.T) {
	f := newSweepFixture()

	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{
			name:    "valid rule",
			rule:    unassignedRule(primitive.NewObjectID(), true),
			wantErr: false,
		},
		{
			name: "missing name",
			rule: Rule{
				TimeCondition: TimeConditionNoResponse,
				TimeThreshold: 10,
				TimeUnit:      TimeUnitMinutes,
			},
			wantErr: true,
		},
		{
			name: "unknown time unit",
			rule: Rule{
				Name:          "bad unit",
				TimeCondition: TimeConditionNoResponse,
				TimeThreshold: 10,
				TimeUnit:      TimeUnit("fortnights"),
			},
			wantErr: true,
		},
		{
			name: "repeat without interval",
			rule: Rule{
				Name:             "bad repeat",
				TimeCondition:    TimeConditionNoResponse,
				TimeThreshold:    10,
				TimeUnit:         TimeUnitMinutes,
				RepeatEscalation: true,
				MaxRepeats:       3,
			},
			wantErr: true,
		},
		{
			name: "business hours without working days",
			rule: Rule{
				Name:               "bad window",
				TimeCondition:      TimeConditionNoResponse,
				TimeThreshold:      10,
				TimeUnit:           TimeUnitMinutes,
				BusinessHoursOnly:  true,
				BusinessHoursStart: "08:00",
				BusinessHoursEnd:   "18:00",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := tt.rule
			err := f.service.CreateRule(context.Background(), &rule)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateRule() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
