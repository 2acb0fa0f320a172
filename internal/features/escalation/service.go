package escalation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const mutationAttempts = 3

// TicketReader supplies the open-ticket working set for a sweep.
type TicketReader interface {
	FindOpen(ctx context.Context) ([]ticket.Ticket, error)
}

// TicketMutator executes ticket-side intents. Implemented by an adapter over
// the ticket feature.
type TicketMutator interface {
	SetStatus(ctx context.Context, ticketID primitive.ObjectID, status ticket.TicketStatus, comment string) error
	Assign(ctx context.Context, ticketID, userID primitive.ObjectID) error
	AppendSystemComment(ctx context.Context, ticketID primitive.ObjectID, text string) error
	RecordEscalation(ctx context.Context, ticketID primitive.ObjectID, entry ticket.EscalationHistoryEntry) error
}

// Notifier delivers notification intents. Implemented by an adapter over the
// notification feature.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, channels []string, title, message, link string) error
}

// SweepResult summarizes one evaluation sweep.
type SweepResult struct {
	StartedAt      time.Time `json:"started_at"`
	Duration       string    `json:"duration"`
	RulesEvaluated int       `json:"rules_evaluated"`
	OpenTickets    int       `json:"open_tickets"`
	Fired          int       `json:"fired"`
	Errors         []string  `json:"errors,omitempty"`
}

type EscalationService interface {
	CreateRule(ctx context.Context, rule *Rule) error
	GetRule(ctx context.Context, id string) (*Rule, error)
	ListRules(ctx context.Context) ([]Rule, error)
	UpdateRule(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteRule(ctx context.Context, id string) error

	// RunSweep evaluates every active rule against every open ticket and
	// dispatches actions for pairs that fire. Per-pair errors are collected
	// in the result, never fatal.
	RunSweep(ctx context.Context) (*SweepResult, error)
}

type EscalationServiceImpl struct {
	ruleRepo     RuleRepository
	fireRepo     FireLogRepository
	tickets      TicketReader
	mutator      TicketMutator
	notifier     Notifier
	auditService audit.AuditService
	logger       *zap.Logger
}

func NewEscalationService(
	ruleRepo RuleRepository,
	fireRepo FireLogRepository,
	tickets TicketReader,
	mutator TicketMutator,
	notifier Notifier,
	auditService audit.AuditService,
	logger *zap.Logger,
) EscalationService {
	return &EscalationServiceImpl{
		ruleRepo:     ruleRepo,
		fireRepo:     fireRepo,
		tickets:      tickets,
		mutator:      mutator,
		notifier:     notifier,
		auditService: auditService,
		logger:       logger,
	}
}

func validateRule(rule *Rule) error {
	if rule.Name == "" {
		return errors.New("rule name is required")
	}
	switch rule.TimeCondition {
	case TimeConditionUnassigned, TimeConditionNoResponse, TimeConditionResolution, TimeConditionCustom:
	default:
		return fmt.Errorf("unknown time condition: %s", rule.TimeCondition)
	}
	if _, err := thresholdSeconds(rule.TimeThreshold, rule.TimeUnit); err != nil {
		return err
	}
	if rule.TimeThreshold <= 0 {
		return errors.New("time threshold must be positive")
	}
	if rule.BusinessHoursOnly {
		if _, err := parseClock(rule.BusinessHoursStart); err != nil {
			return err
		}
		if _, err := parseClock(rule.BusinessHoursEnd); err != nil {
			return err
		}
		if len(rule.WorkingDays) == 0 {
			return errors.New("business hours rules need at least one working day")
		}
	}
	if rule.RepeatEscalation {
		if rule.RepeatInterval <= 0 {
			return errors.New("repeat interval must be positive")
		}
		if rule.MaxRepeats <= 0 {
			return errors.New("max repeats must be positive")
		}
	}
	return nil
}

func (s *EscalationServiceImpl) CreateRule(ctx context.Context, rule *Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return err
	}
	_ = s.auditService.LogChange(ctx, models.AuditActionCreate, "escalation_rules", rule.ID.Hex(), map[string]models.Change{
		"name": {New: rule.Name},
	})
	return nil
}

func (s *EscalationServiceImpl) GetRule(ctx context.Context, id string) (*Rule, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid rule ID")
	}
	return s.ruleRepo.FindByID(ctx, objID)
}

func (s *EscalationServiceImpl) ListRules(ctx context.Context) ([]Rule, error) {
	return s.ruleRepo.FindAll(ctx)
}

func (s *EscalationServiceImpl) UpdateRule(ctx context.Context, id string, updates map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid rule ID")
	}

	existing, err := s.ruleRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	set := bson.M{}
	for k, v := range updates {
		if k == "_id" || k == "created_at" {
			continue
		}
		set[k] = v
	}

	// validate the rule as it will be stored, not just the changed fields
	merged, err := mergeRule(existing, set)
	if err != nil {
		return err
	}
	if err := validateRule(merged); err != nil {
		return err
	}

	if err := s.ruleRepo.Update(ctx, objID, set); err != nil {
		return err
	}

	changes := map[string]models.Change{}
	for k, v := range set {
		changes[k] = models.Change{New: v}
	}
	_ = s.auditService.LogChange(ctx, models.AuditActionUpdate, "escalation_rules", id, changes)
	return nil
}

// mergeRule applies an update document to a copy of the stored rule so the
// result can be validated before anything is written.
func mergeRule(existing *Rule, set bson.M) (*Rule, error) {
	raw, err := bson.Marshal(existing)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for k, v := range set {
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var merged Rule
	if err := bson.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *EscalationServiceImpl) DeleteRule(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid rule ID")
	}
	old, _ := s.ruleRepo.FindByID(ctx, objID)
	if err := s.ruleRepo.Delete(ctx, objID); err != nil {
		return err
	}
	_ = s.auditService.LogChange(ctx, models.AuditActionDelete, "escalation_rules", id, map[string]models.Change{
		"rule": {Old: old, New: "DELETED"},
	})
	return nil
}

func (s *EscalationServiceImpl) RunSweep(ctx context.Context) (*SweepResult, error) {
	started := time.Now()
	result := &SweepResult{StartedAt: started}

	rules, err := s.ruleRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active rules: %w", err)
	}
	tickets, err := s.tickets.FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load open tickets: %w", err)
	}
	result.RulesEvaluated = len(rules)
	result.OpenTickets = len(tickets)

	now := time.Now()
	for i := range tickets {
		t := &tickets[i]
		for j := range rules {
			rule := &rules[j]
			fired, errs := s.evaluatePair(ctx, rule, t, now)
			if fired {
				result.Fired++
			}
			for _, e := range errs {
				result.Errors = append(result.Errors, e.Error())
			}
		}
	}

	result.Duration = time.Since(started).String()
	s.logger.Info("escalation sweep finished",
		zap.Int("rules", result.RulesEvaluated),
		zap.Int("tickets", result.OpenTickets),
		zap.Int("fired", result.Fired),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// evaluatePair runs matcher -> threshold -> repeat gate -> fire claim ->
// dispatch for one (rule, ticket) pair.
func (s *EscalationServiceImpl) evaluatePair(ctx context.Context, rule *Rule, t *ticket.Ticket, now time.Time) (bool, []error) {
	if !rule.Conditions.Matches(t) {
		return false, nil
	}
	if !elapsedExceeds(rule, t, now) {
		return false, nil
	}

	fire, err := s.fireRepo.Find(ctx, rule.ID, t.ID)
	if err != nil {
		return false, []error{fmt.Errorf("rule %s ticket %s: fire-log read: %w", rule.Name, t.TicketNumber, err)}
	}
	if !shouldFire(rule, fire, now) {
		return false, nil
	}

	prior := 0
	if fire != nil {
		prior = fire.TimesFired
	}
	claimed, err := s.fireRepo.TryRecordFire(ctx, rule.ID, t.ID, prior, now)
	if err != nil {
		return false, []error{fmt.Errorf("rule %s ticket %s: fire-log write: %w", rule.Name, t.TicketNumber, err)}
	}
	if !claimed {
		// a concurrent sweep won the claim; its dispatch covers this fire
		return false, nil
	}

	intents, errs := buildIntents(rule)
	for _, intent := range intents {
		if err := s.executeIntent(ctx, intent, rule, t); err != nil {
			errs = append(errs, fmt.Errorf("rule %s ticket %s: %w", rule.Name, t.TicketNumber, err))
		}
	}

	entry := ticket.EscalationHistoryEntry{
		Level:       t.EscalationLevel + prior + 1,
		EscalatedAt: now,
		Reason:      rule.Name,
		RuleID:      rule.ID,
	}
	if err := s.mutator.RecordEscalation(ctx, t.ID, entry); err != nil {
		errs = append(errs, fmt.Errorf("rule %s ticket %s: record escalation: %w", rule.Name, t.TicketNumber, err))
	}

	_ = s.auditService.LogChange(ctx, models.AuditActionEscalation, "tickets", t.ID.Hex(), map[string]models.Change{
		"escalation": {New: rule.Name},
	})

	for _, e := range errs {
		s.logger.Error("escalation action error", zap.Error(e))
	}
	return true, errs
}

func (s *EscalationServiceImpl) executeIntent(ctx context.Context, intent Intent, rule *Rule, t *ticket.Ticket) error {
	link := "/tickets/" + t.ID.Hex()
	switch intent.Kind {
	case IntentNotify:
		title := "Ticket escalated: " + t.TicketNumber
		message := fmt.Sprintf("Rule %q escalated ticket %s (%s)", rule.Name, t.TicketNumber, t.Subject)
		return s.notifier.Notify(ctx, intent.Recipient, intent.Channels, title, message, link)
	case IntentComment:
		return s.mutator.AppendSystemComment(ctx, t.ID, intent.Comment)
	case IntentStatus:
		return withRetry(mutationAttempts, func() error {
			return s.mutator.SetStatus(ctx, t.ID, intent.Status, "escalated by rule "+rule.Name)
		})
	case IntentAssign:
		return withRetry(mutationAttempts, func() error {
			return s.mutator.Assign(ctx, t.ID, intent.AssigneeID)
		})
	default:
		return fmt.Errorf("unknown intent kind: %s", intent.Kind)
	}
}

// withRetry retries state-affecting mutations a bounded number of times.
func withRetry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
