package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/ticket"

	"go.uber.org/zap"
)

type AutomationService interface {
	CreateRule(ctx context.Context, rule *AutomationRule) error
	GetRule(ctx context.Context, id string) (*AutomationRule, error)
	ListRules(ctx context.Context) ([]AutomationRule, error)
	UpdateRule(ctx context.Context, rule *AutomationRule) error
	DeleteRule(ctx context.Context, id string) error

	// ExecuteFromTrigger runs every active rule bound to the trigger against
	// the ticket. Rule failures are logged, not returned, so ticket
	// lifecycle operations never fail because of a broken automation.
	ExecuteFromTrigger(ctx context.Context, trigger TriggerType, t *ticket.Ticket)
}

type AutomationServiceImpl struct {
	repo         AutomationRepository
	executor     ActionExecutor
	auditService audit.AuditService
	logger       *zap.Logger
}

func NewAutomationService(repo AutomationRepository, executor ActionExecutor, auditService audit.AuditService, logger *zap.Logger) AutomationService {
	return &AutomationServiceImpl{
		repo:         repo,
		executor:     executor,
		auditService: auditService,
		logger:       logger,
	}
}

func validateAutomationRule(rule *AutomationRule) error {
	if rule.Name == "" {
		return errors.New("rule name is required")
	}
	switch rule.TriggerType {
	case TriggerTicketCreated, TriggerTicketUpdated:
	default:
		return fmt.Errorf("unknown trigger type: %s", rule.TriggerType)
	}
	if len(rule.Actions) == 0 {
		return errors.New("at least one action is required")
	}
	return nil
}

func (s *AutomationServiceImpl) CreateRule(ctx context.Context, rule *AutomationRule) error {
	if err := validateAutomationRule(rule); err != nil {
		return err
	}
	err := s.repo.Create(ctx, rule)
	if err == nil {
		_ = s.auditService.LogChange(ctx, models.AuditActionAutomation, "automation_rules", rule.ID.Hex(), map[string]models.Change{
			"rule": {New: rule},
		})
	}
	return err
}

func (s *AutomationServiceImpl) GetRule(ctx context.Context, id string) (*AutomationRule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context) ([]AutomationRule, error) {
	return s.repo.List(ctx)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, rule *AutomationRule) error {
	if err := validateAutomationRule(rule); err != nil {
		return err
	}
	old, _ := s.repo.GetByID(ctx, rule.ID.Hex())
	err := s.repo.Update(ctx, rule)
	if err == nil {
		_ = s.auditService.LogChange(ctx, models.AuditActionAutomation, "automation_rules", rule.ID.Hex(), map[string]models.Change{
			"rule": {Old: old, New: rule},
		})
	}
	return err
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, id string) error {
	old, _ := s.repo.GetByID(ctx, id)
	err := s.repo.Delete(ctx, id)
	if err == nil {
		_ = s.auditService.LogChange(ctx, models.AuditActionAutomation, "automation_rules", id, map[string]models.Change{
			"rule": {Old: old, New: "DELETED"},
		})
	}
	return err
}

func (s *AutomationServiceImpl) ExecuteFromTrigger(ctx context.Context, trigger TriggerType, t *ticket.Ticket) {
	rules, err := s.repo.ListByTrigger(ctx, trigger)
	if err != nil {
		s.logger.Error("failed to load automation rules",
			zap.String("trigger", string(trigger)),
			zap.Error(err))
		return
	}

	fields := ticketFields(t)
	for i := range rules {
		rule := &rules[i]
		if !evaluateConditions(rule.Conditions, fields) {
			continue
		}
		if err := s.executor.ExecuteActions(ctx, rule.Actions, t); err != nil {
			s.logger.Error("automation rule failed",
				zap.String("rule", rule.Name),
				zap.String("ticket_id", t.ID.Hex()),
				zap.Error(err))
		}
	}
}

func evaluateConditions(conditions []RuleCondition, fields map[string]interface{}) bool {
	for _, cond := range conditions {
		val, exists := fields[cond.Field]
		if !exists {
			return false
		}

		match := false
		switch cond.Operator {
		case OperatorEquals:
			match = fmt.Sprintf("%v", val) == fmt.Sprintf("%v", cond.Value)
		case OperatorNotEquals:
			match = fmt.Sprintf("%v", val) != fmt.Sprintf("%v", cond.Value)
		case OperatorContains:
			match = strings.Contains(fmt.Sprintf("%v", val), fmt.Sprintf("%v", cond.Value))
		}

		if !match {
			return false
		}
	}
	return true
}
