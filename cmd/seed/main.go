package main

import (
	"context"
	"log"
	"time"

	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/database"
	"go-helpdesk/internal/features/automation"
	"go-helpdesk/internal/features/escalation"
	"go-helpdesk/internal/features/ticket"
	"go-helpdesk/internal/features/user"
	"go-helpdesk/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func seedUsers(ctx context.Context, userRepo user.UserRepository, logger *zap.Logger) map[string]primitive.ObjectID {
	users := []common_models.User{
		{Username: "admin", Password: "admin123", Email: "admin@helpdesk.local", FirstName: "System", LastName: "Admin", Status: "active", Role: common_models.UserRoleAdmin, IsSupervisor: true},
		{Username: "supervisor", Password: "super123", Email: "supervisor@helpdesk.local", FirstName: "Sam", LastName: "Lead", Status: "active", Role: common_models.UserRoleAgent, IsSupervisor: true},
		{Username: "agent1", Password: "agent123", Email: "agent1@helpdesk.local", FirstName: "Alex", LastName: "Field", Status: "active", Role: common_models.UserRoleAgent},
		{Username: "agent2", Password: "agent123", Email: "agent2@helpdesk.local", FirstName: "Jordan", LastName: "Desk", Status: "active", Role: common_models.UserRoleAgent},
	}

	ids := make(map[string]primitive.ObjectID)
	for _, u := range users {
		existing, err := userRepo.FindByUsername(ctx, u.Username)
		if err == nil {
			logger.Info("User exists, skipping", zap.String("username", u.Username))
			ids[u.Username] = existing.ID
			continue
		}

		u.ID = primitive.NewObjectID()
		u.CreatedAt = time.Now()
		u.UpdatedAt = time.Now()
		if err := userRepo.Create(ctx, &u); err != nil {
			logger.Error("Failed to create user", zap.String("username", u.Username), zap.Error(err))
			continue
		}
		logger.Info("User created", zap.String("username", u.Username))
		ids[u.Username] = u.ID
	}
	return ids
}

func seedSLAPolicies(ctx context.Context, slaRepo ticket.SLAPolicyRepository, logger *zap.Logger) {
	policies := []ticket.SLAPolicy{
		{Name: "Urgent SLA", Priority: ticket.TicketPriorityUrgent, ResponseTime: 30, ResolutionTime: 4 * 60, IsActive: true},
		{Name: "High SLA", Priority: ticket.TicketPriorityHigh, ResponseTime: 60, ResolutionTime: 8 * 60, IsActive: true},
		{Name: "Medium SLA", Priority: ticket.TicketPriorityMedium, ResponseTime: 4 * 60, ResolutionTime: 24 * 60, IsActive: true},
		{Name: "Low SLA", Priority: ticket.TicketPriorityLow, ResponseTime: 8 * 60, ResolutionTime: 72 * 60, IsActive: true},
	}

	existing, err := slaRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list SLA policies", zap.Error(err))
		return
	}
	byName := make(map[string]bool, len(existing))
	for _, p := range existing {
		byName[p.Name] = true
	}

	for _, p := range policies {
		if byName[p.Name] {
			logger.Info("SLA policy exists, skipping", zap.String("policy", p.Name))
			continue
		}
		if err := slaRepo.Create(ctx, &p); err != nil {
			logger.Error("Failed to create SLA policy", zap.String("policy", p.Name), zap.Error(err))
			continue
		}
		logger.Info("SLA policy created", zap.String("policy", p.Name))
	}
}

func seedEscalationRules(ctx context.Context, ruleRepo escalation.RuleRepository, userIDs map[string]primitive.ObjectID, logger *zap.Logger) {
	supervisor := userIDs["supervisor"]
	newStatus := ticket.TicketStatusNew
	urgent := ticket.TicketPriorityUrgent

	rules := []escalation.Rule{
		{
			Name:          "Unassigned over 1h",
			Description:   "Notify the supervisor when a new ticket sits unassigned for an hour",
			IsActive:      true,
			Priority:      1,
			Conditions:    escalation.Conditions{Status: &newStatus, Assignment: escalation.AssignmentUnassigned},
			TimeCondition: escalation.TimeConditionUnassigned,
			TimeThreshold: 1,
			TimeUnit:      escalation.TimeUnitHours,
			Actions: escalation.Actions{
				NotifySupervisor: &escalation.NotifyAction{
					Recipients: []primitive.ObjectID{supervisor},
					Channels:   []string{"in_app", "email"},
				},
			},
		},
		{
			Name:               "Urgent without response",
			Description:        "Escalate urgent tickets with no agent response inside business hours",
			IsActive:           true,
			Priority:           2,
			Conditions:         escalation.Conditions{Priority: &urgent},
			TimeCondition:      escalation.TimeConditionNoResponse,
			TimeThreshold:      30,
			TimeUnit:           escalation.TimeUnitMinutes,
			BusinessHoursOnly:  true,
			BusinessHoursStart: "09:00",
			BusinessHoursEnd:   "18:00",
			WorkingDays:        []int{1, 2, 3, 4, 5},
			RepeatEscalation:   true,
			RepeatInterval:     60,
			MaxRepeats:         3,
			Actions: escalation.Actions{
				NotifySupervisor: &escalation.NotifyAction{
					Recipients: []primitive.ObjectID{supervisor},
					Channels:   []string{"in_app"},
				},
				AddComment: &escalation.CommentAction{
					Text: "Escalated: no agent response within the urgent SLA window.",
				},
			},
		},
		{
			Name:          "Stale resolution",
			Description:   "Flag tickets that have been open for three days",
			IsActive:      true,
			Priority:      5,
			TimeCondition: escalation.TimeConditionResolution,
			TimeThreshold: 3,
			TimeUnit:      escalation.TimeUnitDays,
			Actions: escalation.Actions{
				SetStatus: &escalation.StatusAction{Target: ticket.TicketStatusPending},
				AddComment: &escalation.CommentAction{
					Text: "Escalated: unresolved for 3 days, moved to pending for review.",
				},
			},
		},
	}

	existing, err := ruleRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list escalation rules", zap.Error(err))
		return
	}
	byName := make(map[string]bool, len(existing))
	for _, r := range existing {
		byName[r.Name] = true
	}

	for _, r := range rules {
		if byName[r.Name] {
			logger.Info("Escalation rule exists, skipping", zap.String("rule", r.Name))
			continue
		}
		if err := ruleRepo.Create(ctx, &r); err != nil {
			logger.Error("Failed to create escalation rule", zap.String("rule", r.Name), zap.Error(err))
			continue
		}
		logger.Info("Escalation rule created", zap.String("rule", r.Name))
	}
}

func seedAutomationRules(ctx context.Context, autoRepo automation.AutomationRepository, logger *zap.Logger) {
	rules := []automation.AutomationRule{
		{
			Name:        "Tag email tickets",
			TriggerType: automation.TriggerTicketCreated,
			Active:      true,
			Conditions: []automation.RuleCondition{
				{Field: "channel", Operator: automation.OperatorEquals, Value: "email"},
			},
			Actions: []automation.RuleAction{
				{Type: automation.ActionAddTag, Config: map[string]interface{}{"tag": "email-intake"}},
			},
		},
		{
			Name:        "Bump billing tickets",
			TriggerType: automation.TriggerTicketCreated,
			Active:      true,
			Conditions: []automation.RuleCondition{
				{Field: "subject", Operator: automation.OperatorContains, Value: "billing"},
			},
			Actions: []automation.RuleAction{
				{Type: automation.ActionSetField, Config: map[string]interface{}{"field": "category", "value": "billing"}},
			},
		},
	}

	existing, err := autoRepo.List(ctx)
	if err != nil {
		logger.Error("Failed to list automation rules", zap.Error(err))
		return
	}
	byName := make(map[string]bool, len(existing))
	for _, r := range existing {
		byName[r.Name] = true
	}

	for _, r := range rules {
		if byName[r.Name] {
			logger.Info("Automation rule exists, skipping", zap.String("rule", r.Name))
			continue
		}
		if err := autoRepo.Create(ctx, &r); err != nil {
			logger.Error("Failed to create automation rule", zap.String("rule", r.Name), zap.Error(err))
			continue
		}
		logger.Info("Automation rule created", zap.String("rule", r.Name))
	}
}

// Seed runs the database seeding
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	slaRepo ticket.SLAPolicyRepository,
	ruleRepo escalation.RuleRepository,
	fireRepo escalation.FireLogRepository,
	autoRepo automation.AutomationRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				userIDs := seedUsers(ctx, userRepo, logger)
				seedSLAPolicies(ctx, slaRepo, logger)
				seedEscalationRules(ctx, ruleRepo, userIDs, logger)
				seedAutomationRules(ctx, autoRepo, logger)

				if err := fireRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure escalation fire log indexes", zap.Error(err))
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			ticket.NewSLAPolicyRepository,
			escalation.NewRuleRepository,
			escalation.NewFireLogRepository,
			automation.NewAutomationRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
