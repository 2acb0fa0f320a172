package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-helpdesk/internal/common/api"
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/database"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/auth"
	"go-helpdesk/internal/features/automation"
	"go-helpdesk/internal/features/backup"
	"go-helpdesk/internal/features/dashboard"
	"go-helpdesk/internal/features/email"
	"go-helpdesk/internal/features/escalation"
	"go-helpdesk/internal/features/kb"
	"go-helpdesk/internal/features/notification"
	"go-helpdesk/internal/features/report"
	"go-helpdesk/internal/features/settings"
	"go-helpdesk/internal/features/ticket"
	"go-helpdesk/internal/features/timesheet"
	"go-helpdesk/internal/features/user"
	"go-helpdesk/internal/logger"
	"go-helpdesk/internal/middleware"
	"go-helpdesk/internal/scheduler"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, fireRepo escalation.FireLogRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := fireRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure escalation fire log indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

// StartScheduler runs the periodic escalation sweep and backup jobs.
func StartScheduler(lc fx.Lifecycle, sched *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sched.Start()
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			audit.NewAuditRepository,
			user.NewUserRepository,
			ticket.NewTicketRepository,
			ticket.NewCommentRepository,
			ticket.NewSLAPolicyRepository,
			escalation.NewRuleRepository,
			escalation.NewFireLogRepository,
			automation.NewAutomationRepository,
			kb.NewArticleRepository,
			timesheet.NewTimeEntryRepository,
			dashboard.NewStatsRepository,
			report.NewReportRepository,
			settings.NewSettingsRepository,
			notification.NewNotificationRepository,
			email.NewEmailRepository,
			backup.NewRunRepository,

			notification.NewHub,

			audit.NewAuditService,
			auth.NewAuthService,
			user.NewUserService,
			settings.NewSettingsService,
			email.NewEmailService,
			notification.NewNotificationService,
			ticket.NewSLAService,
			ticket.NewTicketService,
			escalation.NewTicketMutator,
			escalation.NewNotifier,
			escalation.NewEscalationService,
			automation.NewActionExecutor,
			automation.NewAutomationService,
			automation.NewTicketHook,
			kb.NewArticleService,
			timesheet.NewTimesheetService,
			dashboard.NewDashboardService,
			report.NewReportService,
			backup.NewBackupService,

			scheduler.NewScheduler,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.UserRepository) audit.UserFinder { return r },
			func(r user.UserRepository) notification.UserFinder { return r },
			func(r user.UserRepository) timesheet.AgentNamer { return r },
			func(r user.UserRepository) dashboard.AgentNamer { return r },
			func(r user.UserRepository) report.AgentNamer { return r },
			func(r ticket.TicketRepository) escalation.TicketReader { return r },
			func(r *backup.MongoBackupRepository) backup.RunRepository { return r },
			func(r *backup.MongoBackupRepository) backup.DumpReader { return r },
			func(cfg *config.Config) backup.TicketArchiver {
				return backup.NewPostgresArchiver(cfg.ArchiveDSN)
			},

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			audit.NewAuditController,
			ticket.NewTicketController,
			ticket.NewSLAController,
			escalation.NewEscalationController,
			automation.NewAutomationController,
			kb.NewArticleController,
			timesheet.NewTimesheetController,
			dashboard.NewDashboardController,
			report.NewReportController,
			settings.NewSettingsController,
			notification.NewNotificationController,
			backup.NewBackupController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(ticket.NewTicketApi),
			AsRoute(escalation.NewEscalationApi),
			AsRoute(automation.NewAutomationApi),
			AsRoute(kb.NewKbApi),
			AsRoute(timesheet.NewTimesheetApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(report.NewReportApi),
			AsRoute(settings.NewSettingsApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(backup.NewBackupApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartScheduler,
			InitializeIndexes,
		),
	)

	app.Run()
}
