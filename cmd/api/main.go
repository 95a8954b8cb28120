package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-bighil/internal/common/api"
	"go-bighil/internal/config"
	"go-bighil/internal/database"
	"go-bighil/internal/features/auth"
	"go-bighil/internal/features/chat"
	"go-bighil/internal/features/company"
	"go-bighil/internal/features/complaint"
	"go-bighil/internal/features/email"
	"go-bighil/internal/features/notification"
	"go-bighil/internal/features/realtime"
	"go-bighil/internal/features/resolution"
	"go-bighil/internal/features/session"
	"go-bighil/internal/features/system"
	"go-bighil/internal/features/timeline"
	"go-bighil/internal/features/user"
	"go-bighil/internal/logger"
	"go-bighil/internal/middleware"
	"go-bighil/pkg/utils"

	_ "go-bighil/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	utils.SetSecret(cfg.JWTSecret)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// AsPurger adds a complaint-scoped store to the "purgers" group used by
// company deletion.
func AsPurger(f any) any {
	return fx.Annotate(
		f,
		fx.ResultTags(`group:"purgers"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	for _, route := range routes {
		logger.Debug("setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
	logger.Info("all routes registered", zap.Int("count", len(routes)))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

var NewCompanyServiceWithPurgers = fx.Annotate(
	company.NewCompanyService,
	fx.ParamTags(``, ``, ``, `group:"purgers"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("http server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	complaints complaint.ComplaintRepository,
	timelines timeline.TimelineRepository,
	chats chat.ChatRepository,
	admins company.AdminRepository,
	users user.UserRepository,
	sessions session.SessionRepository,
	logger *zap.Logger,
) {
	repos := map[string]indexer{
		"complaints": complaints,
		"timeline":   timelines,
		"chats":      chats,
		"admins":     admins,
		"users":      users,
		"sessions":   sessions,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for name, repo := range repos {
					if err := repo.EnsureIndexes(ctx); err != nil {
						logger.Warn("failed to ensure indexes", zap.String("collection", name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

// @title           BIGHIL Complaint API
// @version         1.0
// @description     Multi-tenant complaint management: lifecycle, notifications, realtime and chat.

// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,
			database.NewRedis,

			// Repositories
			complaint.NewComplaintRepository,
			complaint.NewNoteRepository,
			resolution.NewResolutionRepository,
			timeline.NewTimelineRepository,
			notification.NewNotificationRepository,
			chat.NewChatRepository,
			company.NewCompanyRepository,
			company.NewAdminRepository,
			user.NewUserRepository,
			session.NewSessionRepository,
			email.NewEmailRepository,

			// Complaint-scoped stores purged with their company
			AsPurger(func(r timeline.TimelineRepository) company.DependentPurger { return r }),
			AsPurger(func(r resolution.ResolutionRepository) company.DependentPurger { return r }),
			AsPurger(func(r notification.NotificationRepository) company.DependentPurger { return r }),
			AsPurger(func(r chat.ChatRepository) company.DependentPurger { return r }),
			AsPurger(func(r complaint.NoteRepository) company.DependentPurger { return r }),

			// Realtime
			realtime.NewHub,
			realtime.NewSink,
			realtime.NewDispatcher,
			realtime.NewBroadcaster,

			// Services
			timeline.NewRecorder,
			email.NewSender,
			notification.NewNotificationService,
			NewCompanyServiceWithPurgers,
			user.NewUserService,
			session.NewSessionService,
			session.NewSweeper,
			auth.NewAuthService,
			complaint.NewComplaintService,
			chat.NewChatService,

			// Interface adapters
			func(r complaint.ComplaintRepository) company.ComplaintIndex { return r },
			func(s company.CompanyService) notification.AudienceResolver { return s },
			func(s company.CompanyService) complaint.CompanyDirectory { return s },
			func(s user.UserService) complaint.UserDirectory { return s },
			func(s notification.NotificationService) complaint.Notifier { return s },
			func(b *realtime.Broadcaster) complaint.Broadcaster { return b },
			func(b *realtime.Broadcaster) chat.Broadcaster { return b },
			func(h *realtime.Hub) chat.Presence { return h },
			func(s complaint.ComplaintService) chat.ComplaintAccess { return s },
			func(s complaint.ComplaintService) realtime.RoomAuthorizer { return s },
			func(s session.SessionService) realtime.SessionValidator { return s },

			// Controllers
			auth.NewAuthController,
			user.NewUserController,
			company.NewCompanyController,
			email.NewEmailController,
			complaint.NewComplaintController,
			chat.NewChatController,
			notification.NewNotificationController,
			realtime.NewRealtimeController,
			system.NewHealthController,
			system.NewDebugController,

			// API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(company.NewCompanyApi),
			AsRoute(email.NewEmailApi),
			AsRoute(complaint.NewComplaintApi),
			AsRoute(chat.NewChatApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(realtime.NewRealtimeApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewDocsApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			func(*session.Sweeper) {},
		),
	)

	app.Run()
}
