package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/eventsphere/internal/app/auth"
	appControllers "github.com/yigit/eventsphere/internal/app/controllers"
	appMigrations "github.com/yigit/eventsphere/internal/app/migrations"
	appRepos "github.com/yigit/eventsphere/internal/app/repositories"
	appRoutes "github.com/yigit/eventsphere/internal/app/routes"
	appServices "github.com/yigit/eventsphere/internal/app/services"
	"github.com/yigit/eventsphere/internal/config"
	"github.com/yigit/eventsphere/internal/db"
	appMiddleware "github.com/yigit/eventsphere/internal/middleware"
	pkgAuth "github.com/yigit/eventsphere/internal/pkg/auth"
	"github.com/yigit/eventsphere/internal/pkg/documents"
	"github.com/yigit/eventsphere/internal/pkg/filestorage"
	"github.com/yigit/eventsphere/internal/pkg/helpers"
	"github.com/yigit/eventsphere/internal/pkg/logger"
	"github.com/yigit/eventsphere/internal/pkg/notify"
	"github.com/yigit/eventsphere/internal/seed"
)

// redisNamespace prefixes every key the service writes to Redis
const redisNamespace = "eventsphere:"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store    appRepos.RecordStore
	Repos    *appRepos.Repositories
	Notifier *notify.Dispatcher
	Services *appServices.Services

	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService

	AuthController         *appControllers.AuthController
	EventController        *appControllers.EventController
	RegistrationController *appControllers.RegistrationController
	ClaimController        *appControllers.ClaimController
	StudentController      *appControllers.StudentController
	MaintenanceController  *appControllers.MaintenanceController
	HealthController       *appControllers.HealthController
	AuthMiddleware         *appMiddleware.AuthMiddleware

	Logger zerolog.Logger
}

// Close releases the notifier and the store
func (d *Dependencies) Close() error {
	var errs []error
	if err := d.Notifier.Close(); err != nil {
		errs = append(errs, fmt.Errorf("notifier: %w", err))
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// CONFIG_PATH overrides the default configs/config.yaml.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the record store selected by store.driver. Postgres
// migrations run before the store is handed out.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.RecordStore, error) {
	lgr.Info().Str("driver", cfg.Store.Driver).Msg("Opening record store...")

	switch cfg.Store.Driver {
	case config.StoreMemory:
		var snapshots filestorage.BlobStorage
		if cfg.Store.SnapshotDir != "" {
			local, err := filestorage.NewLocalStorage(cfg.Store.SnapshotDir)
			if err != nil {
				return nil, err
			}
			snapshots = local
		}
		return appRepos.NewMemoryStore(snapshots)

	case config.StoreRedis:
		client, err := db.NewRedisClient(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to redis")
			return nil, err
		}
		return appRepos.NewKVStore(appRepos.NewRedisKV(client, redisNamespace)), nil

	case config.StorePostgres:
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database.Pool).Up(ctx); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
		return appRepos.NewKVStore(appRepos.NewPostgresKV(database.Pool)), nil

	case config.StoreSQLite:
		sqlDB, err := db.NewSQLiteDB(ctx, cfg.SQLite.Path)
		if err != nil {
			lgr.Error().Err(err).Str("path", cfg.SQLite.Path).Msg("Failed to open sqlite database")
			return nil, err
		}
		kv, err := appRepos.NewSQLiteKV(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return appRepos.NewKVStore(kv), nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// SetupNotifier builds the notification dispatcher for the configured driver
func SetupNotifier(cfg *config.Config, lgr zerolog.Logger) (*notify.Dispatcher, error) {
	publisher, err := notify.NewPublisher(notify.Config{
		Driver:       cfg.Notifications.Driver,
		AMQPURL:      cfg.Notifications.AMQPURL,
		AMQPQueue:    cfg.Notifications.AMQPQueue,
		KafkaBrokers: cfg.KafkaBrokerList(),
		KafkaTopic:   cfg.Notifications.KafkaTopic,
	}, lgr.With().Str("component", "notify").Logger())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize notification publisher")
		return nil, err
	}
	return notify.NewDispatcher(publisher, lgr), nil
}

// BuildServices wires repositories and services on top of an open store.
// The HTTP layer is left empty; BuildDependencies fills it in.
func BuildServices(cfg *config.Config, store appRepos.RecordStore, notifier *notify.Dispatcher, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Store:    store,
		Repos:    appRepos.NewRepositories(store),
		Notifier: notifier,
		Logger:   lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.JWTService, deps.Repos.UserRepository)

	deps.Services = appServices.NewServices(appServices.Deps{
		Repos:    deps.Repos,
		Authz:    deps.AuthzService,
		JWT:      deps.JWTService,
		Notifier: notifier,
		Documents: documents.NewNormalizer(documents.Config{
			MaxCount:     cfg.Documents.MaxCount,
			MaxBytes:     cfg.Documents.MaxBytes,
			MaxDimension: cfg.Documents.MaxDimension,
			MaxPixels:    cfg.Documents.MaxPixels,
		}),
		InstitutionDomain:  cfg.Institution.EmailDomain,
		LegacyEmailDomains: cfg.Institution.LegacyEmailDomains,
		Logger:             lgr,
	})

	return deps
}

// BuildDependencies opens the store and notifier, then wires services,
// controllers and middleware.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	store, err := SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup store: %w", err)
	}

	notifier, err := SetupNotifier(cfg, lgr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to setup notifier: %w", err)
	}

	deps := BuildServices(cfg, store, notifier, lgr)

	if cfg.Seed.OnStartup {
		result, err := seed.CreateDefaultData(ctx, deps.Repos, time.Now(), lgr)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		} else {
			lgr.Info().Int("users", result.Users).Int("events", result.Events).Msg("Default data ensured")
		}
	}

	svc := deps.Services
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthzService, lgr)
	deps.AuthController = appControllers.NewAuthController(svc.AuthService, lgr)
	deps.EventController = appControllers.NewEventController(svc.EventService, lgr)
	deps.RegistrationController = appControllers.NewRegistrationController(svc.RegistrationService, lgr)
	deps.ClaimController = appControllers.NewClaimController(svc.ClaimService, lgr)
	deps.StudentController = appControllers.NewStudentController(svc.StudentService, lgr)
	deps.MaintenanceController = appControllers.NewMaintenanceController(svc.MaintenanceService, lgr)
	deps.HealthController = appControllers.NewHealthController(store, cfg.Store.Driver)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.EventController,
		deps.RegistrationController,
		deps.ClaimController,
		deps.StudentController,
		deps.MaintenanceController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router
}
