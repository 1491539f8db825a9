package container

import (
	"context"
	"fmt"
	"time"

	"events-backend/internal/config"
	infracache "events-backend/internal/infrastructure/cache"
	"events-backend/internal/infrastructure/database"
	"events-backend/pkg/cache"
	"events-backend/pkg/jwt"

	eventhandler "events-backend/internal/domains/event/handler"
	eventrepo "events-backend/internal/domains/event/repository"
	eventservice "events-backend/internal/domains/event/service"
	translationhandler "events-backend/internal/domains/translation/handler"
	translationrepo "events-backend/internal/domains/translation/repository"
	translationservice "events-backend/internal/domains/translation/service"
	"events-backend/internal/shared/nonce"

	"github.com/rs/zerolog/log"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// SchemaErr is non-nil when the schema migration failed at startup. The
	// application still comes up, but only the health endpoint and the
	// privileged schema notice are served.
	SchemaErr error

	EventRepo     eventrepo.Repository
	LanguageStore *translationrepo.PostgresStore

	EventService       eventservice.Service
	TranslationService *translationservice.Service
	NonceService       *nonce.Service

	EventHandler       *eventhandler.Handler
	TranslationHandler *translationhandler.Handler
}

// NewContainer builds the dependency graph in order: config, infrastructure,
// schema, repositories, services, handlers. A migration failure does not
// abort the build; it is recorded in SchemaErr and the admin surface stays
// unwired.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("config loaded")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check: %w", err)
	}
	c.DB = db
	log.Info().Msg("database connected")

	// Schema setup runs before anything touches the tables. On failure the
	// container still builds so an administrator can see what went wrong.
	if err := database.Migrate(ctx, db.Pool); err != nil {
		c.SchemaErr = err
		log.Error().Err(err).Msg("schema migration failed, admin surface disabled")
	}

	redisCache := infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(context.Background()); err != nil {
		// Cache loss degrades to database reads, it does not stop startup.
		log.Warn().Err(err).Msg("redis unreachable, continuing without cache hits")
	} else {
		log.Info().Msg("redis connected")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	if c.SchemaErr != nil {
		return c, nil
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	// All extensions had their chance to register translated types by now.
	c.TranslationService.Types().Seal()

	log.Info().Msg("container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	c.EventRepo = eventrepo.NewCachedRepository(
		eventrepo.NewPostgresRepository(c.DB.Pool),
		c.Cache,
	)
	c.LanguageStore = translationrepo.NewPostgresStore(c.DB.Pool)
}

func (c *Container) initServices() {
	c.EventService = eventservice.NewEventService(
		c.EventRepo,
		c.Config.Admin.PerPage,
		c.Config.Admin.MaxPerPage,
	)

	types := translationservice.NewTypeRegistry(c.Cache)
	c.TranslationService = translationservice.NewService(
		c.EventService,
		c.LanguageStore,
		c.LanguageStore,
		types,
	)

	// Language bookkeeping follows the event lifecycle.
	c.EventService.OnCreated(c.TranslationService.HandleEventCreated)
	c.EventService.OnDeleted(c.TranslationService.HandleEventDeleted)

	c.NonceService = nonce.NewService(c.Cache)
}

func (c *Container) initHandlers() {
	c.EventHandler = eventhandler.NewHandler(c.EventService, c.TranslationService, c.NonceService)
	c.TranslationHandler = translationhandler.NewHandler(c.TranslationService, c.NonceService)
}

// Cleanup releases held connections. Called during graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}

	if rc, ok := c.Cache.(*infracache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}

	log.Info().Msg("container cleaned up")
}
