package container

import (
	"context"
	"fmt"
	"log"

	"github.com/gdugdh24/spark-backend/internal/config"
	"github.com/gdugdh24/spark-backend/internal/delivery/http"
	"github.com/gdugdh24/spark-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/spark-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/spark-backend/internal/infrastructure/database"
	"github.com/gdugdh24/spark-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/spark-backend/internal/infrastructure/server"
	"github.com/gdugdh24/spark-backend/internal/repository"
	"github.com/gdugdh24/spark-backend/internal/repository/memory"
	"github.com/gdugdh24/spark-backend/internal/repository/postgres"
	"github.com/gdugdh24/spark-backend/internal/repository/rediscache"
	"github.com/gdugdh24/spark-backend/internal/usecase/auth"
	"github.com/gdugdh24/spark-backend/internal/usecase/discover"
	"github.com/gdugdh24/spark-backend/internal/usecase/onboarding"
	"github.com/gdugdh24/spark-backend/internal/usecase/profile"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const migrationsDir = "migrations"

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient
	Auth   *auth.AuthUseCase
}

type repositories struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	profiles repository.ProfileRepository
	swipes   repository.SwipeRepository
	matches  repository.MatchRepository
	drafts   repository.DraftRepository
	states   repository.SessionStateRepository
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	repos := &repositories{}

	switch cfg.Storage.Type {
	case config.StoragePostgres:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		if err := database.ApplyMigrations(ctx, db, migrationsDir); err != nil {
			c.Close()
			return nil, err
		}
		repos.users = postgres.NewUserRepository(db)
		repos.sessions = postgres.NewSessionRepository(db)
		repos.profiles = postgres.NewProfileRepository(db)
		repos.swipes = postgres.NewSwipeRepository(db)
		repos.matches = postgres.NewMatchRepository(db)
	default:
		log.Println("[Container] using in-memory storage")
		repos.users = memory.NewUserRepository()
		repos.sessions = memory.NewSessionRepository()
		repos.profiles = memory.NewProfileRepository()
		repos.swipes = memory.NewSwipeRepository()
		repos.matches = memory.NewMatchRepository()
	}

	switch cfg.Storage.StateStore {
	case config.StateStoreRedis:
		redisClient, err := database.NewRedisClient(&cfg.Redis)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = redisClient
		repos.drafts = rediscache.NewDraftRepository(redisClient, cfg.Storage.StateTTL())
		repos.states = rediscache.NewSessionStateRepository(redisClient, cfg.Storage.StateTTL())
	default:
		log.Println("[Container] using in-memory state store")
		repos.drafts = memory.NewDraftRepository()
		repos.states = memory.NewSessionStateRepository()
	}

	// The wingman is optional; matches work without icebreakers.
	var wingman discover.Wingman
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("[Container] gemini disabled: %v", err)
		} else {
			c.Gemini = geminiClient
			wingman = geminiClient
		}
	}

	var external auth.ExternalVerifier
	if cfg.JWT.ExternalSecret != "" {
		external = auth.NewSharedSecretVerifier(cfg.JWT.ExternalSecret, cfg.JWT.ExternalIssuer)
	} else {
		log.Println("[Container] external sign in disabled")
	}

	onboardingUseCase := onboarding.NewOnboardingUseCase(repos.drafts, repos.profiles)
	authUseCase := auth.NewAuthUseCase(
		repos.users,
		repos.sessions,
		repos.states,
		external,
		onboardingUseCase,
		cfg.JWT.AccessSecret,
		cfg.JWT.AccessTTL(),
	)
	profileUseCase := profile.NewProfileUseCase(repos.profiles)
	discoverUseCase := discover.NewDiscoverUseCase(
		repos.swipes,
		repos.matches,
		repos.profiles,
		discover.NewRandomMatcher(cfg.Match.Probability, nil),
		wingman,
	)
	c.Auth = authUseCase

	if err := handler.RegisterValidators(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := http.NewRouter(
		handler.NewAuthHandler(authUseCase),
		handler.NewOnboardingHandler(onboardingUseCase),
		handler.NewProfileHandler(profileUseCase),
		handler.NewDiscoverHandler(discoverUseCase),
		handler.NewNavigationHandler(authUseCase, profileUseCase),
		middleware.NewAuthMiddleware(authUseCase),
	)

	c.Server = server.NewServer(&cfg.Server, router.Setup())
	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			log.Printf("[Container] error closing gemini client: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("[Container] error closing redis: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
