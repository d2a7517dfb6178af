package app

import (
	"marketplace-api/config"
	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/auth"
	"marketplace-api/internal/services"
	"marketplace-api/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Application holds core application dependencies.
type Application struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Store       storage.Store
	RedisClient *redis.Client // nil when revocation is disabled
	Validator   *validator.Validate

	Tokens       *auth.TokenManager
	LoginLimiter *middleware.RateLimiter

	Users        services.UserService
	Jobs         services.JobService
	Applications services.ApplicationService
	Payments     services.PaymentService
	Ratings      services.RatingService
	Messages     services.MessageService
}

// New wires the services on top of store. redisClient may be nil.
func New(cfg *config.Config, logger *logrus.Logger, store storage.Store, redisClient *redis.Client) *Application {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	revoker := auth.NewRedisRevoker(redisClient)

	return &Application{
		Config:       cfg,
		Logger:       logger,
		Store:        store,
		RedisClient:  redisClient,
		Validator:    validator.New(),
		Tokens:       tokens,
		LoginLimiter: middleware.NewRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst, logger),

		Users:        services.NewUserService(store, tokens, revoker, logger),
		Jobs:         services.NewJobService(store, logger),
		Applications: services.NewApplicationService(store, logger),
		Payments:     services.NewPaymentService(store, logger),
		Ratings:      services.NewRatingService(store, logger),
		Messages:     services.NewMessageService(store, logger),
	}
}
