package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kwybro/guilloteam/internal/application/auth"
	"github.com/kwybro/guilloteam/internal/application/invite"
	"github.com/kwybro/guilloteam/internal/application/membership"
	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/application/project"
	"github.com/kwybro/guilloteam/internal/application/task"
	"github.com/kwybro/guilloteam/internal/application/team"
	"github.com/kwybro/guilloteam/internal/config"
	httprouter "github.com/kwybro/guilloteam/internal/infrastructure/http"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/handlers"
	"github.com/kwybro/guilloteam/internal/infrastructure/http/middleware"
	"github.com/kwybro/guilloteam/internal/infrastructure/identity"
	"github.com/kwybro/guilloteam/internal/infrastructure/persistence/postgres"
	"github.com/kwybro/guilloteam/internal/infrastructure/queue"
	"github.com/kwybro/guilloteam/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	teamRepo := postgres.NewTeamRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	inviteRepo := postgres.NewInviteRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	apiKeyRepo := postgres.NewAPIKeyRepository(pool)

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	var codeStore identity.CodeStore
	if redisClient != nil {
		codeStore = identity.NewRedisCodeStore(redisClient)
	} else {
		codeStore = identity.NewMemoryCodeStore()
	}
	identityProvider := identity.NewProvider(userRepo, codeStore, apiKeyRepo, taskEnqueuer, cfg.OTP.Expiry)

	var emitter ports.WebhookEmitter
	if cfg.Webhook.URL != "" {
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL)
	} else {
		emitter = webhook.NewNoopEmitter()
	}

	resolver := membership.NewResolver(membershipRepo)
	teamSvc := team.NewService(teamRepo, membershipRepo, resolver)
	projectSvc := project.NewService(projectRepo, taskRepo, resolver)
	taskSvc := task.NewService(taskRepo, projectRepo)
	inviteSvc := invite.NewService(inviteRepo, teamRepo, userRepo, resolver, taskEnqueuer)
	authSvc := auth.NewService(identityProvider, teamRepo)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.PerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.PerUser)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Server.Dev))
	corsMiddleware := middleware.CORS(cfg.CORS.AllowedOrigins, nil, nil)
	requireAuth := middleware.NewAPIKeyValidator(identityProvider).Handler

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:     handlers.NewAuthHandler(authSvc, log, emitter),
		HealthHandler:   healthHandler,
		TeamsHandler:    handlers.NewTeamsHandler(teamSvc, log, emitter),
		ProjectsHandler: handlers.NewProjectsHandler(projectSvc),
		TasksHandler:    handlers.NewTasksHandler(taskSvc),
		InvitesHandler:  handlers.NewInvitesHandler(inviteSvc, log, emitter),
		RequireAuth:     requireAuth,
		Log:             log,
		Secure:          secureMiddleware,
		CORS:            corsMiddleware,
		IPRateLimit:     ipLimit,
		UserRateLimit:   userLimit,
		Metrics:         true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
