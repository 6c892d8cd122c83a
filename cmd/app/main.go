package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "crewhub-backend/docs"
	"crewhub-backend/internal/bot"
	"crewhub-backend/internal/common/config"
	apperrors "crewhub-backend/internal/common/errors"
	"crewhub-backend/internal/common/logger"
	"crewhub-backend/internal/common/middleware"
	"crewhub-backend/internal/convstate"
	inviteRepo "crewhub-backend/internal/features/invite/repository/postgres"
	inviteService "crewhub-backend/internal/features/invite/service"
	memberHTTP "crewhub-backend/internal/features/member/delivery/http"
	memberRepo "crewhub-backend/internal/features/member/repository/postgres"
	memberService "crewhub-backend/internal/features/member/service"
	onboardingService "crewhub-backend/internal/features/onboarding/service"
	"crewhub-backend/internal/platform/postgres"
	platformRedis "crewhub-backend/internal/platform/redis"
	"crewhub-backend/internal/platform/telegram"
)

// @title           Crew Hub API
// @version         1.0
// @description     Backend for the community Telegram bot and its mini-app. Profile operations require init-data authentication.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @description Telegram Mini App init-data string

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("crewhub-backend", cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting crewhub-backend")

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	// Redis backs the shared conversation markers; with the in-memory
	// backend there is nothing to connect to.
	var redisClient *goredis.Client
	if cfg.ConvState.Backend == "redis" {
		redisClient, err = platformRedis.NewClient(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
	}

	telegramClient, err := telegram.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to init Telegram client")
	}

	memberRepository := memberRepo.NewPostgresRepository(postgresClient.GetDB())
	inviteRepository := inviteRepo.NewPostgresRepository(postgresClient.GetDB())

	memberSvc := memberService.NewMemberService(memberRepository, telegramClient)
	inviteSvc := inviteService.NewInviteService(inviteRepository)
	onboardingSvc := onboardingService.NewOnboardingService(inviteSvc, memberSvc, telegramClient)

	var state convstate.Store
	switch cfg.ConvState.Backend {
	case "redis":
		state = convstate.NewRedis(redisClient, cfg.ConvState.TTL)
	default:
		state = convstate.NewMemory()
	}
	logger.Info().Str("backend", cfg.ConvState.Backend).Msg("Conversation state initialized")

	botRouter := bot.New(telegramClient, cfg, memberSvc, inviteSvc, onboardingSvc, state)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Errors())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", middleware.InitDataHeader}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, botRouter, memberSvc, telegramClient, postgresClient, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func setupRoutes(router *gin.Engine, cfg *config.Config, botRouter *bot.Bot,
	memberSvc memberService.MemberService, telegramClient *telegram.Client,
	postgresClient *postgres.Client, redisClient *goredis.Client) {

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "crewhub-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "postgres unavailable"})
			return
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "redis unavailable"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Telegram calls this with bot updates.
	router.POST("/webhook", botRouter.WebhookHandler())

	api := router.Group("/api")
	authed := api.Group("", middleware.InitData(cfg.Telegram.BotToken, cfg.InitDataMaxAge()))

	memberHandler := memberHTTP.NewMemberHandler(memberSvc)
	memberHandler.RegisterRoutes(api, authed)

	admin := authed.Group("", middleware.RequireAdmin(cfg.IsAdmin))
	admin.POST("/notify-test", func(c *gin.Context) {
		if err := telegramClient.Notify(c.Request.Context(), "🔔 Test notification"); err != nil {
			c.Error(apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to send test notification"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
