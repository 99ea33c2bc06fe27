package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"moneynerds-backend/internal/common/config"
	"moneynerds-backend/internal/common/logger"
	"moneynerds-backend/internal/common/middleware"
	"moneynerds-backend/internal/common/token"
	"moneynerds-backend/internal/events"
	commenthttp "moneynerds-backend/internal/features/comment/delivery/http"
	commentpg "moneynerds-backend/internal/features/comment/repository/postgres"
	commentservice "moneynerds-backend/internal/features/comment/service"
	donationhttp "moneynerds-backend/internal/features/donation/delivery/http"
	donationservice "moneynerds-backend/internal/features/donation/service"
	identitypg "moneynerds-backend/internal/features/identity/repository/postgres"
	identityservice "moneynerds-backend/internal/features/identity/service"
	posthttp "moneynerds-backend/internal/features/post/delivery/http"
	postpg "moneynerds-backend/internal/features/post/repository/postgres"
	postservice "moneynerds-backend/internal/features/post/service"
	walletauthhttp "moneynerds-backend/internal/features/walletauth/delivery/http"
	walletauthrepo "moneynerds-backend/internal/features/walletauth/repository"
	walletauthservice "moneynerds-backend/internal/features/walletauth/service"
	"moneynerds-backend/internal/platform/db"
	redisplatform "moneynerds-backend/internal/platform/redis"
	solanaplatform "moneynerds-backend/internal/platform/solana"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Money Nerds API
// @version         1.0
// @description     Wallet-login social board: posts, comments, likes and on-chain donations.

// @BasePath  /api

// @securityDefinitions.apikey BearerToken
// @in header
// @name Authorization

func main() {
	// Create cancellable root context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("moneynerds-api", cfg.Debug)

	pg, err := db.Open(ctx, cfg.Postgres.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to postgres")
	}
	defer pg.Close()

	rdb, err := redisplatform.Open(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer rdb.Close()

	var publisher events.Publisher
	wmPublisher, err := events.NewWatermillPublisher(rdb.Client, cfg.Debug)
	if err != nil {
		logger.Warn().Err(err).Msg("Event publisher unavailable, events disabled")
		publisher = events.Nop{}
	} else {
		publisher = wmPublisher
		defer wmPublisher.Close()
	}

	issuer := token.NewIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	var chain donationservice.ChainVerifier
	if cfg.Solana.RPCURL != "" {
		chain = solanaplatform.New(cfg.Solana.RPCURL)
		logger.Info().Str("rpc", cfg.Solana.RPCURL).Msg("On-chain donation confirmation enabled")
	} else {
		logger.Warn().Msg("SOLANA_RPC_URL not set, donations are credited without confirmation")
	}

	identitySvc := identityservice.NewService(identitypg.NewPostgresRepository(pg))
	nonceRepo := walletauthrepo.NewRedisRepository(rdb.Client, cfg.Auth.NonceTTL)
	walletauthSvc := walletauthservice.NewService(nonceRepo, identitySvc, issuer, publisher)
	postRepo := postpg.NewPostgresRepository(pg)
	postSvc := postservice.NewService(postRepo, publisher)
	commentSvc := commentservice.NewService(commentpg.NewPostgresRepository(pg), postRepo)
	donationSvc := donationservice.NewService(postRepo, chain, publisher)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	walletauthhttp.NewHandler(walletauthSvc).RegisterRoutes(api)
	posthttp.NewHandler(postSvc, issuer).RegisterRoutes(api)
	commenthttp.NewHandler(commentSvc, issuer).RegisterRoutes(api)
	donationhttp.NewHandler(donationSvc, issuer).RegisterRoutes(api)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

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

	<-ctx.Done()
	stop()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
