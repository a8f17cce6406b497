package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/seolytics/seo-api/internal/config"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/handler"
	"github.com/seolytics/seo-api/internal/handler/middleware"
	"github.com/seolytics/seo-api/internal/ierr"
	"github.com/seolytics/seo-api/internal/service"
	"github.com/seolytics/seo-api/internal/storage/postgres"
	"github.com/seolytics/seo-api/internal/storage/redis"
	"github.com/seolytics/seo-api/internal/worker"
	"github.com/seolytics/seo-api/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "./configs/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.NewZapLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	sugarLogger := appLogger.Sugar()

	sugarLogger.Info("Starting application...")
	sugarLogger.Infof("Log level set to: %s", cfg.Log.Level)

	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.NewPgxPool(appCtx, &cfg.Database, appLogger)
	if err != nil {
		sugarLogger.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := redis.NewRedisClient(appCtx, &cfg.Redis, appLogger)
	if err != nil {
		sugarLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	apiKeyRepo := postgres.NewAPIKeyRepository(dbPool, appLogger)
	clientRepo := postgres.NewClientRepository(dbPool, appLogger)
	usageRepo := postgres.NewUsageRepository(dbPool, appLogger)
	seoRepo := postgres.NewSEORepository(dbPool, appLogger)

	credentialCache := redis.NewCredentialCache(redisClient, appLogger)
	usageCounter := redis.NewUsageCounter(redisClient, appLogger)

	authenticator := service.NewAuthenticator(apiKeyRepo, clientRepo, credentialCache, usageCounter, &cfg.Auth, appLogger)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo, clientRepo, credentialCache, appLogger)
	clientService := service.NewClientService(clientRepo, credentialCache, &cfg.Auth, appLogger)
	seoService := service.NewSEOService(seoRepo, appLogger)
	usageService := service.NewUsageService(usageRepo, appLogger)
	usageRecorder := service.NewUsageRecorder(usageRepo, cfg.Auth.UsageRecorderBuffer, appLogger)

	healthHandler := handler.NewHealthHandler(dbPool, redisClient, appLogger)
	clientHandler := handler.NewClientHandler(clientService, appLogger)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeyService, appLogger)
	seoHandler := handler.NewSEOHandler(seoService, appLogger)
	usageHandler := handler.NewUsageHandler(usageService, appLogger)

	apiKeyAuthMiddleware := middleware.APIKeyAuthMiddleware(authenticator, appLogger)
	usageLoggerMiddleware := middleware.UsageLoggerMiddleware(usageRecorder)
	errorMiddleware := middleware.ErrorHandlerMiddleware(appLogger)

	router := gin.New()
	router.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logMsg := "Panic recovered"
		if err, ok := recovered.(string); ok {
			logMsg = fmt.Sprintf("%s: %s", logMsg, err)
		} else if err, ok := recovered.(error); ok {
			logMsg = fmt.Sprintf("%s: %v", logMsg, err)
		}
		appLogger.Error(logMsg, zap.Stack("stack"))

		_ = c.Error(ierr.ErrInternalServer)
		c.Abort()
	}))

	corsConfig := cors.Config{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-API-Key",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"X-RateLimit-Limit-Minute",
			"X-RateLimit-Limit-Day",
			"X-RateLimit-Remaining-Minute",
			"X-RateLimit-Remaining-Day",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))
	router.Use(errorMiddleware)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	apiV1.Use(apiKeyAuthMiddleware, usageLoggerMiddleware)
	{
		apiV1.GET("/me", usageHandler.Me)

		usageRoutes := apiV1.Group("/usage")
		usageRoutes.Use(middleware.RequireScopes(appLogger, apikey.ScopeReportsRead))
		{
			usageRoutes.GET("/logs", usageHandler.ListLogs)
		}

		domainRoutes := apiV1.Group("/domains")
		{
			domainRoutes.GET("", seoHandler.ListDomains)
			domainRoutes.GET("/:domainID", seoHandler.GetDomain)

			domainRoutes.POST("", middleware.RequireScopes(appLogger, apikey.ScopeDataImport), seoHandler.CreateDomain)
			domainRoutes.PATCH("/:domainID", middleware.RequireScopes(appLogger, apikey.ScopeDataImport), seoHandler.UpdateDomain)
			domainRoutes.DELETE("/:domainID", middleware.RequireScopes(appLogger, apikey.ScopeDataImport), seoHandler.DeleteDomain)

			domainRoutes.GET("/:domainID/keywords", middleware.RequireScopes(appLogger, apikey.ScopeKeywordsRead), seoHandler.ListKeywords)
			domainRoutes.POST("/:domainID/keywords", middleware.RequireScopes(appLogger, apikey.ScopeKeywordsWrite), seoHandler.CreateKeyword)

			domainRoutes.GET("/:domainID/rankings", middleware.RequireScopes(appLogger, apikey.ScopeRankingsRead), seoHandler.ListRankings)
			domainRoutes.POST("/:domainID/rankings", middleware.RequireScopes(appLogger, apikey.ScopeRankingsWrite), seoHandler.CreateRanking)

			domainRoutes.GET("/:domainID/backlinks", middleware.RequireScopes(appLogger, apikey.ScopeBacklinksRead), seoHandler.ListBacklinks)
			domainRoutes.POST("/:domainID/backlinks", middleware.RequireScopes(appLogger, apikey.ScopeDataImport), seoHandler.CreateBacklink)
		}

		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(middleware.RequireScopes(appLogger, apikey.ScopeAdminFull))
		{
			adminRoutes.POST("/clients", clientHandler.Create)
			adminRoutes.GET("/clients", clientHandler.List)
			adminRoutes.GET("/clients/:id", clientHandler.GetByID)
			adminRoutes.PATCH("/clients/:id", clientHandler.Update)
			adminRoutes.DELETE("/clients/:id", clientHandler.Delete)

			adminRoutes.POST("/clients/:id/api-keys", apiKeyHandler.Create)
			adminRoutes.GET("/clients/:id/api-keys", apiKeyHandler.List)
			adminRoutes.PATCH("/clients/:id/api-keys/:keyID/revoke", apiKeyHandler.Revoke)
			adminRoutes.DELETE("/clients/:id/api-keys/:keyID", apiKeyHandler.Delete)
		}
	}

	g, groupCtx := errgroup.WithContext(appCtx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g.Go(func() error {
		sugarLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugarLogger.Errorf("HTTP server ListenAndServe error: %v", err)
			return fmt.Errorf("http server failed: %w", err)
		}
		sugarLogger.Info("HTTP server stopped listening.")
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		sugarLogger.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownPeriod)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			sugarLogger.Errorf("HTTP server graceful shutdown failed: %v", err)
			return fmt.Errorf("http server shutdown error: %w", err)
		}

		// Drain any usage records still buffered once no more requests can
		// arrive.
		usageRecorder.Close()

		sugarLogger.Info("HTTP server shutdown complete.")
		return nil
	})

	workerErrChan, workerShutdown := worker.RunWorkers(cfg, apiKeyRepo, credentialCache, appLogger)

	g.Go(func() error {
		select {
		case err := <-workerErrChan:
			return err
		case <-groupCtx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownPeriod)
			defer cancel()
			workerShutdown(shutdownCtx)
			return nil
		}
	})

	sugarLogger.Info("Application started. Waiting for interrupt signal (Ctrl+C) or component error...")

	waitErr := g.Wait()

	sugarLogger.Info("Shutdown sequence finished.")

	if waitErr != nil {
		if errors.Is(waitErr, context.Canceled) {
			sugarLogger.Info("Shutdown reason: Context canceled (likely due to OS signal).")
		} else if errors.Is(waitErr, http.ErrServerClosed) {
			sugarLogger.Info("Shutdown reason: HTTP server closed normally.")
		} else {
			sugarLogger.Errorf("Application shutdown finished with unexpected error: %v", waitErr)
		}
	} else {
		sugarLogger.Info("Application shutdown successfully (all components finished without errors).")
	}

	sugarLogger.Info("Application exiting now.")
}
