package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telconova-dispatch/client"
	"telconova-dispatch/controller"
	"telconova-dispatch/dal"
	"telconova-dispatch/events"
	"telconova-dispatch/middelware"
	"telconova-dispatch/models"
	"telconova-dispatch/repository"
	"telconova-dispatch/services"
	"telconova-dispatch/utils"
	"telconova-dispatch/utils/logger"
	"telconova-dispatch/worker"

	"github.com/gin-gonic/gin"
)

// defaultSupervisorPassword is used when no supervisor_password_hash is configured.
const defaultSupervisorPassword = "Admin123."

const shutdownTimeout = 10 * time.Second

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title Telconova Dispatch API
// @version 1.0
// @description Technician work-order assignment engine.
// @description
// @description ## Authentication
// @description 1. POST /auth/login with the supervisor email and password
// @description 2. Send the returned token as `Authorization: Bearer <token>`
// @description
// @description Three failed logins within fifteen minutes lock the email until the window rolls past the oldest failure.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token in the text input below.
func main() {
	Init()

	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Debugf("Config loaded: %s", utils.PrintPrettyJSON(config))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := dal.NewCollectionStore(ctx, config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize %s storage: %v", config.StorageDriver, err)
	}
	defer store.Close()

	dispatcher := events.NewInMemoryDispatcher(appLogger)

	var repo repository.CatalogRepositoryInterface = repository.NewCatalogRepository(store, config, appLogger)
	if config.RemoteAPIURL != "" {
		apiClient := client.NewAPIClient(config, appLogger)
		repo = repository.NewFallbackCatalogRepository(apiClient, repo, appLogger)
		client.NewRemoteSync(apiClient, appLogger).Register(dispatcher)
		appLogger.Infof("Remote API enabled at %s", config.RemoteAPIURL)
	}

	catalog := repository.NewCatalogStore(repo, appLogger)
	if err := catalog.Load(ctx); err != nil {
		appLogger.Fatalf("Failed to load catalog: %v", err)
	}

	supervisor, err := buildSupervisor(config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to prepare supervisor credentials: %v", err)
	}

	svc := services.NewService(catalog, dispatcher, supervisor, appLogger, config)
	jwtManager := middelware.NewJWTManager(config, appLogger)

	deps := worker.Dependencies{
		History:  svc.GetAssignmentService(),
		Lockouts: svc.GetAuthService(),
		Tokens:   jwtManager,
		Auditor:  svc.GetCatalogService(),
	}
	if tables, ok := store.(dal.TableManagerInterface); ok && config.StorageDriver == dal.DriverDynamoDB {
		deps.Tables = tables
	}
	maintenance, err := worker.NewService(ctx, config, appLogger, deps)
	if err != nil {
		appLogger.Fatalf("Failed to create maintenance worker: %v", err)
	}
	maintenance.StartInBackground()

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	logging := middelware.NewLoggingMiddleware(appLogger, config.BasePath+"/health")
	r.Use(logging.Recovery(), logging.RequestID(), logging.StructuredLogger())
	r.Use(middelware.NewCORSMiddleware(config).CORS())

	controller.NewController(ctx, svc, jwtManager, config, appLogger).RegisterRoutes(r, config.BasePath)

	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}
	go func() {
		appLogger.Infof("Starting server on %s:%s", config.AppHost, config.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	waitForShutdown(appLogger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Server shutdown failed: %v", err)
	}
	if err := maintenance.Stop(); err != nil {
		appLogger.Errorf("Worker shutdown failed: %v", err)
	}
	appLogger.Info("Server stopped")
}

func waitForShutdown(log logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infof("Shutting down on %s", sig)
}

func buildSupervisor(cfg *models.Config, log logger.Logger) (models.Supervisor, error) {
	hash := cfg.SupervisorPasswordHash
	if hash == "" {
		log.Warn("supervisor_password_hash is not set; using the default supervisor password")
		var err error
		if hash, err = utils.HashPassword(defaultSupervisorPassword); err != nil {
			return models.Supervisor{}, err
		}
	}
	return models.Supervisor{
		ID:           "supervisor",
		Email:        cfg.SupervisorEmail,
		Role:         models.RoleSupervisor,
		PasswordHash: hash,
	}, nil
}
