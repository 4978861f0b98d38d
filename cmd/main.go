package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"insure-service/internal/config"
	"insure-service/internal/database/postgres"
	"insure-service/internal/database/redis"
	"insure-service/internal/event"
	"insure-service/internal/handlers"
	"insure-service/internal/metrics"
	"insure-service/internal/repository"
	"insure-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
)

func setupLogging(logDir, level string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}

	out := io.MultiWriter(os.Stdout, file)
	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl})))
	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	cfg := config.New()

	logFile, err := setupLogging(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.ConnectWithRetry(ctx, cfg.PostgresCfg, 10, 3*time.Second)
	if err != nil {
		slog.Error("Error connecting to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	engineMetrics := metrics.New(registry)

	checks := map[string]handlers.Pinger{"postgres": handlers.PingFunc(db.PingContext)}

	var publisher services.PolicyEventPublisher
	if cfg.RabbitMQCfg.Enabled {
		rabbit, err := event.DialBroker(cfg.RabbitMQCfg)
		if err != nil {
			slog.Warn("RabbitMQ unavailable, policy events disabled", "error", err)
		} else {
			defer rabbit.Close()
			policyPublisher, err := event.NewPolicyPublisher(rabbit)
			if err != nil {
				slog.Warn("Failed to set up policy publisher, policy events disabled", "error", err)
			} else {
				publisher = policyPublisher
				checks["rabbitmq"] = handlers.PingFunc(func(context.Context) error {
					if !policyPublisher.HealthCheck().IsHealthy {
						return errors.New("rabbitmq connection closed")
					}
					return nil
				})
			}
		}
	}

	// repositories
	personRepository := repository.NewPersonRepository(db)
	vehicleRepository := repository.NewVehicleRepository(db)
	policyRepository := repository.NewPolicyRepository(db)
	policyDetailRepository := repository.NewPolicyDetailRepository(db)
	membershipRepository := repository.NewMembershipRepository(db)
	agentRepository := repository.NewAgentRepository(db)
	dashboardRepository := repository.NewDashboardRepository(db)

	// services
	policyService := services.NewPolicyService(services.PolicyServiceDeps{
		DB:          db,
		Policies:    policyRepository,
		People:      personRepository,
		Vehicles:    vehicleRepository,
		Details:     policyDetailRepository,
		Memberships: membershipRepository,
		Publisher:   publisher,
		Metrics:     engineMetrics,
		TxTimeout:   cfg.TxTimeout,
	})
	personService := services.NewPersonService(db, personRepository, policyRepository, cfg.TxTimeout)
	vehicleService := services.NewVehicleService(db, vehicleRepository, cfg.TxTimeout)
	agentService := services.NewAgentService(agentRepository)
	dashboardService := services.NewDashboardService(dashboardRepository)

	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestID(), handlers.RequestLogger())

	api := router.Group("/")
	if cfg.AuthCfg.Enabled {
		redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
		if err != nil {
			slog.Error("Error connecting to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		checks["redis"] = redisClient

		sessions := repository.NewSessionRepository(redisClient.GetClient(), cfg.AuthCfg.SessionPrefix)
		api.Use(handlers.SessionAuth(sessions, cfg.AuthCfg))
		handlers.NewAuthHandler(sessions, cfg.AuthCfg).RegisterRoutes(api)
	} else {
		slog.Warn("Authentication disabled")
	}

	// handlers
	handlers.NewHealthHandler(checks, registry).RegisterRoutes(router)
	handlers.NewPersonHandler(personService).RegisterRoutes(api)
	handlers.NewVehicleHandler(vehicleService).RegisterRoutes(api)
	handlers.NewAgentHandler(agentService).RegisterRoutes(api)
	handlers.NewPolicyHandler(policyService).RegisterRoutes(api)
	handlers.NewDashboardHandler(dashboardService).RegisterRoutes(api)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSCfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddress(),
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting insure-service", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down insure-service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
