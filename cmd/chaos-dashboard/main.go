package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	// Application
	"github.com/dreschagin/chaos-dashboard/internal/application/port"
	"github.com/dreschagin/chaos-dashboard/internal/application/simulator"
	"github.com/dreschagin/chaos-dashboard/internal/application/usecase"

	// Domain
	"github.com/dreschagin/chaos-dashboard/internal/domain/service"

	// Infrastructure
	redisCache "github.com/dreschagin/chaos-dashboard/internal/infrastructure/cache/redis"
	"github.com/dreschagin/chaos-dashboard/internal/infrastructure/clock"
	natsMessaging "github.com/dreschagin/chaos-dashboard/internal/infrastructure/messaging/nats"
	wsInfra "github.com/dreschagin/chaos-dashboard/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/chaos-dashboard/internal/infrastructure/observability/cloudwatch"
	"github.com/dreschagin/chaos-dashboard/internal/infrastructure/observability/metrics"

	// Interfaces
	httpInterface "github.com/dreschagin/chaos-dashboard/internal/interfaces/http"
	"github.com/dreschagin/chaos-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/chaos-dashboard/internal/interfaces/http/middleware"

	// Shared
	"github.com/dreschagin/chaos-dashboard/pkg/config"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting Chaos Dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Dependency Injection - Infrastructure Layer

	// CloudWatch Logs: подключаем первым, чтобы остальная инициализация тоже уходила в облако
	var logsPublisher *cloudwatch.LogsPublisher
	if cfg.CloudWatch.LogsEnabled {
		logsPublisher, err = cloudwatch.NewLogsPublisher(ctx, cloudwatch.LogsPublisherConfig{
			LogGroupName:    cfg.CloudWatch.LogGroupName,
			LogStreamName:   cfg.CloudWatch.LogStreamName,
			Service:         "chaos-dashboard",
			Region:          cfg.CloudWatch.Region,
			Endpoint:        cfg.CloudWatch.Endpoint,
			AccessKeyID:     cfg.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
			FlushInterval:   cfg.CloudWatch.FlushInterval,
			AutoCreate:      true,
		})
		if err != nil {
			log.Error("Failed to initialize CloudWatch logs publisher", err)
			os.Exit(1)
		}
		log.SetLogPublisher(logsPublisher)
		log.Info("CloudWatch logs enabled", "log_group", cfg.CloudWatch.LogGroupName)
	}

	// Metrics sinks
	metricsPublishers := make([]port.MetricsPublisher, 0, 2)

	var promMetrics *metrics.Metrics
	var registry *prometheus.Registry
	if cfg.Metrics.PrometheusEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		promMetrics = metrics.New(registry)
		metricsPublishers = append(metricsPublishers, promMetrics)
	}

	var cloudWatchMetrics *cloudwatch.MetricsPublisher
	if cfg.CloudWatch.MetricsEnabled {
		cloudWatchMetrics, err = cloudwatch.NewMetricsPublisher(ctx, cloudwatch.MetricsPublisherConfig{
			Namespace:       cfg.CloudWatch.Namespace,
			Region:          cfg.CloudWatch.Region,
			Endpoint:        cfg.CloudWatch.Endpoint,
			AccessKeyID:     cfg.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
			DefaultDimensions: map[string]string{
				"Service": "chaos-dashboard",
			},
			FlushInterval: cfg.CloudWatch.FlushInterval,
		}, log)
		if err != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", err)
			os.Exit(1)
		}
		metricsPublishers = append(metricsPublishers, cloudWatchMetrics)
		log.Info("CloudWatch metrics enabled", "namespace", cfg.CloudWatch.Namespace)
	}

	// Event broker
	var eventPublisher port.EventPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err := natsMessaging.NewNATSPublisher(natsMessaging.Config{
			URL:        cfg.NATS.URL,
			StreamName: cfg.NATS.StreamName,
			MaxAge:     24 * time.Hour,
		}, log)
		if err != nil {
			log.Error("Failed to connect to NATS", err)
			os.Exit(1)
		}
		eventPublisher = natsPublisher
		log.Info("NATS incident publishing enabled", "url", cfg.NATS.URL)
	}

	// Event log cache
	var cache port.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redisCache.NewRedisCache(redisCache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			TTL:          cfg.Redis.TTL,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err != nil {
			log.Error("Failed to connect to Redis", err)
			os.Exit(1)
		}
		cache = redisClient
		log.Info("Redis event log cache enabled", "host", cfg.Redis.Host)
	}

	// WebSocket Hub
	hub := wsInfra.NewHub(log)
	if registry != nil {
		metrics.RegisterClientGauge(registry, hub.ClientCount)
	}

	// 4. Incident simulator
	realClock := clock.NewReal()
	sim := simulator.New(
		realClock,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		simulator.Config{
			RecoveryStartDelay:    cfg.Simulation.RecoveryStartDelay,
			RecoveryCompleteDelay: cfg.Simulation.RecoveryCompleteDelay,
			LatencyTickInterval:   cfg.Simulation.LatencyTickInterval,
			MaxEvents:             cfg.Simulation.MaxEvents,
		},
		log,
	)

	// 5. Dependency Injection - Application Layer (Use Cases)

	publishTransitionUC := usecase.NewPublishTransitionUseCase(hub, eventPublisher, metricsPublishers, cache, log)
	sim.Subscribe(publishTransitionUC.Handle)

	getDashboardStateUC := usecase.NewGetDashboardStateUseCase(sim, realClock, log)
	triggerSimulationUC := usecase.NewTriggerSimulationUseCase(sim, realClock, log)
	queryEventLogUC := usecase.NewQueryEventLogUseCase(sim, service.NewEventLogQuery(), cache, log)

	// 6. Dependency Injection - Interfaces Layer (HTTP Handlers)

	dashboardHandler := handler.NewDashboardHandler(getDashboardStateUC, queryEventLogUC, triggerSimulationUC, log)
	websocketHandler := handler.NewWebSocketHandler(hub, getDashboardStateUC, cfg.Security.AllowedOrigins, log)
	simulationAPIHandler := handler.NewSimulationAPIHandler(getDashboardStateUC, triggerSimulationUC, queryEventLogUC, log)

	triggerLimiter := middleware.NewIPRateLimiter(cfg.RateLimit.TriggerRPS, cfg.RateLimit.TriggerBurst)
	defer triggerLimiter.Stop()

	var gatherer prometheus.Gatherer
	if registry != nil {
		gatherer = registry
	}

	// Router
	router := httpInterface.NewRouter(
		dashboardHandler,
		websocketHandler,
		simulationAPIHandler,
		triggerLimiter,
		promMetrics,
		gatherer,
		log,
	)

	// 7. Запускаем фоновые процессы

	go hub.Run(ctx)
	sim.Start()
	log.Info("Incident simulator started",
		"recovery_start_delay", cfg.Simulation.RecoveryStartDelay.String(),
		"recovery_complete_delay", cfg.Simulation.RecoveryCompleteDelay.String(),
		"latency_tick_interval", cfg.Simulation.LatencyTickInterval.String(),
	)

	// 8. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Dashboard available at http://localhost:" + cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 9. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	// Останавливаем таймеры симулятора, затем hub
	sim.Close()
	cancel()

	if cloudWatchMetrics != nil {
		if err := cloudWatchMetrics.Close(shutdownCtx); err != nil {
			log.Error("CloudWatch metrics flush failed", err)
		}
	}
	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Error("NATS close failed", err)
		}
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			log.Error("Redis close failed", err)
		}
	}

	log.Info("Server stopped gracefully")

	// Последним: после отключения publisher'а логи пишутся только в stdout
	if logsPublisher != nil {
		log.SetLogPublisher(nil)
		if err := logsPublisher.Close(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "CloudWatch logs flush failed: %v\n", err)
		}
	}
}
