package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Security   SecurityConfig
	RateLimit  RateLimitConfig
	Redis      RedisConfig
	NATS       NATSConfig
	CloudWatch CloudWatchConfig
	Metrics    MetricsConfig
	LogLevel   string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SimulationConfig задает тайминги машины состояний инцидента
type SimulationConfig struct {
	RecoveryStartDelay    time.Duration
	RecoveryCompleteDelay time.Duration
	LatencyTickInterval   time.Duration
	MaxEvents             int
}

type SecurityConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig ограничивает запуск симуляции на один IP
type RateLimitConfig struct {
	TriggerRPS   float64
	TriggerBurst int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type NATSConfig struct {
	Enabled    bool
	URL        string
	StreamName string
}

type CloudWatchConfig struct {
	MetricsEnabled  bool
	LogsEnabled     bool
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Namespace       string
	LogGroupName    string
	LogStreamName   string
	FlushInterval   time.Duration
}

type MetricsConfig struct {
	PrometheusEnabled bool
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	recoveryStartDelay, err := parseDuration(getEnv("SIM_RECOVERY_START_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SIM_RECOVERY_START_DELAY: %w", err)
	}

	recoveryCompleteDelay, err := parseDuration(getEnv("SIM_RECOVERY_COMPLETE_DELAY", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SIM_RECOVERY_COMPLETE_DELAY: %w", err)
	}

	latencyTickInterval, err := parseDuration(getEnv("SIM_LATENCY_TICK_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SIM_LATENCY_TICK_INTERVAL: %w", err)
	}

	maxEvents, err := strconv.Atoi(getEnv("SIM_MAX_EVENTS", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid SIM_MAX_EVENTS: %w", err)
	}

	triggerRPS, err := strconv.ParseFloat(getEnv("RATE_LIMIT_TRIGGER_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_TRIGGER_RPS: %w", err)
	}

	triggerBurst, err := strconv.Atoi(getEnv("RATE_LIMIT_TRIGGER_BURST", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_TRIGGER_BURST: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := parseDuration(getEnv("REDIS_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	cloudWatchFlush, err := parseDuration(getEnv("CLOUDWATCH_FLUSH_INTERVAL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_FLUSH_INTERVAL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Simulation: SimulationConfig{
			RecoveryStartDelay:    recoveryStartDelay,
			RecoveryCompleteDelay: recoveryCompleteDelay,
			LatencyTickInterval:   latencyTickInterval,
			MaxEvents:             maxEvents,
		},
		Security: SecurityConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080")),
		},
		RateLimit: RateLimitConfig{
			TriggerRPS:   triggerRPS,
			TriggerBurst: triggerBurst,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      redisTTL,
		},
		NATS: NATSConfig{
			Enabled:    getEnvBool("NATS_ENABLED", false),
			URL:        getEnv("NATS_URL", "nats://localhost:4222"),
			StreamName: getEnv("NATS_STREAM", "CHAOS_INCIDENTS"),
		},
		CloudWatch: CloudWatchConfig{
			MetricsEnabled:  getEnvBool("CLOUDWATCH_METRICS_ENABLED", false),
			LogsEnabled:     getEnvBool("CLOUDWATCH_LOGS_ENABLED", false),
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Endpoint:        getEnv("AWS_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Namespace:       getEnv("CLOUDWATCH_NAMESPACE", "ChaosDashboard"),
			LogGroupName:    getEnv("CLOUDWATCH_LOG_GROUP", "/chaos-dashboard/app"),
			LogStreamName:   getEnv("CLOUDWATCH_LOG_STREAM", hostnameOr("chaos-dashboard")),
			FlushInterval:   cloudWatchFlush,
		},
		Metrics: MetricsConfig{
			PrometheusEnabled: getEnvBool("PROMETHEUS_ENABLED", true),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Simulation.RecoveryStartDelay <= 0 || c.Simulation.RecoveryCompleteDelay <= 0 {
		return fmt.Errorf("simulation recovery delays must be positive")
	}
	if c.Simulation.LatencyTickInterval <= 0 {
		return fmt.Errorf("SIM_LATENCY_TICK_INTERVAL must be positive")
	}
	if c.Simulation.MaxEvents < 0 {
		return fmt.Errorf("SIM_MAX_EVENTS cannot be negative")
	}
	if c.RateLimit.TriggerRPS <= 0 || c.RateLimit.TriggerBurst <= 0 {
		return fmt.Errorf("trigger rate limit must be positive")
	}
	if (c.CloudWatch.MetricsEnabled || c.CloudWatch.LogsEnabled) && c.CloudWatch.Region == "" {
		return fmt.Errorf("AWS_REGION is required when CloudWatch is enabled")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func hostnameOr(fallback string) string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return fallback
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	current := ""

	for _, r := range raw {
		if r == ',' {
			if current != "" {
				items = append(items, current)
				current = ""
			}
			continue
		}
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			current += string(r)
		}
	}

	if current != "" {
		items = append(items, current)
	}

	return items
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
