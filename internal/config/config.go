package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Meta           Meta           `mapstructure:",squash"`
	Render         Render         `mapstructure:",squash"`
	Governor       Governor       `mapstructure:",squash"`
	Retry          Retry          `mapstructure:",squash"`
	Batch          Batch          `mapstructure:",squash"`
	Transcode      Transcode      `mapstructure:",squash"`
	CircuitBreaker CircuitBreaker `mapstructure:",squash"`
	ObjectSync     ObjectSync     `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host         string   `mapstructure:"host"`
	Port         string   `mapstructure:"port"`
	CorsOrigins  []string `mapstructure:"cors_allowed_origins"`
	MaxBodyBytes int64    `mapstructure:"max_body_bytes"`
}

type Database struct {
	DSN            string `mapstructure:"-"`
	Driver         string `mapstructure:"database_driver"`
	Password       string `mapstructure:"database_password"`
	URL            string `mapstructure:"database_url"`
	User           string `mapstructure:"database_user"`
	MaxConns       int    `mapstructure:"database_max_conns"`
	MaxIdleMinutes int    `mapstructure:"database_max_idle_minutes"`
}

type Meta struct {
	BaseURL          string    `mapstructure:"meta_base_url"`
	URL              string    `mapstructure:"meta_url"`
	Version          string    `mapstructure:"meta_version"`
	AccessToken      string    `mapstructure:"meta_access_token"`
	AppID            string    `mapstructure:"meta_app_id"`
	AppSecret        string    `mapstructure:"meta_app_secret"`
	UserAgent        string    `mapstructure:"meta_user_agent"`
	TokenAutoRefresh bool      `mapstructure:"meta_token_auto_refresh"`
	LongLivedToken   string    `mapstructure:"meta_long_lived_token"`
	TokenExpiresAt   time.Time `mapstructure:"-"`
}

type Render struct {
	APIKey    string `mapstructure:"render_api_key"`
	ServiceID string `mapstructure:"render_service_id"`
}

// Governor controla a janela de uso por conta de anúncios da Meta
type Governor struct {
	WindowSeconds        int `mapstructure:"governor_window_seconds"`
	DecayIntervalSeconds int `mapstructure:"governor_decay_interval_seconds"`
	ReadDelayMs          int `mapstructure:"governor_read_delay_ms"`
	WriteDelayMs         int `mapstructure:"governor_write_delay_ms"`
}

type Retry struct {
	MaxAttempts           int `mapstructure:"retry_max_attempts"`
	BaseDelaySeconds      int `mapstructure:"retry_base_delay_seconds"`
	TransientDelaySeconds int `mapstructure:"retry_transient_delay_seconds"`
	RateLimitDelaySeconds int `mapstructure:"retry_rate_limit_delay_seconds"`
	MaxTransientResets    int `mapstructure:"retry_max_transient_resets"`
}

type Batch struct {
	ChunkSize   int `mapstructure:"batch_chunk_size"`
	MaxAttempts int `mapstructure:"batch_max_attempts"`
}

type Transcode struct {
	PollIntervalSeconds int `mapstructure:"transcode_poll_interval_seconds"`
	MaxPolls            int `mapstructure:"transcode_max_polls"`
}

type CircuitBreaker struct {
	FailureThreshold uint32 `mapstructure:"circuit_breaker_failure_threshold"`
	TimeoutSeconds   int    `mapstructure:"circuit_breaker_timeout_seconds"`
	MaxRequests      uint32 `mapstructure:"circuit_breaker_max_requests"`
}

type ObjectSync struct {
	CronSchedule      string `mapstructure:"object_sync_cron"`
	MaxConcurrentJobs int    `mapstructure:"object_sync_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"object_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001")
	viper.SetDefault("MAX_BODY_BYTES", 1<<20)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/traffic_ads?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_MINUTES", 5)

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "your_app_id")
	viper.SetDefault("META_APP_SECRET", "your_app_secret")
	viper.SetDefault("META_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL
	viper.SetDefault("META_USER_AGENT", "traffic-manager-ads/1.0")
	viper.SetDefault("META_TOKEN_AUTO_REFRESH", false)

	viper.SetDefault("RENDER_API_KEY", "")
	viper.SetDefault("RENDER_SERVICE_ID", "")

	// Janela de uso: 1 unidade por segundo da janela, decaindo a cada 12s
	viper.SetDefault("GOVERNOR_WINDOW_SECONDS", 60)
	viper.SetDefault("GOVERNOR_DECAY_INTERVAL_SECONDS", 12)
	viper.SetDefault("GOVERNOR_READ_DELAY_MS", 100)
	viper.SetDefault("GOVERNOR_WRITE_DELAY_MS", 500)

	viper.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	viper.SetDefault("RETRY_BASE_DELAY_SECONDS", 5)
	viper.SetDefault("RETRY_TRANSIENT_DELAY_SECONDS", 30)
	viper.SetDefault("RETRY_RATE_LIMIT_DELAY_SECONDS", 300)
	viper.SetDefault("RETRY_MAX_TRANSIENT_RESETS", 5)

	viper.SetDefault("BATCH_CHUNK_SIZE", 50)
	viper.SetDefault("BATCH_MAX_ATTEMPTS", 3)

	viper.SetDefault("TRANSCODE_POLL_INTERVAL_SECONDS", 5)
	viper.SetDefault("TRANSCODE_MAX_POLLS", 120) // 10 minutos

	viper.SetDefault("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5)
	viper.SetDefault("CIRCUIT_BREAKER_TIMEOUT_SECONDS", 60)
	viper.SetDefault("CIRCUIT_BREAKER_MAX_REQUESTS", 1)

	viper.SetDefault("OBJECT_SYNC_CRON", "0 */6 * * *") // A cada 6 horas
	viper.SetDefault("OBJECT_SYNC_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("OBJECT_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// MaxUsage retorna o orçamento de chamadas por janela (mínimo 1)
func (g Governor) MaxUsage() int {
	return max(1, g.WindowSeconds)
}

func (g Governor) DecayInterval() time.Duration {
	return time.Duration(g.DecayIntervalSeconds) * time.Second
}

func (g Governor) ReadDelay() time.Duration {
	return time.Duration(g.ReadDelayMs) * time.Millisecond
}

func (g Governor) WriteDelay() time.Duration {
	return time.Duration(g.WriteDelayMs) * time.Millisecond
}

func (r Retry) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelaySeconds) * time.Second
}

func (r Retry) TransientDelay() time.Duration {
	return time.Duration(r.TransientDelaySeconds) * time.Second
}

func (r Retry) RateLimitDelay() time.Duration {
	return time.Duration(r.RateLimitDelaySeconds) * time.Second
}

func (t Transcode) PollInterval() time.Duration {
	return time.Duration(t.PollIntervalSeconds) * time.Second
}

func (c CircuitBreaker) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
