package domain

import (
	"time"
)

// Config holds the complete vssbridge configuration.
type Config struct {
	// Server settings
	Server ServerConfig `json:"server"`

	// Tier determines feature availability
	Tier Tier `json:"tier"`

	// Upstream data sources
	Sources SourcesConfig `json:"sources"`

	// Component configurations
	Repository RepositoryConfig `json:"repository"`
	Cache      CacheConfig      `json:"cache"`
	EventBus   EventBusConfig   `json:"eventBus"`

	// Output directories for the presentation adapter
	Output OutputConfig `json:"output"`

	// Observability
	Logging LoggingConfig `json:"logging"`
	Tracing TracingConfig `json:"tracing"`
}

// SourcesConfig holds the upstream client settings.
type SourcesConfig struct {
	// Enterprise registry API
	RegistryBaseURL string `json:"registryBaseUrl"`

	// Social-insurance portal
	PortalBaseURL string `json:"portalBaseUrl"`

	// RequireAuth forces a portal login before any regulatory fetch.
	RequireAuth    bool   `json:"requireAuth"`
	PortalUsername string `json:"portalUsername"`
	PortalPassword string `json:"-"`

	// Per-request timeout for both clients.
	Timeout time.Duration `json:"timeout"`

	// RateDelay is the courtesy delay between consecutive upstream requests.
	RateDelay time.Duration `json:"rateDelay"`

	// CacheTTL bounds how long a fetched enterprise record stays cached.
	CacheTTL time.Duration `json:"cacheTtl"`
}

// OutputConfig holds the directories the presentation adapter writes to.
type OutputConfig struct {
	DataDir   string `json:"dataDir"`
	ReportDir string `json:"reportDir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	ReadTimeout  int    `json:"readTimeout"`  // seconds
	WriteTimeout int    `json:"writeTimeout"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `json:"enabled"`
	ServiceName string `json:"serviceName"`
	Endpoint    string `json:"endpoint"`
}

// Tier represents the deployment tier.
type Tier string

const (
	// TierCommunity runs on SQLite, an in-process LRU cache and channels.
	TierCommunity Tier = "community"

	// TierPro runs on PostgreSQL, Redis and NATS.
	TierPro Tier = "pro"
)

// DefaultConfig returns a default configuration for the Community tier.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Tier: TierCommunity,
		Sources: SourcesConfig{
			RegistryBaseURL: "https://thongtindoanhnghiep.co",
			PortalBaseURL:   "http://vssapp.teca.vn:8088",
			RequireAuth:     true,
			PortalUsername:  "admin",
			PortalPassword:  "admin",
			Timeout:         30 * time.Second,
			RateDelay:       1 * time.Second,
			CacheTTL:        time.Hour,
		},
		Repository: RepositoryConfig{
			Driver:     "sqlite",
			SQLitePath: "./vssbridge.db",
		},
		Cache: CacheConfig{
			Type:         "memory",
			LocalMaxSize: 10000,
			LocalTTL:     5 * time.Minute,
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		Output: OutputConfig{
			DataDir:   "./data",
			ReportDir: "./reports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "vssbridge",
		},
	}
}

// ProConfig returns a configuration for the Pro tier.
func ProConfig() *Config {
	cfg := DefaultConfig()
	cfg.Tier = TierPro
	cfg.Repository = RepositoryConfig{
		Driver:       "postgres",
		PostgresHost: "localhost",
		PostgresPort: 5432,
		PostgresDB:   "vssbridge",
	}
	cfg.Cache = CacheConfig{
		Type:           "redis",
		RedisAddr:      "localhost:6379",
		EnableTwoPhase: true,
		LocalMaxSize:   1000,
	}
	cfg.EventBus = EventBusConfig{
		Type:              "nats",
		NATSUrl:           "nats://localhost:4222",
		NATSMaxReconnects: 10,
		NATSReconnectWait: 5,
	}
	cfg.Tracing.Enabled = true
	return cfg
}
