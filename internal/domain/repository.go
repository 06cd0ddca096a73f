package domain

import (
	"context"
	"time"
)

// Repository defines the interface for profile and rule persistence.
type Repository interface {
	// Fused profile operations
	SaveProfile(ctx context.Context, result *FusedResult) error
	GetProfile(ctx context.Context, id string) (*FusedResult, error)
	GetLatestProfile(ctx context.Context, taxID string) (*FusedResult, error)
	ListProfiles(ctx context.Context, since time.Time) ([]*FusedResult, error)

	// Screening rule operations
	SaveScreenRule(ctx context.Context, rule *ScreenRule) error
	GetScreenRule(ctx context.Context, ruleID string) (*ScreenRule, error)
	ListScreenRules(ctx context.Context) ([]*ScreenRule, error)
	DeleteScreenRule(ctx context.Context, ruleID string) error

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
