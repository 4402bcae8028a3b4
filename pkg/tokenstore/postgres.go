package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresConfig holds database connection settings for the Postgres store.
type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// NewPostgresConfig creates a database config from environment variables.
func NewPostgresConfig() *PostgresConfig {
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	return &PostgresConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            5432,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "quickbooks"),
		SSLMode:         sslMode,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// PostgresStore persists tokens in a qbo_tokens table via a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore opens a connection pool and ensures the token table
// exists. Close the store when done.
func NewPostgresStore(ctx context.Context, cfg *PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool, logger: logger}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Token store connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS qbo_tokens (
			realm_id      TEXT PRIMARY KEY,
			access_token  TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create qbo_tokens table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, realmID string, tokens *Tokens) error {
	updatedAt := tokens.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO qbo_tokens (realm_id, access_token, refresh_token, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (realm_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    updated_at = EXCLUDED.updated_at`,
		realmID, tokens.AccessToken, tokens.RefreshToken, updatedAt)
	if err != nil {
		s.logger.Error("Failed to save tokens", zap.Error(err), zap.String("realm_id", realmID))
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, realmID string) (*Tokens, error) {
	var tokens Tokens
	err := s.pool.QueryRow(ctx, `
		SELECT access_token, refresh_token, updated_at
		FROM qbo_tokens WHERE realm_id = $1`, realmID).
		Scan(&tokens.AccessToken, &tokens.RefreshToken, &tokens.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error("Failed to get tokens", zap.Error(err), zap.String("realm_id", realmID))
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	return &tokens, nil
}

func (s *PostgresStore) Delete(ctx context.Context, realmID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM qbo_tokens WHERE realm_id = $1`, realmID)
	if err != nil {
		s.logger.Error("Failed to delete tokens", zap.Error(err), zap.String("realm_id", realmID))
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
