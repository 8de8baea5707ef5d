package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLKVRepository implements KVRepository using MySQL.
type MySQLKVRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLKVRepository connects to MySQL and ensures the kv_store table exists.
func NewMySQLKVRepository(dsn string, logger *zap.Logger) (*MySQLKVRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			`+"`key`"+` VARCHAR(191) NOT NULL PRIMARY KEY,
			value LONGTEXT NOT NULL,
			updated_at DATETIME NOT NULL
		) CHARACTER SET utf8mb4`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info("mysql kv store initialized")
	return &MySQLKVRepository{db: db, logger: logger}, nil
}

// Get returns the value stored under key.
func (r *MySQLKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE `key` = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts value under key.
func (r *MySQLKVRepository) Set(ctx context.Context, key string, value []byte) error {
	query := "INSERT INTO kv_store (`key`, value, updated_at) VALUES (?, ?, UTC_TIMESTAMP()) " +
		"ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)"

	if _, err := r.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *MySQLKVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kv_store WHERE `key` = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// GetStats returns the key count and pool statistics.
func (r *MySQLKVRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_keys"] = count

	poolStats := r.db.Stats()
	stats["open_connections"] = poolStats.OpenConnections
	stats["in_use"] = poolStats.InUse

	return stats, nil
}

// Close closes the connection pool.
func (r *MySQLKVRepository) Close() error {
	return r.db.Close()
}

var _ KVRepository = (*MySQLKVRepository)(nil)
