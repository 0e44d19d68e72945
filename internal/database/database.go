// Package database 提供数据库连接和管理
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anpai/anpai/internal/config"
	"github.com/anpai/anpai/pkg/logger"

	_ "github.com/lib/pq" // PostgreSQL 驱动
)

// DB 数据库连接封装
type DB struct {
	*sql.DB
	cfg *config.DatabaseConfig
}

// New 创建新的数据库连接
func New(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("打开数据库连接失败: %w", err)
	}

	// 配置连接池
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("数据库连接成功")

	return &DB{DB: db, cfg: cfg}, nil
}

// Close 关闭数据库连接
func (db *DB) Close() error {
	if db.DB != nil {
		logger.Info().Msg("关闭数据库连接")
		return db.DB.Close()
	}
	return nil
}

// Migrate 创建花名册运行相关的表结构
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS roster_runs (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			status TEXT NOT NULL,
			objective DOUBLE PRECISION NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			employees INT NOT NULL DEFAULT 0,
			days INT NOT NULL DEFAULT 0,
			entry_count INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS roster_entries (
			run_id UUID NOT NULL REFERENCES roster_runs(id) ON DELETE CASCADE,
			employee TEXT NOT NULL,
			day TEXT NOT NULL,
			shift_type TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_roster_entries_run ON roster_entries(run_id)`,
		`CREATE TABLE IF NOT EXISTS roster_diagnostics (
			run_id UUID NOT NULL REFERENCES roster_runs(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("执行迁移失败: %w", err)
		}
	}
	logger.Info().Msg("数据库迁移完成")
	return nil
}
