// Package config 提供配置管理
// 加载顺序（低 -> 高）：内置默认值、ROSTERD_CONFIG 指向的 YAML 文件、
// ROSTERD_ 前缀的环境变量（双下划线分隔层级，如 ROSTERD_APP__PORT）
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config 应用配置
type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	Solver   SolverConfig   `koanf:"solver"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name      string `koanf:"name"`
	Env       string `koanf:"env"`
	Port      int    `koanf:"port"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"` // json/console
}

// DatabaseConfig 数据库配置
// Enabled 为 false 时完全跳过持久化
type DatabaseConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Name            string        `koanf:"name"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// SolverConfig 求解器配置
type SolverConfig struct {
	Timeout          time.Duration `koanf:"timeout"`   // 求解墙钟上限
	MaxNodes         int           `koanf:"max_nodes"` // 搜索节点上限
	EnforceRestRules bool          `koanf:"enforce_rest_rules"`
}

// MetricsConfig 监控指标配置
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:      "rosterd",
			Env:       "development",
			Port:      7021,
			LogLevel:  "info",
			LogFormat: "console",
		},
		Database: DatabaseConfig{
			Enabled:         false,
			Host:            "localhost",
			Port:            5432,
			Name:            "roster",
			User:            "roster",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Solver: SolverConfig{
			Timeout:  30 * time.Second,
			MaxNodes: 1_000_000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load 加载完整配置
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("ROSTERD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}
	}

	// ROSTERD_APP__PORT -> app.port, ROSTERD_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns
	envProvider := env.Provider("ROSTERD_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "ROSTERD_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("读取环境变量失败: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port 取值非法: %d", c.App.Port)
	}
	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("solver.timeout 必须为正: %s", c.Solver.Timeout)
	}
	if c.Solver.MaxNodes <= 0 {
		return fmt.Errorf("solver.max_nodes 必须为正: %d", c.Solver.MaxNodes)
	}
	if c.Database.Enabled && c.Database.Host == "" {
		return fmt.Errorf("启用数据库时 database.host 不能为空")
	}
	return nil
}
