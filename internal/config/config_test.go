package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.App.Port != 7021 {
		t.Errorf("默认端口 = %d, want 7021", cfg.App.Port)
	}
	if cfg.Database.Enabled {
		t.Error("数据库默认应关闭")
	}
	if cfg.Solver.Timeout != 30*time.Second {
		t.Errorf("默认求解超时 = %s, want 30s", cfg.Solver.Timeout)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("默认指标配置 = %+v", cfg.Metrics)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ROSTERD_APP__PORT", "9000")
	t.Setenv("ROSTERD_APP__LOG_LEVEL", "debug")
	t.Setenv("ROSTERD_SOLVER__ENFORCE_REST_RULES", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.App.Port != 9000 {
		t.Errorf("端口 = %d, want 9000（环境变量覆盖）", cfg.App.Port)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("日志级别 = %s, want debug", cfg.App.LogLevel)
	}
	if !cfg.Solver.EnforceRestRules {
		t.Error("solver.enforce_rest_rules 应被环境变量打开")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rosterd.yaml")
	content := "app:\n  port: 8100\n  log_level: warn\nsolver:\n  max_nodes: 5000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	t.Setenv("ROSTERD_CONFIG", path)
	t.Setenv("ROSTERD_APP__PORT", "8200") // 环境变量优先于文件

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.App.Port != 8200 {
		t.Errorf("端口 = %d, want 8200", cfg.App.Port)
	}
	if cfg.App.LogLevel != "warn" {
		t.Errorf("日志级别 = %s, want warn（来自文件）", cfg.App.LogLevel)
	}
	if cfg.Solver.MaxNodes != 5000 {
		t.Errorf("max_nodes = %d, want 5000（来自文件）", cfg.Solver.MaxNodes)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.App.Port = -1
	if err := cfg.Validate(); err == nil {
		t.Error("非法端口应报错")
	}

	cfg = Default()
	cfg.Solver.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("零求解超时应报错")
	}

	cfg = Default()
	cfg.Database.Enabled = true
	cfg.Database.Host = ""
	if err := cfg.Validate(); err == nil {
		t.Error("启用数据库但缺少主机应报错")
	}
}
