// Package logger 提供统一的日志框架
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level 日志级别
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config 日志配置
type Config struct {
	Level      string `koanf:"level" json:"level"`
	Format     string `koanf:"format" json:"format"` // json/console
	Output     string `koanf:"output" json:"output"` // stdout/stderr
	TimeFormat string `koanf:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	}
}

// Init 初始化日志器
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer
		switch cfg.Output {
		case "stdout":
			output = os.Stdout
		default:
			output = os.Stderr
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel 解析日志级别
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get 获取日志器
func Get() *zerolog.Logger {
	if logger.GetLevel() == zerolog.Disabled {
		Init(DefaultConfig())
	}
	return &logger
}

// Debug 记录调试日志
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info 记录信息日志
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn 记录警告日志
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error 记录错误日志
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal 记录致命错误日志
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError 添加错误信息
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// RunLogger 优化运行专用日志器
type RunLogger struct {
	base *zerolog.Logger
}

// NewRunLogger 创建优化运行日志器
func NewRunLogger() *RunLogger {
	l := Get().With().Str("component", "engine").Logger()
	return &RunLogger{base: &l}
}

// StartRun 记录一次优化运行开始
func (l *RunLogger) StartRun(runID string, employees, days, shifts int) {
	l.base.Info().
		Str("run_id", runID).
		Int("employees", employees).
		Int("days", days).
		Int("shifts", shifts).
		Msg("开始生成花名册")
}

// ModelBuilt 记录模型构建完成
func (l *RunLogger) ModelBuilt(runID string, variables, constraints int) {
	l.base.Info().
		Str("run_id", runID).
		Int("variables", variables).
		Int("constraints", constraints).
		Msg("优化模型构建完成")
}

// SolveFinished 记录求解结束
func (l *RunLogger) SolveFinished(solver, status string, objective float64, nodes int, duration time.Duration) {
	l.base.Info().
		Str("solver", solver).
		Str("status", status).
		Float64("objective", objective).
		Int("nodes", nodes).
		Dur("duration", duration).
		Msg("求解结束")
}

// ConstraintViolation 记录约束违反
func (l *RunLogger) ConstraintViolation(constraint, details string) {
	l.base.Warn().
		Str("constraint", constraint).
		Str("details", details).
		Msg("约束违反")
}

// DoubleBooking 记录重复指派告警
func (l *RunLogger) DoubleBooking(employee, day string, shifts []string) {
	l.base.Warn().
		Str("employee", employee).
		Str("day", day).
		Strs("shifts", shifts).
		Msg("同一员工同日被重复指派")
}

// UnderResourced 记录技能无人可用
func (l *RunLogger) UnderResourced(day, shiftType, skill string) {
	l.base.Warn().
		Str("day", day).
		Str("shift_type", shiftType).
		Str("skill", skill).
		Msg("该技能没有任何合格员工")
}
