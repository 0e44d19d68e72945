// rosterd 排班优化引擎服务
// 主程序入口：带 -demand/-staff 参数时执行单次命令行排班，
// 否则作为 HTTP 服务运行
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/anpai/anpai/internal/config"
	"github.com/anpai/anpai/internal/database"
	"github.com/anpai/anpai/internal/handler"
	"github.com/anpai/anpai/internal/ingest"
	"github.com/anpai/anpai/internal/metrics"
	"github.com/anpai/anpai/internal/render"
	"github.com/anpai/anpai/internal/repository"
	"github.com/anpai/anpai/pkg/engine"
	"github.com/anpai/anpai/pkg/logger"
	"github.com/anpai/anpai/pkg/milp"
	"github.com/anpai/anpai/pkg/milp/bnb"
	"github.com/anpai/anpai/pkg/model"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	demandPath := flag.String("demand", "", "班次需求 CSV 文件路径（命令行模式）")
	staffPath := flag.String("staff", "", "员工规则 CSV 文件路径（命令行模式）")
	outPath := flag.String("out", "", "花名册网格输出路径，留空输出到标准输出")
	flag.Parse()

	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})

	if *demandPath != "" || *staffPath != "" {
		if *demandPath == "" || *staffPath == "" {
			fmt.Fprintln(os.Stderr, "命令行模式需要同时指定 -demand 和 -staff")
			os.Exit(2)
		}
		os.Exit(runOnce(cfg, *demandPath, *staffPath, *outPath))
	}

	serve(cfg)
}

// runOnce 命令行模式：读取 CSV、求解、输出花名册网格
// 返回进程退出码：0 求解最优，1 不可行或求解未完成，2 输入/环境错误
func runOnce(cfg *config.Config, demandPath, staffPath, outPath string) int {
	demands, err := ingest.LoadDemandFile(demandPath)
	if err != nil {
		logger.WithError(err).Str("path", demandPath).Msg("读取需求文件失败")
		return 2
	}
	employees, err := ingest.LoadStaffFile(staffPath)
	if err != nil {
		logger.WithError(err).Str("path", staffPath).Msg("读取员工文件失败")
		return 2
	}

	solver := bnb.New()
	solver.SetMaxNodes(cfg.Solver.MaxNodes)
	eng := engine.New(solver, engine.Options{EnforceRestRules: cfg.Solver.EnforceRestRules})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Solver.Timeout)
	defer cancel()

	res, err := eng.Run(ctx, demands, employees)
	if err != nil {
		logger.WithError(err).Msg("排班运行失败")
		return 2
	}

	saveRun(cfg, res)

	if res.Report.Status != milp.StatusOptimal {
		logger.Warn().
			Str("run_id", res.RunID.String()).
			Str("status", string(res.Report.Status)).
			Int("violations", len(res.Report.Violations)).
			Msg("未找到可行排班")
		for _, v := range res.Report.Violations {
			logger.Warn().
				Str("constraint", v.Constraint).
				Float64("value", v.Value).
				Float64("bound", v.Bound).
				Msg("违反约束")
		}
		return 1
	}

	dayList := demandDays(demands)
	if outPath != "" {
		if err := render.WriteGridFile(outPath, res.Roster, employees, dayList); err != nil {
			logger.WithError(err).Str("path", outPath).Msg("写入花名册失败")
			return 2
		}
	} else {
		if err := render.WriteGrid(os.Stdout, res.Roster, employees, dayList); err != nil {
			logger.WithError(err).Msg("输出花名册失败")
			return 2
		}
	}

	logger.Info().
		Str("run_id", res.RunID.String()).
		Int("assignments", res.Statistics.TotalAssignments).
		Float64("total_hours", res.Statistics.TotalHours).
		Dur("duration", res.Duration).
		Msg("排班完成")
	return 0
}

// demandDays 按需求目录首次出现顺序收集日期列表
func demandDays(demands []model.ShiftDemand) []string {
	seen := make(map[string]bool, len(demands))
	var out []string
	for _, d := range demands {
		if !seen[d.Day] {
			seen[d.Day] = true
			out = append(out, d.Day)
		}
	}
	return out
}

// saveRun 按配置持久化运行结果，失败只告警不中断
func saveRun(cfg *config.Config, res *engine.Result) {
	if !cfg.Database.Enabled {
		return
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.WithError(err).Msg("数据库连接失败，跳过持久化")
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Migrate(ctx); err != nil {
		logger.WithError(err).Msg("数据库迁移失败，跳过持久化")
		return
	}
	repo := repository.NewRosterRepository(db)
	if err := repo.SaveRun(ctx, repository.RecordFromResult(res)); err != nil {
		logger.WithError(err).Msg("保存运行记录失败")
	}
}

// serve HTTP 服务模式
func serve(cfg *config.Config) {
	fmt.Printf("rosterd 排班优化引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)

	var repo *repository.RosterRepository
	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database)
		if err != nil {
			logger.WithError(err).Msg("数据库连接失败")
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.Migrate(ctx); err != nil {
			cancel()
			logger.WithError(err).Msg("数据库迁移失败")
			os.Exit(1)
		}
		cancel()
		repo = repository.NewRosterRepository(db)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	rosterHandler := handler.NewRosterHandler(cfg.Solver, repo, m)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rosterHandler.Health)
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})
	mux.HandleFunc("/api/v1/roster/generate", rosterHandler.Generate)
	if m != nil {
		mux.Handle(cfg.Metrics.Path, m.Handler())
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      requestIDMiddleware(loggingMiddleware(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Str("env", cfg.App.Env).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}
	logger.Info().Msg("服务器已关闭")
}

// requestIDMiddleware 请求ID追踪中间件
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware 日志中间件
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start)).
			Msg("请求处理")
	})
}

// responseWriter 包装 ResponseWriter 以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
