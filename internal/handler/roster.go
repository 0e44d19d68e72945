// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/anpai/anpai/internal/config"
	"github.com/anpai/anpai/internal/metrics"
	"github.com/anpai/anpai/internal/repository"
	"github.com/anpai/anpai/pkg/engine"
	"github.com/anpai/anpai/pkg/errors"
	"github.com/anpai/anpai/pkg/logger"
	"github.com/anpai/anpai/pkg/milp"
	"github.com/anpai/anpai/pkg/milp/bnb"
	"github.com/anpai/anpai/pkg/model"
)

// RosterHandler 花名册生成处理器
// repo 和 m 允许为 nil（未启用持久化/指标时）
type RosterHandler struct {
	solverCfg config.SolverConfig
	repo      *repository.RosterRepository
	m         *metrics.Metrics
}

// NewRosterHandler 创建花名册处理器
func NewRosterHandler(solverCfg config.SolverConfig, repo *repository.RosterRepository, m *metrics.Metrics) *RosterHandler {
	return &RosterHandler{solverCfg: solverCfg, repo: repo, m: m}
}

// DemandInput 需求行输入
type DemandInput struct {
	Day           string `json:"day"`
	ShiftType     string `json:"shift_type"`
	Skill         string `json:"skill"`
	StartTime     string `json:"start_time"` // HH:MM
	EndTime       string `json:"end_time"`   // HH:MM
	RequiredCount int    `json:"required_count"`
}

// EmployeeInput 员工输入
type EmployeeInput struct {
	Name            string   `json:"name"`
	Skills          []string `json:"skills"`
	MaxShiftsPerDay int      `json:"max_shifts_per_day,omitempty"`
	MinHours        float64  `json:"min_hours_per_roster,omitempty"`
	MaxDaysInARow   int      `json:"max_days_in_a_row,omitempty"`
	MinDaysOffInRow int      `json:"min_days_off_in_a_row,omitempty"`
	MinRestHours    float64  `json:"min_hours_between_shifts,omitempty"`
}

// GenerateOptions 生成选项
type GenerateOptions struct {
	TimeoutSeconds   int   `json:"timeout_seconds,omitempty"`
	EnforceRestRules *bool `json:"enforce_rest_rules,omitempty"`
}

// GenerateRequest 花名册生成请求
type GenerateRequest struct {
	Demands   []DemandInput    `json:"demands"`
	Employees []EmployeeInput  `json:"employees"`
	Options   *GenerateOptions `json:"options,omitempty"`
}

// GenerateResponse 花名册生成响应
type GenerateResponse struct {
	Success    bool                       `json:"success"`
	RunID      string                     `json:"run_id"`
	Status     string                     `json:"status"`
	Message    string                     `json:"message,omitempty"`
	Roster     []model.RosterEntry        `json:"roster,omitempty"`
	Warnings   []engine.DoubleBooking     `json:"warnings,omitempty"`
	Violations []milp.ConstraintViolation `json:"violations,omitempty"`
	Statistics engine.Statistics          `json:"statistics"`
	Duration   string                     `json:"duration"`
}

// Generate 处理 POST /api/v1/roster/generate
func (h *RosterHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, errors.New(errors.CodeInvalidInput, "仅支持 POST"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.CodeInvalidInput, "请求体解析失败", err))
		return
	}

	demands := make([]model.ShiftDemand, 0, len(req.Demands))
	for _, d := range req.Demands {
		demands = append(demands, model.ShiftDemand{
			Day:           d.Day,
			ShiftType:     d.ShiftType,
			RequiredSkill: d.Skill,
			StartTime:     d.StartTime,
			EndTime:       d.EndTime,
			RequiredCount: d.RequiredCount,
		})
	}
	employees := make([]model.Employee, 0, len(req.Employees))
	for _, e := range req.Employees {
		maxShifts := e.MaxShiftsPerDay
		if maxShifts == 0 {
			maxShifts = 1
		}
		employees = append(employees, model.Employee{
			Name:               e.Name,
			Skills:             e.Skills,
			MaxShiftsPerDay:    maxShifts,
			MinHoursPerHorizon: e.MinHours,
			MaxConsecutiveDays: e.MaxDaysInARow,
			MinConsecutiveOff:  e.MinDaysOffInRow,
			MinRestHours:       e.MinRestHours,
		})
	}

	opts := engine.Options{EnforceRestRules: h.solverCfg.EnforceRestRules}
	timeout := h.solverCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if req.Options != nil {
		if req.Options.EnforceRestRules != nil {
			opts.EnforceRestRules = *req.Options.EnforceRestRules
		}
		if req.Options.TimeoutSeconds > 0 {
			timeout = time.Duration(req.Options.TimeoutSeconds) * time.Second
		}
	}

	solver := bnb.New()
	if h.solverCfg.MaxNodes > 0 {
		solver.SetMaxNodes(h.solverCfg.MaxNodes)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	res, err := engine.New(solver, opts).Run(ctx, demands, employees)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.m != nil {
		h.m.ObserveRun(string(res.Report.Status), res.Duration,
			res.Statistics.SolveNodes, len(res.Roster), len(res.Report.Warnings))
	}
	if h.repo != nil {
		if err := h.repo.SaveRun(r.Context(), repository.RecordFromResult(res)); err != nil {
			logger.WithError(err).Str("run_id", res.RunID.String()).Msg("保存运行记录失败")
		}
	}

	resp := GenerateResponse{
		Success:    res.Report.Status == milp.StatusOptimal,
		RunID:      res.RunID.String(),
		Status:     string(res.Report.Status),
		Roster:     res.Roster,
		Warnings:   res.Report.Warnings,
		Violations: res.Report.Violations,
		Statistics: res.Statistics,
		Duration:   res.Duration.String(),
	}
	if !resp.Success {
		resp.Message = "未找到可行排班, 详见 violations"
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health 处理健康检查
func (h *RosterHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "rosterd"})
}

// writeJSON 输出 JSON 响应
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Msg("写入响应失败")
	}
}

// writeError 输出错误响应
func writeError(w http.ResponseWriter, err error) {
	if ae, ok := err.(*errors.AppError); ok {
		writeJSON(w, ae.HTTPStatus, ae)
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"code":    string(errors.CodeInternal),
		"message": err.Error(),
	})
}
