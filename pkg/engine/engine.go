package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anpai/anpai/pkg/errors"
	"github.com/anpai/anpai/pkg/logger"
	"github.com/anpai/anpai/pkg/milp"
	"github.com/anpai/anpai/pkg/model"
)

// Options 引擎选项
type Options struct {
	// EnforceRestRules 打开后为 MaxConsecutiveDays 与 MinRestHours
	// 生成约束；默认关闭，这两项规则只随员工记录携带而不参与求解
	EnforceRestRules bool
}

// Engine 排班优化引擎
// 单次运行内部是同步顺序执行；运行之间没有共享可变状态，
// 多个独立排班问题可各持一个引擎实例并行求解
type Engine struct {
	solver milp.Solver
	opts   Options
	log    *logger.RunLogger
}

// New 创建引擎
func New(solver milp.Solver, opts Options) *Engine {
	return &Engine{
		solver: solver,
		opts:   opts,
		log:    logger.NewRunLogger(),
	}
}

// Statistics 一次运行的规模与结果统计
type Statistics struct {
	Employees        int     `json:"employees"`
	Days             int     `json:"days"`
	ShiftTypes       int     `json:"shift_types"`
	Variables        int     `json:"variables"`
	Constraints      int     `json:"constraints"`
	TotalAssignments int     `json:"total_assignments"`
	TotalHours       float64 `json:"total_hours"`
	SolveNodes       int     `json:"solve_nodes"`
}

// Result 一次优化运行的产出
// 不可行是正常业务结果而非错误：Roster 为空，诊断在 Report 里
type Result struct {
	RunID      uuid.UUID     `json:"run_id"`
	Roster     model.Roster  `json:"roster,omitempty"`
	Report     *Report       `json:"report"`
	Statistics Statistics    `json:"statistics"`
	Duration   time.Duration `json:"duration"`
}

// Run 执行一次完整的优化运行：构建模型、求解、抽取花名册
//
// 输入校验失败返回 VALIDATION_FAILED；结构性无法构建
// （空目录、技能无人可用）返回 MODEL_CONSTRUCTION；
// 求解不可行不返回错误，结果状态与违反约束清单在 Result.Report 中
func (e *Engine) Run(ctx context.Context, demands []model.ShiftDemand, employees []model.Employee) (*Result, error) {
	start := time.Now()
	runID := uuid.New()

	if err := validateInputs(demands, employees); err != nil {
		return nil, err
	}

	plan, err := BuildModel(demands, employees, e.opts)
	if err != nil {
		return nil, err
	}
	e.log.StartRun(runID.String(), len(plan.Employees), len(plan.Days), len(plan.ShiftTypes))

	if err := plan.Model.SetObjective(composeObjective(plan)); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "设置目标函数失败", err)
	}
	plan.Model.Freeze()
	e.log.ModelBuilt(runID.String(), plan.Model.NumVariables(), plan.Model.NumConstraints())

	outcome, err := e.solver.Solve(ctx, plan.Model)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "求解器调用失败", err)
	}

	roster, report := extractRoster(plan, outcome, e.log)

	result := &Result{
		RunID:    runID,
		Roster:   roster,
		Report:   report,
		Duration: time.Since(start),
		Statistics: Statistics{
			Employees:        len(plan.Employees),
			Days:             len(plan.Days),
			ShiftTypes:       len(plan.ShiftTypes),
			Variables:        plan.Model.NumVariables(),
			Constraints:      plan.Model.NumConstraints(),
			TotalAssignments: len(roster),
			TotalHours:       totalHours(plan, roster),
			SolveNodes:       outcome.Nodes,
		},
	}
	return result, nil
}

// validateInputs 在模型构建前校验输入记录
func validateInputs(demands []model.ShiftDemand, employees []model.Employee) error {
	for i := range demands {
		if err := demands[i].Validate(); err != nil {
			return errors.Validation("需求行 %d 非法: %v", i, err)
		}
	}
	seen := make(map[string]bool, len(employees))
	for i := range employees {
		if err := employees[i].Validate(); err != nil {
			return errors.Validation("员工记录 %d 非法: %v", i, err)
		}
		if seen[employees[i].Name] {
			return errors.Validation("员工姓名重复: %s", employees[i].Name)
		}
		seen[employees[i].Name] = true
	}
	return nil
}

// totalHours 按班次时长汇总花名册总工时
func totalHours(p *Plan, roster model.Roster) float64 {
	var sum float64
	for _, e := range roster {
		sum += p.Durations[e.ShiftType]
	}
	return sum
}
