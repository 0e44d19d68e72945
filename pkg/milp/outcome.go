// Package milp 提供混合整数规划模型的构建与求解边界
package milp

import (
	"context"
	"time"
)

// Status 求解状态
// 生命周期为单次转移: NotSolved -> {Optimal, Infeasible, Unbounded}
type Status string

const (
	StatusNotSolved  Status = "not_solved" // 未求解（含超时/取消/节点上限）
	StatusOptimal    Status = "optimal"    // 找到最优解
	StatusInfeasible Status = "infeasible" // 无可行解
	StatusUnbounded  Status = "unbounded"  // 目标无界
)

// Outcome 求解结果
// Values 仅在 Status 为 Optimal 时存在，按变量下标索引
type Outcome struct {
	Status    Status        `json:"status"`
	Values    []float64     `json:"values,omitempty"`
	Objective float64       `json:"objective"`
	Nodes     int           `json:"nodes"`
	Duration  time.Duration `json:"duration"`
}

// Value 读取某个变量的求解取值；无取值时返回 0
func (o *Outcome) Value(v *Variable) float64 {
	if o.Values == nil || v.Index >= len(o.Values) {
		return 0
	}
	return o.Values[v.Index]
}

// Solver 求解器能力接口
// 引擎只依赖该契约，不关心背后的求解算法
type Solver interface {
	// Name 返回求解器名称
	Name() string

	// Solve 求解一个已冻结的模型，同步返回结果
	// 内部不做重试；上下文取消或超时应返回 NotSolved 状态
	Solve(ctx context.Context, m *Model) (*Outcome, error)
}

// ConstraintViolation 约束违反记录，用于不可行诊断
type ConstraintViolation struct {
	Constraint string  `json:"constraint"`
	Sense      Sense   `json:"sense"`
	Value      float64 `json:"value"` // 约束左侧在给定取值下的值
	Bound      float64 `json:"bound"` // 约束右侧界
	Slack      float64 `json:"slack"` // Value - Bound
}

// Violations 在给定取值下列出所有被违反的约束
// values 为 nil 时按全零取值评估，用于求解器无法给出松弛解的场合
func (m *Model) Violations(values []float64) []ConstraintViolation {
	var out []ConstraintViolation
	for i := range m.constraints {
		c := &m.constraints[i]
		if c.Satisfied(values) {
			continue
		}
		out = append(out, ConstraintViolation{
			Constraint: c.Name,
			Sense:      c.Sense,
			Value:      c.Eval(values),
			Bound:      c.RHS,
			Slack:      c.Slack(values),
		})
	}
	return out
}
