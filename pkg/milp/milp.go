// Package milp 提供混合整数规划模型的构建与求解边界
// 模型本身不关心排班语义，只承载变量、线性约束和目标函数
package milp

import "fmt"

// Variable 二元决策变量（取值 0 或 1）
// Index 是变量在模型内的稳定下标，求解结果按该下标回填
type Variable struct {
	Name  string
	Index int
}

// Term 线性表达式中的一项
type Term struct {
	Coeff float64
	Var   *Variable
}

// Sense 约束方向
type Sense string

const (
	SenseLE Sense = "<=" // 不大于
	SenseEQ Sense = "="  // 恰好等于
	SenseGE Sense = ">=" // 不小于
)

// Constraint 线性约束: sum(Coeff*Var) Sense RHS
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Eval 在给定取值下计算约束左侧的值
// values 按变量下标索引；nil 视为全零取值
func (c *Constraint) Eval(values []float64) float64 {
	var sum float64
	for _, t := range c.Terms {
		if values == nil || t.Var.Index >= len(values) {
			continue
		}
		sum += t.Coeff * values[t.Var.Index]
	}
	return sum
}

// Slack 约束左侧取值与右侧界的差
func (c *Constraint) Slack(values []float64) float64 {
	return c.Eval(values) - c.RHS
}

// Satisfied 检查约束在给定取值下是否满足
func (c *Constraint) Satisfied(values []float64) bool {
	const eps = 1e-6
	v := c.Eval(values)
	switch c.Sense {
	case SenseLE:
		return v <= c.RHS+eps
	case SenseGE:
		return v >= c.RHS-eps
	default:
		return v >= c.RHS-eps && v <= c.RHS+eps
	}
}

// Objective 最小化目标函数
type Objective struct {
	Terms []Term
}

// Eval 在给定取值下计算目标值
func (o *Objective) Eval(values []float64) float64 {
	var sum float64
	for _, t := range o.Terms {
		if values == nil || t.Var.Index >= len(values) {
			continue
		}
		sum += t.Coeff * values[t.Var.Index]
	}
	return sum
}

// Model 完整的优化模型：变量、约束与目标
// Freeze 之后即为不可变快照，提交求解后不再修改
type Model struct {
	variables   []*Variable
	constraints []Constraint
	objective   Objective
	frozen      bool
}

// NewModel 创建空模型
func NewModel() *Model {
	return &Model{}
}

// NewVariable 在模型中登记一个新的二元变量
func (m *Model) NewVariable(name string) (*Variable, error) {
	if m.frozen {
		return nil, fmt.Errorf("模型已冻结, 无法新增变量 %s", name)
	}
	v := &Variable{Name: name, Index: len(m.variables)}
	m.variables = append(m.variables, v)
	return v, nil
}

// AddConstraint 向模型追加一条约束
func (m *Model) AddConstraint(c Constraint) error {
	if m.frozen {
		return fmt.Errorf("模型已冻结, 无法新增约束 %s", c.Name)
	}
	m.constraints = append(m.constraints, c)
	return nil
}

// SetObjective 设置最小化目标
func (m *Model) SetObjective(o Objective) error {
	if m.frozen {
		return fmt.Errorf("模型已冻结, 无法修改目标函数")
	}
	m.objective = o
	return nil
}

// Freeze 冻结模型，之后任何修改操作都会报错
func (m *Model) Freeze() {
	m.frozen = true
}

// Frozen 返回模型是否已冻结
func (m *Model) Frozen() bool {
	return m.frozen
}

// Variables 返回全部变量（按登记顺序）
func (m *Model) Variables() []*Variable {
	return m.variables
}

// Constraints 返回全部约束
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// Objective 返回目标函数
func (m *Model) Objective() *Objective {
	return &m.objective
}

// NumVariables 返回变量数
func (m *Model) NumVariables() int {
	return len(m.variables)
}

// NumConstraints 返回约束数
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}
