// Package engine 实现排班优化引擎：把需求目录和用工规则翻译成
// 二元规划模型，提交求解，再把解抽取回花名册
package engine

import (
	"fmt"
	"time"

	"github.com/anpai/anpai/pkg/errors"
	"github.com/anpai/anpai/pkg/logger"
	"github.com/anpai/anpai/pkg/milp"
	"github.com/anpai/anpai/pkg/model"
)

// VarKey 决策变量的复合键
// 含义：该员工在该日期是否上该类型的班
type VarKey struct {
	Employee  string
	Day       string
	ShiftType string
}

// Plan 一次运行的模型快照及其查找结构
// 变量空间是 员工 x 需求目录中出现的日期 x 需求目录中出现的班次类型 的全叉积
type Plan struct {
	Model      *milp.Model
	Vars       map[VarKey]*milp.Variable
	Employees  []model.Employee
	Days       []string           // 按需求目录首次出现顺序
	ShiftTypes []string           // 同上
	Durations  map[string]float64 // 班次类型 -> 时长（小时）
	Demands    []model.ShiftDemand
}

// BuildModel 从需求目录与员工名录构建完整约束集
//
// 约束族：
//  1. 覆盖：每条需求行上，合格员工的变量之和恰好等于所需人数
//  2. 单日班次上限：每员工每日的变量之和不超过其每日最多班次数
//  3. 周期最少工时：每员工全部指派的班次时长之和不低于其下限
//
// MaxConsecutiveDays 与 MinRestHours 仅在 EnforceRestRules 打开时生成约束；
// MinConsecutiveOff 目前任何情况下都不生成约束，编码最少连休需要引入
// 辅助起休变量，见 DESIGN.md
func BuildModel(demands []model.ShiftDemand, employees []model.Employee, opts Options) (*Plan, error) {
	if len(demands) == 0 {
		return nil, errors.ModelConstruction("需求目录为空, 无法构建模型")
	}
	if len(employees) == 0 {
		return nil, errors.ModelConstruction("员工名录为空, 无法构建模型")
	}

	log := logger.NewRunLogger()
	days := distinctInOrder(demands, func(d *model.ShiftDemand) string { return d.Day })
	shiftTypes := distinctInOrder(demands, func(d *model.ShiftDemand) string { return d.ShiftType })

	// 每个班次类型的起始时刻与时长只按首条需求行计算一次
	durations := make(map[string]float64, len(shiftTypes))
	startHours := make(map[string]float64, len(shiftTypes))
	for _, d := range demands {
		if _, ok := durations[d.ShiftType]; ok {
			continue
		}
		hours, err := d.DurationHours()
		if err != nil {
			return nil, errors.ModelConstruction("班次 %s 时长计算失败: %v", d.ShiftType, err)
		}
		durations[d.ShiftType] = hours
		start, err := time.Parse("15:04", d.StartTime)
		if err != nil {
			return nil, errors.ModelConstruction("班次 %s 开始时间无效: %v", d.ShiftType, err)
		}
		startHours[d.ShiftType] = float64(start.Hour()) + float64(start.Minute())/60
	}

	m := milp.NewModel()
	vars := make(map[VarKey]*milp.Variable, len(employees)*len(days)*len(shiftTypes))
	for _, emp := range employees {
		for _, day := range days {
			for _, st := range shiftTypes {
				v, err := m.NewVariable(fmt.Sprintf("shift_%s_%s_%s", emp.Name, day, st))
				if err != nil {
					return nil, errors.Wrap(errors.CodeInternal, "创建决策变量失败", err)
				}
				vars[VarKey{emp.Name, day, st}] = v
			}
		}
	}

	// 覆盖约束：逐需求行，恰好等于所需人数
	for _, d := range demands {
		var terms []milp.Term
		for _, emp := range employees {
			if !emp.HasSkill(d.RequiredSkill) {
				continue
			}
			terms = append(terms, milp.Term{Coeff: 1, Var: vars[VarKey{emp.Name, d.Day, d.ShiftType}]})
		}
		if len(terms) == 0 {
			log.UnderResourced(d.Day, d.ShiftType, d.RequiredSkill)
			return nil, errors.ModelConstruction("技能 %s 没有任何合格员工", d.RequiredSkill).
				WithField("day", d.Day).
				WithField("shift_type", d.ShiftType).
				WithField("skill", d.RequiredSkill)
		}
		if err := m.AddConstraint(milp.Constraint{
			Name:  fmt.Sprintf("coverage_%s_%s_%s", d.Day, d.ShiftType, d.RequiredSkill),
			Terms: terms,
			Sense: milp.SenseEQ,
			RHS:   float64(d.RequiredCount),
		}); err != nil {
			return nil, errors.Wrap(errors.CodeInternal, "添加覆盖约束失败", err)
		}
	}

	// 单日班次上限约束
	for _, emp := range employees {
		for _, day := range days {
			terms := make([]milp.Term, 0, len(shiftTypes))
			for _, st := range shiftTypes {
				terms = append(terms, milp.Term{Coeff: 1, Var: vars[VarKey{emp.Name, day, st}]})
			}
			if err := m.AddConstraint(milp.Constraint{
				Name:  fmt.Sprintf("max_shifts_%s_%s", emp.Name, day),
				Terms: terms,
				Sense: milp.SenseLE,
				RHS:   float64(emp.MaxShiftsPerDay),
			}); err != nil {
				return nil, errors.Wrap(errors.CodeInternal, "添加单日班次约束失败", err)
			}
		}
	}

	// 周期最少工时约束
	for _, emp := range employees {
		if emp.MinHoursPerHorizon <= 0 {
			continue
		}
		var terms []milp.Term
		for _, day := range days {
			for _, st := range shiftTypes {
				terms = append(terms, milp.Term{Coeff: durations[st], Var: vars[VarKey{emp.Name, day, st}]})
			}
		}
		if err := m.AddConstraint(milp.Constraint{
			Name:  fmt.Sprintf("min_hours_%s", emp.Name),
			Terms: terms,
			Sense: milp.SenseGE,
			RHS:   emp.MinHoursPerHorizon,
		}); err != nil {
			return nil, errors.Wrap(errors.CodeInternal, "添加最少工时约束失败", err)
		}
	}

	plan := &Plan{
		Model:      m,
		Vars:       vars,
		Employees:  employees,
		Days:       days,
		ShiftTypes: shiftTypes,
		Durations:  durations,
		Demands:    demands,
	}

	if opts.EnforceRestRules {
		if err := addRestRuleConstraints(plan, startHours); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// addRestRuleConstraints 生成连续工作天数与班间休息约束
// 日期相邻关系按需求目录中的出现顺序推定
func addRestRuleConstraints(p *Plan, startHours map[string]float64) error {
	for _, emp := range p.Employees {
		// 滑动窗口：任意 maxConsecutiveDays+1 个连续日期内至多工作 maxConsecutiveDays 天
		if emp.MaxConsecutiveDays >= 1 && len(p.Days) > emp.MaxConsecutiveDays {
			window := emp.MaxConsecutiveDays + 1
			for i := 0; i+window <= len(p.Days); i++ {
				var terms []milp.Term
				for _, day := range p.Days[i : i+window] {
					for _, st := range p.ShiftTypes {
						terms = append(terms, milp.Term{Coeff: 1, Var: p.Vars[VarKey{emp.Name, day, st}]})
					}
				}
				if err := p.Model.AddConstraint(milp.Constraint{
					Name:  fmt.Sprintf("max_consecutive_%s_%s", emp.Name, p.Days[i]),
					Terms: terms,
					Sense: milp.SenseLE,
					RHS:   float64(emp.MaxConsecutiveDays),
				}); err != nil {
					return errors.Wrap(errors.CodeInternal, "添加连续工作天数约束失败", err)
				}
			}
		}

		// 相邻两日的班次组合：前班结束到后班开始的间隔不足时二者互斥
		if emp.MinRestHours <= 0 {
			continue
		}
		for i := 0; i+1 < len(p.Days); i++ {
			d1, d2 := p.Days[i], p.Days[i+1]
			for _, s1 := range p.ShiftTypes {
				end1 := startHours[s1] + p.Durations[s1]
				for _, s2 := range p.ShiftTypes {
					rest := startHours[s2] + 24 - end1
					if rest >= emp.MinRestHours {
						continue
					}
					if err := p.Model.AddConstraint(milp.Constraint{
						Name: fmt.Sprintf("min_rest_%s_%s_%s_%s", emp.Name, d1, s1, s2),
						Terms: []milp.Term{
							{Coeff: 1, Var: p.Vars[VarKey{emp.Name, d1, s1}]},
							{Coeff: 1, Var: p.Vars[VarKey{emp.Name, d2, s2}]},
						},
						Sense: milp.SenseLE,
						RHS:   1,
					}); err != nil {
						return errors.Wrap(errors.CodeInternal, "添加班间休息约束失败", err)
					}
				}
			}
		}
	}
	return nil
}

// distinctInOrder 按首次出现顺序提取去重后的字段值
func distinctInOrder(demands []model.ShiftDemand, field func(*model.ShiftDemand) string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range demands {
		v := field(&demands[i])
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
