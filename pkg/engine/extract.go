package engine

import (
	"fmt"

	"github.com/anpai/anpai/pkg/logger"
	"github.com/anpai/anpai/pkg/milp"
	"github.com/anpai/anpai/pkg/model"
)

// DoubleBooking 同一员工同日被指派多个班次的告警
// 约束族 2 正常时不应出现，这里是求解结果的防御性复核
type DoubleBooking struct {
	Employee   string   `json:"employee"`
	Day        string   `json:"day"`
	ShiftTypes []string `json:"shift_types"`
}

// Report 一次求解的诊断报告
type Report struct {
	Status          milp.Status                `json:"status"`
	Objective       float64                    `json:"objective"`
	Violations      []milp.ConstraintViolation `json:"violations,omitempty"`       // 非最优时被违反的约束
	ActiveVariables []string                   `json:"active_variables,omitempty"` // 非最优时取 1 的变量（尽力而为）
	Warnings        []DoubleBooking            `json:"warnings,omitempty"`
}

// extractRoster 把求解结果抽取为花名册并做防御性复核
//
// 非最优：不产出花名册，按求解器给出的取值（没有则按全零）评估每条
// 约束的松弛，连同当前取 1 的变量一起返回，便于定位欠资源的组合。
// 最优：同一 (员工, 日期) 多个变量取 1 时记录重复指派告警；
// 对应条目仍保留在花名册里，静默丢弃会掩盖调用方需要看到的答案
func extractRoster(p *Plan, out *milp.Outcome, log *logger.RunLogger) (model.Roster, *Report) {
	report := &Report{Status: out.Status, Objective: out.Objective}

	if out.Status != milp.StatusOptimal {
		report.Violations = p.Model.Violations(out.Values)
		for _, v := range report.Violations {
			log.ConstraintViolation(v.Constraint,
				fmt.Sprintf("取值 %.1f %s 界 %.1f, 松弛 %.1f", v.Value, v.Sense, v.Bound, v.Slack))
		}
		if out.Values != nil {
			for _, v := range p.Model.Variables() {
				if out.Values[v.Index] > 0.5 {
					report.ActiveVariables = append(report.ActiveVariables, v.Name)
				}
			}
		}
		return nil, report
	}

	var roster model.Roster
	for _, emp := range p.Employees {
		for _, day := range p.Days {
			var assigned []string
			for _, st := range p.ShiftTypes {
				if out.Value(p.Vars[VarKey{emp.Name, day, st}]) > 0.5 {
					assigned = append(assigned, st)
				}
			}
			if len(assigned) > 1 {
				log.DoubleBooking(emp.Name, day, assigned)
				report.Warnings = append(report.Warnings, DoubleBooking{
					Employee:   emp.Name,
					Day:        day,
					ShiftTypes: assigned,
				})
			}
			for _, st := range assigned {
				roster = append(roster, model.RosterEntry{Employee: emp.Name, Day: day, ShiftType: st})
			}
		}
	}
	return roster, report
}
