// Package model 定义排班优化引擎的核心数据模型
package model

import "fmt"

// Employee 员工及其用工规则
// Name 是唯一标识，同一花名册内不允许重名
type Employee struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`

	// 用工规则
	MaxShiftsPerDay    int     `json:"max_shifts_per_day"`    // 每日最多班次数
	MinHoursPerHorizon float64 `json:"min_hours_per_horizon"` // 整个排班周期最少工时
	MaxConsecutiveDays int     `json:"max_consecutive_days"`  // 最多连续工作天数
	MinConsecutiveOff  int     `json:"min_consecutive_off"`   // 最少连续休息天数
	MinRestHours       float64 `json:"min_rest_hours"`        // 两班之间最少间隔小时数
}

// HasSkill 检查员工是否具备某技能
func (e *Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Validate 校验员工记录的必填字段
func (e *Employee) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("员工记录缺少姓名")
	}
	if e.MaxShiftsPerDay < 1 {
		return fmt.Errorf("员工 %s 的每日最多班次数必须不小于 1, 实际为 %d", e.Name, e.MaxShiftsPerDay)
	}
	if e.MinHoursPerHorizon < 0 {
		return fmt.Errorf("员工 %s 的最少工时不能为负: %.1f", e.Name, e.MinHoursPerHorizon)
	}
	return nil
}
