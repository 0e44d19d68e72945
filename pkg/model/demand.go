// Package model 定义排班优化引擎的核心数据模型
package model

import (
	"fmt"
	"time"
)

// ShiftDemand 班次需求行
// 表示某一天、某个班次类型对某项技能的人数需求，一经载入不再修改
type ShiftDemand struct {
	Day           string `json:"day"`            // 日期标识（如 Monday）
	ShiftType     string `json:"shift_type"`     // 班次类型（如 AM/PM/Night）
	RequiredSkill string `json:"required_skill"` // 所需技能
	StartTime     string `json:"start_time"`     // HH:MM
	EndTime       string `json:"end_time"`       // HH:MM
	RequiredCount int    `json:"required_count"` // 所需人数（必须为正）
}

// Validate 校验需求行的必填字段
func (d *ShiftDemand) Validate() error {
	if d.Day == "" {
		return fmt.Errorf("需求行缺少日期")
	}
	if d.ShiftType == "" {
		return fmt.Errorf("需求行缺少班次类型: 日期=%s", d.Day)
	}
	if d.RequiredSkill == "" {
		return fmt.Errorf("需求行缺少技能: 日期=%s 班次=%s", d.Day, d.ShiftType)
	}
	if d.RequiredCount <= 0 {
		return fmt.Errorf("需求人数必须为正: 日期=%s 班次=%s 人数=%d", d.Day, d.ShiftType, d.RequiredCount)
	}
	if _, err := parseClock(d.StartTime); err != nil {
		return fmt.Errorf("开始时间格式无效 %q: %w", d.StartTime, err)
	}
	if _, err := parseClock(d.EndTime); err != nil {
		return fmt.Errorf("结束时间格式无效 %q: %w", d.EndTime, err)
	}
	return nil
}

// DurationHours 计算班次时长（小时）
// 结束时间不晚于开始时间时视为跨夜班次，补足 24 小时
func (d *ShiftDemand) DurationHours() (float64, error) {
	start, err := parseClock(d.StartTime)
	if err != nil {
		return 0, fmt.Errorf("开始时间格式无效 %q: %w", d.StartTime, err)
	}
	end, err := parseClock(d.EndTime)
	if err != nil {
		return 0, fmt.Errorf("结束时间格式无效 %q: %w", d.EndTime, err)
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return end.Sub(start).Hours(), nil
}

// parseClock 解析 HH:MM 格式的时刻
func parseClock(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}
