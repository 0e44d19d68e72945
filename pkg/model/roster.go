// Package model 定义排班优化引擎的核心数据模型
package model

// RosterEntry 花名册条目：某员工在某天被指派某个班次
type RosterEntry struct {
	Employee  string `json:"employee"`
	Day       string `json:"day"`
	ShiftType string `json:"shift_type"`
}

// Roster 一次优化求解产出的完整花名册
// 顺序无意义；对任意 (员工, 日期) 组合至多应有一条记录
type Roster []RosterEntry

// CountFor 统计某 (日期, 班次) 的指派人数
func (r Roster) CountFor(day, shiftType string) int {
	n := 0
	for _, e := range r {
		if e.Day == day && e.ShiftType == shiftType {
			n++
		}
	}
	return n
}

// EntriesFor 返回某员工的全部指派
func (r Roster) EntriesFor(employee string) []RosterEntry {
	var out []RosterEntry
	for _, e := range r {
		if e.Employee == employee {
			out = append(out, e)
		}
	}
	return out
}

// ShiftsOn 返回某员工某天被指派的班次类型
func (r Roster) ShiftsOn(employee, day string) []string {
	var out []string
	for _, e := range r {
		if e.Employee == employee && e.Day == day {
			out = append(out, e.ShiftType)
		}
	}
	return out
}
