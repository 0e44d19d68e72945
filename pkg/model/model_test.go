package model

import "testing"

func TestShiftDemand_DurationHours(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"白班", "08:00", "16:00", 8},
		{"半小时粒度", "09:30", "18:00", 8.5},
		{"跨夜班", "22:00", "06:00", 8},
		{"跨夜到凌晨", "23:00", "01:30", 2.5},
		{"起止相同视为全天", "08:00", "08:00", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ShiftDemand{Day: "Monday", ShiftType: "AM", RequiredSkill: "CG",
				StartTime: tt.start, EndTime: tt.end, RequiredCount: 1}
			got, err := d.DurationHours()
			if err != nil {
				t.Fatalf("DurationHours() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DurationHours() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestShiftDemand_DurationHours_Invalid(t *testing.T) {
	d := ShiftDemand{Day: "Monday", ShiftType: "AM", StartTime: "25:99", EndTime: "16:00"}
	if _, err := d.DurationHours(); err == nil {
		t.Error("非法时间格式应返回错误")
	}
}

func TestShiftDemand_Validate(t *testing.T) {
	valid := ShiftDemand{Day: "Monday", ShiftType: "AM", RequiredSkill: "CG",
		StartTime: "08:00", EndTime: "16:00", RequiredCount: 2}
	if err := valid.Validate(); err != nil {
		t.Errorf("合法需求行不应报错: %v", err)
	}

	tests := []struct {
		name string
		d    ShiftDemand
	}{
		{"缺少日期", ShiftDemand{ShiftType: "AM", RequiredSkill: "CG", StartTime: "08:00", EndTime: "16:00", RequiredCount: 1}},
		{"缺少班次", ShiftDemand{Day: "Monday", RequiredSkill: "CG", StartTime: "08:00", EndTime: "16:00", RequiredCount: 1}},
		{"缺少技能", ShiftDemand{Day: "Monday", ShiftType: "AM", StartTime: "08:00", EndTime: "16:00", RequiredCount: 1}},
		{"人数为零", ShiftDemand{Day: "Monday", ShiftType: "AM", RequiredSkill: "CG", StartTime: "08:00", EndTime: "16:00", RequiredCount: 0}},
		{"人数为负", ShiftDemand{Day: "Monday", ShiftType: "AM", RequiredSkill: "CG", StartTime: "08:00", EndTime: "16:00", RequiredCount: -3}},
		{"时间非法", ShiftDemand{Day: "Monday", ShiftType: "AM", RequiredSkill: "CG", StartTime: "8am", EndTime: "16:00", RequiredCount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.d.Validate(); err == nil {
				t.Error("应返回校验错误")
			}
		})
	}
}

func TestEmployee_HasSkill(t *testing.T) {
	e := Employee{Name: "Alice", Skills: []string{"CG", "RN"}, MaxShiftsPerDay: 1}

	if !e.HasSkill("CG") {
		t.Error("Alice 应具备 CG 技能")
	}
	if !e.HasSkill("RN") {
		t.Error("Alice 应具备 RN 技能")
	}
	if e.HasSkill("PT") {
		t.Error("Alice 不应具备 PT 技能")
	}
}

func TestEmployee_Validate(t *testing.T) {
	valid := Employee{Name: "Alice", Skills: []string{"CG"}, MaxShiftsPerDay: 1, MinHoursPerHorizon: 40}
	if err := valid.Validate(); err != nil {
		t.Errorf("合法员工记录不应报错: %v", err)
	}

	noName := Employee{MaxShiftsPerDay: 1}
	if err := noName.Validate(); err == nil {
		t.Error("缺少姓名应报错")
	}

	zeroShifts := Employee{Name: "Bob", MaxShiftsPerDay: 0}
	if err := zeroShifts.Validate(); err == nil {
		t.Error("每日班次上限为 0 应报错")
	}

	negHours := Employee{Name: "Bob", MaxShiftsPerDay: 1, MinHoursPerHorizon: -1}
	if err := negHours.Validate(); err == nil {
		t.Error("最少工时为负应报错")
	}
}

func TestRoster_Helpers(t *testing.T) {
	r := Roster{
		{Employee: "Alice", Day: "Monday", ShiftType: "AM"},
		{Employee: "Alice", Day: "Tuesday", ShiftType: "PM"},
		{Employee: "Bob", Day: "Monday", ShiftType: "AM"},
	}

	if got := r.CountFor("Monday", "AM"); got != 2 {
		t.Errorf("CountFor(Monday, AM) = %d, want 2", got)
	}
	if got := r.CountFor("Tuesday", "AM"); got != 0 {
		t.Errorf("CountFor(Tuesday, AM) = %d, want 0", got)
	}
	if got := len(r.EntriesFor("Alice")); got != 2 {
		t.Errorf("EntriesFor(Alice) 返回 %d 条, want 2", got)
	}
	shifts := r.ShiftsOn("Alice", "Monday")
	if len(shifts) != 1 || shifts[0] != "AM" {
		t.Errorf("ShiftsOn(Alice, Monday) = %v, want [AM]", shifts)
	}
}
