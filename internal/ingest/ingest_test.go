package ingest

import (
	"strings"
	"testing"

	"github.com/anpai/anpai/pkg/errors"
)

const demandCSV = `Day,Shift Type,Skill,Start Time,End Time,Number of Staff Required
Monday,AM,CG,08:00,16:00,2
Monday,PM,CG,14:00,22:00,0
Tuesday,AM,RN,08:00,16:00,
Tuesday,Night,CG,22:00,06:00,1
`

func TestReadShiftDemands(t *testing.T) {
	demands, err := ReadShiftDemands(strings.NewReader(demandCSV))
	if err != nil {
		t.Fatalf("ReadShiftDemands error = %v", err)
	}

	// 人数为 0 和为空的行被过滤
	if len(demands) != 2 {
		t.Fatalf("需求行数 = %d, want 2", len(demands))
	}
	first := demands[0]
	if first.Day != "Monday" || first.ShiftType != "AM" || first.RequiredSkill != "CG" || first.RequiredCount != 2 {
		t.Errorf("首行 = %+v", first)
	}
	night := demands[1]
	if night.ShiftType != "Night" || night.StartTime != "22:00" || night.EndTime != "06:00" {
		t.Errorf("夜班行 = %+v", night)
	}
}

func TestReadShiftDemands_MissingColumn(t *testing.T) {
	csv := "Day,Shift Type,Skill,Start Time,End Time\nMonday,AM,CG,08:00,16:00\n"
	_, err := ReadShiftDemands(strings.NewReader(csv))
	if !errors.IsValidation(err) {
		t.Fatalf("缺列应返回校验错误, 实际 %v", err)
	}
	if !strings.Contains(err.Error(), "Number of Staff Required") {
		t.Errorf("错误信息应点名缺失列: %v", err)
	}
}

func TestReadShiftDemands_BadCount(t *testing.T) {
	csv := "Day,Shift Type,Skill,Start Time,End Time,Number of Staff Required\nMonday,AM,CG,08:00,16:00,two\n"
	if _, err := ReadShiftDemands(strings.NewReader(csv)); !errors.IsValidation(err) {
		t.Errorf("非数字人数应返回校验错误, 实际 %v", err)
	}
}

const staffCSV = `Name,Skill,Max Shifts Per Day,Minimum Hours Per Roster,Max Days In A Row,Min Days Off In A Row,Min Hours Between Shifts
Alice,CG,1,40,5,2,11
Alice,RN,1,40,5,2,11
Bob,CG,,,,,
`

func TestReadStaffingRules(t *testing.T) {
	employees, err := ReadStaffingRules(strings.NewReader(staffCSV))
	if err != nil {
		t.Fatalf("ReadStaffingRules error = %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("员工数 = %d, want 2（同名行合并）", len(employees))
	}

	alice := employees[0]
	if alice.Name != "Alice" {
		t.Fatalf("首位员工 = %s, want Alice", alice.Name)
	}
	if !alice.HasSkill("CG") || !alice.HasSkill("RN") {
		t.Errorf("Alice 技能 = %v, want [CG RN]", alice.Skills)
	}
	if alice.MinHoursPerHorizon != 40 || alice.MaxConsecutiveDays != 5 || alice.MinRestHours != 11 {
		t.Errorf("Alice 限额 = %+v", alice)
	}

	// 空单元格取默认：每日班次上限 1，其余为 0
	bob := employees[1]
	if bob.MaxShiftsPerDay != 1 {
		t.Errorf("Bob 每日班次上限 = %d, want 1", bob.MaxShiftsPerDay)
	}
	if bob.MinHoursPerHorizon != 0 || bob.MaxConsecutiveDays != 0 {
		t.Errorf("Bob 限额 = %+v", bob)
	}
}

func TestReadStaffingRules_MissingColumn(t *testing.T) {
	csv := "Name,Skill\nAlice,CG\n"
	if _, err := ReadStaffingRules(strings.NewReader(csv)); !errors.IsValidation(err) {
		t.Errorf("缺列应返回校验错误, 实际 %v", err)
	}
}

func TestReadStaffingRules_MissingName(t *testing.T) {
	csv := staffHeader() + "\n,CG,1,0,0,0,0\n"
	if _, err := ReadStaffingRules(strings.NewReader(csv)); !errors.IsValidation(err) {
		t.Errorf("缺姓名应返回校验错误, 实际 %v", err)
	}
}

func staffHeader() string {
	return "Name,Skill,Max Shifts Per Day,Minimum Hours Per Roster,Max Days In A Row,Min Days Off In A Row,Min Hours Between Shifts"
}
