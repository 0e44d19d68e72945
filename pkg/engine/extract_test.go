package engine

import (
	"testing"

	"github.com/anpai/anpai/pkg/logger"
	"github.com/anpai/anpai/pkg/milp"
	"github.com/anpai/anpai/pkg/model"
)

// TestExtract_DoubleBookingFlagged 手工构造一个同日双指派的解，
// 约束族正常时不会出现，防御性检查必须把它标出来而不是丢弃
func TestExtract_DoubleBookingFlagged(t *testing.T) {
	demands := []model.ShiftDemand{
		demand("Monday", "AM", "CG", "08:00", "16:00", 1),
		demand("Monday", "PM", "CG", "14:00", "22:00", 1),
	}
	employees := []model.Employee{caregiver("Alice", 0)}

	plan, err := BuildModel(demands, employees, Options{})
	if err != nil {
		t.Fatalf("BuildModel error = %v", err)
	}

	// 绕过求解器：两个变量同时取 1
	values := make([]float64, plan.Model.NumVariables())
	values[plan.Vars[VarKey{"Alice", "Monday", "AM"}].Index] = 1
	values[plan.Vars[VarKey{"Alice", "Monday", "PM"}].Index] = 1
	out := &milp.Outcome{Status: milp.StatusOptimal, Values: values, Objective: 2}

	roster, report := extractRoster(plan, out, logger.NewRunLogger())

	if len(report.Warnings) != 1 {
		t.Fatalf("告警数 = %d, want 1", len(report.Warnings))
	}
	w := report.Warnings[0]
	if w.Employee != "Alice" || w.Day != "Monday" || len(w.ShiftTypes) != 2 {
		t.Errorf("告警内容 = %+v", w)
	}
	// 条目保留，不静默丢弃
	if len(roster) != 2 {
		t.Errorf("花名册条目数 = %d, want 2", len(roster))
	}
}

func TestExtract_InfeasibleDiagnostics(t *testing.T) {
	demands := []model.ShiftDemand{demand("Monday", "AM", "CG", "08:00", "16:00", 2)}
	employees := []model.Employee{caregiver("Alice", 8)}

	plan, err := BuildModel(demands, employees, Options{})
	if err != nil {
		t.Fatalf("BuildModel error = %v", err)
	}

	// 求解器未给出松弛取值：按全零评估
	out := &milp.Outcome{Status: milp.StatusInfeasible}
	roster, report := extractRoster(plan, out, logger.NewRunLogger())

	if roster != nil {
		t.Error("非最优状态不应产出花名册")
	}
	if report.Status != milp.StatusInfeasible {
		t.Errorf("Status = %s, want infeasible", report.Status)
	}
	// 全零取值下覆盖与最少工时约束都被违反
	if len(report.Violations) != 2 {
		t.Fatalf("违反约束数 = %d, want 2: %v", len(report.Violations), report.Violations)
	}
	if len(report.ActiveVariables) != 0 {
		t.Errorf("无取值时 ActiveVariables 应为空: %v", report.ActiveVariables)
	}
}

func TestExtract_BestEffortValues(t *testing.T) {
	demands := []model.ShiftDemand{demand("Monday", "AM", "CG", "08:00", "16:00", 2)}
	employees := []model.Employee{caregiver("Alice", 0)}

	plan, err := BuildModel(demands, employees, Options{})
	if err != nil {
		t.Fatalf("BuildModel error = %v", err)
	}

	// 求解器给出了松弛取值：取 1 的变量要列入诊断
	values := make([]float64, plan.Model.NumVariables())
	values[plan.Vars[VarKey{"Alice", "Monday", "AM"}].Index] = 1
	out := &milp.Outcome{Status: milp.StatusInfeasible, Values: values}

	_, report := extractRoster(plan, out, logger.NewRunLogger())

	if len(report.ActiveVariables) != 1 || report.ActiveVariables[0] != "shift_Alice_Monday_AM" {
		t.Errorf("ActiveVariables = %v, want [shift_Alice_Monday_AM]", report.ActiveVariables)
	}
	// 覆盖约束在该取值下仍差 1 人
	found := false
	for _, v := range report.Violations {
		if v.Constraint == "coverage_Monday_AM_CG" && v.Slack == -1 {
			found = true
		}
	}
	if !found {
		t.Errorf("违反清单 = %v, 缺少松弛为 -1 的覆盖约束", report.Violations)
	}
}
