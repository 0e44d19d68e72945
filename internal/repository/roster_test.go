package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anpai/anpai/pkg/engine"
	"github.com/anpai/anpai/pkg/milp"
	"github.com/anpai/anpai/pkg/model"
)

func TestRecordFromResultOptimal(t *testing.T) {
	id := uuid.New()
	res := &engine.Result{
		RunID: id,
		Roster: model.Roster{
			{Employee: "Alice", Day: "Monday", ShiftType: "AM"},
			{Employee: "Bob", Day: "Monday", ShiftType: "PM"},
		},
		Report: &engine.Report{
			Status:    milp.StatusOptimal,
			Objective: 2,
		},
		Statistics: engine.Statistics{Employees: 2, Days: 1},
		Duration:   150 * time.Millisecond,
	}

	rec := RecordFromResult(res)
	if rec.ID != id {
		t.Errorf("ID = %s, 期望 %s", rec.ID, id)
	}
	if rec.Status != string(milp.StatusOptimal) {
		t.Errorf("Status = %s", rec.Status)
	}
	if rec.Objective != 2 {
		t.Errorf("Objective = %v, 期望 2", rec.Objective)
	}
	if len(rec.Roster) != 2 {
		t.Errorf("花名册条目数 = %d, 期望 2", len(rec.Roster))
	}
	if len(rec.Diagnostics) != 0 {
		t.Errorf("最优结果不应有诊断, 实际 %d 条", len(rec.Diagnostics))
	}
}

func TestRecordFromResultDiagnostics(t *testing.T) {
	res := &engine.Result{
		RunID: uuid.New(),
		Report: &engine.Report{
			Status: milp.StatusInfeasible,
			Violations: []milp.ConstraintViolation{
				{Constraint: "coverage_Monday_AM_CG", Sense: milp.SenseEQ, Value: 0, Bound: 2, Slack: -2},
			},
			Warnings: []engine.DoubleBooking{
				{Employee: "Alice", Day: "Monday", ShiftTypes: []string{"AM", "PM"}},
			},
		},
	}

	rec := RecordFromResult(res)
	if len(rec.Diagnostics) != 2 {
		t.Fatalf("诊断条数 = %d, 期望 2", len(rec.Diagnostics))
	}
	if rec.Diagnostics[0].Kind != "violation" {
		t.Errorf("第一条 Kind = %s, 期望 violation", rec.Diagnostics[0].Kind)
	}
	if !strings.Contains(rec.Diagnostics[0].Message, "coverage_Monday_AM_CG") {
		t.Errorf("违反诊断缺少约束名: %s", rec.Diagnostics[0].Message)
	}
	if rec.Diagnostics[1].Kind != "double_booking" {
		t.Errorf("第二条 Kind = %s, 期望 double_booking", rec.Diagnostics[1].Kind)
	}
	if !strings.Contains(rec.Diagnostics[1].Message, "Alice") {
		t.Errorf("重复指派诊断缺少员工名: %s", rec.Diagnostics[1].Message)
	}
}
