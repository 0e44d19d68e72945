package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/anpai/anpai/pkg/model"
)

func TestWriteGrid(t *testing.T) {
	roster := model.Roster{
		{Employee: "Alice", Day: "Monday", ShiftType: "AM"},
		{Employee: "Bob", Day: "Tuesday", ShiftType: "PM"},
	}
	employees := []model.Employee{
		{Name: "Alice", MaxShiftsPerDay: 1},
		{Name: "Bob", MaxShiftsPerDay: 1},
		{Name: "Carol", MaxShiftsPerDay: 1}, // 未指派的员工也要有行
	}
	days := []string{"Monday", "Tuesday"}

	var buf bytes.Buffer
	if err := WriteGrid(&buf, roster, employees, days); err != nil {
		t.Fatalf("WriteGrid error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("行数 = %d, want 4（表头 + 3 名员工）", len(lines))
	}
	if lines[0] != "Employee,Monday,Tuesday" {
		t.Errorf("表头 = %q", lines[0])
	}
	if lines[1] != "Alice,AM," {
		t.Errorf("Alice 行 = %q, want %q", lines[1], "Alice,AM,")
	}
	if lines[2] != "Bob,,PM" {
		t.Errorf("Bob 行 = %q, want %q", lines[2], "Bob,,PM")
	}
	if lines[3] != "Carol,," {
		t.Errorf("Carol 行 = %q, want %q", lines[3], "Carol,,")
	}
}

func TestWriteGrid_DoubleBookingJoined(t *testing.T) {
	roster := model.Roster{
		{Employee: "Alice", Day: "Monday", ShiftType: "AM"},
		{Employee: "Alice", Day: "Monday", ShiftType: "PM"},
	}
	employees := []model.Employee{{Name: "Alice", MaxShiftsPerDay: 1}}

	var buf bytes.Buffer
	if err := WriteGrid(&buf, roster, employees, []string{"Monday"}); err != nil {
		t.Fatalf("WriteGrid error = %v", err)
	}
	if !strings.Contains(buf.String(), "AM/PM") {
		t.Errorf("重复指派应以 / 连接展示: %q", buf.String())
	}
}
