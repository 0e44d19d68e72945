// Package repository 提供花名册运行结果的数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anpai/anpai/internal/database"
	"github.com/anpai/anpai/pkg/engine"
	"github.com/anpai/anpai/pkg/model"
)

// Diagnostic 运行诊断记录
type Diagnostic struct {
	Kind    string `json:"kind"` // violation/double_booking
	Message string `json:"message"`
}

// RunRecord 一次优化运行的持久化形态
type RunRecord struct {
	ID          uuid.UUID     `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	Status      string        `json:"status"`
	Objective   float64       `json:"objective"`
	Duration    time.Duration `json:"duration"`
	Employees   int           `json:"employees"`
	Days        int           `json:"days"`
	Roster      model.Roster  `json:"roster,omitempty"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty"`
}

// RecordFromResult 把引擎结果转换为持久化记录
func RecordFromResult(res *engine.Result) *RunRecord {
	rec := &RunRecord{
		ID:        res.RunID,
		CreatedAt: time.Now(),
		Status:    string(res.Report.Status),
		Objective: res.Report.Objective,
		Duration:  res.Duration,
		Employees: res.Statistics.Employees,
		Days:      res.Statistics.Days,
		Roster:    res.Roster,
	}
	for _, v := range res.Report.Violations {
		rec.Diagnostics = append(rec.Diagnostics, Diagnostic{
			Kind:    "violation",
			Message: fmt.Sprintf("%s: 取值 %.1f %s 界 %.1f", v.Constraint, v.Value, v.Sense, v.Bound),
		})
	}
	for _, w := range res.Report.Warnings {
		rec.Diagnostics = append(rec.Diagnostics, Diagnostic{
			Kind:    "double_booking",
			Message: fmt.Sprintf("员工 %s 在 %s 被指派 %v", w.Employee, w.Day, w.ShiftTypes),
		})
	}
	return rec
}

// RosterRepository 花名册运行仓储
type RosterRepository struct {
	db *database.DB
}

// NewRosterRepository 创建花名册仓储
func NewRosterRepository(db *database.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// SaveRun 保存一次运行及其条目与诊断
func (r *RosterRepository) SaveRun(ctx context.Context, rec *RunRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO roster_runs (id, created_at, status, objective, duration_ms, employees, days, entry_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.CreatedAt, rec.Status, rec.Objective,
		rec.Duration.Milliseconds(), rec.Employees, rec.Days, len(rec.Roster),
	)
	if err != nil {
		return fmt.Errorf("写入运行记录失败: %w", err)
	}

	for _, e := range rec.Roster {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roster_entries (run_id, employee, day, shift_type)
			VALUES ($1, $2, $3, $4)`,
			rec.ID, e.Employee, e.Day, e.ShiftType,
		); err != nil {
			return fmt.Errorf("写入花名册条目失败: %w", err)
		}
	}

	for _, d := range rec.Diagnostics {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roster_diagnostics (run_id, kind, message)
			VALUES ($1, $2, $3)`,
			rec.ID, d.Kind, d.Message,
		); err != nil {
			return fmt.Errorf("写入诊断记录失败: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun 按 ID 读取一次运行
func (r *RosterRepository) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	rec := &RunRecord{}
	var durationMS int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, status, objective, duration_ms, employees, days
		FROM roster_runs WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.Status, &rec.Objective, &durationMS, &rec.Employees, &rec.Days)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("运行记录不存在: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("读取运行记录失败: %w", err)
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := r.db.QueryContext(ctx, `
		SELECT employee, day, shift_type FROM roster_entries WHERE run_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("读取花名册条目失败: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.Employee, &e.Day, &e.ShiftType); err != nil {
			return nil, fmt.Errorf("扫描花名册条目失败: %w", err)
		}
		rec.Roster = append(rec.Roster, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历花名册条目失败: %w", err)
	}
	return rec, nil
}

// ListRuns 按时间倒序列出最近的运行
func (r *RosterRepository) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, status, objective, duration_ms, employees, days
		FROM roster_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("列出运行记录失败: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec := &RunRecord{}
		var durationMS int64
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Status, &rec.Objective,
			&durationMS, &rec.Employees, &rec.Days); err != nil {
			return nil, fmt.Errorf("扫描运行记录失败: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
