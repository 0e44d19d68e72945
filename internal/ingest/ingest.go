// Package ingest 读取表格输入并归一化为类型化记录
// 引擎本身不接触文件，这里是它上游的数据搬运层
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/anpai/anpai/pkg/errors"
	"github.com/anpai/anpai/pkg/logger"
	"github.com/anpai/anpai/pkg/model"
)

// 需求表必需列
var demandColumns = []string{
	"Day", "Shift Type", "Skill", "Start Time", "End Time", "Number of Staff Required",
}

// 用工规则表必需列
var staffColumns = []string{
	"Name", "Skill", "Max Shifts Per Day", "Minimum Hours Per Roster",
	"Max Days In A Row", "Min Days Off In A Row", "Min Hours Between Shifts",
}

// ReadShiftDemands 读取需求表
// 人数为空或非正的行在这里被过滤，不会进入引擎
func ReadShiftDemands(r io.Reader) ([]model.ShiftDemand, error) {
	rows, index, err := readTable(r, demandColumns)
	if err != nil {
		return nil, err
	}

	var demands []model.ShiftDemand
	for i, row := range rows {
		raw := strings.TrimSpace(row[index["Number of Staff Required"]])
		if raw == "" {
			continue
		}
		count, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Validation("需求表第 %d 行人数无法解析: %q", i+2, raw)
		}
		if count <= 0 {
			continue
		}
		demands = append(demands, model.ShiftDemand{
			Day:           strings.TrimSpace(row[index["Day"]]),
			ShiftType:     strings.TrimSpace(row[index["Shift Type"]]),
			RequiredSkill: strings.TrimSpace(row[index["Skill"]]),
			StartTime:     strings.TrimSpace(row[index["Start Time"]]),
			EndTime:       strings.TrimSpace(row[index["End Time"]]),
			RequiredCount: count,
		})
	}
	logger.Info().Int("rows", len(demands)).Msg("需求表读取完成")
	return demands, nil
}

// ReadStaffingRules 读取用工规则表
// 同名多行表示同一员工的多项技能，限额以首行为准
func ReadStaffingRules(r io.Reader) ([]model.Employee, error) {
	rows, index, err := readTable(r, staffColumns)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*model.Employee)
	var order []string
	for i, row := range rows {
		name := strings.TrimSpace(row[index["Name"]])
		if name == "" {
			return nil, errors.Validation("用工规则表第 %d 行缺少姓名", i+2)
		}
		skill := strings.TrimSpace(row[index["Skill"]])

		emp, ok := byName[name]
		if !ok {
			maxShifts, err := intCell(row[index["Max Shifts Per Day"]], 1)
			if err != nil {
				return nil, errors.Validation("用工规则表第 %d 行每日班次上限无法解析", i+2)
			}
			minHours, err := floatCell(row[index["Minimum Hours Per Roster"]], 0)
			if err != nil {
				return nil, errors.Validation("用工规则表第 %d 行最少工时无法解析", i+2)
			}
			maxRow, err := intCell(row[index["Max Days In A Row"]], 0)
			if err != nil {
				return nil, errors.Validation("用工规则表第 %d 行最多连续天数无法解析", i+2)
			}
			minOff, err := intCell(row[index["Min Days Off In A Row"]], 0)
			if err != nil {
				return nil, errors.Validation("用工规则表第 %d 行最少连休天数无法解析", i+2)
			}
			minRest, err := floatCell(row[index["Min Hours Between Shifts"]], 0)
			if err != nil {
				return nil, errors.Validation("用工规则表第 %d 行班间休息无法解析", i+2)
			}
			emp = &model.Employee{
				Name:               name,
				MaxShiftsPerDay:    maxShifts,
				MinHoursPerHorizon: minHours,
				MaxConsecutiveDays: maxRow,
				MinConsecutiveOff:  minOff,
				MinRestHours:       minRest,
			}
			byName[name] = emp
			order = append(order, name)
		}
		if skill != "" && !emp.HasSkill(skill) {
			emp.Skills = append(emp.Skills, skill)
		}
	}

	employees := make([]model.Employee, 0, len(order))
	for _, name := range order {
		employees = append(employees, *byName[name])
	}
	logger.Info().Int("employees", len(employees)).Msg("用工规则表读取完成")
	return employees, nil
}

// LoadDemandFile 从文件读取需求表
func LoadDemandFile(path string) ([]model.ShiftDemand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "打开需求表失败", err)
	}
	defer f.Close()
	return ReadShiftDemands(f)
}

// LoadStaffFile 从文件读取用工规则表
func LoadStaffFile(path string) ([]model.Employee, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "打开用工规则表失败", err)
	}
	defer f.Close()
	return ReadStaffingRules(f)
}

// readTable 读取 CSV 并校验必需列，返回数据行与列下标
func readTable(r io.Reader, required []string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeInvalidInput, "CSV 解析失败", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.Validation("表格为空, 缺少表头")
	}

	index := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, nil, errors.Validation("缺少必需列: %s", col)
		}
	}
	return records[1:], index, nil
}

// intCell 解析整数单元格，空值取默认
func intCell(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// floatCell 解析浮点单元格，空值取默认
func floatCell(s string, def float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}
