// Package render 把花名册透视成员工 x 日期的表格输出
package render

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/anpai/anpai/pkg/errors"
	"github.com/anpai/anpai/pkg/model"
)

// WriteGrid 输出员工 x 日期的透视表
// 每名员工一行、每个日期一列；未指派的格子留空，
// 同日多个班次（重复指派告警的场合）用 / 连接后原样展示
func WriteGrid(w io.Writer, roster model.Roster, employees []model.Employee, days []string) error {
	cw := csv.NewWriter(w)

	header := append([]string{"Employee"}, days...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(errors.CodeInternal, "写入表头失败", err)
	}

	for _, emp := range employees {
		row := make([]string, 0, len(days)+1)
		row = append(row, emp.Name)
		for _, day := range days {
			row = append(row, strings.Join(roster.ShiftsOn(emp.Name, day), "/"))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(errors.CodeInternal, "写入数据行失败", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.CodeInternal, "输出透视表失败", err)
	}
	return nil
}

// WriteGridFile 输出透视表到文件
func WriteGridFile(path string, roster model.Roster, employees []model.Employee, days []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, "创建输出文件失败", err)
	}
	defer f.Close()
	return WriteGrid(f, roster, employees, days)
}
