// Package exportsvc builds spreadsheet exports of the ledgers.
package exportsvc

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/shulehq/shule/core/attendance"
)

const attendanceSheet = "Attendance"

// WriteAttendanceWorkbook writes the course's attendance records as an .xlsx
// workbook, one row per mark.
func WriteAttendanceWorkbook(w io.Writer, courseTitle string, records []attendance.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	_ = f.SetCellStr(attendanceSheet, "A1", fmt.Sprintf("Attendance - %s", courseTitle))
	header := []string{"Student ID", "Date", "Present"}
	for col, h := range header {
		cell := fmt.Sprintf("%s3", colName(col+1))
		if err := f.SetCellStr(attendanceSheet, cell, h); err != nil {
			return errors.Wrapf(err, "setting cell %s", cell)
		}
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(attendanceSheet, "A3", "C3", bold)
	}

	for i, rec := range records {
		row := i + 4
		present := "absent"
		if rec.Present {
			present = "present"
		}
		_ = f.SetCellInt(attendanceSheet, fmt.Sprintf("A%d", row), rec.StudentID)
		_ = f.SetCellStr(attendanceSheet, fmt.Sprintf("B%d", row), rec.Date)
		_ = f.SetCellStr(attendanceSheet, fmt.Sprintf("C%d", row), present)
	}
	_ = f.SetColWidth(attendanceSheet, "A", "C", 14)

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}
