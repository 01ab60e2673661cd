package exportsvc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shulehq/shule/core/attendance"
)

func TestWriteAttendanceWorkbook(t *testing.T) {
	records := []attendance.Record{
		{ID: 1, CourseID: 7, StudentID: 11, Date: "2026-03-02", Present: true},
		{ID: 2, CourseID: 7, StudentID: 12, Date: "2026-03-02", Present: false},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceWorkbook(&buf, "Mathematics", records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(attendanceSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Attendance - Mathematics", title)

	header, err := f.GetCellValue(attendanceSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Student ID", header)

	present, err := f.GetCellValue(attendanceSheet, "C4")
	require.NoError(t, err)
	assert.Equal(t, "present", present)

	absent, err := f.GetCellValue(attendanceSheet, "C5")
	require.NoError(t, err)
	assert.Equal(t, "absent", absent)
}

func TestWriteAttendanceWorkbook_empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceWorkbook(&buf, "Empty", nil))
	assert.NotZero(t, buf.Len())
}
