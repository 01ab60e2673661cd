package sqliterepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/attendance"
	"github.com/shulehq/shule/core/user"
)

type attendanceRepository struct {
	exec core.DBExecutor
}

var (
	_ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check
	_ user.AttendanceLedger = (*attendanceRepository)(nil)
)

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{exec: exec}
}

func (repo attendanceRepository) RecordExists(ctx context.Context, courseID, studentID int, date string, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM attendance WHERE course_id = ? AND student_id = ? AND date = ?)`,
		courseID, studentID, date).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking attendance record")
	}
	return exists, nil
}

func (repo attendanceRepository) CreateRecord(ctx context.Context, courseID, studentID int, date string, present bool, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO attendance (course_id, student_id, date, present) VALUES (?, ?, ?, ?)`,
		courseID, studentID, date, present)
	if isUniqueViolation(err, "attendance.course_id") {
		return attendance.ErrAlreadyMarked
	}
	return errors.Wrap(err, "inserting attendance record")
}

func (repo attendanceRepository) GetRecord(ctx context.Context, id int, exec ...core.DBExecutor) (attendance.Record, error) {
	var rec attendance.Record
	q := `SELECT id, course_id, student_id, date, present, created_at FROM attendance WHERE id = ?`
	if err := getExec(repo.exec, exec).GetContext(ctx, &rec, q, id); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "finding attendance record")
	}
	return rec, nil
}

func (repo attendanceRepository) UpdatePresent(ctx context.Context, id int, present bool, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE attendance SET present = ? WHERE id = ?`, present, id)
	return errors.Wrap(err, "updating attendance record")
}

func (repo attendanceRepository) DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM attendance WHERE id = ?`, id)
	return errors.Wrap(err, "deleting attendance record")
}

func (repo attendanceRepository) QueryByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]attendance.Record, error) {
	recs := make([]attendance.Record, 0)
	q := `
SELECT a.id, a.course_id, a.student_id, a.date, a.present, a.created_at,
       c.title AS course_title
FROM attendance a
JOIN courses c ON c.id = a.course_id
WHERE a.student_id = ?
ORDER BY a.date DESC`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &recs, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student attendance")
	}
	return recs, nil
}

func (repo attendanceRepository) QueryByCourse(ctx context.Context, courseID int, exec ...core.DBExecutor) ([]attendance.Record, error) {
	recs := make([]attendance.Record, 0)
	q := `SELECT id, course_id, student_id, date, present, created_at FROM attendance WHERE course_id = ? ORDER BY date DESC, student_id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &recs, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course attendance")
	}
	return recs, nil
}

func (repo attendanceRepository) DeleteAttendanceByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`DELETE FROM attendance WHERE student_id = ?`, studentID)
	return errors.Wrap(err, "deleting student attendance")
}
