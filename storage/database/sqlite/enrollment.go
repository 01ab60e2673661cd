package sqliterepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/enrollment"
	"github.com/shulehq/shule/core/user"
)

type enrollmentRepository struct {
	exec core.DBExecutor
}

var (
	_ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check
	_ user.EnrollmentLedger = (*enrollmentRepository)(nil)
)

func NewEnrollmentRepository(exec core.DBExecutor) *enrollmentRepository {
	return &enrollmentRepository{exec: exec}
}

// Students

func (repo enrollmentRepository) StudentEnrollmentExists(ctx context.Context, studentID, courseID int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM student_enrollments WHERE student_id = ? AND course_id = ?)`,
		studentID, courseID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking student enrollment")
	}
	return exists, nil
}

func (repo enrollmentRepository) CreateStudentEnrollment(ctx context.Context, studentID, courseID int, status string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO student_enrollments (student_id, course_id, status) VALUES (?, ?, ?)`,
		studentID, courseID, status)
	if isUniqueViolation(err, "student_enrollments.student_id") {
		return enrollment.ErrAlreadyEnrolled
	}
	return errors.Wrap(err, "inserting student enrollment")
}

func (repo enrollmentRepository) QueryStudentEnrollments(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]enrollment.StudentEnrollment, error) {
	enrs := make([]enrollment.StudentEnrollment, 0)
	q := `
SELECT se.id, se.student_id, se.course_id, se.status, se.created_at,
       c.title, c.description
FROM student_enrollments se
JOIN courses c ON c.id = se.course_id
WHERE se.student_id = ?
ORDER BY se.id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &enrs, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student enrollments")
	}
	return enrs, nil
}

func (repo enrollmentRepository) DeleteStudentEnrollment(ctx context.Context, studentID, courseID int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`DELETE FROM student_enrollments WHERE student_id = ? AND course_id = ?`, studentID, courseID)
	return errors.Wrap(err, "deleting student enrollment")
}

func (repo enrollmentRepository) DeleteStudentEnrollmentsByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`DELETE FROM student_enrollments WHERE student_id = ?`, studentID)
	return errors.Wrap(err, "deleting student enrollments")
}

func (repo enrollmentRepository) QueryApprovedCourseStudents(ctx context.Context, courseID int, exec ...core.DBExecutor) ([]enrollment.CourseMember, error) {
	members := make([]enrollment.CourseMember, 0)
	q := `
SELECT u.id, u.name, u.email, se.status AS status
FROM student_enrollments se
JOIN users u ON u.id = se.student_id
WHERE se.course_id = ? AND se.status = 'approved'
ORDER BY u.name`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &members, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course students")
	}
	return members, nil
}

func (repo enrollmentRepository) QueryCourseMembers(ctx context.Context, courseID int, exec ...core.DBExecutor) ([]enrollment.CourseMember, error) {
	members := make([]enrollment.CourseMember, 0)
	// sqlite rejects ORDER BY on prefixed columns of a compound select,
	// so the union is ordered from a wrapping select
	q := `
SELECT * FROM (
	SELECT u.id, u.name, u.email, u.role, se.status AS status, 'student' AS enrollment_type
	FROM student_enrollments se
	JOIN users u ON u.id = se.student_id
	WHERE se.course_id = ?
	UNION ALL
	SELECT u.id, u.name, u.email, u.role, '' AS status, 'teacher' AS enrollment_type
	FROM teacher_enrollments te
	JOIN users u ON u.id = te.teacher_id
	WHERE te.course_id = ?
)
ORDER BY enrollment_type, id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &members, q, courseID, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course members")
	}
	return members, nil
}

// Teachers

func (repo enrollmentRepository) TeacherEnrollmentExists(ctx context.Context, teacherID, courseID int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM teacher_enrollments WHERE teacher_id = ? AND course_id = ?)`,
		teacherID, courseID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking teacher enrollment")
	}
	return exists, nil
}

func (repo enrollmentRepository) CreateTeacherEnrollment(ctx context.Context, teacherID, courseID int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO teacher_enrollments (teacher_id, course_id) VALUES (?, ?)`, teacherID, courseID)
	if isUniqueViolation(err, "teacher_enrollments.teacher_id") {
		return enrollment.ErrTeacherAlreadyEnrolled
	}
	return errors.Wrap(err, "inserting teacher enrollment")
}

func (repo enrollmentRepository) QueryTeacherEnrollments(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]enrollment.TeacherEnrollment, error) {
	enrs := make([]enrollment.TeacherEnrollment, 0)
	q := `SELECT id, teacher_id, course_id, created_at FROM teacher_enrollments WHERE teacher_id = ? ORDER BY id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &enrs, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher enrollments")
	}
	return enrs, nil
}

func (repo enrollmentRepository) DeleteTeacherEnrollment(ctx context.Context, teacherID, courseID int, exec ...core.DBExecutor) (int64, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx,
		`DELETE FROM teacher_enrollments WHERE teacher_id = ? AND course_id = ?`, teacherID, courseID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting teacher enrollment")
	}
	return res.RowsAffected()
}

func (repo enrollmentRepository) DeleteTeacherEnrollmentsByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`DELETE FROM teacher_enrollments WHERE teacher_id = ?`, teacherID)
	return errors.Wrap(err, "deleting teacher enrollments")
}
