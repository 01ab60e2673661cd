package sqliterepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/grade"
)

type gradeRepository struct {
	exec core.DBExecutor
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(exec core.DBExecutor) *gradeRepository {
	return &gradeRepository{exec: exec}
}

func (repo gradeRepository) CreateGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	q := `
INSERT INTO grades (course_id, student_id, grade, out_of, percentage)
VALUES (?, ?, ?, ?, ?)
RETURNING id, created_at`
	err := getExec(repo.exec, exec).QueryRowxContext(ctx, q,
		g.CourseID, g.StudentID, g.Grade, g.OutOf, g.Percentage,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return g, nil
}

func (repo gradeRepository) QueryByCourse(ctx context.Context, courseID int, exec ...core.DBExecutor) ([]grade.Grade, error) {
	grades := make([]grade.Grade, 0)
	q := `SELECT id, course_id, student_id, grade, out_of, percentage, created_at FROM grades WHERE course_id = ? ORDER BY created_at DESC`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &grades, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course grades")
	}
	return grades, nil
}

func (repo gradeRepository) QueryByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]grade.Grade, error) {
	grades := make([]grade.Grade, 0)
	q := `
SELECT g.id, g.course_id, g.student_id, g.grade, g.out_of, g.percentage, g.created_at,
       c.title AS course_title
FROM grades g
JOIN courses c ON c.id = g.course_id
WHERE g.student_id = ?
ORDER BY g.created_at DESC`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &grades, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student grades")
	}
	return grades, nil
}
