package sqliterepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/feedback"
)

type feedbackRepository struct {
	exec core.DBExecutor
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(exec core.DBExecutor) *feedbackRepository {
	return &feedbackRepository{exec: exec}
}

func (repo feedbackRepository) CreateContactMessage(ctx context.Context, nm feedback.NewContactMessage, exec ...core.DBExecutor) (int, error) {
	var id int
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`INSERT INTO contact_messages (name, email, phone, message) VALUES (?, ?, ?, ?) RETURNING id`,
		nm.Name, nm.Email, nm.Phone, nm.Message).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "inserting contact message")
	}
	return id, nil
}

func (repo feedbackRepository) QueryContactMessages(ctx context.Context, exec ...core.DBExecutor) ([]feedback.ContactMessage, error) {
	msgs := make([]feedback.ContactMessage, 0)
	q := `SELECT * FROM contact_messages ORDER BY created_at DESC`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &msgs, q); err != nil {
		return nil, errors.Wrap(err, "querying contact messages")
	}
	return msgs, nil
}

func (repo feedbackRepository) UpdateContactStatus(ctx context.Context, id int, status string, exec ...core.DBExecutor) (int64, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE contact_messages SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return 0, errors.Wrap(err, "updating contact message status")
	}
	return res.RowsAffected()
}

func (repo feedbackRepository) CreateSurvey(ctx context.Context, studentID int, answers string, exec ...core.DBExecutor) (int, error) {
	var id int
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`INSERT INTO student_surveys (student_id, answers) VALUES (?, ?) RETURNING id`,
		studentID, answers).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "inserting survey")
	}
	return id, nil
}

func (repo feedbackRepository) QuerySurveys(ctx context.Context, exec ...core.DBExecutor) ([]feedback.StudentSurvey, error) {
	surveys := make([]feedback.StudentSurvey, 0)
	q := `SELECT * FROM student_surveys ORDER BY created_at DESC`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &surveys, q); err != nil {
		return nil, errors.Wrap(err, "querying surveys")
	}
	return surveys, nil
}
