package feedback

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
)

var (
	ErrInvalidStatus   = core.NewValidationError(errors.New("Invalid status value"))
	ErrMessageNotFound = core.NewNotFoundError("Message not found")
)

type (
	Repository interface {
		CreateContactMessage(ctx context.Context, nm NewContactMessage, exec ...core.DBExecutor) (int, error)
		QueryContactMessages(ctx context.Context, exec ...core.DBExecutor) ([]ContactMessage, error)
		UpdateContactStatus(ctx context.Context, id int, status string, exec ...core.DBExecutor) (int64, error)
		CreateSurvey(ctx context.Context, studentID int, answers string, exec ...core.DBExecutor) (int, error)
		QuerySurveys(ctx context.Context, exec ...core.DBExecutor) ([]StudentSurvey, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateContactMessage(ctx context.Context, nm NewContactMessage) (int, error) {
	return svc.repo.CreateContactMessage(ctx, nm)
}

// QueryContactMessages lists messages, newest first.
func (svc *Service) QueryContactMessages(ctx context.Context) ([]ContactMessage, error) {
	return svc.repo.QueryContactMessages(ctx)
}

func (svc *Service) SetContactStatus(ctx context.Context, id int, status string) error {
	if status != StatusRead && status != StatusUnread {
		return ErrInvalidStatus
	}
	n, err := svc.repo.UpdateContactStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (svc *Service) SubmitSurvey(ctx context.Context, ns NewSurvey) (int, error) {
	answers, err := json.Marshal(ns.Answers)
	if err != nil {
		return 0, errors.Wrap(err, "marshaling survey answers")
	}
	return svc.repo.CreateSurvey(ctx, *ns.StudentID, string(answers))
}

func (svc *Service) QuerySurveys(ctx context.Context) ([]StudentSurvey, error) {
	return svc.repo.QuerySurveys(ctx)
}
