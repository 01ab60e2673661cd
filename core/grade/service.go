package grade

import (
	"context"

	"github.com/shulehq/shule/core"
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		QueryByCourse(ctx context.Context, courseID int, exec ...core.DBExecutor) ([]Grade, error)
		QueryByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]Grade, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record stores a grade entry with its derived percentage.
func (svc *Service) Record(ctx context.Context, ng NewGrade) (Grade, error) {
	g := Grade{
		CourseID:   *ng.CourseID,
		StudentID:  *ng.StudentID,
		Grade:      *ng.Grade,
		OutOf:      *ng.OutOf,
		Percentage: ng.percentage(),
	}
	return svc.repo.CreateGrade(ctx, g)
}

func (svc *Service) QueryByCourse(ctx context.Context, courseID int) ([]Grade, error) {
	return svc.repo.QueryByCourse(ctx, courseID)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Grade, error) {
	return svc.repo.QueryByStudent(ctx, studentID)
}
