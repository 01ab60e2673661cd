package attendance

import (
	"context"

	"github.com/shulehq/shule/core"
)

var (
	ErrAlreadyMarked  = core.NewConflictError("Attendance already marked for this date")
	ErrRecordNotFound = core.NewNotFoundError("Attendance record not found")
)

type (
	Repository interface {
		RecordExists(ctx context.Context, courseID, studentID int, date string, exec ...core.DBExecutor) (bool, error)
		CreateRecord(ctx context.Context, courseID, studentID int, date string, present bool, exec ...core.DBExecutor) error
		GetRecord(ctx context.Context, id int, exec ...core.DBExecutor) (Record, error)
		UpdatePresent(ctx context.Context, id int, present bool, exec ...core.DBExecutor) error
		DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error
		QueryByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]Record, error)
		QueryByCourse(ctx context.Context, courseID int, exec ...core.DBExecutor) ([]Record, error)
		DeleteAttendanceByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Mark validates and stores a batch of attendance records. The validation
// pass runs before any insert: a duplicate (course, student, date) anywhere in
// the batch rejects the whole batch with zero rows written. The insert pass
// runs in one transaction.
func (svc *Service) Mark(ctx context.Context, records []NewRecord) (int, error) {
	dates := make([]string, len(records))
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return 0, err
		}
		date, err := NormalizeDate(records[i].Date)
		if err != nil {
			return 0, err
		}
		dates[i] = date

		exists, err := svc.repo.RecordExists(ctx, records[i].CourseID, records[i].StudentID, date)
		if err != nil {
			return 0, err
		}
		if exists {
			return 0, ErrAlreadyMarked
		}
	}

	err := core.Atomic(ctx, svc.db, func(tx core.DBExecutor) error {
		for i, rec := range records {
			if err := svc.repo.CreateRecord(ctx, rec.CourseID, rec.StudentID, dates[i], rec.Present, tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// SubmitSheet stores a whole-course sheet for one date in one transaction.
func (svc *Service) SubmitSheet(ctx context.Context, sheet Sheet) error {
	date, err := NormalizeDate(sheet.Date)
	if err != nil {
		return err
	}
	return core.Atomic(ctx, svc.db, func(tx core.DBExecutor) error {
		for _, entry := range sheet.Attendance {
			if err := svc.repo.CreateRecord(ctx, sheet.CourseID, entry.StudentID, date, entry.Present, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (svc *Service) SetPresent(ctx context.Context, id int, present bool) error {
	return svc.repo.UpdatePresent(ctx, id, present)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetRecord(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteRecord(ctx, id)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Record, error) {
	return svc.repo.QueryByStudent(ctx, studentID)
}

func (svc *Service) QueryByCourse(ctx context.Context, courseID int) ([]Record, error) {
	return svc.repo.QueryByCourse(ctx, courseID)
}
