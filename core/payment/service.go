package payment

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

// ErrPaymentFailed masks whatever went wrong inside the payment transaction.
var ErrPaymentFailed = errors.New("Payment failed")

type (
	Repository interface {
		CreateCoursePayment(ctx context.Context, cp CoursePayment, exec ...core.DBExecutor) (int, error)
		QueryCoursePaymentsByUser(ctx context.Context, userID int, exec ...core.DBExecutor) ([]CoursePayment, error)
		CreateTeacherPayment(ctx context.Context, tp TeacherPayment, exec ...core.DBExecutor) (int, error)
		QueryTeacherPaymentsByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]TeacherPayment, error)
	}

	// PayerRecords is the slice of the user store the payment flow needs.
	PayerRecords interface {
		UpdatePaidClass(ctx context.Context, userID int, paidClass string, exec ...core.DBExecutor) error
	}

	Service struct {
		db    core.DB
		repo  Repository
		users PayerRecords
	}
)

func NewService(db core.DB, repo Repository, users PayerRecords) *Service {
	return &Service{db: db, repo: repo, users: users}
}

// RecordCoursePayment marks the payer's class as paid and stores the payment
// row in one transaction. Any failure rolls both back.
func (svc *Service) RecordCoursePayment(ctx context.Context, np NewCoursePayment) (int, error) {
	var id int
	err := core.Atomic(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.users.UpdatePaidClass(ctx, *np.UserID, np.PaymentOption, tx); err != nil {
			return err
		}
		cp := CoursePayment{
			UserID:            *np.UserID,
			ClassID:           null.Int64FromPtr(np.ClassID),
			PaymentOption:     np.PaymentOption,
			BankName:          null.NewString(np.BankName, np.BankName != ""),
			AccountNumber:     null.NewString(np.AccountNumber, np.AccountNumber != ""),
			AccountHolderName: null.NewString(np.AccountHolderName, np.AccountHolderName != ""),
			Amount:            *np.Amount,
			Date:              np.Date,
		}
		var err error
		id, err = svc.repo.CreateCoursePayment(ctx, cp, tx)
		return err
	})
	if err != nil {
		return 0, ErrPaymentFailed
	}
	return id, nil
}

func (svc *Service) QueryCoursePaymentsByUser(ctx context.Context, userID int) ([]CoursePayment, error) {
	return svc.repo.QueryCoursePaymentsByUser(ctx, userID)
}

func (svc *Service) RecordTeacherPayment(ctx context.Context, np NewTeacherPayment) (int, error) {
	tp := TeacherPayment{
		TeacherID: *np.TeacherID,
		Amount:    *np.Amount,
		Month:     np.Month,
		Year:      *np.Year,
	}
	return svc.repo.CreateTeacherPayment(ctx, tp)
}

func (svc *Service) QueryTeacherPaymentsByTeacher(ctx context.Context, teacherID int) ([]TeacherPayment, error) {
	return svc.repo.QueryTeacherPaymentsByTeacher(ctx, teacherID)
}
