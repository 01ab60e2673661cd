package sqliterepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/payment"
)

type paymentRepository struct {
	exec core.DBExecutor
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(exec core.DBExecutor) *paymentRepository {
	return &paymentRepository{exec: exec}
}

func (repo paymentRepository) CreateCoursePayment(ctx context.Context, cp payment.CoursePayment, exec ...core.DBExecutor) (int, error) {
	q := `
INSERT INTO course_payments (user_id, class_id, payment_option, bank_name,
                             account_number, account_holder_name, amount, date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`
	var id int
	err := getExec(repo.exec, exec).QueryRowxContext(ctx, q,
		cp.UserID, cp.ClassID, cp.PaymentOption, cp.BankName,
		cp.AccountNumber, cp.AccountHolderName, cp.Amount, cp.Date,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "inserting course payment")
	}
	return id, nil
}

func (repo paymentRepository) QueryCoursePaymentsByUser(ctx context.Context, userID int, exec ...core.DBExecutor) ([]payment.CoursePayment, error) {
	payments := make([]payment.CoursePayment, 0)
	q := `SELECT * FROM course_payments WHERE user_id = ? ORDER BY created_at DESC`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &payments, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying course payments")
	}
	return payments, nil
}

func (repo paymentRepository) CreateTeacherPayment(ctx context.Context, tp payment.TeacherPayment, exec ...core.DBExecutor) (int, error) {
	q := `INSERT INTO teacher_payments (teacher_id, amount, month, year) VALUES (?, ?, ?, ?) RETURNING id`
	var id int
	err := getExec(repo.exec, exec).QueryRowxContext(ctx, q,
		tp.TeacherID, tp.Amount, tp.Month, tp.Year).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "inserting teacher payment")
	}
	return id, nil
}

func (repo paymentRepository) QueryTeacherPaymentsByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]payment.TeacherPayment, error) {
	payments := make([]payment.TeacherPayment, 0)
	q := `SELECT * FROM teacher_payments WHERE teacher_id = ? ORDER BY created_at DESC`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &payments, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher payments")
	}
	return payments, nil
}
