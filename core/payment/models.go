package payment

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

type CoursePayment struct {
	ID                int         `json:"id" db:"id"`
	UserID            int         `json:"user_id" db:"user_id"`
	ClassID           null.Int64  `json:"class_id" db:"class_id"`
	PaymentOption     string      `json:"payment_option" db:"payment_option"`
	BankName          null.String `json:"bank_name" db:"bank_name"`
	AccountNumber     null.String `json:"account_number" db:"account_number"`
	AccountHolderName null.String `json:"account_holder_name" db:"account_holder_name"`
	Amount            float64     `json:"amount" db:"amount"`
	Date              string      `json:"date" db:"date"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
}

type TeacherPayment struct {
	ID        int       `json:"id" db:"id"`
	TeacherID int       `json:"teacher_id" db:"teacher_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Month     string    `json:"month" db:"month"`
	Year      int       `json:"year" db:"year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type NewCoursePayment struct {
	UserID            *int     `json:"userId"`
	ClassID           *int64   `json:"classId"`
	PaymentOption     string   `json:"paymentOption"`
	BankName          string   `json:"bankName"`
	AccountNumber     string   `json:"accountNumber"`
	AccountHolderName string   `json:"accountHolderName"`
	Amount            *float64 `json:"amount"`
	Date              string   `json:"date"`
}

func (np *NewCoursePayment) Validate() error {
	if np.UserID == nil || np.Amount == nil || np.PaymentOption == "" || np.Date == "" {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	return nil
}

type NewTeacherPayment struct {
	TeacherID *int     `json:"teacherId"`
	Amount    *float64 `json:"amount"`
	Month     string   `json:"month"`
	Year      *int     `json:"year"`
}

func (np *NewTeacherPayment) Validate() error {
	if np.TeacherID == nil || np.Amount == nil || np.Month == "" || np.Year == nil {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	return nil
}
