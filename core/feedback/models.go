package feedback

import (
	"time"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
)

const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

type ContactMessage struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type NewContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (nm *NewContactMessage) Validate() error {
	if nm.Name == "" || nm.Email == "" || nm.Phone == "" || nm.Message == "" {
		return core.NewValidationError(errors.New("All fields are required"))
	}
	return nil
}

// StudentSurvey stores the raw answers document as submitted.
type StudentSurvey struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"student_id" db:"student_id"`
	Answers   string    `json:"answers" db:"answers"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type NewSurvey struct {
	StudentID *int                   `json:"studentId"`
	Answers   map[string]interface{} `json:"answers"`
}

func (ns *NewSurvey) Validate() error {
	if ns.StudentID == nil || len(ns.Answers) == 0 {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	return nil
}
