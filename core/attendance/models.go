package attendance

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

const dateLayout = "2006-01-02"

type Record struct {
	ID        int       `json:"id" db:"id"`
	CourseID  int       `json:"course_id" db:"course_id"`
	StudentID int       `json:"student_id" db:"student_id"`
	Date      string    `json:"date" db:"date"` // calendar date, YYYY-MM-DD
	Present   bool      `json:"present" db:"present"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// joined course title, populated by the per-student listing
	CourseTitle null.String `json:"course_title,omitempty" db:"course_title"`
}

// NewRecord is one attendance mark; POST /attendance accepts one or a batch.
type NewRecord struct {
	CourseID  int    `json:"course_id"`
	StudentID int    `json:"student_id"`
	Date      string `json:"date"`
	Present   bool   `json:"present"`
}

func (nr *NewRecord) Validate() error {
	if nr.CourseID == 0 || nr.StudentID == 0 || nr.Date == "" {
		return core.NewValidationError(errors.New("Missing required fields: course_id, student_id, and date are required"))
	}
	return nil
}

// NormalizeDate truncates the incoming date to calendar-date precision,
// discarding any time-of-day component.
func NormalizeDate(date string) (string, error) {
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format(dateLayout), nil
		}
	}
	return "", core.NewValidationError(errors.New("Invalid date format"))
}

// SheetEntry is one student's mark in a whole-course attendance sheet.
type SheetEntry struct {
	StudentID int  `json:"studentId"`
	Present   bool `json:"present"`
}

// Sheet is the legacy batch shape: one course, one date, many students.
type Sheet struct {
	CourseID   int          `json:"courseId"`
	Date       string       `json:"date"`
	Attendance []SheetEntry `json:"attendance"`
}

func (s *Sheet) Validate() error {
	if s.CourseID == 0 || s.Date == "" || len(s.Attendance) == 0 {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	return nil
}

// UpdateRecord flips the present flag of an existing record.
type UpdateRecord struct {
	Present *bool `json:"present"`
}

func (ur *UpdateRecord) Validate() error {
	if ur.Present == nil {
		return core.NewValidationError(errors.New("present is required"))
	}
	return nil
}
