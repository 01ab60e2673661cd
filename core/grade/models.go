package grade

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

type Grade struct {
	ID         int       `json:"id" db:"id"`
	CourseID   int       `json:"course_id" db:"course_id"`
	StudentID  int       `json:"student_id" db:"student_id"`
	Grade      float64   `json:"grade" db:"grade"`
	OutOf      float64   `json:"out_of" db:"out_of"`
	Percentage float64   `json:"percentage" db:"percentage"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// joined course title, populated by the per-student listing
	CourseTitle null.String `json:"course_title,omitempty" db:"course_title"`
}

// NewGrade uses pointers for presence checks so a legitimate grade of 0 is
// accepted.
type NewGrade struct {
	CourseID  *int     `json:"course_id"`
	StudentID *int     `json:"student_id"`
	Grade     *float64 `json:"grade"`
	OutOf     *float64 `json:"out_of"`
}

func (ng *NewGrade) Validate() error {
	if ng.CourseID == nil || ng.StudentID == nil || ng.Grade == nil || ng.OutOf == nil {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	if *ng.OutOf <= 0 {
		return core.NewValidationError(errors.New("out_of must be greater than zero"))
	}
	if *ng.Grade < 0 || *ng.Grade > *ng.OutOf {
		return core.NewValidationError(errors.New("grade must be between 0 and out_of"))
	}
	return nil
}

func (ng *NewGrade) percentage() float64 {
	return *ng.Grade / *ng.OutOf * 100
}
