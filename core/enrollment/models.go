package enrollment

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

// Enrollment statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

type StudentEnrollment struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"student_id" db:"student_id"`
	CourseID  int       `json:"course_id" db:"course_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// joined course fields, populated by the student listing
	Title       null.String `json:"title,omitempty" db:"title"`
	Description null.String `json:"description,omitempty" db:"description"`
}

type TeacherEnrollment struct {
	ID        int       `json:"id" db:"id"`
	TeacherID int       `json:"teacher_id" db:"teacher_id"`
	CourseID  int       `json:"course_id" db:"course_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CourseMember is a user enrolled in a course, as listed per course.
type CourseMember struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Email          string `json:"email" db:"email"`
	Role           string `json:"role,omitempty" db:"role"`
	Status         string `json:"status,omitempty" db:"status"`
	EnrollmentType string `json:"enrollmentType,omitempty" db:"enrollment_type"`
}

// Requests

type NewStudentEnrollment struct {
	StudentID int    `json:"studentId"`
	CourseID  int    `json:"courseId"`
	Status    string `json:"status" validate:"omitempty,oneof=pending approved"`
}

func (ne *NewStudentEnrollment) Validate() error {
	if ne.StudentID == 0 || ne.CourseID == 0 {
		return core.NewValidationError(errors.New("Student ID and Course ID are required"))
	}
	if ne.Status == "" {
		ne.Status = StatusPending
	}
	return core.Validate.Struct(ne)
}

type NewTeacherEnrollment struct {
	TeacherID int `json:"teacherId"`
	CourseID  int `json:"courseId"`
}

func (ne *NewTeacherEnrollment) Validate() error {
	if ne.TeacherID == 0 || ne.CourseID == 0 {
		return core.NewValidationError(errors.New("Teacher ID and Course ID are required"))
	}
	return nil
}
