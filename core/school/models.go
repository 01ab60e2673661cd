package school

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

type Class struct {
	ID      int         `json:"id" db:"id"`
	Name    string      `json:"name" db:"name"`
	Courses []CourseRef `json:"courses" db:"-"`
}

// CourseRef is the short course listing embedded in a Class.
type CourseRef struct {
	ID    int    `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// ScheduleSlot is one time-slot descriptor of a course schedule. The whole
// list is serialized as JSON text inside the course row.
type ScheduleSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Course struct {
	ID          int            `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Price       int64          `json:"price" db:"price"`
	BannerPic   string         `json:"bannerPic" db:"banner_pic"`
	Schedule    []ScheduleSlot `json:"schedule" db:"-"`
	ClassID     null.Int64     `json:"class_id" db:"class_id"`
	ClassName   null.String    `json:"class_name,omitempty" db:"class_name"`

	// enrollment status, populated only by the per-student course listing
	Status null.String `json:"status,omitempty" db:"status"`
}

// TeacherCourse is the admin/teacher view of a course with its enrolled teachers.
type TeacherCourse struct {
	Course
	EnrolledTeachers []int `json:"enrolledTeachers"`
}

// ScheduleEntry is one course of a teacher's weekly schedule.
type ScheduleEntry struct {
	ID        int            `json:"id"`
	Title     string         `json:"title"`
	ClassName null.String    `json:"class_name"`
	Schedule  []ScheduleSlot `json:"schedule"`
}

type Announcement struct {
	ID         int       `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Message    string    `json:"message" db:"message"`
	TargetRole string    `json:"targetRole" db:"target_role"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type Orientation struct {
	ID          int         `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description null.String `json:"description" db:"description"`
	Date        string      `json:"date" db:"date"`
	Location    null.String `json:"location" db:"location"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

type OrientationEnrollment struct {
	ID            int       `json:"id" db:"id"`
	OrientationID int       `json:"orientation_id" db:"orientation_id"`
	StudentID     int       `json:"student_id" db:"student_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Requests

type NewClass struct {
	Name string `json:"name"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	if nc.Name == "" {
		return core.NewValidationError(errors.New("Class name is required"))
	}
	return nil
}

// NewCourse creates a course; inside a class route it may instead carry
// CourseID to attach an existing course to the class.
type NewCourse struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       *int64         `json:"price"`
	BannerPic   string         `json:"bannerPic"`
	Schedule    []ScheduleSlot `json:"schedule"`
	CourseID    *int           `json:"courseId"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	if nc.Title == "" || nc.Description == "" || nc.Price == nil || nc.BannerPic == "" || nc.Schedule == nil {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	return nil
}

type NewAnnouncement struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	TargetRole string `json:"targetRole"`
}

func (na *NewAnnouncement) Validate() error {
	if na.Title == "" || na.Message == "" || na.TargetRole == "" {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	return nil
}

type NewOrientation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

func (no *NewOrientation) Validate() error {
	no.Title = core.CleanString(no.Title)
	if no.Title == "" || no.Date == "" {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	return nil
}
