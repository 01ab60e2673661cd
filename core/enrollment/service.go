package enrollment

import (
	"context"

	"github.com/shulehq/shule/core"
)

var (
	ErrAlreadyEnrolled        = core.NewConflictError("Already enrolled in this course")
	ErrTeacherAlreadyEnrolled = core.NewConflictError("Teacher is already enrolled in this course")
	ErrTeacherNotFound        = core.NewNotFoundError("Teacher not found or user is not a teacher")
	ErrCourseNotFound         = core.NewNotFoundError("Course not found")
	ErrUserNotFound           = core.NewNotFoundError("User not found")
	ErrEnrollmentNotFound     = core.NewNotFoundError("Enrollment not found")
)

type (
	Repository interface {
		// students
		StudentEnrollmentExists(ctx context.Context, studentID, courseID int, exec ...core.DBExecutor) (bool, error)
		CreateStudentEnrollment(ctx context.Context, studentID, courseID int, status string, exec ...core.DBExecutor) error
		QueryStudentEnrollments(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]StudentEnrollment, error)
		DeleteStudentEnrollment(ctx context.Context, studentID, courseID int, exec ...core.DBExecutor) error
		DeleteStudentEnrollmentsByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error
		QueryApprovedCourseStudents(ctx context.Context, courseID int, exec ...core.DBExecutor) ([]CourseMember, error)
		QueryCourseMembers(ctx context.Context, courseID int, exec ...core.DBExecutor) ([]CourseMember, error)

		// teachers
		TeacherEnrollmentExists(ctx context.Context, teacherID, courseID int, exec ...core.DBExecutor) (bool, error)
		CreateTeacherEnrollment(ctx context.Context, teacherID, courseID int, exec ...core.DBExecutor) error
		QueryTeacherEnrollments(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]TeacherEnrollment, error)
		DeleteTeacherEnrollment(ctx context.Context, teacherID, courseID int, exec ...core.DBExecutor) (int64, error)
		DeleteTeacherEnrollmentsByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) error
	}

	// UserDirectory is the slice of the user store the ledger needs for role checks.
	UserDirectory interface {
		GetUserRole(ctx context.Context, userID int, exec ...core.DBExecutor) (string, error)
	}

	// CourseDirectory tells whether a course exists.
	CourseDirectory interface {
		CourseExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		repo    Repository
		users   UserDirectory
		courses CourseDirectory
	}
)

func NewService(repo Repository, users UserDirectory, courses CourseDirectory) *Service {
	return &Service{repo: repo, users: users, courses: courses}
}

// EnrollStudent inserts a (student, course) pair unless one already exists.
// The unique index backs up the pre-check under concurrency.
func (svc *Service) EnrollStudent(ctx context.Context, ne NewStudentEnrollment) error {
	exists, err := svc.repo.StudentEnrollmentExists(ctx, ne.StudentID, ne.CourseID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyEnrolled
	}
	return svc.repo.CreateStudentEnrollment(ctx, ne.StudentID, ne.CourseID, ne.Status)
}

func (svc *Service) QueryStudentEnrollments(ctx context.Context, studentID int) ([]StudentEnrollment, error) {
	return svc.repo.QueryStudentEnrollments(ctx, studentID)
}

func (svc *Service) WithdrawStudent(ctx context.Context, studentID, courseID int) error {
	return svc.repo.DeleteStudentEnrollment(ctx, studentID, courseID)
}

// QueryApprovedCourseStudents lists the approved students of a course.
func (svc *Service) QueryApprovedCourseStudents(ctx context.Context, courseID int) ([]CourseMember, error) {
	return svc.repo.QueryApprovedCourseStudents(ctx, courseID)
}

// QueryCourseMembers lists every user enrolled in a course, students first.
func (svc *Service) QueryCourseMembers(ctx context.Context, courseID int) ([]CourseMember, error) {
	return svc.repo.QueryCourseMembers(ctx, courseID)
}

// RemoveCourseMember deletes the enrollment matching the user's role.
func (svc *Service) RemoveCourseMember(ctx context.Context, courseID, userID int) error {
	role, err := svc.users.GetUserRole(ctx, userID)
	if err != nil {
		if _, ok := err.(*core.NotFoundError); ok {
			return ErrUserNotFound
		}
		return err
	}
	if role == "teacher" {
		_, err = svc.repo.DeleteTeacherEnrollment(ctx, userID, courseID)
		return err
	}
	return svc.repo.DeleteStudentEnrollment(ctx, userID, courseID)
}

// EnrollTeacher inserts a (teacher, course) pair after checking the teacher
// role, the course and the pair's uniqueness.
func (svc *Service) EnrollTeacher(ctx context.Context, ne NewTeacherEnrollment) error {
	role, err := svc.users.GetUserRole(ctx, ne.TeacherID)
	if err != nil {
		if _, ok := err.(*core.NotFoundError); ok {
			return ErrTeacherNotFound
		}
		return err
	}
	if role != "teacher" {
		return ErrTeacherNotFound
	}

	courseExists, err := svc.courses.CourseExists(ctx, ne.CourseID)
	if err != nil {
		return err
	}
	if !courseExists {
		return ErrCourseNotFound
	}

	exists, err := svc.repo.TeacherEnrollmentExists(ctx, ne.TeacherID, ne.CourseID)
	if err != nil {
		return err
	}
	if exists {
		return ErrTeacherAlreadyEnrolled
	}
	return svc.repo.CreateTeacherEnrollment(ctx, ne.TeacherID, ne.CourseID)
}

func (svc *Service) QueryTeacherEnrollments(ctx context.Context, teacherID int) ([]TeacherEnrollment, error) {
	return svc.repo.QueryTeacherEnrollments(ctx, teacherID)
}

func (svc *Service) WithdrawTeacher(ctx context.Context, teacherID, courseID int) error {
	n, err := svc.repo.DeleteTeacherEnrollment(ctx, teacherID, courseID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}
