package school

import (
	"context"

	"github.com/shulehq/shule/core"
)

var (
	ErrClassNotFound       = core.NewNotFoundError("Class not found")
	ErrCourseNotFound      = core.NewNotFoundError("Course not found")
	ErrCourseNotInClass    = core.NewNotFoundError("Course not found in this class")
	ErrAnnouncementMissing = core.NewNotFoundError("Announcement not found")
	ErrOrientationMissing  = core.NewNotFoundError("Orientation not found")
	ErrAlreadyEnrolled     = core.NewConflictError("Already enrolled in this orientation")
)

type (
	Repository interface {
		// classes
		QueryClasses(ctx context.Context, exec ...core.DBExecutor) ([]Class, error)
		ClassExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
		CreateClass(ctx context.Context, name string, exec ...core.DBExecutor) (Class, error)
		DetachCoursesFromClass(ctx context.Context, classID int, exec ...core.DBExecutor) error
		DeleteClass(ctx context.Context, id int, exec ...core.DBExecutor) (int64, error)

		// courses
		QueryCourses(ctx context.Context, exec ...core.DBExecutor) ([]Course, error)
		QueryCoursesWithClass(ctx context.Context, exec ...core.DBExecutor) ([]Course, error)
		QueryCoursesByClass(ctx context.Context, classID int, exec ...core.DBExecutor) ([]Course, error)
		GetCourse(ctx context.Context, id int, exec ...core.DBExecutor) (Course, error)
		CourseExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
		CreateCourse(ctx context.Context, nc NewCourse, classID *int, exec ...core.DBExecutor) (Course, error)
		SetCourseClass(ctx context.Context, courseID int, classID *int, exec ...core.DBExecutor) error
		CourseInClass(ctx context.Context, courseID, classID int, exec ...core.DBExecutor) (bool, error)
		DeleteCourse(ctx context.Context, id int, exec ...core.DBExecutor) error
		QueryTeacherIDsByCourse(ctx context.Context, exec ...core.DBExecutor) (map[int][]int, error)
		QueryTeacherScheduleCourses(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]Course, error)
		QueryCoursesByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]Course, error)
		QueryCoursesByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]Course, error)

		// announcements
		QueryAnnouncements(ctx context.Context, exec ...core.DBExecutor) ([]Announcement, error)
		CreateAnnouncement(ctx context.Context, na NewAnnouncement, exec ...core.DBExecutor) (int, error)
		DeleteAnnouncement(ctx context.Context, id int, exec ...core.DBExecutor) (int64, error)

		// orientations
		QueryOrientations(ctx context.Context, exec ...core.DBExecutor) ([]Orientation, error)
		OrientationExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
		CreateOrientation(ctx context.Context, no NewOrientation, exec ...core.DBExecutor) (int, error)
		OrientationEnrollmentExists(ctx context.Context, orientationID, studentID int, exec ...core.DBExecutor) (bool, error)
		CreateOrientationEnrollment(ctx context.Context, orientationID, studentID int, exec ...core.DBExecutor) error
		DeleteOrientationEnrollment(ctx context.Context, orientationID, studentID int, exec ...core.DBExecutor) (int64, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Classes

// QueryClasses lists all classes, each with its short course listing.
func (svc *Service) QueryClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	return svc.repo.CreateClass(ctx, nc.Name)
}

// DeleteClass detaches the class's courses and deletes the class row in one
// transaction.
func (svc *Service) DeleteClass(ctx context.Context, id int) error {
	return core.Atomic(ctx, svc.db, func(tx core.DBExecutor) error {
		exists, err := svc.repo.ClassExists(ctx, id, tx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrClassNotFound
		}
		if err = svc.repo.DetachCoursesFromClass(ctx, id, tx); err != nil {
			return err
		}
		n, err := svc.repo.DeleteClass(ctx, id, tx)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrClassNotFound
		}
		return nil
	})
}

// Courses

func (svc *Service) QueryCourses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *Service) QueryCoursesByClass(ctx context.Context, classID int) ([]Course, error) {
	exists, err := svc.repo.ClassExists(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrClassNotFound
	}
	return svc.repo.QueryCoursesByClass(ctx, classID)
}

func (svc *Service) GetCourse(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	return svc.repo.CreateCourse(ctx, nc, nil)
}

// CreateCourseInClass creates a course inside a class or, when nc.CourseID is
// set, attaches the existing course to the class instead.
func (svc *Service) CreateCourseInClass(ctx context.Context, classID int, nc NewCourse) (Course, bool, error) {
	exists, err := svc.repo.ClassExists(ctx, classID)
	if err != nil {
		return Course{}, false, err
	}
	if !exists {
		return Course{}, false, ErrClassNotFound
	}

	if nc.CourseID != nil {
		courseExists, err := svc.repo.CourseExists(ctx, *nc.CourseID)
		if err != nil {
			return Course{}, false, err
		}
		if !courseExists {
			return Course{}, false, ErrCourseNotFound
		}
		if err = svc.repo.SetCourseClass(ctx, *nc.CourseID, &classID); err != nil {
			return Course{}, false, err
		}
		crs, err := svc.repo.GetCourse(ctx, *nc.CourseID)
		return crs, true, err
	}

	if err = nc.Validate(); err != nil {
		return Course{}, false, err
	}
	crs, err := svc.repo.CreateCourse(ctx, nc, &classID)
	return crs, false, err
}

// RemoveCourseFromClass clears the course's class association.
func (svc *Service) RemoveCourseFromClass(ctx context.Context, classID, courseID int) error {
	exists, err := svc.repo.ClassExists(ctx, classID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrClassNotFound
	}
	inClass, err := svc.repo.CourseInClass(ctx, courseID, classID)
	if err != nil {
		return err
	}
	if !inClass {
		return ErrCourseNotInClass
	}
	return svc.repo.SetCourseClass(ctx, courseID, nil)
}

func (svc *Service) DeleteCourse(ctx context.Context, id int) error {
	return svc.repo.DeleteCourse(ctx, id)
}

// QueryTeacherCourses returns every course with its class name and the ids of
// the teachers enrolled in it.
func (svc *Service) QueryTeacherCourses(ctx context.Context) ([]TeacherCourse, error) {
	courses, err := svc.repo.QueryCoursesWithClass(ctx)
	if err != nil {
		return nil, err
	}
	teacherIDs, err := svc.repo.QueryTeacherIDsByCourse(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TeacherCourse, 0, len(courses))
	for _, crs := range courses {
		ids := teacherIDs[crs.ID]
		if ids == nil {
			ids = []int{}
		}
		out = append(out, TeacherCourse{Course: crs, EnrolledTeachers: ids})
	}
	return out, nil
}

// TeacherSchedule lists the courses a teacher is enrolled in, trimmed to the
// fields the schedule view needs.
func (svc *Service) TeacherSchedule(ctx context.Context, teacherID int) ([]ScheduleEntry, error) {
	courses, err := svc.repo.QueryTeacherScheduleCourses(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	entries := make([]ScheduleEntry, 0, len(courses))
	for _, crs := range courses {
		entries = append(entries, ScheduleEntry{
			ID:        crs.ID,
			Title:     crs.Title,
			ClassName: crs.ClassName,
			Schedule:  crs.Schedule,
		})
	}
	return entries, nil
}

// QueryCoursesByTeacher lists the courses a teacher is enrolled in.
func (svc *Service) QueryCoursesByTeacher(ctx context.Context, teacherID int) ([]Course, error) {
	return svc.repo.QueryCoursesByTeacher(ctx, teacherID)
}

// QueryCoursesByStudent lists the courses a student is enrolled in, with the
// enrollment status attached.
func (svc *Service) QueryCoursesByStudent(ctx context.Context, studentID int) ([]Course, error) {
	return svc.repo.QueryCoursesByStudent(ctx, studentID)
}

// Announcements

func (svc *Service) QueryAnnouncements(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(ctx)
}

func (svc *Service) CreateAnnouncement(ctx context.Context, na NewAnnouncement) (int, error) {
	return svc.repo.CreateAnnouncement(ctx, na)
}

func (svc *Service) DeleteAnnouncement(ctx context.Context, id int) error {
	n, err := svc.repo.DeleteAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAnnouncementMissing
	}
	return nil
}

// Orientations

func (svc *Service) QueryOrientations(ctx context.Context) ([]Orientation, error) {
	return svc.repo.QueryOrientations(ctx)
}

func (svc *Service) CreateOrientation(ctx context.Context, no NewOrientation) (int, error) {
	return svc.repo.CreateOrientation(ctx, no)
}

func (svc *Service) EnrollInOrientation(ctx context.Context, orientationID, studentID int) error {
	exists, err := svc.repo.OrientationExists(ctx, orientationID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrOrientationMissing
	}
	enrolled, err := svc.repo.OrientationEnrollmentExists(ctx, orientationID, studentID)
	if err != nil {
		return err
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}
	return svc.repo.CreateOrientationEnrollment(ctx, orientationID, studentID)
}

func (svc *Service) DropFromOrientation(ctx context.Context, orientationID, studentID int) error {
	n, err := svc.repo.DeleteOrientationEnrollment(ctx, orientationID, studentID)
	if err != nil {
		return err
	}
	if n == 0 {
		return core.NewNotFoundError("Enrollment not found")
	}
	return nil
}
