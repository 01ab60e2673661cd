package sqliterepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/enrollment"
	"github.com/shulehq/shule/core/school"
	"github.com/shulehq/shule/core/user"
)

type schoolRepository struct {
	exec core.DBExecutor
}

var (
	_ school.Repository          = (*schoolRepository)(nil) // interface compliance check
	_ user.CourseCatalog         = (*schoolRepository)(nil)
	_ enrollment.CourseDirectory = (*schoolRepository)(nil)
)

func NewSchoolRepository(exec core.DBExecutor) *schoolRepository {
	return &schoolRepository{exec: exec}
}

// courseRow is the raw course record; the schedule column holds JSON text.
type courseRow struct {
	ID          int         `db:"id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Price       int64       `db:"price"`
	BannerPic   string      `db:"banner_pic"`
	Schedule    string      `db:"schedule"`
	ClassID     null.Int64  `db:"class_id"`
	ClassName   null.String `db:"class_name"`
	Status      null.String `db:"status"`
}

func (row courseRow) course() school.Course {
	crs := school.Course{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
		BannerPic:   row.BannerPic,
		ClassID:     row.ClassID,
		ClassName:   row.ClassName,
		Status:      row.Status,
	}
	// unparsable stored schedules degrade to an empty list
	if err := json.Unmarshal([]byte(row.Schedule), &crs.Schedule); err != nil || crs.Schedule == nil {
		crs.Schedule = []school.ScheduleSlot{}
	}
	return crs
}

func courses(rows []courseRow) []school.Course {
	out := make([]school.Course, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.course())
	}
	return out
}

func marshalSchedule(schedule []school.ScheduleSlot) string {
	if schedule == nil {
		schedule = []school.ScheduleSlot{}
	}
	b, err := json.Marshal(schedule)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Classes

func (repo schoolRepository) QueryClasses(ctx context.Context, exec ...core.DBExecutor) ([]school.Class, error) {
	exe := getExec(repo.exec, exec)

	classes := make([]school.Class, 0)
	if err := exe.SelectContext(ctx, &classes, `SELECT id, name FROM classes ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}

	var refs []struct {
		school.CourseRef
		ClassID int64 `db:"class_id"`
	}
	q := `SELECT id, title, class_id FROM courses WHERE class_id IS NOT NULL ORDER BY id`
	if err := exe.SelectContext(ctx, &refs, q); err != nil {
		return nil, errors.Wrap(err, "querying class courses")
	}

	byClass := make(map[int64][]school.CourseRef, len(classes))
	for _, ref := range refs {
		byClass[ref.ClassID] = append(byClass[ref.ClassID], ref.CourseRef)
	}
	for i := range classes {
		classes[i].Courses = byClass[int64(classes[i].ID)]
		if classes[i].Courses == nil {
			classes[i].Courses = []school.CourseRef{}
		}
	}
	return classes, nil
}

func (repo schoolRepository) ClassExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM classes WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking class")
	}
	return exists, nil
}

func (repo schoolRepository) CreateClass(ctx context.Context, name string, exec ...core.DBExecutor) (school.Class, error) {
	cls := school.Class{Name: name, Courses: []school.CourseRef{}}
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`INSERT INTO classes (name) VALUES (?) RETURNING id`, name).Scan(&cls.ID)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo schoolRepository) DetachCoursesFromClass(ctx context.Context, classID int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE courses SET class_id = NULL WHERE class_id = ?`, classID)
	return errors.Wrap(err, "detaching courses")
}

func (repo schoolRepository) DeleteClass(ctx context.Context, id int, exec ...core.DBExecutor) (int64, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, id)
	if err != nil {
		return 0, errors.Wrap(err, "deleting class")
	}
	return res.RowsAffected()
}

// Courses

func (repo schoolRepository) QueryCourses(ctx context.Context, exec ...core.DBExecutor) ([]school.Course, error) {
	var rows []courseRow
	q := `SELECT id, title, description, price, banner_pic, schedule, class_id FROM courses ORDER BY id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses(rows), nil
}

func (repo schoolRepository) QueryCoursesWithClass(ctx context.Context, exec ...core.DBExecutor) ([]school.Course, error) {
	var rows []courseRow
	q := `
SELECT c.id, c.title, c.description, c.price, c.banner_pic, c.schedule, c.class_id,
       cl.name AS class_name
FROM courses c
LEFT JOIN classes cl ON cl.id = c.class_id
ORDER BY c.id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying courses with classes")
	}
	return courses(rows), nil
}

func (repo schoolRepository) QueryCoursesByClass(ctx context.Context, classID int, exec ...core.DBExecutor) ([]school.Course, error) {
	var rows []courseRow
	q := `SELECT id, title, description, price, banner_pic, schedule, class_id FROM courses WHERE class_id = ? ORDER BY id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &rows, q, classID); err != nil {
		return nil, errors.Wrap(err, "querying class courses")
	}
	return courses(rows), nil
}

func (repo schoolRepository) GetCourse(ctx context.Context, id int, exec ...core.DBExecutor) (school.Course, error) {
	var row courseRow
	q := `SELECT id, title, description, price, banner_pic, schedule, class_id FROM courses WHERE id = ?`
	if err := getExec(repo.exec, exec).GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Course{}, school.ErrCourseNotFound
		}
		return school.Course{}, errors.Wrap(err, "finding course")
	}
	return row.course(), nil
}

func (repo schoolRepository) CourseExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM courses WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking course")
	}
	return exists, nil
}

func (repo schoolRepository) CreateCourse(ctx context.Context, nc school.NewCourse, classID *int, exec ...core.DBExecutor) (school.Course, error) {
	crs := school.Course{
		Title:       nc.Title,
		Description: nc.Description,
		Price:       *nc.Price,
		BannerPic:   nc.BannerPic,
		Schedule:    nc.Schedule,
	}
	if classID != nil {
		crs.ClassID = null.Int64From(int64(*classID))
	}
	q := `
INSERT INTO courses (title, description, price, banner_pic, schedule, class_id)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`
	err := getExec(repo.exec, exec).QueryRowxContext(ctx, q,
		crs.Title, crs.Description, crs.Price, crs.BannerPic, marshalSchedule(nc.Schedule), crs.ClassID,
	).Scan(&crs.ID)
	if err != nil {
		return school.Course{}, errors.Wrap(err, "inserting course")
	}
	if crs.Schedule == nil {
		crs.Schedule = []school.ScheduleSlot{}
	}
	return crs, nil
}

func (repo schoolRepository) SetCourseClass(ctx context.Context, courseID int, classID *int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE courses SET class_id = ? WHERE id = ?`, classID, courseID)
	return errors.Wrap(err, "updating course class")
}

func (repo schoolRepository) CourseInClass(ctx context.Context, courseID, classID int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM courses WHERE id = ? AND class_id = ?)`, courseID, classID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking course class")
	}
	return exists, nil
}

func (repo schoolRepository) DeleteCourse(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	return errors.Wrap(err, "deleting course")
}

func (repo schoolRepository) QueryTeacherIDsByCourse(ctx context.Context, exec ...core.DBExecutor) (map[int][]int, error) {
	var rows []struct {
		CourseID  int `db:"course_id"`
		TeacherID int `db:"teacher_id"`
	}
	q := `SELECT course_id, teacher_id FROM teacher_enrollments ORDER BY course_id, teacher_id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying teacher enrollments")
	}
	byCourse := make(map[int][]int)
	for _, row := range rows {
		byCourse[row.CourseID] = append(byCourse[row.CourseID], row.TeacherID)
	}
	return byCourse, nil
}

func (repo schoolRepository) QueryTeacherScheduleCourses(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]school.Course, error) {
	var rows []courseRow
	q := `
SELECT c.id, c.title, c.description, c.price, c.banner_pic, c.schedule, c.class_id,
       cl.name AS class_name
FROM courses c
JOIN teacher_enrollments te ON te.course_id = c.id
LEFT JOIN classes cl ON cl.id = c.class_id
WHERE te.teacher_id = ?
ORDER BY c.id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &rows, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher schedule")
	}
	return courses(rows), nil
}

func (repo schoolRepository) QueryCoursesByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) ([]school.Course, error) {
	var rows []courseRow
	q := `
SELECT c.id, c.title, c.description, c.price, c.banner_pic, c.schedule, c.class_id
FROM courses c
JOIN teacher_enrollments te ON te.course_id = c.id
WHERE te.teacher_id = ?
ORDER BY c.id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &rows, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher courses")
	}
	return courses(rows), nil
}

func (repo schoolRepository) QueryCoursesByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]school.Course, error) {
	var rows []courseRow
	q := `
SELECT c.id, c.title, c.description, c.price, c.banner_pic, c.schedule, c.class_id,
       se.status AS status
FROM courses c
JOIN student_enrollments se ON se.course_id = c.id
WHERE se.student_id = ?
ORDER BY c.id`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	return courses(rows), nil
}

func (repo schoolRepository) CourseIDsByClass(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]int, error) {
	ids := make([]int, 0)
	err := getExec(repo.exec, exec).SelectContext(ctx, &ids,
		`SELECT id FROM courses WHERE class_id = ?`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class course IDs")
	}
	return ids, nil
}

// Announcements

func (repo schoolRepository) QueryAnnouncements(ctx context.Context, exec ...core.DBExecutor) ([]school.Announcement, error) {
	anns := make([]school.Announcement, 0)
	q := `SELECT id, title, message, target_role, created_at FROM announcements ORDER BY created_at DESC`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &anns, q); err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	return anns, nil
}

func (repo schoolRepository) CreateAnnouncement(ctx context.Context, na school.NewAnnouncement, exec ...core.DBExecutor) (int, error) {
	var id int
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`INSERT INTO announcements (title, message, target_role) VALUES (?, ?, ?) RETURNING id`,
		na.Title, na.Message, na.TargetRole).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "inserting announcement")
	}
	return id, nil
}

func (repo schoolRepository) DeleteAnnouncement(ctx context.Context, id int, exec ...core.DBExecutor) (int64, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	if err != nil {
		return 0, errors.Wrap(err, "deleting announcement")
	}
	return res.RowsAffected()
}

// Orientations

func (repo schoolRepository) QueryOrientations(ctx context.Context, exec ...core.DBExecutor) ([]school.Orientation, error) {
	ors := make([]school.Orientation, 0)
	q := `SELECT id, title, description, date, location, created_at FROM orientations ORDER BY date`
	if err := getExec(repo.exec, exec).SelectContext(ctx, &ors, q); err != nil {
		return nil, errors.Wrap(err, "querying orientations")
	}
	return ors, nil
}

func (repo schoolRepository) OrientationExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orientations WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking orientation")
	}
	return exists, nil
}

func (repo schoolRepository) CreateOrientation(ctx context.Context, no school.NewOrientation, exec ...core.DBExecutor) (int, error) {
	var id int
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`INSERT INTO orientations (title, description, date, location) VALUES (?, ?, ?, ?) RETURNING id`,
		no.Title, no.Description, no.Date, no.Location).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "inserting orientation")
	}
	return id, nil
}

func (repo schoolRepository) OrientationEnrollmentExists(ctx context.Context, orientationID, studentID int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orientation_enrollments WHERE orientation_id = ? AND student_id = ?)`,
		orientationID, studentID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking orientation enrollment")
	}
	return exists, nil
}

func (repo schoolRepository) CreateOrientationEnrollment(ctx context.Context, orientationID, studentID int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO orientation_enrollments (orientation_id, student_id) VALUES (?, ?)`,
		orientationID, studentID)
	if isUniqueViolation(err, "orientation_enrollments.orientation_id") {
		return school.ErrAlreadyEnrolled
	}
	return errors.Wrap(err, "inserting orientation enrollment")
}

func (repo schoolRepository) DeleteOrientationEnrollment(ctx context.Context, orientationID, studentID int, exec ...core.DBExecutor) (int64, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx,
		`DELETE FROM orientation_enrollments WHERE orientation_id = ? AND student_id = ?`,
		orientationID, studentID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting orientation enrollment")
	}
	return res.RowsAffected()
}
