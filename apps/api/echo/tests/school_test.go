package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shulehq/shule/core/school"
	"github.com/shulehq/shule/core/user"
	testutil "github.com/shulehq/shule/tests"
)

func Test_schoolAPI_classes(t *testing.T) {
	testutil.ResetDB(t, db)

	rec := do(http.MethodPost, "/classes", marshallObj(t, map[string]string{"name": ""}))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: failureBody(t, "Class name is required"),
	}, rec)

	rec = do(http.MethodPost, "/classes", marshallObj(t, map[string]string{"name": "Form One"}))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusCreated,
		wantData: marshallObj(t, map[string]interface{}{"success": true}),
	}, rec)

	rec = do(http.MethodGet, "/classes")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want 200", rec.Code)
	}
	var classes []school.Class
	if err := json.Unmarshal(rec.Body.Bytes(), &classes); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(classes) != 1 || classes[0].Name != "Form One" {
		t.Fatalf("classes = %+v; want one class named Form One", classes)
	}
	if classes[0].Courses == nil || len(classes[0].Courses) != 0 {
		t.Errorf("courses = %+v; want empty list", classes[0].Courses)
	}

	testutil.CreateCourse(t, schoolRepo, "Mathematics", &classes[0].ID)

	rec = do(http.MethodGet, "/classes")
	classes = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &classes); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(classes[0].Courses) != 1 || classes[0].Courses[0].Title != "Mathematics" {
		t.Errorf("courses = %+v; want Mathematics", classes[0].Courses)
	}

	rec = do(http.MethodDelete, "/classes/999")
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: failureBody(t, "Class not found"),
	}, rec)

	rec = do(http.MethodDelete, fmt.Sprintf("/classes/%d", classes[0].ID))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, map[string]interface{}{"success": true}),
	}, rec)

	// the class's course survives, detached
	crs, err := schoolRepo.QueryCourses(context.Background())
	if err != nil {
		t.Fatalf("QueryCourses(): %v", err)
	}
	if len(crs) != 1 {
		t.Fatalf("courses = %d; want 1", len(crs))
	}
	if crs[0].ClassID.Valid {
		t.Errorf("class_id = %+v; want null", crs[0].ClassID)
	}
}

func Test_schoolAPI_classCourses(t *testing.T) {
	testutil.ResetDB(t, db)

	class := testutil.CreateClass(t, schoolRepo, "Form Three")
	orphan := testutil.CreateCourse(t, schoolRepo, "Chemistry", nil)

	newCourse := marshallObj(t, map[string]interface{}{
		"title":       "Biology",
		"description": "Cells and such",
		"price":       120,
		"bannerPic":   "bio.png",
		"schedule":    []map[string]string{{"day": "Tuesday", "startTime": "10:00", "endTime": "12:00"}},
	})

	tests := []httpTest{
		{
			name: "class not found", method: http.MethodPost, path: "/classes/999/courses",
			body:     newCourse,
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "Class not found"),
		},
		{
			name: "create in class", method: http.MethodPost,
			path:     fmt.Sprintf("/classes/%d/courses", class.ID),
			body:     newCourse,
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, map[string]interface{}{"success": true}),
		},
		{
			name: "attach existing", method: http.MethodPost,
			path:     fmt.Sprintf("/classes/%d/courses", class.ID),
			body:     marshallObj(t, map[string]interface{}{"courseId": orphan.ID}),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"success": true}),
		},
		{
			name: "attach unknown course", method: http.MethodPost,
			path:     fmt.Sprintf("/classes/%d/courses", class.ID),
			body:     marshallObj(t, map[string]interface{}{"courseId": 999}),
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "Course not found"),
		},
		{
			name: "missing fields", method: http.MethodPost,
			path:     fmt.Sprintf("/classes/%d/courses", class.ID),
			body:     marshallObj(t, map[string]interface{}{"title": "No details"}),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "Missing required fields"),
		},
	}
	runTable(t, tests)

	rec := do(http.MethodGet, fmt.Sprintf("/classes/%d/courses", class.ID))
	var courses []school.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &courses); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("courses = %d; want 2", len(courses))
	}

	rec = do(http.MethodDelete, fmt.Sprintf("/classes/%d/courses/%d", class.ID, orphan.ID))
	if rec.Code != http.StatusNoContent {
		t.Errorf("code = %d; want 204", rec.Code)
	}

	rec = do(http.MethodDelete, fmt.Sprintf("/classes/%d/courses/%d", class.ID, orphan.ID))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: failureBody(t, "Course not found in this class"),
	}, rec)
}

func Test_schoolAPI_courses(t *testing.T) {
	testutil.ResetDB(t, db)

	rec := do(http.MethodPost, "/courses", marshallObj(t, map[string]interface{}{"title": "No details"}))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: failureBody(t, "Missing required fields"),
	}, rec)

	rec = do(http.MethodPost, "/courses", marshallObj(t, map[string]interface{}{
		"title":       "History",
		"description": "From the beginning",
		"price":       80,
		"bannerPic":   "history.png",
		"schedule":    []map[string]string{{"day": "Friday", "startTime": "08:00", "endTime": "09:30"}},
	}))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusCreated,
		wantData: marshallObj(t, map[string]interface{}{"success": true}),
	}, rec)

	rec = do(http.MethodGet, "/courses")
	var courses []school.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &courses); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("courses = %d; want 1", len(courses))
	}
	crs := courses[0]
	if len(crs.Schedule) != 1 || crs.Schedule[0].Day != "Friday" {
		t.Errorf("schedule = %+v; want the Friday slot", crs.Schedule)
	}

	rec = do(http.MethodGet, fmt.Sprintf("/courses/%d", crs.ID))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

	rec = do(http.MethodGet, "/courses/999")
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: failureBody(t, "Course not found"),
	}, rec)

	rec = do(http.MethodDelete, fmt.Sprintf("/courses/%d", crs.ID))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, map[string]interface{}{"success": true}),
	}, rec)
}

func Test_schoolAPI_teacherCourses(t *testing.T) {
	testutil.ResetDB(t, db)
	ctx := context.Background()

	class := testutil.CreateClass(t, schoolRepo, "Form Four")
	crs := testutil.CreateCourse(t, schoolRepo, "Geography", &class.ID)
	teacher := testutil.CreateUser(t, usrRepo, "Mwalimu", "mwalimu@test.tz", "pass1234", user.RoleTeacher, user.StatusApproved, nil)

	if err := enrollRepo.CreateTeacherEnrollment(ctx, teacher.ID, crs.ID); err != nil {
		t.Fatalf("CreateTeacherEnrollment(): %v", err)
	}

	rec := do(http.MethodGet, "/courses/teacher")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want 200; body %s", rec.Code, rec.Body.String())
	}
	var courses []school.TeacherCourse
	if err := json.Unmarshal(rec.Body.Bytes(), &courses); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("courses = %d; want 1", len(courses))
	}
	if courses[0].ClassName.String != "Form Four" {
		t.Errorf("class_name = %q; want Form Four", courses[0].ClassName.String)
	}
	if len(courses[0].EnrolledTeachers) != 1 || courses[0].EnrolledTeachers[0] != teacher.ID {
		t.Errorf("enrolledTeachers = %v; want [%d]", courses[0].EnrolledTeachers, teacher.ID)
	}

	rec = do(http.MethodGet, fmt.Sprintf("/teacher/%d/schedule", teacher.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want 200", rec.Code)
	}
	var entries []school.ScheduleEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Geography" {
		t.Errorf("schedule = %+v; want the Geography entry", entries)
	}

	rec = do(http.MethodGet, fmt.Sprintf("/teachers/%d/courses", teacher.ID))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)
}

func Test_schoolAPI_announcements(t *testing.T) {
	testutil.ResetDB(t, db)

	rec := do(http.MethodPost, "/announcements", marshallObj(t, map[string]string{"title": "No body"}))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: failureBody(t, "Missing required fields"),
	}, rec)

	rec = do(http.MethodPost, "/announcements", marshallObj(t, map[string]string{
		"title":      "Exams",
		"message":    "Exams start Monday",
		"targetRole": "student",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d; want 201", rec.Code)
	}
	var created struct {
		Success bool `json:"success"`
		ID      int  `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !created.Success || created.ID == 0 {
		t.Fatalf("created = %+v", created)
	}

	rec = do(http.MethodGet, "/announcements")
	var anns []school.Announcement
	if err := json.Unmarshal(rec.Body.Bytes(), &anns); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(anns) != 1 || anns[0].Title != "Exams" {
		t.Errorf("announcements = %+v; want Exams", anns)
	}

	rec = do(http.MethodDelete, "/announcements/999")
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: failureBody(t, "Announcement not found"),
	}, rec)

	rec = do(http.MethodDelete, fmt.Sprintf("/announcements/%d", created.ID))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, map[string]interface{}{"success": true}),
	}, rec)
}

func Test_schoolAPI_orientations(t *testing.T) {
	testutil.ResetDB(t, db)

	student := testutil.CreateUser(t, usrRepo, "Juma", "juma@test.tz", "pass1234", user.RoleStudent, user.StatusApproved, nil)

	rec := do(http.MethodPost, "/orientations", marshallObj(t, map[string]string{
		"title":    "Welcome Day",
		"date":     "2026-09-07",
		"location": "Main Hall",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d; want 201; body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	enrollBody := marshallObj(t, map[string]int{"studentId": student.ID})

	tests := []httpTest{
		{
			name: "enroll unknown orientation", method: http.MethodPost,
			path: "/orientations/999/enroll", body: enrollBody,
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "Orientation not found"),
		},
		{
			name: "enroll ok", method: http.MethodPost,
			path: fmt.Sprintf("/orientations/%d/enroll", created.ID), body: enrollBody,
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, map[string]interface{}{"success": true}),
		},
		{
			name: "enroll duplicate", method: http.MethodPost,
			path: fmt.Sprintf("/orientations/%d/enroll", created.ID), body: enrollBody,
			wantCode: http.StatusConflict,
			wantData: failureBody(t, "Already enrolled in this orientation"),
		},
		{
			name: "drop ok", method: http.MethodDelete,
			path:     fmt.Sprintf("/orientations/%d/enroll/%d", created.ID, student.ID),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"success": true}),
		},
		{
			name: "drop again", method: http.MethodDelete,
			path:     fmt.Sprintf("/orientations/%d/enroll/%d", created.ID, student.ID),
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "Enrollment not found"),
		},
	}
	runTable(t, tests)
}
