package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shulehq/shule/core/enrollment"
	"github.com/shulehq/shule/core/user"
	testutil "github.com/shulehq/shule/tests"
)

func Test_enrollmentAPI_students(t *testing.T) {
	testutil.ResetDB(t, db)

	crs := testutil.CreateCourse(t, schoolRepo, "Mathematics", nil)
	student := testutil.CreateUser(t, usrRepo, "Asha", "asha@test.tz", "pass1234", user.RoleStudent, user.StatusApproved, nil)

	body := marshallObj(t, map[string]int{"studentId": student.ID, "courseId": crs.ID})

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/student-enrollments",
			body:     marshallObj(t, map[string]int{"studentId": student.ID}),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "Student ID and Course ID are required"),
		},
		{
			name: "ok", method: http.MethodPost, path: "/student-enrollments",
			body:     body,
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, map[string]interface{}{"success": true}),
		},
		{
			name: "duplicate", method: http.MethodPost, path: "/student-enrollments",
			body:     body,
			wantCode: http.StatusConflict,
			wantData: failureBody(t, "Already enrolled in this course"),
		},
	}
	runTable(t, tests)

	rec := do(http.MethodGet, fmt.Sprintf("/students/%d/enrollments", student.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want 200", rec.Code)
	}
	var enrs []enrollment.StudentEnrollment
	if err := json.Unmarshal(rec.Body.Bytes(), &enrs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(enrs) != 1 {
		t.Fatalf("enrollments = %d; want 1", len(enrs))
	}
	if enrs[0].Status != enrollment.StatusPending {
		t.Errorf("status = %q; want %q", enrs[0].Status, enrollment.StatusPending)
	}
	if enrs[0].Title.String != "Mathematics" {
		t.Errorf("title = %q; want Mathematics", enrs[0].Title.String)
	}

	rec = do(http.MethodDelete, fmt.Sprintf("/student-enrollments/%d/%d", student.ID, crs.ID))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, map[string]interface{}{"success": true}),
	}, rec)
}

func Test_enrollmentAPI_courseRosters(t *testing.T) {
	testutil.ResetDB(t, db)
	ctx := context.Background()

	crs := testutil.CreateCourse(t, schoolRepo, "Kiswahili", nil)
	approved := testutil.CreateUser(t, usrRepo, "Neema", "neema@test.tz", "pass1234", user.RoleStudent, user.StatusApproved, nil)
	pending := testutil.CreateUser(t, usrRepo, "Juma", "juma@test.tz", "pass1234", user.RoleStudent, user.StatusApproved, nil)
	teacher := testutil.CreateUser(t, usrRepo, "Mwalimu", "mwalimu@test.tz", "pass1234", user.RoleTeacher, user.StatusApproved, nil)

	if err := enrollRepo.CreateStudentEnrollment(ctx, approved.ID, crs.ID, enrollment.StatusApproved); err != nil {
		t.Fatalf("CreateStudentEnrollment(): %v", err)
	}
	if err := enrollRepo.CreateStudentEnrollment(ctx, pending.ID, crs.ID, enrollment.StatusPending); err != nil {
		t.Fatalf("CreateStudentEnrollment(): %v", err)
	}
	if err := enrollRepo.CreateTeacherEnrollment(ctx, teacher.ID, crs.ID); err != nil {
		t.Fatalf("CreateTeacherEnrollment(): %v", err)
	}

	// only approved students
	rec := do(http.MethodGet, fmt.Sprintf("/courses/%d/students", crs.ID))
	var students []enrollment.CourseMember
	if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(students) != 1 || students[0].ID != approved.ID {
		t.Errorf("students = %+v; want only the approved one", students)
	}

	// everyone, students first
	rec = do(http.MethodGet, fmt.Sprintf("/courses/%d/enrollments", crs.ID))
	var members []enrollment.CourseMember
	if err := json.Unmarshal(rec.Body.Bytes(), &members); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("members = %d; want 3", len(members))
	}
	if members[len(members)-1].EnrollmentType != "teacher" {
		t.Errorf("last member = %+v; want the teacher", members[len(members)-1])
	}

	rec = do(http.MethodDelete, fmt.Sprintf("/courses/%d/enrollments/%d", crs.ID, teacher.ID))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, map[string]interface{}{"success": true}),
	}, rec)

	rec = do(http.MethodDelete, fmt.Sprintf("/courses/%d/enrollments/%d", crs.ID, 999))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: failureBody(t, "User not found"),
	}, rec)
}

func Test_enrollmentAPI_teachers(t *testing.T) {
	testutil.ResetDB(t, db)

	crs := testutil.CreateCourse(t, schoolRepo, "Physics", nil)
	teacher := testutil.CreateUser(t, usrRepo, "Mwalimu", "mwalimu@test.tz", "pass1234", user.RoleTeacher, user.StatusApproved, nil)
	student := testutil.CreateUser(t, usrRepo, "Asha", "asha@test.tz", "pass1234", user.RoleStudent, user.StatusApproved, nil)

	body := marshallObj(t, map[string]int{"teacherId": teacher.ID, "courseId": crs.ID})

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/teacher-enrollments",
			body:     marshallObj(t, map[string]int{"teacherId": teacher.ID}),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "Teacher ID and Course ID are required"),
		},
		{
			name: "not a teacher", method: http.MethodPost, path: "/teacher-enrollments",
			body:     marshallObj(t, map[string]int{"teacherId": student.ID, "courseId": crs.ID}),
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "Teacher not found or user is not a teacher"),
		},
		{
			name: "unknown course", method: http.MethodPost, path: "/teacher-enrollments",
			body:     marshallObj(t, map[string]int{"teacherId": teacher.ID, "courseId": 999}),
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "Course not found"),
		},
		{
			name: "ok", method: http.MethodPost, path: "/teacher-enrollments",
			body:     body,
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, map[string]interface{}{"success": true, "message": "Teacher enrolled successfully"}),
		},
		{
			name: "duplicate", method: http.MethodPost, path: "/teacher-enrollments",
			body:     body,
			wantCode: http.StatusConflict,
			wantData: failureBody(t, "Teacher is already enrolled in this course"),
		},
	}
	runTable(t, tests)

	rec := do(http.MethodGet, fmt.Sprintf("/teacher-enrollments/%d", teacher.ID))
	var enrs []enrollment.TeacherEnrollment
	if err := json.Unmarshal(rec.Body.Bytes(), &enrs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(enrs) != 1 || enrs[0].CourseID != crs.ID {
		t.Errorf("enrollments = %+v; want the Physics one", enrs)
	}

	rec = do(http.MethodGet, fmt.Sprintf("/teacher-enrollments/%d/courses", teacher.ID))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

	rec = do(http.MethodDelete, fmt.Sprintf("/teacher-enrollments/%d/%d", teacher.ID, crs.ID))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, map[string]interface{}{"success": true, "message": "Enrollment deleted"}),
	}, rec)

	rec = do(http.MethodDelete, fmt.Sprintf("/teacher-enrollments/%d/%d", teacher.ID, crs.ID))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: failureBody(t, "Enrollment not found"),
	}, rec)
}
