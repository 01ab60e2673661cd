package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shulehq/shule/core/enrollment"
	"github.com/shulehq/shule/core/user"
	testutil "github.com/shulehq/shule/tests"
)

func Test_userAPI_register(t *testing.T) {
	testutil.ResetDB(t, db)

	reg := func(regID, name, email, role string) []byte {
		return marshallObj(t, map[string]interface{}{
			"registrationId": regID,
			"name":           name,
			"email":          email,
			"phone":          "+255700000001",
			"password":       "s3cr3t!",
			"role":           role,
		})
	}

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/register",
			body:     marshallObj(t, map[string]interface{}{"name": "Asha"}),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "Missing required fields"),
		},
		{
			name: "invalid email", method: http.MethodPost, path: "/register",
			body:     reg("REG-001", "Asha Juma", "not-an-email", "student"),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "Invalid email format"),
		},
		{
			name: "ok", method: http.MethodPost, path: "/register",
			body:     reg("REG-001", "Asha Juma", "asha@test.tz", "student"),
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, map[string]interface{}{"success": true, "registrationId": "REG-001"}),
		},
		{
			name: "duplicate email", method: http.MethodPost, path: "/register",
			body:     reg("REG-002", "Asha Again", "asha@test.tz", "student"),
			wantCode: http.StatusConflict,
			wantData: failureBody(t, "This email is already registered"),
		},
	}
	runTable(t, tests)
}

func Test_userAPI_login(t *testing.T) {
	testutil.ResetDB(t, db)

	approved := testutil.CreateUser(t, usrRepo, "Neema", "neema@test.tz", "pass1234", user.RoleTeacher, user.StatusApproved, nil)
	testutil.CreateUser(t, usrRepo, "Pending", "pending@test.tz", "pass1234", user.RoleStudent, user.StatusPending, nil)

	creds := func(email, pwd string) []byte {
		return marshallObj(t, map[string]string{"email": email, "password": pwd})
	}

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/login",
			body:     creds("", ""),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "Email and password are required"),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/login",
			body:     creds("nobody@test.tz", "pass1234"),
			wantCode: http.StatusUnauthorized,
			wantData: failureBody(t, "Invalid email or password"),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/login",
			body:     creds("neema@test.tz", "nope"),
			wantCode: http.StatusUnauthorized,
			wantData: failureBody(t, "Invalid email or password"),
		},
		{
			name: "pending account", method: http.MethodPost, path: "/login",
			body:     creds("pending@test.tz", "pass1234"),
			wantCode: http.StatusForbidden,
			wantData: failureBody(t, "Your account is pending approval"),
		},
		{
			name: "ok", method: http.MethodPost, path: "/login",
			body:     creds("neema@test.tz", "pass1234"),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{
				"success": true,
				"user":    approved.Public(),
			}),
		},
	}
	runTable(t, tests)
}

func Test_userAPI_approvalCascade(t *testing.T) {
	testutil.ResetDB(t, db)
	ctx := context.Background()

	class := testutil.CreateClass(t, schoolRepo, "Form One")
	crs1 := testutil.CreateCourse(t, schoolRepo, "Mathematics", &class.ID)
	crs2 := testutil.CreateCourse(t, schoolRepo, "Kiswahili", &class.ID)

	classID := int64(class.ID)
	student := testutil.CreateUser(t, usrRepo, "Juma", "juma@test.tz", "pass1234", user.RoleStudent, user.StatusPending, &classID)

	// an enrollment that predates approval must survive it
	if err := enrollRepo.CreateStudentEnrollment(ctx, student.ID, crs1.ID, enrollment.StatusPending); err != nil {
		t.Fatalf("CreateStudentEnrollment(): %v", err)
	}

	rec := do(http.MethodPut, "/registrations/"+student.RegistrationID+"/status",
		marshallObj(t, map[string]string{"status": "approved"}))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, map[string]interface{}{"success": true}),
	}, rec)

	enrs, err := enrollRepo.QueryStudentEnrollments(ctx, student.ID)
	if err != nil {
		t.Fatalf("QueryStudentEnrollments(): %v", err)
	}
	if len(enrs) != 2 {
		t.Fatalf("enrollments = %d; want 2", len(enrs))
	}
	byCourse := make(map[int]string, len(enrs))
	for _, enr := range enrs {
		byCourse[enr.CourseID] = enr.Status
	}
	if byCourse[crs1.ID] != enrollment.StatusPending {
		t.Errorf("existing enrollment status = %q; want %q", byCourse[crs1.ID], enrollment.StatusPending)
	}
	if byCourse[crs2.ID] != enrollment.StatusApproved {
		t.Errorf("new enrollment status = %q; want %q", byCourse[crs2.ID], enrollment.StatusApproved)
	}
}

func Test_userAPI_rejectionPurge(t *testing.T) {
	testutil.ResetDB(t, db)
	ctx := context.Background()

	crs := testutil.CreateCourse(t, schoolRepo, "Physics", nil)
	student := testutil.CreateUser(t, usrRepo, "Rehema", "rehema@test.tz", "pass1234", user.RoleStudent, user.StatusPending, nil)

	if err := enrollRepo.CreateStudentEnrollment(ctx, student.ID, crs.ID, enrollment.StatusApproved); err != nil {
		t.Fatalf("CreateStudentEnrollment(): %v", err)
	}
	if err := attRepo.CreateRecord(ctx, crs.ID, student.ID, "2026-03-02", true); err != nil {
		t.Fatalf("CreateRecord(): %v", err)
	}

	rec := do(http.MethodPut, "/registrations/"+student.RegistrationID+"/status",
		marshallObj(t, map[string]string{"status": "rejected"}))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

	if _, err := usrRepo.GetUserByID(ctx, student.ID); err == nil {
		t.Error("rejected user still exists")
	}
	enrs, err := enrollRepo.QueryStudentEnrollments(ctx, student.ID)
	if err != nil {
		t.Fatalf("QueryStudentEnrollments(): %v", err)
	}
	if len(enrs) != 0 {
		t.Errorf("enrollments = %d; want 0", len(enrs))
	}
	records, err := attRepo.QueryByStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("QueryByStudent(): %v", err)
	}
	if len(records) != 0 {
		t.Errorf("attendance records = %d; want 0", len(records))
	}
}

func Test_userAPI_registrations(t *testing.T) {
	testutil.ResetDB(t, db)

	pending := testutil.CreateUser(t, usrRepo, "Pending", "p@test.tz", "pass1234", user.RoleStudent, user.StatusPending, nil)
	testutil.CreateUser(t, usrRepo, "Approved", "a@test.tz", "pass1234", user.RoleTeacher, user.StatusApproved, nil)

	rec := do(http.MethodGet, "/registrations/pending")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want 200", rec.Code)
	}
	var users []user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(users) != 1 || users[0].Email != "p@test.tz" {
		t.Errorf("pending = %+v; want the single pending user", users)
	}

	rec = do(http.MethodGet, "/registrations/approved")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want 200", rec.Code)
	}
	users = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(users) != 1 || users[0].Email != "a@test.tz" {
		t.Errorf("approved = %+v; want the single approved user", users)
	}

	tests := []httpTest{
		{
			name: "invalid status", method: http.MethodPut,
			path:     "/registrations/" + pending.RegistrationID + "/status",
			body:     marshallObj(t, map[string]string{"status": "lol"}),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "Invalid status"),
		},
		{
			name: "unknown registration", method: http.MethodPut,
			path:     "/registrations/REG-nope/status",
			body:     marshallObj(t, map[string]string{"status": "approved"}),
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "User not found"),
		},
		{
			name: "delete unknown", method: http.MethodDelete,
			path:     "/registrations/REG-nope",
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "Registration not found"),
		},
		{
			name: "delete ok", method: http.MethodDelete,
			path:     "/registrations/" + pending.RegistrationID,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"success": true}),
		},
	}
	runTable(t, tests)
}

func Test_userAPI_registrationStatus(t *testing.T) {
	testutil.ResetDB(t, db)

	pending := testutil.CreateUser(t, usrRepo, "Pending", "p@test.tz", "pass1234", user.RoleStudent, user.StatusPending, nil)
	approved := testutil.CreateUser(t, usrRepo, "Approved", "a@test.tz", "pass1234", user.RoleStudent, user.StatusApproved, nil)

	tests := []httpTest{
		{
			name: "unknown registration", method: http.MethodGet,
			path:     "/registrations/REG-nope/status",
			wantCode: http.StatusNotFound,
			wantData: failureBody(t, "User not found"),
		},
		{
			name: "pending", method: http.MethodGet,
			path:     "/registrations/" + pending.RegistrationID + "/status",
			wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"success": true, "status": user.StatusPending}),
		},
		{
			name: "approved", method: http.MethodGet,
			path:     "/registrations/" + approved.RegistrationID + "/status",
			wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"success": true, "status": user.StatusApproved}),
		},
	}
	runTable(t, tests)
}

func Test_userAPI_applications(t *testing.T) {
	testutil.ResetDB(t, db)
	ctx := context.Background()

	class := testutil.CreateClass(t, schoolRepo, "Form Two")
	student := testutil.CreateUser(t, usrRepo, "Zawadi", "zawadi@test.tz", "pass1234", user.RoleStudent, user.StatusApproved, nil)
	teacher := testutil.CreateUser(t, usrRepo, "Mwalimu", "mwalimu@test.tz", "pass1234", user.RoleTeacher, user.StatusApproved, nil)

	rec := do(http.MethodPost, "/student-application", marshallObj(t, map[string]interface{}{
		"userId":            student.ID,
		"selectedClass":     class.ID,
		"documents":         "ZG9jcw==",
		"bankName":          "CRDB",
		"accountNumber":     "0150000000",
		"accountHolderName": "Zawadi",
		"registrationFee":   50000,
	}))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, map[string]interface{}{"success": true, "message": "Application submitted successfully"}),
	}, rec)

	usr, err := usrRepo.GetUserByID(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetUserByID(): %v", err)
	}
	if !usr.SelectedClass.Valid || usr.SelectedClass.Int64 != int64(class.ID) {
		t.Errorf("selected_class = %+v; want %d", usr.SelectedClass, class.ID)
	}
	if usr.Status != user.StatusPending {
		t.Errorf("status = %q; want %q", usr.Status, user.StatusPending)
	}

	rec = do(http.MethodPost, "/teacher-application", marshallObj(t, map[string]interface{}{
		"userId":    teacher.ID,
		"documents": "Y3JlZGVudGlhbHM=",
	}))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

	rec = do(http.MethodPost, "/teacher-application", marshallObj(t, map[string]interface{}{
		"userId": teacher.ID,
	}))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: failureBody(t, "Missing required fields"),
	}, rec)
}
