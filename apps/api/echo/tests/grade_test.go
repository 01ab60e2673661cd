package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shulehq/shule/core/grade"
	"github.com/shulehq/shule/core/user"
	testutil "github.com/shulehq/shule/tests"
)

func Test_gradeAPI(t *testing.T) {
	testutil.ResetDB(t, db)

	crs := testutil.CreateCourse(t, schoolRepo, "Mathematics", nil)
	student := testutil.CreateUser(t, usrRepo, "Asha", "asha@test.tz", "pass1234", user.RoleStudent, user.StatusApproved, nil)

	entry := func(g, outOf interface{}) []byte {
		return marshallObj(t, map[string]interface{}{
			"course_id": crs.ID, "student_id": student.ID, "grade": g, "out_of": outOf,
		})
	}

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/grades",
			body:     marshallObj(t, map[string]interface{}{"course_id": crs.ID}),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "Missing required fields"),
		},
		{
			name: "out_of zero", method: http.MethodPost, path: "/grades",
			body:     entry(10, 0),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "out_of must be greater than zero"),
		},
		{
			name: "grade above out_of", method: http.MethodPost, path: "/grades",
			body:     entry(25, 20),
			wantCode: http.StatusBadRequest,
			wantData: failureBody(t, "grade must be between 0 and out_of"),
		},
		{
			name: "zero grade is valid", method: http.MethodPost, path: "/grades",
			body:     entry(0, 20),
			wantCode: http.StatusCreated,
		},
		{
			name: "ok", method: http.MethodPost, path: "/grades",
			body:     entry(15, 20),
			wantCode: http.StatusCreated,
		},
	}
	runTable(t, tests)

	rec := do(http.MethodGet, fmt.Sprintf("/courses/%d/grades", crs.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want 200", rec.Code)
	}
	var grades []grade.Grade
	if err := json.Unmarshal(rec.Body.Bytes(), &grades); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(grades) != 2 {
		t.Fatalf("grades = %d; want 2", len(grades))
	}

	rec = do(http.MethodGet, fmt.Sprintf("/students/%d/grades", student.ID))
	grades = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &grades); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(grades) != 2 {
		t.Fatalf("grades = %d; want 2", len(grades))
	}
	for _, g := range grades {
		switch g.Grade {
		case 0:
			if g.Percentage != 0 {
				t.Errorf("percentage = %v; want 0", g.Percentage)
			}
		case 15:
			if g.Percentage != 75 {
				t.Errorf("percentage = %v; want 75", g.Percentage)
			}
		}
		if g.CourseTitle.String != "Mathematics" {
			t.Errorf("course_title = %q; want Mathematics", g.CourseTitle.String)
		}
	}
}
