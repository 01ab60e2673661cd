package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/shulehq/shule/core/school"
	"github.com/shulehq/shule/core/user"
	"github.com/shulehq/shule/storage/database"
)

// OpenDB opens a fresh in-memory store with the full schema applied.
func OpenDB() (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", database.DSN(":memory:"))
	if err != nil {
		return nil, err
	}
	// a single conn keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)
	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB()
	if err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// tables in FK-safe deletion order
var tables = []string{
	"student_surveys",
	"contact_messages",
	"orientation_enrollments",
	"orientations",
	"announcements",
	"grades",
	"attendance",
	"teacher_enrollments",
	"student_enrollments",
	"course_payments",
	"teacher_payments",
	"courses",
	"users",
	"classes",
}

func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("ResetDB(%s): %v", table, err)
		}
	}
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd, role, status string, selectedClass *int64) user.User {
	t.Helper()
	usr := user.User{
		RegistrationID: "REG-" + email,
		Name:           name,
		Email:          email,
		Role:           role,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
	if selectedClass != nil {
		usr.SelectedClass.SetValid(*selectedClass)
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func CreateClass(t *testing.T, repo school.Repository, name string) school.Class {
	t.Helper()
	class, err := repo.CreateClass(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateClass(): %v", err)
	}
	return class
}

func CreateCourse(t *testing.T, repo school.Repository, title string, classID *int) school.Course {
	t.Helper()
	price := int64(100)
	nc := school.NewCourse{
		Title:       title,
		Description: title + " description",
		Price:       &price,
		BannerPic:   "banner.png",
		Schedule:    []school.ScheduleSlot{{Day: "Monday", StartTime: "08:00", EndTime: "10:00"}},
	}
	crs, err := repo.CreateCourse(context.Background(), nc, classID)
	if err != nil {
		t.Fatalf("CreateCourse(): %v", err)
	}
	return crs
}
