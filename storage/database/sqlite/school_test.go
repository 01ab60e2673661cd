package sqliterepos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehq/shule/core/school"
	sqliterepos "github.com/shulehq/shule/storage/database/sqlite"
	testutil "github.com/shulehq/shule/tests"
)

func TestSchoolRepository_scheduleRoundTrip(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqliterepos.NewSchoolRepository(db)
	ctx := context.Background()

	price := int64(100)
	crs, err := repo.CreateCourse(ctx, school.NewCourse{
		Title:       "Mathematics",
		Description: "Numbers",
		Price:       &price,
		BannerPic:   "math.png",
		Schedule: []school.ScheduleSlot{
			{Day: "Monday", StartTime: "08:00", EndTime: "10:00"},
			{Day: "Thursday", StartTime: "14:00", EndTime: "15:30"},
		},
	}, nil)
	require.NoError(t, err)

	got, err := repo.GetCourse(ctx, crs.ID)
	require.NoError(t, err)
	require.Len(t, got.Schedule, 2)
	assert.Equal(t, "Monday", got.Schedule[0].Day)
	assert.Equal(t, "15:30", got.Schedule[1].EndTime)
}

func TestSchoolRepository_unparsableScheduleFallsBack(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqliterepos.NewSchoolRepository(db)
	ctx := context.Background()

	var id int
	err := db.QueryRowx(
		`INSERT INTO courses (title, description, price, banner_pic, schedule) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		"Broken", "bad schedule text", 0, "", "not json at all").Scan(&id)
	require.NoError(t, err)

	got, err := repo.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, got.Schedule)
	assert.Empty(t, got.Schedule)
}

func TestSchoolRepository_courseIDsByClass(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqliterepos.NewSchoolRepository(db)
	ctx := context.Background()

	class := testutil.CreateClass(t, repo, "Form One")
	crs1 := testutil.CreateCourse(t, repo, "Mathematics", &class.ID)
	crs2 := testutil.CreateCourse(t, repo, "Kiswahili", &class.ID)
	testutil.CreateCourse(t, repo, "Unattached", nil)

	ids, err := repo.CourseIDsByClass(ctx, int64(class.ID))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{crs1.ID, crs2.ID}, ids)
}
