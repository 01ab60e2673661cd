package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/storage/database"
)

func TestMigrate(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	// all tables present
	var count int
	err = db.Get(&count, `
SELECT COUNT(*) FROM sqlite_master
WHERE type = 'table' AND name IN (
	'users', 'classes', 'courses', 'student_enrollments', 'teacher_enrollments',
	'attendance', 'grades', 'announcements', 'orientations', 'orientation_enrollments',
	'contact_messages', 'student_surveys', 'course_payments', 'teacher_payments'
)`)
	require.NoError(t, err)
	require.Equal(t, 14, count)

	// reruns are no-ops
	require.NoError(t, database.Migrate(db))
}

func TestOpen_foreignKeysOnEveryConnection(t *testing.T) {
	conf := &core.Config{}
	conf.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(conf)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db))

	ctx := context.Background()

	// hold the first connection so the second statement gets a fresh one
	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	const q = `INSERT INTO student_enrollments (student_id, course_id, status) VALUES (999, 999, 'approved')`
	_, err = conn.ExecContext(ctx, q)
	require.Error(t, err)
	require.Contains(t, err.Error(), "FOREIGN KEY")

	conn2, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn2.Close()

	_, err = conn2.ExecContext(ctx, q)
	require.Error(t, err)
	require.Contains(t, err.Error(), "FOREIGN KEY")
}
