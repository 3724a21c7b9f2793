package repository_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/database"
	"github.com/stemsi/notes-backend/internal/model"
	"github.com/stemsi/notes-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	pool     *pgxpool.Pool
	courses  *repository.Repository[model.Course]
	subjects *repository.Repository[model.Subject]
	contents *repository.Repository[model.Content]
}

// newTestRepos connects to TEST_DATABASE_URL, migrates the schema and empties
// the catalog tables. Tests are skipped when no database is configured.
func newTestRepos(t *testing.T) *testRepos {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" || testing.Short() {
		t.Skip("TEST_DATABASE_URL not set; skipping PostgreSQL repository tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")
	t.Cleanup(pool.Close)

	log := zerolog.Nop()
	mg, err := database.NewMigrator(pool, log)
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	mg.Close()

	_, err = pool.Exec(ctx, `TRUNCATE content, subject, course RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to truncate catalog tables")

	return &testRepos{
		pool:     pool,
		courses:  repository.New(pool, repository.Courses, log),
		subjects: repository.New(pool, repository.Subjects, log),
		contents: repository.New(pool, repository.Contents, log),
	}
}

func ptr[T any](v T) *T { return &v }

func TestRepository_SaveAndGet(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	saved, err := r.courses.Save(ctx, &model.Course{CourseName: "Physics", CourseImage: ptr("course/physics.png")})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	got, err := r.courses.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, *saved, *got)
}

func TestRepository_GetMissing(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.courses.Get(context.Background(), 12345)
	require.Error(t, err)

	var dbErr *repository.DBError
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, http.StatusNotFound, dbErr.StatusCode)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_SaveWithUnknownParent(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.subjects.Save(context.Background(), &model.Subject{SubjectName: "Orphan", CourseID: 999})

	var dbErr *repository.DBError
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, http.StatusBadRequest, dbErr.StatusCode)
	assert.Equal(t, "Error while creating the item", dbErr.Message)
}

func TestRepository_UpdateIsPartial(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	course, err := r.courses.Save(ctx, &model.Course{CourseName: "Maths"})
	require.NoError(t, err)
	subject, err := r.subjects.Save(ctx, &model.Subject{SubjectName: "Calculus", CourseID: course.ID})
	require.NoError(t, err)
	content, err := r.contents.Save(ctx, &model.Content{
		ContentTitle: "Limits",
		ContentImage: ptr("content/limits.png"),
		ContentPDF:   ptr("content/limits.pdf"),
		SubjectID:    subject.ID,
	})
	require.NoError(t, err)

	updated, err := r.contents.Update(ctx, content.ID, model.ContentPatch{ContentText: ptr("epsilon-delta")})
	require.NoError(t, err)

	assert.Equal(t, content.ID, updated.ID)
	assert.Equal(t, "Limits", updated.ContentTitle)
	assert.Equal(t, "epsilon-delta", *updated.ContentText)
	assert.Equal(t, "content/limits.png", *updated.ContentImage)
	assert.Equal(t, "content/limits.pdf", *updated.ContentPDF)
	assert.Equal(t, subject.ID, updated.SubjectID)

	_, err = r.contents.Update(ctx, 9999, model.ContentPatch{ContentText: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_ListByFilter(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	maths, err := r.courses.Save(ctx, &model.Course{CourseName: "Maths"})
	require.NoError(t, err)
	physics, err := r.courses.Save(ctx, &model.Course{CourseName: "Physics"})
	require.NoError(t, err)

	for _, s := range []model.Subject{
		{SubjectName: "Algebra", CourseID: maths.ID},
		{SubjectName: "Geometry", CourseID: maths.ID},
		{SubjectName: "Optics", CourseID: physics.ID},
	} {
		_, err := r.subjects.Save(ctx, &s)
		require.NoError(t, err)
	}

	all, err := r.subjects.ListByFilter(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ofMaths, err := r.subjects.ListByFilter(ctx, model.SubjectFilter{CourseID: &maths.ID})
	require.NoError(t, err)
	require.Len(t, ofMaths, 2)
	for _, s := range ofMaths {
		assert.Equal(t, maths.ID, s.CourseID)
	}

	none, err := r.subjects.ListByFilter(ctx, model.SubjectFilter{SubjectName: ptr("Optics"), CourseID: &maths.ID})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_DeleteCascades(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	course, err := r.courses.Save(ctx, &model.Course{CourseName: "Chemistry"})
	require.NoError(t, err)
	subject, err := r.subjects.Save(ctx, &model.Subject{SubjectName: "Organic", CourseID: course.ID})
	require.NoError(t, err)
	content, err := r.contents.Save(ctx, &model.Content{ContentTitle: "Alkanes", SubjectID: subject.ID})
	require.NoError(t, err)

	require.NoError(t, r.courses.Delete(ctx, course.ID))

	_, err = r.subjects.Get(ctx, subject.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.contents.Get(ctx, content.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = r.courses.Delete(ctx, course.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
