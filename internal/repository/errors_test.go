package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stemsi/notes-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestStorageError_Classification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "foreign key violation",
			err:        &pgconn.PgError{Code: "23503", Message: "insert or update on table \"subject\" violates foreign key constraint", Detail: "Key (course_id)=(99) is not present in table \"course\"."},
			wantStatus: http.StatusBadRequest,
			wantDetail: "insert or update on table \"subject\" violates foreign key constraint: Key (course_id)=(99) is not present in table \"course\".",
		},
		{
			name:       "not null violation",
			err:        fmt.Errorf("query: %w", &pgconn.PgError{Code: "23502", Message: "null value in column \"course_name\""}),
			wantStatus: http.StatusBadRequest,
			wantDetail: "null value in column \"course_name\"",
		},
		{
			name:       "undefined table",
			err:        &pgconn.PgError{Code: "42P01", Message: "relation \"course\" does not exist"},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "relation \"course\" does not exist",
		},
		{
			name:       "context canceled",
			err:        context.Canceled,
			wantStatus: http.StatusInternalServerError,
			wantDetail: "context canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storageError(opCreate, tt.err)
			assert.Equal(t, "Error while creating the item", got.Message)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantDetail, got.Details)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestStorageError_PassesThroughDBError(t *testing.T) {
	nf := NotFound(42)
	got := storageError(opUpdate, fmt.Errorf("tx: %w", nf))

	assert.Same(t, nf, got)
	assert.True(t, errors.Is(got, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, got.StatusCode)
	assert.Equal(t, "Item with ID 42 not found", got.Details)
}

func TestTables_ColumnsMatchValues(t *testing.T) {
	assert.Len(t, Courses.Values(new(model.Course)), len(Courses.Columns))
	assert.Len(t, Subjects.Values(new(model.Subject)), len(Subjects.Columns))
	assert.Len(t, Contents.Values(new(model.Content)), len(Contents.Columns))

	c := model.Content{ID: 9}
	assert.Equal(t, 9, *Contents.Key(&c))
}
