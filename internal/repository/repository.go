package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/model"
)

// DB is the subset of pgxpool.Pool (and pgx.Tx) the repository needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository performs CRUD for one entity kind against its table.
type Repository[T model.Entity] struct {
	db    DB
	table Table[T]
	log   zerolog.Logger

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

// New creates a Repository for the kind described by table.
func New[T model.Entity](db DB, table Table[T], log zerolog.Logger) *Repository[T] {
	returning := "id, " + strings.Join(table.Columns, ", ")

	placeholders := make([]string, len(table.Columns))
	assignments := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}

	return &Repository[T]{
		db:    db,
		table: table,
		log:   log.With().Str("component", table.Name+"_repository").Logger(),

		selectSQL: fmt.Sprintf(`SELECT %s FROM %s`, returning, table.Name),
		insertSQL: fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
			table.Name, strings.Join(table.Columns, ", "), strings.Join(placeholders, ", "), returning),
		updateSQL: fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
			table.Name, strings.Join(assignments, ", "), len(table.Columns)+1, returning),
		deleteSQL: fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table.Name),
	}
}

// Get retrieves a row by id.
func (r *Repository[T]) Get(ctx context.Context, id int) (*T, error) {
	item, err := r.queryOne(ctx, r.db, r.selectSQL+` WHERE id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		r.log.Warn().Int("id", id).Msg("Item not found")
		return nil, NotFound(id)
	}
	if err != nil {
		r.log.Error().Err(err).Int("id", id).Msg("Error while reading the item")
		return nil, storageError(opRead, err)
	}
	r.log.Debug().Int("id", id).Msg("Retrieved item")
	return item, nil
}

// Save inserts item and returns the stored row including its assigned id.
func (r *Repository[T]) Save(ctx context.Context, item *T) (*T, error) {
	saved, err := r.queryOne(ctx, r.db, r.insertSQL, r.table.Values(item)...)
	if err != nil {
		r.log.Error().Err(err).Msg("Error while creating the item")
		return nil, storageError(opCreate, err)
	}
	r.log.Info().Int("id", *r.table.Key(saved)).Msg("Created item")
	return saved, nil
}

// Update applies patch to the row with the given id inside a transaction.
// Only fields set in the patch change; the id is never overwritten.
func (r *Repository[T]) Update(ctx context.Context, id int, patch model.Patch[T]) (*T, error) {
	var updated *T
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		current, err := r.queryOne(ctx, tx, r.selectSQL+` WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return NotFound(id)
		}
		if err != nil {
			return err
		}

		patch.Apply(current)
		*r.table.Key(current) = id

		args := append(r.table.Values(current), id)
		updated, err = r.queryOne(ctx, tx, r.updateSQL, args...)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.log.Warn().Int("id", id).Msg("Item not found")
		} else {
			r.log.Error().Err(err).Int("id", id).Msg("Error while updating the item")
		}
		return nil, storageError(opUpdate, err)
	}
	r.log.Info().Int("id", id).Msg("Updated item")
	return updated, nil
}

// Delete removes the row with the given id. Child rows go with it through the
// ON DELETE CASCADE foreign keys.
func (r *Repository[T]) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, r.deleteSQL, id)
	if err != nil {
		r.log.Error().Err(err).Int("id", id).Msg("Error while deleting the item")
		return storageError(opDelete, err)
	}
	if tag.RowsAffected() == 0 {
		r.log.Warn().Int("id", id).Msg("Item not found")
		return NotFound(id)
	}
	r.log.Info().Int("id", id).Msg("Deleted item")
	return nil
}

// ListByFilter loads every row of the kind and keeps those matching filter.
// A nil filter returns all rows.
func (r *Repository[T]) ListByFilter(ctx context.Context, filter model.Filter[T]) ([]T, error) {
	rows, err := r.db.Query(ctx, r.selectSQL+` ORDER BY id`)
	if err != nil {
		return nil, storageError(opList, err)
	}
	all, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		r.log.Error().Err(err).Msg("Error while retrieving items")
		return nil, storageError(opList, err)
	}

	if filter == nil {
		return all, nil
	}
	matched := make([]T, 0, len(all))
	for i := range all {
		if filter.Match(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	r.log.Debug().Int("total", len(all)).Int("matched", len(matched)).Msg("Retrieved items")
	return matched, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repository[T]) queryOne(ctx context.Context, q querier, sql string, args ...any) (*T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
}
