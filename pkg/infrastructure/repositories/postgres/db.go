package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock pools satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// orderBy validates sorts against the field table and turns them into ORDER BY
// terms. tiebreak is appended so paging is deterministic.
func orderBy[T any](
	fields *sorting.Fields[T],
	sorts, defaults []sorting.Criterion,
	tiebreak string,
) ([]string, error) {
	if len(sorts) == 0 {
		sorts = defaults
	}
	manager := sorting.NewManager(fields, sorting.WithDuplicatePolicy(sorting.AppendDuplicate))
	if err := manager.SetSorts(sorts); err != nil {
		return nil, err
	}

	var terms []string
	for _, c := range manager.GetSorts() {
		column, ok := fields.Column(c.Field)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no column", sorting.ErrUnknownField, c.Field)
		}
		dir := "ASC"
		if c.Direction == sorting.Desc {
			dir = "DESC"
		}
		terms = append(terms, column+" "+dir)
	}
	return append(terms, tiebreak+" ASC"), nil
}

func paged(builder squirrel.SelectBuilder, opts repositories.ListOptions) squirrel.SelectBuilder {
	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		builder = builder.Offset(uint64(opts.Offset))
	}
	return builder
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// execOne runs a statement expected to touch exactly one row
func execOne(ctx context.Context, db DB, builder squirrel.Sqlizer, what string) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", what, err)
	}
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
	}
	return nil
}
