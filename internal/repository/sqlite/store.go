package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/google/uuid"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"fwinventory/internal/domain"
	"fwinventory/internal/repository"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// uniqueColumn is a column whose non-empty values must not repeat
type uniqueColumn[T any] struct {
	field  string
	column string
	value  func(*T) string
}

// refColumn is a foreign key checked for existence before writes
type refColumn[T any] struct {
	field  string
	target string // referenced entity name
	table  string // referenced table
	value  func(*T) *uuid.UUID
}

// tableDef describes how one entity type maps onto its table
type tableDef[T any] struct {
	entity  string
	name    string
	columns []string // id first
	filters map[string]filterColumn
	uniques []uniqueColumn[T]
	refs    []refColumn[T]

	id       func(*T) *uuid.UUID
	validate func(*T) error
	values   func(*T) []any // in column order, without id
	scan     func(rowScanner) (*T, error)
}

func (d *tableDef[T]) selectList(alias string) string {
	cols := make([]string, len(d.columns))
	for i, c := range d.columns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func (d *tableDef[T]) insertSQL() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(d.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", d.name, strings.Join(d.columns, ", "), marks)
}

func (d *tableDef[T]) updateSQL() string {
	sets := make([]string, 0, len(d.columns)-1)
	for _, c := range d.columns[1:] {
		sets = append(sets, c+" = ?")
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", d.name, strings.Join(sets, ", "))
}

// where builds an equality condition list from a filter. Keys are
// processed in sorted order so the generated SQL is stable.
func (d *tableDef[T]) where(alias string, filter repository.Filter) (string, []any, error) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := []string{"1 = 1"}
	var args []any
	for _, key := range keys {
		fc, ok := d.filters[key]
		if !ok {
			return "", nil, &domain.ValidationError{Entity: d.entity, Field: key, Reason: "unknown filter field"}
		}
		v, err := fc.convert(filter[key])
		if err != nil {
			return "", nil, &domain.ValidationError{Entity: d.entity, Field: key, Reason: err.Error()}
		}
		if v == nil {
			conds = append(conds, alias+"."+fc.column+" IS NULL")
			continue
		}
		conds = append(conds, alias+"."+fc.column+" = ?")
		args = append(args, v)
	}
	return strings.Join(conds, " AND "), args, nil
}

// fieldFor maps a column back to its JSON field name
func (d *tableDef[T]) fieldFor(column string) string {
	for field, fc := range d.filters {
		if fc.column == column {
			return field
		}
	}
	return column
}

// translate maps SQLite constraint failures onto the domain error
// taxonomy. The explicit checks in store.check normally fire first.
func (d *tableDef[T]) translate(op string, err error) error {
	var se *sqlitedrv.Error
	if errors.As(err, &se) {
		field := d.fieldFor(constraintColumn(se.Error()))
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &domain.ValidationError{Entity: d.entity, Field: field, Reason: "value already exists"}
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return &domain.ValidationError{Entity: d.entity, Field: "reference", Reason: "references a missing entity"}
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return &domain.ConstraintError{Entity: d.entity, Field: field, Reason: "violates a column constraint"}
		}
	}
	return fmt.Errorf("failed to %s %s: %w", op, d.entity, err)
}

// constraintColumn extracts the column from messages such as
// "UNIQUE constraint failed: firewalls.hostname".
func constraintColumn(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, " ,"); j >= 0 {
		rest = rest[:j]
	}
	if _, col, ok := strings.Cut(rest, "."); ok {
		return col
	}
	return rest
}

// store is the generic repository.Store over a tableDef
type store[T any] struct {
	repo *Repository
	def  *tableDef[T]
}

func (s *store[T]) Create(ctx context.Context, e *T) error {
	if e == nil {
		return &domain.ValidationError{Entity: s.def.entity, Field: "id", Reason: "nil entity"}
	}
	if err := s.def.validate(e); err != nil {
		return err
	}

	id := uuid.New()
	err := s.repo.write(ctx, func(q querier) error {
		if err := s.check(ctx, q, e, uuid.Nil); err != nil {
			return err
		}
		args := append([]any{id}, s.def.values(e)...)
		if _, err := q.ExecContext(ctx, s.def.insertSQL(), args...); err != nil {
			return s.def.translate("create", err)
		}
		return nil
	})
	if err != nil {
		s.repo.log.Debug("create rejected", "entity", s.def.entity, "error", err)
		return err
	}

	*s.def.id(e) = id
	s.repo.log.Debug("created", "entity", s.def.entity, "id", id)
	return nil
}

func (s *store[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	return s.get(ctx, s.repo.q(), id)
}

func (s *store[T]) get(ctx context.Context, q querier, id uuid.UUID) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s t WHERE t.id = ?", s.def.selectList("t"), s.def.name)
	e, err := s.def.scan(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: s.def.entity, ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.def.entity, err)
	}
	return e, nil
}

func (s *store[T]) Update(ctx context.Context, id uuid.UUID, fields domain.Fields) (*T, error) {
	var out *T
	err := s.repo.write(ctx, func(q querier) error {
		cur, err := s.get(ctx, q, id)
		if err != nil {
			return err
		}
		next, err := domain.ApplyFields(s.def.entity, cur, fields)
		if err != nil {
			return err
		}
		if err := s.def.validate(next); err != nil {
			return err
		}
		if err := s.check(ctx, q, next, id); err != nil {
			return err
		}

		args := append(s.def.values(next), id)
		if _, err := q.ExecContext(ctx, s.def.updateSQL(), args...); err != nil {
			return s.def.translate("update", err)
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.repo.log.Debug("updated", "entity", s.def.entity, "id", id, "fields", fields.Keys())
	return out, nil
}

func (s *store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.write(ctx, func(q querier) error {
		if _, err := s.get(ctx, q, id); err != nil {
			return err
		}

		stmts := deleteRules[s.def.name]
		for i, stmt := range stmts {
			res, err := q.ExecContext(ctx, stmt, id)
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", s.def.entity, err)
			}
			if i < len(stmts)-1 {
				if n, _ := res.RowsAffected(); n > 0 {
					s.repo.log.Debug("cascade", "entity", s.def.entity, "id", id, "step", i, "rows", n)
				}
			}
		}
		s.repo.log.Debug("deleted", "entity", s.def.entity, "id", id)
		return nil
	})
}

func (s *store[T]) List(ctx context.Context, filter repository.Filter) iter.Seq2[*T, error] {
	where, args, err := s.def.where("t", filter)
	if err != nil {
		return func(yield func(*T, error) bool) { yield(nil, err) }
	}
	query := fmt.Sprintf("SELECT %s FROM %s t WHERE %s", s.def.selectList("t"), s.def.name, where)
	return paginate(ctx, s.repo, query, "t.id", args, s.def.scan, s.def.id)
}

// check enforces reference existence and uniqueness inside the write
// transaction. self is excluded from uniqueness matches.
func (s *store[T]) check(ctx context.Context, q querier, e *T, self uuid.UUID) error {
	for _, ref := range s.def.refs {
		target := ref.value(e)
		if target == nil {
			continue
		}
		ok, err := exists(ctx, q, ref.table, *target)
		if err != nil {
			return err
		}
		if !ok {
			return domain.DanglingReference(s.def.entity, ref.field, ref.target, target.String())
		}
	}

	for _, u := range s.def.uniques {
		v := u.value(e)
		if v == "" {
			continue
		}
		var n int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ? AND id <> ?", s.def.name, u.column)
		if err := q.QueryRowContext(ctx, query, v, self).Scan(&n); err != nil {
			return fmt.Errorf("failed to check %s.%s: %w", s.def.entity, u.field, err)
		}
		if n > 0 {
			return domain.Duplicate(s.def.entity, u.field, v)
		}
	}
	return nil
}

func exists(ctx context.Context, q querier, table string, id uuid.UUID) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", table, err)
	}
	return true, nil
}

// paginate yields the rows of query in id order, one page per round
// trip. Each page's rows are closed before any item is yielded, so the
// consumer may issue further calls mid-iteration. query must end in a
// WHERE clause; the keyset condition is appended to it.
func paginate[T any](
	ctx context.Context,
	r *Repository,
	query, idColumn string,
	args []any,
	scan func(rowScanner) (*T, error),
	idOf func(*T) *uuid.UUID,
) iter.Seq2[*T, error] {
	pageSQL := fmt.Sprintf("%s AND %s > ? ORDER BY %s LIMIT ?", query, idColumn, idColumn)
	return func(yield func(*T, error) bool) {
		after := ""
		for {
			pageArgs := make([]any, 0, len(args)+2)
			pageArgs = append(pageArgs, args...)
			pageArgs = append(pageArgs, after, r.pageSize)

			items, err := fetch(ctx, r.q(), pageSQL, pageArgs, scan)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			if len(items) < r.pageSize {
				return
			}
			after = idOf(items[len(items)-1]).String()
		}
	}
}

func fetch[T any](ctx context.Context, q querier, query string, args []any, scan func(rowScanner) (*T, error)) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
