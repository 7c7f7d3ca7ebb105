package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/filter"
)

// MaxPageSize caps ListQuery.Limit.
const MaxPageSize = 500

const timestampLayout = "2006-01-02 15:04:05.000000000Z"

// ListQuery selects a page of records. Filter fields and Sort fields are
// resolved against the repository's column whitelist.
type ListQuery struct {
	Filter filter.Expr
	Sort   []filter.SortField
	Limit  int
	Offset int
}

// Table is the storage contract shared by every record collection.
type Table[T any] interface {
	FindByID(ctx context.Context, id string) (T, error)
	FindAll(ctx context.Context, query ListQuery) ([]T, error)
	Count(ctx context.Context, where filter.Expr) (int, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

func buildSelect(selectClause string, columns filter.Columns, query ListQuery, defaultOrder string) (string, []any, error) {
	where, args, err := filter.Where(query.Filter, columns)
	if err != nil {
		return "", nil, fmt.Errorf("compiling filter: %w", err)
	}

	orderBy := defaultOrder
	if len(query.Sort) > 0 {
		orderBy, err = filter.OrderBy(query.Sort, columns)
		if err != nil {
			return "", nil, fmt.Errorf("compiling sort: %w", err)
		}
		// Stable paging for records created within the same instant.
		orderBy += ", rowid DESC"
	}

	statement := selectClause + " WHERE " + where + " ORDER BY " + orderBy

	limit := query.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	statement += " LIMIT ? OFFSET ?"
	args = append(args, limit, query.Offset)

	return statement, args, nil
}

func countWhere(ctx context.Context, database *sql.DB, table string, columns filter.Columns, expr filter.Expr) (int, error) {
	where, args, err := filter.Where(expr, columns)
	if err != nil {
		return 0, fmt.Errorf("compiling filter: %w", err)
	}
	var count int
	if err := database.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return count, nil
}

func deleteByID(ctx context.Context, database *sql.DB, table string, id string) error {
	result, err := database.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatNullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timestamp scans TEXT timestamps written by formatTimestamp.
type timestamp struct {
	destination *time.Time
}

func (scanner timestamp) Scan(value any) error {
	parsed, err := parseTimestamp(value)
	if err != nil {
		return err
	}
	if parsed != nil {
		*scanner.destination = *parsed
	}
	return nil
}

type nullableTimestamp struct {
	destination **time.Time
}

func (scanner nullableTimestamp) Scan(value any) error {
	parsed, err := parseTimestamp(value)
	if err != nil {
		return err
	}
	*scanner.destination = parsed
	return nil
}

func parseTimestamp(value any) (*time.Time, error) {
	var text string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		utc := v.UTC()
		return &utc, nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return nil, fmt.Errorf("unsupported timestamp type %T", value)
	}
	parsed, err := time.Parse(timestampLayout, text)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp %q: %w", text, err)
	}
	return &parsed, nil
}

// optionalString scans a nullable TEXT column into a plain string.
type optionalString struct {
	destination *string
}

func (scanner optionalString) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*scanner.destination = ""
	case string:
		*scanner.destination = v
	case []byte:
		*scanner.destination = string(v)
	default:
		return fmt.Errorf("unsupported string type %T", value)
	}
	return nil
}
