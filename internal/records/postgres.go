package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConn is the subset of *pgxpool.Pool the Postgres store needs.
type PgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxConn = (*pgxpool.Pool)(nil)

// PostgresStore keeps each logical table as (seq, id, data jsonb).
type PostgresStore struct {
	db     PgxConn
	prefix string
}

// NewPostgresStore wraps an open pool.
func NewPostgresStore(db PgxConn, prefix string) *PostgresStore {
	return &PostgresStore{db: db, prefix: prefix}
}

// OpenPostgres connects a pgx pool and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func (s *PostgresStore) ident(table string) string {
	return pgx.Identifier{s.prefix + table}.Sanitize()
}

// EnsureTables creates the backing tables if they do not exist.
func (s *PostgresStore) EnsureTables(ctx context.Context, tables ...string) error {
	for _, t := range tables {
		q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	seq  BIGSERIAL,
	id   TEXT PRIMARY KEY,
	data JSONB NOT NULL
)`, s.ident(t))
		if _, err := s.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("create table %s: %w", t, err)
		}
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, table string, rec Record) (Record, error) {
	id, err := requireID(rec)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	q := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb) ON CONFLICT (id) DO NOTHING`, s.ident(table))
	tag, err := s.db.Exec(ctx, q, id, string(data))
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrConflict
	}
	return clone(rec), nil
}

func (s *PostgresStore) Get(ctx context.Context, table, id string) (Record, error) {
	q := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, s.ident(table))
	var data []byte
	if err := s.db.QueryRow(ctx, q, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	return rec, nil
}

// buildPgUpdate renders the UPDATE statement and its arguments for table ident.
func buildPgUpdate(ident, id string, patch Record, conds []Condition) (string, []any, error) {
	set := map[string]any{}
	var removed []string
	for k, v := range patch {
		switch {
		case k == "id":
		case v == nil:
			removed = append(removed, k)
		default:
			set[k] = v
		}
	}
	if len(set) == 0 && len(removed) == 0 {
		return "", nil, errors.New("records: empty patch")
	}
	sort.Strings(removed)
	if removed == nil {
		removed = []string{}
	}

	data, err := json.Marshal(set)
	if err != nil {
		return "", nil, fmt.Errorf("marshal patch: %w", err)
	}
	args := []any{id, string(data), removed}
	where := []string{"id = $1"}
	for _, c := range conds {
		args = append(args, c.Field)
		field := fmt.Sprintf("$%d::text", len(args))
		if c.Absent {
			where = append(where, fmt.Sprintf("(data -> %s) IS NULL", field))
			continue
		}
		v, err := json.Marshal(c.Value)
		if err != nil {
			return "", nil, fmt.Errorf("marshal condition %s: %w", c.Field, err)
		}
		args = append(args, string(v))
		where = append(where, fmt.Sprintf("data -> %s = $%d::jsonb", field, len(args)))
	}

	q := fmt.Sprintf(`UPDATE %s SET data = (data || $2::jsonb) - $3::text[] WHERE %s`,
		ident, strings.Join(where, " AND "))
	return q, args, nil
}

func (s *PostgresStore) Update(ctx context.Context, table, id string, patch Record, conds ...Condition) error {
	q, args, err := buildPgUpdate(s.ident(table), id, patch, conds)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	check := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, s.ident(table))
	if err := s.db.QueryRow(ctx, check, id).Scan(&exists); err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConditionFailed
}

func (s *PostgresStore) Select(ctx context.Context, table string, filter Filter) ([]Record, error) {
	if filter == nil {
		filter = Filter{}
	}
	f, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	q := fmt.Sprintf(`SELECT data FROM %s WHERE data @> $1::jsonb ORDER BY seq`, s.ident(table))
	rows, err := s.db.Query(ctx, q, string(f))
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal data: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
