package records

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

// fakeConn records statements and answers with canned command tags and rows.
type fakeConn struct {
	execs   []execCall
	tag     string
	rowData []byte
	rowErr  error
	exists  bool
}

func (f *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(f.tag), nil
}

func (f *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not used")
}

func (f *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{f: f}
}

type fakeRow struct{ f *fakeConn }

func (r fakeRow) Scan(dest ...any) error {
	if r.f.rowErr != nil {
		return r.f.rowErr
	}
	switch d := dest[0].(type) {
	case *[]byte:
		*d = r.f.rowData
	case *bool:
		*d = r.f.exists
	}
	return nil
}

func TestBuildPgUpdate(t *testing.T) {
	q, args, err := buildPgUpdate(`"orders"`, "o1",
		Record{"assigned_delivery_staff": "d1", "updated_at": "2025-01-01T10:00:00Z", "note": nil, "id": "ignored"},
		[]Condition{Equals("status", "ready"), Absent("assigned_delivery_staff")})
	require.NoError(t, err)

	assert.Equal(t,
		`UPDATE "orders" SET data = (data || $2::jsonb) - $3::text[] WHERE id = $1 AND data -> $4::text = $5::jsonb AND (data -> $6::text) IS NULL`,
		q)
	require.Len(t, args, 6)
	assert.Equal(t, "o1", args[0])

	var set map[string]any
	require.NoError(t, json.Unmarshal([]byte(args[1].(string)), &set))
	assert.Equal(t, map[string]any{"assigned_delivery_staff": "d1", "updated_at": "2025-01-01T10:00:00Z"}, set)
	assert.Equal(t, []string{"note"}, args[2])
	assert.Equal(t, "status", args[3])
	assert.Equal(t, `"ready"`, args[4])
	assert.Equal(t, "assigned_delivery_staff", args[5])

	_, _, err = buildPgUpdate(`"orders"`, "o1", Record{"id": "o1"}, nil)
	assert.Error(t, err)
}

func TestPostgresStore_Insert(t *testing.T) {
	conn := &fakeConn{tag: "INSERT 0 1"}
	s := NewPostgresStore(conn, "app_")

	_, err := s.Insert(context.Background(), "orders", Record{"id": "o1", "total": 25})
	require.NoError(t, err)
	require.Len(t, conn.execs, 1)
	assert.Contains(t, conn.execs[0].sql, `INSERT INTO "app_orders"`)
	assert.Equal(t, "o1", conn.execs[0].args[0])

	conn.tag = "INSERT 0 0"
	_, err = s.Insert(context.Background(), "orders", Record{"id": "o1"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPostgresStore_Get(t *testing.T) {
	conn := &fakeConn{rowData: []byte(`{"id":"o1","status":"pending"}`)}
	s := NewPostgresStore(conn, "")

	rec, err := s.Get(context.Background(), "orders", "o1")
	require.NoError(t, err)
	assert.Equal(t, "pending", rec["status"])

	conn.rowErr = pgx.ErrNoRows
	_, err = s.Get(context.Background(), "orders", "o2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_UpdateDistinguishesFailures(t *testing.T) {
	conn := &fakeConn{tag: "UPDATE 1"}
	s := NewPostgresStore(conn, "")
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, "orders", "o1", Record{"status": "confirmed"}, Equals("status", "pending")))

	conn.tag = "UPDATE 0"
	conn.exists = true
	assert.ErrorIs(t, s.Update(ctx, "orders", "o1", Record{"status": "confirmed"}, Equals("status", "pending")), ErrConditionFailed)

	conn.exists = false
	assert.ErrorIs(t, s.Update(ctx, "orders", "o9", Record{"status": "confirmed"}), ErrNotFound)
}

func TestPostgresStore_EnsureTables(t *testing.T) {
	conn := &fakeConn{tag: "CREATE TABLE"}
	s := NewPostgresStore(conn, "")
	require.NoError(t, s.EnsureTables(context.Background(), "orders", "payments"))
	require.Len(t, conn.execs, 2)
	assert.Contains(t, conn.execs[1].sql, `CREATE TABLE IF NOT EXISTS "payments"`)
}
