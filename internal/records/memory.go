package records

import (
	"context"
	"sync"
)

type memTable struct {
	order []string
	rows  map[string]Record
}

// MemoryStore keeps tables in process memory. Rows are returned in insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*memTable
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: map[string]*memTable{}}
}

func (m *MemoryStore) table(name string) *memTable {
	t, ok := m.tables[name]
	if !ok {
		t = &memTable{rows: map[string]Record{}}
		m.tables[name] = t
	}
	return t
}

func clone(rec Record) Record {
	out, _ := normalize(map[string]any(rec)).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

func (m *MemoryStore) Insert(ctx context.Context, table string, rec Record) (Record, error) {
	id, err := requireID(rec)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(table)
	if _, exists := t.rows[id]; exists {
		return nil, ErrConflict
	}
	stored := clone(rec)
	t.rows[id] = stored
	t.order = append(t.order, id)
	return clone(stored), nil
}

func (m *MemoryStore) Get(ctx context.Context, table, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[table]
	if !ok {
		return nil, ErrNotFound
	}
	rec, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(rec), nil
}

func (m *MemoryStore) Update(ctx context.Context, table, id string, patch Record, conds ...Condition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return ErrNotFound
	}
	rec, ok := t.rows[id]
	if !ok {
		return ErrNotFound
	}
	for _, c := range conds {
		cur, present := rec[c.Field]
		if c.Absent {
			if present && cur != nil {
				return ErrConditionFailed
			}
			continue
		}
		if !present || !sameValue(cur, c.Value) {
			return ErrConditionFailed
		}
	}

	next := clone(rec)
	for k, v := range patch {
		if k == "id" {
			continue
		}
		if v == nil {
			delete(next, k)
			continue
		}
		next[k] = normalize(v)
	}
	t.rows[id] = next
	return nil
}

func (m *MemoryStore) Select(ctx context.Context, table string, filter Filter) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[table]
	if !ok {
		return nil, nil
	}
	var out []Record
	for _, id := range t.order {
		rec := t.rows[id]
		if matches(rec, filter) {
			out = append(out, clone(rec))
		}
	}
	return out, nil
}

func matches(rec Record, filter Filter) bool {
	for k, want := range filter {
		got, ok := rec[k]
		if !ok || !sameValue(got, want) {
			return false
		}
	}
	return true
}
