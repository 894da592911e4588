package process

import "sync"

// Table is an in-memory, thread-safe registry of live process records. The
// table lock only guards map access; per-record mutation goes through the
// record's own lock, so transitions on unrelated identifiers do not
// serialize each other.
type Table struct {
	records map[uint32]*Process
	mux     sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{records: map[uint32]*Process{}}
}

// Insert registers a record. It returns false when the identifier is already
// occupied by a live record.
func (t *Table) Insert(p *Process) bool {
	if p == nil {
		return false
	}
	t.mux.Lock()
	defer t.mux.Unlock()
	if _, ok := t.records[p.ID]; ok {
		return false
	}
	t.records[p.ID] = p
	return true
}

// Lookup returns the live record for id. The returned pointer is shared with
// the table; it is intended for lifecycle code that owns the transition.
func (t *Table) Lookup(id uint32) (*Process, bool) {
	t.mux.RLock()
	p, ok := t.records[id]
	t.mux.RUnlock()
	return p, ok
}

// Get returns an owned clone of the record for id.
func (t *Table) Get(id uint32) (*Process, bool) {
	p, ok := t.Lookup(id)
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Remove deletes the record for id, returning it when present.
func (t *Table) Remove(id uint32) (*Process, bool) {
	t.mux.Lock()
	defer t.mux.Unlock()
	p, ok := t.records[id]
	if !ok {
		return nil, false
	}
	delete(t.records, id)
	return p, true
}

// List returns clones of all live records.
func (t *Table) List() []*Process {
	t.mux.RLock()
	defer t.mux.RUnlock()
	out := make([]*Process, 0, len(t.records))
	for _, p := range t.records {
		out = append(out, p.Clone())
	}
	return out
}

// Len returns the number of live records.
func (t *Table) Len() int {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return len(t.records)
}
