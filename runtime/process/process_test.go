package process

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcess_Clone(t *testing.T) {
	p := New(3, "worker", 7)
	p.SetState(StateReady)

	clone := p.Clone()
	assert.Equal(t, uint32(3), clone.ID)
	assert.Equal(t, "worker", clone.Name)
	assert.Equal(t, uint8(7), clone.Priority)
	assert.Equal(t, StateReady, clone.State)

	// Mutating the clone must not leak back into the table record.
	clone.State = StateTerminated
	assert.Equal(t, StateReady, p.GetState())
}

func TestProcess_Schedulable(t *testing.T) {
	testCases := []struct {
		state       string
		schedulable bool
	}{
		{StateCreating, false},
		{StateInitializing, false},
		{StateReady, true},
		{StateRunning, true},
		{StateBlocked, false},
		{StateTerminating, false},
		{StateTerminated, false},
	}
	for _, tc := range testCases {
		p := New(1, "p", 5)
		p.SetState(tc.state)
		assert.Equal(t, tc.schedulable, p.Schedulable(), tc.state)
	}
}

func TestProcess_TransitionGuard(t *testing.T) {
	p := New(1, "p", 5)

	prior, ok := p.Transition(StateInitializing, StateCreating)
	assert.True(t, ok)
	assert.Equal(t, StateCreating, prior)

	// Ready is not a valid origin yet.
	_, ok = p.Transition(StateRunning, StateReady)
	assert.False(t, ok)
	assert.Equal(t, StateInitializing, p.GetState())

	assert.True(t, p.BeginTermination())

	// A terminating record can never be pulled back into the schedulable
	// states, whatever origins the caller lists.
	prior, ok = p.Transition(StateRunning, StateReady, StateRunning, StateInitializing)
	assert.False(t, ok)
	assert.Equal(t, StateTerminating, prior)

	prior, ok = p.Transition(StateTerminated, StateTerminating)
	assert.True(t, ok)
	assert.Equal(t, StateTerminating, prior)
	assert.NotNil(t, p.EndedAt)
}

func TestTable_InsertDuplicate(t *testing.T) {
	table := NewTable()
	assert.True(t, table.Insert(New(1, "a", 5)))
	assert.False(t, table.Insert(New(1, "b", 5)))
	assert.Equal(t, 1, table.Len())

	p, ok := table.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", p.Name)
}

func TestTable_Remove(t *testing.T) {
	table := NewTable()
	table.Insert(New(1, "a", 5))

	_, ok := table.Remove(1)
	assert.True(t, ok)
	_, ok = table.Remove(1)
	assert.False(t, ok)
	_, ok = table.Get(1)
	assert.False(t, ok)
}

func TestTable_ConcurrentAccess(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			table.Insert(New(id, "p", 5))
			if p, ok := table.Lookup(id); ok {
				p.SetState(StateReady)
			}
			table.Get(id)
		}(uint32(i))
	}
	wg.Wait()
	assert.Equal(t, 64, table.Len())
}
