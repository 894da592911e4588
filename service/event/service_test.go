package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
)

func TestService_PublishConsume(t *testing.T) {
	s := New()

	var mux sync.Mutex
	var received []*Event
	done := make(chan struct{})
	s.SetListener(func(e *Event) {
		mux.Lock()
		received = append(received, e)
		if len(received) == 2 {
			close(done)
		}
		mux.Unlock()
	})
	defer s.Shutdown()

	ctx := context.Background()
	s.Publish(ctx, &Event{Type: TypeCreated, ProcessID: 1, Name: "worker"})
	s.Publish(ctx, &Event{Type: TypeTerminated, ProcessID: 1})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not receive events")
	}

	mux.Lock()
	defer mux.Unlock()
	assert.Equal(t, TypeCreated, received[0].Type)
	assert.Equal(t, TypeTerminated, received[1].Type)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].CreatedAt.IsZero())
}

func TestJournal_AppendList(t *testing.T) {
	fs := afs.New()
	journal, err := NewJournal(fs, "mem://localhost/procos/journal")
	assert.NoError(t, err)

	s := New(WithJournal(journal))
	ctx := context.Background()
	s.Publish(ctx, &Event{Type: TypeCreated, ProcessID: 3, Name: "svc"})
	s.Publish(ctx, &Event{Type: TypeTransition, ProcessID: 3, From: "creating", To: "ready"})

	events, err := journal.List(ctx)
	assert.NoError(t, err)
	if assert.Len(t, events, 2) {
		assert.Equal(t, TypeCreated, events[0].Type)
		assert.Equal(t, TypeTransition, events[1].Type)
		assert.Equal(t, "ready", events[1].To)
	}
}

func TestJournal_EmptyBaseURL(t *testing.T) {
	_, err := NewJournal(afs.New(), "")
	assert.Error(t, err)
}
