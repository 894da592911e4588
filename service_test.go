package procos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procos/runtime/process"
	"github.com/viant/procos/service/sandbox"
	"github.com/viant/procos/service/scheduler"
)

func TestService_Lifecycle(t *testing.T) {
	svc, err := New(WithPolicy(scheduler.PolicyRoundRobin))
	assert.NoError(t, err)
	ctx := context.Background()
	defer svc.Shutdown(ctx)

	id, err := svc.Create(ctx, "worker", 5, &sandbox.Config{})
	assert.NoError(t, err)

	record, ok := svc.Get(id)
	assert.True(t, ok)
	assert.Equal(t, process.StateReady, record.State)

	got, ok := svc.ScheduleNext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	svc.Yield(ctx, id)
	got, ok = svc.ScheduleNext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	assert.True(t, svc.Terminate(ctx, id))
	assert.False(t, svc.Terminate(ctx, id))
}

func TestService_ResourceTeardown(t *testing.T) {
	svc, err := New(WithInitHook(func(ctx context.Context, id uint32) error {
		return nil
	}))
	assert.NoError(t, err)
	ctx := context.Background()

	id, err := svc.Create(ctx, "rich", 5, nil)
	assert.NoError(t, err)

	resources := svc.Resources()
	resources.Sockets.Attach(id, 512)
	resources.Rings.Attach(id, 8192)
	resources.Mappings.Attach(id, 1<<20)

	assert.True(t, svc.Terminate(ctx, id))
	assert.False(t, resources.Sockets.HasResources(id))
	assert.False(t, resources.Rings.HasResources(id))
	assert.False(t, resources.Mappings.HasResources(id))
}

func TestService_FairShares(t *testing.T) {
	svc, err := New(WithPolicy(scheduler.PolicyFair), WithQuantum(10*time.Millisecond))
	assert.NoError(t, err)
	ctx := context.Background()

	a, _ := svc.Create(ctx, "a", 100, nil)
	b, _ := svc.Create(ctx, "b", 100, nil)

	counts := map[uint32]int{}
	for i := 0; i < 200; i++ {
		id, ok := svc.ScheduleNext(ctx)
		assert.True(t, ok)
		counts[id]++
	}
	assert.Equal(t, 100, counts[a])
	assert.Equal(t, 100, counts[b])
}

func TestService_EventBackpressureNeverStallsLifecycle(t *testing.T) {
	svc, err := New(WithPolicy(scheduler.PolicyRoundRobin))
	assert.NoError(t, err)
	ctx := context.Background()

	id, err := svc.Create(ctx, "busy", 5, nil)
	assert.NoError(t, err)

	// No listener ever drains the event queue; well past its buffer the
	// lifecycle operations must still complete.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			got, ok := svc.ScheduleNext(ctx)
			assert.True(t, ok)
			assert.Equal(t, id, got)
		}
		assert.True(t, svc.Terminate(ctx, id))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle stalled on a full event queue")
	}
}

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(`
scheduler:
  policy: priority
  quantumMs: 5
`))
	assert.NoError(t, err)
	assert.Equal(t, scheduler.PolicyPriority, config.Scheduler.Policy)
	assert.Equal(t, 5, config.Scheduler.QuantumMs)

	_, err = ParseConfig([]byte(`
scheduler:
  policy: lottery
`))
	assert.Error(t, err)
}
