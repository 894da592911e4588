package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newScheduler(policy Policy) *Service {
	return New(Config{Policy: policy, Quantum: 10 * time.Millisecond})
}

func TestService_EmptyReadySet(t *testing.T) {
	s := newScheduler(PolicyRoundRobin)
	_, ok := s.ScheduleNext()
	assert.False(t, ok)
}

func TestService_RoundRobinCycle(t *testing.T) {
	s := newScheduler(PolicyRoundRobin)
	s.Add(1, 5)
	s.Add(2, 5)
	s.Add(3, 5)

	var got []uint32
	for i := 0; i < 6; i++ {
		id, ok := s.ScheduleNext()
		assert.True(t, ok)
		got = append(got, id)
	}
	assert.Equal(t, []uint32{1, 2, 3, 1, 2, 3}, got)
}

func TestService_RoundRobinRemoval(t *testing.T) {
	s := newScheduler(PolicyRoundRobin)
	s.Add(1, 5)
	s.Add(2, 5)
	s.Add(3, 5)

	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.False(t, s.Remove(99))

	var got []uint32
	for i := 0; i < 4; i++ {
		id, _ := s.ScheduleNext()
		got = append(got, id)
	}
	assert.Equal(t, []uint32{1, 3, 1, 3}, got)
}

func TestService_PriorityHighestWins(t *testing.T) {
	s := newScheduler(PolicyPriority)
	s.Add(1, 1)
	s.Add(2, 5)
	s.Add(3, 10)

	for i := 0; i < 5; i++ {
		id, ok := s.ScheduleNext()
		assert.True(t, ok)
		assert.Equal(t, uint32(3), id)
	}

	s.Remove(3)
	id, _ := s.ScheduleNext()
	assert.Equal(t, uint32(2), id)
}

func TestService_PriorityArrivalOrderTies(t *testing.T) {
	s := newScheduler(PolicyPriority)
	s.Add(7, 5)
	s.Add(8, 5)

	id, _ := s.ScheduleNext()
	assert.Equal(t, uint32(7), id)
}

func TestService_PriorityPreemptedByArrival(t *testing.T) {
	s := newScheduler(PolicyPriority)
	s.Add(1, 5)

	id, _ := s.ScheduleNext()
	assert.Equal(t, uint32(1), id)

	s.Add(2, 200)
	id, _ = s.ScheduleNext()
	assert.Equal(t, uint32(2), id)
	assert.Equal(t, uint64(1), s.Stats().Preemptions)
}

func TestService_FairConvergence(t *testing.T) {
	s := newScheduler(PolicyFair)
	s.Add(1, 100)
	s.Add(2, 100)

	counts := map[uint32]int{}
	const iterations = 1000
	for i := 0; i < iterations; i++ {
		id, ok := s.ScheduleNext()
		assert.True(t, ok)
		counts[id]++
	}
	assert.InDelta(t, iterations/2, counts[1], 1)
	assert.InDelta(t, iterations/2, counts[2], 1)
}

func TestService_FairWeightedShares(t *testing.T) {
	s := newScheduler(PolicyFair)
	s.Add(1, 200) // high tier, weight 200
	s.Add(2, 10)  // low tier, weight 50

	counts := map[uint32]int{}
	for i := 0; i < 500; i++ {
		id, _ := s.ScheduleNext()
		counts[id]++
	}
	// Weight 200 vs 50 should earn roughly four turns to one.
	assert.Greater(t, counts[1], counts[2]*3)
}

func TestService_YieldSoleEntry(t *testing.T) {
	for _, policy := range []Policy{PolicyRoundRobin, PolicyPriority, PolicyFair} {
		s := newScheduler(policy)
		s.Add(1, 5)

		id, ok := s.ScheduleNext()
		assert.True(t, ok, policy)
		assert.Equal(t, uint32(1), id, policy)

		s.Yield(1)
		id, ok = s.ScheduleNext()
		assert.True(t, ok, policy)
		assert.Equal(t, uint32(1), id, policy)
	}
}

func TestService_YieldNotCountedAsPreemption(t *testing.T) {
	s := newScheduler(PolicyRoundRobin)
	s.Add(1, 5)
	s.Add(2, 5)

	s.ScheduleNext()
	s.Yield(1)
	s.ScheduleNext()

	stats := s.Stats()
	assert.Equal(t, uint64(0), stats.Preemptions)
	assert.Equal(t, uint64(2), stats.TotalScheduled)
}

func TestService_Stats(t *testing.T) {
	s := newScheduler(PolicyRoundRobin)
	s.Add(1, 5)
	s.Add(2, 5)

	s.ScheduleNext()
	s.ScheduleNext()

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.TotalScheduled)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, PolicyRoundRobin, stats.Policy)
	assert.Equal(t, 10*time.Millisecond, stats.Quantum)
	assert.NotZero(t, stats.ContextSwitches)
}

func TestService_ProcessStats(t *testing.T) {
	s := newScheduler(PolicyFair)
	s.Add(1, 200)
	s.Add(2, 10)

	for i := 0; i < 10; i++ {
		s.ScheduleNext()
	}

	heavy, ok := s.ProcessStats(1)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), heavy.ID)
	assert.Equal(t, uint64(200), heavy.Weight)
	light, ok := s.ProcessStats(2)
	assert.True(t, ok)
	assert.Equal(t, uint64(50), light.Weight)

	// Per-entry selections sum to the aggregate counter, and the heavier
	// entry accumulated more logical CPU time.
	assert.Equal(t, uint64(10), heavy.Scheduled+light.Scheduled)
	assert.Greater(t, heavy.CPUTimeMicros, light.CPUTimeMicros)
	assert.Equal(t, heavy.Scheduled*uint64(10*time.Millisecond/time.Microsecond), heavy.CPUTimeMicros)

	_, ok = s.ProcessStats(99)
	assert.False(t, ok)
}

func TestService_Current(t *testing.T) {
	s := newScheduler(PolicyRoundRobin)
	_, ok := s.Current()
	assert.False(t, ok)

	s.Add(1, 5)
	s.Add(2, 5)
	s.ScheduleNext()

	id, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, uint32(1), id)

	s.Remove(1)
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestService_SetPriorityRecomputesWeight(t *testing.T) {
	s := newScheduler(PolicyPriority)
	s.Add(1, 5)
	s.Add(2, 10)

	id, _ := s.ScheduleNext()
	assert.Equal(t, uint32(2), id)

	assert.True(t, s.SetPriority(1, 250))
	id, _ = s.ScheduleNext()
	assert.Equal(t, uint32(1), id)

	assert.False(t, s.SetPriority(99, 5))
}
