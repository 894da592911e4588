package cleanup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	name  string
	order *[]string
	owned bool
	stats Stats
}

func (h *recordingHandler) HasResources(id uint32) bool { return h.owned }

func (h *recordingHandler) Cleanup(id uint32) Stats {
	*h.order = append(*h.order, h.name)
	return h.stats
}

func (h *recordingHandler) TypeName() string { return h.name }

func TestOrchestrator_ReverseOrder(t *testing.T) {
	var order []string
	orchestrator := New().Register(
		&recordingHandler{name: "a", order: &order, owned: true, stats: Stats{Freed: 1}},
		&recordingHandler{name: "b", order: &order, owned: true, stats: Stats{Freed: 2, BytesFreed: 64}},
		&recordingHandler{name: "c", order: &order, owned: true, stats: Stats{Freed: 3}},
	)

	result := orchestrator.Cleanup(7)
	assert.Equal(t, []string{"c", "b", "a"}, order)
	assert.Equal(t, 6, result.Freed)
	assert.Equal(t, 64, result.BytesFreed)
	assert.Equal(t, 2, result.ByType["b"])
	assert.True(t, result.Success())
}

func TestOrchestrator_ExistenceProbe(t *testing.T) {
	var order []string
	orchestrator := New().Register(
		&recordingHandler{name: "present", order: &order, owned: true, stats: Stats{Freed: 1}},
		&recordingHandler{name: "absent", order: &order, owned: false},
	)

	result := orchestrator.Cleanup(1)
	assert.Equal(t, []string{"present"}, order)
	assert.Equal(t, 1, result.Freed)
}

func TestOrchestrator_ErrorsNeverAbort(t *testing.T) {
	var order []string
	orchestrator := New().Register(
		&recordingHandler{name: "first", order: &order, owned: true, stats: Stats{Freed: 1}},
		&recordingHandler{name: "failing", order: &order, owned: true, stats: Stats{Errors: []string{"boom"}}},
	)

	result := orchestrator.Cleanup(1)
	assert.False(t, result.Success())
	assert.Equal(t, []string{"failing: boom"}, result.Errors)
	// The failing handler runs first (reverse order) yet the rest still run.
	assert.Equal(t, []string{"failing", "first"}, order)
	assert.Equal(t, 1, result.Freed)
}

func TestOrchestrator_SharedAcrossDuplicates(t *testing.T) {
	var order []string
	orchestrator := New().Register(
		&recordingHandler{name: "a", order: &order, owned: true, stats: Stats{Freed: 1}},
		&recordingHandler{name: "b", order: &order, owned: true, stats: Stats{Freed: 1}},
	)

	duplicate := orchestrator
	assert.Equal(t, 2, duplicate.HandlerCount())
	result := duplicate.Cleanup(9)
	assert.Equal(t, 2, result.Freed)
	assert.Equal(t, []string{"a", "b"}, orchestrator.RegisteredTypes())
}

func TestOrchestrator_ValidateCoverage(t *testing.T) {
	var order []string
	orchestrator := New().Register(
		&recordingHandler{name: "sockets", order: &order},
	)
	missing := orchestrator.ValidateCoverage("sockets", "mappings")
	assert.Equal(t, []string{"mappings"}, missing)
}
