package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/procos/internal/clock"
	"github.com/viant/procos/service/sandbox"
)

// Service is an in-memory sandbox vendor. Capability matching is exact,
// case-insensitive, block list first; an empty allow list permits all.
type Service struct {
	denied  map[string]bool // capabilities no sandbox may ever request
	handles map[uint32]*sandbox.Handle
	mux     sync.RWMutex
}

var _ sandbox.Checker = (*Service)(nil)

// New creates a vendor. Capabilities listed in denied are rejected for every
// sandbox regardless of its own configuration.
func New(denied ...string) *Service {
	deniedSet := make(map[string]bool, len(denied))
	for _, capability := range denied {
		deniedSet[strings.ToLower(capability)] = true
	}
	return &Service{
		denied:  deniedSet,
		handles: map[uint32]*sandbox.Handle{},
	}
}

// CreateSandbox establishes a sandbox for id. A config whose allow list
// requests a globally denied capability is rejected outright.
func (s *Service) CreateSandbox(_ context.Context, id uint32, config *sandbox.Config) (*sandbox.Handle, error) {
	if config == nil {
		config = &sandbox.Config{}
	}
	for _, capability := range config.AllowList {
		if s.denied[strings.ToLower(capability)] {
			return nil, fmt.Errorf("capability %v not permitted", capability)
		}
	}
	handle := &sandbox.Handle{
		ID:        uuid.New().String(),
		ProcessID: id,
		Config:    config,
		CreatedAt: clock.Now(),
	}
	s.mux.Lock()
	s.handles[id] = handle
	s.mux.Unlock()
	return handle, nil
}

// CheckPermission evaluates the process's sandbox against a capability.
// Unknown processes have no sandbox and are denied.
func (s *Service) CheckPermission(id uint32, capability string) bool {
	s.mux.RLock()
	handle, ok := s.handles[id]
	s.mux.RUnlock()
	if !ok {
		return false
	}
	normalized := strings.ToLower(capability)
	if s.denied[normalized] {
		return false
	}
	config := handle.Config

	// Block list has priority.
	for _, blocked := range config.BlockList {
		if normalized == strings.ToLower(blocked) {
			return false
		}
	}
	if len(config.AllowList) == 0 {
		return true
	}
	for _, allowed := range config.AllowList {
		if normalized == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// Remove discards the sandbox for a terminated process.
func (s *Service) Remove(id uint32) {
	s.mux.Lock()
	delete(s.handles, id)
	s.mux.Unlock()
}

// Handle returns the sandbox handle for id when present.
func (s *Service) Handle(id uint32) (*sandbox.Handle, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	handle, ok := s.handles[id]
	return handle, ok
}
