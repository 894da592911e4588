package event

import (
	"time"

	"github.com/viant/procos/service/cleanup"
)

// Type discriminates lifecycle event payloads.
type Type string

const (
	TypeCreated    Type = "process.created"
	TypeTransition Type = "process.transition"
	TypeScheduled  Type = "process.scheduled"
	TypeTerminated Type = "process.terminated"
)

// Event is the fire-and-forget lifecycle notification handed to the
// observability sink. Failures publishing or persisting events never affect
// lifecycle correctness.
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	ProcessID uint32                 `json:"processId"`
	Name      string                 `json:"name,omitempty"`
	Priority  uint8                  `json:"priority,omitempty"`
	From      string                 `json:"from,omitempty"`
	To        string                 `json:"to,omitempty"`
	Cleanup   *cleanup.Result        `json:"cleanup,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
