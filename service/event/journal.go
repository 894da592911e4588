package event

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Journal persists lifecycle events as JSON documents under a base location,
// giving the host a durable audit trail that survives restarts. Any storage
// scheme supported by afs works (file, mem, s3, gs, ...).
type Journal struct {
	fs      afs.Service
	baseURL string
	seq     uint64
	mux     sync.Mutex
}

// NewJournal creates a journal rooted at baseURL.
func NewJournal(fs afs.Service, baseURL string) (*Journal, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("journal base URL cannot be empty")
	}
	ctx := context.Background()
	if exists, _ := fs.Exists(ctx, baseURL); !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create journal location %v: %w", baseURL, err)
		}
	}
	return &Journal{fs: fs, baseURL: baseURL}, nil
}

// Append persists one event. The sequence prefix keeps listing order equal
// to publish order.
func (j *Journal) Append(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %v: %w", event.ID, err)
	}
	j.mux.Lock()
	j.seq++
	name := fmt.Sprintf("%012d-%s.json", j.seq, event.ID)
	j.mux.Unlock()
	location := url.Join(j.baseURL, name)
	return j.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data))
}

// List returns all journaled events in append order.
func (j *Journal) List(ctx context.Context) ([]*Event, error) {
	objects, err := j.fs.List(ctx, j.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal %v: %w", j.baseURL, err)
	}
	var names []string
	byName := map[string]string{}
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		names = append(names, object.Name())
		byName[object.Name()] = object.URL()
	}
	sort.Strings(names)

	out := make([]*Event, 0, len(names))
	for _, name := range names {
		data, err := j.fs.DownloadWithURL(ctx, byName[name])
		if err != nil {
			return nil, fmt.Errorf("failed to read journal entry %v: %w", name, err)
		}
		event := &Event{}
		if err := json.Unmarshal(data, event); err != nil {
			return nil, fmt.Errorf("failed to decode journal entry %v: %w", name, err)
		}
		out = append(out, event)
	}
	return out, nil
}
