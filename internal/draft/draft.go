// Package draft defines local draft persistence for an in-progress report:
// the storage port, the draft payload, and the debounced autosave scheduler.
// There is exactly one draft slot; starting a new report resumes or replaces
// it.
package draft

import (
	"context"
	"fmt"
	"time"
)

// ErrNoDraft is returned by Load when no draft exists.
var ErrNoDraft = fmt.Errorf("no draft")

// MediaItem is one staged file carried inside a draft. Path points at a
// readable local file: the staged source on Save, a restored copy on Load.
type MediaItem struct {
	Slot string `json:"slot"`
	Name string `json:"name"`
	Path string `json:"-"`
}

// Draft is the persisted form of an in-progress report.
type Draft struct {
	SavedAt time.Time         `json:"saved_at"`
	Fields  map[string]string `json:"fields"`
	Media   []MediaItem       `json:"media,omitempty"`
}

// Store persists the single draft slot. Save is an upsert; Clear is
// idempotent and succeeds when no draft exists.
type Store interface {
	Save(ctx context.Context, d Draft) error
	Load(ctx context.Context) (Draft, error)
	Clear(ctx context.Context) error
}

// Discard is a Store that keeps nothing. It backs the wizard when the local
// store cannot be opened, so editing continues without autosave.
type Discard struct{}

func (Discard) Save(context.Context, Draft) error { return nil }
func (Discard) Load(context.Context) (Draft, error) {
	return Draft{}, ErrNoDraft
}
func (Discard) Clear(context.Context) error { return nil }
