// Package session owns the moving parts of one wizard run: the record, the
// media staging, the step controller, and the autosave scheduler. The TUI
// mutates the report only through a session, which keeps draft persistence
// and error clearing consistent.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/trustedvehicles/vinspect/internal/api"
	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/draft"
	"github.com/trustedvehicles/vinspect/internal/logger"
	"github.com/trustedvehicles/vinspect/internal/media"
	"github.com/trustedvehicles/vinspect/internal/record"
	"github.com/trustedvehicles/vinspect/internal/wizard"
)

// Options configures a session.
type Options struct {
	// Drafts persists autosaves. Nil disables draft persistence.
	Drafts draft.Store
	// Debounce overrides the autosave delay. Zero means draft.DebounceDelay.
	Debounce time.Duration
}

// Session is one wizard run over a single report.
type Session struct {
	// mu guards record and staging mutation against the autosave goroutine.
	mu sync.Mutex

	rec     *record.Record
	staging *media.Staging
	ctrl    *wizard.Controller

	drafts draft.Store
	sched  *draft.Scheduler

	vehicleID string
	editing   bool
}

// NewCreate starts a session for a new report, resuming the saved draft if
// one exists. The second return reports whether a draft was resumed. A
// failing draft load degrades to a fresh report.
func NewCreate(ctx context.Context, opts Options) (*Session, bool) {
	s := newSession(opts)

	resumed := false
	if s.drafts != nil {
		d, err := s.drafts.Load(ctx)
		switch {
		case errors.Is(err, draft.ErrNoDraft):
		case err != nil:
			logger.Warn("Failed to load draft, starting fresh: %v", err)
		default:
			s.restoreDraft(d)
			resumed = true
		}
	}
	return s, resumed
}

// NewEdit starts a session over an existing vehicle. The server's values
// seed the record and its media becomes remote references. Edit sessions
// never touch the create draft.
func NewEdit(rec api.ServerRecord, opts Options) *Session {
	opts.Drafts = nil
	s := newSession(opts)
	s.vehicleID = rec.ID
	s.editing = true

	s.rec = record.FromMap(rec.Fields)
	for slot, ref := range rec.Media {
		if err := s.staging.SetRef(slot, ref); err != nil {
			logger.Warn("Dropping media for unknown slot %s", slot)
		}
	}
	s.ctrl = wizard.New(s.rec, s.staging)
	return s
}

func newSession(opts Options) *Session {
	s := &Session{
		rec:     record.New(),
		staging: media.NewStaging(),
		drafts:  opts.Drafts,
	}
	s.ctrl = wizard.New(s.rec, s.staging)

	delay := opts.Debounce
	if delay <= 0 {
		delay = draft.DebounceDelay
	}
	if s.drafts != nil {
		s.sched = draft.NewScheduler(delay, s.worthSaving, s.saveDraft)
	}
	return s
}

func (s *Session) restoreDraft(d draft.Draft) {
	s.rec = record.FromMap(d.Fields)
	for _, m := range d.Media {
		if err := s.staging.Accept(catalog.Slot(m.Slot), m.Path); err != nil {
			logger.Warn("Dropping draft media %s: %v", m.Slot, err)
		}
	}
	s.ctrl = wizard.New(s.rec, s.staging)
}

// Record exposes the report for read access.
func (s *Session) Record() *record.Record { return s.rec }

// Staging exposes staged media for read access.
func (s *Session) Staging() *media.Staging { return s.staging }

// Wizard exposes the step controller.
func (s *Session) Wizard() *wizard.Controller { return s.ctrl }

// VehicleID returns the id under edit, or "" for a new report.
func (s *Session) VehicleID() string { return s.vehicleID }

// Editing reports whether this session updates an existing vehicle.
func (s *Session) Editing() bool { return s.editing }

// SetField writes a field value, clears that field's displayed error, and
// schedules an autosave.
func (s *Session) SetField(f catalog.Field, v string) error {
	s.mu.Lock()
	err := s.rec.Set(f, v)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.ctrl.ClearErrorFor(f)
	s.touched()
	return nil
}

// AttachMedia stages a file into a slot.
func (s *Session) AttachMedia(slot catalog.Slot, path string) error {
	s.mu.Lock()
	err := s.staging.Accept(slot, path)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.ctrl.ClearErrorForSlot(slot)
	s.touched()
	return nil
}

// RemoveMedia drops the staged file for a slot. A remote reference stays:
// server-held media is only ever dropped by the submission pipeline.
func (s *Session) RemoveMedia(slot catalog.Slot) {
	s.mu.Lock()
	s.staging.Clear(slot)
	s.mu.Unlock()
	s.ctrl.ClearErrorForSlot(slot)
	s.touched()
}

func (s *Session) touched() {
	if s.sched != nil {
		s.sched.Nudge()
	}
}

// worthSaving gates autosave until the report has identity: any basic
// detail entered, or a cover photo staged.
func (s *Session) worthSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.HasBasicDetails() || s.staging.Filled(catalog.SlotMainImage)
}

func (s *Session) saveDraft() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.mu.Lock()
	d := draft.Draft{
		SavedAt: time.Now(),
		Fields:  s.rec.Snapshot(),
	}
	for _, slot := range s.staging.StagedSlots() {
		it, _ := s.staging.Staged(slot)
		d.Media = append(d.Media, draft.MediaItem{
			Slot: string(slot),
			Name: it.Name,
			Path: it.Path,
		})
	}
	s.mu.Unlock()
	if err := s.drafts.Save(ctx, d); err != nil {
		// Autosave is best effort; the inspector keeps working.
		logger.Warn("Autosave failed: %v", err)
		return
	}
	logger.Debug("Draft autosaved (%d fields, %d files)", len(d.Fields), len(d.Media))
}

// Teardown cancels pending autosaves and releases staged previews. The
// session must not be used afterwards.
func (s *Session) Teardown() {
	if s.sched != nil {
		s.sched.Stop()
	}
	s.staging.Release()
}
