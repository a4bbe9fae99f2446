// Package submit turns a finished report into one multipart request:
// final validation, field normalization, serialization, upload with
// progress, and the post-create draft cleanup.
package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/gosimple/slug"

	"github.com/trustedvehicles/vinspect/internal/api"
	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/draft"
	"github.com/trustedvehicles/vinspect/internal/logger"
	"github.com/trustedvehicles/vinspect/internal/media"
	"github.com/trustedvehicles/vinspect/internal/record"
	"github.com/trustedvehicles/vinspect/internal/validate"
)

// Mode selects between creating a new vehicle and updating an existing one.
type Mode int

const (
	Create Mode = iota
	Update
)

// Uploader is the slice of the API client the pipeline needs.
type Uploader interface {
	CreateVehicle(ctx context.Context, up api.Upload, progress func(int)) (api.ServerRecord, error)
	UpdateVehicle(ctx context.Context, id string, up api.Upload, progress func(int)) (api.ServerRecord, error)
}

// Pipeline submits reports. One Run is one attempt; a failed attempt leaves
// the record, staging, and draft untouched so the inspector can retry.
type Pipeline struct {
	uploader Uploader
	drafts   draft.Store
}

// New builds a pipeline. drafts may be nil when there is no local store.
func New(uploader Uploader, drafts draft.Store) *Pipeline {
	return &Pipeline{uploader: uploader, drafts: drafts}
}

// Run validates, serializes, and uploads the report. A non-empty ErrorSet
// means validation blocked the submission and no request was made. progress
// receives 0 to 100 exactly once per new percentage, ending at 100 only on
// success. A successful create clears the draft; updates never touch it.
func (p *Pipeline) Run(ctx context.Context, mode Mode, vehicleID string, r *record.Record, st *media.Staging, progress func(int)) (api.ServerRecord, validate.ErrorSet, error) {
	if errs := validate.ForSubmit(r, st); !errs.OK() {
		return api.ServerRecord{}, errs, nil
	}

	up, err := serialize(r, st)
	if err != nil {
		return api.ServerRecord{}, nil, err
	}

	var rec api.ServerRecord
	switch mode {
	case Create:
		rec, err = p.uploader.CreateVehicle(ctx, up, progress)
	case Update:
		rec, err = p.uploader.UpdateVehicle(ctx, vehicleID, up, progress)
	default:
		return api.ServerRecord{}, nil, fmt.Errorf("unknown submit mode %d", mode)
	}
	if err != nil {
		return api.ServerRecord{}, nil, err
	}

	if mode == Create && p.drafts != nil {
		if err := p.drafts.Clear(ctx); err != nil {
			// The report made it to the server; a stale draft is an
			// annoyance, not a failure.
			logger.Warn("Failed to clear draft after create: %v", err)
		}
	}
	return rec, nil, nil
}

// serialize writes every field and staged file into one multipart body.
func serialize(r *record.Record, st *media.Staging) (api.Upload, error) {
	fields := normalize(r)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fd := range catalog.ScalarFields {
		if err := w.WriteField(string(fd.Name), fields[string(fd.Name)]); err != nil {
			return api.Upload{}, fmt.Errorf("write field %s: %w", fd.Name, err)
		}
	}
	for _, cp := range catalog.Checkpoints {
		for _, f := range []catalog.Field{cp.StatusField(), cp.RemarkField()} {
			if err := w.WriteField(string(f), fields[string(f)]); err != nil {
				return api.Upload{}, fmt.Errorf("write field %s: %w", f, err)
			}
		}
	}

	for _, slot := range st.StagedSlots() {
		if dropSlot(slot, r) {
			continue
		}
		it, _ := st.Staged(slot)
		if err := writeFilePart(w, st, slot, it, partFilename(r, slot, it)); err != nil {
			return api.Upload{}, err
		}
	}

	if err := w.Close(); err != nil {
		return api.Upload{}, fmt.Errorf("finish multipart body: %w", err)
	}
	return api.Upload{
		ContentType: w.FormDataContentType(),
		Body:        bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
	}, nil
}

// normalize applies the submit-time field rules to a snapshot, leaving the
// live record untouched.
func normalize(r *record.Record) map[string]string {
	fields := r.Snapshot()
	// The backend's listing year is the manufacturing year.
	fields[string(catalog.FieldYear)] = fields[string(catalog.FieldMfgYear)]
	return fields
}

// dropSlot reports whether a staged document no longer applies to the
// report's current answers.
func dropSlot(slot catalog.Slot, r *record.Record) bool {
	switch slot {
	case catalog.SlotNOC:
		return r.Get(catalog.FieldHypothecation) != "Close"
	case catalog.SlotRC:
		return !r.Bool(catalog.FieldRCAvailable)
	}
	return false
}

// partFilename derives a stable upload filename from the vehicle identity
// and the slot, keeping the staged file's extension.
func partFilename(r *record.Record, slot catalog.Slot, it media.Item) string {
	base := slug.Make(fmt.Sprintf("%s %s %s",
		r.Get(catalog.FieldMake), r.Get(catalog.FieldModel), slot))
	if base == "" {
		base = slug.Make(string(slot))
	}
	return base + filepath.Ext(it.Name)
}

func writeFilePart(w *multipart.Writer, st *media.Staging, slot catalog.Slot, it media.Item, filename string) error {
	part, err := w.CreateFormFile(string(slot), filename)
	if err != nil {
		return fmt.Errorf("create file part %s: %w", slot, err)
	}
	f, err := st.Open(slot)
	if err != nil {
		return fmt.Errorf("open staged file %s: %w", slot, err)
	}
	defer f.Close()
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy staged file %s: %w", slot, err)
	}
	return nil
}
