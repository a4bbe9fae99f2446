// Package media stages image and video attachments for a report. Files stay
// on disk where the inspector picked them; staging records the slot binding,
// validates type and size up front, and manages preview copies so the rest
// of the application never touches the filesystem directly.
package media

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/trustedvehicles/vinspect/internal/catalog"
)

// Size caps enforced at staging time, before any upload is attempted.
const (
	MaxImageBytes = 10 << 20
	MaxVideoBytes = 50 << 20
)

var (
	ErrUnknownSlot = fmt.Errorf("unknown media slot")
	ErrTooLarge    = fmt.Errorf("file too large")
	ErrBadType     = fmt.Errorf("unsupported file type")
)

// Item is one staged local file.
type Item struct {
	Path string
	Name string
	Size int64
	MIME string
}

// Staging tracks staged local files and existing remote references per slot.
// A slot holds at most one of each; staging a file over a remote reference
// supersedes it for submission. Not safe for concurrent use.
type Staging struct {
	staged   map[catalog.Slot]Item
	refs     map[catalog.Slot]string
	previews map[catalog.Slot]string
	tmpDir   string
}

// NewStaging returns empty staging.
func NewStaging() *Staging {
	return &Staging{
		staged:   make(map[catalog.Slot]Item),
		refs:     make(map[catalog.Slot]string),
		previews: make(map[catalog.Slot]string),
	}
}

// Accept validates and stages the file at path into slot. Images must be
// image/* and at most 10 MiB; videos video/* and at most 50 MiB. A
// previously staged file in the same slot is replaced and its preview
// released.
func (st *Staging) Accept(slot catalog.Slot, path string) error {
	def, ok := catalog.SlotByID(slot)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat media file: %w", err)
	}

	mimeType, err := detectMIME(path)
	if err != nil {
		return fmt.Errorf("detect media type: %w", err)
	}

	switch def.Kind {
	case catalog.SlotImage:
		if !strings.HasPrefix(mimeType, "image/") {
			return fmt.Errorf("%w: %s is %s, slot %s needs an image", ErrBadType, filepath.Base(path), mimeType, slot)
		}
		if info.Size() > MaxImageBytes {
			return fmt.Errorf("%w: %s is %d bytes, images are capped at %d", ErrTooLarge, filepath.Base(path), info.Size(), MaxImageBytes)
		}
	case catalog.SlotVideo:
		if !strings.HasPrefix(mimeType, "video/") {
			return fmt.Errorf("%w: %s is %s, slot %s needs a video", ErrBadType, filepath.Base(path), mimeType, slot)
		}
		if info.Size() > MaxVideoBytes {
			return fmt.Errorf("%w: %s is %d bytes, videos are capped at %d", ErrTooLarge, filepath.Base(path), info.Size(), MaxVideoBytes)
		}
	}

	st.releasePreview(slot)
	st.staged[slot] = Item{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
		MIME: mimeType,
	}
	return nil
}

// SetRef records an existing remote reference for slot, as returned by the
// server when editing a published report.
func (st *Staging) SetRef(slot catalog.Slot, ref string) error {
	if _, ok := catalog.SlotByID(slot); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	st.refs[slot] = ref
	return nil
}

// Clear removes the staged file for slot. A remote reference survives: the
// server copy stays until the submission pipeline drops it.
func (st *Staging) Clear(slot catalog.Slot) {
	st.releasePreview(slot)
	delete(st.staged, slot)
}

// Staged returns the staged item for slot, if any.
func (st *Staging) Staged(slot catalog.Slot) (Item, bool) {
	it, ok := st.staged[slot]
	return it, ok
}

// Ref returns the remote reference for slot, if any.
func (st *Staging) Ref(slot catalog.Slot) (string, bool) {
	ref, ok := st.refs[slot]
	return ref, ok
}

// Filled reports whether slot has either a staged file or a remote
// reference. Validation treats both as satisfying a media requirement.
func (st *Staging) Filled(slot catalog.Slot) bool {
	if _, ok := st.staged[slot]; ok {
		return true
	}
	_, ok := st.refs[slot]
	return ok
}

// Open opens the staged file for slot for reading.
func (st *Staging) Open(slot catalog.Slot) (io.ReadCloser, error) {
	it, ok := st.staged[slot]
	if !ok {
		return nil, fmt.Errorf("nothing staged for slot %s", slot)
	}
	return os.Open(it.Path)
}

// StagedSlots returns slots with staged files, in catalog order.
func (st *Staging) StagedSlots() []catalog.Slot {
	var out []catalog.Slot
	for _, def := range catalog.Slots {
		if _, ok := st.staged[def.ID]; ok {
			out = append(out, def.ID)
		}
	}
	return out
}

// GalleryProgress returns how many of the gallery slots are filled and the
// gallery size, for the completeness indicator.
func (st *Staging) GalleryProgress() (filled, total int) {
	for _, def := range catalog.Slots {
		if !def.Gallery {
			continue
		}
		total++
		if st.Filled(def.ID) {
			filled++
		}
	}
	return filled, total
}

// Preview returns a path to a private copy of the staged file, creating it
// on first use. The copy belongs to the staging and is removed when the slot
// is cleared, restaged, or the staging is released.
func (st *Staging) Preview(slot catalog.Slot) (string, error) {
	if p, ok := st.previews[slot]; ok {
		return p, nil
	}
	it, ok := st.staged[slot]
	if !ok {
		return "", fmt.Errorf("nothing staged for slot %s", slot)
	}
	if st.tmpDir == "" {
		dir, err := os.MkdirTemp("", "vinspect-preview-*")
		if err != nil {
			return "", fmt.Errorf("create preview dir: %w", err)
		}
		st.tmpDir = dir
	}
	// Fresh name per copy so a restaged slot never serves a viewer the
	// previous file from a cached path.
	dst := filepath.Join(st.tmpDir, uuid.NewString()+filepath.Ext(it.Path))
	if err := copyFile(it.Path, dst); err != nil {
		return "", fmt.Errorf("copy preview: %w", err)
	}
	st.previews[slot] = dst
	return dst, nil
}

// Release drops all staged entries, references, and preview copies.
func (st *Staging) Release() {
	for slot := range st.previews {
		st.releasePreview(slot)
	}
	if st.tmpDir != "" {
		os.RemoveAll(st.tmpDir)
		st.tmpDir = ""
	}
	st.staged = make(map[catalog.Slot]Item)
	st.refs = make(map[catalog.Slot]string)
}

func (st *Staging) releasePreview(slot catalog.Slot) {
	if p, ok := st.previews[slot]; ok {
		os.Remove(p)
		delete(st.previews, slot)
	}
}

// detectMIME sniffs the file head and falls back to the extension when the
// sniff is inconclusive.
func detectMIME(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	sniffed := http.DetectContentType(buf[:n])
	if sniffed != "application/octet-stream" && sniffed != "text/plain; charset=utf-8" {
		return sniffed, nil
	}
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt, nil
	}
	return sniffed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
