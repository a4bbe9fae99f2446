package submit

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustedvehicles/vinspect/internal/api"
	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/draft"
	"github.com/trustedvehicles/vinspect/internal/media"
	"github.com/trustedvehicles/vinspect/internal/record"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// fakeUploader records the received multipart body instead of posting it.
type fakeUploader struct {
	fields   map[string][]string
	files    map[string]string // slot -> filename
	fileData map[string][]byte
	calls    int
	mode     string
	id       string
	fail     error
}

func (f *fakeUploader) CreateVehicle(_ context.Context, up api.Upload, _ func(int)) (api.ServerRecord, error) {
	f.mode = "create"
	return f.receive(up)
}

func (f *fakeUploader) UpdateVehicle(_ context.Context, id string, up api.Upload, _ func(int)) (api.ServerRecord, error) {
	f.mode = "update"
	f.id = id
	return f.receive(up)
}

func (f *fakeUploader) receive(up api.Upload) (api.ServerRecord, error) {
	f.calls++
	if f.fail != nil {
		return api.ServerRecord{}, f.fail
	}
	_, params, err := mime.ParseMediaType(up.ContentType)
	if err != nil {
		return api.ServerRecord{}, err
	}
	mr := multipart.NewReader(up.Body, params["boundary"])
	f.fields = make(map[string][]string)
	f.files = make(map[string]string)
	f.fileData = make(map[string][]byte)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return api.ServerRecord{}, err
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return api.ServerRecord{}, err
		}
		if part.FileName() != "" {
			f.files[part.FormName()] = part.FileName()
			f.fileData[part.FormName()] = data
		} else {
			f.fields[part.FormName()] = append(f.fields[part.FormName()], string(data))
		}
	}
	return api.ServerRecord{ID: "v42"}, nil
}

func stagePNG(t *testing.T, st *media.Staging, slot catalog.Slot) {
	t.Helper()
	path := filepath.Join(t.TempDir(), string(slot)+".png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))
	require.NoError(t, st.Accept(slot, path))
}

// readyReport builds a record and staging that pass submit validation.
func readyReport(t *testing.T) (*record.Record, *media.Staging) {
	t.Helper()
	r := record.New()
	for f, v := range map[catalog.Field]string{
		catalog.FieldMake:     "Maruti Suzuki",
		catalog.FieldModel:    "Swift",
		catalog.FieldPrice:    "350000",
		catalog.FieldMfgYear:  "2018",
		catalog.FieldOdometer: "56000",
	} {
		require.NoError(t, r.Set(f, v))
	}
	st := media.NewStaging()
	stagePNG(t, st, catalog.SlotRC)
	stagePNG(t, st, catalog.SlotMainImage)
	return r, st
}

func TestRunCreate(t *testing.T) {
	r, st := readyReport(t)
	brake, _ := catalog.CheckpointByID("brake")
	require.NoError(t, r.Set(brake.StatusField(), "Issue"))
	require.NoError(t, r.Set(brake.RemarkField(), "pulls to the left"))

	up := &fakeUploader{}
	drafts := draft.NewMemory()
	require.NoError(t, drafts.Save(context.Background(), draft.Draft{Fields: r.Snapshot()}))

	rec, errs, err := New(up, drafts).Run(context.Background(), Create, "", r, st, nil)
	require.NoError(t, err)
	require.True(t, errs.OK(), "unexpected validation failures: %v", errs.Messages())
	assert.Equal(t, "v42", rec.ID)
	assert.Equal(t, "create", up.mode)

	t.Run("scalar and checkpoint fields serialized", func(t *testing.T) {
		assert.Equal(t, []string{"Maruti Suzuki"}, up.fields["make"])
		assert.Equal(t, []string{"true"}, up.fields["rcAvailable"])
		assert.Equal(t, []string{"Issue"}, up.fields["insp_brake_status"])
		assert.Equal(t, []string{"pulls to the left"}, up.fields["insp_brake_remark"])
		assert.Equal(t, []string{"NA"}, up.fields["insp_climate_control_status"])
	})

	t.Run("year mirrors manufacturing year", func(t *testing.T) {
		assert.Equal(t, []string{"2018"}, up.fields["year"])
		// The live record stays unnormalized.
		assert.Equal(t, "", r.Get(catalog.FieldYear))
	})

	t.Run("files carry slug filenames", func(t *testing.T) {
		require.Contains(t, up.files, "mainImage")
		assert.Equal(t, "maruti-suzuki-swift-mainimage.png", up.files["mainImage"])
		assert.Equal(t, pngHeader, up.fileData["mainImage"])
		assert.Equal(t, "maruti-suzuki-swift-img_rc.png", up.files["img_rc"])
	})

	t.Run("create clears the draft", func(t *testing.T) {
		_, err := drafts.Load(context.Background())
		assert.ErrorIs(t, err, draft.ErrNoDraft)
	})
}

func TestValidationBlocksWithoutRequest(t *testing.T) {
	up := &fakeUploader{}
	r := record.New()
	st := media.NewStaging()

	_, errs, err := New(up, draft.NewMemory()).Run(context.Background(), Create, "", r, st, nil)
	require.NoError(t, err)
	assert.False(t, errs.OK())
	assert.Zero(t, up.calls, "validation failure must not reach the network")
}

func TestConditionalDocumentDrops(t *testing.T) {
	t.Run("rc dropped when unavailable", func(t *testing.T) {
		r, st := readyReport(t)
		require.NoError(t, r.Set(catalog.FieldRCAvailable, "false"))

		up := &fakeUploader{}
		_, errs, err := New(up, draft.NewMemory()).Run(context.Background(), Create, "", r, st, nil)
		require.NoError(t, err)
		require.True(t, errs.OK())
		assert.NotContains(t, up.files, "img_rc")
		assert.Contains(t, up.files, "mainImage")
	})

	t.Run("rc kept when available", func(t *testing.T) {
		r, st := readyReport(t)
		up := &fakeUploader{}
		_, _, err := New(up, draft.NewMemory()).Run(context.Background(), Create, "", r, st, nil)
		require.NoError(t, err)
		assert.Contains(t, up.files, "img_rc")
	})

	t.Run("noc dropped unless hypothecation closed", func(t *testing.T) {
		r, st := readyReport(t)
		stagePNG(t, st, catalog.SlotNOC)

		up := &fakeUploader{}
		_, _, err := New(up, draft.NewMemory()).Run(context.Background(), Create, "", r, st, nil)
		require.NoError(t, err)
		assert.NotContains(t, up.files, "img_noc", "hypothecation NA should drop the NOC")

		require.NoError(t, r.Set(catalog.FieldHypothecation, "Close"))
		_, _, err = New(up, draft.NewMemory()).Run(context.Background(), Create, "", r, st, nil)
		require.NoError(t, err)
		assert.Contains(t, up.files, "img_noc")
	})
}

func TestRunUpdate(t *testing.T) {
	r, st := readyReport(t)
	up := &fakeUploader{}
	drafts := draft.NewMemory()
	require.NoError(t, drafts.Save(context.Background(), draft.Draft{Fields: map[string]string{"make": "old"}}))

	rec, errs, err := New(up, drafts).Run(context.Background(), Update, "v7", r, st, nil)
	require.NoError(t, err)
	require.True(t, errs.OK())
	assert.Equal(t, "v42", rec.ID)
	assert.Equal(t, "update", up.mode)
	assert.Equal(t, "v7", up.id)

	// Updates leave the create draft alone.
	_, err = drafts.Load(context.Background())
	assert.NoError(t, err)
}

func TestFailurePreservesState(t *testing.T) {
	r, st := readyReport(t)
	up := &fakeUploader{fail: fmt.Errorf("network down")}
	drafts := draft.NewMemory()
	require.NoError(t, drafts.Save(context.Background(), draft.Draft{Fields: r.Snapshot()}))

	_, _, err := New(up, drafts).Run(context.Background(), Create, "", r, st, nil)
	require.Error(t, err)

	// Everything local survives for a retry.
	_, loadErr := drafts.Load(context.Background())
	assert.NoError(t, loadErr, "failed submit must keep the draft")
	assert.True(t, st.Filled(catalog.SlotMainImage))
	assert.Equal(t, "Maruti Suzuki", r.Get(catalog.FieldMake))

	// The retry goes through unchanged.
	up.fail = nil
	rec, errs, err := New(up, drafts).Run(context.Background(), Create, "", r, st, nil)
	require.NoError(t, err)
	require.True(t, errs.OK())
	assert.Equal(t, "v42", rec.ID)
}

func TestRemoteRefOnlySlotsOmitted(t *testing.T) {
	r, st := readyReport(t)
	require.NoError(t, st.SetRef("img_front", "uploads/v7/front.jpg"))

	up := &fakeUploader{}
	_, _, err := New(up, draft.NewMemory()).Run(context.Background(), Update, "v7", r, st, nil)
	require.NoError(t, err)
	assert.NotContains(t, up.files, "img_front", "server-held media must not be re-uploaded")
}
