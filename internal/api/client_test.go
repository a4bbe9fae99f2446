package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

// newFakeBackend wires a minimal marketplace API on an httptest server.
func newFakeBackend(t *testing.T) (*httptest.Server, *mux.Router) {
	t.Helper()
	r := mux.NewRouter()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, r
}

func TestLogin(t *testing.T) {
	srv, r := newFakeBackend(t)
	r.HandleFunc("/api/login", func(w http.ResponseWriter, req *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		if creds["email"] == "inspector@trustedvehicles.com" && creds["password"] == "hunter2" {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}).Methods(http.MethodPost)

	c := NewClient(srv.URL, nil)

	token, err := c.Login(context.Background(), "inspector@trustedvehicles.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	_, err = c.Login(context.Background(), "inspector@trustedvehicles.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestListVehicles(t *testing.T) {
	vehicles := []map[string]any{
		{"_id": "v1", "make": "Maruti Suzuki", "model": "Swift", "price": 350000},
		{"_id": "v2", "make": "Hyundai", "model": "Creta", "price": "1250000"},
	}

	t.Run("bare array", func(t *testing.T) {
		srv, r := newFakeBackend(t)
		r.HandleFunc("/api/marketplace/vehicles", func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(vehicles)
		}).Methods(http.MethodGet)

		got, err := NewClient(srv.URL, staticToken("tok-123")).ListVehicles(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "v1", got[0].ID)
		assert.Equal(t, "350000", got[0].Fields["price"])
		assert.Equal(t, "1250000", got[1].Fields["price"])
	})

	t.Run("wrapper object", func(t *testing.T) {
		srv, r := newFakeBackend(t)
		r.HandleFunc("/api/marketplace/vehicles", func(w http.ResponseWriter, req *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"vehicles": vehicles})
		}).Methods(http.MethodGet)

		got, err := NewClient(srv.URL, staticToken("tok-123")).ListVehicles(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("expired token", func(t *testing.T) {
		srv, r := newFakeBackend(t)
		r.HandleFunc("/api/marketplace/vehicles", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}).Methods(http.MethodGet)

		_, err := NewClient(srv.URL, staticToken("stale")).ListVehicles(context.Background())
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestGetVehicle(t *testing.T) {
	srv, r := newFakeBackend(t)
	r.HandleFunc("/api/marketplace/vehicles/{id}", func(w http.ResponseWriter, req *http.Request) {
		if mux.Vars(req)["id"] != "v1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"_id":                "v1",
			"make":               "Tata",
			"rcAvailable":        true,
			"mainImage":          "uploads/v1/cover.jpg",
			"img_front":          "uploads/v1/front.jpg",
			"insp_brake_status":  "Issue",
			"mystery_field":      "dropped",
		})
	}).Methods(http.MethodGet)

	c := NewClient(srv.URL, staticToken("tok-123"))

	rec, err := c.GetVehicle(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", rec.ID)
	assert.Equal(t, "Tata", rec.Fields["make"])
	assert.Equal(t, "true", rec.Fields["rcAvailable"])
	assert.Equal(t, "uploads/v1/cover.jpg", rec.Media["mainImage"])
	assert.Equal(t, "uploads/v1/front.jpg", rec.Media["img_front"])
	assert.NotContains(t, rec.Fields, "mystery_field")

	_, err = c.GetVehicle(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateVehicleProgress(t *testing.T) {
	srv, r := newFakeBackend(t)
	r.HandleFunc("/api/marketplace/vehicles", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.NotEmpty(t, body)
		json.NewEncoder(w).Encode(map[string]any{"_id": "v9"})
	}).Methods(http.MethodPost)

	payload := bytes.Repeat([]byte("x"), 64<<10)
	var pcts []int
	rec, err := NewClient(srv.URL, staticToken("tok-123")).CreateVehicle(context.Background(), Upload{
		ContentType: "multipart/form-data; boundary=abc",
		Body:        bytes.NewReader(payload),
		Size:        int64(len(payload)),
	}, func(p int) { pcts = append(pcts, p) })
	require.NoError(t, err)
	assert.Equal(t, "v9", rec.ID)

	require.NotEmpty(t, pcts)
	assert.Equal(t, 100, pcts[len(pcts)-1])
	for i := 1; i < len(pcts); i++ {
		assert.Greater(t, pcts[i], pcts[i-1], "each percentage must be reported once")
	}
}

func TestMediaURL(t *testing.T) {
	c := NewClient("https://apis.trustedvehicles.com/", nil)
	assert.Equal(t, "", c.MediaURL(""))
	assert.Equal(t, "https://cdn.example.com/a.jpg", c.MediaURL("https://cdn.example.com/a.jpg"))
	assert.Equal(t, "https://apis.trustedvehicles.com/uploads/a.jpg", c.MediaURL("uploads/a.jpg"))
	assert.Equal(t, "https://apis.trustedvehicles.com/uploads/a.jpg", c.MediaURL("/uploads/a.jpg"))
}

func TestCountingReader(t *testing.T) {
	data := strings.Repeat("y", 1000)
	var pcts []int
	cr := newCountingReader(strings.NewReader(data), int64(len(data)), func(p int) {
		pcts = append(pcts, p)
	})
	buf := make([]byte, 100)
	for {
		if _, err := cr.Read(buf); err != nil {
			break
		}
	}
	require.NotEmpty(t, pcts)
	assert.Equal(t, 100, pcts[len(pcts)-1])
	for i := 1; i < len(pcts); i++ {
		assert.Greater(t, pcts[i], pcts[i-1], "duplicate or backwards percentage")
	}

	// Completion after a fully streamed body must not repeat 100.
	count := len(pcts)
	cr.finish()
	assert.Len(t, pcts, count)

	// A short body the transport never read to the end still completes.
	var tail []int
	short := newCountingReader(strings.NewReader("abc"), 3, func(p int) { tail = append(tail, p) })
	short.finish()
	assert.Equal(t, []int{100}, tail)
}

func TestFileTokens(t *testing.T) {
	dir := t.TempDir()
	ft := NewFileTokens(dir)

	_, err := ft.Token()
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, ft.Save(Credentials{Email: "i@tv.com", Token: "tok-9"}))
	token, err := ft.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-9", token)

	require.NoError(t, ft.Clear())
	_, err = ft.Token()
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, ft.Clear())
}
