// Package natsstore persists the report draft in an embedded NATS JetStream
// instance inside the data directory. The record goes into a KV bucket under
// a fixed key; staged media binaries go into an object store bucket keyed by
// slot, stored as-is.
package natsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/trustedvehicles/vinspect/internal/draft"
	"github.com/trustedvehicles/vinspect/internal/logger"
)

const (
	kvBucket  = "vinspect_draft"
	objBucket = "vinspect_draft_media"
	draftKey  = "current"
)

// Store is a draft.Store backed by an embedded JetStream server. One Store
// owns the server process for its lifetime; Close shuts it down.
type Store struct {
	ns *server.Server
	nc *nats.Conn
	js jetstream.JetStream

	kv  jetstream.KeyValue
	obj jetstream.ObjectStore

	restoreDir string
}

// Open starts the embedded server with file storage under dataDir and
// prepares the draft buckets.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	logger.Debug("Starting embedded NATS server with data dir: %s", dataDir)

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   filepath.Join(dataDir, "store"),
		DontListen: true, // no network ports, in-process only
	}
	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create nats server: %w", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(4 * time.Second) {
		return nil, errors.New("nats server failed to start within timeout")
	}

	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("connect in-process: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  kvBucket,
		Storage: jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("create draft bucket: %w", err)
	}

	obj, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:  objBucket,
		Storage: jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("create media bucket: %w", err)
	}

	logger.Debug("Draft store ready")
	return &Store{
		ns:         ns,
		nc:         nc,
		js:         js,
		kv:         kv,
		obj:        obj,
		restoreDir: filepath.Join(dataDir, "restore"),
	}, nil
}

// Save upserts the draft. The record JSON replaces the previous value and
// the media bucket is reconciled to exactly the draft's staged files, so a
// save after removing a photo also removes its binary.
func (s *Store) Save(ctx context.Context, d draft.Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if _, err := s.kv.Put(ctx, draftKey, data); err != nil {
		return fmt.Errorf("store draft record: %w", err)
	}

	want := make(map[string]draft.MediaItem, len(d.Media))
	for _, m := range d.Media {
		want[m.Slot] = m
	}

	if infos, err := s.obj.List(ctx); err == nil {
		for _, info := range infos {
			if _, keep := want[info.Name]; !keep {
				if err := s.obj.Delete(ctx, info.Name); err != nil {
					logger.Warn("Failed to drop stale draft media %s: %v", info.Name, err)
				}
			}
		}
	} else if !errors.Is(err, jetstream.ErrNoObjectsFound) {
		return fmt.Errorf("list draft media: %w", err)
	}

	for _, m := range d.Media {
		if err := s.putMedia(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) putMedia(ctx context.Context, m draft.MediaItem) error {
	f, err := os.Open(m.Path)
	if err != nil {
		return fmt.Errorf("open staged media %s: %w", m.Slot, err)
	}
	defer f.Close()

	_, err = s.obj.Put(ctx, jetstream.ObjectMeta{
		Name:        m.Slot,
		Description: m.Name,
	}, f)
	if err != nil {
		return fmt.Errorf("store draft media %s: %w", m.Slot, err)
	}
	return nil
}

// Load returns the saved draft with its media restored to readable files
// under the data directory. Returns draft.ErrNoDraft when nothing is saved.
func (s *Store) Load(ctx context.Context) (draft.Draft, error) {
	entry, err := s.kv.Get(ctx, draftKey)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return draft.Draft{}, draft.ErrNoDraft
	}
	if err != nil {
		return draft.Draft{}, fmt.Errorf("load draft record: %w", err)
	}

	var d draft.Draft
	if err := json.Unmarshal(entry.Value(), &d); err != nil {
		return draft.Draft{}, fmt.Errorf("decode draft record: %w", err)
	}

	if len(d.Media) > 0 {
		if err := os.MkdirAll(s.restoreDir, 0o755); err != nil {
			return draft.Draft{}, fmt.Errorf("create restore dir: %w", err)
		}
	}
	restored := d.Media[:0]
	for _, m := range d.Media {
		path, err := s.restoreMedia(ctx, m)
		if err != nil {
			// A missing binary degrades to a draft without that file.
			logger.Warn("Failed to restore draft media %s: %v", m.Slot, err)
			continue
		}
		m.Path = path
		restored = append(restored, m)
	}
	d.Media = restored
	return d, nil
}

func (s *Store) restoreMedia(ctx context.Context, m draft.MediaItem) (string, error) {
	res, err := s.obj.Get(ctx, m.Slot)
	if err != nil {
		return "", err
	}
	defer res.Close()

	path := filepath.Join(s.restoreDir, m.Slot+filepath.Ext(m.Name))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, res); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Clear removes the draft record and every stored binary. Clearing an empty
// store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Purge(ctx, draftKey); err != nil {
		return fmt.Errorf("clear draft record: %w", err)
	}
	infos, err := s.obj.List(ctx)
	if errors.Is(err, jetstream.ErrNoObjectsFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list draft media: %w", err)
	}
	for _, info := range infos {
		if err := s.obj.Delete(ctx, info.Name); err != nil {
			return fmt.Errorf("clear draft media %s: %w", info.Name, err)
		}
	}
	return nil
}

// Close drains the connection and shuts the embedded server down.
func (s *Store) Close() error {
	if s.nc != nil {
		drainDone := make(chan error, 1)
		go func() { drainDone <- s.nc.Drain() }()
		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				s.nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out, forcing close")
			s.nc.Close()
		}
	}

	if s.ns != nil {
		s.ns.Shutdown()
		shutdownDone := make(chan struct{})
		go func() {
			s.ns.WaitForShutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(5 * time.Second):
			return errors.New("nats server shutdown timed out")
		}
	}
	return nil
}
