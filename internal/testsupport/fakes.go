package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mediapress/internal/backend"
	"mediapress/internal/optimize"
	"mediapress/internal/storage"
)

// FakeStore is an in-memory storage.Client for pipeline tests.
type FakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	metadata map[string]map[string]string
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		objects:  make(map[string][]byte),
		metadata: make(map[string]map[string]string),
	}
}

// Put seeds an object directly, bypassing the Object interface.
func (s *FakeStore) Put(key string, data []byte, metadata map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	s.metadata[key] = copyMetadata(metadata)
}

// Has reports whether an object exists under key.
func (s *FakeStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// MetadataOf returns a copy of the stored metadata for key.
func (s *FakeStore) MetadataOf(key string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMetadata(s.metadata[key])
}

func (s *FakeStore) Object(key string) storage.Object {
	return &fakeObject{store: s, key: key}
}

type fakeObject struct {
	store *FakeStore
	key   string
}

func (o *fakeObject) Key() string { return o.key }

func (o *fakeObject) Exists(context.Context) (bool, error) {
	return o.store.Has(o.key), nil
}

func (o *fakeObject) Metadata(context.Context) (map[string]string, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	if _, ok := o.store.objects[o.key]; !ok {
		return nil, fmt.Errorf("object %s does not exist", o.key)
	}
	return copyMetadata(o.store.metadata[o.key]), nil
}

func (o *fakeObject) Download(_ context.Context, destDir string) (string, error) {
	o.store.mu.Lock()
	data, ok := o.store.objects[o.key]
	o.store.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("object %s does not exist", o.key)
	}
	dest := filepath.Join(destDir, filepath.Base(o.key))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

func (o *fakeObject) Upload(_ context.Context, localPath string, metadata map[string]string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	o.store.Put(o.key, data, metadata)
	return nil
}

func (o *fakeObject) Delete(context.Context) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	delete(o.store.objects, o.key)
	delete(o.store.metadata, o.key)
	return nil
}

func (o *fakeObject) UpdateMetadata(_ context.Context, metadata map[string]string, replace bool) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	if _, ok := o.store.objects[o.key]; !ok {
		return fmt.Errorf("object %s does not exist", o.key)
	}
	if replace {
		o.store.metadata[o.key] = copyMetadata(metadata)
		return nil
	}
	merged := copyMetadata(o.store.metadata[o.key])
	for k, v := range metadata {
		merged[k] = v
	}
	o.store.metadata[o.key] = merged
	return nil
}

func copyMetadata(metadata map[string]string) map[string]string {
	copied := make(map[string]string, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	return copied
}

// FakeClassifier returns canned scores and records the paths it saw.
type FakeClassifier struct {
	mu     sync.Mutex
	Scores map[string]float64
	Err    error
	calls  []string
}

func (c *FakeClassifier) Classify(_ context.Context, path string) (map[string]float64, error) {
	c.mu.Lock()
	c.calls = append(c.calls, path)
	c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	if c.Scores == nil {
		return map[string]float64{}, nil
	}
	return c.Scores, nil
}

func (c *FakeClassifier) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// FakeTranscoder writes OutputSize bytes to the output path.
type FakeTranscoder struct {
	OutputSize int64
	Err        error
}

func (t *FakeTranscoder) Transcode(_ context.Context, inputPath, outputPath string) (optimize.Result, error) {
	if t.Err != nil {
		return optimize.Result{}, t.Err
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return optimize.Result{}, err
	}
	if err := os.WriteFile(outputPath, make([]byte, t.OutputSize), 0o644); err != nil {
		return optimize.Result{}, err
	}
	return optimize.Result{
		OutputPath: outputPath,
		InputSize:  info.Size(),
		OutputSize: t.OutputSize,
	}, nil
}

// ScriptedNotifier records notifications and answers with the configured
// acceptance verdict.
type ScriptedNotifier struct {
	mu            sync.Mutex
	Accept        bool
	Err           error
	notifications []backend.Notification
}

func (n *ScriptedNotifier) Notify(_ context.Context, notification backend.Notification) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return false, n.Err
	}
	n.notifications = append(n.notifications, notification)
	return n.Accept, nil
}

func (n *ScriptedNotifier) Notifications() []backend.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]backend.Notification(nil), n.notifications...)
}
