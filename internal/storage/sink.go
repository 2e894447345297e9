// SPDX-License-Identifier: MIT
/*
Package storage persists generated tracks. The pipeline only sees the Sink
interface: it creates one artifact per call, writes the container through
the returned handle and removes the artifact if anything fails before the
handle is closed.
*/
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidName is returned for category or artifact names that could
// escape the sink's namespace.
var ErrInvalidName = errors.New("invalid artifact name")

// File is a seekable write handle. Seeking is required by the WAV encoder
// to patch chunk sizes once all frames are written.
type File interface {
	io.WriteSeeker
	io.Closer
}

// Sink creates and removes artifacts grouped by category.
type Sink interface {
	Create(category, name string) (File, error)
	Remove(category, name string) error
}

func validateName(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return nil
}

// DirSink stores artifacts as files under Root/<category>/<name>.
type DirSink struct {
	Root string
}

// NewDirSink creates the root directory if needed.
func NewDirSink(root string) (*DirSink, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %q: %w", root, err)
	}
	return &DirSink{Root: root}, nil
}

// Path returns the file path of an artifact.
func (s *DirSink) Path(category, name string) string {
	return filepath.Join(s.Root, category, name)
}

// Create opens a new artifact exclusively; an existing name is an error.
func (s *DirSink) Create(category, name string) (File, error) {
	if err := validateName(category); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(s.Root, category), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(s.Path(category, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
}

// Remove deletes an artifact. Missing artifacts are not an error.
func (s *DirSink) Remove(category, name string) error {
	if err := validateName(category); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(category, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemorySink keeps artifacts in memory. An artifact becomes visible when its
// handle is closed. Safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	files   map[string][]byte
	creates int
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func memKey(category, name string) string {
	return category + "/" + name
}

// Create returns an in-memory handle for a new artifact.
func (m *MemorySink) Create(category, name string) (File, error) {
	if err := validateName(category); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memKey(category, name)
	if _, ok := m.files[key]; ok {
		return nil, fmt.Errorf("artifact %s already exists", key)
	}
	m.creates++
	return &memFile{sink: m, key: key}, nil
}

// Remove deletes an artifact if present.
func (m *MemorySink) Remove(category, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, memKey(category, name))
	return nil
}

// Bytes returns a copy of a committed artifact.
func (m *MemorySink) Bytes(category, name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[memKey(category, name)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Names lists the committed artifacts of a category in lexical order.
func (m *MemorySink) Names(category string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := category + "/"
	var names []string
	for key := range m.files {
		if name, ok := strings.CutPrefix(key, prefix); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Creates returns how many handles were handed out.
func (m *MemorySink) Creates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

// memFile is a growable seekable byte buffer.
type memFile struct {
	sink   *MemorySink
	key    string
	data   []byte
	pos    int64
	closed bool
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	end := f.pos + int64(len(p))
	if end > int64(len(f.data)) {
		f.data = append(f.data, make([]byte, end-int64(len(f.data)))...)
	}
	copy(f.data[f.pos:end], p)
	f.pos = end
	return len(p), nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.pos + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, errors.New("negative seek position")
	}
	f.pos = abs
	return abs, nil
}

func (f *memFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	f.sink.mu.Lock()
	f.sink.files[f.key] = f.data
	f.sink.mu.Unlock()
	return nil
}
