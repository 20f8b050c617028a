package announcement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Announcement is the banner text shown above the storefront.
type Announcement struct {
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Store reads and writes the announcement file wholesale.
type Store struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Get returns the stored announcement. A missing file is an empty one.
func (s *Store) Get() (Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Announcement{}, nil
	}
	if err != nil {
		return Announcement{}, fmt.Errorf("read announcement: %w", err)
	}

	var a Announcement
	if err := json.Unmarshal(data, &a); err != nil {
		return Announcement{}, fmt.Errorf("decode announcement %s: %w", s.path, err)
	}
	return a, nil
}

// Set replaces the announcement text. The file is written to a temp file
// in the same directory and renamed over the old one.
func (s *Store) Set(text string) (Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := Announcement{Text: text, UpdatedAt: s.now().UTC()}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return Announcement{}, err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Announcement{}, fmt.Errorf("create announcement dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".announcement-*.json")
	if err != nil {
		return Announcement{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return Announcement{}, fmt.Errorf("write announcement: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Announcement{}, fmt.Errorf("close announcement: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return Announcement{}, fmt.Errorf("replace announcement: %w", err)
	}
	return a, nil
}
