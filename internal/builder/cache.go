package builder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Entry records a built dependency layer keyed by manifest hash and
// interpreter version. Entries are immutable once written.
type Entry struct {
	// Key is the envspec.CacheKey this entry is stored under
	Key string `json:"key"`

	// BaseImage the layer was built from
	BaseImage string `json:"base_image"`

	// Interpreter version the layer was built for
	Interpreter string `json:"interpreter"`

	// DepsImage is the committed image containing system and language
	// packages (phases 1-2)
	DepsImage string `json:"deps_image"`

	// CreatedAt is when the entry was written
	CreatedAt time.Time `json:"created_at"`
}

// same compares entries ignoring CreatedAt.
func (e Entry) same(other Entry) bool {
	return e.Key == other.Key &&
		e.BaseImage == other.BaseImage &&
		e.Interpreter == other.Interpreter &&
		e.DepsImage == other.DepsImage
}

// Store is the append-only build cache. It is the only resource shared
// across concurrent runs: reads are unsynchronized between processes, and
// Put never overwrites a differing prior entry.
type Store struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// NewStore creates a cache store rooted at dir.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the entry for key, or ok=false on a cache miss.
func (s *Store) Get(key string) (*Entry, bool, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return &entry, true, nil
}

// Put writes a new entry. Writing an identical entry again is a no-op;
// writing a differing entry under an existing key is an error, never an
// overwrite.
func (s *Store) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok, err := s.Get(entry.Key); err != nil {
		return err
	} else if ok {
		if existing.same(entry) {
			return nil
		}
		return fmt.Errorf("cache entry conflict for key %s: existing image %s, new image %s",
			entry.Key, existing.DepsImage, entry.DepsImage)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path(entry.Key), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry %s: %w", entry.Key, err)
	}
	return nil
}
