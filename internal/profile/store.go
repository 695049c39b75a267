package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPath is the profile location used when none is given.
const DefaultPath = "~/.dvd/player_data.json"

// Store reads and writes one profile file.
type Store struct {
	path   string
	limit  int
	logger *log.Logger
	now    func() time.Time
	mu     *sync.Mutex // Serializes Update; shared by stores on the same file
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger routes load and save diagnostics to logger.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLeaderboardCap sets how many records are kept. Non-positive values are ignored.
func WithLeaderboardCap(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithClock overrides the time source used to date records.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLock makes Update hold mu. Stores that share a file must share mu.
func WithLock(mu *sync.Mutex) StoreOption {
	return func(s *Store) {
		if mu != nil {
			s.mu = mu
		}
	}
}

// NewStore creates a store for the file at path. A leading ~ is expanded
// to the user's home directory; an empty path means DefaultPath.
func NewStore(path string, opts ...StoreOption) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{
		path:   expandHome(path),
		limit:  DefaultLeaderboardCap,
		logger: log.Default(),
		now:    time.Now,
		mu:     &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the resolved file path.
func (s *Store) Path() string { return s.path }

// Cap returns the leaderboard size limit.
func (s *Store) Cap() int { return s.limit }

// Load returns the stored profile, or the default profile if the file is
// missing or unreadable. It never fails.
func (s *Store) Load() Profile {
	p, ok := s.read()
	if !ok {
		return Default()
	}
	return p
}

// read reports false when the file is missing or unusable.
func (s *Store) read() (Profile, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("cannot read profile, using defaults", "path", s.path, "err", err)
		}
		return Profile{}, false
	}
	p, err := Decode(data, s.limit)
	if err != nil {
		s.logger.Warn("corrupt profile, using defaults", "path", s.path, "err", err)
		return Profile{}, false
	}
	return p, true
}

// Update applies fn to the profile on disk and saves the result, holding
// the store lock throughout so concurrent sessions on one file do not
// overwrite each other. When the file cannot be read, fn gets current.
// If fn fails nothing is saved and current is returned with the error.
// A save error is returned together with the updated profile.
func (s *Store) Update(current Profile, fn func(Profile) (Profile, error)) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, ok := s.read()
	if !ok {
		base = current
	}
	next, err := fn(base)
	if err != nil {
		return current, err
	}
	return next, s.Save(next)
}

// Save writes p to disk. The file is replaced atomically so a crash never
// leaves a partial profile behind. Failures are logged and returned; the
// caller's in-memory profile stays valid either way.
func (s *Store) Save(p Profile) error {
	if err := s.write(p); err != nil {
		s.logger.Error("profile save failed", "path", s.path, "err", err)
		return err
	}
	s.logger.Debug("profile saved", "path", s.path, "games", p.GamesPlayed)
	return nil
}

// RecordGameOver folds a finished session into p, dated with the store clock
// and capped at the store limit. It does not save.
func (s *Store) RecordGameOver(p Profile, score float64, name string) Profile {
	return RecordGameOver(p, score, name, s.now(), s.limit)
}

func (s *Store) write(p Profile) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("profile: failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".player_data-*.tmp")
	if err != nil {
		return fmt.Errorf("profile: failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        //nolint:errcheck // Already failing
		os.Remove(tmpName) //nolint:errcheck // Best-effort cleanup
		return fmt.Errorf("profile: failed to write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // Best-effort cleanup
		return fmt.Errorf("profile: failed to close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName) //nolint:errcheck // Best-effort cleanup
		return fmt.Errorf("profile: failed to replace %s: %w", s.path, err)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
