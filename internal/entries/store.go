package entries

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName     = "avrsetup"
	entriesFile = "entries.yaml"
)

var (
	// ErrAlreadyConfigured means an entry with the same unique ID exists
	ErrAlreadyConfigured = errors.New("receiver is already configured")

	// ErrNotFound means no entry has the given unique ID
	ErrNotFound = errors.New("entry not found")
)

// GetEntriesDir returns the OS-appropriate configuration directory.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/avrsetup or $HOME/.config/avrsetup
//   - macOS: $HOME/.config/avrsetup (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\avrsetup
func GetEntriesDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			// Fallback to USERPROFILE\AppData\Local if LOCALAPPDATA not set
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Linux and other Unix-like systems
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetEntriesPath returns the full path to the entries file.
func GetEntriesPath() (string, error) {
	dir, err := GetEntriesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, entriesFile), nil
}

// Store is the entry registry bound to one file on disk.
// All operations are safe for concurrent use.
type Store struct {
	path string

	mu  sync.Mutex
	reg *registry
}

// Open loads the registry at path, creating a default one in memory when the
// file does not exist yet. The file itself is created on the first save.
func Open(path string) (*Store, error) {
	reg, err := loadRegistry(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, reg: reg}, nil
}

// OpenDefault opens the registry at the platform default path.
func OpenDefault() (*Store, error) {
	path, err := GetEntriesPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

func loadRegistry(path string) (*registry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return newRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries file: %w", err)
	}

	var reg registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse entries file: %w", err)
	}

	if reg.Version != 1 {
		return nil, fmt.Errorf("unsupported entries file version: %d (expected 1)", reg.Version)
	}

	// Ensure maps are initialized
	if reg.Entries == nil {
		reg.Entries = make(map[string]*Entry)
	}
	if reg.Preferences == nil {
		reg.Preferences = defaultPreferences()
	}

	return &reg, nil
}

// save writes the registry to disk. Callers hold s.mu.
// Performs an atomic write to prevent corruption on crash.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create entries directory: %w", err)
	}

	data, err := yaml.Marshal(s.reg)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	// Add header comment
	header := []byte(`# AVR setup entries
# Receivers paired through the setup flow, keyed by unique ID (model-serial).
# The setup wizard rewrites this file; hand edits are preserved but not
# validated.
#
# Location: ` + s.path + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary entries file: %w", err)
	}

	// Atomic rename (this is atomic on all platforms)
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save entries file: %w", err)
	}

	return nil
}

// Create adds a new entry and persists the registry.
// Returns ErrAlreadyConfigured when the unique ID is already present; the
// existing entry is left untouched.
func (s *Store) Create(e Entry) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reg.Entries[e.UniqueID]; exists {
		return nil, ErrAlreadyConfigured
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	stored := e
	s.reg.Entries[e.UniqueID] = &stored

	if err := s.save(); err != nil {
		delete(s.reg.Entries, e.UniqueID)
		return nil, err
	}

	created := stored
	return &created, nil
}

// Exists reports whether an entry with the unique ID is present.
func (s *Store) Exists(uniqueID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.reg.Entries[uniqueID]
	return ok
}

// Get returns a copy of the entry with the unique ID.
func (s *Store) Get(uniqueID string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reg.Entries[uniqueID]
	if !ok {
		return nil, ErrNotFound
	}

	entry := *e
	return &entry, nil
}

// List returns copies of all entries sorted by title, unique ID breaking
// ties.
func (s *Store) List() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*Entry, 0, len(s.reg.Entries))
	for _, e := range s.reg.Entries {
		entry := *e
		list = append(list, &entry)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Title != list[j].Title {
			return list[i].Title < list[j].Title
		}
		return list[i].UniqueID < list[j].UniqueID
	})

	return list
}

// Delete removes the entry with the unique ID and persists the registry.
func (s *Store) Delete(uniqueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reg.Entries[uniqueID]
	if !ok {
		return ErrNotFound
	}

	delete(s.reg.Entries, uniqueID)

	if err := s.save(); err != nil {
		s.reg.Entries[uniqueID] = e
		return err
	}

	return nil
}

// UpdateHost sets the host of an existing entry. Everything else is left as
// paired. Reports whether an entry matched; a missing entry is not an error
// because discovery races deletion.
func (s *Store) UpdateHost(uniqueID, host string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reg.Entries[uniqueID]
	if !ok {
		return false, nil
	}

	if e.Data.Host == host {
		return true, nil
	}

	previous := e.Data.Host
	e.Data.Host = host

	if err := s.save(); err != nil {
		e.Data.Host = previous
		return true, err
	}

	return true, nil
}

// Preferences returns a copy of the stored preferences.
func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.reg.Preferences
}

// SetPreferences replaces the stored preferences and persists the registry.
func (s *Store) SetPreferences(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.reg.Preferences
	s.reg.Preferences = &p

	if err := s.save(); err != nil {
		s.reg.Preferences = previous
		return err
	}

	return nil
}
