// Package settings persists user preferences (model, default tone,
// seniority) as a TOML file and serves them to the rephrase pipeline.
package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/rephrase-app/rephrase/internal/llm"
)

const (
	DefaultModel = "gpt-4o-mini"

	fileMode = 0o600
	dirMode  = 0o700
)

// Models maps selectable model identifiers to display names.
var Models = map[string]string{
	"gpt-4o-mini": "gpt-4o-mini (Fast, cheaper)",
	"gpt-4o":      "gpt-4o (Smarter, slower)",
}

// Settings is the persisted preference file. Zero or unknown values fall
// back to documented defaults at read time.
type Settings struct {
	Model     string `toml:"model"`
	Tone      string `toml:"tone"`
	Seniority string `toml:"seniority"`
}

func defaults() Settings {
	return Settings{
		Model:     DefaultModel,
		Tone:      llm.DefaultToneKey,
		Seniority: llm.DefaultSeniorityKey,
	}
}

// Store serves persisted settings. Reads are mutex-guarded so watch-mode
// reloads can swap values under a running workflow.
type Store struct {
	path   string
	logger *zerolog.Logger

	mu      sync.RWMutex
	current Settings
}

// NewStore loads settings from path, falling back to defaults when the file
// is missing or unreadable. A corrupt file never fails startup.
func NewStore(path string, logger *zerolog.Logger) *Store {
	s := &Store{path: path, logger: logger, current: defaults()}
	s.Reload()

	return s
}

// Reload re-reads the settings file. A missing or corrupt file yields the
// documented defaults.
func (s *Store) Reload() {
	loaded := defaults()

	if _, err := toml.DecodeFile(s.path, &loaded); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("settings file unreadable, using defaults")
		}

		loaded = defaults()
	}

	s.mu.Lock()
	s.current = sanitize(loaded)
	s.mu.Unlock()
}

// sanitize replaces unknown identifiers with the documented defaults.
func sanitize(in Settings) Settings {
	if _, ok := Models[in.Model]; !ok {
		in.Model = DefaultModel
	}

	if _, ok := llm.Tones[in.Tone]; !ok {
		in.Tone = llm.DefaultToneKey
	}

	if _, ok := llm.SeniorityLevels[in.Seniority]; !ok {
		in.Seniority = llm.DefaultSeniorityKey
	}

	return in
}

// Save writes the given settings to disk and makes them current.
func (s *Store) Save(settings Settings) error {
	settings = sanitize(settings)

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return err
	}

	if err = toml.NewEncoder(f).Encode(settings); err != nil {
		_ = f.Close()

		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	return nil
}

func (s *Store) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Model
}

func (s *Store) Tone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Tone
}

func (s *Store) Seniority() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Seniority
}

// Watch reloads settings whenever the file changes, until stop is closed.
// Used by resident (-watch) mode.
func (s *Store) Watch(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: editors replace files by rename, which drops a
	// watch placed on the file itself.
	if err = watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()

		return err
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if event.Name != s.path {
					continue
				}

				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					s.logger.Info().Str("path", s.path).Msg("settings file changed, reloading")
					s.Reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				s.logger.Warn().Err(err).Msg("settings watcher error")
			}
		}
	}()

	return nil
}
