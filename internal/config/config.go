package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Config is the persisted application record written to config.json.
type Config struct {
	InstallFolder     string            `json:"install_folder" yaml:"install_folder"`
	ActiveSkin        string            `json:"active_skin" yaml:"active_skin"`
	LazerMode         bool              `json:"lazer_mode" yaml:"lazer_mode"`
	LazerSkinPath     string            `json:"lazer_skin_path" yaml:"lazer_skin_path"`
	AppVersion        string            `json:"app_version" yaml:"app_version"`
	UpdatePreferences UpdatePreferences `json:"update_preferences" yaml:"update_preferences"`
	Preferences       Preferences       `json:"preferences" yaml:"preferences"`
}

type UpdatePreferences struct {
	IgnoreUpdates bool `json:"ignore_updates" yaml:"ignore_updates"`
}

type Preferences struct {
	Use2x bool `json:"use_2x" yaml:"use_2x"`
}

// skinKey identifies the inputs of skin path resolution.
func (c Config) skinKey() string {
	if c.LazerMode {
		return "lazer\x00" + c.LazerSkinPath
	}
	return "stable\x00" + c.InstallFolder + "\x00" + c.ActiveSkin
}

// Store reads and writes the config record. Every setter is an immediate
// read-modify-write; the last write wins.
type Store struct {
	mu       sync.Mutex
	path     string
	version  string
	log      *zap.Logger
	onChange []func(Config)
}

// NewStore creates a Store backed by path. version is stamped into the
// record as AppVersion on every save.
func NewStore(path, version string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, version: version, log: log.Named("config")}
}

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// OnSkinChange registers fn to run after any setter that changes which skin
// folder resolves as active. Used to invalidate the current-skin caches.
func (s *Store) OnSkinChange(fn func(Config)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Load returns the persisted config. A missing or unreadable file yields
// defaults; parse failures are logged, never returned.
func (s *Store) Load() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() Config {
	cfg := Defaults(s.version)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("reading config failed, using defaults", zap.String("path", s.path), zap.Error(err))
		}
		return cfg
	}
	// Unmarshal over the defaults so fields missing from older files keep
	// their default values.
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.log.Warn("parsing config failed, using defaults", zap.String("path", s.path), zap.Error(err))
		return Defaults(s.version)
	}
	return cfg
}

// Save writes the whole record, creating the parent directory if needed.
func (s *Store) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cfg)
}

func (s *Store) save(cfg Config) error {
	if s.version != "" {
		cfg.AppVersion = s.version
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// update applies mutate to the current record and persists it. Observers
// run after the write when the resolved skin changed.
func (s *Store) update(mutate func(*Config)) (Config, error) {
	s.mu.Lock()
	before := s.load()
	after := before
	mutate(&after)
	if err := s.save(after); err != nil {
		s.mu.Unlock()
		return before, err
	}
	var observers []func(Config)
	if before.skinKey() != after.skinKey() {
		observers = append(observers, s.onChange...)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(after)
	}
	return after, nil
}

func (s *Store) SetInstallFolder(path string) (Config, error) {
	return s.update(func(c *Config) { c.InstallFolder = path })
}

func (s *Store) SetActiveSkin(name string) (Config, error) {
	return s.update(func(c *Config) { c.ActiveSkin = name })
}

func (s *Store) SetLazerMode(enabled bool) (Config, error) {
	return s.update(func(c *Config) { c.LazerMode = enabled })
}

func (s *Store) SetLazerSkinPath(path string) (Config, error) {
	return s.update(func(c *Config) { c.LazerSkinPath = path })
}

func (s *Store) SetIgnoreUpdates(ignore bool) (Config, error) {
	return s.update(func(c *Config) { c.UpdatePreferences.IgnoreUpdates = ignore })
}

func (s *Store) SetUse2x(use bool) (Config, error) {
	return s.update(func(c *Config) { c.Preferences.Use2x = use })
}
