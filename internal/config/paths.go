package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Paths holds every on-disk location the application uses.
type Paths struct {
	Root       string
	ConfigFile string
	SeedMarker string
	HistoryDB  string
	LogFile    string

	PresetsDir        string
	CursorsDir        string
	CursorTrailsDir   string
	CirclesDir        string
	CircleOverlaysDir string
	DigitsDir         string
	HitsoundsDir      string

	CacheDir          string
	DigitsCacheDir    string
	HitsoundsCacheDir string
}

// ResolvePaths locates the data directory (SKIN_STUDIO_HOME, else the OS
// user config dir) and creates it. A .env file in the working directory is
// loaded first so it can set SKIN_STUDIO_HOME or LOG_LEVEL.
func ResolvePaths() (Paths, error) {
	_ = godotenv.Load()

	root := os.Getenv(HomeEnv)
	if root == "" {
		cfgRoot, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		root = filepath.Join(cfgRoot, AppName)
	}
	p := PathsAt(root)
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create data dir: %w", err)
	}
	return p, nil
}

// PathsAt lays out the data directory under root without touching disk.
func PathsAt(root string) Paths {
	presets := filepath.Join(root, "presets")
	cache := filepath.Join(root, "cache")
	return Paths{
		Root:       root,
		ConfigFile: filepath.Join(root, ConfigFilename),
		SeedMarker: filepath.Join(root, SeedMarkerFile),
		HistoryDB:  filepath.Join(root, HistoryFilename),
		LogFile:    filepath.Join(root, "logs", LogFilename),

		PresetsDir:        presets,
		CursorsDir:        filepath.Join(presets, "cursors"),
		CursorTrailsDir:   filepath.Join(presets, "cursor-trails"),
		CirclesDir:        filepath.Join(presets, "circles"),
		CircleOverlaysDir: filepath.Join(presets, "circle-overlays"),
		DigitsDir:         filepath.Join(presets, "digits"),
		HitsoundsDir:      filepath.Join(presets, "hitsounds"),

		CacheDir:          cache,
		DigitsCacheDir:    filepath.Join(cache, "digits"),
		HitsoundsCacheDir: filepath.Join(cache, "hitsounds"),
	}
}
