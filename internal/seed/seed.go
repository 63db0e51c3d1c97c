// Package seed merges the bundled presets into the user's library on first
// run and whenever the bundle version changes.
package seed

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/library"
)

// State is the seeding state of the library.
type State int

const (
	NeedsSeed State = iota
	UpToDate
)

func (s State) String() string {
	if s == UpToDate {
		return "up-to-date"
	}
	return "needs-seed"
}

// Marker is the seed.json record written after a successful run.
type Marker struct {
	Version string   `json:"version"`
	Seeded  []string `json:"seeded"`
}

// Report counts what a run did.
type Report struct {
	Images  int `json:"images"`
	Files   int `json:"files"`
	Skipped int `json:"skipped"`
}

// Importer seeds the library from Source.
type Importer struct {
	Source     fs.FS
	Version    string
	MarkerPath string
	Images     *library.Images
	Digits     *library.Digits
	Hitsounds  *library.Hitsounds
	Log        *zap.Logger
}

// New returns an Importer over the bundled presets.
func New(p config.Paths, images *library.Images, digits *library.Digits, hitsounds *library.Hitsounds, log *zap.Logger) *Importer {
	return &Importer{
		Source:     Bundled(),
		Version:    BundleVersion,
		MarkerPath: p.SeedMarker,
		Images:     images,
		Digits:     digits,
		Hitsounds:  hitsounds,
		Log:        log.Named("seed"),
	}
}

// ReadMarker returns the marker on disk, if there is a readable one.
func (im *Importer) ReadMarker() (Marker, bool) {
	data, err := os.ReadFile(im.MarkerPath)
	if err != nil {
		return Marker{}, false
	}
	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		im.Log.Warn("ignoring unreadable seed marker", zap.String("path", im.MarkerPath), zap.Error(err))
		return Marker{}, false
	}
	return m, true
}

// State reports NeedsSeed when the marker is missing or from another
// bundle version.
func (im *Importer) State() State {
	m, ok := im.ReadMarker()
	if !ok || m.Version != im.Version {
		return NeedsSeed
	}
	return UpToDate
}

// Run seeds the library when needed. Image presets go through the normal
// add path; images whose source was seeded by an earlier run are skipped.
// Digit and hitsound folders are merged without overwriting any file.
func (im *Importer) Run() (Report, error) {
	var rep Report
	if im.State() == UpToDate {
		return rep, nil
	}
	prev, _ := im.ReadMarker()
	seeded := make(map[string]bool, len(prev.Seeded))
	for _, s := range prev.Seeded {
		seeded[s] = true
	}

	if err := im.seedAll(seeded, &rep); err != nil {
		// Keep the old version so the run is retried, but remember what was
		// already added so the retry does not add it twice.
		if werr := im.writeMarker(prev.Version, seeded); werr != nil {
			im.Log.Warn("saving seed progress", zap.Error(werr))
		}
		return rep, err
	}
	if err := im.writeMarker(im.Version, seeded); err != nil {
		return rep, err
	}
	im.Log.Info("library seeded",
		zap.String("version", im.Version),
		zap.Int("images", rep.Images),
		zap.Int("files", rep.Files),
		zap.Int("skipped", rep.Skipped))
	return rep, nil
}

func (im *Importer) seedAll(seeded map[string]bool, rep *Report) error {
	for _, c := range library.Categories {
		if err := im.seedImages(c, seeded, rep); err != nil {
			return err
		}
	}
	if err := im.merge("digits", im.Digits.Root(), seeded, rep); err != nil {
		return err
	}
	return im.merge("hitsounds", im.Hitsounds.Root(), seeded, rep)
}

func (im *Importer) seedImages(c library.Category, seeded map[string]bool, rep *Report) error {
	des, err := fs.ReadDir(im.Source, string(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return apperr.IO("reading bundled "+string(c), err)
	}
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.EqualFold(path.Ext(name), ".png") || strings.Contains(name, "@2x") {
			continue
		}
		key := path.Join(string(c), name)
		if seeded[key] {
			rep.Skipped++
			continue
		}
		buf, err := fs.ReadFile(im.Source, key)
		if err != nil {
			return apperr.IO("reading bundled "+key, err)
		}
		stem := strings.TrimSuffix(name, path.Ext(name))
		added, err := im.Images.Add(c, buf, stem)
		if err != nil {
			return err
		}
		seeded[key] = true
		rep.Images++
		if err := im.copyHighRes(c, stem, added); err != nil {
			return err
		}
	}
	return nil
}

// copyHighRes stores a bundled <stem>@2x.png next to the added preset.
func (im *Importer) copyHighRes(c library.Category, stem, added string) error {
	src := path.Join(string(c), stem+"@2x.png")
	buf, err := fs.ReadFile(im.Source, src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return apperr.IO("reading bundled "+src, err)
	}
	dst := filepath.Join(im.Images.Dir(c), added+"@2x.png")
	if err := os.WriteFile(dst, buf, 0o644); err != nil {
		return apperr.IO("seeding "+src, err)
	}
	return nil
}

// merge copies Source/<dir> into root, never replacing an existing file.
func (im *Importer) merge(dir, root string, seeded map[string]bool, rep *Report) error {
	err := fs.WalkDir(im.Source, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, dir), "/")
		if rel == "" {
			return nil
		}
		dst := filepath.Join(root, filepath.FromSlash(rel))
		if d.IsDir() {
			if !strings.Contains(rel, "/") {
				seeded[p] = true
			}
			return os.MkdirAll(dst, 0o755)
		}
		if _, err := os.Stat(dst); err == nil {
			rep.Skipped++
			return nil
		}
		data, err := fs.ReadFile(im.Source, p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return err
		}
		rep.Files++
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return apperr.IO("seeding "+dir, err)
	}
	return nil
}

func (im *Importer) writeMarker(version string, seeded map[string]bool) error {
	m := Marker{Version: version, Seeded: make([]string, 0, len(seeded))}
	for s := range seeded {
		m.Seeded = append(m.Seeded, s)
	}
	sort.Strings(m.Seeded)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(im.MarkerPath), 0o755); err != nil {
		return apperr.IO("writing seed marker", err)
	}
	if err := os.WriteFile(im.MarkerPath, data, 0o644); err != nil {
		return apperr.IO("writing seed marker", err)
	}
	return nil
}
