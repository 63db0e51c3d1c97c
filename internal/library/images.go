package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/imaging"
)

// Category is an image preset category.
type Category string

const (
	CategoryCursor        Category = "cursor"
	CategoryCursorTrail   Category = "cursor-trail"
	CategoryCircle        Category = "circle"
	CategoryCircleOverlay Category = "circle-overlay"
)

// Skin filenames the game loads.
const (
	FileCursor           = "cursor.png"
	FileCursorTrail      = "cursortrail.png"
	FileCursorMiddle     = "cursormiddle.png"
	FileHitCircle        = "hitcircle.png"
	FileHitCircleOverlay = "hitcircleoverlay.png"
)

const (
	pointerMax = 100
	circleSize = 128
)

// Categories in display order. ID resolution relies on longer prefixes that
// share a stem coming first.
var Categories = []Category{CategoryCursorTrail, CategoryCircleOverlay, CategoryCursor, CategoryCircle}

// ParseCategory accepts a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", apperr.Invalid("unknown category %q (want cursor, cursor-trail, circle or circle-overlay)", s)
}

// SkinFile is the filename the category is applied as. Cursor trails use
// FileCursorTrail unless applied in middle mode.
func (c Category) SkinFile() string {
	switch c {
	case CategoryCursor:
		return FileCursor
	case CategoryCursorTrail:
		return FileCursorTrail
	case CategoryCircle:
		return FileHitCircle
	case CategoryCircleOverlay:
		return FileHitCircleOverlay
	}
	return ""
}

// exact reports whether the category is forced to a fixed size.
func (c Category) exact() bool {
	return c == CategoryCircle || c == CategoryCircleOverlay
}

// Preset is one saved image.
type Preset struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Has2x    bool     `json:"has_2x"`
	Size     int64    `json:"size"`
}

// Images stores image presets, one directory per category.
type Images struct {
	mu   sync.Mutex
	dirs map[Category]string
	log  *zap.Logger
}

// NewImages creates the image library rooted at the preset dirs in p.
func NewImages(p config.Paths, log *zap.Logger) *Images {
	return &Images{
		dirs: map[Category]string{
			CategoryCursor:        p.CursorsDir,
			CategoryCursorTrail:   p.CursorTrailsDir,
			CategoryCircle:        p.CirclesDir,
			CategoryCircleOverlay: p.CircleOverlaysDir,
		},
		log: log.Named("images"),
	}
}

// Dir returns the directory backing a category.
func (im *Images) Dir(c Category) string { return im.dirs[c] }

// Prepare validates buf and applies the category's resize policy.
func Prepare(c Category, buf []byte) ([]byte, error) {
	if err := imaging.Validate(buf); err != nil {
		return nil, err
	}
	if c.exact() {
		return imaging.Exact(buf, circleSize, circleSize)
	}
	return imaging.Fit(buf, pointerMax)
}

// Add stores buf as <baseName>-<n>.png with the smallest free n and
// returns the new file's base name.
func (im *Images) Add(c Category, buf []byte, baseName string) (string, error) {
	dir, ok := im.dirs[c]
	if !ok {
		return "", apperr.Invalid("unknown category %q", c)
	}
	out, err := Prepare(c, buf)
	if err != nil {
		return "", err
	}
	baseName = cleanBaseName(baseName, string(c))

	im.mu.Lock()
	defer im.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.IO("creating preset directory", err)
	}
	for n := 1; ; n++ {
		name := baseName + "-" + strconv.Itoa(n)
		f, err := os.OpenFile(filepath.Join(dir, name+".png"), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", apperr.IO("saving preset", err)
		}
		if _, err := f.Write(out); err != nil {
			f.Close()
			return "", apperr.IO("saving preset", err)
		}
		if err := f.Close(); err != nil {
			return "", apperr.IO("saving preset", err)
		}
		im.log.Info("preset added", zap.String("category", string(c)), zap.String("name", name))
		return name, nil
	}
}

// cleanBaseName strips directories and a .png suffix from a caller
// supplied name, falling back to def.
func cleanBaseName(name, def string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "@2x", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return def
	}
	return name
}

// List returns the category's presets. @2x files are folded into their
// main file.
func (im *Images) List(c Category) ([]Preset, error) {
	dir, ok := im.dirs[c]
	if !ok {
		return nil, apperr.Invalid("unknown category %q", c)
	}
	im.mu.Lock()
	defer im.mu.Unlock()

	// Only the exact ".png" suffix, which is what resolve looks up.
	entries, err := scanDir(dir, func(e entry) bool { return strings.HasSuffix(e.Name, ".png") })
	if err != nil {
		return nil, apperr.IO("listing presets", err)
	}
	twoX := make(map[string]bool)
	for _, e := range entries {
		if strings.Contains(e.Name, "@2x") {
			twoX[strings.Replace(e.Name, "@2x", "", 1)] = true
		}
	}
	presets := make([]Preset, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(e.Name, "@2x") {
			continue
		}
		presets = append(presets, Preset{
			ID:       string(c) + "-" + e.Stem,
			Category: c,
			Name:     e.Stem,
			Path:     e.Path,
			Has2x:    twoX[e.Name],
			Size:     e.Size,
		})
	}
	return presets, nil
}

// resolve maps an id onto an existing preset file. Ids are ambiguous when
// one category name prefixes another, so every matching category is tried.
func (im *Images) resolve(id string) (Category, string, string, bool) {
	for _, c := range Categories {
		prefix := string(c) + "-"
		if !strings.HasPrefix(id, prefix) || len(id) == len(prefix) {
			continue
		}
		name := id[len(prefix):]
		if strings.ContainsAny(name, `/\`) || strings.Contains(name, "@2x") {
			continue
		}
		path := filepath.Join(im.dirs[c], name+".png")
		if exists(path) {
			return c, name, path, true
		}
	}
	return "", "", "", false
}

// Get returns the preset with the given id.
func (im *Images) Get(id string) (Preset, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	c, name, path, ok := im.resolve(id)
	if !ok {
		return Preset{}, apperr.NotFound(fmt.Sprintf("preset %q", id))
	}
	p := Preset{ID: id, Category: c, Name: name, Path: path, Has2x: exists(filepath.Join(im.dirs[c], name+"@2x.png"))}
	if info, err := os.Stat(path); err == nil {
		p.Size = info.Size()
	}
	return p, nil
}

// Read returns the bytes of a preset's main file.
func (im *Images) Read(id string) ([]byte, error) {
	p, err := im.Get(id)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, apperr.IO("reading preset", err)
	}
	return buf, nil
}

// Read2x returns the preset's @2x file, or nil when it has none.
func (im *Images) Read2x(id string) ([]byte, error) {
	p, err := im.Get(id)
	if err != nil || !p.Has2x {
		return nil, err
	}
	buf, err := os.ReadFile(twoXName(p.Path))
	if err != nil {
		return nil, apperr.IO("reading preset", err)
	}
	return buf, nil
}

// Preview returns a preset as a data URI.
func (im *Images) Preview(id string) (string, error) {
	buf, err := im.Read(id)
	if err != nil {
		return "", err
	}
	return imaging.DataURI(buf), nil
}

// Delete removes a preset's main file. It reports false for malformed or
// unknown ids and never fails. The @2x sibling is left in place.
func (im *Images) Delete(id string) bool {
	im.mu.Lock()
	defer im.mu.Unlock()

	_, _, path, ok := im.resolve(id)
	if !ok {
		return false
	}
	if err := os.Remove(path); err != nil {
		im.log.Warn("delete preset", zap.String("id", id), zap.Error(err))
		return false
	}
	im.log.Info("preset deleted", zap.String("id", id))
	return true
}

// SaveFromSkin copies the skin's current asset for c into the library.
func (im *Images) SaveFromSkin(c Category, skinPath, baseName string) (string, error) {
	stems := []string{strings.TrimSuffix(c.SkinFile(), ".png")}
	if c == CategoryCursorTrail {
		stems = append(stems, strings.TrimSuffix(FileCursorMiddle, ".png"))
	}
	for _, stem := range stems {
		e, ok := findFold(skinPath, stem, ".png")
		if !ok {
			continue
		}
		buf, err := os.ReadFile(e.Path)
		if err != nil {
			return "", apperr.IO("reading skin asset", err)
		}
		return im.Add(c, buf, baseName)
	}
	return "", apperr.NotFound(fmt.Sprintf("%s in the current skin", c.SkinFile()))
}

// ApplyToSkin writes buf into skinPath as target. With use2x the @2x
// sibling is written from second, or from buf scaled to double size when
// second is nil. Without use2x an existing @2x sibling is removed.
func (im *Images) ApplyToSkin(buf []byte, skinPath, target string, use2x bool, second []byte) error {
	if err := imaging.Validate(buf); err != nil {
		return err
	}
	var hi []byte
	if use2x {
		var err error
		if second != nil {
			if err = imaging.Validate(second); err != nil {
				return err
			}
			hi = second
		} else if hi, err = imaging.Scale(buf, 2); err != nil {
			return err
		}
	}

	hiTarget := twoXName(target)
	for _, name := range []string{target, hiTarget} {
		if err := removeFold(skinPath, strings.TrimSuffix(name, ".png"), pngExts...); err != nil {
			return apperr.IO("replacing "+name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(skinPath, target), buf, 0o644); err != nil {
		return apperr.IO("writing "+target, err)
	}
	if use2x {
		if err := os.WriteFile(filepath.Join(skinPath, hiTarget), hi, 0o644); err != nil {
			return apperr.IO("writing "+hiTarget, err)
		}
	}
	im.log.Debug("applied image", zap.String("skin", skinPath), zap.String("file", target), zap.Bool("2x", use2x))
	return nil
}

// ApplyCursorTrail writes a trail image. Trail and middle files are
// mutually exclusive, so the other variant's files are removed first.
func (im *Images) ApplyCursorTrail(buf []byte, skinPath string, middle, use2x bool, second []byte) error {
	target, other := FileCursorTrail, FileCursorMiddle
	if middle {
		target, other = FileCursorMiddle, FileCursorTrail
	}
	if err := imaging.Validate(buf); err != nil {
		return err
	}
	for _, name := range []string{other, twoXName(other)} {
		if err := removeFold(skinPath, strings.TrimSuffix(name, ".png"), pngExts...); err != nil {
			return apperr.IO("removing "+name, err)
		}
	}
	return im.ApplyToSkin(buf, skinPath, target, use2x, second)
}
