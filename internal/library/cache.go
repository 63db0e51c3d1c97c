package library

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
)

// CurrentSkinName labels the synthetic preset built from the active skin.
const CurrentSkinName = "Current Skin"

// SkinCache mirrors the active skin's files for one slot set into a
// scratch directory. A non-empty cache is assumed fresh; callers must
// Invalidate it when the active skin changes or the live folder is edited.
type SkinCache struct {
	mu    sync.Mutex
	dir   string
	slots map[string]bool // lower-case stems
	exts  []string
	log   *zap.Logger
}

func newSkinCache(dir string, slots, exts []string, log *zap.Logger) *SkinCache {
	set := make(map[string]bool, len(slots))
	for _, s := range slots {
		set[strings.ToLower(s)] = true
	}
	return &SkinCache{dir: dir, slots: set, exts: exts, log: log}
}

// Dir is the cache directory.
func (c *SkinCache) Dir() string { return c.dir }

// HasCache reports whether the cache directory exists and holds files.
func (c *SkinCache) HasCache() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasCache()
}

func (c *SkinCache) hasCache() bool {
	entries, err := scanDir(c.dir, nil)
	return err == nil && len(entries) > 0
}

// Refresh clears the cache and copies every matching file from skinPath
// under its canonical lower-case name.
func (c *SkinCache) Refresh(skinPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh(skinPath)
}

func (c *SkinCache) refresh(skinPath string) error {
	if info, err := os.Stat(skinPath); err != nil || !info.IsDir() {
		return apperr.SkinFolderNotFound(skinPath)
	}
	if err := c.reset(); err != nil {
		return err
	}
	entries, err := scanDir(skinPath, func(e entry) bool {
		return c.slots[strings.ToLower(e.Stem)] && hasExt(e.Ext, c.exts)
	})
	if err != nil {
		return apperr.IO("scanning skin folder", err)
	}
	for _, e := range entries {
		dst := filepath.Join(c.dir, strings.ToLower(e.Stem)+e.Ext)
		if err := copyFile(e.Path, dst); err != nil {
			return apperr.IO("filling cache", err)
		}
	}
	c.log.Debug("cache refreshed", zap.String("dir", c.dir), zap.Int("files", len(entries)))
	return nil
}

// Read returns slot -> cached file path, refreshing from skinPath first
// when the cache is empty. When a slot exists with several extensions the
// earliest one in the extension list wins.
func (c *SkinCache) Read(skinPath string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasCache() {
		if err := c.refresh(skinPath); err != nil {
			return nil, err
		}
	}
	entries, err := scanDir(c.dir, func(e entry) bool { return hasExt(e.Ext, c.exts) })
	if err != nil {
		return nil, apperr.IO("reading cache", err)
	}
	return pickSlots(entries, c.slots, c.exts), nil
}

// Invalidate empties the cache.
func (c *SkinCache) Invalidate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.reset(); err != nil {
		return err
	}
	c.log.Debug("cache invalidated", zap.String("dir", c.dir))
	return nil
}

func (c *SkinCache) reset() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return apperr.IO("clearing cache", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return apperr.IO("creating cache", err)
	}
	return nil
}

// pickSlots maps each known slot to one file, preferring earlier exts.
func pickSlots(entries []entry, slots map[string]bool, exts []string) map[string]string {
	rank := func(ext string) int {
		for i, x := range exts {
			if x == ext {
				return i
			}
		}
		return len(exts)
	}
	out := make(map[string]string)
	best := make(map[string]int)
	for _, e := range entries {
		slot := strings.ToLower(e.Stem)
		if !slots[slot] {
			continue
		}
		if r, ok := best[slot]; ok && r <= rank(e.Ext) {
			continue
		}
		best[slot] = rank(e.Ext)
		out[slot] = e.Path
	}
	return out
}
