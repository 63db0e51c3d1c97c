// Package skin resolves the active skin folder from the user's config and
// enumerates the skins installed in the game folder.
package skin

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
)

// ResolvePath returns the active skin folder. It never checks existence.
func ResolvePath(cfg config.Config) (string, error) {
	if cfg.LazerMode {
		if cfg.LazerSkinPath == "" {
			return "", apperr.NotConfigured("lazer mode is on but no skin folder has been chosen")
		}
		return cfg.LazerSkinPath, nil
	}
	if cfg.InstallFolder == "" {
		return "", apperr.NotConfigured("choose your osu! install folder first")
	}
	if cfg.ActiveSkin == "" {
		return "", apperr.NotConfigured("choose a skin first")
	}
	return filepath.Join(cfg.InstallFolder, config.SkinsDir, cfg.ActiveSkin), nil
}

// EnsureExists returns SkinFolderNotFound unless path is a directory.
func EnsureExists(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return apperr.SkinFolderNotFound(path)
	}
	return nil
}

// ResolveExisting resolves the skin path and checks it exists.
func ResolveExisting(cfg config.Config) (string, error) {
	path, err := ResolvePath(cfg)
	if err != nil {
		return "", err
	}
	if err := EnsureExists(path); err != nil {
		return "", err
	}
	return path, nil
}

// List returns the skin folder names under <installFolder>/Skins, sorted
// case-insensitively.
func List(installFolder string) ([]string, error) {
	if installFolder == "" {
		return nil, apperr.NotConfigured("choose your osu! install folder first")
	}
	dir := filepath.Join(installFolder, config.SkinsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.SkinFolderNotFound(dir)
		}
		return nil, apperr.IO("listing skins", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// Suggest returns up to max candidates closest to name by edit distance,
// ignoring ones too far away to be a plausible typo.
func Suggest(name string, candidates []string, max int) []string {
	type scored struct {
		name string
		dist int
	}
	lower := strings.ToLower(name)
	limit := len(lower)/2 + 1

	var hits []scored
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c))
		if d <= limit {
			hits = append(hits, scored{c, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	var out []string
	for i := 0; i < len(hits) && i < max; i++ {
		out = append(out, hits[i].name)
	}
	return out
}
