// Package library manages the on-disk preset library: image presets per
// category, named digit glyph and hitsound folders, and the scratch caches
// that mirror the active skin.
//
// The library keeps no index. Every listing is a directory scan, so the
// filesystem is the only source of truth.
package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// entry is one regular file found by scanDir.
type entry struct {
	Name string // file name with extension
	Stem string // name without extension
	Ext  string // lower-cased extension including the dot
	Path string
	Size int64
}

// scanDir lists the regular files directly inside dir that keep accepts,
// sorted by name. A missing dir is an empty listing.
func scanDir(dir string, keep func(entry) bool) ([]entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []entry
	for _, de := range des {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		info, err := de.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		ext := filepath.Ext(de.Name())
		e := entry{
			Name: de.Name(),
			Stem: strings.TrimSuffix(de.Name(), ext),
			Ext:  strings.ToLower(ext),
			Path: filepath.Join(dir, de.Name()),
			Size: info.Size(),
		}
		if keep == nil || keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return naturalLess(out[i].Name, out[j].Name) })
	return out, nil
}

// scanSubdirs lists the names of the directories directly inside dir.
func scanSubdirs(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, de := range des {
		if de.IsDir() && !strings.HasPrefix(de.Name(), ".") {
			out = append(out, de.Name())
		}
	}
	sort.Slice(out, func(i, j int) bool { return naturalLess(out[i], out[j]) })
	return out, nil
}

// naturalLess orders case-insensitively with digit runs compared by value,
// so "cursor-2" sorts before "cursor-10".
func naturalLess(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for a != "" && b != "" {
		da, db := digitPrefix(a), digitPrefix(b)
		if da != "" && db != "" {
			na, nb := strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			a, b = a[len(da):], b[len(db):]
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func digitPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// copyFile copies src to dst, replacing dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", filepath.Base(src), err)
	}
	return out.Close()
}

// twoXName turns "cursor.png" into "cursor@2x.png".
func twoXName(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "@2x" + ext
}

// findFold returns the entry in dir whose stem equals stem ignoring case
// and whose extension is one of exts.
func findFold(dir, stem string, exts ...string) (entry, bool) {
	entries, _ := scanDir(dir, func(e entry) bool {
		return strings.EqualFold(e.Stem, stem) && hasExt(e.Ext, exts)
	})
	if len(entries) == 0 {
		return entry{}, false
	}
	return entries[0], true
}

func hasExt(ext string, exts []string) bool {
	for _, x := range exts {
		if ext == x {
			return true
		}
	}
	return false
}

// removeFold deletes every file in dir whose stem equals stem ignoring case
// and whose extension is one of exts.
func removeFold(dir, stem string, exts ...string) error {
	entries, err := scanDir(dir, func(e entry) bool {
		return strings.EqualFold(e.Stem, stem) && hasExt(e.Ext, exts)
	})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
