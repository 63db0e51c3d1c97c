package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
)

var fold = cases.Fold()

// folders is the shared store behind digit and hitsound presets: one named
// directory per preset under root. Names collide case-insensitively.
type folders struct {
	root string
	kind string // "digit preset" / "hitsound preset", used in messages
}

func validName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\:*?"<>|`) {
		return apperr.Invalid("invalid preset name %q", name)
	}
	return nil
}

func (f folders) names() ([]string, error) {
	return scanSubdirs(f.root)
}

// path returns the directory of an existing preset, matching the name
// case-insensitively when there is no exact match.
func (f folders) path(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	dir := filepath.Join(f.root, strings.TrimSpace(name))
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, nil
	}
	if n, ok := f.conflict(strings.TrimSpace(name)); ok {
		return filepath.Join(f.root, n), nil
	}
	return "", apperr.NotFound(fmt.Sprintf("%s %q", f.kind, name))
}

// conflict returns the existing name equal to name under case folding.
func (f folders) conflict(name string) (string, bool) {
	names, _ := f.names()
	key := fold.String(name)
	for _, n := range names {
		if fold.String(n) == key {
			return n, true
		}
	}
	return "", false
}

func (f folders) create(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if _, ok := f.conflict(name); ok {
		return "", apperr.DuplicateName(name)
	}
	dir := filepath.Join(f.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.IO("creating "+f.kind, err)
	}
	return dir, nil
}

func (f folders) rename(oldName, newName string) error {
	src, err := f.path(oldName)
	if err != nil {
		return err
	}
	if err := validName(newName); err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == filepath.Base(src) {
		return nil
	}
	if _, ok := f.conflict(newName); ok {
		return apperr.DuplicateName(newName)
	}
	if err := os.Rename(src, filepath.Join(f.root, newName)); err != nil {
		return apperr.IO("renaming "+f.kind, err)
	}
	return nil
}

func (f folders) remove(name string) error {
	dir, err := f.path(name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return apperr.IO("deleting "+f.kind, err)
	}
	return nil
}
