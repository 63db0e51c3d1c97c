package library

import (
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

// DigitCount is the number of glyphs in a digit set.
const DigitCount = 10

var pngExts = []string{".png"}

// DigitSlots lists the 20 slot keys: default-0..9 then their @2x variants.
func DigitSlots() []string {
	slots := make([]string, 0, DigitCount*2)
	for n := 0; n < DigitCount; n++ {
		slots = append(slots, digitSlot(n, false))
	}
	for n := 0; n < DigitCount; n++ {
		slots = append(slots, digitSlot(n, true))
	}
	return slots
}

func digitSlot(n int, hi bool) string {
	s := "default-" + strconv.Itoa(n)
	if hi {
		s += "@2x"
	}
	return s
}

// ParseDigitSlot accepts "default-3", "default-3@2x", "3" or "3@2x".
func ParseDigitSlot(in string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(in))
	s = strings.TrimSuffix(s, ".png")
	hi := strings.HasSuffix(s, "@2x")
	s = strings.TrimPrefix(strings.TrimSuffix(s, "@2x"), "default-")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= DigitCount {
		return "", apperr.Invalid("invalid digit slot %q (want 0-9, optionally with @2x)", in)
	}
	return digitSlot(n, hi), nil
}

// DigitPreset is a named set of digit glyphs. Slots maps slot key to file.
type DigitPreset struct {
	Name  string            `json:"name"`
	Path  string            `json:"path"`
	Slots map[string]string `json:"slots"`
}

// Digits stores digit glyph presets and the current-skin digit cache.
type Digits struct {
	mu    sync.Mutex
	store folders
	cache *SkinCache
	log   *zap.Logger
}

// NewDigits creates the digit library.
func NewDigits(p config.Paths, log *zap.Logger) *Digits {
	log = log.Named("digits")
	return &Digits{
		store: folders{root: p.DigitsDir, kind: "digit preset"},
		cache: newSkinCache(p.DigitsCacheDir, DigitSlots(), pngExts, log),
		log:   log,
	}
}

// Root is the directory holding one folder per preset.
func (d *Digits) Root() string { return d.store.root }

// Cache is the current-skin digit cache.
func (d *Digits) Cache() *SkinCache { return d.cache }

var digitSlotSet = func() map[string]bool {
	m := make(map[string]bool)
	for _, s := range DigitSlots() {
		m[s] = true
	}
	return m
}()

func readDigits(name, dir string) (DigitPreset, error) {
	entries, err := scanDir(dir, func(e entry) bool { return e.Ext == ".png" })
	if err != nil {
		return DigitPreset{}, apperr.IO("reading digit preset", err)
	}
	return DigitPreset{Name: name, Path: dir, Slots: pickSlots(entries, digitSlotSet, pngExts)}, nil
}

// List returns every digit preset.
func (d *Digits) List() ([]DigitPreset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	names, err := d.store.names()
	if err != nil {
		return nil, apperr.IO("listing digit presets", err)
	}
	out := make([]DigitPreset, 0, len(names))
	for _, name := range names {
		p, err := readDigits(name, filepath.Join(d.store.root, name))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns one digit preset.
func (d *Digits) Get(name string) (DigitPreset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dir, err := d.store.path(name)
	if err != nil {
		return DigitPreset{}, err
	}
	return readDigits(filepath.Base(dir), dir)
}

// Create makes an empty preset.
func (d *Digits) Create(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.store.create(name); err != nil {
		return err
	}
	d.log.Info("digit preset created", zap.String("name", name))
	return nil
}

// Rename renames a preset. Case-insensitive collisions are DuplicateName.
func (d *Digits) Rename(oldName, newName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.rename(oldName, newName)
}

// Delete removes a preset folder.
func (d *Digits) Delete(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.remove(name)
}

// SetDigit stores buf as one glyph slot, replacing what was there.
func (d *Digits) SetDigit(name, slot string, buf []byte) error {
	slot, err := ParseDigitSlot(slot)
	if err != nil {
		return err
	}
	if err := imaging.Validate(buf); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	dir, err := d.store.path(name)
	if err != nil {
		return err
	}
	if err := removeFold(dir, slot, pngExts...); err != nil {
		return apperr.IO("replacing digit", err)
	}
	if err := os.WriteFile(filepath.Join(dir, slot+".png"), buf, 0o644); err != nil {
		return apperr.IO("writing digit", err)
	}
	return nil
}

// RemoveDigit deletes one glyph file. Removing an empty slot is a no-op.
func (d *Digits) RemoveDigit(name, slot string) error {
	slot, err := ParseDigitSlot(slot)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	dir, err := d.store.path(name)
	if err != nil {
		return err
	}
	if err := removeFold(dir, slot, pngExts...); err != nil {
		return apperr.IO("removing digit", err)
	}
	return nil
}

// ApplyToSkin writes the preset's glyphs into skinPath as default-n.png.
// With use2x the preset's @2x glyph is used, or the main glyph scaled to
// double size. Without it stale default-n@2x.png files are removed. Digits
// missing from the preset leave the skin's files alone.
func (d *Digits) ApplyToSkin(name, skinPath string, use2x bool) error {
	p, err := d.Get(name)
	if err != nil {
		return err
	}
	written := 0
	for n := 0; n < DigitCount; n++ {
		main, ok := p.Slots[digitSlot(n, false)]
		if !ok {
			continue
		}
		if err := d.applyDigit(n, main, p.Slots[digitSlot(n, true)], skinPath, use2x); err != nil {
			return err
		}
		written++
	}
	if written == 0 {
		return apperr.Invalid("digit preset %q has no glyphs", name)
	}
	d.log.Info("digits applied", zap.String("preset", name), zap.String("skin", skinPath), zap.Int("glyphs", written))
	return nil
}

func (d *Digits) applyDigit(n int, main, hi, skinPath string, use2x bool) error {
	mainSlot, hiSlot := digitSlot(n, false), digitSlot(n, true)
	if err := removeFold(skinPath, mainSlot, pngExts...); err != nil {
		return apperr.IO("replacing "+mainSlot, err)
	}
	if err := copyFile(main, filepath.Join(skinPath, mainSlot+".png")); err != nil {
		return apperr.IO("writing "+mainSlot, err)
	}
	if err := removeFold(skinPath, hiSlot, pngExts...); err != nil {
		return apperr.IO("removing "+hiSlot, err)
	}
	if !use2x {
		return nil
	}
	dst := filepath.Join(skinPath, hiSlot+".png")
	if hi != "" {
		if err := copyFile(hi, dst); err != nil {
			return apperr.IO("writing "+hiSlot, err)
		}
		return nil
	}
	buf, err := os.ReadFile(main)
	if err != nil {
		return apperr.IO("reading "+mainSlot, err)
	}
	scaled, err := imaging.Scale(buf, 2)
	if err != nil {
		return fmt.Errorf("scaling %s: %w", mainSlot, err)
	}
	if err := os.WriteFile(dst, scaled, 0o644); err != nil {
		return apperr.IO("writing "+hiSlot, err)
	}
	return nil
}

// ReadCurrent returns the active skin's glyphs through the cache.
func (d *Digits) ReadCurrent(skinPath string) (DigitPreset, error) {
	slots, err := d.cache.Read(skinPath)
	if err != nil {
		return DigitPreset{}, err
	}
	return DigitPreset{Name: CurrentSkinName, Path: d.cache.Dir(), Slots: slots}, nil
}

// SaveCurrent creates a preset from the active skin's glyphs.
func (d *Digits) SaveCurrent(name, skinPath string) error {
	cur, err := d.ReadCurrent(skinPath)
	if err != nil {
		return err
	}
	if len(cur.Slots) == 0 {
		return apperr.NotFound("digit glyphs in the current skin")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	dir, err := d.store.create(name)
	if err != nil {
		return err
	}
	for slot, src := range cur.Slots {
		if err := copyFile(src, filepath.Join(dir, slot+".png")); err != nil {
			return apperr.IO("saving digit preset", err)
		}
	}
	d.log.Info("digit preset saved from skin", zap.String("name", name), zap.Int("glyphs", len(cur.Slots)))
	return nil
}
