package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
)

// Hitsound sample sets.
var HitsoundTypes = []string{"drum", "normal", "soft"}

var commonSounds = []string{"hitnormal", "hitclap", "hitwhistle", "hitfinish", "slidertick", "sliderslide", "sliderwhistle"}

// AudioExts are the accepted audio extensions, in preference order.
var AudioExts = []string{".wav", ".mp3", ".ogg"}

// Sounds lists the sample names valid for a type. Only soft has hitsoft.
func Sounds(typ string) []string {
	if typ == "soft" {
		return append(append([]string{}, commonSounds...), "hitsoft")
	}
	return commonSounds
}

// HitsoundSlots lists every "<type>-<sound>" slot.
func HitsoundSlots() []string {
	var slots []string
	for _, t := range HitsoundTypes {
		for _, s := range Sounds(t) {
			slots = append(slots, t+"-"+s)
		}
	}
	return slots
}

// SlotName validates a (type, sound) pair and returns its slot key.
func SlotName(typ, sound string) (string, error) {
	typ, sound = strings.ToLower(strings.TrimSpace(typ)), strings.ToLower(strings.TrimSpace(sound))
	for _, t := range HitsoundTypes {
		if t != typ {
			continue
		}
		for _, s := range Sounds(t) {
			if s == sound {
				return t + "-" + s, nil
			}
		}
		return "", apperr.Invalid("%q is not a %s sound", sound, typ)
	}
	return "", apperr.Invalid("unknown hitsound type %q (want drum, normal or soft)", typ)
}

// ParseSlot accepts "normal-hitclap" style slot keys.
func ParseSlot(slot string) (string, error) {
	typ, sound, ok := strings.Cut(slot, "-")
	if !ok {
		return "", apperr.Invalid("invalid hitsound slot %q (want <type>-<sound>)", slot)
	}
	return SlotName(typ, sound)
}

func audioExt(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !hasExt(ext, AudioExts) {
		return "", apperr.UnsupportedFormat(fmt.Sprintf("unsupported audio file %q (want .wav, .mp3 or .ogg)", filepath.Base(path)))
	}
	return ext, nil
}

var hitsoundSlotSet = func() map[string]bool {
	m := make(map[string]bool)
	for _, s := range HitsoundSlots() {
		m[s] = true
	}
	return m
}()

// HitsoundPreset is a named set of samples. Slots maps slot key to file.
type HitsoundPreset struct {
	Name  string            `json:"name"`
	Path  string            `json:"path"`
	Slots map[string]string `json:"slots"`
}

// Hitsounds stores hitsound presets and the current-skin hitsound cache.
type Hitsounds struct {
	mu    sync.Mutex
	store folders
	cache *SkinCache
	log   *zap.Logger
}

// NewHitsounds creates the hitsound library.
func NewHitsounds(p config.Paths, log *zap.Logger) *Hitsounds {
	log = log.Named("hitsounds")
	return &Hitsounds{
		store: folders{root: p.HitsoundsDir, kind: "hitsound preset"},
		cache: newSkinCache(p.HitsoundsCacheDir, HitsoundSlots(), AudioExts, log),
		log:   log,
	}
}

// Root is the directory holding one folder per preset.
func (h *Hitsounds) Root() string { return h.store.root }

// Cache is the current-skin hitsound cache.
func (h *Hitsounds) Cache() *SkinCache { return h.cache }

func readHitsounds(name, dir string) (HitsoundPreset, error) {
	entries, err := scanDir(dir, func(e entry) bool { return hasExt(e.Ext, AudioExts) })
	if err != nil {
		return HitsoundPreset{}, apperr.IO("reading hitsound preset", err)
	}
	return HitsoundPreset{Name: name, Path: dir, Slots: pickSlots(entries, hitsoundSlotSet, AudioExts)}, nil
}

// List returns every hitsound preset.
func (h *Hitsounds) List() ([]HitsoundPreset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	names, err := h.store.names()
	if err != nil {
		return nil, apperr.IO("listing hitsound presets", err)
	}
	out := make([]HitsoundPreset, 0, len(names))
	for _, name := range names {
		p, err := readHitsounds(name, filepath.Join(h.store.root, name))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns one hitsound preset.
func (h *Hitsounds) Get(name string) (HitsoundPreset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	dir, err := h.store.path(name)
	if err != nil {
		return HitsoundPreset{}, err
	}
	return readHitsounds(filepath.Base(dir), dir)
}

// Create makes an empty preset.
func (h *Hitsounds) Create(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.store.create(name); err != nil {
		return err
	}
	h.log.Info("hitsound preset created", zap.String("name", name))
	return nil
}

// Rename renames a preset. Case-insensitive collisions are DuplicateName.
func (h *Hitsounds) Rename(oldName, newName string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.rename(oldName, newName)
}

// Delete removes a preset folder.
func (h *Hitsounds) Delete(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.remove(name)
}

// SetSound copies the audio file at src into a slot. Whatever file the
// slot held before is deleted first, whatever its extension.
func (h *Hitsounds) SetSound(name, typ, sound, src string) error {
	slot, err := SlotName(typ, sound)
	if err != nil {
		return err
	}
	ext, err := audioExt(src)
	if err != nil {
		return err
	}
	if info, err := os.Stat(src); err != nil || info.IsDir() {
		return apperr.NotFound(fmt.Sprintf("audio file %q", src))
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	dir, err := h.store.path(name)
	if err != nil {
		return err
	}
	if err := removeFold(dir, slot, AudioExts...); err != nil {
		return apperr.IO("replacing hitsound", err)
	}
	if err := copyFile(src, filepath.Join(dir, slot+ext)); err != nil {
		return apperr.IO("writing hitsound", err)
	}
	return nil
}

// SetSoundData stores raw audio bytes named with ext into a slot.
func (h *Hitsounds) SetSoundData(name, typ, sound, ext string, data []byte) error {
	slot, err := SlotName(typ, sound)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext, err = audioExt(ext); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	dir, err := h.store.path(name)
	if err != nil {
		return err
	}
	if err := removeFold(dir, slot, AudioExts...); err != nil {
		return apperr.IO("replacing hitsound", err)
	}
	if err := os.WriteFile(filepath.Join(dir, slot+ext), data, 0o644); err != nil {
		return apperr.IO("writing hitsound", err)
	}
	return nil
}

// RemoveSound empties a slot.
func (h *Hitsounds) RemoveSound(name, typ, sound string) error {
	slot, err := SlotName(typ, sound)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	dir, err := h.store.path(name)
	if err != nil {
		return err
	}
	if err := removeFold(dir, slot, AudioExts...); err != nil {
		return apperr.IO("removing hitsound", err)
	}
	return nil
}

// ApplyToSkin copies every sample in the preset into skinPath as
// <type>-<sound>.<ext>, first removing the skin's existing file for that
// slot in any extension.
func (h *Hitsounds) ApplyToSkin(name, skinPath string) error {
	p, err := h.Get(name)
	if err != nil {
		return err
	}
	if len(p.Slots) == 0 {
		return apperr.Invalid("hitsound preset %q has no sounds", name)
	}
	for _, slot := range HitsoundSlots() {
		src, ok := p.Slots[slot]
		if !ok {
			continue
		}
		if err := removeFold(skinPath, slot, AudioExts...); err != nil {
			return apperr.IO("replacing "+slot, err)
		}
		dst := slot + strings.ToLower(filepath.Ext(src))
		if err := copyFile(src, filepath.Join(skinPath, dst)); err != nil {
			return apperr.IO("writing "+dst, err)
		}
	}
	h.log.Info("hitsounds applied", zap.String("preset", name), zap.String("skin", skinPath), zap.Int("sounds", len(p.Slots)))
	return nil
}

// ReadCurrent returns the active skin's samples through the cache.
func (h *Hitsounds) ReadCurrent(skinPath string) (HitsoundPreset, error) {
	slots, err := h.cache.Read(skinPath)
	if err != nil {
		return HitsoundPreset{}, err
	}
	return HitsoundPreset{Name: CurrentSkinName, Path: h.cache.Dir(), Slots: slots}, nil
}

// SaveCurrent creates a preset from the active skin's samples.
func (h *Hitsounds) SaveCurrent(name, skinPath string) error {
	cur, err := h.ReadCurrent(skinPath)
	if err != nil {
		return err
	}
	if len(cur.Slots) == 0 {
		return apperr.NotFound("hitsounds in the current skin")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	dir, err := h.store.create(name)
	if err != nil {
		return err
	}
	for slot, src := range cur.Slots {
		if err := copyFile(src, filepath.Join(dir, slot+filepath.Ext(src))); err != nil {
			return apperr.IO("saving hitsound preset", err)
		}
	}
	h.log.Info("hitsound preset saved from skin", zap.String("name", name), zap.Int("sounds", len(cur.Slots)))
	return nil
}
