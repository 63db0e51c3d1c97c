// Package applier writes library presets into the active skin folder.
//
// Every operation resolves the skin folder from the current config, checks
// it exists, delegates the file work to the library, journals the attempt
// and, for digits and hitsounds, invalidates the current-skin cache.
package applier

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/history"
	"github.com/battlewithbytes/skin-studio/internal/library"
	"github.com/battlewithbytes/skin-studio/internal/skin"
	"github.com/battlewithbytes/skin-studio/internal/skinini"
)

// ConfigSource supplies the current config.
type ConfigSource interface {
	Load() config.Config
}

// Recorder journals apply attempts.
type Recorder interface {
	Record(rec *history.Record) error
}

// Applier applies presets to the active skin.
type Applier struct {
	cfg       ConfigSource
	images    *library.Images
	digits    *library.Digits
	hitsounds *library.Hitsounds
	journal   Recorder
	log       *zap.Logger
}

// New creates an Applier. journal may be nil.
func New(cfg ConfigSource, images *library.Images, digits *library.Digits, hitsounds *library.Hitsounds, journal Recorder, log *zap.Logger) *Applier {
	return &Applier{
		cfg:       cfg,
		images:    images,
		digits:    digits,
		hitsounds: hitsounds,
		journal:   journal,
		log:       log.Named("applier"),
	}
}

// SkinPath resolves the active skin folder and checks that it exists.
func (a *Applier) SkinPath() (string, error) {
	return skin.ResolveExisting(a.cfg.Load())
}

// ApplyImage applies an image preset under its category's skin filename.
// Cursor trails are applied in trail mode; use ApplyCursorTrail for middle.
func (a *Applier) ApplyImage(id string, use2x bool) error {
	p, err := a.images.Get(id)
	if err != nil {
		return err
	}
	if p.Category == library.CategoryCursorTrail {
		return a.ApplyCursorTrail(id, false, use2x)
	}
	return a.run(history.KindImage, id, p.Category.SkinFile(), func(skinPath string) error {
		return a.applyImage(p, skinPath, p.Category.SkinFile(), use2x)
	})
}

// ApplyCursorTrail applies a cursor-trail preset as cursortrail.png, or as
// cursormiddle.png when middle is set. The other variant's files are removed.
func (a *Applier) ApplyCursorTrail(id string, middle, use2x bool) error {
	p, err := a.images.Get(id)
	if err != nil {
		return err
	}
	if p.Category != library.CategoryCursorTrail {
		return apperr.Invalid("%s is not a cursor trail preset", id)
	}
	target := library.FileCursorTrail
	if middle {
		target = library.FileCursorMiddle
	}
	return a.run(history.KindCursorTrail, id, target, func(skinPath string) error {
		buf, second, err := a.readImage(p.ID, use2x)
		if err != nil {
			return err
		}
		return a.images.ApplyCursorTrail(buf, skinPath, middle, use2x, second)
	})
}

// ApplyCirclePair applies a hit circle then its overlay. It stops at the
// first failure; a circle already written is not rolled back.
func (a *Applier) ApplyCirclePair(circleID, overlayID string, use2x bool) error {
	circle, err := a.images.Get(circleID)
	if err != nil {
		return err
	}
	overlay, err := a.images.Get(overlayID)
	if err != nil {
		return err
	}
	if circle.Category != library.CategoryCircle {
		return apperr.Invalid("%s is not a circle preset", circleID)
	}
	if overlay.Category != library.CategoryCircleOverlay {
		return apperr.Invalid("%s is not a circle overlay preset", overlayID)
	}
	preset := circleID + " + " + overlayID
	return a.run(history.KindCirclePair, preset, library.FileHitCircle+" + "+library.FileHitCircleOverlay, func(skinPath string) error {
		if err := a.applyImage(circle, skinPath, library.FileHitCircle, use2x); err != nil {
			return fmt.Errorf("hit circle: %w", err)
		}
		if err := a.applyImage(overlay, skinPath, library.FileHitCircleOverlay, use2x); err != nil {
			return fmt.Errorf("hit circle overlay: %w", err)
		}
		return nil
	})
}

// ApplyDigits applies a digit preset.
func (a *Applier) ApplyDigits(name string, use2x bool) error {
	return a.run(history.KindDigits, name, "default-0..9", func(skinPath string) error {
		err := a.digits.ApplyToSkin(name, skinPath, use2x)
		a.invalidate(a.digits.Cache())
		return err
	})
}

// ApplyHitsounds applies a hitsound preset.
func (a *Applier) ApplyHitsounds(name string) error {
	return a.run(history.KindHitsounds, name, "<type>-<sound>", func(skinPath string) error {
		err := a.hitsounds.ApplyToSkin(name, skinPath)
		a.invalidate(a.hitsounds.Cache())
		return err
	})
}

// ReadSkinIni loads the active skin's skin.ini.
func (a *Applier) ReadSkinIni() (*skinini.Skin, error) {
	skinPath, err := a.SkinPath()
	if err != nil {
		return nil, err
	}
	s, err := skinini.Load(skinPath)
	if err != nil {
		return nil, apperr.IO("reading skin.ini", err)
	}
	return s, nil
}

// WriteSkinIni replaces the active skin's skin.ini.
func (a *Applier) WriteSkinIni(s *skinini.Skin) error {
	return a.run(history.KindSkinIni, s.General.Name, skinini.Filename, func(skinPath string) error {
		return apperr.IO("writing skin.ini", skinini.Save(skinPath, s))
	})
}

func (a *Applier) applyImage(p library.Preset, skinPath, target string, use2x bool) error {
	buf, second, err := a.readImage(p.ID, use2x)
	if err != nil {
		return err
	}
	return a.images.ApplyToSkin(buf, skinPath, target, use2x, second)
}

// readImage returns the preset bytes and, with use2x, its stored @2x file
// if it has one.
func (a *Applier) readImage(id string, use2x bool) ([]byte, []byte, error) {
	buf, err := a.images.Read(id)
	if err != nil {
		return nil, nil, err
	}
	if !use2x {
		return buf, nil, nil
	}
	second, err := a.images.Read2x(id)
	if err != nil {
		return nil, nil, err
	}
	return buf, second, nil
}

func (a *Applier) invalidate(c *library.SkinCache) {
	if err := c.Invalidate(); err != nil {
		a.log.Warn("cache invalidation failed", zap.String("dir", c.Dir()), zap.Error(err))
	}
}

// run resolves the skin folder, performs fn and journals the outcome.
func (a *Applier) run(kind, preset, target string, fn func(skinPath string) error) error {
	skinPath, err := a.SkinPath()
	if err == nil {
		err = fn(skinPath)
	}
	a.record(kind, preset, target, skinPath, err)
	if err != nil {
		a.log.Error("apply failed", zap.String("kind", kind), zap.String("preset", preset), zap.Error(err))
		return err
	}
	a.log.Info("applied", zap.String("kind", kind), zap.String("preset", preset), zap.String("skin", skinPath))
	return nil
}

func (a *Applier) record(kind, preset, target, skinPath string, err error) {
	if a.journal == nil {
		return
	}
	rec := &history.Record{Kind: kind, Preset: preset, Target: target, SkinPath: skinPath, Success: err == nil}
	if err != nil {
		rec.Error = err.Error()
	}
	if jerr := a.journal.Record(rec); jerr != nil {
		a.log.Warn("recording apply history", zap.Error(jerr))
	}
}
