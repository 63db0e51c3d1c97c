// Package app constructs every component once and wires them together.
package app

import (
	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/applier"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/history"
	"github.com/battlewithbytes/skin-studio/internal/library"
	"github.com/battlewithbytes/skin-studio/internal/seed"
	"github.com/battlewithbytes/skin-studio/internal/skin"
	"github.com/battlewithbytes/skin-studio/internal/updater"
)

// App is the application context shared by the CLI and the local API.
type App struct {
	Paths     config.Paths
	Version   string
	Log       *zap.Logger
	Config    *config.Store
	Images    *library.Images
	Digits    *library.Digits
	Hitsounds *library.Hitsounds
	Applier   *applier.Applier
	Seed      *seed.Importer
	Updater   *updater.Updater
	History   *history.Store // nil when the journal could not be opened
}

// Options configures New.
type Options struct {
	Paths          config.Paths
	Version        string
	Log            *zap.Logger
	UpdaterOptions []updater.Option
}

// New builds the application context. Only the history journal may fail
// to open; the app then runs without it.
func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	p := opts.Paths

	a := &App{
		Paths:     p,
		Version:   opts.Version,
		Log:       log,
		Config:    config.NewStore(p.ConfigFile, opts.Version, log),
		Images:    library.NewImages(p, log),
		Digits:    library.NewDigits(p, log),
		Hitsounds: library.NewHitsounds(p, log),
	}

	var journal applier.Recorder
	if h, err := history.NewStore(p.HistoryDB); err != nil {
		log.Warn("apply history disabled", zap.String("path", p.HistoryDB), zap.Error(err))
	} else {
		a.History = h
		journal = h
	}

	a.Applier = applier.New(a.Config, a.Images, a.Digits, a.Hitsounds, journal, log)
	a.Seed = seed.New(p, a.Images, a.Digits, a.Hitsounds, log)
	updOpts := append([]updater.Option{updater.WithDownloadDir(p.CacheDir)}, opts.UpdaterOptions...)
	a.Updater = updater.New(opts.Version, a.Config, log, updOpts...)

	a.Config.OnSkinChange(func(cfg config.Config) {
		for _, c := range []*library.SkinCache{a.Digits.Cache(), a.Hitsounds.Cache()} {
			if err := c.Invalidate(); err != nil {
				log.Warn("cache invalidation failed", zap.String("dir", c.Dir()), zap.Error(err))
			}
		}
		log.Debug("active skin changed, caches invalidated", zap.Bool("lazer", cfg.LazerMode))
	})
	return a
}

// Close releases the history journal.
func (a *App) Close() error {
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}

// SkinPath resolves the active skin folder and checks it exists.
func (a *App) SkinPath() (string, error) {
	return skin.ResolveExisting(a.Config.Load())
}

// Use2x returns the persisted @2x preference, or override when given.
func (a *App) Use2x(override *bool) bool {
	if override != nil {
		return *override
	}
	return a.Config.Load().Preferences.Use2x
}

// EnsureSeeded runs the seed importer when the library needs it. Failures
// are logged; an unseeded library is still usable.
func (a *App) EnsureSeeded() {
	if a.Seed.State() == seed.UpToDate {
		return
	}
	if _, err := a.Seed.Run(); err != nil {
		a.Log.Error("seeding library failed", zap.Error(err))
	}
}
