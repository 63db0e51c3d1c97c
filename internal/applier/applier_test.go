package applier

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/history"
	"github.com/battlewithbytes/skin-studio/internal/library"
	"github.com/battlewithbytes/skin-studio/internal/skinini"
)

type staticConfig struct{ cfg config.Config }

func (s *staticConfig) Load() config.Config { return s.cfg }

type memJournal struct {
	recs []*history.Record
	err  error
}

func (m *memJournal) Record(rec *history.Record) error {
	m.recs = append(m.recs, rec)
	return m.err
}

type fixture struct {
	a       *Applier
	cfg     *staticConfig
	journal *memJournal
	images  *library.Images
	digits  *library.Digits
	sounds  *library.Hitsounds
	skin    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	paths := config.PathsAt(t.TempDir())
	install := t.TempDir()
	skinDir := filepath.Join(install, config.SkinsDir, "Mine")
	require.NoError(t, os.MkdirAll(skinDir, 0o755))

	log := zap.NewNop()
	f := &fixture{
		cfg:     &staticConfig{cfg: config.Config{InstallFolder: install, ActiveSkin: "Mine"}},
		journal: &memJournal{},
		images:  library.NewImages(paths, log),
		digits:  library.NewDigits(paths, log),
		sounds:  library.NewHitsounds(paths, log),
		skin:    skinDir,
	}
	f.a = New(f.cfg, f.images, f.digits, f.sounds, f.journal, log)
	return f
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func (f *fixture) add(t *testing.T, c library.Category) string {
	t.Helper()
	name, err := f.images.Add(c, makePNG(t, 32, 32), "p")
	require.NoError(t, err)
	return string(c) + "-" + name
}

func TestApplyImageWritesGameFilename(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, library.CategoryCursor)

	require.NoError(t, f.a.ApplyImage(id, true))
	assert.FileExists(t, filepath.Join(f.skin, "cursor.png"))
	assert.FileExists(t, filepath.Join(f.skin, "cursor@2x.png"))

	require.NoError(t, f.a.ApplyImage(id, false))
	assert.NoFileExists(t, filepath.Join(f.skin, "cursor@2x.png"))

	require.Len(t, f.journal.recs, 2)
	assert.Equal(t, history.KindImage, f.journal.recs[0].Kind)
	assert.True(t, f.journal.recs[0].Success)
	assert.Equal(t, f.skin, f.journal.recs[0].SkinPath)
}

func TestApplyUsesStored2x(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, library.CategoryCursor)
	hi := makePNG(t, 7, 7)
	require.NoError(t, os.WriteFile(filepath.Join(f.images.Dir(library.CategoryCursor), "p-1@2x.png"), hi, 0o644))

	require.NoError(t, f.a.ApplyImage(id, true))
	got, err := os.ReadFile(filepath.Join(f.skin, "cursor@2x.png"))
	require.NoError(t, err)
	assert.Equal(t, hi, got)
}

func TestApplyNotConfigured(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, library.CategoryCursor)
	f.cfg.cfg = config.Config{}

	err := f.a.ApplyImage(id, false)
	assert.True(t, apperr.Is(err, apperr.KindNotConfigured))
	require.Len(t, f.journal.recs, 1)
	assert.False(t, f.journal.recs[0].Success)
}

func TestApplyMissingSkinFolder(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, library.CategoryCursor)
	f.cfg.cfg.ActiveSkin = "Gone"

	assert.True(t, apperr.Is(f.a.ApplyImage(id, false), apperr.KindSkinFolderNotFound))
}

func TestApplyLazerPath(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, library.CategoryCircle)
	lazer := t.TempDir()
	f.cfg.cfg = config.Config{LazerMode: true, LazerSkinPath: lazer}

	require.NoError(t, f.a.ApplyImage(id, false))
	assert.FileExists(t, filepath.Join(lazer, "hitcircle.png"))
}

func TestApplyCursorTrailMiddle(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, library.CategoryCursorTrail)

	require.NoError(t, f.a.ApplyImage(id, true))
	assert.FileExists(t, filepath.Join(f.skin, "cursortrail.png"))

	require.NoError(t, f.a.ApplyCursorTrail(id, true, true))
	assert.NoFileExists(t, filepath.Join(f.skin, "cursortrail.png"))
	assert.NoFileExists(t, filepath.Join(f.skin, "cursortrail@2x.png"))
	assert.FileExists(t, filepath.Join(f.skin, "cursormiddle.png"))

	cursor := f.add(t, library.CategoryCursor)
	assert.True(t, apperr.Is(f.a.ApplyCursorTrail(cursor, true, false), apperr.KindInvalid))
}

func TestApplyCirclePair(t *testing.T) {
	f := newFixture(t)
	circle := f.add(t, library.CategoryCircle)
	overlay := f.add(t, library.CategoryCircleOverlay)

	require.NoError(t, f.a.ApplyCirclePair(circle, overlay, false))
	assert.FileExists(t, filepath.Join(f.skin, "hitcircle.png"))
	assert.FileExists(t, filepath.Join(f.skin, "hitcircleoverlay.png"))

	assert.True(t, apperr.Is(f.a.ApplyCirclePair(overlay, circle, false), apperr.KindInvalid))
	assert.True(t, apperr.Is(f.a.ApplyCirclePair(circle, "circle-overlay-missing", false), apperr.KindNotFound))
}

func TestApplyCirclePairStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t)
	circle := f.add(t, library.CategoryCircle)
	overlay := f.add(t, library.CategoryCircleOverlay)
	// A directory where the overlay file should go makes the second write fail.
	require.NoError(t, os.Mkdir(filepath.Join(f.skin, "hitcircleoverlay.png"), 0o755))

	err := f.a.ApplyCirclePair(circle, overlay, false)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindIOFailure))
	assert.FileExists(t, filepath.Join(f.skin, "hitcircle.png"), "first write is kept")
}

func TestApplyDigitsInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.digits.Create("Blue"))
	require.NoError(t, f.digits.SetDigit("Blue", "4", makePNG(t, 8, 10)))

	_, err := f.digits.Cache().Read(f.skin)
	require.NoError(t, err)

	require.NoError(t, f.a.ApplyDigits("Blue", false))
	assert.False(t, f.digits.Cache().HasCache())

	cur, err := f.digits.ReadCurrent(f.skin)
	require.NoError(t, err)
	assert.Contains(t, cur.Slots, "default-4")
}

func TestApplyHitsounds(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sounds.Create("Kit"))
	require.NoError(t, f.sounds.SetSoundData("Kit", "soft", "hitsoft", "ogg", []byte("s")))

	require.NoError(t, f.a.ApplyHitsounds("Kit"))
	assert.FileExists(t, filepath.Join(f.skin, "soft-hitsoft.ogg"))
	assert.Equal(t, history.KindHitsounds, f.journal.recs[0].Kind)
}

func TestSkinIniRoundTrip(t *testing.T) {
	f := newFixture(t)
	s, err := f.a.ReadSkinIni()
	require.NoError(t, err)
	assert.Equal(t, skinini.Default(), s)

	s.General.Name = "Mine"
	require.NoError(t, s.SetCombo(1, "1,2,3"))
	require.NoError(t, f.a.WriteSkinIni(s))

	got, err := f.a.ReadSkinIni()
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.General.Name)
	assert.Equal(t, "1,2,3", got.Colours.Combo[0])
}

func TestJournalFailureDoesNotFailApply(t *testing.T) {
	f := newFixture(t)
	f.journal.err = errors.New("disk full")
	id := f.add(t, library.CategoryCursor)
	assert.NoError(t, f.a.ApplyImage(id, false))
}
