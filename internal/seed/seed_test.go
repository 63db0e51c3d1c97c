package seed

import (
	"bytes"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/library"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newImporter(t *testing.T, src fs.FS) (*Importer, config.Paths) {
	t.Helper()
	p := config.PathsAt(t.TempDir())
	log := zap.NewNop()
	im := New(p, library.NewImages(p, log), library.NewDigits(p, log), library.NewHitsounds(p, log), log)
	im.Source = src
	im.Version = "1"
	return im, p
}

func testSource(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"cursor/dot.png":                    {Data: pngBytes(t, 20, 20)},
		"cursor/dot@2x.png":                 {Data: pngBytes(t, 40, 40)},
		"circle/flat.png":                   {Data: pngBytes(t, 128, 128)},
		"digits/Classic/default-0.png":      {Data: pngBytes(t, 10, 12)},
		"digits/Classic/default-1.png":      {Data: pngBytes(t, 10, 12)},
		"hitsounds/Clicks/soft-hitsoft.wav": {Data: []byte("RIFF....WAVE")},
	}
}

// snapshot maps every file under root to its modification time.
func snapshot(t *testing.T, root string) map[string]time.Time {
	t.Helper()
	out := make(map[string]time.Time)
	require.NoError(t, filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out[p] = info.ModTime()
		return nil
	}))
	return out
}

func TestStateWithoutMarker(t *testing.T) {
	im, _ := newImporter(t, testSource(t))
	assert.Equal(t, NeedsSeed, im.State())
}

func TestRunSeedsEveryCategory(t *testing.T) {
	im, p := newImporter(t, testSource(t))

	rep, err := im.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Images)
	assert.Equal(t, 3, rep.Files)
	assert.Equal(t, UpToDate, im.State())

	assert.FileExists(t, filepath.Join(p.CursorsDir, "dot-1.png"))
	assert.FileExists(t, filepath.Join(p.CursorsDir, "dot-1@2x.png"))
	assert.FileExists(t, filepath.Join(p.CirclesDir, "flat-1.png"))
	assert.FileExists(t, filepath.Join(p.DigitsDir, "Classic", "default-1.png"))
	assert.FileExists(t, filepath.Join(p.HitsoundsDir, "Clicks", "soft-hitsoft.wav"))

	m, ok := im.ReadMarker()
	require.True(t, ok)
	assert.Equal(t, "1", m.Version)
	assert.Equal(t, []string{"circle/flat.png", "cursor/dot.png", "digits/Classic", "hitsounds/Clicks"}, m.Seeded)
}

func TestRunTwiceWritesNothing(t *testing.T) {
	im, p := newImporter(t, testSource(t))
	_, err := im.Run()
	require.NoError(t, err)
	before := snapshot(t, p.Root)

	rep, err := im.Run()
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)
	assert.Equal(t, before, snapshot(t, p.Root))
}

func TestVersionBumpMergesWithoutOverwriting(t *testing.T) {
	src := testSource(t)
	im, p := newImporter(t, src)
	_, err := im.Run()
	require.NoError(t, err)

	userEdit := []byte("user glyph")
	glyph := filepath.Join(p.DigitsDir, "Classic", "default-0.png")
	require.NoError(t, os.WriteFile(glyph, userEdit, 0o644))

	src["cursor/ring.png"] = &fstest.MapFile{Data: pngBytes(t, 30, 30)}
	src["digits/Classic/default-2.png"] = &fstest.MapFile{Data: pngBytes(t, 10, 12)}
	im.Version = "2"
	assert.Equal(t, NeedsSeed, im.State())

	rep, err := im.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Images, "only the new image is added")
	assert.Equal(t, 1, rep.Files)

	got, err := os.ReadFile(glyph)
	require.NoError(t, err)
	assert.Equal(t, userEdit, got)

	list, err := im.Images.List(library.CategoryCursor)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCorruptMarkerNeedsSeed(t *testing.T) {
	im, p := newImporter(t, testSource(t))
	require.NoError(t, os.MkdirAll(p.Root, 0o755))
	require.NoError(t, os.WriteFile(p.SeedMarker, []byte("{"), 0o644))
	assert.Equal(t, NeedsSeed, im.State())
}

func TestBundledPresetsAreValid(t *testing.T) {
	src := Bundled()
	for _, c := range library.Categories {
		entries, err := fs.ReadDir(src, string(c))
		require.NoError(t, err, c)
		assert.NotEmpty(t, entries, c)
	}
	im, _ := newImporter(t, src)
	rep, err := im.Run()
	require.NoError(t, err)
	assert.Positive(t, rep.Images)
	assert.Positive(t, rep.Files)
}

func TestFailedRunKeepsProgress(t *testing.T) {
	src := testSource(t)
	src["circle/broken.png"] = &fstest.MapFile{Data: []byte("not a png")}
	im, p := newImporter(t, src)

	_, err := im.Run()
	require.Error(t, err)
	assert.Equal(t, NeedsSeed, im.State())
	m, ok := im.ReadMarker()
	require.True(t, ok)
	assert.Contains(t, m.Seeded, "cursor/dot.png")

	delete(src, "circle/broken.png")
	rep, err := im.Run()
	require.NoError(t, err)
	assert.Equal(t, UpToDate, im.State())
	assert.Equal(t, 1, rep.Images, "only the circle is added on the retry")

	assert.FileExists(t, filepath.Join(p.CursorsDir, "dot-1.png"))
	assert.NoFileExists(t, filepath.Join(p.CursorsDir, "dot-2.png"))
}
