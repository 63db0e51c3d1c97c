package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
)

func TestAddGeneratesIncreasingNames(t *testing.T) {
	im := NewImages(testPaths(t), nopLog())
	buf := makePNG(t, 32, 32)

	first, err := im.Add(CategoryCursor, buf, "cursor")
	require.NoError(t, err)
	assert.Equal(t, "cursor-1", first)

	second, err := im.Add(CategoryCursor, buf, "cursor")
	require.NoError(t, err)
	assert.Equal(t, "cursor-2", second)
}

func TestAddFillsSmallestFreeNumber(t *testing.T) {
	p := testPaths(t)
	im := NewImages(p, nopLog())
	buf := makePNG(t, 8, 8)
	writeFile(t, filepath.Join(p.CursorsDir, "arrow-2.png"), buf)

	name, err := im.Add(CategoryCursor, buf, "arrow")
	require.NoError(t, err)
	assert.Equal(t, "arrow-1", name)

	name, err = im.Add(CategoryCursor, buf, "arrow")
	require.NoError(t, err)
	assert.Equal(t, "arrow-3", name)
}

func TestAddRejectsNonPNG(t *testing.T) {
	im := NewImages(testPaths(t), nopLog())
	_, err := im.Add(CategoryCursor, []byte("not an image at all"), "x")
	assert.True(t, apperr.Is(err, apperr.KindUnsupportedFormat))
}

func TestAddResizePolicies(t *testing.T) {
	p := testPaths(t)
	im := NewImages(p, nopLog())

	name, err := im.Add(CategoryCursor, makePNG(t, 300, 150), "big")
	require.NoError(t, err)
	w, h := pngSize(t, filepath.Join(p.CursorsDir, name+".png"))
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)

	name, err = im.Add(CategoryCircle, makePNG(t, 40, 60), "circle")
	require.NoError(t, err)
	w, h = pngSize(t, filepath.Join(p.CirclesDir, name+".png"))
	assert.Equal(t, 128, w)
	assert.Equal(t, 128, h)
}

func TestListSkipsHighRes(t *testing.T) {
	p := testPaths(t)
	im := NewImages(p, nopLog())
	buf := makePNG(t, 4, 4)
	writeFile(t, filepath.Join(p.CirclesDir, "a-1.png"), buf)
	writeFile(t, filepath.Join(p.CirclesDir, "a-1@2x.png"), buf)
	writeFile(t, filepath.Join(p.CirclesDir, "a-10.png"), buf)
	writeFile(t, filepath.Join(p.CirclesDir, "a-2.png"), buf)
	writeFile(t, filepath.Join(p.CirclesDir, "notes.txt"), []byte("x"))

	list, err := im.List(CategoryCircle)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "circle-a-1", list[0].ID)
	assert.True(t, list[0].Has2x)
	assert.Equal(t, "circle-a-2", list[1].ID)
	assert.Equal(t, "circle-a-10", list[2].ID)
	assert.False(t, list[2].Has2x)
}

func TestListEmptyCategory(t *testing.T) {
	im := NewImages(testPaths(t), nopLog())
	list, err := im.List(CategoryCircleOverlay)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete(t *testing.T) {
	p := testPaths(t)
	im := NewImages(p, nopLog())
	buf := makePNG(t, 4, 4)
	name, err := im.Add(CategoryCursorTrail, buf, "smoke")
	require.NoError(t, err)
	writeFile(t, filepath.Join(p.CursorTrailsDir, name+"@2x.png"), buf)

	assert.False(t, im.Delete("bogus"))
	assert.False(t, im.Delete("cursor-"+name), "wrong category prefix")
	assert.True(t, im.Delete("cursor-trail-"+name))
	assert.False(t, im.Delete("cursor-trail-"+name), "already gone")

	_, err = os.Stat(filepath.Join(p.CursorTrailsDir, name+"@2x.png"))
	assert.NoError(t, err, "@2x sibling is left in place")
}

func TestIDResolutionAcrossSharedPrefixes(t *testing.T) {
	p := testPaths(t)
	im := NewImages(p, nopLog())
	buf := makePNG(t, 4, 4)
	// A cursor named "trail-x" has the id "cursor-trail-x".
	writeFile(t, filepath.Join(p.CursorsDir, "trail-x.png"), buf)

	got, err := im.Get("cursor-trail-x")
	require.NoError(t, err)
	assert.Equal(t, CategoryCursor, got.Category)
	assert.Equal(t, "trail-x", got.Name)
}

func TestReadAndPreview(t *testing.T) {
	im := NewImages(testPaths(t), nopLog())
	buf := makePNG(t, 4, 4)
	name, err := im.Add(CategoryCircleOverlay, buf, "ov")
	require.NoError(t, err)

	got, err := im.Read("circle-overlay-" + name)
	require.NoError(t, err)
	assert.True(t, len(got) > 8)

	uri, err := im.Preview("circle-overlay-" + name)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	_, err = im.Read("circle-overlay-missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestApplyToSkinToggles2x(t *testing.T) {
	im := NewImages(testPaths(t), nopLog())
	skin := t.TempDir()
	buf := makePNG(t, 128, 128)

	require.NoError(t, im.ApplyToSkin(buf, skin, FileHitCircle, true, nil))
	w, h := pngSize(t, filepath.Join(skin, "hitcircle@2x.png"))
	assert.Equal(t, 256, w)
	assert.Equal(t, 256, h)

	require.NoError(t, im.ApplyToSkin(buf, skin, FileHitCircle, false, nil))
	assert.FileExists(t, filepath.Join(skin, "hitcircle.png"))
	assert.NoFileExists(t, filepath.Join(skin, "hitcircle@2x.png"))
}

func TestApplyToSkinUsesSecondBuffer(t *testing.T) {
	im := NewImages(testPaths(t), nopLog())
	skin := t.TempDir()
	second := makePNG(t, 10, 10)

	require.NoError(t, im.ApplyToSkin(makePNG(t, 50, 50), skin, FileCursor, true, second))
	got, err := os.ReadFile(filepath.Join(skin, "cursor@2x.png"))
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestCursorTrailVariantsAreExclusive(t *testing.T) {
	im := NewImages(testPaths(t), nopLog())
	skin := t.TempDir()
	buf := makePNG(t, 20, 20)

	require.NoError(t, im.ApplyCursorTrail(buf, skin, false, true, nil))
	assert.ElementsMatch(t, []string{"cursortrail.png", "cursortrail@2x.png"}, fileNames(t, skin))

	require.NoError(t, im.ApplyCursorTrail(buf, skin, true, true, nil))
	assert.ElementsMatch(t, []string{"cursormiddle.png", "cursormiddle@2x.png"}, fileNames(t, skin))

	require.NoError(t, im.ApplyCursorTrail(buf, skin, false, false, nil))
	assert.ElementsMatch(t, []string{"cursortrail.png"}, fileNames(t, skin))
}

func TestApplyToSkinReplacesCaseVariants(t *testing.T) {
	im := NewImages(testPaths(t), nopLog())
	skin := t.TempDir()
	old := makePNG(t, 4, 4)
	writeFile(t, filepath.Join(skin, "Cursor.png"), old)
	writeFile(t, filepath.Join(skin, "CURSOR@2x.png"), old)
	writeFile(t, filepath.Join(skin, "CursorMiddle@2X.png"), old)
	writeFile(t, filepath.Join(skin, "CursorMiddle.png"), old)

	require.NoError(t, im.ApplyToSkin(makePNG(t, 20, 20), skin, FileCursor, false, nil))
	require.NoError(t, im.ApplyCursorTrail(makePNG(t, 20, 20), skin, false, false, nil))
	assert.ElementsMatch(t, []string{"cursor.png", "cursortrail.png"}, fileNames(t, skin))
}

func TestListMatchesResolvableFiles(t *testing.T) {
	p := testPaths(t)
	im := NewImages(p, nopLog())
	writeFile(t, filepath.Join(p.CursorsDir, "Upper.PNG"), makePNG(t, 8, 8))
	writeFile(t, filepath.Join(p.CursorsDir, "lower.png"), makePNG(t, 8, 8))

	presets, err := im.List(CategoryCursor)
	require.NoError(t, err)
	for _, pr := range presets {
		_, err := im.Get(pr.ID)
		assert.NoError(t, err, pr.ID)
	}
	require.NotEmpty(t, presets)
	assert.Equal(t, "cursor-lower", presets[len(presets)-1].ID)
}

func TestSaveFromSkin(t *testing.T) {
	p := testPaths(t)
	im := NewImages(p, nopLog())
	skin := t.TempDir()

	_, err := im.SaveFromSkin(CategoryCursor, skin, "mine")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	writeFile(t, filepath.Join(skin, "CursorMiddle.png"), makePNG(t, 16, 16))
	name, err := im.SaveFromSkin(CategoryCursorTrail, skin, "mine")
	require.NoError(t, err)
	assert.Equal(t, "mine-1", name)
	assert.FileExists(t, filepath.Join(p.CursorTrailsDir, "mine-1.png"))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Circle-Overlay")
	require.NoError(t, err)
	assert.Equal(t, CategoryCircleOverlay, c)
	_, err = ParseCategory("slider")
	assert.Error(t, err)
}

func TestNaturalLess(t *testing.T) {
	assert.True(t, naturalLess("cursor-2", "cursor-10"))
	assert.True(t, naturalLess("A", "b"))
	assert.False(t, naturalLess("b", "A"))
	assert.True(t, naturalLess("x", "x1"))
}
