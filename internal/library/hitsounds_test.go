package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
)

func TestHitsoundSlots(t *testing.T) {
	slots := HitsoundSlots()
	assert.Len(t, slots, 22)
	assert.Contains(t, slots, "soft-hitsoft")
	assert.NotContains(t, slots, "drum-hitsoft")

	got, err := SlotName("Normal", "HitClap")
	require.NoError(t, err)
	assert.Equal(t, "normal-hitclap", got)

	_, err = SlotName("drum", "hitsoft")
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
	_, err = SlotName("taiko", "hitnormal")
	assert.Error(t, err)

	got, err = ParseSlot("soft-sliderslide")
	require.NoError(t, err)
	assert.Equal(t, "soft-sliderslide", got)
}

func TestSetSoundReplacesAcrossExtensions(t *testing.T) {
	h := NewHitsounds(testPaths(t), nopLog())
	src := t.TempDir()
	wav := filepath.Join(src, "clap.wav")
	ogg := filepath.Join(src, "clap.OGG")
	writeFile(t, wav, []byte("wav-data"))
	writeFile(t, ogg, []byte("ogg-data"))

	require.NoError(t, h.Create("kit"))
	require.NoError(t, h.SetSound("kit", "normal", "hitclap", wav))
	require.NoError(t, h.SetSound("kit", "normal", "hitclap", ogg))

	p, err := h.Get("kit")
	require.NoError(t, err)
	assert.Equal(t, []string{"normal-hitclap.ogg"}, fileNames(t, p.Path))

	data, err := os.ReadFile(p.Slots["normal-hitclap"])
	require.NoError(t, err)
	assert.Equal(t, "ogg-data", string(data))
}

func TestSetSoundRejects(t *testing.T) {
	h := NewHitsounds(testPaths(t), nopLog())
	require.NoError(t, h.Create("kit"))
	src := filepath.Join(t.TempDir(), "clap.flac")
	writeFile(t, src, []byte("x"))

	assert.True(t, apperr.Is(h.SetSound("kit", "normal", "hitclap", src), apperr.KindUnsupportedFormat))
	assert.True(t, apperr.Is(h.SetSound("kit", "normal", "hitclap", filepath.Join(t.TempDir(), "gone.wav")), apperr.KindNotFound))
	wav := filepath.Join(t.TempDir(), "clap.wav")
	writeFile(t, wav, []byte("x"))
	assert.True(t, apperr.Is(h.SetSound("nokit", "normal", "hitclap", wav), apperr.KindNotFound))
	assert.True(t, apperr.Is(h.SetSoundData("kit", "normal", "hitclap", "aiff", []byte("x")), apperr.KindUnsupportedFormat))
}

func TestHitsoundApplyAndRemove(t *testing.T) {
	h := NewHitsounds(testPaths(t), nopLog())
	skin := t.TempDir()
	writeFile(t, filepath.Join(skin, "Drum-HitNormal.ogg"), []byte("old"))
	writeFile(t, filepath.Join(skin, "soft-hitsoft.wav"), []byte("keep"))

	require.NoError(t, h.Create("kit"))
	require.NoError(t, h.SetSoundData("kit", "drum", "hitnormal", "wav", []byte("new")))
	require.NoError(t, h.SetSoundData("kit", "normal", "slidertick", ".mp3", []byte("tick")))

	require.NoError(t, h.ApplyToSkin("kit", skin))
	assert.ElementsMatch(t,
		[]string{"drum-hitnormal.wav", "normal-slidertick.mp3", "soft-hitsoft.wav"},
		fileNames(t, skin))

	require.NoError(t, h.RemoveSound("kit", "drum", "hitnormal"))
	p, err := h.Get("kit")
	require.NoError(t, err)
	assert.Len(t, p.Slots, 1)
}

func TestHitsoundSaveCurrent(t *testing.T) {
	h := NewHitsounds(testPaths(t), nopLog())
	skin := t.TempDir()
	assert.True(t, apperr.Is(h.SaveCurrent("empty", skin), apperr.KindNotFound))

	writeFile(t, filepath.Join(skin, "soft-hitsoft.mp3"), []byte("s"))
	require.NoError(t, h.Cache().Invalidate())
	require.NoError(t, h.SaveCurrent("from skin", skin))

	p, err := h.Get("From Skin")
	require.NoError(t, err)
	assert.Equal(t, "from skin", p.Name)
	assert.Contains(t, p.Slots, "soft-hitsoft")
}
