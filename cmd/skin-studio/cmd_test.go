package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
)

func TestParseOnOff(t *testing.T) {
	for _, s := range []string{"on", "ON", "true", "yes", "1"} {
		v, err := parseOnOff(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"off", "False", "no", "0"} {
		v, err := parseOnOff(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := parseOnOff("maybe")
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestFindSkinPrefersExactMatch(t *testing.T) {
	names := []string{"default", "Default", "Rafis"}

	got, ok := findSkin(names, "Default")
	require.True(t, ok)
	assert.Equal(t, "Default", got)

	got, ok = findSkin(names, "rafis")
	require.True(t, ok)
	assert.Equal(t, "Rafis", got)

	_, ok = findSkin(names, "nope")
	assert.False(t, ok)
}

func TestUnknownSkinErrorSuggests(t *testing.T) {
	err := unknownSkinError("Rafes", []string{"Rafis", "Cookiezi"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Rafis")
}

func TestSplitKey(t *testing.T) {
	sec, key, rest, err := splitKey([]string{"General.Name", "My Skin"})
	require.NoError(t, err)
	assert.Equal(t, "General", sec)
	assert.Equal(t, "Name", key)
	assert.Equal(t, []string{"My Skin"}, rest)

	sec, key, rest, err = splitKey([]string{"Colours", "Combo1", "255,0,0"})
	require.NoError(t, err)
	assert.Equal(t, "Colours", sec)
	assert.Equal(t, "Combo1", key)
	assert.Equal(t, []string{"255,0,0"}, rest)

	_, _, _, err = splitKey([]string{"General"})
	assert.Error(t, err)
}

func TestParseSlot(t *testing.T) {
	n, err := parseSlot("Combo3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = parseSlot("5")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = parseSlot("comboX")
	assert.Error(t, err)
}

func TestUse2xOverrideOnlyWhenFlagGiven(t *testing.T) {
	var v bool
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().BoolVar(&v, "2x", false, "")

	assert.Nil(t, use2xOverride(cmd, v))

	require.NoError(t, cmd.Flags().Set("2x", "false"))
	got := use2xOverride(cmd, v)
	require.NotNil(t, got)
	assert.False(t, *got)
}
