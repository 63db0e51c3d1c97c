package skinini

import (
	"fmt"
	"strings"
)

// field maps one skin.ini key onto a Skin field.
type field struct {
	key     string   // canonical spelling, written by Generate
	aliases []string // other spellings seen in the wild
	colour  bool
	combo   bool // written only when non-empty
	ptr     func(*Skin) interface{}
}

type section struct {
	name   string
	fields []field
}

var sections = []section{
	{name: "General", fields: []field{
		{key: "Name", ptr: func(s *Skin) interface{} { return &s.General.Name }},
		{key: "Author", ptr: func(s *Skin) interface{} { return &s.General.Author }},
		{key: "Version", ptr: func(s *Skin) interface{} { return &s.General.Version }},
		{key: "SliderBallFlip", ptr: func(s *Skin) interface{} { return &s.General.SliderBallFlip }},
		{key: "CursorRotate", ptr: func(s *Skin) interface{} { return &s.General.CursorRotate }},
		{key: "CursorTrailRotate", ptr: func(s *Skin) interface{} { return &s.General.CursorTrailRotate }},
		{key: "CursorExpand", ptr: func(s *Skin) interface{} { return &s.General.CursorExpand }},
		{key: "CursorCentre", aliases: []string{"CursorCenter"}, ptr: func(s *Skin) interface{} { return &s.General.CursorCentre }},
		{key: "SliderBallFrames", aliases: []string{"SliderBallFrameCount"}, ptr: func(s *Skin) interface{} { return &s.General.SliderBallFrames }},
		// The game itself shipped the "Numer" typo, so both spellings exist in real skins.
		{key: "HitCircleOverlayAboveNumber", aliases: []string{"HitCircleOverlayAboveNumer"}, ptr: func(s *Skin) interface{} { return &s.General.HitCircleOverlayAboveNumber }},
		{key: "SliderStyle", ptr: func(s *Skin) interface{} { return &s.General.SliderStyle }},
		{key: "AllowSliderBallTint", ptr: func(s *Skin) interface{} { return &s.General.AllowSliderBallTint }},
		{key: "SpinnerFadePlayfield", aliases: []string{"SpinnerFade"}, ptr: func(s *Skin) interface{} { return &s.General.SpinnerFadePlayfield }},
	}},
	{name: "Colours", fields: colourFields()},
	{name: "Fonts", fields: []field{
		{key: "HitCirclePrefix", ptr: func(s *Skin) interface{} { return &s.Fonts.HitCirclePrefix }},
		{key: "HitCircleOverlap", ptr: func(s *Skin) interface{} { return &s.Fonts.HitCircleOverlap }},
		{key: "ScorePrefix", ptr: func(s *Skin) interface{} { return &s.Fonts.ScorePrefix }},
		{key: "ScoreOverlap", ptr: func(s *Skin) interface{} { return &s.Fonts.ScoreOverlap }},
		{key: "ComboPrefix", ptr: func(s *Skin) interface{} { return &s.Fonts.ComboPrefix }},
		{key: "ComboOverlap", ptr: func(s *Skin) interface{} { return &s.Fonts.ComboOverlap }},
	}},
}

func colourFields() []field {
	var fields []field
	for i := 0; i < MaxCombos; i++ {
		i := i
		fields = append(fields, field{
			key:    fmt.Sprintf("Combo%d", i+1),
			colour: true,
			combo:  true,
			ptr:    func(s *Skin) interface{} { return &s.Colours.Combo[i] },
		})
	}
	return append(fields,
		field{key: "SongSelectActiveText", colour: true, ptr: func(s *Skin) interface{} { return &s.Colours.SongSelectActiveText }},
		field{key: "SongSelectInactiveText", colour: true, ptr: func(s *Skin) interface{} { return &s.Colours.SongSelectInactiveText }},
		field{key: "SliderBorder", aliases: []string{"SliderBorderColour"}, colour: true, ptr: func(s *Skin) interface{} { return &s.Colours.SliderBorder }},
		field{key: "SliderTrackOverride", aliases: []string{"SliderTrackColour"}, colour: true, ptr: func(s *Skin) interface{} { return &s.Colours.SliderTrackOverride }},
	)
}

// index maps normalised section name -> normalised key -> field.
var index = buildIndex()

func buildIndex() map[string]map[string]*field {
	idx := make(map[string]map[string]*field, len(sections))
	for si := range sections {
		sec := &sections[si]
		keys := make(map[string]*field)
		for fi := range sec.fields {
			f := &sec.fields[fi]
			keys[normalizeKey(f.key)] = f
			for _, alias := range f.aliases {
				keys[normalizeKey(alias)] = f
			}
		}
		idx[strings.ToLower(sec.name)] = keys
	}
	return idx
}

// normalizeKey lower-cases k and drops separators.
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer("_", "", "-", "").Replace(k)
}

func lookup(sectionName, key string) (*field, bool) {
	keys, ok := index[strings.ToLower(strings.TrimSpace(sectionName))]
	if !ok {
		return nil, false
	}
	f, ok := keys[normalizeKey(key)]
	return f, ok
}
