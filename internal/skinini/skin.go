// Package skinini reads and writes the game's skin.ini format.
//
// Parsing is lenient the way the game is: section and key names are
// case-insensitive, "_" and "-" inside keys are ignored, a few historical
// misspellings are accepted, and unknown keys or sections are skipped.
// Generation always emits the canonical spelling in a fixed order.
package skinini

// Skin is the structured form of a skin.ini file.
type Skin struct {
	General General `json:"general" yaml:"general"`
	Colours Colours `json:"colours" yaml:"colours"`
	Fonts   Fonts   `json:"fonts" yaml:"fonts"`
}

type General struct {
	Name                        string `json:"name" yaml:"name"`
	Author                      string `json:"author" yaml:"author"`
	Version                     string `json:"version" yaml:"version"`
	SliderBallFlip              bool   `json:"slider_ball_flip" yaml:"slider_ball_flip"`
	CursorRotate                bool   `json:"cursor_rotate" yaml:"cursor_rotate"`
	CursorTrailRotate           bool   `json:"cursor_trail_rotate" yaml:"cursor_trail_rotate"`
	CursorExpand                bool   `json:"cursor_expand" yaml:"cursor_expand"`
	CursorCentre                bool   `json:"cursor_centre" yaml:"cursor_centre"`
	SliderBallFrames            int    `json:"slider_ball_frames" yaml:"slider_ball_frames"`
	HitCircleOverlayAboveNumber bool   `json:"hit_circle_overlay_above_number" yaml:"hit_circle_overlay_above_number"`
	SliderStyle                 int    `json:"slider_style" yaml:"slider_style"`
	AllowSliderBallTint         bool   `json:"allow_slider_ball_tint" yaml:"allow_slider_ball_tint"`
	SpinnerFadePlayfield        bool   `json:"spinner_fade_playfield" yaml:"spinner_fade_playfield"`
}

// Colours holds "r,g,b" strings. An empty string means the key is absent
// and the game default applies.
type Colours struct {
	Combo                  [MaxCombos]string `json:"combo" yaml:"combo"`
	SongSelectActiveText   string            `json:"song_select_active_text" yaml:"song_select_active_text"`
	SongSelectInactiveText string            `json:"song_select_inactive_text" yaml:"song_select_inactive_text"`
	SliderBorder           string            `json:"slider_border" yaml:"slider_border"`
	SliderTrackOverride    string            `json:"slider_track_override" yaml:"slider_track_override"`
}

type Fonts struct {
	HitCirclePrefix  string `json:"hit_circle_prefix" yaml:"hit_circle_prefix"`
	HitCircleOverlap int    `json:"hit_circle_overlap" yaml:"hit_circle_overlap"`
	ScorePrefix      string `json:"score_prefix" yaml:"score_prefix"`
	ScoreOverlap     int    `json:"score_overlap" yaml:"score_overlap"`
	ComboPrefix      string `json:"combo_prefix" yaml:"combo_prefix"`
	ComboOverlap     int    `json:"combo_overlap" yaml:"combo_overlap"`
}

// MaxCombos is the number of combo colour slots.
const MaxCombos = 8

// Slider styles.
const (
	SliderStyleSegmented = 1
	SliderStyleGradient  = 2
)

// Default returns the values the game assumes for a skin.ini with no keys.
func Default() *Skin {
	return &Skin{
		General: General{
			Version:                     "latest",
			SliderBallFlip:              true,
			CursorRotate:                true,
			CursorTrailRotate:           true,
			CursorExpand:                true,
			CursorCentre:                true,
			SliderBallFrames:            10,
			HitCircleOverlayAboveNumber: true,
			SliderStyle:                 SliderStyleGradient,
		},
		Fonts: Fonts{
			HitCirclePrefix:  "default",
			HitCircleOverlap: -2,
			ScorePrefix:      "score",
			ComboPrefix:      "score",
		},
	}
}
