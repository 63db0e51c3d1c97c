package skinini

import (
	"strconv"
	"strings"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
)

// NormalizeColour validates an "r,g,b" string (0-255 each, spaces allowed)
// and returns it without spaces. A fourth alpha component is accepted and
// dropped, since the game ignores it for these keys.
func NormalizeColour(v string) (string, bool) {
	parts := strings.Split(v, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return "", false
	}
	out := make([]string, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return "", false
		}
		out[i] = strconv.Itoa(n)
	}
	return strings.Join(out, ","), true
}

// ComboCount is the highest-numbered non-empty combo slot. Gaps below it
// still count.
func (s *Skin) ComboCount() int {
	for i := MaxCombos - 1; i >= 0; i-- {
		if s.Colours.Combo[i] != "" {
			return i + 1
		}
	}
	return 0
}

// SetCombo sets slot n (1-based). An empty value clears the slot in place.
func (s *Skin) SetCombo(n int, v string) error {
	if n < 1 || n > MaxCombos {
		return apperr.Invalid("combo slot must be between 1 and %d", MaxCombos)
	}
	if v == "" {
		s.Colours.Combo[n-1] = ""
		return nil
	}
	c, ok := NormalizeColour(v)
	if !ok {
		return apperr.Invalid("invalid colour %q, expected r,g,b", v)
	}
	s.Colours.Combo[n-1] = c
	return nil
}

// AddCombo fills the slot after the last active one.
func (s *Skin) AddCombo(v string) (int, error) {
	n := s.ComboCount() + 1
	if n > MaxCombos {
		return 0, apperr.Invalid("all %d combo colours are already set", MaxCombos)
	}
	if v == "" {
		return 0, apperr.Invalid("colour is required")
	}
	return n, s.SetCombo(n, v)
}

// RemoveCombo clears slot n and shifts the slots above it down so no gap
// is left behind.
func (s *Skin) RemoveCombo(n int) error {
	if n < 1 || n > MaxCombos {
		return apperr.Invalid("combo slot must be between 1 and %d", MaxCombos)
	}
	for i := n - 1; i < MaxCombos-1; i++ {
		s.Colours.Combo[i] = s.Colours.Combo[i+1]
	}
	s.Colours.Combo[MaxCombos-1] = ""
	return nil
}

// Set assigns a field by section and key, accepting the same spellings as
// Parse but rejecting values Parse would silently drop.
func (s *Skin) Set(sectionName, key, value string) error {
	f, ok := lookup(sectionName, key)
	if !ok {
		return apperr.Invalid("unknown key %s.%s", sectionName, key)
	}
	value = strings.TrimSpace(value)
	if strings.ContainsAny(value, "\r\n") {
		return apperr.Invalid("%s must fit on one line", f.key)
	}
	switch p := f.ptr(s).(type) {
	case *string:
		if f.colour && value != "" {
			c, ok := NormalizeColour(value)
			if !ok {
				return apperr.Invalid("invalid colour %q, expected r,g,b", value)
			}
			value = c
		}
		*p = value
	case *bool:
		switch strings.ToLower(value) {
		case "1", "true", "yes", "on":
			*p = true
		case "0", "false", "no", "off":
			*p = false
		default:
			return apperr.Invalid("%s expects a boolean, got %q", f.key, value)
		}
	case *int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return apperr.Invalid("%s expects a number, got %q", f.key, value)
		}
		*p = n
	}
	return nil
}

// Validate rejects text fields that would not fit on one skin.ini line.
func (s *Skin) Validate() error {
	for si := range sections {
		sec := &sections[si]
		for fi := range sec.fields {
			f := &sec.fields[fi]
			if p, ok := f.ptr(s).(*string); ok && strings.ContainsAny(*p, "\r\n") {
				return apperr.Invalid("%s.%s must fit on one line", sec.name, f.key)
			}
		}
	}
	return nil
}

// Get returns the generated text value of a field.
func (s *Skin) Get(sectionName, key string) (string, error) {
	f, ok := lookup(sectionName, key)
	if !ok {
		return "", apperr.Invalid("unknown key %s.%s", sectionName, key)
	}
	return format(s, f), nil
}

// Keys lists "Section.Key" for every canonical field, in generate order.
func Keys() []string {
	var keys []string
	for _, sec := range sections {
		for _, f := range sec.fields {
			keys = append(keys, sec.name+"."+f.key)
		}
	}
	return keys
}
