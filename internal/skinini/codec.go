package skinini

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Filename is the skin configuration file inside a skin folder.
const Filename = "skin.ini"

var sectionLine = regexp.MustCompile(`^\[(\w+)\]$`)

// Parse reads skin.ini text. Fields not present keep their Default values,
// except colours, which stay empty so absence can be told apart from an
// explicit colour.
func Parse(text string) (*Skin, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		KeyValueDelimiters:      ":",
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
		SkipUnrecognizableLines: true,
	}, []byte(sanitize(text)))
	if err != nil {
		return nil, fmt.Errorf("tokenizing skin.ini: %w", err)
	}

	s := Default()
	for _, sec := range f.Sections() {
		for _, key := range sec.Keys() {
			fld, ok := lookup(sec.Name(), key.Name())
			if !ok {
				continue
			}
			assign(s, fld, strings.TrimSpace(key.Value()))
		}
	}
	return s, nil
}

// sanitize applies the line rules of the format before tokenizing: comments
// and blank lines go, only well-formed [Section] headers survive, and
// every other line must have a non-empty key before its first colon. Keys
// split on the first colon; the rest of the line is the raw value.
func sanitize(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "["):
			if !sectionLine.MatchString(line) {
				continue
			}
		case strings.HasPrefix(line, `"`), strings.HasPrefix(line, "`"):
			// Quoted keys are never valid skin.ini keys.
			continue
		default:
			key, value, ok := strings.Cut(line, ":")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				continue
			}
			// ini.v1 returns a backtick-quoted value verbatim up to the last
			// backtick, so no value can open a quote or multi-line block.
			line = key + ": `" + strings.TrimSpace(value) + "`"
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func assign(s *Skin, f *field, v string) {
	switch p := f.ptr(s).(type) {
	case *string:
		if f.colour {
			c, ok := NormalizeColour(v)
			if !ok {
				c = ""
			}
			*p = c
			return
		}
		*p = v
	case *bool:
		*p = parseBool(v)
	case *int:
		if n, err := strconv.Atoi(v); err == nil {
			*p = n
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func format(s *Skin, f *field) string {
	switch p := f.ptr(s).(type) {
	case *string:
		return stripLineBreaks(*p)
	case *bool:
		if *p {
			return "1"
		}
		return "0"
	case *int:
		return strconv.Itoa(*p)
	}
	return ""
}

// stripLineBreaks keeps a value on its own line.
func stripLineBreaks(v string) string {
	if !strings.ContainsAny(v, "\r\n") {
		return v
	}
	return strings.TrimSpace(lineBreaks.Replace(v))
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Generate renders s as skin.ini text. Combo lines are written only for
// non-empty slots; every other key is always written.
func Generate(s *Skin) string {
	var b strings.Builder
	for i, sec := range sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s]\n", sec.name)
		for fi := range sec.fields {
			f := &sec.fields[fi]
			v := format(s, f)
			if f.combo && v == "" {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", f.key, v)
		}
	}
	return b.String()
}

// Load reads <dir>/skin.ini. A missing file yields Default.
func Load(dir string) (*Skin, error) {
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading skin.ini: %w", err)
	}
	return Parse(string(data))
}

// Save replaces <dir>/skin.ini with the generated text.
func Save(dir string, s *Skin) error {
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte(Generate(s)), 0o644); err != nil {
		return fmt.Errorf("writing skin.ini: %w", err)
	}
	return nil
}
