package seed

import (
	"embed"
	"io/fs"
)

// BundleVersion identifies the bundled preset set. Bump it when the files
// under bundled/ change so existing installs merge the new presets.
const BundleVersion = "2026.1"

// bundled holds the presets shipped with the binary, laid out as
// cursor/ cursor-trail/ circle/ circle-overlay/ digits/<name>/ hitsounds/<name>/.
//
//go:embed all:bundled
var bundled embed.FS

// Bundled returns the shipped presets rooted at the category directories.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "bundled")
	if err != nil {
		panic(err)
	}
	return sub
}
