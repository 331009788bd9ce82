// Package templates resolves and renders the static resources used by the
// report widgets: HTML fragments with named slots and the bundled stylesheets.
package templates

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// Resource names known to the widget builder
const (
	CardTemplate     = "card.tmpl"
	RowTemplate      = "row.tmpl"
	ReportTemplate   = "report.tmpl"
	CardStylesheet   = "style.css"
	ReportStylesheet = "report.css"
)

//go:embed assets/*.tmpl assets/*.css
var assetsFS embed.FS

// Loader resolves a resource name to its text
type Loader interface {
	Load(ctx context.Context, name string) (string, error)
}

// FSLoader reads resources from a filesystem
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader creates a loader over fsys
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// Default returns a loader over the resources bundled with the binary
func Default() *FSLoader {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		// assets/ is fixed at compile time
		panic(fmt.Sprintf("templates: embedded assets missing: %v", err))
	}
	return NewFSLoader(sub)
}

// NewDirLoader creates a loader reading from baseDir on disk
func NewDirLoader(baseDir string) *FSLoader {
	return NewFSLoader(os.DirFS(baseDir))
}

// Load reads the named resource. A missing resource yields an error
// wrapping fs.ErrNotExist.
func (l *FSLoader) Load(_ context.Context, name string) (string, error) {
	clean := path.Clean(name)
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("invalid resource name %q: %w", name, fs.ErrInvalid)
	}
	content, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		return "", fmt.Errorf("failed to load resource %s: %w", name, err)
	}
	return string(content), nil
}
