package email

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// loadTemplates parses every page template together with the shared layout.
// Each page defines a "subject" and a "content" block; the map key is the
// file name without extension, which matches the notification template name.
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	layout, err := template.ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email layout: %w", err)
	}

	pages, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == layoutFile {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(fsys, page); err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", page, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), ".html")
		out[name] = t
	}
	return out, nil
}
