package api

import (
	"html/template"
	"io/fs"
)

// LoadTemplates parses the layouts and pages found in fsys. Pages define
// templates named after their path, e.g. "pages/home.html".
func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	t := template.New("base").Funcs(funcs)

	patterns := []string{
		"templates/layouts/*.html",
		"templates/pages/*.html",
	}
	for _, p := range patterns {
		if matches, _ := fs.Glob(fsys, p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, err
		}
	}

	return t, nil
}
