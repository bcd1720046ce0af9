// Package templates embeds the HTML pages. Each page is parsed together with
// base.html and rendered through its "base" template.
package templates

import (
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

//go:embed *.html
var files embed.FS

var pages = []string{
	"debt-history",
	"not-found",
}

func Load() (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("").Funcs(funcMap).ParseFS(files, "base.html", page+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse template %s", page)
		}
		parsed[page] = t
	}
	return parsed, nil
}
