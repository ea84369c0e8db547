package pages

import (
	"embed"
	"errors"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	EventsTemplate        = "events.tmpl"
	OpportunitiesTemplate = "opportunities.tmpl"
)

var funcs = template.FuncMap{"dict": dict}

// Templates parses the embedded page templates; gin serves them via SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

var tmpl = Templates()

func Render(w io.Writer, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict needs key/value pairs")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
