// Package web holds the console's embedded templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/stemsi/records-admin/internal/format"
	"github.com/stemsi/records-admin/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Version is shown on the dashboard.
const Version = "1.0.0"

// Standalone pages are rendered without the layout.
var standalone = map[string]bool{
	"transcript_print": true,
}

// Renderer implements gin's render.HTMLRender. Every page is parsed into its
// own set together with the layout so that each can define "content".
type Renderer struct {
	pages map[string]*template.Template
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"grade":    format.Grade,
		"score":    format.Score,
		"gpa":      format.GPA,
		"phone":    format.PhoneNumber,
		"fullName": format.FullName,
		"date": func(v string) string {
			return format.Date(v, format.LayoutUS)
		},
		"studentName": func(g model.Grade) string {
			if g.Student == nil {
				return ""
			}
			return format.FullName(g.Student.FirstName, g.Student.LastName)
		},
		"courseName": func(g model.Grade) string {
			if g.Course == nil || g.Course.Name == "" {
				return "N/A"
			}
			return g.Course.Name
		},
		"credits": func(g model.Grade) string {
			if c := g.Credits(); c > 0 {
				return fmt.Sprint(c)
			}
			return "N/A"
		},
		"millis": func(d time.Duration) int64 { return d.Milliseconds() },
		"refreshSeconds": func(d time.Duration) int {
			return int(math.Ceil(d.Seconds()))
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"now": func() string { return time.Now().Format("01/02/2006 15:04:05") },
	}
}

// NewRenderer parses every page template.
func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, path := range names {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if name == "layout" || name == "partials" {
			continue
		}

		files := []string{path, "templates/partials.html"}
		if !standalone[name] {
			files = append([]string{"templates/layout.html"}, files...)
		}
		t, err := template.New(name).Funcs(Funcs()).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages["error"]
		data = map[string]any{"Title": "Error", "Nav": "", "Message": "Unknown page " + name}
		name = "error"
	}
	entry := "layout"
	if standalone[name] {
		entry = name
	}
	return render.HTML{Template: t, Name: entry, Data: data}
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Static returns the embedded assets for serving under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
