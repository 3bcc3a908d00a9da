// Package web renders server-side pages from embedded Go templates.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
)

// ViewDef defines a page with its route, template file, and title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData contains the data passed to page templates during rendering.
type ViewData struct {
	Title string
	Data  any
}

// TemplateSet holds pre-parsed templates keyed by view file.
type TemplateSet struct {
	views map[string]*template.Template
}

// NewTemplateSet parses the layouts matched by layoutGlob once, then clones
// them for each view found under viewDir. All parsing happens here so a bad
// template fails at startup.
func NewTemplateSet(fsys fs.FS, layoutGlob, viewDir string, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	set := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(fsys, path.Join(viewDir, v.Template)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", v.Template, err)
		}
		set[v.Template] = t
	}

	return &TemplateSet{views: set}, nil
}

// View builds the ViewData for view carrying data.
func (ts *TemplateSet) View(view ViewDef, data any) ViewData {
	return ViewData{
		Title: view.Title,
		Data:  data,
	}
}

// ErrorHandler returns an HTTP handler that renders view with the given status code.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ts.render(w, status, layout, view.Template, ts.View(view, nil)); err != nil {
			http.Error(w, http.StatusText(status), status)
		}
	}
}

// Render executes the named layout template for viewPath and writes it with
// a 200 status.
func (ts *TemplateSet) Render(w http.ResponseWriter, layout, viewPath string, data ViewData) error {
	return ts.render(w, http.StatusOK, layout, viewPath, data)
}

// render executes into a buffer first so a template error never leaves a
// partial page behind a success status.
func (ts *TemplateSet) render(w http.ResponseWriter, status int, layout, viewPath string, data ViewData) error {
	t, ok := ts.views[viewPath]
	if !ok {
		return fmt.Errorf("template not found: %s", viewPath)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
		return fmt.Errorf("render %s: %w", viewPath, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
