package web_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/tavern/pkg/web"
)

var pages = fstest.MapFS{
	"layouts/base.html": {Data: []byte(
		`{{ define "base" }}<title>{{ .Title }}</title><main>{{ block "content" . }}{{ end }}</main>{{ end }}`,
	)},
	"views/hello.html": {Data: []byte(
		`{{ define "content" }}<p>{{ .Data }}</p>{{ end }}`,
	)},
	"views/missing.html": {Data: []byte(
		`{{ define "content" }}gone{{ end }}`,
	)},
}

var (
	helloView   = web.ViewDef{Route: "/hello", Template: "hello.html", Title: "Hello"}
	missingView = web.ViewDef{Route: "/404", Template: "missing.html", Title: "Not Found"}
)

func newSet(t *testing.T) *web.TemplateSet {
	t.Helper()
	ts, err := web.NewTemplateSet(pages, "layouts/*.html", "views", []web.ViewDef{helloView, missingView})
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}
	return ts
}

func TestRender(t *testing.T) {
	ts := newSet(t)

	rec := httptest.NewRecorder()
	if err := ts.Render(rec, "base", helloView.Template, ts.View(helloView, "<b>hi</b>")); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<title>Hello</title>") {
		t.Errorf("title missing: %s", body)
	}
	if !strings.Contains(body, "&lt;b&gt;hi&lt;/b&gt;") {
		t.Errorf("data not escaped: %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderUnknownView(t *testing.T) {
	ts := newSet(t)

	rec := httptest.NewRecorder()
	if err := ts.Render(rec, "base", "nope.html", web.ViewData{}); err == nil {
		t.Error("Render(nope.html) succeeded, want error")
	}
	if rec.Body.Len() != 0 {
		t.Error("failed render wrote a body")
	}
}

func TestNewTemplateSetMissingView(t *testing.T) {
	_, err := web.NewTemplateSet(pages, "layouts/*.html", "views", []web.ViewDef{{Template: "absent.html"}})
	if err == nil {
		t.Error("NewTemplateSet() succeeded with a missing view")
	}
}

func TestRouterFallback(t *testing.T) {
	ts := newSet(t)

	r := web.NewRouter()
	r.HandleFunc("GET /known", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.SetFallback(ts.ErrorHandler("base", missingView, http.StatusNotFound))

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"registered", "/known", http.StatusOK, ""},
		{"fallback", "/unknown", http.StatusNotFound, "gone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body: got %s, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouterNoFallback(t *testing.T) {
	r := web.NewRouter()
	r.Handle("GET /known", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("no fallback: got %d, want 404", rec.Code)
	}
}
