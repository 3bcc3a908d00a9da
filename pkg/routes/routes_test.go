package routes_test

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/JaimeStill/tavern/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/items",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok},
			{Method: "GET", Pattern: "/{id}", Handler: ok},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list items", "GET", "/items", http.StatusOK},
		{"get item", "GET", "/items/123", http.StatusOK},
		{"wrong method", "POST", "/items", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/auth",
		Children: []routes.Group{
			{
				Prefix: "/v1",
				Routes: []routes.Route{{Method: "GET", Pattern: "/callback", Handler: ok}},
			},
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/v1/callback", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want 200", rec.Code)
	}
}

func TestPatterns(t *testing.T) {
	got := routes.Patterns(
		routes.Group{
			Routes: []routes.Route{{Method: "get", Pattern: "/callback", Handler: ok}},
		},
		routes.Group{
			Prefix:   "/auth",
			Routes:   []routes.Route{{Method: "GET", Handler: ok}},
			Children: []routes.Group{{Prefix: "/v1", Routes: []routes.Route{{Pattern: "/x", Handler: ok}}}},
		},
	)

	want := []string{"GET /callback", "GET /auth", "/auth/v1/x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Patterns() = %v, want %v", got, want)
	}
}
