package oauth

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/tavern/pkg/middleware"
	"github.com/JaimeStill/tavern/pkg/module"
	"github.com/JaimeStill/tavern/pkg/routes"
	"github.com/JaimeStill/tavern/pkg/web"
)

//go:embed templates
var templateFS embed.FS

const layout = "base"

var (
	callbackView = web.ViewDef{Route: "/callback", Template: "callback.html", Title: "Signing in"}
	notFoundView = web.ViewDef{Route: "/404", Template: "not_found.html", Title: "Not Found"}
)

type page struct {
	Outcome
	TokenKey    string
	ProviderKey string
}

// Handler renders the callback page.
type Handler struct {
	pages  *web.TemplateSet
	logger *slog.Logger
}

// NewHandler parses the page templates.
func NewHandler(logger *slog.Logger) (*Handler, error) {
	pages, err := web.NewTemplateSet(
		templateFS,
		"templates/layouts/*.html",
		"templates/views",
		[]web.ViewDef{callbackView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	return &Handler{
		pages:  pages,
		logger: logger.With("system", "oauth"),
	}, nil
}

// Routes returns the handler's route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: callbackView.Route, Handler: h.Callback},
		},
	}
}

// NotFound renders the not-found page.
func (h *Handler) NotFound() http.HandlerFunc {
	return h.pages.ErrorHandler(layout, notFoundView, http.StatusNotFound)
}

// Callback renders the page that stores the token, if any, and redirects.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	outcome := Resolve(r.URL.Query())

	h.logger.Info(
		"oauth callback",
		"authenticated", outcome.Authenticated(),
		"provider", outcome.Provider,
		"error", outcome.Error,
		"redirect", outcome.Redirect,
	)

	data := page{
		Outcome:     outcome,
		TokenKey:    StorageToken,
		ProviderKey: StorageProvider,
	}

	if err := h.pages.Render(w, layout, callbackView.Template, h.pages.View(callbackView, data)); err != nil {
		h.logger.Error("render callback", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// NewModule mounts the callback page under prefix with request logging and
// no-store headers.
func NewModule(prefix string, logger *slog.Logger) (*module.Module, error) {
	h, err := NewHandler(logger)
	if err != nil {
		return nil, err
	}

	router := web.NewRouter()
	routes.Register(router, h.Routes())
	router.SetFallback(h.NotFound())

	m, err := module.New(prefix, router)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.Logger(logger.With("system", "http", "module", prefix)))
	m.Use(middleware.NoStore())

	return m, nil
}
