package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/tavern/internal/infrastructure"
	"github.com/JaimeStill/tavern/internal/oauth"
	"github.com/JaimeStill/tavern/pkg/module"
)

const authPrefix = "/auth"

// Modules holds the mounted page modules.
type Modules struct {
	Auth *module.Module
}

// NewModules builds every module the page host serves.
func NewModules(infra *infrastructure.Infrastructure) (*Modules, error) {
	auth, err := oauth.NewModule(authPrefix, infra.Logger)
	if err != nil {
		return nil, err
	}

	return &Modules{Auth: auth}, nil
}

// Mount registers the modules on router.
func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.Auth)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})

	return router
}
