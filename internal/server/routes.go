package server

import (
	"net/http"

	"github.com/bobmcallan/papergate/internal/common"
)

// registerRoutes sets up all routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/version", s.handleVersion)

	// Auth
	mux.HandleFunc("/auth/token", s.handleAuthToken)

	// Protected operations
	mux.HandleFunc("/translate", s.handleTranslate)
	mux.HandleFunc("/question", s.handleQuestion)
	mux.HandleFunc("/extract", s.handleExtract)
}

// handleRoot responds to GET / with a service banner.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Papergate API",
		"status":  "running",
		"version": common.GetVersion(),
	})
}

// handleHealth reports liveness and the number of active tokens, for
// operational visibility.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"active_tokens": s.app.Auth.ActiveTokens(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
