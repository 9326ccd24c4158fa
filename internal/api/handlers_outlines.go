package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/pyoutline/internal/pathstore"
)

func (s *Server) project(r *http.Request) string {
	if p := r.URL.Query().Get("project"); p != "" {
		return p
	}
	return s.cfg.PathstoreProject
}

// handleListOutlines lists the entries published for a project.
func (s *Server) handleListOutlines(w http.ResponseWriter, r *http.Request) {
	pub := s.orchestrator.Publisher()
	if pub == nil {
		jsonError(w, "publishing is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	project := s.project(r)
	children, err := pub.List(r.Context(), project, limit)
	if err != nil {
		jsonError(w, "failed to list outlines: "+err.Error(), http.StatusBadGateway)
		return
	}

	entries := make([]map[string]any, 0, len(children))
	for _, child := range children {
		entries = append(entries, map[string]any{
			"key":   child.Key,
			"value": child.Value,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"project": project,
		"entries": entries,
	})
}

// handleDeleteOutline removes everything published for one file.
func (s *Server) handleDeleteOutline(w http.ResponseWriter, r *http.Request) {
	pub := s.orchestrator.Publisher()
	if pub == nil {
		jsonError(w, "publishing is not configured", http.StatusServiceUnavailable)
		return
	}
	file := r.URL.Query().Get("file")
	if file == "" {
		jsonError(w, "file query parameter is required", http.StatusBadRequest)
		return
	}

	project := s.project(r)
	if err := pub.ClearFile(r.Context(), project, file); err != nil {
		jsonError(w, "failed to delete outline: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"deleted": pathstore.FilePrefix(project, file),
	})
}
