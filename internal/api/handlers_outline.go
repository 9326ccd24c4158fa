package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pyoutline/internal/doctree"
	"github.com/dgallion1/pyoutline/internal/parser"
	"github.com/dgallion1/pyoutline/internal/pipeline"
	"github.com/dgallion1/pyoutline/internal/render"
)

// handleOutline parses one uploaded file and returns its outline immediately.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format := r.FormValue("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "html" && format != "text" {
		jsonError(w, fmt.Sprintf("unsupported format: %q", format), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}
	header := headers[0]

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, status, err := s.readUpload(header)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	file, err := s.orchestrator.Outline(filename, data)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	forest := doctree.NewForest()
	forest.Add(file.Path, file.Nodes)

	w.Header().Set("ETag", `"`+pipeline.ContentHashHex(data)[:16]+`"`)
	switch format {
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = render.WriteHTML(w, forest, render.HTMLOptions{Title: s.cfg.Title, Markdown: s.cfg.MarkdownDescriptions})
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = render.NewConsole(w, false).RenderFile(file)
	default:
		w.Header().Set("Content-Type", "application/json")
		err = render.WriteJSON(w, forest)
	}
	if err != nil {
		s.log.Error("render outline", "filename", filename, "format", format, "error", err)
	}
}

// handleSubmitJob queues a batch of files for parsing and publishing.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	project := r.FormValue("project")
	if project == "" {
		project = s.cfg.PathstoreProject
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var uploads []pipeline.Upload
	var rejected []map[string]any
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			rejected = append(rejected, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}
		data, _, err := s.readUpload(fh)
		if err != nil {
			rejected = append(rejected, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}
		uploads = append(uploads, pipeline.Upload{Filename: filename, Data: data})
	}
	if len(uploads) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "no supported files", "rejected": rejected})
		return
	}

	job := pipeline.NewJob(project, uploads)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"project":  job.Project,
		"status":   pipeline.StatusQueued,
		"files":    len(uploads),
		"rejected": rejected,
		"poll_url": fmt.Sprintf("/api/outline/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":   snap.ID,
		"project":  snap.Project,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	}
	if snap.Status.Terminal() {
		if forest := job.Forest(); forest != nil {
			resp["files"] = forest.Files()
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// readUpload reads a multipart file, enforcing the upload size limit.
func (s *Server) readUpload(fh *multipart.FileHeader) ([]byte, int, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, http.StatusOK, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
