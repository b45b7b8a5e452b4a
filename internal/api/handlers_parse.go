package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/output"
)

// handleParse extracts properties synchronously and renders them in the
// requested format (json by default).
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	format := output.JSON
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := output.ParseFormat(v)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	m, err := s.engine.ParseFile(filename, bytes.NewReader(data))
	if err != nil {
		log := s.log.With("filename", filename)
		if docparse.IsUnsupported(err) {
			log.Info("unsupported document", "error", err)
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Error("parse failed", "error", err)
		jsonError(w, "parse failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, format, m); err != nil {
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Write(buf.Bytes())
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	type layoutView struct {
		Name   string `json:"name"`
		Window any    `json:"window,omitempty"`
		Fields any    `json:"fields"`
	}
	layouts := s.engine.Layouts()
	views := make([]layoutView, 0, len(layouts))
	for _, l := range layouts {
		v := layoutView{Name: l.Name, Fields: l.Table()}
		if l.Window != nil {
			v.Window = l.Window
		}
		views = append(views, v)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"layouts": views})
}

func (s *Server) handleParseStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.orchestrator.Stats(),
	})
}

// readUpload reads the multipart "file" field. On failure it has already
// written the error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	data, err := s.readLimited(file)
	if err != nil {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return filename, data, true
}

func (s *Server) readLimited(f multipart.File) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, nil
}

func contentType(f output.Format) string {
	switch f {
	case output.Text:
		return "text/plain; charset=utf-8"
	case output.XML:
		return "application/xml"
	}
	return "application/json"
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
