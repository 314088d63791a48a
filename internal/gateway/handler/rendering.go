package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"renohub/internal/gateway/repository/rendering"
)

// RenderingHandler serves stored rendering bytes at
// /renderings/{project}/{id}.
type RenderingHandler struct {
	store rendering.Store
	log   zerolog.Logger
}

func NewRenderingHandler(store rendering.Store, log zerolog.Logger) *RenderingHandler {
	return &RenderingHandler{store: store, log: log}
}

func (h *RenderingHandler) HandleRendering(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	projectID := strings.TrimSpace(r.PathValue("project"))
	id := strings.TrimSpace(r.PathValue("id"))
	if projectID == "" || id == "" {
		http.Error(w, "project and id are required", http.StatusBadRequest)
		return
	}

	meta, data, err := h.store.Get(r.Context(), projectID, id)
	if errors.Is(err, rendering.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("project", projectID).Str("rendering", id).Msg("read rendering failed")
		http.Error(w, "failed to read rendering", http.StatusInternalServerError)
		return
	}

	mimeType := meta.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
