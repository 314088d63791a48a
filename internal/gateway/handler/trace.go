package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// TraceHandler forwards frontend trace events into the gateway log.
type TraceHandler struct {
	log zerolog.Logger
}

func NewTraceHandler(log zerolog.Logger) *TraceHandler {
	return &TraceHandler{log: log.With().Str("source", "frontend").Logger()}
}

const maxTraceBody = 64 << 10

func (h *TraceHandler) HandleFrontendTrace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Timestamp string         `json:"timestamp"`
		Stage     string         `json:"stage"`
		Level     string         `json:"level"`
		ProjectID string         `json:"projectId"`
		ChannelID string         `json:"channelId"`
		Fields    map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTraceBody)).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	stage := strings.TrimSpace(in.Stage)
	if stage == "" {
		http.Error(w, "stage is required", http.StatusBadRequest)
		return
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(in.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	ev := h.log.WithLevel(level).Str("stage", stage)
	if v := strings.TrimSpace(in.ProjectID); v != "" {
		ev = ev.Str("project", v)
	}
	if v := strings.TrimSpace(in.ChannelID); v != "" {
		ev = ev.Str("channel", v)
	}
	if ts := strings.TrimSpace(in.Timestamp); ts != "" {
		ev = ev.Str("frontend_timestamp", ts)
	}
	ev.Fields(in.Fields).Msg("frontend trace")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok": true,
	})
}
