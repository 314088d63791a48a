package server

import (
	"net/http"

	"connectrpc.com/connect"

	"renohub/internal/gateway/handler"
	"renohub/internal/gateway/handler/rpc"
	"renohub/internal/gateway/middleware"
)

// Handlers groups everything NewMux mounts.
type Handlers struct {
	Project   *rpc.ProjectHandler
	Estimate  *rpc.EstimateHandler
	Image     *rpc.ImageHandler
	Chat      *rpc.ChatHandler
	Scan      *rpc.ScanHandler
	ChatWS    *rpc.ChatStreamHandler
	Rendering *handler.RenderingHandler
	Trace     *handler.TraceHandler
	Metrics   http.Handler
}

func NewMux(h Handlers, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	opts := []connect.HandlerOption{rpc.Codec()}

	// RPC Handlers
	mux.Handle(rpc.NewProjectServiceHandler(h.Project, opts...))
	mux.Handle(rpc.NewEstimateServiceHandler(h.Estimate, opts...))
	mux.Handle(rpc.NewImageServiceHandler(h.Image, opts...))
	mux.Handle(rpc.NewChatServiceHandler(h.Chat, opts...))
	mux.Handle(rpc.NewScanServiceHandler(h.Scan, opts...))

	// Streaming chat
	mux.HandleFunc("/ws/chat", h.ChatWS.HandleChatWS)

	mux.HandleFunc("GET /renderings/{project}/{id}", h.Rendering.HandleRendering)

	// Ops
	mux.HandleFunc("/healthz", handler.HandleHealth)
	if h.Metrics != nil {
		mux.Handle("/metrics", h.Metrics)
	}
	mux.HandleFunc("/debug/frontend-trace", h.Trace.HandleFrontendTrace)

	return middleware.CORS(corsOrigins, mux)
}
