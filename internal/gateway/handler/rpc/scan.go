package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"renohub/internal/gateway/repository/projectstore"
	"renohub/internal/scan"
)

type ScanHandler struct {
	sim      scan.Simulator
	projects projectstore.Store
}

func NewScanHandler(sim scan.Simulator, projects projectstore.Store) *ScanHandler {
	return &ScanHandler{sim: sim, projects: projects}
}

// StartScan streams simulated scan progress until 100%. Closing the stream
// stops the simulation.
func (h *ScanHandler) StartScan(ctx context.Context, req *connect.Request[StartScanRequest], stream *connect.ServerStream[ScanProgress]) error {
	projectID := strings.TrimSpace(req.Msg.ProjectID)
	if projectID == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("project_id is required"))
	}
	if _, err := h.projects.Get(ctx, projectID); err != nil {
		return toConnectError(err)
	}
	err := h.sim.Run(ctx, func(percent int) error {
		return stream.Send(&ScanProgress{ProjectID: projectID, Percent: percent, Done: percent >= scan.Complete})
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func NewScanServiceHandler(h *ScanHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ScanServiceStartScanProcedure, connect.NewServerStreamHandler(ScanServiceStartScanProcedure, h.StartScan, opts...))
	return "/" + ScanServiceName + "/", mux
}
