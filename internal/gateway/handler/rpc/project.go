package rpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"

	"renohub/internal/gateway/repository/projectstore"
)

// ProjectMetrics counts project creations.
type ProjectMetrics interface {
	ProjectCreated()
}

type ProjectHandler struct {
	store   projectstore.Store
	metrics ProjectMetrics
	log     zerolog.Logger
}

func NewProjectHandler(store projectstore.Store, metrics ProjectMetrics, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{store: store, metrics: metrics, log: log.With().Str("component", "project_rpc").Logger()}
}

func (h *ProjectHandler) ListProjects(ctx context.Context, _ *connect.Request[ListProjectsRequest]) (*connect.Response[ListProjectsResponse], error) {
	projects, err := h.store.List(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListProjectsResponse{Projects: toProjectViews(projects)}), nil
}

func (h *ProjectHandler) CreateProject(ctx context.Context, req *connect.Request[CreateProjectRequest]) (*connect.Response[CreateProjectResponse], error) {
	projects, err := h.store.Create(ctx, projectstore.CreateInput{
		Name:       req.Msg.Name,
		ClientName: req.Msg.ClientName,
		Address:    req.Msg.Address,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	if h.metrics != nil {
		h.metrics.ProjectCreated()
	}
	created := projects[0]
	h.log.Info().Str("project", created.ID).Str("name", created.Name).Msg("project created")
	return connect.NewResponse(&CreateProjectResponse{
		Project:  toProjectView(created),
		Projects: toProjectViews(projects),
	}), nil
}

func (h *ProjectHandler) GetProject(ctx context.Context, req *connect.Request[GetProjectRequest]) (*connect.Response[GetProjectResponse], error) {
	projectID := strings.TrimSpace(req.Msg.ProjectID)
	if projectID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("project_id is required"))
	}
	p, err := h.store.Get(ctx, projectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetProjectResponse{Project: toProjectView(p)}), nil
}

func (h *ProjectHandler) GetStats(ctx context.Context, _ *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error) {
	st, err := h.store.Stats(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetStatsResponse{Stats: st}), nil
}

// NewProjectServiceHandler mounts every ProjectService procedure under
// one path prefix.
func NewProjectServiceHandler(h *ProjectHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ProjectServiceListProjectsProcedure, connect.NewUnaryHandler(ProjectServiceListProjectsProcedure, h.ListProjects, opts...))
	mux.Handle(ProjectServiceCreateProjectProcedure, connect.NewUnaryHandler(ProjectServiceCreateProjectProcedure, h.CreateProject, opts...))
	mux.Handle(ProjectServiceGetProjectProcedure, connect.NewUnaryHandler(ProjectServiceGetProjectProcedure, h.GetProject, opts...))
	mux.Handle(ProjectServiceGetStatsProcedure, connect.NewUnaryHandler(ProjectServiceGetStatsProcedure, h.GetStats, opts...))
	return "/" + ProjectServiceName + "/", mux
}
