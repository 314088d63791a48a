package rpc

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"renohub/internal/domain"
	"renohub/internal/gateway/repository/rendering"
	"renohub/internal/imagegen"
)

// RenderingTimeLayout is fixed-width so timestamps sort lexically.
const RenderingTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type ImageHandler struct {
	svc   *imagegen.Service
	store rendering.Store
	now   func() time.Time
	log   zerolog.Logger
}

func NewImageHandler(svc *imagegen.Service, store rendering.Store, now func() time.Time, log zerolog.Logger) *ImageHandler {
	if now == nil {
		now = time.Now
	}
	return &ImageHandler{svc: svc, store: store, now: now, log: log.With().Str("component", "image_rpc").Logger()}
}

func (h *ImageHandler) GenerateImage(ctx context.Context, req *connect.Request[GenerateImageRequest]) (*connect.Response[ImageResponse], error) {
	size, err := domain.ParseImageSize(req.Msg.Size)
	if err != nil {
		size = domain.ImageSize(req.Msg.Size)
	}
	img, err := h.svc.Generate(ctx, req.Msg.Prompt, size)
	if err != nil {
		return nil, toConnectError(err)
	}
	return h.respond(ctx, img, req.Msg.ProjectID, req.Msg.Prompt, string(size))
}

func (h *ImageHandler) EditImage(ctx context.Context, req *connect.Request[EditImageRequest]) (*connect.Response[ImageResponse], error) {
	img, err := h.svc.Edit(ctx, req.Msg.SourceDataURL, req.Msg.Instruction)
	if err != nil {
		return nil, toConnectError(err)
	}
	return h.respond(ctx, img, req.Msg.ProjectID, req.Msg.Instruction, string(domain.ImageSize1K))
}

// respond keeps a successful image as a rendering of the project. A store
// failure is logged; the caller still gets the image.
func (h *ImageHandler) respond(ctx context.Context, img *imagegen.Image, projectID, prompt, size string) (*connect.Response[ImageResponse], error) {
	if img == nil {
		return connect.NewResponse(&ImageResponse{Empty: true}), nil
	}
	out := &ImageResponse{DataURL: img.DataURL(), MIMEType: img.MIMEType}

	meta := domain.Rendering{
		ID:        uuid.NewString(),
		ProjectID: rendering.NormalizeProject(projectID),
		Prompt:    strings.TrimSpace(prompt),
		MIMEType:  img.MIMEType,
		Size:      size,
		CreatedAt: h.now().UTC().Format(RenderingTimeLayout),
	}
	if err := h.store.Put(ctx, meta, img.Data); err != nil {
		h.log.Warn().Err(err).Str("project", meta.ProjectID).Msg("store rendering failed")
	} else {
		out.Rendering = &meta
	}
	return connect.NewResponse(out), nil
}

func (h *ImageHandler) ListRenderings(ctx context.Context, req *connect.Request[ListRenderingsRequest]) (*connect.Response[ListRenderingsResponse], error) {
	list, err := h.store.List(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := &ListRenderingsResponse{Renderings: make([]RenderingView, 0, len(list))}
	for _, r := range list {
		out.Renderings = append(out.Renderings, RenderingView{Rendering: r, URL: RenderingURL(r.ProjectID, r.ID)})
	}
	return connect.NewResponse(out), nil
}

// RenderingURL is the gateway path serving a stored rendering's bytes.
func RenderingURL(projectID, id string) string {
	return "/renderings/" + url.PathEscape(projectID) + "/" + url.PathEscape(id)
}

func NewImageServiceHandler(h *ImageHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ImageServiceGenerateImageProcedure, connect.NewUnaryHandler(ImageServiceGenerateImageProcedure, h.GenerateImage, opts...))
	mux.Handle(ImageServiceEditImageProcedure, connect.NewUnaryHandler(ImageServiceEditImageProcedure, h.EditImage, opts...))
	mux.Handle(ImageServiceListRenderingsProcedure, connect.NewUnaryHandler(ImageServiceListRenderingsProcedure, h.ListRenderings, opts...))
	return "/" + ImageServiceName + "/", mux
}
