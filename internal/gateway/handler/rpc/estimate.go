package rpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"

	"renohub/internal/domain"
	"renohub/internal/estimate"
	"renohub/internal/gateway/repository/projectstore"
)

type QuoteMetrics interface {
	QuoteSelected()
}

type EstimateHandler struct {
	book     *estimate.Book
	projects projectstore.Store
	metrics  QuoteMetrics
	log      zerolog.Logger
}

func NewEstimateHandler(book *estimate.Book, projects projectstore.Store, metrics QuoteMetrics, log zerolog.Logger) *EstimateHandler {
	return &EstimateHandler{book: book, projects: projects, metrics: metrics, log: log.With().Str("component", "estimate_rpc").Logger()}
}

// GetEstimate returns the project's estimate sheet with its totals. A known
// project without a sheet yields an empty estimate.
func (h *EstimateHandler) GetEstimate(ctx context.Context, req *connect.Request[GetEstimateRequest]) (*connect.Response[EstimateResponse], error) {
	projectID := strings.TrimSpace(req.Msg.ProjectID)
	if projectID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("project_id is required"))
	}
	if _, err := h.projects.Get(ctx, projectID); err != nil {
		return nil, toConnectError(err)
	}
	items, _ := h.book.Items(projectID)
	return h.respond(projectID, items)
}

func (h *EstimateHandler) SelectQuote(ctx context.Context, req *connect.Request[SelectQuoteRequest]) (*connect.Response[EstimateResponse], error) {
	projectID := strings.TrimSpace(req.Msg.ProjectID)
	itemID := strings.TrimSpace(req.Msg.ItemID)
	vendor := strings.TrimSpace(req.Msg.VendorName)
	if projectID == "" || itemID == "" || vendor == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("project_id, item_id and vendor_name are required"))
	}
	items, err := h.book.SelectQuote(projectID, itemID, vendor)
	if err != nil {
		return nil, toConnectError(err)
	}
	if h.metrics != nil {
		h.metrics.QuoteSelected()
	}
	h.log.Info().Str("project", projectID).Str("item", itemID).Str("vendor", vendor).Msg("quote selected")
	return h.respond(projectID, items)
}

func (h *EstimateHandler) respond(projectID string, items []domain.EstimateItem) (*connect.Response[EstimateResponse], error) {
	sum, err := estimate.Summarize(items)
	if err != nil {
		h.log.Error().Err(err).Str("project", projectID).Msg("estimate sheet failed integrity check")
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toEstimateResponse(projectID, items, sum)), nil
}

func NewEstimateServiceHandler(h *EstimateHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(EstimateServiceGetEstimateProcedure, connect.NewUnaryHandler(EstimateServiceGetEstimateProcedure, h.GetEstimate, opts...))
	mux.Handle(EstimateServiceSelectQuoteProcedure, connect.NewUnaryHandler(EstimateServiceSelectQuoteProcedure, h.SelectQuote, opts...))
	return "/" + EstimateServiceName + "/", mux
}
