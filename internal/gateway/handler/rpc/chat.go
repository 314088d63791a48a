package rpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"renohub/internal/chat"
	"renohub/internal/estimate"
)

type ChatHandler struct {
	dir         *chat.Directory
	transcripts *chat.Transcript
	book        *estimate.Book
}

func NewChatHandler(dir *chat.Directory, transcripts *chat.Transcript, book *estimate.Book) *ChatHandler {
	return &ChatHandler{dir: dir, transcripts: transcripts, book: book}
}

func (h *ChatHandler) ListChannels(_ context.Context, _ *connect.Request[ListChannelsRequest]) (*connect.Response[ListChannelsResponse], error) {
	return connect.NewResponse(&ListChannelsResponse{Groups: toChannelGroupViews(h.dir.Groups())}), nil
}

func (h *ChatHandler) GetHistory(_ context.Context, req *connect.Request[GetHistoryRequest]) (*connect.Response[GetHistoryResponse], error) {
	channelID := strings.TrimSpace(req.Msg.ChannelID)
	if channelID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("channel_id is required"))
	}
	if _, ok := h.dir.Channel(channelID); !ok {
		return nil, toConnectError(chat.ErrUnknownChannel)
	}
	return connect.NewResponse(&GetHistoryResponse{
		ChannelID: channelID,
		Messages:  h.transcripts.Messages(channelID),
	}), nil
}

func (h *ChatHandler) GetChannelEstimate(_ context.Context, req *connect.Request[GetChannelEstimateRequest]) (*connect.Response[GetChannelEstimateResponse], error) {
	channelID := strings.TrimSpace(req.Msg.ChannelID)
	ch, ok := h.dir.Channel(channelID)
	if !ok {
		return nil, toConnectError(chat.ErrUnknownChannel)
	}
	out := &GetChannelEstimateResponse{ChannelID: ch.ID}
	if ch.EstimateID == "" {
		return connect.NewResponse(out), nil
	}
	item, ok := h.book.Item(ch.EstimateID)
	if !ok {
		return connect.NewResponse(out), nil
	}
	state, selected, err := estimate.Classify(item)
	if err != nil {
		return nil, toConnectError(err)
	}
	view := EstimateItemView{EstimateItem: item, CategoryLabel: item.Category.Label(), State: state}
	if selected != nil {
		if d, ok := estimate.Delta(selected.Amount, item.AIEstimate); ok {
			view.Delta = &d
		}
	}
	out.Item = &view
	for i := range item.VendorQuotes {
		if item.VendorQuotes[i].VendorName == ch.VendorName {
			q := item.VendorQuotes[i]
			out.Quote = &q
			break
		}
	}
	return connect.NewResponse(out), nil
}

func NewChatServiceHandler(h *ChatHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ChatServiceListChannelsProcedure, connect.NewUnaryHandler(ChatServiceListChannelsProcedure, h.ListChannels, opts...))
	mux.Handle(ChatServiceGetHistoryProcedure, connect.NewUnaryHandler(ChatServiceGetHistoryProcedure, h.GetHistory, opts...))
	mux.Handle(ChatServiceGetChannelEstimateProcedure, connect.NewUnaryHandler(ChatServiceGetChannelEstimateProcedure, h.GetChannelEstimate, opts...))
	return "/" + ChatServiceName + "/", mux
}
