package rpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"renohub/internal/chat"
	"renohub/internal/estimate"
	"renohub/internal/gateway/repository/projectstore"
	"renohub/internal/gateway/repository/rendering"
	"renohub/internal/imagegen"
)

// toConnectError maps domain errors onto Connect codes. Unknown errors are
// reported as internal.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return err
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, projectstore.ErrInvalidProject),
		errors.Is(err, imagegen.ErrEmptyPrompt),
		errors.Is(err, imagegen.ErrInvalidSize),
		errors.Is(err, imagegen.ErrMalformedDataURL):
		return connect.CodeInvalidArgument
	case errors.Is(err, projectstore.ErrNotFound),
		errors.Is(err, estimate.ErrNotFound),
		errors.Is(err, rendering.ErrNotFound),
		errors.Is(err, chat.ErrUnknownChannel):
		return connect.CodeNotFound
	case errors.Is(err, estimate.ErrQuoteNotSubmitted),
		errors.Is(err, estimate.ErrDataIntegrity):
		return connect.CodeFailedPrecondition
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, imagegen.ErrRequestFailure):
		return connect.CodeUnavailable
	}
	return connect.CodeInternal
}
