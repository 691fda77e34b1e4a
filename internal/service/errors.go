package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/academypay/internal/recordstore"
	"github.com/mmynk/academypay/internal/roster"
)

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, recordstore.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, recordstore.ErrNotFound),
		errors.Is(err, roster.ErrPlayerNotFound),
		errors.Is(err, roster.ErrGroupNotFound),
		errors.Is(err, roster.ErrSubgroupNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, recordstore.ErrCorruptState):
		return connect.NewError(connect.CodeDataLoss, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(err error) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// degradedWarning turns a degraded-persistence error into the response
// warning. It reports false for nil or any other error.
func degradedWarning(op string, err error) (string, bool) {
	if err == nil || !recordstore.IsDegraded(err) {
		return "", false
	}
	slog.Warn(op+" kept in memory only", "error", err)
	return "Payment history could not be saved. Changes are kept in memory and will be lost on restart.", true
}
