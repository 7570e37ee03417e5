package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/pokehouse/internal/bowl"
	"github.com/mmynk/pokehouse/internal/catalog"
	"github.com/mmynk/pokehouse/internal/order"
	"github.com/mmynk/pokehouse/internal/storage"
)

// toConnectError maps a domain error onto a Connect error code. The
// wrapped message keeps the offending value.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, bowl.ErrInvalidSize),
		errors.Is(err, bowl.ErrInvalidBase),
		errors.Is(err, bowl.ErrInvalidProtein),
		errors.Is(err, bowl.ErrInvalidIngredient),
		errors.Is(err, bowl.ErrInvalidAmount),
		errors.Is(err, bowl.ErrSizeNotSet),
		errors.Is(err, bowl.ErrProteinLimitExceeded):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, order.ErrQuotaExceeded):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, catalog.ErrUnknownSize):
		slog.Error("Catalog lookup failed for a validated size", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
