package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mefinance/internal/auth"
	"github.com/mmynk/mefinance/internal/ledger"
	"github.com/mmynk/mefinance/internal/storage"
)

// FieldHeader names the request field that failed validation on
// InvalidArgument errors.
const FieldHeader = "Mefinance-Field"

var errInternal = errors.New("internal error")

// toConnectError maps ledger and storage errors onto Connect codes.
// Unclassified errors are logged and replaced so internals never leak.
func toConnectError(err error) error {
	var fieldErr *ledger.FieldError
	switch {
	case errors.As(err, &fieldErr):
		cerr := connect.NewError(connect.CodeInvalidArgument, fieldErr)
		cerr.Meta().Set(FieldHeader, fieldErr.Field)
		return cerr
	case errors.Is(err, ledger.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrUnauthorized):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, ledger.ErrPreconditionFailed), errors.Is(err, storage.ErrNoBalance):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrConflict), errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, storage.ErrBillPaid):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		slog.Error("Unhandled error", "error", err)
		return connect.NewError(connect.CodeInternal, errInternal)
	}
}

func invalidField(field, message string) error {
	return toConnectError(&ledger.FieldError{Field: field, Message: message})
}

func unauthenticated() error {
	return connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
}
