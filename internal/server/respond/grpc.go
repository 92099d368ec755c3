package respond

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Code maps an error kind to a gRPC status code.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, common.ErrorValidation):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrorUnauthorized):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrorForbidden):
		return codes.PermissionDenied
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrorConflict):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrorUnprocessable):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// Status converts err to a gRPC status error using the same message rules as
// Body.
func (wr Writer) Status(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(Code(err), wr.Body(err).Message)
}
