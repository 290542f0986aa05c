package routing

import (
	"context"
	"errors"

	"github.com/anoideaopen/proxy/core/interceptor"
	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/proxyerr"
	"github.com/anoideaopen/proxy/core/proxygen"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code maps a routing error to a gRPC status code, for front ends that
// serve routers over gRPC.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return s.Code()
	}

	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, ErrUnsupportedMethod), errors.Is(err, proxygen.ErrMemberNotFound):
		return codes.Unimplemented
	case errors.Is(err, interceptor.ErrAccessDenied):
		return codes.PermissionDenied
	case errors.Is(err, proxyerr.ErrArgument):
		return codes.InvalidArgument
	case errors.Is(err, proxygen.ErrTargetReleased), errors.Is(err, invocation.ErrNoTarget),
		errors.Is(err, invocation.ErrAbstractMember):
		return codes.FailedPrecondition
	case errors.Is(err, interceptor.ErrActivation):
		return codes.Unavailable
	case errors.Is(err, proxygen.ErrInvalidResult), errors.Is(err, proxyerr.ErrChainConfiguration):
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// Status converts err into a gRPC status error. It returns nil for nil.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(Code(err), err.Error())
}
