package errors

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapToGRPCError translates engine sentinels into gRPC status codes.
// Errors that already carry a status are returned untouched.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case Is(err, ErrInvalidRequest), Is(err, ErrInvalidKeyBytes):
		return status.Error(codes.InvalidArgument, err.Error())
	case Is(err, ErrRecipientNotFound), Is(err, ErrNotFound), Is(err, ErrAlreadyRead):
		return status.Error(codes.NotFound, err.Error())
	case Is(err, ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case Is(err, ErrInvalidToken):
		return status.Error(codes.Unauthenticated, err.Error())
	case Is(err, ErrIdentityExists), Is(err, ErrAlreadyArmed):
		return status.Error(codes.AlreadyExists, err.Error())
	case Is(err, ErrStoreUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		// Encryption failures land here, their detail stays server side
		return status.Error(codes.Internal, "internal error")
	}
}
