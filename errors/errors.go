package errors

import (
	stderrors "errors"
	"fmt"
)

// Engine errors. Callers match them with errors.Is, the storage and
// transport layers wrap them with context using %w.
var (
	ErrRecipientNotFound = fmt.Errorf("recipient not found")
	ErrEncryption        = fmt.Errorf("encryption failed")
	ErrDecryption        = fmt.Errorf("decryption failed")
	ErrAlreadyArmed      = fmt.Errorf("message already armed")
	ErrUnauthorized      = fmt.Errorf("unauthorized")
	ErrNotFound          = fmt.Errorf("not found")
	ErrStoreUnavailable  = fmt.Errorf("store unavailable")
	// ErrAlreadyRead tells a reader it lost the race for a read-once message.
	ErrAlreadyRead = fmt.Errorf("read-once message already read")
)

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrInvalidRequest  = fmt.Errorf("invalid request")
	ErrIdentityExists  = fmt.Errorf("identity already provisioned")
	ErrInvalidToken    = fmt.Errorf("invalid or expired token")
	ErrInvalidKeyBytes = fmt.Errorf("invalid key encoding")
)

// Is and As forward to the standard library so callers only need this package.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
