package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrOutOfStock          = errors.New("out of stock")
	ErrIncompleteSelection = errors.New("incomplete selection")
)

// Validation wraps ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

func OutOfStock(format string, args ...any) error {
	return wrap(ErrOutOfStock, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Kind returns the sentinel kind err belongs to, or nil when it is none of them.
func Kind(err error) error {
	for _, k := range []error{
		ErrValidation,
		ErrIncompleteSelection,
		ErrNotFound,
		ErrOutOfStock,
		ErrConflict,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
