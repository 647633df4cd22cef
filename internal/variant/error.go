package variant

import (
	"fmt"

	"multitoko-be/internal/apperror"
)

var (
	ErrEmptyOptionType    = fmt.Errorf("%w: option type has no values", apperror.ErrValidation)
	ErrUnknownOptionType  = fmt.Errorf("%w: unknown option type", apperror.ErrValidation)
	ErrForeignOptionValue = fmt.Errorf("%w: option value does not belong to option type", apperror.ErrValidation)
	ErrDuplicateType      = fmt.Errorf("%w: variant has two values of one option type", apperror.ErrValidation)
	ErrDuplicateIdentity  = fmt.Errorf("%w: two variants share the same options", apperror.ErrValidation)
)
