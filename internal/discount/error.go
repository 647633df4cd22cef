package discount

import (
	"fmt"

	"multitoko-be/internal/apperror"
)

var (
	ErrDiscountNotFound = fmt.Errorf("%w: discount not found", apperror.ErrNotFound)
	ErrTargetNotFound   = fmt.Errorf("%w: discount target not found", apperror.ErrNotFound)
	ErrInvalidScope     = fmt.Errorf("%w: invalid discount scope", apperror.ErrValidation)
	ErrInvalidTarget    = fmt.Errorf("%w: discount target does not match scope", apperror.ErrValidation)
	ErrInvalidType      = fmt.Errorf("%w: invalid discount type", apperror.ErrValidation)
	ErrInvalidValue     = fmt.Errorf("%w: invalid discount value", apperror.ErrValidation)
	ErrInvalidWindow    = fmt.Errorf("%w: discount must end after it starts", apperror.ErrValidation)
)
