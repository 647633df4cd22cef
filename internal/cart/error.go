package cart

import (
	"fmt"

	"multitoko-be/internal/apperror"
)

var (
	ErrInvalidQuantity     = fmt.Errorf("%w: quantity must be positive", apperror.ErrValidation)
	ErrInvalidSession      = fmt.Errorf("%w: cart session is required", apperror.ErrValidation)
	ErrMissingProduct      = fmt.Errorf("%w: product id is required", apperror.ErrValidation)
	ErrMissingCustomer     = fmt.Errorf("%w: customer name and phone are required", apperror.ErrValidation)
	ErrItemNotFound        = fmt.Errorf("%w: cart item not found", apperror.ErrNotFound)
	ErrStoreNotInCart      = fmt.Errorf("%w: store has no items in cart", apperror.ErrNotFound)
	ErrProductUnavailable  = fmt.Errorf("%w: product is not available", apperror.ErrNotFound)
	ErrStoreUnavailable    = fmt.Errorf("%w: store is not available", apperror.ErrNotFound)
	ErrVariantNotFound     = fmt.Errorf("%w: variant not found", apperror.ErrNotFound)
	ErrItemUnavailable     = fmt.Errorf("%w: item became unavailable", apperror.ErrNotFound)
	ErrInvalidCombination  = fmt.Errorf("%w: no variant matches the selected options", apperror.ErrNotFound)
	ErrIncompleteSelection = fmt.Errorf("%w: please select all variant options", apperror.ErrIncompleteSelection)
	ErrOutOfStock          = fmt.Errorf("%w: this variant is out of stock, please choose another", apperror.ErrOutOfStock)
)
