package product

import (
	"fmt"

	"multitoko-be/internal/apperror"
)

var (
	ErrProductNotFound   = fmt.Errorf("%w: product not found", apperror.ErrNotFound)
	ErrVariantNotFound   = fmt.Errorf("%w: variant not found", apperror.ErrNotFound)
	ErrInvalidName       = fmt.Errorf("%w: product name cannot be empty", apperror.ErrValidation)
	ErrInvalidPrice      = fmt.Errorf("%w: price cannot be negative", apperror.ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid product status", apperror.ErrValidation)
	ErrInvalidStock      = fmt.Errorf("%w: stock cannot be negative", apperror.ErrValidation)
	ErrNoCategory        = fmt.Errorf("%w: product needs at least one category", apperror.ErrValidation)
	ErrUnknownCategory   = fmt.Errorf("%w: unknown category", apperror.ErrValidation)
	ErrInvalidImage      = fmt.Errorf("%w: image url cannot be empty", apperror.ErrValidation)
	ErrInvalidOptionName = fmt.Errorf("%w: option type name cannot be empty", apperror.ErrValidation)
	ErrInvalidOverride   = fmt.Errorf("%w: variant override matches no combination", apperror.ErrValidation)
	ErrDuplicateSKU      = fmt.Errorf("%w: sku given twice", apperror.ErrValidation)
	ErrNoFieldsToUpdate  = fmt.Errorf("%w: no fields to update", apperror.ErrValidation)
	ErrSKUTaken          = fmt.Errorf("%w: sku already taken", apperror.ErrConflict)
	ErrRetriesExhausted  = fmt.Errorf("%w: could not allocate a unique slug or sku", apperror.ErrConflict)
)

// Unique constraints raced on at insert time.
const (
	PgProductsSlugKey = "products_slug_key"
	PgVariantsSKUKey  = "variants_sku_key"
)
