package store

import (
	"fmt"

	"multitoko-be/internal/apperror"
)

var (
	ErrStoreNotFound     = fmt.Errorf("%w: store not found", apperror.ErrNotFound)
	ErrStoreHasProducts  = fmt.Errorf("%w: store still owns products", apperror.ErrConflict)
	ErrSlugTaken         = fmt.Errorf("%w: store slug already taken", apperror.ErrConflict)
	ErrInvalidName       = fmt.Errorf("%w: store name cannot be empty", apperror.ErrValidation)
	ErrInvalidWhatsApp   = fmt.Errorf("%w: invalid whatsapp number", apperror.ErrValidation)
	ErrNoFieldsToUpdate  = fmt.Errorf("%w: no fields to update", apperror.ErrValidation)
	ErrSlugRetriesFailed = fmt.Errorf("%w: could not allocate a store slug", apperror.ErrConflict)
)

// PgStoresSlugKey is the unique constraint on stores.slug.
const PgStoresSlugKey = "stores_slug_key"
