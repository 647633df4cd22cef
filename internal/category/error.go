package category

import (
	"fmt"

	"multitoko-be/internal/apperror"
)

var (
	ErrCategoryNotFound  = fmt.Errorf("%w: category not found", apperror.ErrNotFound)
	ErrInvalidName       = fmt.Errorf("%w: category name cannot be empty", apperror.ErrValidation)
	ErrSlugRetriesFailed = fmt.Errorf("%w: could not allocate a category slug", apperror.ErrConflict)
)

// PgCategoriesSlugKey is the unique constraint on categories.slug.
const PgCategoriesSlugKey = "categories_slug_key"
