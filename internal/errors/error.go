// Package errors provides the sentinel errors returned by the catalog store and service layers.
package errors

import (
	"errors"
	"fmt"
)

// Taxonomy roots. Specific errors wrap one of them so callers can branch on either level.
var ErrNotFound = errors.New("not found")
var ErrInvalidOperation = errors.New("invalid operation")
var ErrInvalidInput = errors.New("invalid input")

var ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
var ErrVariantNotFound = fmt.Errorf("variant %w", ErrNotFound)
var ErrImageNotFound = fmt.Errorf("image %w", ErrNotFound)

var ErrProductInactive = fmt.Errorf("%w: product is inactive", ErrInvalidOperation)
var ErrDuplicateSize = fmt.Errorf("%w: size already exists for product", ErrInvalidOperation)
var ErrStockManagedByVariants = fmt.Errorf("%w: stock of a sized product is derived from its variants", ErrInvalidOperation)

var ErrFileStore = errors.New("file store failure")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
