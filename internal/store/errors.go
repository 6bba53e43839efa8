package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist under the
	// current tenant. A row existing under a different tenant reports
	// the same error; scoped access never confirms cross-tenant rows.
	ErrNotFound = errors.New("record not found")

	// ErrCategoryNotFound is returned when a post references a category
	// id that does not belong to the current tenant.
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryInUseError is returned when deleting a category that still
// has posts referencing it. PostCount names the blocking posts.
type CategoryInUseError struct {
	CategoryName string
	PostCount    int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q still has %d post(s); move or delete them first",
		e.CategoryName, e.PostCount)
}
