package repositories

import (
	"context"
	"errors"

	"github.com/asakaida/groupperm/internal/entities"
)

// Errors reported by group repositories.
// Implementations wrap them with fmt.Errorf("...: %w") so callers match with errors.Is.
var (
	// ErrStoreUnavailable means the store could not be reached or prepared
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrQuery means the store reported an execution or result decoding failure
	ErrQuery = errors.New("query failed")

	// ErrDuplicateName means a strict insert hit an existing group name
	ErrDuplicateName = errors.New("group name already exists")

	// ErrInvalidGroup means the group was rejected before reaching the store
	ErrInvalidGroup = errors.New("invalid group")
)

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// Get retrieves a group by name.
	// Returns nil and no error when no group has that name.
	Get(ctx context.Context, name string) (*entities.Group, error)

	// Save writes a group.
	// With upsert all permission columns of an existing row are replaced,
	// otherwise an existing name fails with ErrDuplicateName.
	Save(ctx context.Context, group *entities.Group, upsert bool) error

	// Delete removes a group by name and reports whether it existed
	Delete(ctx context.Context, name string) (bool, error)

	// List retrieves all groups ordered by name
	List(ctx context.Context) ([]*entities.Group, error)
}
