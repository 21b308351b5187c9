package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/repositories"
)

// GroupRepository implements repositories.GroupRepository in memory.
// It is safe for concurrent use and follows the same contract as the
// PostgreSQL implementation.
type GroupRepository struct {
	mu     sync.RWMutex
	groups map[string]entities.PermissionSet

	// unavailable makes every call fail with ErrStoreUnavailable
	unavailable bool
}

// NewGroupRepository creates an empty in-memory group repository
func NewGroupRepository() *GroupRepository {
	return &GroupRepository{groups: make(map[string]entities.PermissionSet)}
}

// SetUnavailable toggles simulated store outages
func (r *GroupRepository) SetUnavailable(unavailable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unavailable = unavailable
}

// Get retrieves a group by name
func (r *GroupRepository) Get(ctx context.Context, name string) (*entities.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.check(ctx, "get group"); err != nil {
		return nil, err
	}

	perms, ok := r.groups[name]
	if !ok {
		return nil, nil
	}
	return &entities.Group{Name: name, Permissions: perms}, nil
}

// Save inserts a group, replacing the permissions of an existing entry when upsert is set
func (r *GroupRepository) Save(ctx context.Context, group *entities.Group, upsert bool) error {
	if err := group.Validate(); err != nil {
		return fmt.Errorf("%w: %w", repositories.ErrInvalidGroup, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(ctx, "save group"); err != nil {
		return err
	}

	if _, exists := r.groups[group.Name]; exists && !upsert {
		return fmt.Errorf("failed to save group: %w: %s", repositories.ErrDuplicateName, group.Name)
	}

	// Store only defined bits, as the boolean columns would
	r.groups[group.Name] = entities.Decode(group.Permissions.Mask())
	return nil
}

// Delete removes a group by name
func (r *GroupRepository) Delete(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(ctx, "delete group"); err != nil {
		return false, err
	}

	if _, exists := r.groups[name]; !exists {
		return false, nil
	}
	delete(r.groups, name)
	return true, nil
}

// List retrieves all groups ordered by name
func (r *GroupRepository) List(ctx context.Context) ([]*entities.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.check(ctx, "list groups"); err != nil {
		return nil, err
	}

	groups := make([]*entities.Group, 0, len(r.groups))
	for name, perms := range r.groups {
		groups = append(groups, &entities.Group{Name: name, Permissions: perms})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups, nil
}

// check must be called with the lock held
func (r *GroupRepository) check(ctx context.Context, action string) error {
	if r.unavailable {
		return fmt.Errorf("failed to %s: %w", action, repositories.ErrStoreUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to %s: %w: %w", action, repositories.ErrQuery, err)
	}
	return nil
}
