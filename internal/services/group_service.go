package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/repositories"
)

// ErrGroupNotFound is returned by GetGroup and GetMask when no group has the name
var ErrGroupNotFound = errors.New("group not found")

// GroupServiceInterface defines the interface for group operations
type GroupServiceInterface interface {
	LookupGroup(ctx context.Context, name string) (*entities.Group, error)
	GetGroup(ctx context.Context, name string) (*entities.Group, error)
	SaveGroup(ctx context.Context, group *entities.Group, upsert bool) error
	SaveMask(ctx context.Context, name string, mask uint32, upsert bool) (*entities.Group, error)
	GetMask(ctx context.Context, name string) (uint32, error)
	DeleteGroup(ctx context.Context, name string) (bool, error)
	ListGroups(ctx context.Context) ([]*entities.Group, error)
}

// GroupService loads and saves permission groups.
// It keeps no state between calls and never retries.
type GroupService struct {
	groupRepo repositories.GroupRepository
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repositories.GroupRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
	}
}

// LookupGroup loads a group by name. A missing group is reported as nil with no error.
func (s *GroupService) LookupGroup(ctx context.Context, name string) (*entities.Group, error) {
	return s.groupRepo.Get(ctx, name)
}

// GetGroup loads a group by name and reports a missing group as ErrGroupNotFound
func (s *GroupService) GetGroup(ctx context.Context, name string) (*entities.Group, error) {
	group, err := s.LookupGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}
	return group, nil
}

// SaveGroup writes a group; see repositories.GroupRepository.Save for upsert semantics
func (s *GroupService) SaveGroup(ctx context.Context, group *entities.Group, upsert bool) error {
	if group == nil {
		return fmt.Errorf("%w: group is required", repositories.ErrInvalidGroup)
	}
	return s.groupRepo.Save(ctx, group, upsert)
}

// SaveMask decodes a bitmask and writes it as the group's permissions.
// Bits without a defined permission are dropped.
func (s *GroupService) SaveMask(ctx context.Context, name string, mask uint32, upsert bool) (*entities.Group, error) {
	group := &entities.Group{Name: name, Permissions: entities.Decode(mask)}
	if err := s.SaveGroup(ctx, group, upsert); err != nil {
		return nil, err
	}
	return group, nil
}

// GetMask returns the bitmask of a group's permissions
func (s *GroupService) GetMask(ctx context.Context, name string) (uint32, error) {
	group, err := s.GetGroup(ctx, name)
	if err != nil {
		return 0, err
	}
	return group.Mask(), nil
}

// DeleteGroup removes a group and reports whether it existed
func (s *GroupService) DeleteGroup(ctx context.Context, name string) (bool, error) {
	return s.groupRepo.Delete(ctx, name)
}

// ListGroups returns every group ordered by name
func (s *GroupService) ListGroups(ctx context.Context) ([]*entities.Group, error) {
	return s.groupRepo.List(ctx)
}
