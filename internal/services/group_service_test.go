package services

import (
	"context"
	"errors"
	"testing"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/repositories"
	"github.com/asakaida/groupperm/internal/repositories/memory"
)

// failingGroupRepository returns err from every call
type failingGroupRepository struct {
	err   error
	calls int
}

func (m *failingGroupRepository) Get(ctx context.Context, name string) (*entities.Group, error) {
	m.calls++
	return nil, m.err
}

func (m *failingGroupRepository) Save(ctx context.Context, group *entities.Group, upsert bool) error {
	m.calls++
	return m.err
}

func (m *failingGroupRepository) Delete(ctx context.Context, name string) (bool, error) {
	m.calls++
	return false, m.err
}

func (m *failingGroupRepository) List(ctx context.Context) ([]*entities.Group, error) {
	m.calls++
	return nil, m.err
}

func TestGroupService_EndToEnd(t *testing.T) {
	service := NewGroupService(memory.NewGroupRepository())
	ctx := context.Background()

	readers := entities.NewGroup("readers", entities.PermViewMap, entities.PermViewMapGym, entities.PermViewMapPokestop)
	if err := service.SaveGroup(ctx, readers, true); err != nil {
		t.Fatalf("SaveGroup() error = %v", err)
	}

	group, err := service.GetGroup(ctx, "readers")
	if err != nil {
		t.Fatalf("GetGroup() error = %v", err)
	}
	want := entities.NewPermissionSet(entities.PermViewMap, entities.PermViewMapGym, entities.PermViewMapPokestop)
	if group.Permissions != want {
		t.Errorf("GetGroup() permissions = %v, want %v", group.Permissions, want)
	}

	mask, err := service.GetMask(ctx, "readers")
	if err != nil {
		t.Fatalf("GetMask() error = %v", err)
	}
	if mask != 193 {
		t.Errorf("GetMask() = %d, want 193", mask)
	}
}

func TestGroupService_LookupAbsence(t *testing.T) {
	service := NewGroupService(memory.NewGroupRepository())
	ctx := context.Background()

	group, err := service.LookupGroup(ctx, "nonexistent-name")
	if err != nil {
		t.Fatalf("LookupGroup() error = %v", err)
	}
	if group != nil {
		t.Errorf("LookupGroup() = %v, want nil", group)
	}

	if _, err := service.GetGroup(ctx, "nonexistent-name"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("GetGroup() error = %v, want ErrGroupNotFound", err)
	}
	if _, err := service.GetMask(ctx, "nonexistent-name"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("GetMask() error = %v, want ErrGroupNotFound", err)
	}
}

func TestGroupService_SaveMask(t *testing.T) {
	tests := []struct {
		name     string
		mask     uint32
		wantMask uint32
	}{
		{name: "readers", mask: 193, wantMask: 193},
		{name: "empty", mask: 0, wantMask: 0},
		{name: "full", mask: 255, wantMask: 255},
		{name: "undefined bit dropped", mask: 256, wantMask: 0},
		{name: "mixed bits", mask: 256 | 8, wantMask: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewGroupService(memory.NewGroupRepository())
			ctx := context.Background()

			saved, err := service.SaveMask(ctx, "g", tt.mask, true)
			if err != nil {
				t.Fatalf("SaveMask() error = %v", err)
			}
			if saved.Mask() != tt.wantMask {
				t.Errorf("SaveMask() mask = %d, want %d", saved.Mask(), tt.wantMask)
			}

			mask, err := service.GetMask(ctx, "g")
			if err != nil {
				t.Fatalf("GetMask() error = %v", err)
			}
			if mask != tt.wantMask {
				t.Errorf("GetMask() = %d, want %d", mask, tt.wantMask)
			}
		})
	}
}

func TestGroupService_UpsertAndDuplicate(t *testing.T) {
	service := NewGroupService(memory.NewGroupRepository())
	ctx := context.Background()

	if err := service.SaveGroup(ctx, entities.NewGroup("ops", entities.PermViewMap, entities.PermAdminUser), true); err != nil {
		t.Fatalf("SaveGroup() error = %v", err)
	}

	err := service.SaveGroup(ctx, entities.NewGroup("ops", entities.PermViewStats), false)
	if !errors.Is(err, repositories.ErrDuplicateName) {
		t.Fatalf("SaveGroup(upsert=false) error = %v, want ErrDuplicateName", err)
	}

	if err := service.SaveGroup(ctx, entities.NewGroup("ops", entities.PermViewStats), true); err != nil {
		t.Fatalf("SaveGroup(upsert=true) error = %v", err)
	}
	group, err := service.GetGroup(ctx, "ops")
	if err != nil {
		t.Fatalf("GetGroup() error = %v", err)
	}
	if group.Permissions != entities.NewPermissionSet(entities.PermViewStats) {
		t.Errorf("GetGroup() permissions = %v, want {viewStats}", group.Permissions)
	}
}

func TestGroupService_InvalidInput(t *testing.T) {
	repo := &failingGroupRepository{}
	service := NewGroupService(repo)
	ctx := context.Background()

	if err := service.SaveGroup(ctx, nil, true); !errors.Is(err, repositories.ErrInvalidGroup) {
		t.Errorf("SaveGroup(nil) error = %v, want ErrInvalidGroup", err)
	}
	if repo.calls != 0 {
		t.Errorf("expected no repository calls, got %d", repo.calls)
	}
}

func TestGroupService_PropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("failed to get group: store unavailable")
	for _, kind := range []error{repositories.ErrStoreUnavailable, repositories.ErrQuery} {
		t.Run(kind.Error(), func(t *testing.T) {
			repo := &failingGroupRepository{err: errors.Join(kind, storeErr)}
			service := NewGroupService(repo)
			ctx := context.Background()

			if _, err := service.GetGroup(ctx, "ops"); !errors.Is(err, kind) {
				t.Errorf("GetGroup() error = %v, want %v", err, kind)
			}
			if err := service.SaveGroup(ctx, entities.NewGroup("ops"), true); !errors.Is(err, kind) {
				t.Errorf("SaveGroup() error = %v, want %v", err, kind)
			}
			if _, err := service.DeleteGroup(ctx, "ops"); !errors.Is(err, kind) {
				t.Errorf("DeleteGroup() error = %v, want %v", err, kind)
			}
			if _, err := service.ListGroups(ctx); !errors.Is(err, kind) {
				t.Errorf("ListGroups() error = %v, want %v", err, kind)
			}
			if repo.calls != 4 {
				t.Errorf("expected exactly one repository call per operation, got %d", repo.calls)
			}
		})
	}
}
