package entities

import (
	"strings"
	"testing"
)

func TestGroup_Validate(t *testing.T) {
	tests := []struct {
		name    string
		group   Group
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid group",
			group:   Group{Name: "readers", Permissions: NewPermissionSet(PermViewMap)},
			wantErr: false,
		},
		{
			name:    "valid group without permissions",
			group:   Group{Name: "guests"},
			wantErr: false,
		},
		{
			name:    "missing name",
			group:   Group{Name: "", Permissions: FullPermissionSet()},
			wantErr: true,
			errMsg:  "group name is required",
		},
		{
			name:    "name too long",
			group:   Group{Name: strings.Repeat("a", MaxGroupNameLength+1)},
			wantErr: true,
			errMsg:  "group name exceeds 32 characters",
		},
		{
			name:    "multibyte name within limit",
			group:   Group{Name: "管理者グループ閲覧者グループ", Permissions: NewPermissionSet(PermViewMap)},
			wantErr: false,
		},
		{
			name:    "multibyte name at limit",
			group:   Group{Name: strings.Repeat("閲", MaxGroupNameLength)},
			wantErr: false,
		},
		{
			name:    "multibyte name too long",
			group:   Group{Name: strings.Repeat("閲", MaxGroupNameLength+1)},
			wantErr: true,
			errMsg:  "group name exceeds 32 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.group.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Group.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("Group.Validate() error message = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestGroup_ValueSemantics(t *testing.T) {
	original := NewGroup("ops", PermViewMap, PermAdminUser)
	copied := *original
	copied.Permissions = copied.Permissions.Remove(PermAdminUser)

	if !original.Permissions.Has(PermAdminUser) {
		t.Error("modifying a copy must not change the original group")
	}
}

func TestGroup_StringAndMask(t *testing.T) {
	g := NewGroup("readers", PermViewMap, PermViewMapGym, PermViewMapPokestop)
	if got := g.String(); got != "readers{viewMap,viewMapGym,viewMapPokestop}" {
		t.Errorf("Group.String() = %v", got)
	}
	if g.Mask() != 193 {
		t.Errorf("Group.Mask() = %d, want 193", g.Mask())
	}
}
