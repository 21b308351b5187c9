package entities

import (
	"fmt"
	"unicode/utf8"
)

// MaxGroupNameLength matches the width of the name column, in characters
const MaxGroupNameLength = 32

// Group is a named set of permissions mirrored to a row of the group table.
// Example: readers = {viewMap,viewMapGym,viewMapPokestop}
type Group struct {
	Name        string        // Unique, case-sensitive group name (e.g., "readers")
	Permissions PermissionSet // Granted permissions
}

// NewGroup creates a group with the given permissions
func NewGroup(name string, perms ...Permission) *Group {
	return &Group{Name: name, Permissions: NewPermissionSet(perms...)}
}

// String returns a representation like readers{viewMap,viewMapGym}
func (g *Group) String() string {
	return g.Name + g.Permissions.String()
}

// Validate checks if the group can be written
func (g *Group) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("group name is required")
	}
	if utf8.RuneCountInString(g.Name) > MaxGroupNameLength {
		return fmt.Errorf("group name exceeds %d characters", MaxGroupNameLength)
	}
	return nil
}

// Mask returns the bitmask of the group's permissions
func (g *Group) Mask() uint32 {
	return g.Permissions.Mask()
}
