package entities

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Permission is a single capability flag of a group.
// The numeric value is the bit position inside a PermissionSet mask and
// the column position in the group table, so existing values must never change.
// New permissions are appended with the next unused value.
type Permission uint8

const (
	PermViewMap         Permission = 0
	PermViewMapRaid     Permission = 1
	PermViewMapPokemon  Permission = 2
	PermViewStats       Permission = 3
	PermAdminSetting    Permission = 4
	PermAdminUser       Permission = 5
	PermViewMapGym      Permission = 6
	PermViewMapPokestop Permission = 7
)

// NumPermissions is the number of defined permissions
const NumPermissions = 8

// ErrUnknownPermission is returned when a permission name is not defined
var ErrUnknownPermission = errors.New("unknown permission")

type permissionInfo struct {
	name   string
	column string
}

// permissionTable is indexed by Permission value
var permissionTable = [NumPermissions]permissionInfo{
	PermViewMap:         {name: "viewMap", column: "perm_view_map"},
	PermViewMapRaid:     {name: "viewMapRaid", column: "perm_view_map_raid"},
	PermViewMapPokemon:  {name: "viewMapPokemon", column: "perm_view_map_pokemon"},
	PermViewStats:       {name: "viewStats", column: "perm_view_stats"},
	PermAdminSetting:    {name: "adminSetting", column: "perm_admin_setting"},
	PermAdminUser:       {name: "adminUser", column: "perm_admin_user"},
	PermViewMapGym:      {name: "viewMapGym", column: "perm_view_map_gym"},
	PermViewMapPokestop: {name: "viewMapPokestop", column: "perm_view_map_pokestop"},
}

// definedMask has one bit set for every defined permission
const definedMask uint32 = 1<<NumPermissions - 1

// AllPermissions returns every defined permission in ordinal order
func AllPermissions() []Permission {
	perms := make([]Permission, NumPermissions)
	for i := range perms {
		perms[i] = Permission(i)
	}
	return perms
}

// PermissionColumns returns the storage column names in ordinal order
func PermissionColumns() []string {
	columns := make([]string, NumPermissions)
	for i, info := range permissionTable {
		columns[i] = info.column
	}
	return columns
}

// ParsePermission returns the permission with the given name (e.g., "viewMapGym")
func ParsePermission(name string) (Permission, error) {
	for i, info := range permissionTable {
		if info.name == name {
			return Permission(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPermission, name)
}

// Valid reports whether p is a defined permission
func (p Permission) Valid() bool {
	return p < NumPermissions
}

// Bit returns the mask bit of the permission, or 0 for undefined values
func (p Permission) Bit() uint32 {
	if !p.Valid() {
		return 0
	}
	return 1 << p
}

// String returns the permission name
func (p Permission) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Permission(%d)", uint8(p))
	}
	return permissionTable[p].name
}

// Column returns the storage column name of the permission
func (p Permission) Column() string {
	if !p.Valid() {
		return ""
	}
	return permissionTable[p].column
}

// PermissionSet is a set of permissions stored as a bitmask.
// Bit i is set iff the permission with value i is a member.
// The zero value is the empty set.
type PermissionSet uint32

// NewPermissionSet builds a set from the given permissions.
// Duplicates collapse and undefined values are ignored.
func NewPermissionSet(perms ...Permission) PermissionSet {
	return PermissionSet(Encode(perms))
}

// FullPermissionSet returns the set of every defined permission
func FullPermissionSet() PermissionSet {
	return PermissionSet(definedMask)
}

// Encode packs permissions into a bitmask.
// The result does not depend on order or duplicates, and an empty slice encodes to 0.
func Encode(perms []Permission) uint32 {
	var mask uint32
	for _, p := range perms {
		mask |= p.Bit()
	}
	return mask
}

// Decode unpacks a bitmask into a set.
// Bits without a defined permission are dropped.
func Decode(mask uint32) PermissionSet {
	return PermissionSet(mask & definedMask)
}

// PermissionSetFromColumns builds a set from the boolean columns in ordinal order
func PermissionSetFromColumns(columns [NumPermissions]bool) PermissionSet {
	var s PermissionSet
	for i, granted := range columns {
		if granted {
			s = s.Add(Permission(i))
		}
	}
	return s
}

// Mask returns the bitmask of the set
func (s PermissionSet) Mask() uint32 {
	return uint32(s) & definedMask
}

// Has reports whether p is a member of the set
func (s PermissionSet) Has(p Permission) bool {
	return p.Valid() && uint32(s)&p.Bit() != 0
}

// Add returns a copy of the set with the given permissions added
func (s PermissionSet) Add(perms ...Permission) PermissionSet {
	return PermissionSet(s.Mask() | Encode(perms))
}

// Remove returns a copy of the set with the given permissions removed
func (s PermissionSet) Remove(perms ...Permission) PermissionSet {
	return PermissionSet(s.Mask() &^ Encode(perms))
}

// Len returns the number of permissions in the set
func (s PermissionSet) Len() int {
	return bits.OnesCount32(s.Mask())
}

// IsEmpty reports whether the set has no permissions
func (s PermissionSet) IsEmpty() bool {
	return s.Mask() == 0
}

// Permissions returns the members in ordinal order
func (s PermissionSet) Permissions() []Permission {
	perms := make([]Permission, 0, s.Len())
	for _, p := range AllPermissions() {
		if s.Has(p) {
			perms = append(perms, p)
		}
	}
	return perms
}

// Names returns the member names in ordinal order
func (s PermissionSet) Names() []string {
	perms := s.Permissions()
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.String()
	}
	return names
}

// Columns expands the set into one boolean per permission in ordinal order
func (s PermissionSet) Columns() [NumPermissions]bool {
	var columns [NumPermissions]bool
	for i := range columns {
		columns[i] = s.Has(Permission(i))
	}
	return columns
}

// String returns a representation like {viewMap,viewMapGym}
func (s PermissionSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// ParsePermissionSet builds a set from permission names
func ParsePermissionSet(names []string) (PermissionSet, error) {
	var s PermissionSet
	for _, name := range names {
		p, err := ParsePermission(name)
		if err != nil {
			return 0, err
		}
		s = s.Add(p)
	}
	return s, nil
}
