package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/repositories"
	"github.com/asakaida/groupperm/internal/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// === Shared Helper Functions for all handlers ===

var errMaskAndPermissions = errors.New("only one of mask or permissions may be set")

// parseMask validates a JSON/Struct number as a 32-bit mask
func parseMask(v float64) (uint32, error) {
	if v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		return 0, fmt.Errorf("mask must be an integer between 0 and %d", uint32(math.MaxUint32))
	}
	return uint32(v), nil
}

// permissionsFromStruct reads either "mask" or "permissions" from a request.
// A request with neither yields the empty set.
func permissionsFromStruct(req *structpb.Struct) (entities.PermissionSet, error) {
	fields := req.GetFields()
	maskValue, hasMask := fields["mask"]
	permsValue, hasPerms := fields["permissions"]

	switch {
	case hasMask && hasPerms:
		return 0, errMaskAndPermissions
	case hasMask:
		number, ok := maskValue.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return 0, fmt.Errorf("mask must be a number")
		}
		mask, err := parseMask(number.NumberValue)
		if err != nil {
			return 0, err
		}
		return entities.Decode(mask), nil
	case hasPerms:
		list, ok := permsValue.GetKind().(*structpb.Value_ListValue)
		if !ok {
			return 0, fmt.Errorf("permissions must be a list of names")
		}
		names := make([]string, 0, len(list.ListValue.GetValues()))
		for i, v := range list.ListValue.GetValues() {
			name, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return 0, fmt.Errorf("permission at index %d must be a string", i)
			}
			names = append(names, name.StringValue)
		}
		return entities.ParsePermissionSet(names)
	default:
		return 0, nil
	}
}

// boolField returns the named bool field, or def when absent
func boolField(req *structpb.Struct, name string, def bool) (bool, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return def, nil
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return b.BoolValue, nil
}

func groupToMap(group *entities.Group) map[string]interface{} {
	names := group.Permissions.Names()
	perms := make([]interface{}, len(names))
	for i, name := range names {
		perms[i] = name
	}
	return map[string]interface{}{
		"name":        group.Name,
		"permissions": perms,
		"mask":        group.Mask(),
	}
}

func groupToStruct(group *entities.Group) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(groupToMap(group))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode group: %v", err)
	}
	return s, nil
}

// groupErrorToStatus maps service and repository errors to gRPC status codes
func groupErrorToStatus(err error) error {
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, repositories.ErrDuplicateName):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, repositories.ErrInvalidGroup):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repositories.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Errorf(codes.Internal, "group operation failed: %v", err)
	}
}
