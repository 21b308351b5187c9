package handlers

import (
	"context"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GroupHandler handles GroupService gRPC requests
type GroupHandler struct {
	groupService services.GroupServiceInterface
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService services.GroupServiceInterface) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// GetGroup handles the GetGroup RPC
// Request: {name}. Response: {name, permissions, mask}.
func (h *GroupHandler) GetGroup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := req.GetFields()["name"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}

	group, err := h.groupService.GetGroup(ctx, name)
	if err != nil {
		return nil, groupErrorToStatus(err)
	}

	return groupToStruct(group)
}

// SaveGroup handles the SaveGroup RPC
// Request: {name, permissions | mask, upsert}. upsert defaults to true.
func (h *GroupHandler) SaveGroup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := req.GetFields()["name"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}

	perms, err := permissionsFromStruct(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid permissions: %v", err)
	}

	upsert, err := boolField(req, "upsert", true)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	group := &entities.Group{Name: name, Permissions: perms}
	if err := h.groupService.SaveGroup(ctx, group, upsert); err != nil {
		return nil, groupErrorToStatus(err)
	}

	return groupToStruct(group)
}

// DeleteGroup handles the DeleteGroup RPC
// Request: {name}. Response: {deleted}.
func (h *GroupHandler) DeleteGroup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := req.GetFields()["name"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}

	deleted, err := h.groupService.DeleteGroup(ctx, name)
	if err != nil {
		return nil, groupErrorToStatus(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"deleted": structpb.NewBoolValue(deleted),
	}}, nil
}

// ListGroups handles the ListGroups RPC
// Response: {groups: [{name, permissions, mask}, ...]}.
func (h *GroupHandler) ListGroups(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	groups, err := h.groupService.ListGroups(ctx)
	if err != nil {
		return nil, groupErrorToStatus(err)
	}

	items := make([]interface{}, len(groups))
	for i, group := range groups {
		items[i] = groupToMap(group)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{"groups": items})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode groups: %v", err)
	}
	return resp, nil
}

// ListPermissions handles the ListPermissions RPC
// Response: {permissions: [{name, bit, column}, ...]} in bit order.
func (h *GroupHandler) ListPermissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	perms := entities.AllPermissions()
	items := make([]interface{}, len(perms))
	for i, p := range perms {
		items[i] = map[string]interface{}{
			"name":   p.String(),
			"bit":    int(p),
			"column": p.Column(),
		}
	}

	resp, err := structpb.NewStruct(map[string]interface{}{"permissions": items})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode permissions: %v", err)
	}
	return resp, nil
}
