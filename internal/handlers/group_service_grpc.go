package handlers

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names of the group service
const (
	GroupServiceName            = "rdm.group.v1.GroupService"
	GroupServiceGetGroup        = "/" + GroupServiceName + "/GetGroup"
	GroupServiceSaveGroup       = "/" + GroupServiceName + "/SaveGroup"
	GroupServiceDeleteGroup     = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceListGroups      = "/" + GroupServiceName + "/ListGroups"
	GroupServiceListPermissions = "/" + GroupServiceName + "/ListPermissions"
)

// GroupServiceServer is the server API for the group service.
// Requests and responses are google.protobuf.Struct messages.
type GroupServiceServer interface {
	GetGroup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveGroup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteGroup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListGroups(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPermissions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterGroupServiceServer registers the group service on a gRPC server
func RegisterGroupServiceServer(s grpc.ServiceRegistrar, srv GroupServiceServer) {
	s.RegisterService(&groupServiceDesc, srv)
}

var groupServiceDesc = grpc.ServiceDesc{
	ServiceName: GroupServiceName,
	HandlerType: (*GroupServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetGroup", Handler: unaryHandler(GroupServiceGetGroup, GroupServiceServer.GetGroup)},
		{MethodName: "SaveGroup", Handler: unaryHandler(GroupServiceSaveGroup, GroupServiceServer.SaveGroup)},
		{MethodName: "DeleteGroup", Handler: unaryHandler(GroupServiceDeleteGroup, GroupServiceServer.DeleteGroup)},
		{MethodName: "ListGroups", Handler: unaryHandler(GroupServiceListGroups, GroupServiceServer.ListGroups)},
		{MethodName: "ListPermissions", Handler: unaryHandler(GroupServiceListPermissions, GroupServiceServer.ListPermissions)},
	},
	Streams: []grpc.StreamDesc{},
	// No file descriptor is registered for Struct-typed messages, so
	// reflection can list the service but not describe it.
	Metadata: "",
}

type structMethod func(GroupServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a Struct-to-Struct method to a grpc.MethodDesc handler
func unaryHandler(fullMethod string, method structMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(GroupServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(srv.(GroupServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GroupServiceClient is the client API for the group service
type GroupServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGroupServiceClient creates a client for the group service
func NewGroupServiceClient(cc grpc.ClientConnInterface) *GroupServiceClient {
	return &GroupServiceClient{cc: cc}
}

func (c *GroupServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetGroup calls GroupService.GetGroup
func (c *GroupServiceClient) GetGroup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GroupServiceGetGroup, in, opts...)
}

// SaveGroup calls GroupService.SaveGroup
func (c *GroupServiceClient) SaveGroup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GroupServiceSaveGroup, in, opts...)
}

// DeleteGroup calls GroupService.DeleteGroup
func (c *GroupServiceClient) DeleteGroup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GroupServiceDeleteGroup, in, opts...)
}

// ListGroups calls GroupService.ListGroups
func (c *GroupServiceClient) ListGroups(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GroupServiceListGroups, in, opts...)
}

// ListPermissions calls GroupService.ListPermissions
func (c *GroupServiceClient) ListPermissions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GroupServiceListPermissions, in, opts...)
}
