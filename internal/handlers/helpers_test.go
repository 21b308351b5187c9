package handlers

import (
	"context"
	"net"
	"testing"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/repositories/memory"
	"github.com/asakaida/groupperm/internal/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const bufSize = 1024 * 1024

// Mock GroupService
type mockGroupService struct {
	services.GroupServiceInterface
	err error
}

func (m *mockGroupService) LookupGroup(ctx context.Context, name string) (*entities.Group, error) {
	return nil, m.err
}

func (m *mockGroupService) GetGroup(ctx context.Context, name string) (*entities.Group, error) {
	return nil, m.err
}

func (m *mockGroupService) SaveGroup(ctx context.Context, group *entities.Group, upsert bool) error {
	return m.err
}

func (m *mockGroupService) DeleteGroup(ctx context.Context, name string) (bool, error) {
	return false, m.err
}

func (m *mockGroupService) ListGroups(ctx context.Context) ([]*entities.Group, error) {
	return nil, m.err
}

// newMemoryGroupService returns a service backed by an in-memory store
func newMemoryGroupService() (*services.GroupService, *memory.GroupRepository) {
	repo := memory.NewGroupRepository()
	return services.NewGroupService(repo), repo
}

// newTestClient serves handler over bufconn and returns a connected client
func newTestClient(t *testing.T, handler GroupServiceServer) *GroupServiceClient {
	t.Helper()

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer()
	RegisterGroupServiceServer(server, handler)

	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	bufDialer := func(context.Context, string) (net.Conn, error) {
		return listener.Dial()
	}

	conn, err := grpc.NewClient(
		"passthrough://bufconn",
		grpc.WithContextDialer(bufDialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to create client connection: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		server.Stop()
	})

	return NewGroupServiceClient(conn)
}

// mustStruct builds a request Struct or fails the test
func mustStruct(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("failed to build struct: %v", err)
	}
	return s
}
