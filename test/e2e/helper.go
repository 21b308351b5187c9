package e2e

import (
	"context"
	"database/sql"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/asakaida/groupperm/internal/handlers"
	"github.com/asakaida/groupperm/internal/infrastructure/metrics"
	"github.com/asakaida/groupperm/internal/repositories/postgres"
	"github.com/asakaida/groupperm/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

// E2ETestServer represents an E2E test server
type E2ETestServer struct {
	Server      *grpc.Server
	GroupClient *handlers.GroupServiceClient
	HTTPServer  *httptest.Server
	Collector   *metrics.Collector
	Conn        *grpc.ClientConn
	DB          *sql.DB
	Listener    *bufconn.Listener
}

// SetupE2ETest wires the PostgreSQL store, the gRPC service and the HTTP API
// the same way cmd/server does. Skipped without a container runtime.
func SetupE2ETest(t *testing.T) *E2ETestServer {
	t.Helper()

	db := postgres.SetupTestDB(t)

	collector := metrics.NewCollector()
	exporter := metrics.NewPrometheusExporter(prometheus.NewRegistry())

	groupRepo := metrics.InstrumentGroupRepository(postgres.NewPostgresGroupRepository(db), collector, exporter)
	groupService := services.NewGroupService(groupRepo)

	// Create in-memory gRPC server with bufconn
	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer(
		grpc.UnaryInterceptor(metrics.UnaryServerInterceptor(collector, exporter)),
	)
	handlers.RegisterGroupServiceServer(server, handlers.NewGroupHandler(groupService))

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

	router := chi.NewRouter()
	groupHTTP := handlers.NewGroupHTTPHandler(groupService)
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.HTTPMiddleware(collector, exporter))
		r.Mount("/groups", groupHTTP.Routes())
		r.Mount("/permissions", groupHTTP.PermissionRoutes())
	})

	e := &E2ETestServer{
		Server:      server,
		GroupClient: handlers.NewGroupServiceClient(conn),
		HTTPServer:  httptest.NewServer(router),
		Collector:   collector,
		Conn:        conn,
		DB:          db,
		Listener:    listener,
	}
	t.Cleanup(func() { e.Teardown(t) })

	return e
}

// Teardown cleans up the E2E test environment
func (e *E2ETestServer) Teardown(t *testing.T) {
	t.Helper()

	if e.HTTPServer != nil {
		e.HTTPServer.Close()
	}
	if e.Conn != nil {
		e.Conn.Close()
	}
	if e.Server != nil {
		e.Server.Stop()
	}
	if e.Listener != nil {
		e.Listener.Close()
	}
	if e.DB != nil {
		postgres.CleanupTestDB(t, e.DB)
		e.DB = nil
	}
}
