package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"google.golang.org/grpc"
)

const (
	transportGRPC = "grpc"
	transportHTTP = "http"
)

// UnaryServerInterceptor returns a gRPC interceptor that records metrics for each request.
func UnaryServerInterceptor(collector *Collector, exporter *PrometheusExporter) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		method := info.FullMethod

		resp, err := handler(ctx, req)

		record(collector, exporter, transportGRPC, method, time.Since(start).Seconds(), err != nil)
		return resp, err
	}
}

// HTTPMiddleware returns chi middleware that records metrics for each request.
// Requests are labelled by their route pattern so path parameters do not
// create a new series per group name. Responses with a 5xx status count as errors.
func HTTPMiddleware(collector *Collector, exporter *PrometheusExporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			method := r.Method + " " + routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			record(collector, exporter, transportHTTP, method, time.Since(start).Seconds(), status >= http.StatusInternalServerError)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func record(collector *Collector, exporter *PrometheusExporter, transport, method string, seconds float64, failed bool) {
	collector.RecordRequest(method)
	collector.RecordDuration(method, seconds)
	if failed {
		collector.RecordError(method)
	}

	if exporter == nil {
		return
	}
	exporter.RecordRequest(transport, method)
	exporter.RecordDuration(transport, method, seconds)
	if failed {
		exporter.RecordError(transport, method)
	}
}
