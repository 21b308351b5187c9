package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/asakaida/groupperm/internal/handlers"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func mustStruct(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("failed to build struct: %v", err)
	}
	return s
}

// TestGroupScenario walks a group through its lifecycle over both transports
func TestGroupScenario(t *testing.T) {
	e := SetupE2ETest(t)
	client := e.GroupClient
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Log("Step 1: seeded groups are present")
	root, err := client.GetGroup(ctx, mustStruct(t, map[string]interface{}{"name": "root"}))
	if err != nil {
		t.Fatalf("GetGroup(root) failed: %v", err)
	}
	if mask := root.GetFields()["mask"].GetNumberValue(); mask != 255 {
		t.Errorf("expected root mask 255, got %v", mask)
	}

	t.Log("Step 2: save readers by permission name")
	_, err = client.SaveGroup(ctx, mustStruct(t, map[string]interface{}{
		"name":        "readers",
		"permissions": []interface{}{"viewMap", "viewMapGym", "viewMapPokestop"},
	}))
	if err != nil {
		t.Fatalf("SaveGroup(readers) failed: %v", err)
	}

	t.Log("Step 3: strict insert of an existing name is rejected")
	_, err = client.SaveGroup(ctx, mustStruct(t, map[string]interface{}{
		"name":   "readers",
		"mask":   255,
		"upsert": false,
	}))
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}

	t.Log("Step 4: HTTP sees the unchanged row")
	resp, err := http.Get(e.HTTPServer.URL + "/api/v1/groups/readers")
	if err != nil {
		t.Fatalf("GET readers failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Data handlers.GroupResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Mask != 193 {
		t.Errorf("expected readers mask 193, got %d", body.Data.Mask)
	}

	t.Log("Step 5: upsert over HTTP overwrites every column")
	req, err := http.NewRequest(http.MethodPut, e.HTTPServer.URL+"/api/v1/groups/readers", strings.NewReader(`{"permissions":["viewStats"]}`))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT readers failed: %v", err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", putResp.StatusCode)
	}

	got, err := client.GetGroup(ctx, mustStruct(t, map[string]interface{}{"name": "readers"}))
	if err != nil {
		t.Fatalf("GetGroup(readers) failed: %v", err)
	}
	if mask := got.GetFields()["mask"].GetNumberValue(); mask != 8 {
		t.Errorf("expected readers mask 8 after upsert, got %v", mask)
	}

	t.Log("Step 6: delete and confirm absence")
	if _, err := client.DeleteGroup(ctx, mustStruct(t, map[string]interface{}{"name": "readers"})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	_, err = client.GetGroup(ctx, mustStruct(t, map[string]interface{}{"name": "readers"}))
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}

	t.Log("Step 7: store calls were recorded")
	storeMetrics := e.Collector.GetStoreMetrics()
	if storeMetrics.OperationCounts["get"] < 3 {
		t.Errorf("expected at least 3 store reads, got %d", storeMetrics.OperationCounts["get"])
	}
	if storeMetrics.ErrorCounts["duplicate"] != 1 {
		t.Errorf("expected 1 duplicate error, got %d", storeMetrics.ErrorCounts["duplicate"])
	}
}
