package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]int{"mask": 193})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Success || body.Data["mask"] != 193 {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, string)
		status int
		code   string
	}{
		{name: "bad request", write: BadRequest, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "not found", write: NotFound, status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "conflict", write: Conflict, status: http.StatusConflict, code: "CONFLICT"},
		{name: "internal", write: InternalError, status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
		{name: "unavailable", write: ServiceUnavailable, status: http.StatusServiceUnavailable, code: "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, "boom")

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}

			var body APIResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Success {
				t.Error("error response must not be successful")
			}
			if body.Error == nil || body.Error.Code != tt.code || body.Error.Message != "boom" {
				t.Errorf("unexpected error body %+v", body.Error)
			}
		})
	}
}
