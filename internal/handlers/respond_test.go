package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kidlanes/internal/genai"
	"kidlanes/internal/service"
	"kidlanes/internal/validation"
	"kidlanes/internal/youtube"
)

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", validation.ValidationError{Field: "prompt", Message: "prompt is required"}, http.StatusBadRequest},
		{"email taken", service.ErrEmailTaken, http.StatusConflict},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"bad pin", service.ErrInvalidPIN, http.StatusUnauthorized},
		{"expired session", service.ErrSessionExpired, http.StatusUnauthorized},
		{"not authorized", service.ErrNotAuthorized, http.StatusForbidden},
		{"profile missing", service.ErrProfileNotFound, http.StatusNotFound},
		{"lane missing", service.ErrLaneNotFound, http.StatusNotFound},
		{"item missing", service.ErrItemNotFound, http.StatusNotFound},
		{"generation parse failure", &genai.ParseError{Raw: "not json", Err: errors.New("bad")}, http.StatusBadGateway},
		{"generation api failure", &genai.APIError{StatusCode: 500, Body: "boom"}, http.StatusBadGateway},
		{"search api failure", &youtube.APIError{StatusCode: 403, Body: "quota"}, http.StatusBadGateway},
		{"wrapped sentinel", errors.Join(errors.New("context"), service.ErrLaneNotFound), http.StatusNotFound},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q, want application/json", ct)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not json: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected an error message in the body")
			}
		})
	}
}

func TestRespondServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, errors.New("pq: connection refused on 10.0.0.3"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal detail leaked: %q", body["error"])
	}
}
