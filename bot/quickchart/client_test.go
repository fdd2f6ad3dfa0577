package quickchart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chart/create" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["version"] != "2.9.4" || body["width"] != float64(500) {
			t.Errorf("unexpected body: %v", body)
		}
		if _, ok := body["chart"].(map[string]any); !ok {
			t.Errorf("chart missing: %v", body)
		}
		_, _ = w.Write([]byte(`{"success":true,"url":"https://quickchart.io/chart/render/abc"}`))
	}))
	defer srv.Close()

	url, err := NewClient(srv.Client(), srv.URL).Create(context.Background(), Request{
		Chart:   map[string]any{"type": "line"},
		Width:   500,
		Height:  300,
		Version: "2.9.4",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if url != "https://quickchart.io/chart/render/abc" {
		t.Fatalf("url=%q", url)
	}
}

func TestCreateNotSuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), srv.URL).Create(context.Background(), Request{Chart: map[string]any{}})
	if !errors.Is(err, ErrNotCreated) {
		t.Fatalf("expected ErrNotCreated, got %v", err)
	}
}

func TestCreateStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad chart", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), srv.URL).Create(context.Background(), Request{Chart: map[string]any{}})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400 StatusError, got %v", err)
	}
}
