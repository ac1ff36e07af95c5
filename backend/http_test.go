package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/memexlabs/memex/store"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func capturing(status int, captured *http.Request, body *[]byte) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		*captured = *r
		if r.Body != nil {
			*body, _ = io.ReadAll(r.Body)
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(`{}`)),
			Request:    r,
		}, nil
	}
}

func TestHTTPService_CreateItem(t *testing.T) {
	var req http.Request
	var body []byte
	s := NewHTTPService("https://api.fake.test", "tok", "u1")
	s.HTTP = &http.Client{Transport: capturing(201, &req, &body)}

	err := s.CreateItem(context.Background(), store.Item{
		ID: "i1", OwnerID: "u1", Title: "example.com",
		URL: "https://example.com/a", Type: store.ContentTypeBookmark,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != http.MethodPost || req.URL.Path != "/tables/items" {
		t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("missing bearer auth, got %q", got)
	}

	var row map[string]any
	if err := json.Unmarshal(body, &row); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if row["id"] != "i1" || row["content_type"] != "bookmark" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestHTTPService_UpdateAndDeletePaths(t *testing.T) {
	var req http.Request
	var body []byte
	s := NewHTTPService("https://api.fake.test/", "tok", "u1")
	s.HTTP = &http.Client{Transport: capturing(200, &req, &body)}

	if err := s.UpdateSpace(context.Background(), store.Space{ID: "s1", Name: "n"}); err != nil {
		t.Fatalf("update space: %v", err)
	}
	if req.Method != http.MethodPatch || req.URL.Path != "/tables/spaces/s1" {
		t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
	}

	if err := s.RemoveItemFromSpace(context.Background(), "i1", "s1"); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if req.Method != http.MethodDelete || req.URL.Path != "/tables/item_spaces/i1:s1" {
		t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
	}
}

func TestHTTPService_Non2xxIsError(t *testing.T) {
	var req http.Request
	var body []byte
	s := NewHTTPService("https://api.fake.test", "tok", "u1")
	s.HTTP = &http.Client{Transport: capturing(500, &req, &body)}

	err := s.DeleteItem(context.Background(), "i1")
	if err == nil {
		t.Fatal("expected error on 500, got nil")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
