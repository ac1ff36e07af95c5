package enrich

import (
	"context"
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

func htmlResponse(body string) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 200,
			Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	}
}

func TestEnrich_OpenGraphMetadata(t *testing.T) {
	page := `<html><head>
		<title>Fallback Title</title>
		<meta property="og:title" content="A Great Read">
		<meta property="og:type" content="article">
		<meta property="og:site_name" content="Example Blog">
		<meta property="og:description" content="Why it matters.">
		<meta property="og:image" content="https://example.com/cover.png">
	</head><body></body></html>`

	p := New()
	p.HTTP = &http.Client{Transport: htmlResponse(page)}
	p.now = func() int64 { return 42 }

	res, err := p.Enrich(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "A Great Read" {
		t.Fatalf("expected og:title, got %q", res.Title)
	}
	if res.Type != store.ContentTypeArticle {
		t.Fatalf("expected og:type to refine type, got %q", res.Type)
	}
	if res.Meta == nil || res.Meta.SiteName != "Example Blog" || res.Meta.ImageURL != "https://example.com/cover.png" {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}
	if res.Meta.FetchedAt != 42 {
		t.Fatalf("expected fetched_at from clock, got %d", res.Meta.FetchedAt)
	}
}

func TestEnrich_TitleTagFallback(t *testing.T) {
	p := New()
	p.HTTP = &http.Client{Transport: htmlResponse(`<html><head><title> Plain Page </title></head></html>`)}

	res, err := p.Enrich(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "Plain Page" {
		t.Fatalf("expected trimmed title tag, got %q", res.Title)
	}
	if res.Type != store.ContentTypeBookmark {
		t.Fatalf("expected bookmark, got %q", res.Type)
	}
	if res.Meta != nil {
		t.Fatalf("expected no meta for a bare page, got %+v", res.Meta)
	}
}

func TestEnrich_FetchFailureKeepsDetectedType(t *testing.T) {
	p := New()
	p.HTTP = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 503,
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    r,
		}, nil
	})}

	res, err := p.Enrich(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if res.Type != store.ContentTypeVideo {
		t.Fatalf("detected type should survive fetch failure, got %q", res.Type)
	}
}

func TestEnrich_RejectsNonHTML(t *testing.T) {
	p := New()
	p.HTTP = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 200,
			Header:     http.Header{"Content-Type": []string{"application/pdf"}},
			Body:       io.NopCloser(strings.NewReader("%PDF")),
			Request:    r,
		}, nil
	})}

	if _, err := p.Enrich(context.Background(), "https://example.com/doc"); err == nil {
		t.Fatal("expected error for non-html content type")
	}
}

func TestEnrich_InvalidURL(t *testing.T) {
	p := New()
	if _, err := p.Enrich(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}
