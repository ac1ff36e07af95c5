package enrich

import (
	"net/url"
	"testing"

	"github.com/memexlabs/memex/store"
)

func TestDetectType(t *testing.T) {
	cases := []struct {
		url  string
		want store.ContentType
	}{
		{"https://www.youtube.com/watch?v=abc", store.ContentTypeVideo},
		{"https://youtu.be/abc", store.ContentTypeVideo},
		{"https://vimeo.com/12345", store.ContentTypeVideo},
		{"https://imgur.com/gallery/xyz", store.ContentTypeImage},
		{"https://cdn.example.com/pic.PNG", store.ContentTypeImage},
		{"https://example.com/photo.webp", store.ContentTypeImage},
		{"https://www.amazon.com/dp/B000", store.ContentTypeProduct},
		{"https://www.amazon.co.uk/dp/B000", store.ContentTypeProduct},
		{"https://www.etsy.com/listing/1", store.ContentTypeProduct},
		{"https://medium.com/@a/post", store.ContentTypeArticle},
		{"https://someone.substack.com/p/post", store.ContentTypeArticle},
		{"https://example.com/blog/2026/post", store.ContentTypeArticle},
		{"https://example.com", store.ContentTypeBookmark},
		{"https://github.com/golang/go", store.ContentTypeBookmark},
	}
	for _, c := range cases {
		u, err := url.Parse(c.url)
		if err != nil {
			t.Fatalf("parse %q: %v", c.url, err)
		}
		if got := DetectType(u); got != c.want {
			t.Errorf("DetectType(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestDetectType_NilURL(t *testing.T) {
	if got := DetectType(nil); got != store.ContentTypeBookmark {
		t.Fatalf("expected bookmark for nil url, got %q", got)
	}
}

func TestTypeFromOG(t *testing.T) {
	cases := []struct {
		in   string
		want store.ContentType
		ok   bool
	}{
		{"video.movie", store.ContentTypeVideo, true},
		{"article", store.ContentTypeArticle, true},
		{"product.item", store.ContentTypeProduct, true},
		{"website", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := typeFromOG(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("typeFromOG(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
