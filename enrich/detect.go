package enrich

import (
	"net/url"
	"path"
	"strings"

	"github.com/memexlabs/memex/store"
)

var videoHosts = []string{
	"youtube.com", "youtu.be", "vimeo.com", "twitch.tv", "dailymotion.com",
}

var imageHosts = []string{
	"imgur.com", "flickr.com", "unsplash.com", "giphy.com",
}

var productHosts = []string{
	"amazon.", "ebay.", "etsy.com", "aliexpress.com",
}

var articleHosts = []string{
	"medium.com", "substack.com", "dev.to", "news.ycombinator.com",
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".svg": true, ".avif": true,
}

// DetectType guesses an item's content type from URL heuristics alone.
// The metadata fetch may refine it further (og:type); anything unmatched
// stays a plain bookmark.
func DetectType(u *url.URL) store.ContentType {
	if u == nil {
		return store.ContentTypeBookmark
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	if imageExts[strings.ToLower(path.Ext(u.Path))] {
		return store.ContentTypeImage
	}
	for _, h := range videoHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return store.ContentTypeVideo
		}
	}
	for _, h := range imageHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return store.ContentTypeImage
		}
	}
	for _, h := range productHosts {
		if strings.HasPrefix(host, h) || strings.Contains(host, "."+h) {
			return store.ContentTypeProduct
		}
	}
	for _, h := range articleHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return store.ContentTypeArticle
		}
	}
	if strings.Contains(u.Path, "/blog/") || strings.Contains(u.Path, "/article") {
		return store.ContentTypeArticle
	}
	return store.ContentTypeBookmark
}

// typeFromOG maps an og:type value onto our content types.
func typeFromOG(ogType string) (store.ContentType, bool) {
	ogType = strings.ToLower(strings.TrimSpace(ogType))
	switch {
	case ogType == "":
		return "", false
	case strings.HasPrefix(ogType, "video"):
		return store.ContentTypeVideo, true
	case strings.HasPrefix(ogType, "article"), ogType == "blog":
		return store.ContentTypeArticle, true
	case strings.HasPrefix(ogType, "product"):
		return store.ContentTypeProduct, true
	case strings.HasPrefix(ogType, "image"):
		return store.ContentTypeImage, true
	default:
		return "", false
	}
}
