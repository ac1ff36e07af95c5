package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

var ErrNotHTTP = errors.New("not an http(s) url")

// Parse validates that raw is an absolute http(s) URL.
func Parse(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, ErrNotHTTP
	}
	return u, nil
}

// HostTitle derives a display title from a URL's host name, e.g.
// "https://www.example.com/a/b" -> "example.com". Used for provisional
// item titles before enrichment runs.
func HostTitle(raw string) (string, error) {
	u, err := Parse(raw)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return host, nil
}
