// Package enrich turns a bare captured URL into a titled, typed item:
// URL heuristics pick a content type, then a bounded HTML fetch pulls the
// page title and OpenGraph metadata. Failures leave the provisional item
// untouched; enrichment is always best-effort.
package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/memexlabs/memex/internal/urlutil"
	"github.com/memexlabs/memex/store"
)

const (
	defaultTimeout  = 20 * time.Second
	defaultMaxBytes = int64(1 << 20)
	defaultUA       = "memex/1.0 (+https://github.com/memexlabs/memex)"
)

type Result struct {
	Title string
	Type  store.ContentType
	Meta  *store.ItemMeta
}

type Pipeline struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	HTTP      *http.Client

	log *slog.Logger
	now func() int64
}

type Option func(*Pipeline)

func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		Timeout:   defaultTimeout,
		MaxBytes:  defaultMaxBytes,
		UserAgent: defaultUA,
		HTTP:      &http.Client{Timeout: defaultTimeout},
		log:       slog.Default(),
		now:       func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enrich runs the full pipeline for one URL. The returned Result always
// carries a usable Type; Title and Meta are empty when the fetch failed
// or yielded nothing.
func (p *Pipeline) Enrich(ctx context.Context, rawURL string) (Result, error) {
	u, err := urlutil.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("parse url: %w", err)
	}

	out := Result{Type: DetectType(u)}

	page, err := p.fetch(ctx, u.String())
	if err != nil {
		// Type detection already succeeded; report the fetch failure so
		// the queue can decide, but keep what we have.
		return out, fmt.Errorf("fetch metadata: %w", err)
	}

	if page.title != "" {
		out.Title = page.title
	}
	if t, ok := typeFromOG(page.ogType); ok {
		out.Type = t
	}
	if page.siteName != "" || page.description != "" || page.imageURL != "" {
		out.Meta = &store.ItemMeta{
			SiteName:    page.siteName,
			Description: page.description,
			ImageURL:    page.imageURL,
			FetchedAt:   p.now(),
		}
	}
	return out, nil
}

type pageMeta struct {
	title       string
	ogType      string
	siteName    string
	description string
	imageURL    string
}

func (p *Pipeline) fetch(ctx context.Context, target string) (pageMeta, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return pageMeta{}, err
	}
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := p.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return pageMeta{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pageMeta{}, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "html") {
		return pageMeta{}, fmt.Errorf("not an html page: %s", ct)
	}

	maxBytes := p.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}
	return extractMeta(doc), nil
}

func extractMeta(doc *goquery.Document) pageMeta {
	out := pageMeta{
		title:       metaProperty(doc, "og:title"),
		ogType:      metaProperty(doc, "og:type"),
		siteName:    metaProperty(doc, "og:site_name"),
		description: metaProperty(doc, "og:description"),
		imageURL:    metaProperty(doc, "og:image"),
	}
	if out.title == "" {
		out.title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if out.description == "" {
		out.description = metaName(doc, "description")
	}
	if out.imageURL == "" {
		out.imageURL = metaName(doc, "twitter:image")
	}
	return out
}

func metaProperty(doc *goquery.Document, property string) string {
	v, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(v)
}

func metaName(doc *goquery.Document, name string) string {
	v, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return strings.TrimSpace(v)
}
