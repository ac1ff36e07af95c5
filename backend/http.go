package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/memexlabs/memex/internal/strutil"
	"github.com/memexlabs/memex/store"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPService talks to a table-like REST backend:
// POST/PATCH/DELETE {endpoint}/tables/{table}[/{id}] with bearer auth.
// The wire schema covers exactly the fields the client writes.
type HTTPService struct {
	Endpoint string
	Token    string
	UserID   string

	HTTP *http.Client
}

func NewHTTPService(endpoint, token, userID string) *HTTPService {
	return &HTTPService{
		Endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		Token:    strings.TrimSpace(token),
		UserID:   strings.TrimSpace(userID),
		HTTP:     &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (s *HTTPService) CurrentUserID() string { return s.UserID }

type itemRow struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type"`
	Archived    bool   `json:"archived"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	Meta        any    `json:"meta,omitempty"`
}

type spaceRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	OwnerID     string `json:"owner_id"`
	Archived    bool   `json:"archived"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type linkRow struct {
	ItemID  string `json:"item_id"`
	SpaceID string `json:"space_id"`
}

func (s *HTTPService) CreateItem(ctx context.Context, item store.Item) error {
	return s.do(ctx, http.MethodPost, "items", "", itemToRow(item))
}

func (s *HTTPService) UpdateItem(ctx context.Context, item store.Item) error {
	return s.do(ctx, http.MethodPatch, "items", item.ID, itemToRow(item))
}

func (s *HTTPService) DeleteItem(ctx context.Context, itemID string) error {
	return s.do(ctx, http.MethodDelete, "items", itemID, nil)
}

func (s *HTTPService) CreateSpace(ctx context.Context, space store.Space) error {
	return s.do(ctx, http.MethodPost, "spaces", "", spaceToRow(space))
}

func (s *HTTPService) UpdateSpace(ctx context.Context, space store.Space) error {
	return s.do(ctx, http.MethodPatch, "spaces", space.ID, spaceToRow(space))
}

func (s *HTTPService) DeleteSpace(ctx context.Context, spaceID string) error {
	return s.do(ctx, http.MethodDelete, "spaces", spaceID, nil)
}

func (s *HTTPService) AddItemToSpace(ctx context.Context, itemID, spaceID string) error {
	return s.do(ctx, http.MethodPost, "item_spaces", "", linkRow{ItemID: itemID, SpaceID: spaceID})
}

func (s *HTTPService) RemoveItemFromSpace(ctx context.Context, itemID, spaceID string) error {
	return s.do(ctx, http.MethodDelete, "item_spaces", itemID+":"+spaceID, nil)
}

func (s *HTTPService) SaveConversation(ctx context.Context, conv store.Conversation) error {
	return s.do(ctx, http.MethodPost, "conversations", "", conv)
}

func (s *HTTPService) do(ctx context.Context, method, table, id string, body any) error {
	if s.Endpoint == "" {
		return fmt.Errorf("backend endpoint is not configured")
	}

	target := s.Endpoint + "/tables/" + table
	if id != "" {
		target += "/" + url.PathEscape(id)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s row: %w", table, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s/%s failed (status %d): %s",
			method, table, id, resp.StatusCode, strutil.TruncateUTF8(string(raw), 256))
	}
	return nil
}

func itemToRow(item store.Item) itemRow {
	row := itemRow{
		ID:          item.ID,
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		URL:         item.URL,
		ContentType: string(item.Type),
		Archived:    item.Archived,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.Meta != nil {
		row.Meta = item.Meta
	}
	return row
}

func spaceToRow(space store.Space) spaceRow {
	// ItemCount is a derived cache; the remote recomputes its own.
	return spaceRow{
		ID:          space.ID,
		Name:        space.Name,
		Description: space.Description,
		Color:       space.Color,
		OwnerID:     space.OwnerID,
		Archived:    space.Archived,
		CreatedAt:   space.CreatedAt,
		UpdatedAt:   space.UpdatedAt,
	}
}
