// Package builtin provides the assistant's tools over local data: search
// and stats in the standard set, plus introspection extras for architect
// mode. Tools only read the store; mutations stay with the designated
// store actions.
package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/memexlabs/memex/store"
	"github.com/memexlabs/memex/tools"
)

// ProcessingReporter is the slice of the capture queue the architect
// tools need.
type ProcessingReporter interface {
	Processing() []string
}

type ToolSet struct {
	Store *store.Store
	Queue ProcessingReporter
}

// Standard returns the default assistant tool set.
func (s ToolSet) Standard() []tools.Tool {
	return []tools.Tool{
		&searchItemsTool{s: s},
		&listSpacesTool{s: s},
		&spaceStatsTool{s: s},
		&recentItemsTool{s: s},
	}
}

// Architect returns the extended set: everything standard plus
// introspection tools.
func (s ToolSet) Architect() []tools.Tool {
	return append(s.Standard(),
		&processingStatusTool{s: s},
		&storageStatsTool{s: s},
	)
}

// NewStandardRegistry builds a registry with the standard tool set.
func NewStandardRegistry(s ToolSet) *tools.Registry {
	r := tools.NewRegistry()
	for _, t := range s.Standard() {
		r.Register(t)
	}
	return r
}

// NewArchitectRegistry builds a registry with the architect tool set.
func NewArchitectRegistry(s ToolSet) *tools.Registry {
	r := tools.NewRegistry()
	for _, t := range s.Architect() {
		r.Register(t)
	}
	return r
}

// --- search_items ---

type searchItemsTool struct{ s ToolSet }

func (t *searchItemsTool) Name() string { return "search_items" }
func (t *searchItemsTool) Description() string {
	return "Search the user's saved items by keyword over title, url and description. Returns matching items."
}
func (t *searchItemsTool) ParameterSchema() string {
	return mustJSON(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "Search keywords."},
			"limit": map[string]any{"type": "integer", "description": "Max results (default 10)."},
		},
		"required": []string{"query"},
	})
}

type searchResultItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Type  string `json:"type"`
}

func (t *searchItemsTool) Execute(_ context.Context, params map[string]any) (string, error) {
	query := strings.TrimSpace(asString(params["query"]))
	if query == "" {
		return "", fmt.Errorf("missing required param: query")
	}
	limit := asInt(params["limit"], 10)

	matches := t.s.Store.SearchItems(query, limit)
	items := make([]searchResultItem, 0, len(matches))
	for _, it := range matches {
		items = append(items, searchResultItem{
			ID:    it.ID,
			Title: it.Title,
			URL:   it.URL,
			Type:  string(it.Type),
		})
	}
	return mustJSON(map[string]any{
		"ok":    true,
		"count": len(items),
		"items": items,
	}), nil
}

// --- list_spaces ---

type listSpacesTool struct{ s ToolSet }

func (t *listSpacesTool) Name() string { return "list_spaces" }
func (t *listSpacesTool) Description() string {
	return "List the user's active (non-archived) spaces with their item counts."
}
func (t *listSpacesTool) ParameterSchema() string {
	return mustJSON(map[string]any{"type": "object", "properties": map[string]any{}})
}
func (t *listSpacesTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	spaces := t.s.Store.ActiveSpaces()
	out := make([]map[string]any, 0, len(spaces))
	for _, sp := range spaces {
		out = append(out, map[string]any{
			"id":         sp.ID,
			"name":       sp.Name,
			"item_count": sp.ItemCount,
		})
	}
	return mustJSON(map[string]any{"ok": true, "spaces": out}), nil
}

// --- space_stats ---

type spaceStatsTool struct{ s ToolSet }

func (t *spaceStatsTool) Name() string { return "space_stats" }
func (t *spaceStatsTool) Description() string {
	return "Get one space by id: name, description, item count and the items it contains."
}
func (t *spaceStatsTool) ParameterSchema() string {
	return mustJSON(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"space_id": map[string]any{"type": "string", "description": "Space id."},
		},
		"required": []string{"space_id"},
	})
}
func (t *spaceStatsTool) Execute(_ context.Context, params map[string]any) (string, error) {
	id := strings.TrimSpace(asString(params["space_id"]))
	if id == "" {
		return "", fmt.Errorf("missing required param: space_id")
	}
	sp, ok := t.s.Store.SpaceByID(id)
	if !ok {
		return "", fmt.Errorf("space not found: %s", id)
	}
	items := t.s.Store.ItemsInSpace(id)
	rows := make([]searchResultItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, searchResultItem{ID: it.ID, Title: it.Title, URL: it.URL, Type: string(it.Type)})
	}
	return mustJSON(map[string]any{
		"ok":          true,
		"id":          sp.ID,
		"name":        sp.Name,
		"description": sp.Description,
		"item_count":  sp.ItemCount,
		"items":       rows,
	}), nil
}

// --- recent_items ---

type recentItemsTool struct{ s ToolSet }

func (t *recentItemsTool) Name() string { return "recent_items" }
func (t *recentItemsTool) Description() string {
	return "List the most recently captured items."
}
func (t *recentItemsTool) ParameterSchema() string {
	return mustJSON(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max results (default 10)."},
		},
	})
}
func (t *recentItemsTool) Execute(_ context.Context, params map[string]any) (string, error) {
	limit := asInt(params["limit"], 10)
	all := t.s.Store.Items()
	out := make([]searchResultItem, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		it := all[i]
		if it.Archived {
			continue
		}
		out = append(out, searchResultItem{ID: it.ID, Title: it.Title, URL: it.URL, Type: string(it.Type)})
	}
	return mustJSON(map[string]any{"ok": true, "count": len(out), "items": out}), nil
}

// --- processing_status (architect) ---

type processingStatusTool struct{ s ToolSet }

func (t *processingStatusTool) Name() string { return "processing_status" }
func (t *processingStatusTool) Description() string {
	return "Report which item ids are currently queued or running in the enrichment pipeline."
}
func (t *processingStatusTool) ParameterSchema() string {
	return mustJSON(map[string]any{"type": "object", "properties": map[string]any{}})
}
func (t *processingStatusTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	ids := []string{}
	if t.s.Queue != nil {
		ids = t.s.Queue.Processing()
	}
	return mustJSON(map[string]any{"ok": true, "processing": ids, "count": len(ids)}), nil
}

// --- storage_stats (architect) ---

type storageStatsTool struct{ s ToolSet }

func (t *storageStatsTool) Name() string { return "storage_stats" }
func (t *storageStatsTool) Description() string {
	return "Report collection sizes for the local store (items, spaces, links, conversations)."
}
func (t *storageStatsTool) ParameterSchema() string {
	return mustJSON(map[string]any{"type": "object", "properties": map[string]any{}})
}
func (t *storageStatsTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	return mustJSON(map[string]any{"ok": true, "counts": t.s.Store.Counts()}), nil
}
