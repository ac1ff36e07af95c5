package store

type ContentType string

const (
	ContentTypeBookmark ContentType = "bookmark"
	ContentTypeNote     ContentType = "note"
	ContentTypeImage    ContentType = "image"
	ContentTypeVideo    ContentType = "video"
	ContentTypeArticle  ContentType = "article"
	ContentTypeProduct  ContentType = "product"
)

// Item is a single captured piece of content.
type Item struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Title     string      `json:"title"`
	URL       string      `json:"url,omitempty"`
	Type      ContentType `json:"content_type"`
	Archived  bool        `json:"archived"`
	CreatedAt int64       `json:"created_at"`
	UpdatedAt int64       `json:"updated_at"`
	Meta      *ItemMeta   `json:"meta,omitempty"`
}

// ItemMeta is the enrichment metadata attached after capture. It is a
// closed shape rather than a free-form map so the fields stay checkable.
type ItemMeta struct {
	SiteName    string `json:"site_name,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	FetchedAt   int64  `json:"fetched_at,omitempty"`
}

// Space is a user-defined collection of items.
type Space struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	OwnerID     string `json:"owner_id"`
	Archived    bool   `json:"archived"`
	ItemCount   int    `json:"item_count"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// ItemSpace links an item to a space. At most one link exists per pair.
type ItemSpace struct {
	ItemID    string `json:"item_id"`
	SpaceID   string `json:"space_id"`
	CreatedAt int64  `json:"created_at"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

type Message struct {
	ID        string       `json:"id"`
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	CreatedAt int64        `json:"created_at"`
	Meta      *MessageMeta `json:"meta,omitempty"`
}

// MessageMeta carries per-message assistant metadata: which model answered,
// token counts, and item ids attached for card rendering.
type MessageMeta struct {
	Model        string   `json:"model,omitempty"`
	InputTokens  int      `json:"input_tokens,omitempty"`
	OutputTokens int      `json:"output_tokens,omitempty"`
	ItemIDs      []string `json:"item_ids,omitempty"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

type Theme struct {
	Mode        ThemeMode `json:"mode"`
	AccentColor string    `json:"accent_color,omitempty"`
}
