package resumes

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusCompleted
}

const DefaultTemplate = "modern"

// Resume is a stored resume. Version increments on every write.
type Resume struct {
	ID        int64
	UserID    int64
	Title     string
	Template  string
	Content   map[string]any
	Score     int
	Status    Status
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Record is the full JSON representation returned by create, update and retrieve.
type Record struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Template  string         `json:"template"`
	Content   map[string]any `json:"content"`
	Score     int            `json:"score"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	User      int64          `json:"user"`
}

func (r Resume) Record() Record {
	content := r.Content
	if content == nil {
		content = map[string]any{}
	}
	return Record{
		ID:        r.ID,
		Title:     r.Title,
		Template:  r.Template,
		Content:   content,
		Score:     r.Score,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
		User:      r.UserID,
	}
}

const listTimeLayout = "2006-01-02T15:04:05Z"

// ListItem is the lightweight projection used by the list endpoint.
type ListItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Template    string `json:"template"`
	Score       int    `json:"score"`
	LastUpdated string `json:"lastUpdated"`
	Status      Status `json:"status"`
}

func (r Resume) ListItem() ListItem {
	return ListItem{
		ID:          r.ID,
		Title:       r.Title,
		Template:    r.Template,
		Score:       r.Score,
		LastUpdated: r.UpdatedAt.UTC().Format(listTimeLayout),
		Status:      r.Status,
	}
}

// Page is a page-number paginated list.
type Page struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []ListItem `json:"results"`
}

// ListFilter scopes a list query.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

// Toast is a transient notification for the frontend.
type Toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// AIAnalysis is the subset of a review attached to the preview.
type AIAnalysis struct {
	Suggestions []string `json:"suggestions"`
	Details     string   `json:"details"`
	Confidence  float64  `json:"confidence"`
}

// PreviewResponse is the retrieve envelope.
type PreviewResponse struct {
	Resume Preview `json:"resume"`
	Toast  *Toast  `json:"toast"`
}
