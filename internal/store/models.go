package store

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               int64     `json:"id"`
	ExternalUserID   string    `json:"external_user_id"`
	PasswordHash     string    `json:"-"` // Do not expose this in JSON responses
	Role             string    `json:"role"`
	ActiveDocumentID *string   `json:"active_document_id"` // Nullable; must reference an existing document
	CreatedAt        time.Time `json:"created_at"`
}

// Document is an ingested upload. Immutable once created; a re-upload under
// the same name replaces the record wholesale, it is never partially mutated.
type Document struct {
	ID         string    `json:"id"` // UUID
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	MediaType  string    `json:"media_type"`
	Content    string    `json:"-"` // Full extracted text, not sent in listings
	SizeBytes  int64     `json:"size_bytes"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Chat struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"user_id"`
	Title     *string   `json:"title"` // Nullable
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID               string    `json:"id"` // Using UUID for external ID
	ChatID           string    `json:"chat_id"`
	Sender           string    `json:"sender"` // "user" or "model"
	Content          string    `json:"content"`
	SourceDocument   *string   `json:"source_document"` // Name of the document the reply was grounded on
	Timestamp        time.Time `json:"timestamp"`
	NegativeFeedback bool      `json:"negative_feedback"`
}

// UsageStats is the aggregate view served to admins.
type UsageStats struct {
	Users     int64       `json:"users"`
	Documents int64       `json:"documents"`
	Messages  int64       `json:"messages"`
	PerUser   []UserUsage `json:"per_user"`
}

type UserUsage struct {
	ExternalUserID string `json:"external_user_id"`
	Documents      int64  `json:"documents"`
	Messages       int64  `json:"messages"`
}
