package projects

import (
	"time"

	"github.com/shotflow/internal/chat"
)

// Project is a production (a shoot or campaign) owned by a user. The hosted
// auth service owns user identity; we only store the owner id it issued.
type Project struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Kind      string    `json:"kind" db:"kind"` // template key, e.g. "commercial"
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Document is a production document inside a project. DocType is validated
// against the same closed tool set the prompt assembler uses, so the chat
// endpoint and the document store can never disagree about what a document
// family is.
type Document struct {
	ID        string        `json:"id" db:"id"`
	ProjectID string        `json:"project_id" db:"project_id"`
	DocType   chat.ToolType `json:"doc_type" db:"doc_type"`
	Title     string        `json:"title" db:"title"`
	// Content is the document body as the editor saved it. Stored opaque;
	// the backend never parses it.
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
