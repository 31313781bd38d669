// Package domain defines the persistence models for uploaded documents and
// chat history. These types are mapped with GORM and form the core data layer
// of the document-chat application.
package domain

import (
	"encoding/json"
	"time"
)

// SessionGuest is the placeholder session identifier. There is no user login;
// every chat turn belongs to this nominal session.
const SessionGuest = "guest_session"

// Document represents one uploaded file together with the plain text extracted
// from it at ingestion time. The text is derived exactly once; it is never
// re-extracted after the row is written.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), generated at ingestion.
//   - Filename: original user-supplied name, stored verbatim. Display-only:
//     storage paths are always derived from ID, never from this value.
//   - StoragePath: location of the persisted file bytes, set once.
//   - TextContent: extracted plain text; empty when extraction failed or the
//     type was unsupported.
//   - FileSize: byte length of the stored file.
//   - UploadDate: set once at ingestion.
type Document struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Filename    string    `json:"filename"     gorm:"type:varchar(255);not null"`
	StoragePath string    `json:"-"            gorm:"type:varchar(512);not null"`
	TextContent string    `json:"-"            gorm:"type:text"`
	FileSize    int64     `json:"file_size"`
	UploadDate  time.Time `json:"upload_date"  gorm:"index"`
}

// TableName returns the database table name for Document.
func (Document) TableName() string { return "documents" }

// ChatTurn is one logged question/answer exchange. Turns are insert-only:
// they are created exactly once per chat request and never updated. Provider
// failures are recorded as successful turns whose Response carries the error
// message.
type ChatTurn struct {
	ID           int64     `json:"id"            gorm:"primaryKey;autoIncrement"`
	SessionID    string    `json:"session_id"    gorm:"type:varchar(255);not null"`
	Message      string    `json:"message"       gorm:"type:text;not null"`
	Response     string    `json:"response"      gorm:"type:text;not null"`
	IsPredefined bool      `json:"is_predefined" gorm:"default:false"`
	DocumentIDs  string    `json:"-"             gorm:"column:document_ids;type:text"`
	Timestamp    time.Time `json:"timestamp"     gorm:"index"`
}

// TableName returns the database table name for ChatTurn.
func (ChatTurn) TableName() string { return "chat_history" }

// DocumentIDList decodes the serialized document id list. Malformed or empty
// payloads decode to an empty list; references to deleted documents are
// tolerated as lookup misses, never as errors.
func (t *ChatTurn) DocumentIDList() []string {
	if t.DocumentIDs == "" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(t.DocumentIDs), &ids); err != nil || ids == nil {
		return []string{}
	}
	return ids
}

// SetDocumentIDs serializes ids into the turn. A nil slice is stored as an
// empty JSON array so DocumentIDList round-trips cleanly.
func (t *ChatTurn) SetDocumentIDs(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		t.DocumentIDs = "[]"
		return
	}
	t.DocumentIDs = string(b)
}

// TurnDocument is the join row linking a chat turn to one referenced document.
// It replaces substring matching over the serialized id list as the cascade
// index: deleting a document deletes its join rows in one indexed query.
type TurnDocument struct {
	TurnID     int64  `json:"turn_id"     gorm:"primaryKey;autoIncrement:false"`
	DocumentID string `json:"document_id" gorm:"type:char(36);primaryKey;index:idx_turn_docs_doc"`
}

// TableName returns the database table name for TurnDocument.
func (TurnDocument) TableName() string { return "chat_turn_documents" }

// Idempotency records a processed Idempotency-Key for POST /chat so replayed
// requests can be recognized. Rows expire after a configured TTL.
type Idempotency struct {
	Key       string    `json:"key"        gorm:"type:varchar(200);primaryKey"`
	SessionID string    `json:"session_id" gorm:"type:varchar(255);not null;index"`
	TurnID    int64     `json:"turn_id"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// TableName returns the database table name for Idempotency.
func (Idempotency) TableName() string { return "idempotency" }
