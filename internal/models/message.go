package models

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// Message is one chat entry on a connection. Kind discriminates between a
// plain text body and a stored attachment; attachment metadata lives in
// dedicated columns instead of being encoded into the body.
type Message struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ConnectionID uint       `gorm:"not null;index" json:"connection_id"`
	Connection   Connection `gorm:"foreignKey:ConnectionID;constraint:OnDelete:CASCADE" json:"-"`
	SenderID     uint       `gorm:"not null;index" json:"sender_id"`
	RecipientID  uint       `gorm:"not null;index" json:"recipient_id"`
	Kind         string     `gorm:"type:varchar(12);not null;default:'text'" json:"kind"`
	Body         string     `gorm:"type:text" json:"body"`
	FileName     string     `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	FileType     string     `gorm:"type:varchar(100)" json:"file_type,omitempty"`
	FileSize     int64      `json:"file_size,omitempty"`
	FilePath     string     `gorm:"type:varchar(500)" json:"file_path,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// Message kind constants
const (
	MessageKindText       = "text"
	MessageKindAttachment = "attachment"
)

// AttachmentMeta describes a stored chat attachment.
type AttachmentMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Path string `json:"path"`
}

const (
	legacyFilePrefix  = "[[file:"
	legacyMediaPrefix = "[[media:"
	legacyClose       = "]]"
)

// DecodeLegacyAttachment parses the historical sentinel-wrapped body format
// "[[file:<url-encoded JSON>]]" (and its "media" variant) that earlier
// clients stored in the text column. Imported rows are rewritten into the
// tagged form; this decoder only exists for that migration path and for
// harvesting attachment paths on account deletion.
func DecodeLegacyAttachment(body string) (*AttachmentMeta, bool) {
	var prefix string
	switch {
	case strings.HasPrefix(body, legacyFilePrefix):
		prefix = legacyFilePrefix
	case strings.HasPrefix(body, legacyMediaPrefix):
		prefix = legacyMediaPrefix
	default:
		return nil, false
	}
	if !strings.HasSuffix(body, legacyClose) {
		return nil, false
	}

	encoded := body[len(prefix) : len(body)-len(legacyClose)]
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return nil, false
	}

	var meta AttachmentMeta
	if err := json.Unmarshal([]byte(decoded), &meta); err != nil {
		return nil, false
	}
	if meta.Path == "" && meta.Name == "" {
		return nil, false
	}
	return &meta, true
}
