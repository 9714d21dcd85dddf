package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is an anonymous client identity. No personal data is attached;
// the ID only namespaces the stored pain records.
type Session struct {
	ID        uuid.UUID `json:"id"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
