package domain

import (
	"time"
)

// PainRecord is a saved snapshot of the selection state. Records are never
// mutated after creation and are only removed by a bulk clear.
type PainRecord struct {
	ID        string            `json:"id"`
	Region    BodyRegion        `json:"region"`
	Intensity int               `json:"intensity"` // 1..10
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"` // Optional free-form notes (triggers, context)
}
