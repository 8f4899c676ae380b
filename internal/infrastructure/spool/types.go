package spool

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry wraps one spooled activity record awaiting replay into primary
// storage.
type Entry struct {
	ID        string          `json:"id"`
	TaskID    string          `json:"task_id"`
	Payload   json.RawMessage `json:"payload"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}
