package publishers

import (
	"time"

	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

// Event represents one exported record.
type Event struct {
	SourceID   string         `json:"source_id"`
	Table      string         `json:"table,omitempty"`
	RecordID   string         `json:"record_id"`
	Record     surreal.Record `json:"record"`
	ExportedAt time.Time      `json:"exported_at"`
}

// NewEvent constructs an Event for the given source + record.
func NewEvent(sourceID, table string, rec surreal.Record) Event {
	return Event{
		SourceID:   sourceID,
		Table:      table,
		RecordID:   rec.ID(),
		Record:     rec,
		ExportedAt: time.Now().UTC(),
	}
}

// attributes are the message attributes attached by queue-based sinks.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{"source_id": e.SourceID}
	if e.Table != "" {
		attrs["table"] = e.Table
	}
	if e.RecordID != "" {
		attrs["record_id"] = e.RecordID
	}
	return attrs
}
