package exporter

import (
	"context"

	"github.com/samvad-hq/surreal-http/pkg/publishers"
)

// EventPublisher delivers exported records downstream.
// It returns the number of sinks that accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which record versions were already exported.
type Deduper interface {
	SeenRecord(key string) (bool, error)
	MarkRecord(key string) error
}
