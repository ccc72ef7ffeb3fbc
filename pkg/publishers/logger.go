package publishers

// Logger defines the logging surface sinks rely on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// deliveryFields are the structured fields logged for one sink delivery.
func deliveryFields(publisherID string, evt Event, extra map[string]any) map[string]any {
	fields := map[string]any{
		"publisher_id": publisherID,
		"source_id":    evt.SourceID,
		"record_id":    evt.RecordID,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}
