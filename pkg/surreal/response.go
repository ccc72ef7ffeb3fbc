package surreal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StatusOK is the envelope status of a successful statement.
const StatusOK = "OK"

// Response is the envelope the server wraps around every statement outcome.
type Response struct {
	Time   string          `json:"time"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
	Detail string          `json:"detail,omitempty"`
}

// OK reports whether the statement succeeded.
func (r Response) OK() bool { return r.Status == StatusOK }

// Records decodes the result as a sequence of records.
func (r Response) Records() ([]Record, error) { return decodeRecords(r.Result) }

func (r Response) String() string {
	result := string(r.Result)
	if result == "" {
		result = "null"
	}
	return fmt.Sprintf("Response(time=%q status=%q result=%s)", r.Time, r.Status, result)
}

// Record is one JSON object stored in a table.
type Record map[string]any

// ID returns the record's "id" field as a string, or "" when absent.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// parseEnvelopes decodes a response body into its generic JSON form and its envelopes.
func parseEnvelopes(raw []byte) ([]Response, any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("empty response body")
	}

	var body any
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return nil, nil, fmt.Errorf("decode response body: %w", err)
	}

	var envelopes []Response
	if err := json.Unmarshal(trimmed, &envelopes); err != nil {
		return nil, body, fmt.Errorf("decode response envelopes: %w", err)
	}
	if len(envelopes) == 0 {
		return nil, body, fmt.Errorf("response contains no statements")
	}
	return envelopes, body, nil
}

// decodeRecords accepts a JSON array of objects, a single object, or null.
func decodeRecords(raw json.RawMessage) ([]Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Record{}, nil
	}
	if trimmed[0] == '{' {
		var rec Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		return []Record{rec}, nil
	}
	records := []Record{}
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	}

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
