package surreal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Decode unmarshals a raw result into T. A missing result decodes as T's zero value.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, fmt.Errorf("surreal: decode result: %w", err)
	}
	return out, nil
}

// ResultAs decodes a statement's result into T.
func ResultAs[T any](r Response) (T, error) {
	return Decode[T](r.Result)
}

// SelectAllAs returns every record in table decoded into T.
func SelectAllAs[T any](ctx context.Context, c *Client, table string) ([]T, error) {
	path, err := tablePath(table)
	if err != nil {
		return nil, err
	}
	raw, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	out, err := Decode[[]T](raw)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// SelectOneAs returns table:id decoded into T. found is false when the record does not exist.
func SelectOneAs[T any](ctx context.Context, c *Client, table, id string) (T, bool, error) {
	var zero T
	path, err := recordPath(table, id)
	if err != nil {
		return zero, false, err
	}
	raw, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, false, err
	}
	items, err := Decode[[]json.RawMessage](raw)
	if err != nil {
		return zero, false, err
	}
	if len(items) == 0 {
		return zero, false, nil
	}
	out, err := Decode[T](items[0])
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}
