package surreal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	sqlPath = "sql"
	keyPath = "key"
)

// Execute runs a SurrealQL query and returns one envelope per statement, in
// execution order. Success follows the first envelope; callers inspect the
// status of later statements with Response.OK.
func (c *Client) Execute(ctx context.Context, query string) ([]Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("surreal: query is required")
	}
	ex, err := c.exchange(ctx, http.MethodPost, sqlPath, query)
	if err != nil {
		return nil, err
	}
	return ex.envelopes, nil
}

// CreateAll inserts records into table. Each record should carry its own "id".
func (c *Client) CreateAll(ctx context.Context, table string, records any) ([]Record, error) {
	path, err := tablePath(table)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, http.MethodPost, path, records)
}

// CreateOne inserts record under table:id and returns the created record.
func (c *Client) CreateOne(ctx context.Context, table, id string, record any) (Record, error) {
	path, err := recordPath(table, id)
	if err != nil {
		return nil, err
	}
	return c.single(ctx, http.MethodPost, path, record)
}

// SelectAll returns every record in table.
func (c *Client) SelectAll(ctx context.Context, table string) ([]Record, error) {
	path, err := tablePath(table)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, http.MethodGet, path, nil)
}

// SelectOne returns the record table:id. found is false when the record does not exist.
func (c *Client) SelectOne(ctx context.Context, table, id string) (rec Record, found bool, err error) {
	path, err := recordPath(table, id)
	if err != nil {
		return nil, false, err
	}
	records, err := c.records(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

// ReplaceOne overwrites table:id with record, creating it when absent.
// All fields must be supplied.
func (c *Client) ReplaceOne(ctx context.Context, table, id string, record any) (Record, error) {
	path, err := recordPath(table, id)
	if err != nil {
		return nil, err
	}
	return c.single(ctx, http.MethodPut, path, record)
}

// UpsertOne merges partial into table:id, creating the record when absent.
func (c *Client) UpsertOne(ctx context.Context, table, id string, partial any) (Record, error) {
	path, err := recordPath(table, id)
	if err != nil {
		return nil, err
	}
	return c.single(ctx, http.MethodPatch, path, partial)
}

// DeleteAll removes every record in table.
func (c *Client) DeleteAll(ctx context.Context, table string) ([]Record, error) {
	path, err := tablePath(table)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, http.MethodDelete, path, nil)
}

// DeleteOne removes table:id.
func (c *Client) DeleteOne(ctx context.Context, table, id string) ([]Record, error) {
	path, err := recordPath(table, id)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, http.MethodDelete, path, nil)
}

func (c *Client) records(ctx context.Context, method, path string, body any) ([]Record, error) {
	raw, err := c.Request(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("surreal: %s %s: %w", method, path, err)
	}
	return records, nil
}

func (c *Client) single(ctx context.Context, method, path string, body any) (Record, error) {
	records, err := c.records(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrEmptyResult, method, path)
	}
	return records[0], nil
}

func tablePath(table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("surreal: table is required")
	}
	return keyPath + "/" + url.PathEscape(table), nil
}

func recordPath(table, id string) (string, error) {
	path, err := tablePath(table)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("surreal: record id is required")
	}
	return path + "/" + url.PathEscape(id), nil
}
