// Package fixtures seeds tables from a YAML or JSON file.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/surreal-http/internal/logger"
	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

// File is the on-disk fixtures document.
type File struct {
	Tables []Table `json:"tables" yaml:"tables"`
}

// Table lists the records to create in one table.
// Truncate removes every existing record first.
type Table struct {
	Table    string           `json:"table" yaml:"table"`
	Truncate bool             `json:"truncate" yaml:"truncate"`
	Records  []surreal.Record `json:"records" yaml:"records"`
}

// Seeder is the subset of *surreal.Client used for seeding.
type Seeder interface {
	CreateAll(ctx context.Context, table string, records any) ([]surreal.Record, error)
	CreateOne(ctx context.Context, table, id string, record any) (surreal.Record, error)
	DeleteAll(ctx context.Context, table string) ([]surreal.Record, error)
}

var _ Seeder = (*surreal.Client)(nil)

// Summary reports how many records were created per table.
type Summary struct {
	Created map[string]int
	Deleted map[string]int
}

// Load reads and validates a fixtures file. The format follows the extension.
func Load(path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return File{}, errors.New("fixtures file path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open fixtures file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return File{}, fmt.Errorf("read fixtures file: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

// Parse decodes fixtures from raw. ext selects the decoder (".yaml", ".yml",
// ".json"); an empty ext tries YAML then JSON.
func Parse(raw []byte, ext string) (File, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	var (
		file File
		err  error
	)
	switch ext {
	case ".json":
		err = json.Unmarshal(raw, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	case "":
		if err = yaml.Unmarshal(raw, &file); err != nil {
			file = File{}
			err = json.Unmarshal(raw, &file)
		}
	default:
		return File{}, fmt.Errorf("unsupported fixtures format %q", ext)
	}
	if err != nil {
		return File{}, fmt.Errorf("decode fixtures: %w", err)
	}

	file = sanitize(file)
	if err := file.validate(); err != nil {
		return File{}, err
	}
	return file, nil
}

func sanitize(f File) File {
	for i := range f.Tables {
		f.Tables[i].Table = strings.TrimSpace(f.Tables[i].Table)
		for j, rec := range f.Tables[i].Records {
			f.Tables[i].Records[j] = normalizeRecord(rec)
		}
	}
	return f
}

func (f File) validate() error {
	if len(f.Tables) == 0 {
		return errors.New("fixtures file contains no tables")
	}
	seen := make(map[string]struct{}, len(f.Tables))
	for i, t := range f.Tables {
		if t.Table == "" {
			return fmt.Errorf("tables[%d]: table is required", i)
		}
		if _, dup := seen[t.Table]; dup {
			return fmt.Errorf("duplicate fixtures table %q", t.Table)
		}
		seen[t.Table] = struct{}{}
	}
	return nil
}

// Seed creates the fixtures through s. Tables are seeded in file order and
// a failing table does not stop the others.
func Seed(ctx context.Context, s Seeder, f File, log logger.Logger) (Summary, error) {
	if log == nil {
		log = &logger.NopLogger{}
	}
	sum := Summary{Created: map[string]int{}, Deleted: map[string]int{}}
	if s == nil {
		return sum, errors.New("fixtures seeder is nil")
	}

	var errs []error
	for _, t := range f.Tables {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		deleted, created, err := seedTable(ctx, s, t)
		sum.Deleted[t.Table] = deleted
		sum.Created[t.Table] = created
		if err != nil {
			errs = append(errs, fmt.Errorf("seed table %s: %w", t.Table, err))
			log.ErrorObj("fixtures table failed", "fixtures_error", map[string]any{
				"table": t.Table,
				"error": err.Error(),
			})
			continue
		}
		log.InfoObj("fixtures table seeded", "fixtures_result", map[string]any{
			"table":   t.Table,
			"deleted": deleted,
			"created": created,
		})
	}
	return sum, errors.Join(errs...)
}

func seedTable(ctx context.Context, s Seeder, t Table) (deleted, created int, err error) {
	if t.Truncate {
		removed, err := s.DeleteAll(ctx, t.Table)
		if err != nil {
			return 0, 0, fmt.Errorf("truncate: %w", err)
		}
		deleted = len(removed)
	}
	if len(t.Records) == 0 {
		return deleted, 0, nil
	}

	if !allHaveIDs(t.Records) {
		out, err := s.CreateAll(ctx, t.Table, t.Records)
		if err != nil {
			return deleted, 0, err
		}
		return deleted, len(out), nil
	}

	var errs []error
	for _, rec := range t.Records {
		id := recordKey(t.Table, rec.ID())
		body := make(surreal.Record, len(rec))
		for k, v := range rec {
			if k != "id" {
				body[k] = v
			}
		}
		if _, err := s.CreateOne(ctx, t.Table, id, body); err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", id, err))
			continue
		}
		created++
	}
	return deleted, created, errors.Join(errs...)
}

func allHaveIDs(records []surreal.Record) bool {
	for _, rec := range records {
		if rec.ID() == "" {
			return false
		}
	}
	return true
}

// recordKey strips a "table:" prefix from a full record id.
func recordKey(table, id string) string {
	return strings.TrimPrefix(id, table+":")
}

// normalizeRecord converts YAML-decoded nested maps into JSON-encodable values.
func normalizeRecord(rec surreal.Record) surreal.Record {
	out := make(surreal.Record, len(rec))
	for k, v := range rec {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalizeValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalizeValue(vv)
		}
		return out
	default:
		return v
	}
}
