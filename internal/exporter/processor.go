package exporter

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samvad-hq/surreal-http/internal/logger"
	"github.com/samvad-hq/surreal-http/pkg/publishers"
	"github.com/samvad-hq/surreal-http/pkg/sources"
	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

// SourceProcessor fetches one source, drops already exported records and
// publishes the rest.
type SourceProcessor struct {
	registry  sources.FetcherRegistry
	publisher EventPublisher
	log       logger.Logger
	dedupe    Deduper
}

// NewSourceProcessor builds a processor. A nil publisher or deduper is allowed.
func NewSourceProcessor(reg sources.FetcherRegistry, pub EventPublisher, log logger.Logger, dedupe Deduper) *SourceProcessor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &SourceProcessor{
		registry:  reg,
		publisher: pub,
		log:       log,
		dedupe:    dedupe,
	}
}

// Process exports the records of src. idx is the position of src in the pass.
func (p *SourceProcessor) Process(ctx context.Context, src sources.Source, idx int) error {
	fetcher, err := p.registry.FetcherFor(src)
	if err != nil {
		return fmt.Errorf("resolve fetcher for source %s: %w", src.ID, err)
	}

	records, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return fmt.Errorf("fetch source %s: %w", src.ID, err)
	}

	fresh := p.filterNewRecords(src, records)
	published, err := p.publish(ctx, src, fresh)

	p.log.InfoObj("source export completed", "source_result", map[string]any{
		"source_id":         src.ID,
		"position":          idx,
		"records_fetched":   len(records),
		"records_new":       len(fresh),
		"records_published": published,
	})
	return err
}

func (p *SourceProcessor) filterNewRecords(src sources.Source, records []surreal.Record) []surreal.Record {
	if p.dedupe == nil {
		return records
	}

	out := make([]surreal.Record, 0, len(records))
	for _, rec := range records {
		seen, err := p.dedupe.SeenRecord(RecordKey(src.ID, rec))
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"source_id": src.ID,
				"record_id": rec.ID(),
				"error":     err.Error(),
			})
			out = append(out, rec)
			continue
		}
		if !seen {
			out = append(out, rec)
		}
	}
	return out
}

func (p *SourceProcessor) publish(ctx context.Context, src sources.Source, records []surreal.Record) (int, error) {
	if p.publisher == nil || len(records) == 0 {
		return 0, nil
	}

	var errs []error
	published := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		evt := publishers.NewEvent(src.ID, src.Table, rec)
		delivered, err := p.publisher.Publish(ctx, evt)
		if delivered > 0 {
			published++
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("publish record %s of source %s: %w", evt.RecordID, src.ID, err))
			continue
		}
		if delivered > 0 {
			p.markExported(src, rec)
		}
	}
	return published, errors.Join(errs...)
}

func (p *SourceProcessor) markExported(src sources.Source, rec surreal.Record) {
	if p.dedupe == nil {
		return
	}
	if err := p.dedupe.MarkRecord(RecordKey(src.ID, rec)); err != nil {
		p.log.WarnObj("dedupe mark failed", "dedupe_error", map[string]any{
			"source_id": src.ID,
			"record_id": rec.ID(),
			"error":     err.Error(),
		})
	}
}

// RecordKey identifies one version of a record exported from a source.
// A changed record yields a new key and is exported again.
func RecordKey(sourceID string, rec surreal.Record) string {
	sum := sha1.New()
	if raw, err := json.Marshal(rec); err == nil {
		sum.Write(raw)
	}
	return sourceID + "/" + rec.ID() + "/" + hex.EncodeToString(sum.Sum(nil))
}
