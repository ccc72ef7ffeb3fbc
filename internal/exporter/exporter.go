package exporter

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/surreal-http/internal/logger"
	"github.com/samvad-hq/surreal-http/pkg/sources"
)

// Service coordinates exports across multiple sources.
type Service struct {
	processor *SourceProcessor
	log       logger.Logger
}

// NewService wires an exporter with the source fetcher registry, the
// publisher fan-out and an optional dedupe store.
func NewService(reg sources.FetcherRegistry, pub EventPublisher, log logger.Logger, dedupe Deduper) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		processor: NewSourceProcessor(reg, pub, log, dedupe),
		log:       log,
	}
}

// Run executes an export pass for all provided sources.
func (s *Service) Run(ctx context.Context, srcs []sources.Source) error {
	if s == nil || s.processor == nil || s.processor.registry == nil {
		return fmt.Errorf("exporter service is not initialized")
	}
	if len(srcs) == 0 {
		return fmt.Errorf("no sources configured for export")
	}

	if errs := s.runAll(ctx, srcs); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, srcs []sources.Source) []error {
	errs := make([]error, 0, len(srcs))

	for idx, src := range srcs {
		if ctx.Err() != nil {
			s.log.WarnObj("export pass interrupted", "export_abort", map[string]any{
				"remaining_sources": len(srcs) - idx,
				"reason":            ctx.Err().Error(),
			})
			break
		}
		if err := s.processor.Process(ctx, src, idx); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("source export failed", "source_error", map[string]any{
				"source_id": src.ID,
				"error":     err.Error(),
			})
		}
	}

	return errs
}
