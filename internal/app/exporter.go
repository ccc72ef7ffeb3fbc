package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/surreal-http/internal/config"
	"github.com/samvad-hq/surreal-http/internal/exporter"
	"github.com/samvad-hq/surreal-http/internal/logger"
	"github.com/samvad-hq/surreal-http/internal/storage"
	"github.com/samvad-hq/surreal-http/pkg/publishers"
	"github.com/samvad-hq/surreal-http/pkg/sources"
	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

// Exporter represents the record exporter runtime. It manages the export
// loop, coordinating between sources, the exporter service and publishers.
// It also owns the dedupe store and closes it on exit.
type Exporter struct {
	cfg            *config.Config
	sourceReg      *sources.Registry
	fanout         *publishers.Fanout
	exportService  *exporter.Service
	exportInterval time.Duration
	log            logger.Logger
	store          storage.Store
}

// NewExporter builds an exporter runtime from config files.
// opts are applied to the database client.
func NewExporter(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...surreal.Option) (*Exporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	clientOpts := append([]surreal.Option{
		surreal.WithTimeout(cfg.RequestTimeout),
		surreal.WithLogger(log),
	}, opts...)
	client, err := surreal.New(cfg.Surreal(), clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("init surreal client: %w", err)
	}

	sourceReg, err := sources.LoadRegistry(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	sourceList := sourceReg.Enabled()
	sourceIDs := make([]string, 0, len(sourceList))
	for _, s := range sourceList {
		sourceIDs = append(sourceIDs, s.ID)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count": len(sourceIDs),
		"ids":   sourceIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	exportService := exporter.NewService(sources.DefaultFetcherRegistry(client), fanout, log, store)

	return &Exporter{
		cfg:            cfg,
		sourceReg:      sourceReg,
		fanout:         fanout,
		exportService:  exportService,
		exportInterval: cfg.ExportInterval,
		log:            log,
		store:          store,
	}, nil
}

// Run starts the export loop until the context is cancelled.
func (e *Exporter) Run(ctx context.Context) error {
	if e == nil || e.exportService == nil {
		return fmt.Errorf("exporter is not initialized")
	}
	defer e.Close()

	srcs := e.sourceReg.Enabled()
	if len(srcs) == 0 {
		e.log.WarnObj("no enabled sources; exporter idle", "sources_file", e.cfg.SourcesFile)
		<-ctx.Done()
		return ctx.Err()
	}

	e.log.InfoObj("exporter loop starting", "exporter_state", map[string]any{
		"sources_count":    len(srcs),
		"publishers_count": e.fanout.Size(),
		"export_interval":  e.exportInterval.String(),
	})

	if err := e.RunOnce(ctx); err != nil {
		e.log.ErrorObj("initial export failed", "error", err)
	}

	ticker := time.NewTicker(e.exportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.InfoObj("exporter loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := e.RunOnce(ctx); err != nil {
				e.log.ErrorObj("scheduled export failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single export pass across all enabled sources.
func (e *Exporter) RunOnce(ctx context.Context) error {
	srcs := e.sourceReg.Enabled()
	start := time.Now()
	e.log.InfoObj("export started", "export_meta", map[string]any{
		"sources_count": len(srcs),
		"started_at":    start.UTC(),
	})
	if err := e.exportService.Run(ctx, srcs); err != nil {
		return err
	}
	e.log.InfoObj("export completed", "export_meta", map[string]any{
		"sources_count": len(srcs),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// Close releases the publishers and the storage backend, logging any errors.
func (e *Exporter) Close() {
	if e == nil {
		return
	}
	if err := e.fanout.Close(); err != nil {
		e.log.ErrorObj("publishers close failed", "error", err)
	}
	e.fanout = nil
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.log.ErrorObj("storage close failed", "error", err)
	}
	e.store = nil
}
