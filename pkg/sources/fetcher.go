package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

// Querier is the subset of *surreal.Client the fetchers need.
type Querier interface {
	SelectAll(ctx context.Context, table string) ([]surreal.Record, error)
	Execute(ctx context.Context, query string) ([]surreal.Response, error)
}

// Fetcher loads the records of a source.
type Fetcher interface {
	Type() string
	Fetch(ctx context.Context, src Source) ([]surreal.Record, error)
}

// FetcherRegistry resolves the fetcher implementation for a given source.
type FetcherRegistry interface {
	FetcherFor(src Source) (Fetcher, error)
}

type fetcherRegistry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewFetcherRegistry builds a registry keyed by each fetcher's Type.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{fetchers: make(map[string]Fetcher)}
	for _, f := range fetchers {
		reg.register(f)
	}
	return reg
}

func (r *fetcherRegistry) register(f Fetcher) {
	if f == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(f.Type()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.fetchers[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the source type.
func (r *fetcherRegistry) FetcherFor(src Source) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(src.ID) == "" {
		return nil, fmt.Errorf("source id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchers[strings.ToLower(strings.TrimSpace(src.Type))]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for source %q (type %q)", src.ID, src.Type)
}

// DefaultFetcherRegistry wires the table and query fetchers to q.
func DefaultFetcherRegistry(q Querier) FetcherRegistry {
	return NewFetcherRegistry(NewTableFetcher(q), NewQueryFetcher(q))
}

type tableFetcher struct {
	q Querier
}

// NewTableFetcher reads whole tables.
func NewTableFetcher(q Querier) Fetcher { return &tableFetcher{q: q} }

func (f *tableFetcher) Type() string { return TypeTable }

func (f *tableFetcher) Fetch(ctx context.Context, src Source) ([]surreal.Record, error) {
	if f.q == nil {
		return nil, fmt.Errorf("table fetcher has no client")
	}
	if src.Table == "" {
		return nil, fmt.Errorf("source %q table is empty", src.ID)
	}
	return f.q.SelectAll(ctx, src.Table)
}

type queryFetcher struct {
	q Querier
}

// NewQueryFetcher runs a SurrealQL query and exports the last statement's records.
func NewQueryFetcher(q Querier) Fetcher { return &queryFetcher{q: q} }

func (f *queryFetcher) Type() string { return TypeQuery }

func (f *queryFetcher) Fetch(ctx context.Context, src Source) ([]surreal.Record, error) {
	if f.q == nil {
		return nil, fmt.Errorf("query fetcher has no client")
	}
	if src.Query == "" {
		return nil, fmt.Errorf("source %q query is empty", src.ID)
	}

	results, err := f.q.Execute(ctx, src.Query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []surreal.Record{}, nil
	}
	last := results[len(results)-1]
	if !last.OK() {
		return nil, fmt.Errorf("source %q: last statement status %s: %s", src.ID, last.Status, last.Detail)
	}
	records, err := last.Records()
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", src.ID, err)
	}
	return records, nil
}
