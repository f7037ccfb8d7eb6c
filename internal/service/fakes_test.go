package service_test

import (
	"context"
	"sort"
	"sync"

	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/repository"
)

type fakeCatalogRepo struct {
	mu      sync.Mutex
	entries map[string]model.CatalogEntry
	listErr error
}

func newFakeCatalogRepo(entries ...model.CatalogEntry) *fakeCatalogRepo {
	r := &fakeCatalogRepo{entries: make(map[string]model.CatalogEntry)}
	for _, e := range entries {
		r.entries[e.Name] = e
	}
	return r
}

func (r *fakeCatalogRepo) Save(_ context.Context, entry *model.CatalogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.Name] = *entry
	return nil
}

func (r *fakeCatalogRepo) GetByName(_ context.Context, name string) (*model.CatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}
	return &e, nil
}

func (r *fakeCatalogRepo) list(onlyExport bool) []model.CatalogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.CatalogEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyExport && !e.ExportEnabled {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeCatalogRepo) List(_ context.Context) ([]model.CatalogEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.list(false), nil
}

func (r *fakeCatalogRepo) ListExportEnabled(_ context.Context) ([]model.CatalogEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.list(true), nil
}

func (r *fakeCatalogRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return repository.ErrEntryNotFound
	}
	delete(r.entries, name)
	return nil
}

type fakeProducer struct {
	mu      sync.Mutex
	batches [][]model.ReportRecord
	err     error
}

func (p *fakeProducer) Produce(_ context.Context, records []model.ReportRecord) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	batch := make([]model.ReportRecord, len(records))
	copy(batch, records)
	p.batches = append(p.batches, batch)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func (p *fakeProducer) records() []model.ReportRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.ReportRecord
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}
