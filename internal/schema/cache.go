package schema

import (
	"context"
	"sync"
)

// CachingProvider memoizes schemas per data source. Introspection is
// expensive relative to query building, and the builder asks for the schema
// on every page load.
type CachingProvider struct {
	inner Provider

	mu    sync.Mutex
	cache map[string]*Schema
}

// NewCachingProvider wraps the given provider with a per-datasource cache.
func NewCachingProvider(inner Provider) *CachingProvider {
	return &CachingProvider{
		inner: inner,
		cache: make(map[string]*Schema),
	}
}

func (p *CachingProvider) GetSchema(ctx context.Context, datasourceID string) (*Schema, error) {
	p.mu.Lock()
	if s, ok := p.cache[datasourceID]; ok {
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()

	s, err := p.inner.GetSchema(ctx, datasourceID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[datasourceID] = s
	p.mu.Unlock()
	return s, nil
}

// Store replaces the cached schema for a data source. Background refresh
// uses this to publish a newly introspected schema atomically.
func (p *CachingProvider) Store(datasourceID string, s *Schema) {
	p.mu.Lock()
	p.cache[datasourceID] = s
	p.mu.Unlock()
}

// Invalidate drops the cached schema for a data source, forcing the next
// GetSchema call to re-introspect.
func (p *CachingProvider) Invalidate(datasourceID string) {
	p.mu.Lock()
	delete(p.cache, datasourceID)
	p.mu.Unlock()
}
