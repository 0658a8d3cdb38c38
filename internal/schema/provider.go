package schema

import "context"

// Provider supplies the schema for a data source. Implementations introspect
// a live database or serve a cached copy; callers treat the result as
// immutable.
type Provider interface {
	GetSchema(ctx context.Context, datasourceID string) (*Schema, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, datasourceID string) (*Schema, error)

func (f ProviderFunc) GetSchema(ctx context.Context, datasourceID string) (*Schema, error) {
	return f(ctx, datasourceID)
}

// StaticProvider serves the same schema for every data source. Used in tests
// and for single-source deployments where introspection happens once at boot.
type StaticProvider struct {
	Schema *Schema
}

func (p *StaticProvider) GetSchema(ctx context.Context, datasourceID string) (*Schema, error) {
	return p.Schema, nil
}
