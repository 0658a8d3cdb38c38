package schema

import (
	"context"
	"errors"
	"testing"
)

func TestCachingProviderMemoizes(t *testing.T) {
	calls := 0
	inner := ProviderFunc(func(ctx context.Context, datasourceID string) (*Schema, error) {
		calls++
		return &Schema{Tables: []Table{{Name: "orders"}}}, nil
	})

	p := NewCachingProvider(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s, err := p.GetSchema(ctx, "ds-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !s.HasTable("orders") {
			t.Fatalf("got %+v", s)
		}
	}
	if calls != 1 {
		t.Fatalf("inner called %d times, want 1", calls)
	}

	// A different data source is a separate cache entry.
	if _, err := p.GetSchema(ctx, "ds-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("inner called %d times, want 2", calls)
	}
}

func TestCachingProviderDoesNotCacheErrors(t *testing.T) {
	calls := 0
	inner := ProviderFunc(func(ctx context.Context, datasourceID string) (*Schema, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return &Schema{}, nil
	})

	p := NewCachingProvider(inner)
	ctx := context.Background()

	if _, err := p.GetSchema(ctx, "ds-1"); err == nil {
		t.Fatal("expected first call to fail")
	}
	if _, err := p.GetSchema(ctx, "ds-1"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestCachingProviderInvalidate(t *testing.T) {
	calls := 0
	inner := ProviderFunc(func(ctx context.Context, datasourceID string) (*Schema, error) {
		calls++
		return &Schema{}, nil
	})

	p := NewCachingProvider(inner)
	ctx := context.Background()

	_, _ = p.GetSchema(ctx, "ds-1")
	p.Invalidate("ds-1")
	_, _ = p.GetSchema(ctx, "ds-1")

	if calls != 2 {
		t.Fatalf("inner called %d times, want re-introspection after Invalidate", calls)
	}
}

func TestDisplayNames(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"order_items", "Order Items"},
		{"customers", "Customers"},
		{"a__b", "A B"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.in); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if got := SingularDisplayName("order_items"); got != "Order Item" {
		t.Errorf("SingularDisplayName = %q", got)
	}
	if got := PluralDisplayName("person"); got != "People" {
		t.Errorf("PluralDisplayName = %q", got)
	}
}
