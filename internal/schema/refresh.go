package schema

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/vkmindia80/nexbii/internal/logging"
)

// RefreshConfig controls background schema refresh behavior.
type RefreshConfig struct {
	DatasourceID string
	// Source introspects the live database; it must not be the cache itself.
	Source Provider
	// Cache receives refreshed schemas.
	Cache *CachingProvider

	// MinInterval is the polling interval right after a change was seen.
	// While the schema stays unchanged, the interval doubles up to
	// MaxInterval.
	MinInterval time.Duration
	MaxInterval time.Duration

	Logger *logging.Logger
}

// Refresher keeps a cached schema in sync with the live database by
// re-introspecting in the background. The schema changes rarely, so the
// polling interval backs off while nothing changes and snaps back to
// MinInterval when a change lands.
type Refresher struct {
	cfg         RefreshConfig
	fingerprint string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a refresher. Call Start to begin polling.
func NewRefresher(cfg RefreshConfig) *Refresher {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 30 * time.Second
	}
	if cfg.MaxInterval < cfg.MinInterval {
		cfg.MaxInterval = cfg.MinInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	return &Refresher{cfg: cfg}
}

// Start launches the polling loop. It performs one immediate refresh so the
// cache is warm before the first request arrives.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx)
}

// Stop halts the polling loop and waits for it to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	if _, err := r.Refresh(ctx); err != nil {
		r.cfg.Logger.Warn("initial schema refresh failed", slog.String("error", err.Error()))
	}

	interval := r.cfg.MinInterval
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		changed, err := r.Refresh(ctx)
		switch {
		case err != nil:
			r.cfg.Logger.Warn("schema refresh failed", slog.String("error", err.Error()))
		case changed:
			interval = r.cfg.MinInterval
		default:
			interval *= 2
			if interval > r.cfg.MaxInterval {
				interval = r.cfg.MaxInterval
			}
		}
		timer.Reset(interval)
	}
}

// Refresh introspects once and updates the cache when the schema changed.
// It reports whether a change was detected.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	s, err := r.cfg.Source.GetSchema(ctx, r.cfg.DatasourceID)
	if err != nil {
		return false, err
	}

	fp := Fingerprint(s)

	r.mu.Lock()
	if fp == r.fingerprint {
		r.mu.Unlock()
		return false, nil
	}
	first := r.fingerprint == ""
	r.fingerprint = fp
	r.mu.Unlock()

	r.cfg.Cache.Store(r.cfg.DatasourceID, s)

	if !first {
		r.cfg.Logger.Info("schema changed, cache updated",
			slog.String("datasource_id", r.cfg.DatasourceID),
			slog.String("fingerprint", fp),
			slog.Int("tables", len(s.Tables)),
		)
	}
	return true, nil
}

// Fingerprint hashes the structural identity of a schema: table names,
// column names, and column types, in introspection order. Two schemas with
// the same fingerprint produce the same builder options and the same
// generated SQL identifiers.
func Fingerprint(s *Schema) string {
	h := sha256.New()
	for _, t := range s.Tables {
		h.Write([]byte(t.Name))
		h.Write([]byte{0})
		for _, c := range t.Columns {
			h.Write([]byte(c.Name))
			h.Write([]byte{1})
			h.Write([]byte(c.DataType))
			h.Write([]byte{2})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
