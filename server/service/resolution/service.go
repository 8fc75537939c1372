// Package resolution provides the batch resolution service: it fans a batch
// of abstract values out over the core resolver, preserves input order in
// the results, and records an audit row per value when a store is attached.
package resolution

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/timewalk/plugin/nlp/dimension"
	"github.com/hrygo/timewalk/plugin/nlp/output"
	"github.com/hrygo/timewalk/plugin/nlp/resolve"
	"github.com/hrygo/timewalk/store"
)

const defaultMaxParallel = 8

// Options configures the service. A nil Store disables auditing; a nil
// Logger falls back to slog.Default().
type Options struct {
	Store       *store.Store
	Logger      *slog.Logger
	MaxParallel int
}

// Service resolves batches of abstract values against a shared context.
type Service struct {
	resolver    *resolve.Resolver
	store       *store.Store
	logger      *slog.Logger
	maxParallel int
}

// NewService creates a resolution service.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = defaultMaxParallel
	}
	return &Service{
		resolver:    resolve.NewResolver(opts.Logger),
		store:       opts.Store,
		logger:      opts.Logger,
		maxParallel: opts.MaxParallel,
	}
}

// Value is one batch entry: the abstract value plus its declarative JSON
// payload for the audit log (may be empty).
type Value struct {
	Dimension dimension.Dimension
	Payload   string
}

// Result is the outcome for one batch entry. Output is nil when the value
// could not be resolved; an unresolved value is not an error.
type Result struct {
	Output   output.Output
	Resolved bool
}

// ResolveBatch resolves all values concurrently against the same context.
// The resolution context is immutable and safe to share across the
// goroutines; results come back in input order. Audit failures are logged
// and never affect results.
func (s *Service) ResolveBatch(ctx context.Context, rctx *resolve.Context, values []Value) []Result {
	results := make([]Result, len(values))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, value := range values {
		i, value := i, value
		g.Go(func() error {
			started := time.Now()
			out, ok := s.resolver.Resolve(rctx, value.Dimension)
			results[i] = Result{Output: out, Resolved: ok}
			s.audit(gctx, value, results[i], time.Since(started))
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	resolved := 0
	for _, r := range results {
		if r.Resolved {
			resolved++
		}
	}
	s.logger.Debug("resolved batch",
		slog.Int("total", len(values)),
		slog.Int("resolved", resolved))
	return results
}

// Resolve resolves a single value.
func (s *Service) Resolve(ctx context.Context, rctx *resolve.Context, value Value) Result {
	return s.ResolveBatch(ctx, rctx, []Value{value})[0]
}

func (s *Service) audit(ctx context.Context, value Value, result Result, latency time.Duration) {
	if s.store == nil {
		return
	}
	record := &store.Resolution{
		CreatedTs: time.Now().Unix(),
		Kind:      value.Dimension.Kind().String(),
		Payload:   value.Payload,
		Outcome:   store.OutcomeUnresolved,
		LatencyUS: latency.Microseconds(),
	}
	if result.Resolved {
		record.Outcome = store.OutcomeResolved
		record.OutputKind = output.KindName(result.Output)
	}
	if _, err := s.store.CreateResolution(ctx, record); err != nil {
		s.logger.Error("failed to record resolution audit",
			slog.String("kind", record.Kind),
			slog.String("error", err.Error()))
	}
}
