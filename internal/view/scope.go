package view

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Scope runs the parallel fetches of one page load. It is bound to the
// request context: once that is cancelled, Wait reports ErrDiscarded and the
// caller drops whatever the fetches produced.
type Scope struct {
	parent context.Context
	ctx    context.Context
	group  *errgroup.Group
	log    zerolog.Logger
}

// NewScope opens a scope under ctx.
func NewScope(ctx context.Context, log zerolog.Logger) *Scope {
	g, gctx := errgroup.WithContext(ctx)
	return &Scope{parent: ctx, ctx: gctx, group: g, log: log}
}

// Go starts a critical fetch. Its failure fails Wait and cancels the others.
func (s *Scope) Go(name string, fn func(ctx context.Context) error) {
	s.group.Go(func() error {
		if err := fn(s.ctx); err != nil {
			s.log.Error().Err(err).Str("fetch", name).Msg("Fetch failed")
			return err
		}
		return nil
	})
}

// Optional starts a fetch whose failure is logged and otherwise ignored.
func (s *Scope) Optional(name string, fn func(ctx context.Context) error) {
	s.group.Go(func() error {
		if err := fn(s.ctx); err != nil {
			s.log.Warn().Err(err).Str("fetch", name).Msg("Optional fetch failed")
		}
		return nil
	})
}

// Wait joins every fetch. It returns ErrDiscarded if the owning request was
// cancelled, else the first critical failure.
func (s *Scope) Wait() error {
	err := s.group.Wait()
	if s.parent.Err() != nil {
		return ErrDiscarded
	}
	return err
}
