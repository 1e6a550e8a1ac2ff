package api

import (
	"context"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/meta"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/state"
	"github.com/starford/folio/internal/syncer"
)

// Syncer is the sync surface the API needs; satisfied by
// *syncer.Orchestrator.
type Syncer interface {
	Run(ctx context.Context) (*syncer.Result, error)
	RunIncremental(ctx context.Context) (*syncer.Result, error)
}

// Service coordinates the data cache, the orchestrator, and the state
// store for the API layer.
type Service struct {
	cache *meta.Cache
	sync  Syncer
	state state.Store
}

// NewService creates a new API service. sync may be nil when the server
// runs without Airtable credentials (read-only mode).
func NewService(cache *meta.Cache, sync Syncer, st state.Store) *Service {
	return &Service{cache: cache, sync: sync, state: st}
}

// Data returns the current portfolio data through the source chain.
func (s *Service) Data(ctx context.Context) (*portfolio.Data, error) {
	data, _, err := s.cache.Get(ctx)
	return data, err
}

// Project returns one project by slug or id.
func (s *Service) Project(ctx context.Context, slugOrID string) (*portfolio.Project, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return nil, err
	}
	if p := data.FindProject(slugOrID); p != nil {
		return p, nil
	}
	return nil, apperr.ErrNotFound
}

// Post returns one journal post by slug or id.
func (s *Service) Post(ctx context.Context, slugOrID string) (*portfolio.JournalPost, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return nil, err
	}
	if p := data.FindPost(slugOrID); p != nil {
		return p, nil
	}
	return nil, apperr.ErrNotFound
}

// TriggerSync runs a sync cycle and invalidates the data cache on
// success.
func (s *Service) TriggerSync(ctx context.Context, incremental bool) (*syncer.Result, error) {
	if s.sync == nil {
		return nil, apperr.ErrNoData
	}
	var result *syncer.Result
	var err error
	if incremental {
		result, err = s.sync.RunIncremental(ctx)
	} else {
		result, err = s.sync.Run(ctx)
	}
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return result, nil
}

// LastRun returns the most recent sync run, or nil when none exist.
func (s *Service) LastRun() (*state.Run, error) {
	return s.state.LastRun()
}
