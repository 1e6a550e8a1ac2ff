package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/airtable"
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/resolve"
	"github.com/starford/folio/internal/state"
	"github.com/starford/folio/internal/storage"
)

// Step identifies a stage of the linear sync state machine. Every run
// walks Init → LookupMaps → Config → Projects → Journal → Write; a
// failure at any step ends the run with that step recorded.
type Step int

const (
	StepInit Step = iota
	StepLookupMaps
	StepConfig
	StepProjects
	StepJournal
	StepWrite
)

func (s Step) String() string {
	switch s {
	case StepInit:
		return "init"
	case StepLookupMaps:
		return "lookup-maps"
	case StepConfig:
		return "config"
	case StepProjects:
		return "projects"
	case StepJournal:
		return "journal"
	case StepWrite:
		return "write"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Run modes recorded in the state log.
const (
	ModeFull        = "full"
	ModeIncremental = "incremental"
)

// Tables names the five Airtable tables the pipeline reads.
type Tables struct {
	Projects  string
	Journal   string
	Settings  string
	Festivals string
	Clients   string
}

// Config parameterizes an Orchestrator.
type Config struct {
	Tables        Tables
	SortField     string // projects sort, applied descending
	ModifiedField string // last-modified column used for staleness checks
	DataFile      string // e.g. portfolio-data.json
	ShareFile     string // e.g. share-meta.json
}

// EventFunc receives lifecycle notifications: "sync.started",
// "sync.completed", "sync.failed".
type EventFunc func(kind string)

// Result summarizes a completed run.
type Result struct {
	Mode        string        `json:"mode"`
	Projects    int           `json:"projects"`
	Posts       int           `json:"posts"`
	GeneratedAt string        `json:"generated_at"`
	Skipped     bool          `json:"skipped"`
	Duration    time.Duration `json:"-"`
}

// Orchestrator drives one sync cycle: lookup maps, then config, projects,
// journal, and finally the artifact write. The state DB tracks record
// stamps and run outcomes. It never partially persists: artifacts are only written
// after every build step succeeds, and each file write is atomic.
type Orchestrator struct {
	client *airtable.Client
	store  storage.Provider
	state  state.Store
	cfg    Config
	logger *slog.Logger
	events EventFunc
	now    func() time.Time
}

// New creates an orchestrator. events may be nil.
func New(client *airtable.Client, store storage.Provider, st state.Store, cfg Config, logger *slog.Logger, events EventFunc) *Orchestrator {
	return &Orchestrator{
		client: client,
		store:  store,
		state:  st,
		cfg:    cfg,
		logger: logger,
		events: events,
		now:    time.Now,
	}
}

func (o *Orchestrator) emit(kind string) {
	if o.events != nil {
		o.events(kind)
	}
}

// Run performs a full sync: every table fetched fresh, the output
// artifacts fully replaced.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	return o.run(ctx, ModeFull, o.buildFull)
}

// run wraps a build function with run logging and event emission. A
// rate-limit-origin failure is tagged on the run record so the caller
// (scheduler, webhook handler) can decide on backoff; no retry happens
// here.
func (o *Orchestrator) run(ctx context.Context, mode string, build func(context.Context) (*Result, error)) (*Result, error) {
	started := o.now()
	runID, err := o.state.BeginRun(mode, started)
	if err != nil {
		return nil, err
	}
	o.emit("sync.started")

	result, err := build(ctx)
	finished := o.now()
	if err != nil {
		rateLimited := errors.Is(err, apperr.ErrRateLimited)
		if finishErr := o.state.FinishRun(runID, finished, state.RunFailed, err.Error(), rateLimited); finishErr != nil {
			o.logger.Warn("sync: record failure", slog.String("error", finishErr.Error()))
		}
		o.emit("sync.failed")
		o.logger.Error("sync failed",
			slog.String("mode", mode),
			slog.Bool("rate_limited", rateLimited),
			slog.String("error", err.Error()))
		return nil, err
	}

	result.Mode = mode
	result.Duration = finished.Sub(started)
	if finishErr := o.state.FinishRun(runID, finished, state.RunSuccess, "", false); finishErr != nil {
		o.logger.Warn("sync: record success", slog.String("error", finishErr.Error()))
	}
	o.emit("sync.completed")
	o.logger.Info("sync completed",
		slog.String("mode", mode),
		slog.Int("projects", result.Projects),
		slog.Int("posts", result.Posts),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (o *Orchestrator) buildFull(ctx context.Context) (*Result, error) {
	// Step 1: lookup maps. The two reference tables are independent, so
	// they are the one place the pipeline fetches concurrently.
	awards, companies, err := o.buildLookups(ctx)
	if err != nil {
		return nil, stepErr(StepLookupMaps, err)
	}

	// Step 2: site config. Must precede projects because owner-credit
	// injection depends on AllowedRoles and the owner name.
	siteCfg, err := o.buildConfig(ctx)
	if err != nil {
		return nil, stepErr(StepConfig, err)
	}

	builder := portfolio.NewBuilder(awards, companies, siteCfg)

	// Step 3: projects, newest first.
	projectRecords, err := o.client.FetchAll(ctx, o.cfg.Tables.Projects, airtable.FetchOptions{SortField: o.cfg.SortField})
	if err != nil {
		return nil, stepErr(StepProjects, err)
	}
	projects := make([]portfolio.Project, 0, len(projectRecords))
	for _, rec := range projectRecords {
		if p := builder.Project(rec); p != nil {
			projects = append(projects, *p)
		}
	}

	// Step 4: journal.
	postRecords, err := o.client.FetchAll(ctx, o.cfg.Tables.Journal, airtable.FetchOptions{})
	if err != nil {
		return nil, stepErr(StepJournal, err)
	}
	posts := make([]portfolio.JournalPost, 0, len(postRecords))
	for _, rec := range postRecords {
		if p := builder.Post(rec); p != nil {
			posts = append(posts, *p)
		}
	}

	// Step 5: write artifacts and replace snapshots.
	data := portfolio.Data{
		Projects:    projects,
		Posts:       posts,
		Config:      siteCfg,
		GeneratedAt: o.now().UTC().Format(time.RFC3339),
	}
	if err := o.writeArtifacts(data); err != nil {
		return nil, stepErr(StepWrite, err)
	}
	if err := o.replaceStamps(o.cfg.Tables.Projects, projectRecords); err != nil {
		return nil, stepErr(StepWrite, err)
	}
	if err := o.replaceStamps(o.cfg.Tables.Journal, postRecords); err != nil {
		return nil, stepErr(StepWrite, err)
	}

	return &Result{
		Projects:    len(projects),
		Posts:       len(posts),
		GeneratedAt: data.GeneratedAt,
	}, nil
}

// buildLookups fetches the festivals and clients tables concurrently.
func (o *Orchestrator) buildLookups(ctx context.Context) (awards, companies resolve.LookupMap, err error) {
	var festivalRecords, clientRecords []airtable.Record
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		festivalRecords, err = o.client.FetchAll(gCtx, o.cfg.Tables.Festivals, airtable.FetchOptions{})
		return err
	})
	g.Go(func() error {
		var err error
		clientRecords, err = o.client.FetchAll(gCtx, o.cfg.Tables.Clients, airtable.FetchOptions{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return portfolio.BuildLookup(festivalRecords), portfolio.BuildLookup(clientRecords), nil
}

// buildConfig fetches the settings table. Per the data contract, an
// empty or failing settings source falls back to the default structure
// rather than failing the run. A rate-limited fetch is the exception:
// it aborts the run so the failure keeps its rate-limit tag instead of
// silently producing owner credits from the defaults.
func (o *Orchestrator) buildConfig(ctx context.Context) (portfolio.SiteConfig, error) {
	records, err := o.client.FetchAll(ctx, o.cfg.Tables.Settings, airtable.FetchOptions{})
	if err != nil {
		if errors.Is(err, apperr.ErrRateLimited) {
			return portfolio.SiteConfig{}, err
		}
		o.logger.Warn("sync: settings fetch failed, using defaults", slog.String("error", err.Error()))
		return portfolio.DefaultSiteConfig(), nil
	}
	return portfolio.BuildConfig(records), nil
}

// writeArtifacts replaces both output files. Each write is atomic but
// the pair is not, so the share manifest goes first: it is the
// rewriter's fallback tier, and if the data-file write then fails,
// readers still see the old data file next to a manifest derived from
// a superset of it. The reverse order could pair a fresh data file with
// a stale manifest.
func (o *Orchestrator) writeArtifacts(data portfolio.Data) error {
	share, err := json.MarshalIndent(portfolio.BuildShareManifest(data), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal share manifest: %w", err)
	}
	if err := o.store.Write(o.cfg.ShareFile, share); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal portfolio data: %w", err)
	}
	return o.store.Write(o.cfg.DataFile, payload)
}

func (o *Orchestrator) replaceStamps(table string, records []airtable.Record) error {
	stamps := make(map[string]string, len(records))
	for _, rec := range records {
		stamps[rec.ID] = rec.Str(o.cfg.ModifiedField)
	}
	return o.state.ReplaceStamps(table, stamps)
}

func stepErr(step Step, err error) error {
	return fmt.Errorf("sync %s: %w", step, err)
}
