package syncer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/starford/folio/internal/airtable"
	"github.com/starford/folio/internal/portfolio"
)

// RunIncremental performs an incremental sync: cheap timestamp scans
// narrow the working set, only changed and new records are re-fetched,
// and the previous artifact is merged rather than rebuilt. Falls back to
// a full build when no previous artifact exists.
func (o *Orchestrator) RunIncremental(ctx context.Context) (*Result, error) {
	return o.run(ctx, ModeIncremental, o.buildIncremental)
}

func (o *Orchestrator) buildIncremental(ctx context.Context) (*Result, error) {
	prev, ok := o.previousData()
	if !ok {
		o.logger.Info("sync: no usable previous artifact, running full build")
		return o.buildFull(ctx)
	}

	projectStamps, err := o.client.FetchStamps(ctx, o.cfg.Tables.Projects, o.cfg.ModifiedField)
	if err != nil {
		return nil, stepErr(StepProjects, err)
	}
	postStamps, err := o.client.FetchStamps(ctx, o.cfg.Tables.Journal, o.cfg.ModifiedField)
	if err != nil {
		return nil, stepErr(StepJournal, err)
	}

	prevProjects, err := o.state.Stamps(o.cfg.Tables.Projects)
	if err != nil {
		return nil, stepErr(StepInit, err)
	}
	prevPosts, err := o.state.Stamps(o.cfg.Tables.Journal)
	if err != nil {
		return nil, stepErr(StepInit, err)
	}

	projectChanges := DetectChanges(prevProjects, projectStamps)
	postChanges := DetectChanges(prevPosts, postStamps)
	if projectChanges.Empty() && postChanges.Empty() {
		o.logger.Info("sync: no changes detected")
		return &Result{
			Projects:    len(prev.Projects),
			Posts:       len(prev.Posts),
			GeneratedAt: prev.GeneratedAt,
			Skipped:     true,
		}, nil
	}
	o.logger.Info("sync: changes detected",
		slog.Int("projects_changed", len(projectChanges.Changed)),
		slog.Int("projects_new", len(projectChanges.New)),
		slog.Int("projects_deleted", len(projectChanges.Deleted)),
		slog.Int("posts_changed", len(postChanges.Changed)),
		slog.Int("posts_new", len(postChanges.New)),
		slog.Int("posts_deleted", len(postChanges.Deleted)))

	// Lookup maps and config are small tables; rebuild them every run so
	// renamed festivals or a changed owner name propagate immediately.
	awards, companies, err := o.buildLookups(ctx)
	if err != nil {
		return nil, stepErr(StepLookupMaps, err)
	}
	siteCfg, err := o.buildConfig(ctx)
	if err != nil {
		return nil, stepErr(StepConfig, err)
	}
	builder := portfolio.NewBuilder(awards, companies, siteCfg)

	keptProjects := keep(prev.Projects, projectChanges, func(p portfolio.Project) string { return p.ID })
	keptPosts := keep(prev.Posts, postChanges, func(p portfolio.JournalPost) string { return p.ID })
	builder.ReserveSlugs(slugs(keptProjects, func(p portfolio.Project) string { return p.Slug }),
		slugs(keptPosts, func(p portfolio.JournalPost) string { return p.Slug }))

	// Selective fetch of only the records that need rebuilding. Rebuilt
	// items are prepended; the next full run restores strict sort order.
	projects, err := o.rebuildProjects(ctx, builder, projectChanges, keptProjects)
	if err != nil {
		return nil, stepErr(StepProjects, err)
	}
	posts, err := o.rebuildPosts(ctx, builder, postChanges, keptPosts)
	if err != nil {
		return nil, stepErr(StepJournal, err)
	}

	data := portfolio.Data{
		Projects:    projects,
		Posts:       posts,
		Config:      siteCfg,
		GeneratedAt: o.now().UTC().Format(time.RFC3339),
	}
	if err := o.writeArtifacts(data); err != nil {
		return nil, stepErr(StepWrite, err)
	}
	if err := o.state.ReplaceStamps(o.cfg.Tables.Projects, stampMap(projectStamps)); err != nil {
		return nil, stepErr(StepWrite, err)
	}
	if err := o.state.ReplaceStamps(o.cfg.Tables.Journal, stampMap(postStamps)); err != nil {
		return nil, stepErr(StepWrite, err)
	}

	return &Result{
		Projects:    len(projects),
		Posts:       len(posts),
		GeneratedAt: data.GeneratedAt,
	}, nil
}

func (o *Orchestrator) previousData() (*portfolio.Data, bool) {
	raw, err := o.store.Read(o.cfg.DataFile)
	if err != nil {
		return nil, false
	}
	var prev portfolio.Data
	if err := json.Unmarshal(raw, &prev); err != nil {
		o.logger.Warn("sync: previous artifact unreadable", slog.String("error", err.Error()))
		return nil, false
	}
	return &prev, true
}

func (o *Orchestrator) rebuildProjects(ctx context.Context, builder *portfolio.Builder, changes Changes, kept []portfolio.Project) ([]portfolio.Project, error) {
	ids := append(append([]string{}, changes.Changed...), changes.New...)
	if len(ids) == 0 {
		return kept, nil
	}
	records, err := o.client.FetchByIDs(ctx, o.cfg.Tables.Projects, ids)
	if err != nil {
		return nil, err
	}
	rebuilt := make([]portfolio.Project, 0, len(records))
	for _, rec := range records {
		if p := builder.Project(rec); p != nil {
			rebuilt = append(rebuilt, *p)
		}
	}
	return append(rebuilt, kept...), nil
}

func (o *Orchestrator) rebuildPosts(ctx context.Context, builder *portfolio.Builder, changes Changes, kept []portfolio.JournalPost) ([]portfolio.JournalPost, error) {
	ids := append(append([]string{}, changes.Changed...), changes.New...)
	if len(ids) == 0 {
		return kept, nil
	}
	records, err := o.client.FetchByIDs(ctx, o.cfg.Tables.Journal, ids)
	if err != nil {
		return nil, err
	}
	rebuilt := make([]portfolio.JournalPost, 0, len(records))
	for _, rec := range records {
		if p := builder.Post(rec); p != nil {
			rebuilt = append(rebuilt, *p)
		}
	}
	return append(rebuilt, kept...), nil
}

// keep filters previous items down to those neither changed nor deleted.
func keep[T any](items []T, changes Changes, id func(T) string) []T {
	drop := make(map[string]bool, len(changes.Changed)+len(changes.Deleted))
	for _, recID := range changes.Changed {
		drop[recID] = true
	}
	for _, recID := range changes.Deleted {
		drop[recID] = true
	}
	var out []T
	for _, item := range items {
		if !drop[id(item)] {
			out = append(out, item)
		}
	}
	return out
}

func slugs[T any](items []T, slug func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = slug(item)
	}
	return out
}

func stampMap(stamps []airtable.Stamp) map[string]string {
	out := make(map[string]string, len(stamps))
	for _, s := range stamps {
		out[s.ID] = s.LastModified
	}
	return out
}
