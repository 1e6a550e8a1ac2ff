package meta

import (
	"log/slog"

	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/resolve"
)

// descriptionLimit caps every meta description.
const descriptionLimit = 200

// Open Graph types emitted per page kind.
const (
	OGWebsite    = "website"
	OGArticle    = "article"
	OGVideoMovie = "video.movie"
	OGVideoOther = "video.other"
)

// PageMeta is the page-type-specific descriptor the rewriter renders
// into the replacement head block.
type PageMeta struct {
	Title       string
	Description string
	Image       string
	URL         string
	OGType      string
	JSONLD      string
}

// BuildPageMeta assembles the descriptor for a classified page. For
// detail pages whose slug matches nothing in the data, it logs and falls
// through to the generic meta for the index page; absence is never
// fatal.
func BuildPageMeta(kind PageKind, slug string, data *portfolio.Data, profile Profile, logger *slog.Logger) PageMeta {
	switch kind {
	case PageWorkDetail:
		if p := data.FindProject(slug); p != nil {
			return projectMeta(p, data, profile)
		}
		if logger != nil {
			logger.Info("meta: project not found, using generic meta", slog.String("slug", slug))
		}
		return genericMeta(PageWorkIndex, data, profile)
	case PageJournalDetail:
		if p := data.FindPost(slug); p != nil {
			return postMeta(p, data, profile)
		}
		if logger != nil {
			logger.Info("meta: post not found, using generic meta", slog.String("slug", slug))
		}
		return genericMeta(PageJournalIndex, data, profile)
	default:
		return genericMeta(kind, data, profile)
	}
}

func projectMeta(p *portfolio.Project, data *portfolio.Data, profile Profile) PageMeta {
	ogType := OGVideoOther
	if p.Category == resolve.CategoryNarrative {
		ogType = OGVideoMovie
	}
	m := PageMeta{
		Title:       p.Title + " | " + profile.SiteName,
		Description: resolve.Truncate(p.Description, descriptionLimit),
		Image:       projectImage(p, data, profile),
		URL:         profile.BaseURL + "/work/" + p.Slug,
		OGType:      ogType,
	}
	if m.Description == "" {
		m.Description = resolve.Truncate(profile.Tagline, descriptionLimit)
	}
	m.JSONLD = projectJSONLD(p, m, profile)
	return m
}

func postMeta(p *portfolio.JournalPost, data *portfolio.Data, profile Profile) PageMeta {
	desc := p.Excerpt
	if desc == "" {
		desc = resolve.StripTags(p.Content)
	}
	m := PageMeta{
		Title:       p.Title + " | " + profile.SiteName,
		Description: resolve.Truncate(desc, descriptionLimit),
		Image:       firstNonEmpty(p.CoverImage, data.Config.DefaultOGImage, ultimateFallbackImage),
		URL:         profile.BaseURL + "/journal/" + p.Slug,
		OGType:      OGArticle,
	}
	m.JSONLD = articleJSONLD(p, m, profile)
	return m
}

func genericMeta(kind PageKind, data *portfolio.Data, profile Profile) PageMeta {
	m := PageMeta{
		Title:       profile.SiteName + " — " + profile.JobTitle,
		Description: resolve.Truncate(profile.Tagline, descriptionLimit),
		Image:       firstNonEmpty(data.Config.DefaultOGImage, ultimateFallbackImage),
		URL:         profile.BaseURL + pathForKind(kind),
		OGType:      OGWebsite,
	}
	switch kind {
	case PageWorkIndex:
		m.Title = "Work | " + profile.SiteName
	case PageJournalIndex:
		m.Title = "Journal | " + profile.SiteName
	case PageAbout:
		m.Title = "About | " + profile.SiteName
	case PageGame:
		m.Title = "Game | " + profile.SiteName
	}
	m.JSONLD = personJSONLD(data, profile)
	return m
}

// projectImage walks the image fallback chain: hero → explicit thumbnail
// → first gallery image → configured default → hardcoded last resort.
func projectImage(p *portfolio.Project, data *portfolio.Data, profile Profile) string {
	if p.HeroImage != "" {
		return p.HeroImage
	}
	if p.VideoThumbnail != "" {
		return p.VideoThumbnail
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return firstNonEmpty(data.Config.DefaultOGImage, ultimateFallbackImage)
}

func pathForKind(kind PageKind) string {
	switch kind {
	case PageWorkIndex:
		return "/work"
	case PageAbout:
		return "/about"
	case PageJournalIndex:
		return "/journal"
	case PageGame:
		return "/game"
	default:
		return "/"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
