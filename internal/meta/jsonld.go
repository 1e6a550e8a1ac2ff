package meta

import (
	"encoding/json"

	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/resolve"
)

const schemaContext = "https://schema.org"

// projectJSONLD emits a Movie block for narrative work and a VideoObject
// for everything else.
func projectJSONLD(p *portfolio.Project, m PageMeta, profile Profile) string {
	schemaType := "VideoObject"
	if p.Category == resolve.CategoryNarrative {
		schemaType = "Movie"
	}
	block := map[string]any{
		"@context":    schemaContext,
		"@type":       schemaType,
		"name":        p.Title,
		"description": m.Description,
		"image":       m.Image,
		"url":         m.URL,
	}
	if schemaType == "Movie" {
		block["director"] = personRef(profile)
	} else {
		block["author"] = personRef(profile)
		block["thumbnailUrl"] = m.Image
	}
	if p.ReleaseDate != "" {
		block["datePublished"] = p.ReleaseDate
	}
	if p.ProductionCompany != "" {
		block["productionCompany"] = map[string]any{
			"@type": "Organization",
			"name":  p.ProductionCompany,
		}
	}
	if len(p.Awards) > 0 {
		block["award"] = p.Awards
	}
	return marshalJSONLD(block)
}

// articleJSONLD emits an Article block for journal pages.
func articleJSONLD(p *portfolio.JournalPost, m PageMeta, profile Profile) string {
	block := map[string]any{
		"@context":    schemaContext,
		"@type":       "Article",
		"headline":    p.Title,
		"description": m.Description,
		"image":       m.Image,
		"url":         m.URL,
		"author":      personRef(profile),
	}
	if p.PublishDate != "" {
		block["datePublished"] = p.PublishDate
	}
	return marshalJSONLD(block)
}

// personJSONLD emits the mode-specific Person block used on all generic
// pages.
func personJSONLD(data *portfolio.Data, profile Profile) string {
	name := profile.OwnerName
	if data.Config.OwnerName != "" {
		name = data.Config.OwnerName
	}
	block := map[string]any{
		"@context": schemaContext,
		"@type":    "Person",
		"name":     name,
		"jobTitle": profile.JobTitle,
		"url":      profile.BaseURL,
		"sameAs":   profile.SocialLinks,
	}
	return marshalJSONLD(block)
}

func personRef(profile Profile) map[string]any {
	return map[string]any{
		"@type": "Person",
		"name":  profile.OwnerName,
	}
}

func marshalJSONLD(block map[string]any) string {
	payload, err := json.Marshal(block)
	if err != nil {
		return ""
	}
	return string(payload)
}
