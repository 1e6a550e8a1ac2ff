// Package portfolio defines the domain types emitted by the sync pipeline
// and the builder that maps raw Airtable records onto them.
package portfolio

import "github.com/starford/folio/internal/resolve"

// Display statuses gating project visibility. Anything else (including
// the empty string) keeps a project out of the output entirely.
const (
	StatusPublic   = "Public"
	StatusFeatured = "Featured"
	StatusHidden   = "Hidden"
)

// PostPublished is the only journal status that is emitted.
const PostPublished = "Published"

// Image is one gallery entry.
type Image struct {
	URL        string            `json:"url"`
	Thumbnails map[string]string `json:"thumbnails,omitempty"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	Type       string            `json:"type,omitempty"`
}

// Project is one portfolio work item.
type Project struct {
	ID                string                 `json:"id"`
	Slug              string                 `json:"slug"`
	Title             string                 `json:"title"`
	ReleaseDate       string                 `json:"releaseDate,omitempty"`
	WorkDate          string                 `json:"workDate,omitempty"`
	Description       string                 `json:"description,omitempty"`
	Role              string                 `json:"role,omitempty"`
	Category          string                 `json:"category"`
	Credits           []resolve.Credit       `json:"credits,omitempty"`
	HeroImage         string                 `json:"heroImage,omitempty"`
	Images            []Image                `json:"images,omitempty"`
	Videos            []string               `json:"videos,omitempty"`
	VideoThumbnail    string                 `json:"videoThumbnail,omitempty"`
	ExternalLinks     []resolve.ExternalLink `json:"externalLinks,omitempty"`
	Awards            []string               `json:"awards,omitempty"`
	ProductionCompany string                 `json:"productionCompany,omitempty"`
	DisplayStatus     string                 `json:"displayStatus"`
}

// JournalPost is one published journal entry.
type JournalPost struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	PublishDate string `json:"publishDate,omitempty"`
	Content     string `json:"content,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	ReadingTime string `json:"readingTime"`
	CoverImage  string `json:"coverImage,omitempty"`
	Status      string `json:"status"`
}

// Showreel is the front-page reel configuration.
type Showreel struct {
	Enabled          bool   `json:"enabled"`
	VideoURL         string `json:"videoUrl,omitempty"`
	PlaceholderImage string `json:"placeholderImage,omitempty"`
}

// Contact holds the public contact details.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// About holds the bio section.
type About struct {
	Bio          string `json:"bio,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// SiteConfig is the singleton settings record. AllowedRoles gates which
// project roles get the owner's name auto-inserted as a leading credit.
type SiteConfig struct {
	OwnerName      string   `json:"ownerName"`
	Showreel       Showreel `json:"showreel"`
	Contact        Contact  `json:"contact"`
	About          About    `json:"about"`
	AllowedRoles   []string `json:"allowedRoles"`
	DefaultOGImage string   `json:"defaultOgImage,omitempty"`
}

// Data is the sync pipeline's sole durable output: the contract boundary
// between sync and every consumer. Written only by the orchestrator;
// read-only everywhere else.
type Data struct {
	Projects    []Project     `json:"projects"`
	Posts       []JournalPost `json:"posts"`
	Config      SiteConfig    `json:"config"`
	GeneratedAt string        `json:"generatedAt"`
}

// DefaultSiteConfig is the fixed fallback used when the Settings table is
// empty or unreadable.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		OwnerName: "Portfolio Owner",
		Showreel:  Showreel{Enabled: false},
		About:     About{Bio: ""},
		AllowedRoles: []string{
			"Director",
			"Colourist",
		},
	}
}

// FindProject locates a project by slug or record id.
func (d *Data) FindProject(slugOrID string) *Project {
	for i := range d.Projects {
		if d.Projects[i].Slug == slugOrID || d.Projects[i].ID == slugOrID {
			return &d.Projects[i]
		}
	}
	return nil
}

// FindPost locates a journal post by slug or record id.
func (d *Data) FindPost(slugOrID string) *JournalPost {
	for i := range d.Posts {
		if d.Posts[i].Slug == slugOrID || d.Posts[i].ID == slugOrID {
			return &d.Posts[i]
		}
	}
	return nil
}
