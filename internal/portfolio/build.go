package portfolio

import (
	"strings"

	"github.com/starford/folio/internal/airtable"
	"github.com/starford/folio/internal/resolve"
)

// All stringly-typed Airtable column lookups live here, so the rest of
// the system only ever sees the typed domain shapes.
const (
	fieldTitle             = "Title"
	fieldReleaseDate       = "Release Date"
	fieldWorkDate          = "Work Date"
	fieldDescription       = "Description"
	fieldRole              = "Role"
	fieldType              = "Type"
	fieldCredits           = "Credits"
	fieldHeroImage         = "Hero Image"
	fieldImages            = "Images"
	fieldVideoLinks        = "Video Links"
	fieldVideoThumbnail    = "Video Thumbnail"
	fieldExternalLinks     = "External Links"
	fieldAwards            = "Awards"
	fieldProductionCompany = "Production Company"
	fieldDisplayStatus     = "Display Status"

	fieldPublishDate = "Publish Date"
	fieldContent     = "Content"
	fieldExcerpt     = "Excerpt"
	fieldCoverImage  = "Cover Image"
	fieldStatus      = "Status"

	fieldLookupName = "Name"

	fieldOwnerName         = "Owner Name"
	fieldShowreelEnabled   = "Showreel Enabled"
	fieldShowreelURL       = "Showreel URL"
	fieldShowreelPoster    = "Showreel Placeholder"
	fieldContactEmail      = "Email"
	fieldContactPhone      = "Phone"
	fieldContactLocation   = "Location"
	fieldAboutBio          = "Bio"
	fieldAboutProfileImage = "Profile Image"
	fieldAllowedRoles      = "Allowed Roles"
	fieldDefaultOGImage    = "Default OG Image"
)

const excerptLimit = 160

// Builder maps raw records onto domain types. It owns the per-collection
// slug registries, so one Builder serves exactly one sync cycle.
type Builder struct {
	awards    resolve.LookupMap
	companies resolve.LookupMap
	config    SiteConfig

	projectSlugs map[string]bool
	postSlugs    map[string]bool
}

// NewBuilder creates a builder for one sync cycle. The config must be
// built first: owner-credit injection depends on it.
func NewBuilder(awards, companies resolve.LookupMap, config SiteConfig) *Builder {
	return &Builder{
		awards:       awards,
		companies:    companies,
		config:       config,
		projectSlugs: make(map[string]bool),
		postSlugs:    make(map[string]bool),
	}
}

// ReserveSlugs seeds the slug registries with slugs already in use, so
// incremental rebuilds never collide with items kept from the previous
// artifact.
func (b *Builder) ReserveSlugs(projectSlugs, postSlugs []string) {
	for _, s := range projectSlugs {
		b.projectSlugs[s] = true
	}
	for _, s := range postSlugs {
		b.postSlugs[s] = true
	}
}

// BuildLookup turns a reference table (festivals, clients) into an
// id→display-name map. Records without a name are skipped.
func BuildLookup(records []airtable.Record) resolve.LookupMap {
	m := make(resolve.LookupMap, len(records))
	for _, rec := range records {
		if name := rec.Str(fieldLookupName); name != "" {
			m[rec.ID] = name
		}
	}
	return m
}

// BuildConfig maps the Settings table onto a SiteConfig. An empty table
// yields the fixed default structure; individual missing fields fall back
// per-field.
func BuildConfig(records []airtable.Record) SiteConfig {
	if len(records) == 0 {
		return DefaultSiteConfig()
	}
	rec := records[0]
	cfg := DefaultSiteConfig()
	if name := rec.Str(fieldOwnerName); name != "" {
		cfg.OwnerName = name
	}
	cfg.Showreel = Showreel{
		Enabled:          rec.Bool(fieldShowreelEnabled),
		VideoURL:         rec.Str(fieldShowreelURL),
		PlaceholderImage: firstAttachmentURL(rec, fieldShowreelPoster),
	}
	cfg.Contact = Contact{
		Email:    rec.Str(fieldContactEmail),
		Phone:    rec.Str(fieldContactPhone),
		Location: rec.Str(fieldContactLocation),
	}
	cfg.About = About{
		Bio:          rec.Str(fieldAboutBio),
		ProfileImage: firstAttachmentURL(rec, fieldAboutProfileImage),
	}
	if roles := rec.Strings(fieldAllowedRoles); len(roles) > 0 {
		cfg.AllowedRoles = roles
	}
	cfg.DefaultOGImage = rec.Str(fieldDefaultOGImage)
	if cfg.DefaultOGImage == "" {
		cfg.DefaultOGImage = firstAttachmentURL(rec, fieldDefaultOGImage)
	}
	return cfg
}

// Project maps one record onto a Project. Returns nil for records whose
// display status is "Hidden" or empty; those are never emitted.
func (b *Builder) Project(rec airtable.Record) *Project {
	status := rec.Str(fieldDisplayStatus)
	if status == "" || status == StatusHidden {
		return nil
	}

	title := resolve.NormalizeTitle(rec.Str(fieldTitle))
	roles := rec.Strings(fieldRole)

	p := &Project{
		ID:                rec.ID,
		Slug:              resolve.UniqueSlug(title, b.projectSlugs),
		Title:             title,
		ReleaseDate:       rec.Str(fieldReleaseDate),
		WorkDate:          rec.Str(fieldWorkDate),
		Description:       rec.Str(fieldDescription),
		Role:              strings.Join(roles, ", "),
		Category:          resolve.NormalizeCategory(rec.Str(fieldType)),
		Credits:           b.buildCredits(roles, rec.Str(fieldCredits)),
		HeroImage:         firstAttachmentURL(rec, fieldHeroImage),
		Images:            buildImages(rec.Attachments(fieldImages)),
		VideoThumbnail:    firstAttachmentURL(rec, fieldVideoThumbnail),
		Awards:            b.awards.ResolveAll(rec.Strings(fieldAwards)),
		ProductionCompany: b.companies.ResolveJoined(rec.Strings(fieldProductionCompany)),
		DisplayStatus:     status,
	}

	for _, link := range resolve.ParseExternalLinks(rec.Str(fieldVideoLinks)) {
		p.Videos = append(p.Videos, link.URL)
	}
	for _, link := range resolve.ParseExternalLinks(rec.Str(fieldExternalLinks)) {
		if link.Video {
			p.Videos = append(p.Videos, link.URL)
		} else {
			p.ExternalLinks = append(p.ExternalLinks, link)
		}
	}

	return p
}

// buildCredits implements the owner-credit injection rule: roles present
// in AllowedRoles each prepend an owner credit, in role-list order,
// before anything parsed from the free-text credits field.
func (b *Builder) buildCredits(roles []string, creditsText string) []resolve.Credit {
	var credits []resolve.Credit
	for _, role := range roles {
		if containsRole(b.config.AllowedRoles, role) {
			credits = append(credits, resolve.Credit{Role: role, Name: b.config.OwnerName})
		}
	}
	return append(credits, resolve.ParseCreditsText(creditsText)...)
}

// Post maps one record onto a JournalPost. Only Published posts are
// emitted; everything else returns nil.
func (b *Builder) Post(rec airtable.Record) *JournalPost {
	if rec.Str(fieldStatus) != PostPublished {
		return nil
	}

	title := resolve.NormalizeTitle(rec.Str(fieldTitle))
	content := rec.Str(fieldContent)
	excerpt := rec.Str(fieldExcerpt)
	if excerpt == "" {
		excerpt = resolve.Excerpt(content, excerptLimit)
	}

	return &JournalPost{
		ID:          rec.ID,
		Slug:        resolve.UniqueSlug(title, b.postSlugs),
		Title:       title,
		PublishDate: rec.Str(fieldPublishDate),
		Content:     content,
		Excerpt:     excerpt,
		ReadingTime: resolve.ReadingTime(content),
		CoverImage:  firstAttachmentURL(rec, fieldCoverImage),
		Status:      PostPublished,
	}
}

func buildImages(atts []airtable.Attachment) []Image {
	if len(atts) == 0 {
		return nil
	}
	out := make([]Image, len(atts))
	for i, att := range atts {
		out[i] = Image{
			URL:        att.URL,
			Thumbnails: att.Thumbnails,
			Width:      att.Width,
			Height:     att.Height,
			Type:       att.Type,
		}
	}
	return out
}

func firstAttachmentURL(rec airtable.Record, field string) string {
	if atts := rec.Attachments(field); len(atts) > 0 {
		return atts[0].URL
	}
	// Some image fields carry a plain URL rather than an attachment.
	return rec.Str(field)
}

func containsRole(allowed []string, role string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, role) {
			return true
		}
	}
	return false
}
