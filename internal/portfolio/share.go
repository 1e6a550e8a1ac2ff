package portfolio

// ShareItem is the slimmed-down representation of a project or post in
// the share manifest, just enough for social-meta generation.
type ShareItem struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ShareManifest is the lightweight fallback artifact the meta rewriter
// uses when the full portfolio data file is unavailable.
type ShareManifest struct {
	Projects    []ShareItem `json:"projects"`
	Posts       []ShareItem `json:"posts"`
	DefaultImg  string      `json:"defaultImage,omitempty"`
	GeneratedAt string      `json:"generatedAt"`
}

// BuildShareManifest derives the share manifest from full portfolio data.
func BuildShareManifest(d Data) ShareManifest {
	m := ShareManifest{
		Projects:    make([]ShareItem, 0, len(d.Projects)),
		Posts:       make([]ShareItem, 0, len(d.Posts)),
		DefaultImg:  d.Config.DefaultOGImage,
		GeneratedAt: d.GeneratedAt,
	}
	for _, p := range d.Projects {
		img := p.HeroImage
		if img == "" {
			img = p.VideoThumbnail
		}
		if img == "" && len(p.Images) > 0 {
			img = p.Images[0].URL
		}
		m.Projects = append(m.Projects, ShareItem{
			ID:          p.ID,
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			Image:       img,
			Category:    p.Category,
		})
	}
	for _, post := range d.Posts {
		m.Posts = append(m.Posts, ShareItem{
			ID:          post.ID,
			Slug:        post.Slug,
			Title:       post.Title,
			Description: post.Excerpt,
			Image:       post.CoverImage,
		})
	}
	return m
}

// Data expands a share manifest back into sparse portfolio data so the
// rewriter can treat every source uniformly.
func (m ShareManifest) Data() Data {
	d := Data{
		Projects:    make([]Project, 0, len(m.Projects)),
		Posts:       make([]JournalPost, 0, len(m.Posts)),
		Config:      SiteConfig{DefaultOGImage: m.DefaultImg},
		GeneratedAt: m.GeneratedAt,
	}
	for _, item := range m.Projects {
		d.Projects = append(d.Projects, Project{
			ID:            item.ID,
			Slug:          item.Slug,
			Title:         item.Title,
			Description:   item.Description,
			HeroImage:     item.Image,
			Category:      item.Category,
			DisplayStatus: StatusPublic,
		})
	}
	for _, item := range m.Posts {
		d.Posts = append(d.Posts, JournalPost{
			ID:          item.ID,
			Slug:        item.Slug,
			Title:       item.Title,
			Excerpt:     item.Description,
			CoverImage:  item.Image,
			ReadingTime: "1 min read",
			Status:      PostPublished,
		})
	}
	return d
}
