package portfolio

import "testing"

func TestBuildShareManifest_ImageFallback(t *testing.T) {
	d := Data{
		Projects: []Project{
			{ID: "r1", Slug: "hero", HeroImage: "https://img/hero.jpg", VideoThumbnail: "https://img/thumb.jpg"},
			{ID: "r2", Slug: "thumb", VideoThumbnail: "https://img/thumb.jpg"},
			{ID: "r3", Slug: "gallery", Images: []Image{{URL: "https://img/g1.jpg"}, {URL: "https://img/g2.jpg"}}},
			{ID: "r4", Slug: "bare"},
		},
		Config:      SiteConfig{DefaultOGImage: "https://img/default.jpg"},
		GeneratedAt: "2026-08-25T00:00:00Z",
	}

	m := BuildShareManifest(d)
	wantImages := []string{"https://img/hero.jpg", "https://img/thumb.jpg", "https://img/g1.jpg", ""}
	for i, want := range wantImages {
		if m.Projects[i].Image != want {
			t.Errorf("project %d image = %q, want %q", i, m.Projects[i].Image, want)
		}
	}
	if m.DefaultImg != "https://img/default.jpg" {
		t.Errorf("default image = %q", m.DefaultImg)
	}
	if m.GeneratedAt != d.GeneratedAt {
		t.Errorf("generatedAt = %q", m.GeneratedAt)
	}
}

func TestShareManifestData_Expansion(t *testing.T) {
	m := ShareManifest{
		Projects:   []ShareItem{{ID: "r1", Slug: "p", Title: "P", Description: "d", Image: "i", Category: "Narrative"}},
		Posts:      []ShareItem{{ID: "r2", Slug: "b", Title: "B", Description: "e", Image: "c"}},
		DefaultImg: "https://img/default.jpg",
	}

	d := m.Data()
	p := d.FindProject("p")
	if p == nil {
		t.Fatal("project missing after expansion")
	}
	if p.DisplayStatus != StatusPublic || p.HeroImage != "i" {
		t.Errorf("project = %+v", p)
	}

	post := d.FindPost("b")
	if post == nil {
		t.Fatal("post missing after expansion")
	}
	if post.Status != PostPublished || post.ReadingTime != "1 min read" || post.Excerpt != "e" {
		t.Errorf("post = %+v", post)
	}
	if d.Config.DefaultOGImage != "https://img/default.jpg" {
		t.Errorf("config = %+v", d.Config)
	}
}
