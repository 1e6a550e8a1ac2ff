package meta

// Portfolio modes. The mode is a deployment-time selector between the
// two supported site configurations; it picks the mode-suffixed data
// files and the branding below.
const (
	ModeDirecting = "directing"
	ModePost      = "post-production"
)

// ultimateFallbackImage is the last resort when neither the item, the
// site config, nor the profile carries an image.
const ultimateFallbackImage = "https://res.cloudinary.com/folio-cdn/image/upload/v1/share/default-og.jpg"

// Profile is the mode-specific branding baked into generic page meta and
// JSON-LD person/author blocks.
type Profile struct {
	Mode        string
	SiteName    string
	OwnerName   string
	JobTitle    string
	Tagline     string
	BaseURL     string
	SocialLinks []string
}

// ProfileForMode returns the branding for a portfolio mode. Unknown
// modes fall back to directing.
func ProfileForMode(mode, baseURL string) Profile {
	switch mode {
	case ModePost:
		return Profile{
			Mode:      ModePost,
			SiteName:  "Alex Marlowe — Colour & Post",
			OwnerName: "Alex Marlowe",
			JobTitle:  "Colourist",
			Tagline:   "Colour grading and finishing for film, commercials and music videos.",
			BaseURL:   baseURL,
			SocialLinks: []string{
				"https://www.instagram.com/alexmarlowe.colour",
				"https://vimeo.com/alexmarlowecolour",
				"https://www.linkedin.com/in/alexmarlowe",
			},
		}
	default:
		return Profile{
			Mode:      ModeDirecting,
			SiteName:  "Alex Marlowe",
			OwnerName: "Alex Marlowe",
			JobTitle:  "Film Director",
			Tagline:   "Director of narrative film, commercials and music videos.",
			BaseURL:   baseURL,
			SocialLinks: []string{
				"https://www.instagram.com/alexmarlowe.film",
				"https://vimeo.com/alexmarlowe",
				"https://www.imdb.com/name/nm00000000/",
			},
		}
	}
}

// DataFileForMode returns the mode-suffixed full-data filename.
func DataFileForMode(mode string) string {
	return "portfolio-data-" + mode + ".json"
}

// ShareFileForMode returns the mode-suffixed share-manifest filename.
func ShareFileForMode(mode string) string {
	return "share-meta-" + mode + ".json"
}
