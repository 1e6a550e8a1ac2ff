package meta

import (
	"fmt"
	"strings"

	"github.com/starford/folio/internal/resolve"
)

// RenderMetaBlock renders the complete replacement head block for a
// descriptor: title, description, OpenGraph, Twitter card, canonical
// link, and the JSON-LD script. All CMS-sourced values are escaped
// before landing in attributes.
func RenderMetaBlock(m PageMeta, siteName string) string {
	title := resolve.EscapeHTML(m.Title)
	desc := resolve.EscapeHTML(m.Description)
	image := resolve.EscapeHTML(m.Image)
	pageURL := resolve.EscapeHTML(m.URL)

	var b strings.Builder
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	fmt.Fprintf(&b, `    <meta name="description" content="%s">`+"\n", desc)
	fmt.Fprintf(&b, `    <meta property="og:title" content="%s">`+"\n", title)
	fmt.Fprintf(&b, `    <meta property="og:description" content="%s">`+"\n", desc)
	fmt.Fprintf(&b, `    <meta property="og:type" content="%s">`+"\n", m.OGType)
	fmt.Fprintf(&b, `    <meta property="og:url" content="%s">`+"\n", pageURL)
	fmt.Fprintf(&b, `    <meta property="og:image" content="%s">`+"\n", image)
	fmt.Fprintf(&b, `    <meta property="og:site_name" content="%s">`+"\n", resolve.EscapeHTML(siteName))
	fmt.Fprintf(&b, `    <meta name="twitter:card" content="summary_large_image">`+"\n")
	fmt.Fprintf(&b, `    <meta name="twitter:title" content="%s">`+"\n", title)
	fmt.Fprintf(&b, `    <meta name="twitter:description" content="%s">`+"\n", desc)
	fmt.Fprintf(&b, `    <meta name="twitter:image" content="%s">`+"\n", image)
	if m.JSONLD != "" {
		fmt.Fprintf(&b, `    <script type="application/ld+json">%s</script>`+"\n", m.JSONLD)
	}
	fmt.Fprintf(&b, `    <link rel="canonical" href="%s">`, pageURL)
	return b.String()
}

// Splice replaces the region between the first <title> tag and the last
// <link rel="canonical"> tag with the rendered block, preserving every
// other byte of the origin HTML. The origin contract requires both
// markers; a malformed document is an error and the caller passes the
// original through.
func Splice(html, block string) (string, error) {
	titleStart := strings.Index(html, "<title")
	if titleStart == -1 {
		return "", fmt.Errorf("meta: origin html has no <title> tag")
	}

	canonStart := strings.LastIndex(html, `<link rel="canonical"`)
	if canonStart == -1 {
		canonStart = strings.LastIndex(html, `<link rel='canonical'`)
	}
	if canonStart == -1 {
		return "", fmt.Errorf("meta: origin html has no canonical link")
	}
	if canonStart < titleStart {
		return "", fmt.Errorf("meta: canonical link precedes <title>")
	}

	canonEnd := strings.Index(html[canonStart:], ">")
	if canonEnd == -1 {
		return "", fmt.Errorf("meta: unterminated canonical link")
	}
	canonEnd += canonStart + 1

	return html[:titleStart] + block + html[canonEnd:], nil
}
