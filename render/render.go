// Package render converts the markdown itineraries and responses produced
// by the planner into sanitized HTML for web surfaces.
package render

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// HTML renders markdown to sanitized HTML. Model output is untrusted, so
// the result always passes through the UGC policy.
func HTML(md string) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	out := markdown.Render(doc, renderer)

	return bluemonday.UGCPolicy().SanitizeBytes(out)
}
