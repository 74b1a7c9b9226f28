package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user written content before it is stored.
type Sanitizer struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	ugc := bluemonday.UGCPolicy()
	ugc.RequireNoFollowOnLinks(true)
	ugc.AddTargetBlankToFullyQualifiedLinks(true)
	ugc.RequireNoReferrerOnLinks(true)

	return &Sanitizer{
		strict: bluemonday.StrictPolicy(),
		ugc:    ugc,
	}
}

// Text strips all markup and returns plain text.
func (s *Sanitizer) Text(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(in)))
}

// HTML keeps the safe subset of user generated HTML.
func (s *Sanitizer) HTML(in string) string {
	return strings.TrimSpace(s.ugc.Sanitize(in))
}
