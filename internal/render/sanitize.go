package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

// newPolicy allows exactly the elements the rule table and Container emit.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "p", "br", "li", "h1", "h2", "h3", "h4", "blockquote", "strong", "em", "code", "pre", "hr")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^md-(ul|ol)$`)).OnElements("li")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^md-body( md-compact)?$`)).OnElements("div")
	return p
}

// Sanitize strips everything from markup that the dialect cannot produce,
// such as raw <script> or event-handler attributes passed through from the
// source by the standard rules.
func Sanitize(markup string) string {
	if markup == "" {
		return ""
	}
	return policy.Sanitize(markup)
}
