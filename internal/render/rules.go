package render

import (
	"regexp"
	"strconv"
	"strings"
)

// Anchor says where a rule's pattern may match.
type Anchor int

const (
	// Anywhere lets the pattern match at any offset, including across lines
	// when the rule is DotAll.
	Anywhere Anchor = iota
	// Line anchors the pattern to a whole line: it must start at a line start
	// and end at a line end.
	Line
)

func (a Anchor) String() string {
	if a == Line {
		return "line"
	}
	return "anywhere"
}

// Rule is one substitution in the transformation table.
//
// Pattern is written with ordinary (greedy) quantifiers. Lazy flips every
// quantifier in the pattern to shortest-match, so `(.+)` between two
// delimiters stops at the first closing delimiter.
type Rule struct {
	Name    string
	Anchor  Anchor
	Pattern string
	Lazy    bool
	DotAll  bool
	// Verbatim marks rules whose first group is code. With ProtectCode the
	// group is hidden from every later rule.
	Verbatim bool
	Replace  func(groups []string) string
}

// Expr returns the regular expression the rule compiles to.
func (r Rule) Expr() string {
	var flags string
	if r.Anchor == Line {
		flags += "m"
	}
	if r.DotAll {
		flags += "s"
	}
	if r.Lazy {
		flags += "U"
	}
	expr := r.Pattern
	if r.Anchor == Line {
		expr = "^" + expr + "$"
	}
	if flags != "" {
		expr = "(?" + flags + ")" + expr
	}
	return expr
}

// Rule names, in application order.
const (
	RuleFencedCode     = "fenced-code"
	RuleInlineCode     = "inline-code"
	RuleHeading        = "heading"
	RuleBlockquote     = "blockquote"
	RuleUnorderedItem  = "unordered-item"
	RuleOrderedItem    = "ordered-item"
	RuleBold           = "bold"
	RuleItalic         = "italic"
	RuleHorizontalRule = "horizontal-rule"
	RuleParagraphLong  = "paragraph-long"
	RuleParagraph      = "paragraph"
	RuleLineBreak      = "line-break"
)

// Output tokens for the newline rules.
const (
	ParagraphBreak = "</p><p>"
	LineBreak      = "<br/>"
)

// Rules returns the ordered rule table for opts. Order is precedence: every
// rule runs over the output of the rules before it.
func Rules(opts Options) []Rule {
	quote := "> (.*)"
	if opts.EscapeHTML {
		quote = "&gt; (.*)"
	}
	return []Rule{
		{Name: RuleFencedCode, Pattern: "```(.*)```", Lazy: true, DotAll: true, Verbatim: true, Replace: wrap("<pre><code>", "</code></pre>")},
		{Name: RuleInlineCode, Pattern: "`([^`\n]+)`", Lazy: true, Verbatim: true, Replace: wrap("<code>", "</code>")},
		{Name: RuleHeading, Anchor: Line, Pattern: "(#{1,4}) (.*)", Replace: heading},
		{Name: RuleBlockquote, Anchor: Line, Pattern: quote, Replace: wrap("<blockquote>", "</blockquote>")},
		{Name: RuleUnorderedItem, Anchor: Line, Pattern: "[-*] (.*)", Replace: wrap(`<li class="md-ul">• `, "</li>")},
		{Name: RuleOrderedItem, Anchor: Line, Pattern: `(\d+)\. (.*)`, Replace: orderedItem},
		{Name: RuleBold, Pattern: `\*\*(.+)\*\*`, Lazy: true, Replace: wrap("<strong>", "</strong>")},
		{Name: RuleItalic, Pattern: `\*(.+)\*`, Lazy: true, Replace: wrap("<em>", "</em>")},
		{Name: RuleHorizontalRule, Anchor: Line, Pattern: "---", Replace: literal("<hr/>")},
		{Name: RuleParagraphLong, Pattern: `\n{3,}`, Replace: literal(ParagraphBreak)},
		{Name: RuleParagraph, Pattern: `\n\n`, Replace: literal(ParagraphBreak)},
		{Name: RuleLineBreak, Pattern: `\n`, Replace: literal(LineBreak)},
	}
}

func wrap(open, close string) func([]string) string {
	return func(g []string) string {
		return open + g[1] + close
	}
}

func literal(s string) func([]string) string {
	return func([]string) string { return s }
}

func heading(g []string) string {
	level := strconv.Itoa(len(g[1]))
	return "<h" + level + ">" + g[2] + "</h" + level + ">"
}

func orderedItem(g []string) string {
	return `<li class="md-ol">` + g[1] + ". " + g[2] + "</li>"
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

func compile(rules []Rule) []compiledRule {
	out := make([]compiledRule, len(rules))
	for i, r := range rules {
		out[i] = compiledRule{Rule: r, re: regexp.MustCompile(r.Expr())}
	}
	return out
}

// apply substitutes every non-overlapping match, left to right, the same way
// regexp.ReplaceAllString does. It returns the input unchanged (and false)
// when nothing matched.
func (r compiledRule) apply(s string, st *pass) (string, bool) {
	locs := r.re.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s, false
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		if r.Verbatim && st.protect && len(groups) > 1 {
			groups[1] = st.stash(groups[1])
		}
		b.WriteString(r.Replace(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String(), true
}
