// Package render turns the editor's Markdown dialect into HTML markup.
//
// The transformation is an ordered table of pattern substitutions (see
// Rules). There is no parser: each rule rewrites the output of the previous
// one, so the table order is the precedence. Rendering is total and pure; it
// never fails and can be called concurrently.
//
// The zero Options reproduce the standard dialect exactly, including its
// known gaps: source text is not escaped and code bodies are still visible to
// the emphasis and newline rules. EscapeHTML and ProtectCode close those gaps.
package render

import "strings"

// Options select optional behaviour. The zero value is the standard dialect.
type Options struct {
	// EscapeHTML escapes &, < and > in the source before any rule runs.
	EscapeHTML bool
	// ProtectCode keeps fenced and inline code bodies away from later rules.
	ProtectCode bool
}

// TraceEvent reports one rule that changed the text.
type TraceEvent struct {
	Position int
	Rule     string
	Before   string
	After    string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEscapeHTML toggles Options.EscapeHTML.
func WithEscapeHTML(on bool) Option {
	return func(r *Renderer) { r.opts.EscapeHTML = on }
}

// WithProtectCode toggles Options.ProtectCode.
func WithProtectCode(on bool) Option {
	return func(r *Renderer) { r.opts.ProtectCode = on }
}

// WithOptions replaces all options at once.
func WithOptions(o Options) Option {
	return func(r *Renderer) { r.opts = o }
}

// WithTrace installs fn, called after every rule that matched.
func WithTrace(fn func(TraceEvent)) Option {
	return func(r *Renderer) { r.trace = fn }
}

// Renderer applies a compiled rule table. It holds no per-call state and is
// safe for concurrent use.
type Renderer struct {
	opts  Options
	trace func(TraceEvent)
	rules []compiledRule
}

// New compiles the rule table for the given options.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, o := range opts {
		o(r)
	}
	r.rules = compile(Rules(r.opts))
	return r
}

// Safe returns a renderer with escaping and code protection enabled.
func Safe(opts ...Option) *Renderer {
	return New(append([]Option{WithEscapeHTML(true), WithProtectCode(true)}, opts...)...)
}

// Options reports the options the renderer was built with.
func (r *Renderer) Options() Options { return r.opts }

// Rules returns the renderer's rule table in application order.
func (r *Renderer) Rules() []Rule { return Rules(r.opts) }

// Transform runs the rule table over content.
func (r *Renderer) Transform(content string) string {
	if content == "" {
		return ""
	}
	st := &pass{protect: r.opts.ProtectCode}
	s := content
	if st.protect {
		s = strings.ReplaceAll(s, placeholderMark, "\uFFFD")
	}
	if r.opts.EscapeHTML {
		s = escaper.Replace(s)
	}
	for i, rule := range r.rules {
		out, hit := rule.apply(s, st)
		if hit && r.trace != nil {
			r.trace(TraceEvent{Position: i + 1, Rule: rule.Name, Before: s, After: out})
		}
		s = out
	}
	return st.restore(s)
}

// Render transforms content and places it in the display container chosen by
// compact. compact never changes the rules.
func (r *Renderer) Render(content string, compact bool) string {
	return Container(r.Transform(content), compact)
}

// Container wraps markup for display. The newline rules emit paragraph
// breaks as "</p><p>", so the container opens and closes the outer paragraph.
// Empty markup stays empty.
func Container(markup string, compact bool) string {
	if markup == "" {
		return ""
	}
	class := "md-body"
	if compact {
		class += " md-compact"
	}
	return `<div class="` + class + `"><p>` + markup + "</p></div>"
}

var std = New()

// Transform runs the standard rule table over content.
func Transform(content string) string { return std.Transform(content) }

// Render renders content with the standard rules into the container chosen
// by compact.
func Render(content string, compact bool) string { return std.Render(content, compact) }
