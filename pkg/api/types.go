package api

import "time"

// RenderRequest asks for one piece of content to be rendered.
type RenderRequest struct {
	Content string `json:"content"`
	Compact bool   `json:"compact"`
	Safe    bool   `json:"safe"`
}

// RenderResult carries the rendered markup and the cache key it was stored under.
type RenderResult struct {
	HTML   string `json:"html"`
	Hash   string `json:"hash"`
	Cached bool   `json:"cached"`
}

// RuleInfo describes one entry of the rule table, in application order.
type RuleInfo struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Anchor   string `json:"anchor"`
	Pattern  string `json:"pattern"`
	Expr     string `json:"expr"`
	Lazy     bool   `json:"lazy"`
	DotAll   bool   `json:"dot_all"`
	Verbatim bool   `json:"verbatim"`
}

// CacheStats summarises the render cache.
type CacheStats struct {
	Entries int64     `json:"entries"`
	Hits    int64     `json:"hits"`
	Bytes   int64     `json:"bytes"`
	Oldest  time.Time `json:"oldest,omitempty"`
}
