package config

// ConfigOption is one documented setting with its default.
type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; the render cache lives in data_dir/quill.db"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn or error"},

		{Key: "render.compact", Default: false, Comment: "Use the compact display container by default"},
		{Key: "render.escape_html", Default: false, Comment: "Escape &, < and > in the source before rendering (deviates from the standard dialect)"},
		{Key: "render.protect_code", Default: false, Comment: "Keep code bodies away from emphasis and newline rules (deviates from the standard dialect)"},
		{Key: "render.sanitize", Default: false, Comment: "Strip any markup the dialect cannot produce from rendered output"},

		{Key: "cache.enabled", Default: true, Comment: "Memoise rendered markup keyed by content hash"},
		{Key: "cache.dsn", Default: "", Comment: "Cache location: sqlite://<path> or mem://; empty means sqlite in data_dir"},
		{Key: "cache.max_entries", Default: 1024, Comment: "Upper bound for the mem:// cache"},

		{Key: "server.addr", Default: "127.0.0.1:8080", Comment: "Listen address for quill serve"},
		{Key: "server.token", Default: "", Comment: "Bearer token required by quill serve; empty disables the check"},
		{Key: "server.max_body_bytes", Default: 1 << 20, Comment: "Largest accepted request body"},

		{Key: "preview.style", Default: "dracula", Comment: "glamour style for terminal previews"},
		{Key: "preview.width", Default: 80, Comment: "Word-wrap width for terminal previews"},

		{Key: "editor.keep_file", Default: false, Comment: "Keep the draft file after quill compose exits"},
	}
}
