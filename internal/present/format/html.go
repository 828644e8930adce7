package format

import (
	"html/template"
	"io"
	"strings"
)

// WriteFragment writes rendered markup as-is.
func WriteFragment(w io.Writer, markup string) error {
	if markup == "" {
		return nil
	}
	if !strings.HasSuffix(markup, "\n") {
		markup += "\n"
	}
	_, err := io.WriteString(w, markup)
	return err
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { margin: 0; background: #faf8f5; color: #2b2b2b; font-family: Georgia, "Times New Roman", serif; }
main { max-width: 42rem; margin: 3rem auto; padding: 0 1.25rem; }
.md-body { font-size: 1.125rem; line-height: 1.75; }
.md-body p { margin: 0 0 1.25em; }
.md-body h1, .md-body h2, .md-body h3, .md-body h4 { font-family: system-ui, sans-serif; line-height: 1.25; margin: 1.5em 0 .5em; }
.md-body blockquote { margin: 1em 0; padding-left: 1em; border-left: 3px solid #c9b99a; color: #5a5a5a; font-style: italic; }
.md-body li { display: block; margin-left: 1.25em; }
.md-body code { font-family: ui-monospace, monospace; font-size: .9em; background: #efebe4; padding: .1em .3em; border-radius: 3px; }
.md-body pre { background: #efebe4; padding: .75em 1em; overflow-x: auto; border-radius: 4px; }
.md-body pre code { background: none; padding: 0; }
.md-body hr { border: 0; border-top: 1px solid #d8d0c4; margin: 2em 0; }
.md-compact { font-size: .95rem; line-height: 1.5; }
.md-compact p { margin-bottom: .6em; }
.md-compact h1, .md-compact h2, .md-compact h3, .md-compact h4 { margin: .8em 0 .3em; }
</style>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// WritePage writes a standalone HTML document around rendered markup.
func WritePage(w io.Writer, title, markup string) error {
	if title == "" {
		title = "Preview"
	}
	return pageTmpl.Execute(w, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(markup)})
}
