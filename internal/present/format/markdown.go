package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// TerminalOptions select the glamour style and wrap width.
type TerminalOptions struct {
	Style string
	Width int
}

// RenderTerminal renders Markdown source for a terminal using glamour.
// glamour parses CommonMark, so the result can differ from the HTML the rule
// table produces for the same source.
// Style "auto" picks a light or dark theme from the terminal background.
func RenderTerminal(title, source string, opts TerminalOptions) (string, error) {
	md := strings.TrimSpace(source)
	if title != "" {
		md = "# " + title + "\n\n---\n\n" + md
	}

	styleOpt := glamour.WithStandardStyle(opts.Style)
	if opts.Style == "" || opts.Style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// WriteTerminal writes RenderTerminal's output to w.
func WriteTerminal(w io.Writer, title, source string, opts TerminalOptions) error {
	out, err := RenderTerminal(title, source, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
