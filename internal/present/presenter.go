package present

import (
	"context"
	"fmt"
	"io"

	"github.com/mithrel/quill/internal/present/format"
	"github.com/mithrel/quill/internal/present/tui"
	"github.com/mithrel/quill/pkg/api"
)

type Mode int

const (
	ModeHTML Mode = iota
	ModePage
	ModeJSON
	ModeTerminal
	ModeTUI
)

func (m Mode) String() string {
	switch m {
	case ModeHTML:
		return "html"
	case ModePage:
		return "page"
	case ModeJSON:
		return "json"
	case ModeTerminal:
		return "terminal"
	case ModeTUI:
		return "tui"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Modes lists every accepted --format value.
var Modes = []string{"html", "page", "json", "terminal", "tui"}

// ParseMode parses a string like "html", "page", "json", "terminal", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "html":
		return ModeHTML, true
	case "page":
		return ModePage, true
	case "json":
		return ModeJSON, true
	case "terminal":
		return ModeTerminal, true
	case "tui":
		return ModeTUI, true
	default:
		return ModeHTML, false
	}
}

// Document is one rendered input together with its Markdown source.
type Document struct {
	Title  string
	Source string
	Result api.RenderResult
}

type Options struct {
	Mode     Mode
	Indent   bool
	Terminal format.TerminalOptions
}

// Write renders doc to w according to opts. ModeTUI takes over the terminal
// and ignores w.
func Write(ctx context.Context, w io.Writer, doc Document, opts Options) error {
	switch opts.Mode {
	case ModeHTML:
		return format.WriteFragment(w, doc.Result.HTML)
	case ModePage:
		return format.WritePage(w, doc.Title, doc.Result.HTML)
	case ModeJSON:
		return format.WriteJSON(w, doc.Result, opts.Indent)
	case ModeTerminal:
		return format.WriteTerminal(w, doc.Title, doc.Source, opts.Terminal)
	case ModeTUI:
		preview, err := format.RenderTerminal(doc.Title, doc.Source, opts.Terminal)
		if err != nil {
			return err
		}
		title := doc.Title
		if title == "" {
			title = "quill"
		}
		return tui.Run(ctx, title, []tui.Pane{
			{Name: "preview", Content: preview},
			{Name: "html", Content: doc.Result.HTML},
			{Name: "source", Content: doc.Source},
		})
	default:
		return fmt.Errorf("unsupported output mode %s", opts.Mode)
	}
}
