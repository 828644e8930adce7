package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/present"
	"github.com/mithrel/quill/internal/present/format"
	"github.com/mithrel/quill/internal/render"
	"github.com/mithrel/quill/internal/util"
	"github.com/mithrel/quill/internal/watch"
	"github.com/mithrel/quill/internal/wire"
	"github.com/mithrel/quill/pkg/api"
)

type renderFlags struct {
	compact bool
	safe    bool
	format  string
	output  string
	title   string
	indent  bool
	explain bool
	watch   bool
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [file|-]...",
		Short: "Render Markdown files (or stdin) to HTML",
		Long: `Render Markdown to HTML with quill's rule table.

With no file, or "-", the source is read from stdin. --format selects the
output: an HTML fragment (default), a standalone page, the JSON render result,
a glamour preview for the terminal, or an interactive preview.

The terminal and tui previews render the source with glamour, which follows
CommonMark rather than quill's rules. They are a reading aid and can differ
from the HTML output, for example around code spans or emphasis inside code.
The tui preview's html pane shows quill's actual output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if !cmd.Flags().Changed("compact") {
				f.compact = app.Cfg.GetBool("render.compact")
			}
			if len(args) == 0 {
				args = []string{"-"}
			}
			mode, ok := present.ParseMode(f.format)
			if !ok {
				return fmt.Errorf("unknown --format %q (want one of %s)", f.format, strings.Join(present.Modes, ", "))
			}
			if f.watch && (len(args) != 1 || args[0] == "-") {
				return fmt.Errorf("--watch needs exactly one file")
			}
			if mode == present.ModeTUI && len(args) != 1 {
				return fmt.Errorf("--format tui shows one document at a time")
			}
			opts := present.Options{
				Mode:   mode,
				Indent: f.indent,
				Terminal: format.TerminalOptions{
					Style: app.Cfg.GetString("preview.style"),
					Width: terminalWidth(cmd.OutOrStdout(), app.Cfg.GetInt("preview.width")),
				},
			}

			if f.watch {
				ctx, stop := interruptContext(cmd.Context())
				defer stop()
				cmd.SetContext(ctx)
				log := app.Log
				return watch.File(ctx, args[0], watch.DefaultDebounce, func() error {
					if err := renderInputs(cmd, app, args, f, opts); err != nil {
						return err
					}
					log.Info("rendered", zap.String("path", args[0]), zap.String("output", f.output))
					return nil
				}, log)
			}
			return renderInputs(cmd, app, args, f, opts)
		},
	}
	cmd.Flags().BoolVar(&f.compact, "compact", false, "use the compact container (default from render.compact)")
	cmd.Flags().BoolVar(&f.safe, "safe", false, "escape HTML in the source and protect code bodies")
	cmd.Flags().StringVarP(&f.format, "format", "f", "html", "output format: html|page|json|terminal|tui (terminal and tui previews use CommonMark via glamour)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&f.title, "title", "", "document title (default: file name)")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent JSON output")
	cmd.Flags().BoolVar(&f.explain, "explain", false, "print the rules that fired to stderr")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "re-render whenever the file changes")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return util.ScoreCompletions(toComplete, present.Modes, 0), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// renderInputs renders every input to -o (truncated once per run) or stdout.
func renderInputs(cmd *cobra.Command, app *wire.App, inputs []string, f renderFlags, opts present.Options) (err error) {
	out := cmd.OutOrStdout()
	if f.output != "" {
		if dir := filepath.Dir(f.output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.Create(f.output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		out = file
	}

	for _, in := range inputs {
		content, err := readInput(cmd.InOrStdin(), in)
		if err != nil {
			return err
		}
		doc, err := renderDocument(cmd.Context(), app, titleFor(f.title, in), content, f.compact, f.safe)
		if err != nil {
			return err
		}
		if f.explain {
			if err := explain(cmd.ErrOrStderr(), app, content, f.safe); err != nil {
				return err
			}
		}
		if err := writeDocument(cmd.Context(), out, cmd.ErrOrStderr(), doc, opts); err != nil {
			return err
		}
	}
	return nil
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func titleFor(flag, input string) string {
	if flag != "" {
		return flag
	}
	if input == "-" {
		return ""
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// explain re-runs the rule chain with tracing to show which rules fired.
func explain(w io.Writer, app *wire.App, content string, safe bool) error {
	ropts := wire.PreviewOptions(app.Cfg).Render
	if safe {
		ropts = render.Options{EscapeHTML: true, ProtectCode: true}
	}
	var steps []render.TraceEvent
	r := render.New(render.WithOptions(ropts), render.WithTrace(func(ev render.TraceEvent) {
		app.Log.Debug("rule fired", zap.Int("position", ev.Position), zap.String("rule", ev.Rule))
		steps = append(steps, ev)
	}))
	r.Transform(content)
	return format.WritePlainTrace(w, steps)
}

func renderDocument(ctx context.Context, app *wire.App, title, content string, compact, safe bool) (present.Document, error) {
	res, err := app.Preview.Render(ctx, api.RenderRequest{Content: content, Compact: compact, Safe: safe})
	if err != nil {
		return present.Document{}, err
	}
	return present.Document{Title: title, Source: content, Result: res}, nil
}
