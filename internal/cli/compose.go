package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/editor"
	"github.com/mithrel/quill/internal/present"
	"github.com/mithrel/quill/internal/present/format"
)

func newComposeCmd() *cobra.Command {
	var title, formatName, output string
	var compact, safe bool
	cmd := &cobra.Command{
		Use:   "compose [name]",
		Short: "Write a draft in $EDITOR and render it",
		Long: `Open $VISUAL or $EDITOR on a draft, then render what was written.

Drafts live under $XDG_RUNTIME_DIR/quill (or ~/.cache/quill/drafts). An
existing draft with the same name is reopened. Lines starting with %% are
dropped before rendering.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if !cmd.Flags().Changed("compact") {
				compact = app.Cfg.GetBool("render.compact")
			}
			if formatName == "" {
				formatName = "html"
				if output == "" && isTerminal(cmd.OutOrStdout()) {
					formatName = "terminal"
				}
			}
			mode, ok := present.ParseMode(formatName)
			if !ok {
				return fmt.Errorf("unknown --format %q", formatName)
			}

			path, err := editor.DraftPath(name)
			if err != nil {
				return err
			}
			initial := []byte(editor.ComposeContent(title, ""))
			if prev, err := os.ReadFile(path); err == nil {
				initial = prev
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			edited, changed, err := editor.OpenAt(path, initial)
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			app.Log.Debug("draft edited", zap.String("path", path), zap.Bool("changed", changed))

			draftTitle, body := editor.ParseDraft(string(edited))
			if body == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Empty draft, nothing rendered.")
				return removeDraft(app.Cfg.GetBool("editor.keep_file"), path)
			}
			if title != "" {
				draftTitle = title
			}
			if draftTitle == "" {
				draftTitle = editor.FirstLine(body)
			}

			doc, err := renderDocument(cmd.Context(), app, draftTitle, body, compact, safe)
			if err != nil {
				return err
			}
			opts := present.Options{
				Mode: mode,
				Terminal: format.TerminalOptions{
					Style: app.Cfg.GetString("preview.style"),
					Width: terminalWidth(cmd.OutOrStdout(), app.Cfg.GetInt("preview.width")),
				},
			}
			out := cmd.OutOrStdout()
			if output != "" {
				if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
					return err
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := writeDocument(cmd.Context(), out, cmd.ErrOrStderr(), doc, opts); err != nil {
				return err
			}
			if keep := app.Cfg.GetBool("editor.keep_file"); keep {
				fmt.Fprintf(cmd.ErrOrStderr(), "Draft kept at %s\n", path)
			}
			return removeDraft(app.Cfg.GetBool("editor.keep_file"), path)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "draft title")
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output format (default terminal on a TTY, else html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&compact, "compact", false, "use the compact container (default from render.compact)")
	cmd.Flags().BoolVar(&safe, "safe", false, "escape HTML in the draft and protect code bodies")
	return cmd
}

func removeDraft(keep bool, path string) error {
	if keep {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
