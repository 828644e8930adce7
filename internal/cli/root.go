package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/quill/internal/config"
	"github.com/mithrel/quill/internal/logging"
	"github.com/mithrel/quill/internal/wire"
)

type ctxKey string

const (
	appKey ctxKey = "app"
	cfgKey ctxKey = "cfg"
)

// skipAppAnnotation marks commands that only need the loaded config, so a
// broken cache never blocks "config validate" or completion scripts.
const skipAppAnnotation = "quill/skip-app"

// Execute is the entrypoint: it builds the root cobra.Command
// and calls its Execute() method to run the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:           "quill",
		Short:         "quill renders lightweight Markdown to HTML",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			if verbose {
				v.Set("log.level", "debug")
			}
			ctx := context.WithValue(cmd.Context(), cfgKey, v)
			if cmd.Annotations[skipAppAnnotation] != "" {
				cmd.SetContext(ctx)
				return nil
			}

			log, err := logging.New(v.GetString("log.level"))
			if err != nil {
				return err
			}
			// Wire up the app and stash it in context for subcommands.
			app, err := wire.BuildApp(ctx, v, log)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(ctx, appKey, app))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newComposeCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }
	closeAppAfterRun(cmd)

	return cmd
}

// closeAppAfterRun wraps every RunE so the App is closed whether or not the
// command fails. Cobra skips post-run hooks after an error.
func closeAppAfterRun(cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				app, ok := cmd.Context().Value(appKey).(*wire.App)
				if !ok {
					return
				}
				if cerr := app.Close(); err == nil {
					err = cerr
				}
			}()
			return run(cmd, args)
		}
	}
	for _, sub := range cmd.Commands() {
		closeAppAfterRun(sub)
	}
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

func getConfig(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(cfgKey).(*viper.Viper); ok {
		return v
	}
	fmt.Fprintln(os.Stderr, "internal error: config not loaded")
	os.Exit(1)
	return nil
}
