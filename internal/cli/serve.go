package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP preview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if listen != "" {
				app.Cfg.Set("server.addr", listen)
			}
			addr := app.Cfg.GetString("server.addr")

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			l, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			srv := server.New(app.Preview, app.Log, server.Options{
				Token:        app.Cfg.GetString("server.token"),
				MaxBodyBytes: app.Cfg.GetInt64("server.max_body_bytes"),
			})
			cmd.Printf("quill preview server listening on %s\n", l.Addr())
			return srv.Serve(ctx, l)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (override config server.addr)")
	return cmd
}

// interruptContext is cancelled on SIGINT or SIGTERM so long-running
// commands can stop cleanly.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
