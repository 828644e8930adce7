package wire

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/cache"
	"github.com/mithrel/quill/internal/config"
	"github.com/mithrel/quill/internal/logging"
	"github.com/mithrel/quill/internal/preview"
	"github.com/mithrel/quill/internal/render"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg     *viper.Viper
	Log     *zap.Logger
	Cache   cache.Store // nil when cache.enabled is false
	Preview *preview.Service

	closer io.Closer
}

// BuildApp wires dependencies from a loaded config. A nil log builds one
// from log.level.
func BuildApp(ctx context.Context, v *viper.Viper, log *zap.Logger) (*App, error) {
	if log == nil {
		l, err := logging.New(v.GetString("log.level"))
		if err != nil {
			return nil, err
		}
		log = l
	}

	app := &App{Cfg: v, Log: log}
	if v.GetBool("cache.enabled") {
		dsn := config.ResolveCacheDSN(v)
		store, closer, err := cache.Open(ctx, dsn, v.GetInt("cache.max_entries"))
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", dsn, err)
		}
		app.Cache, app.closer = store, closer
		log.Debug("cache opened", zap.String("dsn", dsn))
	}

	app.Preview = preview.New(log, app.Cache, PreviewOptions(v))
	return app, nil
}

// PreviewOptions reads the render.* settings.
func PreviewOptions(v *viper.Viper) preview.Options {
	return preview.Options{
		Render: render.Options{
			EscapeHTML:  v.GetBool("render.escape_html"),
			ProtectCode: v.GetBool("render.protect_code"),
		},
		Sanitize: v.GetBool("render.sanitize"),
	}
}

// Close releases the cache and flushes the logger.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var err error
	if a.closer != nil {
		err = a.closer.Close()
	}
	_ = a.Log.Sync()
	return err
}
