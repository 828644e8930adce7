package wire

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/config"
	"github.com/mithrel/quill/pkg/api"
)

func loaded(t *testing.T) *viper.Viper {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	v := viper.New()
	require.NoError(t, config.Load(context.Background(), v))
	return v
}

func TestBuildAppSQLiteCache(t *testing.T) {
	v := loaded(t)
	app, err := BuildApp(context.Background(), v, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NotNil(t, app.Cache)

	ctx := context.Background()
	req := api.RenderRequest{Content: "**x**"}
	first, err := app.Preview.Render(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := app.Preview.Render(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.HTML, second.HTML)
}

func TestBuildAppWithoutCache(t *testing.T) {
	v := loaded(t)
	v.Set("cache.enabled", false)
	app, err := BuildApp(context.Background(), v, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, app.Cache)
	assert.NoError(t, app.Close())
}

func TestBuildAppBadDSN(t *testing.T) {
	v := loaded(t)
	v.Set("cache.dsn", "redis://x")
	_, err := BuildApp(context.Background(), v, zap.NewNop())
	assert.ErrorContains(t, err, "redis://x")
}

func TestPreviewOptions(t *testing.T) {
	v := viper.New()
	v.Set("render.escape_html", true)
	v.Set("render.sanitize", true)
	opts := PreviewOptions(v)
	assert.True(t, opts.Render.EscapeHTML)
	assert.False(t, opts.Render.ProtectCode)
	assert.True(t, opts.Sanitize)
}
