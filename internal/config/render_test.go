package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDefaultTOMLParses(t *testing.T) {
	out := RenderDefaultTOML()
	assert.Contains(t, out, "[render]\n")
	assert.Contains(t, out, "escape_html = false")
	assert.Contains(t, out, `style = "dracula"`)

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	for _, o := range GetConfigOptions() {
		assert.True(t, v.IsSet(o.Key), o.Key)
	}
	assert.Equal(t, 1<<20, v.GetInt("server.max_body_bytes"))
}

func TestUpdateTOML(t *testing.T) {
	existing := "# mine\n[render]\ncompact = true\nlegacy = 1\n"

	updated, changed := UpdateTOML(existing)
	require.True(t, changed)
	assert.Contains(t, updated, "compact = true")
	assert.Contains(t, updated, "# OUTDATED: option removed from config schema\n# legacy = 1")
	assert.Contains(t, updated, "# Added by config update")
	assert.Contains(t, updated, "escape_html = false")
	assert.Equal(t, 1, strings.Count(updated, "compact ="), "existing keys are not re-added")
	assert.Equal(t, 1, strings.Count(updated, "[render]"), "tables are declared once")

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(updated)))
	assert.True(t, v.GetBool("render.compact"))
	assert.True(t, v.IsSet("data_dir"))
	assert.True(t, v.IsSet("preview.width"))

	again, changed := UpdateTOML(updated)
	assert.False(t, changed)
	assert.Equal(t, updated, again)
}
