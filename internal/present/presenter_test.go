package present

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/quill/internal/present/format"
	"github.com/mithrel/quill/pkg/api"
)

func TestParseMode(t *testing.T) {
	for _, s := range Modes {
		m, ok := ParseMode(s)
		require.True(t, ok, s)
		assert.Equal(t, s, m.String())
	}
	m, ok := ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, ModeHTML, m)

	_, ok = ParseMode("pdf")
	assert.False(t, ok)
}

func TestWrite(t *testing.T) {
	doc := Document{
		Title:  "Notes",
		Source: "**hi**",
		Result: api.RenderResult{HTML: `<div class="md-body"><p><strong>hi</strong></p></div>`, Hash: "abc"},
	}
	ctx := context.Background()

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(ctx, &buf, doc, Options{Mode: ModeHTML}))
		assert.Equal(t, doc.Result.HTML+"\n", buf.String())
	})

	t.Run("page", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(ctx, &buf, doc, Options{Mode: ModePage}))
		assert.Contains(t, buf.String(), "<title>Notes</title>")
		assert.Contains(t, buf.String(), "<strong>hi</strong>")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(ctx, &buf, doc, Options{Mode: ModeJSON}))
		var got api.RenderResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, doc.Result, got)
	})

	t.Run("terminal", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(ctx, &buf, doc, Options{Mode: ModeTerminal, Terminal: format.TerminalOptions{Style: "notty", Width: 40}}))
		assert.Contains(t, buf.String(), "hi")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, Write(ctx, &bytes.Buffer{}, doc, Options{Mode: Mode(42)}))
	})
}
