package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/quill/internal/render"
	"github.com/mithrel/quill/pkg/api"
)

func TestWriteFragment(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFragment(&buf, ""))
	assert.Empty(t, buf.String())

	require.NoError(t, WriteFragment(&buf, "<em>x</em>"))
	assert.Equal(t, "<em>x</em>\n", buf.String())
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, "Chapter <1>", `<div class="md-body"><p><strong>x</strong></p></div>`))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Chapter &lt;1&gt;</title>")
	assert.Contains(t, out, `<div class="md-body"><p><strong>x</strong></p></div>`)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, api.RenderResult{HTML: "<br/>", Hash: "h"}, false))
	assert.Equal(t, `{"html":"<br/>","hash":"h","cached":false}`+"\n", buf.String())
}

func TestWritePlainRules(t *testing.T) {
	var buf bytes.Buffer
	rules := []api.RuleInfo{
		{Position: 1, Name: "fenced-code", Anchor: "anywhere", Pattern: "```(.*)```", Lazy: true, DotAll: true},
		{Position: 12, Name: "line-break", Anchor: "anywhere", Pattern: `\n`},
	}
	require.NoError(t, WritePlainRules(&buf, rules, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "fenced-code")
	assert.Contains(t, lines[1], "yes")
	assert.Contains(t, lines[2], `\n`)
}

func TestWritePlainStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainStats(&buf, api.CacheStats{Entries: 3, Hits: 7, Bytes: 120, Oldest: time.Unix(0, 0)}))
	out := buf.String()
	assert.Contains(t, out, "entries  3")
	assert.Contains(t, out, "hits     7")
}

func TestRenderTerminal(t *testing.T) {
	out, err := RenderTerminal("Title", "**bold** text", TerminalOptions{Style: "notty", Width: 40})
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestWritePlainTrace(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainTrace(&buf, []render.TraceEvent{
		{Position: 7, Rule: render.RuleBold, Before: "**a**", After: "<strong>a</strong>"},
	}))
	assert.Equal(t, "#  rule  before  after\n7  bold  5       18\n", buf.String())

	buf.Reset()
	require.NoError(t, WritePlainTrace(&buf, nil))
	assert.Contains(t, buf.String(), "no rule matched")
}
