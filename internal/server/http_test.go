package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mithrel/quill/internal/cache"
	"github.com/mithrel/quill/internal/preview"
	"github.com/mithrel/quill/pkg/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	store, closer, err := cache.Open(context.Background(), "mem://", 16)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	ts := httptest.NewServer(New(preview.New(nil, store, preview.Options{}), nil, opts).Router())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, contentType, body string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	var b bytes.Buffer
	_, err := b.ReadFrom(resp.Body)
	require.NoError(t, err)
	return b.String()
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{Token: "secret"})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", readAll(t, resp))
}

func TestRenderJSON(t *testing.T) {
	ts := newTestServer(t, Options{})
	body := `{"content":"**hi**","compact":true}`

	resp := post(t, ts.URL+"/v1/render", "application/json; charset=utf-8", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first api.RenderResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	assert.Equal(t, `<div class="md-body md-compact"><p><strong>hi</strong></p></div>`, first.HTML)
	assert.False(t, first.Cached)
	assert.Equal(t, `"`+first.Hash+`"`, resp.Header.Get("ETag"))

	resp = post(t, ts.URL+"/v1/render", "application/json", body, nil)
	var second api.RenderResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestRenderPlain(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := post(t, ts.URL+"/v1/render", "text/plain", "<b>x</b>", nil)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `<div class="md-body"><p><b>x</b></p></div>`, readAll(t, resp))

	resp = post(t, ts.URL+"/v1/render?safe=1&compact=true", "text/plain", "<b>x</b>", nil)
	assert.Equal(t, `<div class="md-body md-compact"><p>&lt;b&gt;x&lt;/b&gt;</p></div>`, readAll(t, resp))

	resp = post(t, ts.URL+"/v1/render", "text/plain", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", readAll(t, resp))
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t, Options{MaxBodyBytes: 8})

	resp := post(t, ts.URL+"/v1/render", "text/plain", strings.Repeat("x", 64), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/render", "application/json", "{", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Get(ts.URL + "/v1/render")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t, Options{Token: "secret"})

	resp := post(t, ts.URL+"/v1/render", "text/plain", "x", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/render", "text/plain", "x", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	for _, bad := range []string{"Bearer secre", "Bearer secret2", "Basic secret", "secret"} {
		resp = post(t, ts.URL+"/v1/render", "text/plain", "x", map[string]string{"Authorization": bad})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, bad)
	}

	resp = post(t, ts.URL+"/v1/render", "text/plain", "x", map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/render", "text/plain", "x", map[string]string{"Authorization": "Bearer  secret "})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "surrounding spaces are ignored")
}

func TestRules(t *testing.T) {
	ts := newTestServer(t, Options{})
	get := func(path string) []api.RuleInfo {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out []api.RuleInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	std := get("/v1/rules")
	require.Len(t, std, 12)
	assert.Equal(t, "fenced-code", std[0].Name)
	assert.Equal(t, 1, std[0].Position)
	assert.Equal(t, "> (.*)", std[3].Pattern)

	safe := get("/v1/rules?safe=1")
	assert.Equal(t, "&gt; (.*)", safe[3].Pattern)
	assert.True(t, safe[0].Verbatim)
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, api.RenderRequest) (api.RenderResult, error) {
	return api.RenderResult{}, errors.New("boom")
}

func (failingRenderer) Rules(bool) []api.RuleInfo { return nil }

func TestRenderFailure(t *testing.T) {
	ts := httptest.NewServer(New(failingRenderer{}, nil, Options{}).Router())
	defer ts.Close()
	resp := post(t, ts.URL+"/v1/render", "text/plain", "x", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(preview.New(nil, nil, preview.Options{}), nil, Options{}).Serve(ctx, l) }()

	resp, err := http.Post("http://"+l.Addr().String()+"/v1/render", "text/plain", strings.NewReader("---"))
	require.NoError(t, err)
	assert.Equal(t, `<div class="md-body"><p><hr/></p></div>`, readAll(t, resp))
	_ = resp.Body.Close()
	http.DefaultClient.CloseIdleConnections()

	cancel()
	assert.NoError(t, <-done)
}
