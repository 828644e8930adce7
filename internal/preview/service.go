// Package preview renders content for display, memoising results in a cache.
package preview

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/cache"
	"github.com/mithrel/quill/internal/logging"
	"github.com/mithrel/quill/internal/render"
	"github.com/mithrel/quill/pkg/api"
)

// Options configure a Service.
type Options struct {
	// Render is used for requests without Safe set.
	Render render.Options
	// Sanitize strips markup the dialect cannot produce from every result.
	Sanitize bool
}

// Service renders requests through the standard or safe renderer. A nil
// cache disables memoisation.
type Service struct {
	log      *zap.Logger
	cache    cache.Store
	std      *render.Renderer
	safe     *render.Renderer
	sanitize bool
	tag      string
}

func New(log *zap.Logger, store cache.Store, opts Options) *Service {
	log = logging.OrNop(log)
	return &Service{
		log:      log,
		cache:    store,
		std:      render.New(render.WithOptions(opts.Render)),
		safe:     render.Safe(),
		sanitize: opts.Sanitize,
		tag:      settingsTag(opts),
	}
}

func settingsTag(opts Options) string {
	return fmt.Sprintf("e%dp%ds%d-", b2i(opts.Render.EscapeHTML), b2i(opts.Render.ProtectCode), b2i(opts.Sanitize))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Key returns the cache key for req under this service's settings. The
// settings tag keeps results of differently configured services apart when
// they share one cache.
func (s *Service) Key(req api.RenderRequest) string {
	return s.tag + req.Hash()
}

// Render renders one request. Cache failures are logged and never fail the
// render; the returned error is only ever a context error.
func (s *Service) Render(ctx context.Context, req api.RenderRequest) (api.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return api.RenderResult{}, err
	}
	key := s.Key(req)
	res := api.RenderResult{Hash: key}

	if s.cache != nil {
		html, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			res.HTML = html
			res.Cached = true
			s.log.Debug("render cache hit", zap.String("hash", key))
			return res, nil
		case !errors.Is(err, cache.ErrNotFound):
			s.log.Warn("render cache read failed", zap.String("hash", key), zap.Error(err))
		}
	}

	r := s.std
	if req.Safe {
		r = s.safe
	}
	res.HTML = r.Render(req.Content, req.Compact)
	if s.sanitize {
		res.HTML = render.Sanitize(res.HTML)
	}
	s.log.Debug("rendered",
		zap.String("hash", key),
		zap.Int("source_bytes", len(req.Content)),
		zap.Int("html_bytes", len(res.HTML)),
		zap.Bool("compact", req.Compact),
		zap.Bool("safe", req.Safe),
	)

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, res.HTML); err != nil {
			s.log.Warn("render cache write failed", zap.String("hash", key), zap.Error(err))
		}
	}
	return res, nil
}

// Rules describes the rule table a request would be rendered with.
func (s *Service) Rules(safe bool) []api.RuleInfo {
	r := s.std
	if safe {
		r = s.safe
	}
	return DescribeRules(r.Rules())
}

// DescribeRules converts a rule table to its wire form.
func DescribeRules(rules []render.Rule) []api.RuleInfo {
	out := make([]api.RuleInfo, len(rules))
	for i, r := range rules {
		out[i] = api.RuleInfo{
			Position: i + 1,
			Name:     r.Name,
			Anchor:   r.Anchor.String(),
			Pattern:  r.Pattern,
			Expr:     r.Expr(),
			Lazy:     r.Lazy,
			DotAll:   r.DotAll,
			Verbatim: r.Verbatim,
		}
	}
	return out
}
