package matching

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-b2b/internal/common"
	"github.com/noah-isme/backend-b2b/internal/obs"
	"github.com/noah-isme/backend-b2b/internal/resilience"
)

// ResultCache stores finished batch results.
type ResultCache interface {
	Key(parts ...string) string
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

// ServiceConfig configures the Service dependencies.
type ServiceConfig struct {
	Matcher *Matcher
	Cache   ResultCache
	Metrics *obs.DomainMetrics
	Logger  *zerolog.Logger
}

// Service runs batch matches behind an optional result cache. Matching is
// deterministic for a given request, so identical requests share a cache entry.
type Service struct {
	matcher *Matcher
	cache   ResultCache
	metrics *obs.DomainMetrics
	logger  zerolog.Logger
}

// NewService constructs a Service. A nil matcher uses the default configuration.
func NewService(cfg ServiceConfig) *Service {
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = NewMatcher(Options{Logger: cfg.Logger})
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Service{matcher: matcher, cache: cfg.Cache, metrics: cfg.Metrics, logger: logger}
}

// Match resolves every product of req. Cache failures are logged and ignored.
func (s *Service) Match(ctx context.Context, req BatchRequest) (BatchResult, error) {
	s.metrics.ObserveBatch(len(req.Products))

	key := s.cacheKey(req)
	if key != "" {
		var cached BatchResult
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case errors.Is(err, resilience.ErrOpenCircuit):
			s.metrics.ObserveCache("bypass")
		case err != nil:
			s.metrics.ObserveCache("error")
			s.logger.Warn().Err(err).Msg("match cache read failed")
		case ok:
			s.metrics.ObserveCache("hit")
			return cached, nil
		default:
			s.metrics.ObserveCache("miss")
		}
	}

	out, err := s.matcher.MatchBatch(ctx, req)
	if err != nil {
		return BatchResult{}, err
	}
	for _, pm := range out.Results {
		s.observe(ItemBrand, pm.BrandMatch)
		s.observe(ItemCategory, pm.CategoryMatch)
		s.observe(ItemSubcategory, pm.SubcategoryMatch)
	}

	if key != "" {
		if err := s.cache.SetJSON(ctx, key, out); err != nil && !errors.Is(err, resilience.ErrOpenCircuit) {
			s.logger.Warn().Err(err).Msg("match cache write failed")
		}
	}
	s.logger.Debug().
		Int("total", out.Summary.Total).
		Int("fully_matched", out.Summary.FullyMatched).
		Int("brands_to_create", out.Summary.BrandsToCreate).
		Int("categories_to_create", out.Summary.CategoriesToCreate).
		Int("subcategories_to_create", out.Summary.SubcategoriesToCreate).
		Msg("match batch complete")
	return out, nil
}

func (s *Service) cacheKey(req BatchRequest) string {
	if s.cache == nil {
		return ""
	}
	fp, err := common.Fingerprint(req)
	if err != nil {
		return ""
	}
	return s.cache.Key("match", "v1", fp)
}

func (s *Service) observe(itemType ItemType, res MatchResult) {
	outcome := "skipped"
	switch {
	case res.Matched:
		outcome = "matched"
	case res.ShouldCreate:
		outcome = "create"
	}
	s.metrics.ObserveMatch(string(itemType), outcome)
}
