package matching_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-b2b/internal/cache"
	"github.com/noah-isme/backend-b2b/internal/matching"
	"github.com/noah-isme/backend-b2b/internal/obs"
)

type matchResponse struct {
	Success bool                 `json:"success"`
	Data    matching.BatchResult `json:"data"`
	Error   string               `json:"error"`
	Code    string               `json:"code"`
}

const sampleBody = `{
	"products": [
		{"name":"Laptop","brand":"HP","category":"Computers","sku":"LP-1"},
		{"name":"Phone","brand":"Nokiia","category":"Phones"}
	],
	"existingBrands":[{"id":"b1","name":"Hewlett Packard"},{"id":"b2","name":"Nokia"}],
	"existingCategories":[{"id":"c1","name":"Computadoras"}],
	"existingSubcategories":[]
}`

func postMatch(t *testing.T, ctx context.Context, h *matching.Handler, body string) (*httptest.ResponseRecorder, matchResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/products/match", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Match(rec, req)
	var resp matchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestMatchHandler(t *testing.T) {
	h := matching.NewHandler(matching.HandlerConfig{})

	t.Run("matches and summarises", func(t *testing.T) {
		rec, resp := postMatch(t, context.Background(), h, sampleBody)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, resp.Success)
		require.Len(t, resp.Data.Results, 2)

		first := resp.Data.Results[0]
		require.Equal(t, "b1", first.BrandMatch.MatchedID)
		require.Equal(t, "Synonym match", first.BrandMatch.Reason)
		require.Equal(t, "c1", first.CategoryMatch.MatchedID)
		require.False(t, first.SubcategoryMatch.Matched)
		require.False(t, first.SubcategoryMatch.ShouldCreate)
		require.Equal(t, "Laptop", first.Product.Name)

		second := resp.Data.Results[1]
		require.Equal(t, "b2", second.BrandMatch.MatchedID)
		require.Equal(t, "High similarity match (typo variation)", second.BrandMatch.Reason)
		require.True(t, second.CategoryMatch.ShouldCreate)

		require.Equal(t, matching.Summary{Total: 2, CategoriesToCreate: 1, FullyMatched: 1}, resp.Data.Summary)
	})

	t.Run("echoes product fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Match(rec, httptest.NewRequest(http.MethodPost, "/api/products/match", strings.NewReader(sampleBody)))
		var raw struct {
			Data struct {
				Results []struct {
					Product map[string]any `json:"product"`
				} `json:"results"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		require.Equal(t, "LP-1", raw.Data.Results[0].Product["sku"])
	})

	for name, body := range map[string]string{
		"empty products":     `{"products":[]}`,
		"missing products":   `{"existingBrands":[]}`,
		"non-array products": `{"products":"nope"}`,
		"malformed json":     `{"products":[`,
	} {
		wantCode := ""
		if name == "non-array products" || name == "malformed json" {
			wantCode = "BAD_REQUEST"
		}
		t.Run(name, func(t *testing.T) {
			rec, resp := postMatch(t, context.Background(), h, body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.False(t, resp.Success)
			require.NotEmpty(t, resp.Error)
			require.Equal(t, wantCode, resp.Code)
		})
	}

	t.Run("cancelled request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rec, resp := postMatch(t, ctx, h, sampleBody)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.False(t, resp.Success)
		require.Equal(t, context.Canceled.Error(), resp.Error)
	})
}

func TestMatchHandlerValidationMessage(t *testing.T) {
	h := matching.NewHandler(matching.HandlerConfig{})
	_, resp := postMatch(t, context.Background(), h, `{"products":[]}`)
	require.Equal(t, "products must contain at least 1 item(s)", resp.Error)

	_, resp = postMatch(t, context.Background(), h, `{}`)
	require.Equal(t, "products is required", resp.Error)
}

func TestMatchHandlerBodyTooLarge(t *testing.T) {
	h := matching.NewHandler(matching.HandlerConfig{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products/match", strings.NewReader(sampleBody))
	req.Body = http.MaxBytesReader(rec, req.Body, 16)
	h.Match(rec, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

type panickingCache struct{}

func (panickingCache) Key(parts ...string) string { return strings.Join(parts, ":") }

func (panickingCache) GetJSON(context.Context, string, any) (bool, error) {
	panic("cache exploded")
}

func (panickingCache) SetJSON(context.Context, string, any) error { return nil }

func TestMatchHandlerRecoversPanic(t *testing.T) {
	svc := matching.NewService(matching.ServiceConfig{Cache: panickingCache{}})
	h := matching.NewHandler(matching.HandlerConfig{Service: svc})

	rec, resp := postMatch(t, context.Background(), h, sampleBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.False(t, resp.Success)
	require.Equal(t, "cache exploded", resp.Error)
}

func TestMatchServiceCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	registry := prometheus.NewRegistry()
	metrics := obs.NewDomainMetrics("test", registry)
	svc := matching.NewService(matching.ServiceConfig{
		Cache:   cache.NewJSON(client, "b2b", time.Minute),
		Metrics: metrics,
	})
	h := matching.NewHandler(matching.HandlerConfig{Service: svc})

	rec, first := postMatch(t, context.Background(), h, sampleBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, mr.Keys(), 1)
	require.True(t, strings.HasPrefix(mr.Keys()[0], "b2b:match:v1:"))

	rec, second := postMatch(t, context.Background(), h, sampleBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, first.Data, second.Data)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.MatchCacheLookups.WithLabelValues("miss")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.MatchCacheLookups.WithLabelValues("hit")))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.MatchOutcomes.WithLabelValues("brand", "matched")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.MatchOutcomes.WithLabelValues("category", "create")))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.MatchOutcomes.WithLabelValues("subcategory", "skipped")))
}

func TestMatchServiceCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	svc := matching.NewService(matching.ServiceConfig{Cache: cache.NewJSON(client, "b2b", time.Minute)})
	out, err := svc.Match(context.Background(), matching.BatchRequest{
		Products:       []matching.ImportProduct{{Name: "TV", Brand: "Sony"}},
		ExistingBrands: []matching.Entity{{ID: "b1", Name: "Sony"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Summary.FullyMatched)
}
