package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusHooks(reg)
	ctx := context.Background()

	p.OnLayoutComplete(ctx, 10, time.Millisecond, nil)
	p.OnLayoutComplete(ctx, 0, time.Millisecond, errors.New("bad"))
	p.OnRenderComplete(ctx, "svg", 4096, time.Millisecond, nil)
	p.OnToggle(ctx, "t0", true, nil)
	p.OnToggle(ctx, "t0", false, nil)
	p.OnToggle(ctx, "root", false, errors.New("not collapsible"))
	p.OnCacheHit(ctx, "layout")
	p.OnCacheMiss(ctx, "layout")
	p.OnCacheSet(ctx, "layout", 512)
	p.OnRequest(ctx, "POST", "/api/v1/layout")
	p.OnResponse(ctx, "POST", "/api/v1/layout", 200, time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"layout errors", testutil.ToFloat64(p.stageErrors.WithLabelValues("layout")), 1},
		{"collapsed toggles", testutil.ToFloat64(p.toggles.WithLabelValues("collapsed")), 1},
		{"expanded toggles", testutil.ToFloat64(p.toggles.WithLabelValues("expanded")), 1},
		{"rejected toggles", testutil.ToFloat64(p.toggles.WithLabelValues("rejected")), 1},
		{"cache hits", testutil.ToFloat64(p.cacheOps.WithLabelValues("layout", "hit")), 1},
		{"cache misses", testutil.ToFloat64(p.cacheOps.WithLabelValues("layout", "miss")), 1},
		{"cache bytes", testutil.ToFloat64(p.cacheBytes.WithLabelValues("layout")), 512},
		{"http requests", testutil.ToFloat64(p.httpRequests.WithLabelValues("POST", "/api/v1/layout", "200")), 1},
		{"in flight", testutil.ToFloat64(p.httpInFlight), 0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if n, err := testutil.GatherAndCount(reg, "topicmap_toggles_total"); err != nil || n != 3 {
		t.Errorf("toggle series = %d, %v; want 3", n, err)
	}
}

func TestPrometheusHooksInstall(t *testing.T) {
	Reset()
	defer Reset()

	p := NewPrometheusHooks(prometheus.NewRegistry())
	p.Install()
	if Pipeline() != PipelineHooks(p) || Visibility() != VisibilityHooks(p) || Cache() != CacheHooks(p) || HTTP() != HTTPHooks(p) {
		t.Error("Install should register all hook categories")
	}
}
