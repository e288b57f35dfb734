package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Numbertalktw/sku-gen-sheet/internal/app"
	"github.com/Numbertalktw/sku-gen-sheet/internal/config"
)

func newTestServer(t *testing.T, metricsEnabled bool) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sheets := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("A\nB\n"))
	}))
	t.Cleanup(sheets.Close)

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	cfg.Source.Kind = config.SourceCSV
	cfg.Source.URLTemplate = sheets.URL + "/?sheet={sheet}"
	cfg.Metrics.Enabled = metricsEnabled

	a, err := app.New(cfg, nil)
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	return NewServer(a)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServer_Index(t *testing.T) {
	s := newTestServer(t, false)

	w := get(t, s.Handler(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Product SKU Generator") {
		t.Fatalf("index page not served")
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type: %s", ct)
	}
}

func TestServer_APIAndMetrics(t *testing.T) {
	s := newTestServer(t, true)

	w := get(t, s.Handler(), "/api/options")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}

	w = get(t, s.Handler(), "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected metrics status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "skugen_option_loads_total 1") {
		t.Fatalf("expected one option load in metrics:\n%s", w.Body.String())
	}
}

func TestServer_NoMetricsWhenDisabled(t *testing.T) {
	s := newTestServer(t, false)

	w := get(t, s.Handler(), "/metrics")
	// 未启用时回退到单页
	if strings.Contains(w.Body.String(), "skugen_option_loads_total") {
		t.Fatalf("metrics should not be exposed when disabled")
	}
}

func TestServer_Preflight(t *testing.T) {
	s := newTestServer(t, false)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/identifier", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("unexpected preflight status: %d", w.Code)
	}
}
