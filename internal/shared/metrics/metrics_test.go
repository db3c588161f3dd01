package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRenderIncludesGenerationSeries(t *testing.T) {
	IncGenerationStarted()
	IncGenerationSucceeded()
	ObserveGenerationDurationMs(4200)

	out := Render()
	for _, want := range []string{
		"# TYPE puente_generation_started_total counter",
		"puente_generation_failed_total ",
		"puente_generation_rejected_total ",
		`puente_generation_duration_ms_bucket{le="5000"}`,
		`puente_generation_duration_ms_bucket{le="+Inf"}`,
		"puente_generation_duration_ms_count ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramIsCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "d", "duration", snap)
	out := buf.String()
	for _, want := range []string{
		`d_bucket{le="10"} 1` + "\n",
		`d_bucket{le="100"} 2` + "\n",
		`d_bucket{le="+Inf"} 3` + "\n",
		"d_sum 555\n",
		"d_count 3\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsNeverExceedCount(t *testing.T) {
	h := newHistogram([]float64{1000, 5000, 120000})
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "d", "duration", h.Snapshot())
	out := buf.String()
	for _, want := range []string{
		`d_bucket{le="1000"} 1` + "\n",
		`d_bucket{le="5000"} 1` + "\n",
		`d_bucket{le="120000"} 1` + "\n",
		`d_bucket{le="+Inf"} 1` + "\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHandlerServesText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}
