package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Generation metrics, exported in Prometheus text format.
var (
	generationStartedTotal   atomic.Uint64
	generationSucceededTotal atomic.Uint64
	generationFailedTotal    atomic.Uint64
	generationRejectedTotal  atomic.Uint64

	generationDuration = newHistogram([]float64{1000, 5000, 10000, 20000, 30000, 45000, 60000, 90000, 120000})
)

// IncGenerationStarted counts a generation that entered loading.
func IncGenerationStarted() {
	generationStartedTotal.Add(1)
}

// IncGenerationSucceeded counts a generation that stored a result.
func IncGenerationSucceeded() {
	generationSucceededTotal.Add(1)
}

// IncGenerationFailed counts a generation that ended in the error state.
func IncGenerationFailed() {
	generationFailedTotal.Add(1)
}

// IncGenerationRejected counts a submit refused because the workspace was
// busy or the draft was not ready.
func IncGenerationRejected() {
	generationRejectedTotal.Add(1)
}

// ObserveGenerationDurationMs records how long the generation call took.
func ObserveGenerationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	generationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "puente_generation_started_total", "Guide generations started", generationStartedTotal.Load())
	writeCounter(&buf, "puente_generation_succeeded_total", "Guide generations that produced a result", generationSucceededTotal.Load())
	writeCounter(&buf, "puente_generation_failed_total", "Guide generations that ended in error", generationFailedTotal.Load())
	writeCounter(&buf, "puente_generation_rejected_total", "Submits refused while busy or with an incomplete draft", generationRejectedTotal.Load())
	writeHistogram(&buf, "puente_generation_duration_ms", "Guide generation duration in milliseconds", generationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket that holds it; writeHistogram
// accumulates the per-bucket counts into the cumulative le series.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
