package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BatchCollector exposes metrics for the chunked waypoint batch processor.
type BatchCollector struct {
	gatherer prometheus.Gatherer

	ChunkDuration  prometheus.Histogram
	ItemsProcessed prometheus.Counter
	ProgressRatio  prometheus.Gauge
}

// NewBatchCollector registers batch-processing metrics against the provided
// registerer.
func NewBatchCollector(reg prometheus.Registerer) (*BatchCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	chunkHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "batch_chunk_duration_seconds",
		Help:    "Duration of individual chunks processed by the batch processor.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})
	chunkHistogram, err := registerHistogram(reg, chunkHistogram, "batch_chunk_duration_seconds")
	if err != nil {
		return nil, err
	}

	items := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batch_items_processed_total",
		Help: "Cumulative number of items transformed by the batch processor.",
	})
	items, err = registerCounter(reg, items, "batch_items_processed_total")
	if err != nil {
		return nil, err
	}

	progress := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "batch_progress_ratio",
		Help: "Completion ratio of the most recent batch run.",
	})
	progress, err = registerGauge(reg, progress, "batch_progress_ratio")
	if err != nil {
		return nil, err
	}

	return &BatchCollector{
		gatherer:       gatherer,
		ChunkDuration:  chunkHistogram,
		ItemsProcessed: items,
		ProgressRatio:  progress,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *BatchCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveChunk records one processed chunk.
func (c *BatchCollector) ObserveChunk(d time.Duration, items int) {
	if c == nil {
		return
	}
	if c.ChunkDuration != nil {
		c.ChunkDuration.Observe(d.Seconds())
	}
	if c.ItemsProcessed != nil {
		c.ItemsProcessed.Add(float64(items))
	}
}

// SetProgressRatio updates the completion gauge.
func (c *BatchCollector) SetProgressRatio(ratio float64) {
	if c == nil || c.ProgressRatio == nil {
		return
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	c.ProgressRatio.Set(ratio)
}
