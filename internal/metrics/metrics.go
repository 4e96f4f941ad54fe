// Package metrics exposes Prometheus collectors for the web surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellseg_uploads_total",
		Help: "Number of accepted image uploads.",
	})

	SegmentationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cellseg_segmentations_total",
		Help: "Number of segmentation runs by engine, model and outcome.",
	}, []string{"engine", "model", "status"})

	SegmentationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cellseg_segmentation_duration_seconds",
		Help:    "Wall-clock duration of segmentation runs.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"engine", "model"})
)
