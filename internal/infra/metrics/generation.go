package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		generationsTotal,
		generationLatencyMs,
		generationImageBytes,
		promptTokensTotal,
		promptRejects,
	)
}

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_generations_total",
			Help: "Image generations by provider/model/status (completed/failed).",
		},
		[]string{"provider", "model", "status"},
	)

	generationLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_generation_latency_ms",
			Help:    "Provider call latency distribution in milliseconds.",
			Buckets: []float64{250, 500, 1000, 2000, 4000, 8000, 15000, 30000, 60000, 120000},
		},
		[]string{"provider", "model", "success"},
	)

	generationImageBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_generation_bytes",
			Help:    "Size distribution of generated images in bytes.",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
		},
		[]string{"provider", "model"},
	)

	promptTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_tokens_total",
			Help: "Sum of prompt tokens submitted per provider/model.",
		},
		[]string{"provider", "model"},
	)

	promptRejects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_rejects_total",
			Help: "Prompts rejected before any provider call, by reason.",
		},
		[]string{"reason"},
	)
)

func ObserveGeneration(provider, model string, promptTokens, imageBytes, latencyMs int, success bool) {
	status := "completed"
	if !success {
		status = "failed"
	}
	generationsTotal.WithLabelValues(norm(provider), norm(model), status).Inc()
	generationLatencyMs.WithLabelValues(norm(provider), norm(model), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
	if success {
		generationImageBytes.WithLabelValues(norm(provider), norm(model)).Observe(float64(imageBytes))
	}
	promptTokensTotal.WithLabelValues(norm(provider), norm(model)).Add(float64(promptTokens))
}

func IncPromptReject(reason string) {
	promptRejects.WithLabelValues(norm(reason)).Inc()
}
