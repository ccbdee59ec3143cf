// Package datadog implements a Datadog backend for the metrics package.
//
// It adapts the generic metrics.Backend interface to the DogStatsD protocol
// with the official statsd client. Unlike Prometheus, Datadog has no separate
// push step: every observation is forwarded to the agent as it happens, and
// Flush only drains the client's buffer at shutdown.
//
// The pipeline's metric families are mapped onto dotted DogStatsD names under
// the configured namespace:
//
//	songplays_step_total            -> step.total            (tags step, status)
//	songplays_step_duration_seconds -> step.duration.seconds (tags step, status)
//	songplays_records_total         -> records.total         (tag kind)
//	songplays_files_total           -> files.total
//
// The run's job name travels as a global tag (set by the caller) rather than
// a per-metric tag, matching how the Pushgateway backend uses job as its
// grouping key. Unknown metric names are dropped.
package datadog

import (
	"fmt"

	"songplays/internal/metrics"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// Config holds Datadog backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or "unix:///path/to/socket".
	Addr string

	// Namespace is an optional prefix added to all metric names, e.g. "songplays.".
	Namespace string

	// GlobalTags are tags applied to all metrics emitted by this backend,
	// e.g. []string{"env:prod","job:sparkify"}.
	GlobalTags []string
}

// Backend is a Datadog implementation of metrics.Backend. The same instance
// is intended to be installed as the global backend via metrics.SetBackend.
type Backend struct {
	client *statsd.Client
}

// NewBackend constructs a Datadog metrics backend from the given
// configuration. Addr is required.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}

	var opts []statsd.Option
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}

	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}

	return &Backend{client: c}, nil
}

// IncCounter implements metrics.Backend.IncCounter using Datadog Count
// metrics. Fractional deltas are rounded (DogStatsD counts are int64).
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	ddName, tags, ok := translateCounter(name, labels)
	if !ok {
		return
	}
	b.client.Count(ddName, int64(delta), tags, 1)
}

// ObserveHistogram implements metrics.Backend.ObserveHistogram using a
// Datadog Histogram metric for the step-duration family.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	ddName, tags, ok := translateHistogram(name, labels)
	if !ok {
		return
	}
	b.client.Histogram(ddName, value, tags, 1)
}

// Flush implements metrics.Backend.Flush. Close drains any buffered data and
// releases the client; the process exits right after.
func (b *Backend) Flush() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

// translateCounter maps a pipeline counter family onto its DogStatsD name and
// the label subset that becomes tags.
func translateCounter(name string, labels metrics.Labels) (string, []string, bool) {
	switch name {
	case "songplays_step_total":
		return "step.total", tagList(labels, "step", "status"), true
	case "songplays_records_total":
		return "records.total", tagList(labels, "kind"), true
	case "songplays_files_total":
		return "files.total", nil, true
	}
	return "", nil, false
}

// translateHistogram maps a pipeline duration family onto its DogStatsD name.
func translateHistogram(name string, labels metrics.Labels) (string, []string, bool) {
	if name != "songplays_step_duration_seconds" {
		return "", nil, false
	}
	return "step.duration.seconds", tagList(labels, "step", "status"), true
}

// tagList renders the named labels as "key:value" tags, in the order given,
// skipping absent keys.
func tagList(lbls metrics.Labels, keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := lbls[k]; ok && v != "" {
			out = append(out, k+":"+v)
		}
	}
	return out
}
