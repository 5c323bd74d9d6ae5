// SPDX-License-Identifier: Apache-2.0

package otel

import "time"

// Config holds the OTLP export settings for the cleaning run. A nil Metrics
// or Traces section disables that signal and the provider falls back to the
// noop implementation.
type Config struct {
	Metrics *MetricsConfig
	Traces  *TracesConfig
}

type MetricsConfig struct {
	Endpoint           string
	CollectionInterval time.Duration
}

type TracesConfig struct {
	Endpoint string
	// SampleRatio is the fraction of run traces to sample, in [0,1].
	// Zero means unset and samples everything.
	SampleRatio float64
}

const (
	defaultCollectionInterval = 60 * time.Second
	defaultSampleRatio        = 1.0
)

func (c *MetricsConfig) collectionInterval() time.Duration {
	if c.CollectionInterval != 0 {
		return c.CollectionInterval
	}
	return defaultCollectionInterval
}

func (c *TracesConfig) sampleRatio() float64 {
	if c.SampleRatio != 0 {
		return c.SampleRatio
	}
	return defaultSampleRatio
}
