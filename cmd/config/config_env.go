// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/spf13/viper"

	"github.com/scrubkit/scrub/pkg/otel"
)

// envConfigToConfig builds the application config from SCRUB_* environment
// variables. The pipeline declaration itself always comes from the yaml file
// pointed at by SCRUB_PIPELINE_FILE, merged into viper during Load.
func envConfigToConfig() (*Config, error) {
	pipelineYAML := PipelineConfig{}
	if err := viper.UnmarshalKey("pipeline", &pipelineYAML); err != nil {
		return nil, err
	}
	pipelineCfg, err := pipelineYAML.toPipelineConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Pipeline: pipelineCfg,
		Input: InputConfig{
			Path:      viper.GetString("SCRUB_INPUT_PATH"),
			Delimiter: viper.GetString("SCRUB_INPUT_DELIMITER"),
			NoHeader:  viper.GetBool("SCRUB_INPUT_NO_HEADER"),
		},
		Output: OutputConfig{
			Path:       viper.GetString("SCRUB_OUTPUT_PATH"),
			ReportPath: viper.GetString("SCRUB_OUTPUT_REPORT_PATH"),
			Delimiter:  viper.GetString("SCRUB_OUTPUT_DELIMITER"),
		},
		Instrumentation: parseInstrumentationEnvConfig(),
	}, nil
}

func parseInstrumentationEnvConfig() *otel.Config {
	metricsEndpoint := viper.GetString("SCRUB_METRICS_ENDPOINT")
	tracesEndpoint := viper.GetString("SCRUB_TRACES_ENDPOINT")
	if metricsEndpoint == "" && tracesEndpoint == "" {
		return nil
	}

	cfg := &otel.Config{}
	if metricsEndpoint != "" {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           metricsEndpoint,
			CollectionInterval: viper.GetDuration("SCRUB_METRICS_COLLECTION_INTERVAL"),
		}
	}
	if tracesEndpoint != "" {
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    tracesEndpoint,
			SampleRatio: viper.GetFloat64("SCRUB_TRACES_SAMPLE_RATIO"),
		}
	}
	return cfg
}
