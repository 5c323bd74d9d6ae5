// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"time"

	"github.com/scrubkit/scrub/pkg/otel"
	"github.com/scrubkit/scrub/pkg/pipeline"
	"github.com/scrubkit/scrub/pkg/steps"
)

type YAMLConfig struct {
	Pipeline        PipelineConfig         `mapstructure:"pipeline" yaml:"pipeline"`
	Input           *InputYAMLConfig       `mapstructure:"input" yaml:"input"`
	Output          *OutputYAMLConfig      `mapstructure:"output" yaml:"output"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation" yaml:"instrumentation"`
}

type PipelineConfig struct {
	Steps        []StepConfig `mapstructure:"steps" yaml:"steps"`
	QualityRules []RuleConfig `mapstructure:"quality_rules" yaml:"quality_rules"`
}

type StepConfig struct {
	Name       string         `mapstructure:"name" yaml:"name"`
	Type       string         `mapstructure:"type" yaml:"type"`
	Parameters map[string]any `mapstructure:"parameters" yaml:"parameters"`
}

type RuleConfig struct {
	Name       string         `mapstructure:"name" yaml:"name"`
	Type       string         `mapstructure:"type" yaml:"type"`
	Parameters map[string]any `mapstructure:"parameters" yaml:"parameters"`
}

type InputYAMLConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	NoHeader  bool   `mapstructure:"no_header" yaml:"no_header"`
}

type OutputYAMLConfig struct {
	Path       string `mapstructure:"path" yaml:"path"`
	ReportPath string `mapstructure:"report_path" yaml:"report_path"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
}

type InstrumentationConfig struct {
	Metrics *MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Traces  *TracesConfig  `mapstructure:"traces" yaml:"traces"`
}

type MetricsConfig struct {
	Endpoint           string        `mapstructure:"endpoint" yaml:"endpoint"`
	CollectionInterval time.Duration `mapstructure:"collection_interval" yaml:"collection_interval"`
}

type TracesConfig struct {
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

func (c *YAMLConfig) toConfig() (*Config, error) {
	pipelineCfg, err := c.Pipeline.toPipelineConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Pipeline:        pipelineCfg,
		Instrumentation: c.Instrumentation.toOtelConfig(),
	}
	if c.Input != nil {
		cfg.Input = InputConfig{
			Path:      c.Input.Path,
			Delimiter: c.Input.Delimiter,
			NoHeader:  c.Input.NoHeader,
		}
	}
	if c.Output != nil {
		cfg.Output = OutputConfig{
			Path:       c.Output.Path,
			ReportPath: c.Output.ReportPath,
			Delimiter:  c.Output.Delimiter,
		}
	}
	return cfg, nil
}

func (c *PipelineConfig) toPipelineConfig() (*pipeline.Config, error) {
	if c == nil || len(c.Steps) == 0 {
		return nil, fmt.Errorf("pipeline configuration requires at least one step")
	}

	cfg := &pipeline.Config{
		Steps:        make([]steps.Config, 0, len(c.Steps)),
		QualityRules: make([]pipeline.RuleConfig, 0, len(c.QualityRules)),
	}
	for _, stepCfg := range c.Steps {
		cfg.Steps = append(cfg.Steps, steps.Config{
			Name:       stepCfg.Name,
			Type:       steps.StepType(stepCfg.Type),
			Parameters: stepCfg.Parameters,
		})
	}
	for _, ruleCfg := range c.QualityRules {
		cfg.QualityRules = append(cfg.QualityRules, pipeline.RuleConfig{
			Name:       ruleCfg.Name,
			Type:       pipeline.RuleType(ruleCfg.Type),
			Parameters: ruleCfg.Parameters,
		})
	}
	return cfg, nil
}

func (c *InstrumentationConfig) toOtelConfig() *otel.Config {
	if c == nil || (c.Metrics == nil && c.Traces == nil) {
		return nil
	}

	cfg := &otel.Config{}
	if c.Metrics != nil && c.Metrics.Endpoint != "" {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           c.Metrics.Endpoint,
			CollectionInterval: c.Metrics.CollectionInterval,
		}
	}
	if c.Traces != nil && c.Traces.Endpoint != "" {
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    c.Traces.Endpoint,
			SampleRatio: c.Traces.SampleRatio,
		}
	}
	if cfg.Metrics == nil && cfg.Traces == nil {
		return nil
	}
	return cfg
}
