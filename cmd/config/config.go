// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/scrubkit/scrub/pkg/otel"
	"github.com/scrubkit/scrub/pkg/pipeline"
)

// Config is the full application configuration: the pipeline declaration plus
// the CSV boundary and instrumentation settings.
type Config struct {
	Pipeline        *pipeline.Config
	Input           InputConfig
	Output          OutputConfig
	Instrumentation *otel.Config
}

type InputConfig struct {
	Path      string
	Delimiter string
	NoHeader  bool
}

type OutputConfig struct {
	Path       string
	ReportPath string
	Delimiter  string
}

// loadedConfigFile is the file given by the user, remembered because merging
// the pipeline file into viper overwrites ConfigFileUsed.
var loadedConfigFile string

func Load() error {
	return LoadFile(viper.GetString("config"))
}

func LoadFile(file string) error {
	loadedConfigFile = file
	if file != "" {
		viper.SetConfigFile(file)
		viper.SetConfigType(filepath.Ext(file)[1:])
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	// env configurations can point to a separate pipeline yaml file; merge it
	// so that the pipeline section is available either way
	pipelineFile := viper.GetString("SCRUB_PIPELINE_FILE")
	if pipelineFile != "" {
		viper.SetConfigFile(pipelineFile)
		viper.SetConfigType(filepath.Ext(pipelineFile)[1:])
		if err := viper.MergeInConfig(); err != nil {
			return fmt.Errorf("reading pipeline config: %w", err)
		}
	}
	return nil
}

// ParseConfig builds the application config from whatever configuration
// source was loaded: a yaml file, or SCRUB_* environment variables combined
// with a pipeline yaml file.
func ParseConfig() (*Config, error) {
	switch ext := filepath.Ext(loadedConfigFile); ext {
	case ".yml", ".yaml":
		yamlCfg := YAMLConfig{}
		if err := viper.Unmarshal(&yamlCfg); err != nil {
			return nil, err
		}
		return yamlCfg.toConfig()
	default:
		return envConfigToConfig()
	}
}
