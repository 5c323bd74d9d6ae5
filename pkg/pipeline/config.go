// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"

	"github.com/scrubkit/scrub/pkg/steps"
)

// Config declares a pipeline: an ordered list of named steps and an ordered
// list of quality rules, all bound at construction time.
type Config struct {
	Steps        []steps.Config
	QualityRules []RuleConfig
}

func (c *Config) validate() error {
	if c == nil || len(c.Steps) == 0 {
		return ErrNoSteps
	}

	names := make(map[string]struct{}, len(c.Steps))
	for _, stepCfg := range c.Steps {
		name := stepCfg.Name
		if name == "" {
			return fmt.Errorf("step of type %q: name must not be empty: %w", stepCfg.Type, steps.ErrInvalidParameters)
		}
		if _, found := names[name]; found {
			return fmt.Errorf("%w: %q", ErrDuplicateStepName, name)
		}
		names[name] = struct{}{}
	}
	return nil
}
