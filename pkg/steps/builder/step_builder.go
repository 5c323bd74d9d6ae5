// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"fmt"
	"sort"

	"github.com/scrubkit/scrub/pkg/otel"
	"github.com/scrubkit/scrub/pkg/steps"
	"github.com/scrubkit/scrub/pkg/steps/instrumentation"
)

// StepBuilder constructs steps from their configuration, optionally wrapping
// them with instrumentation.
type StepBuilder struct {
	instrumentation *otel.Instrumentation
}

type Option func(b *StepBuilder)

func NewStepBuilder(opts ...Option) *StepBuilder {
	b := &StepBuilder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func WithInstrumentation(i *otel.Instrumentation) Option {
	return func(b *StepBuilder) {
		b.instrumentation = i
	}
}

var StepsMap = map[steps.StepType]struct {
	Definition *steps.Definition
	BuildFn    func(cfg *steps.Config) (steps.Step, error)
}{
	steps.Deduplicate: {
		Definition: steps.DedupStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewDedupStep(cfg.Name, cfg.Parameters)
		},
	},
	steps.StandardizeText: {
		Definition: steps.StandardizeTextStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewStandardizeTextStep(cfg.Name, cfg.Parameters)
		},
	},
	steps.Impute: {
		Definition: steps.ImputeStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewImputeStep(cfg.Name, cfg.Parameters)
		},
	},
	steps.FlagOutliers: {
		Definition: steps.FlagOutliersStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewFlagOutliersStep(cfg.Name, cfg.Parameters)
		},
	},
	steps.DropFlagged: {
		Definition: steps.DropFlaggedStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewDropFlaggedStep(cfg.Name, cfg.Parameters)
		},
	},
	steps.NormalizePhone: {
		Definition: steps.NormalizePhoneStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewNormalizePhoneStep(cfg.Name, cfg.Parameters)
		},
	},
	steps.NormalizeEmail: {
		Definition: steps.NormalizeEmailStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewNormalizeEmailStep(cfg.Name, cfg.Parameters)
		},
	},
	steps.RewriteJSON: {
		Definition: steps.RewriteJSONStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewRewriteJSONStep(cfg.Name, cfg.Parameters)
		},
	},
	steps.Template: {
		Definition: steps.TemplateStepDefinition(),
		BuildFn: func(cfg *steps.Config) (steps.Step, error) {
			return steps.NewTemplateStep(cfg.Name, cfg.Parameters)
		},
	},
}

func (b *StepBuilder) New(cfg *steps.Config) (steps.Step, error) {
	entry, found := StepsMap[cfg.Type]
	if !found {
		return nil, fmt.Errorf("%w: %q", steps.ErrUnsupportedStep, cfg.Type)
	}

	step, err := entry.BuildFn(cfg)
	if err != nil {
		return nil, err
	}

	if b.instrumentation.IsEnabled() {
		return instrumentation.NewStep(step, b.instrumentation)
	}
	return step, nil
}

// Definitions returns the registered step definitions sorted by type.
func Definitions() []*steps.Definition {
	definitions := make([]*steps.Definition, 0, len(StepsMap))
	for _, entry := range StepsMap {
		definitions = append(definitions, entry.Definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Type < definitions[j].Type
	})
	return definitions
}
