// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/xid"

	"github.com/scrubkit/scrub/pkg/dataset"
	loglib "github.com/scrubkit/scrub/pkg/log"
	"github.com/scrubkit/scrub/pkg/steps"
)

// Pipeline applies an ordered sequence of cleaning steps to a dataset and
// validates the result against its quality rules. A pipeline holds no state
// across runs beyond its configured steps and rules.
type Pipeline struct {
	logger loglib.Logger
	clock  clockwork.Clock
	steps  []steps.Step
	rules  []QualityRule
}

type stepBuilder interface {
	New(*steps.Config) (steps.Step, error)
}

type Option func(p *Pipeline)

// New builds a pipeline from its configuration. It fails when the step list
// is empty, a step name is duplicated, or any step or rule rejects its
// parameters.
func New(cfg *Config, builder stepBuilder, opts ...Option) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		logger: loglib.NewNoopLogger(),
		clock:  clockwork.NewRealClock(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.steps = make([]steps.Step, 0, len(cfg.Steps))
	for _, stepCfg := range cfg.Steps {
		step, err := builder.New(&stepCfg)
		if err != nil {
			return nil, err
		}
		p.steps = append(p.steps, step)
	}

	p.rules = make([]QualityRule, 0, len(cfg.QualityRules))
	for _, ruleCfg := range cfg.QualityRules {
		rule, err := buildQualityRule(&ruleCfg)
		if err != nil {
			return nil, err
		}
		p.rules = append(p.rules, rule)
	}

	return p, nil
}

func WithLogger(l loglib.Logger) Option {
	return func(p *Pipeline) {
		p.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "pipeline",
		})
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// Run threads the dataset through all steps in declared order and evaluates
// every quality rule against the final dataset. The dataset on input is
// never mutated. On step failure the returned error is a *StepError carrying
// the log of the steps that completed.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	if len(ds.Columns) == 0 {
		return nil, ErrEmptySchema
	}

	result := &Result{
		RunID:     xid.New().String(),
		StartedAt: p.clock.Now(),
		Log:       make([]LogEntry, 0, len(p.steps)),
	}
	logger := p.logger.WithFields(loglib.Fields{"run_id": result.RunID})
	logger.Info("starting pipeline run", loglib.Fields{
		"rows":    ds.RowCount(),
		"columns": len(ds.Columns),
		"steps":   len(p.steps),
	})

	rowsIn, nullsIn := ds.RowCount(), ds.NullCount()
	current := ds.Clone()
	for _, step := range p.steps {
		rowsBefore, nullsBefore := current.RowCount(), current.NullCount()

		next, err := step.Apply(ctx, current)
		if err != nil {
			logger.Error(err, "step failed", loglib.Fields{"step": step.Name()})
			return nil, &StepError{
				StepName: step.Name(),
				Log:      result.Log,
				cause:    err,
			}
		}
		current = next

		entry := LogEntry{
			StepName:    step.Name(),
			StepType:    string(step.Type()),
			RowsBefore:  rowsBefore,
			RowsAfter:   current.RowCount(),
			NullsBefore: nullsBefore,
			NullsAfter:  current.NullCount(),
			Timestamp:   p.clock.Now(),
		}
		result.Log = append(result.Log, entry)
		logger.Debug("step applied", loglib.Fields{
			"step":         entry.StepName,
			"step_type":    entry.StepType,
			"rows_before":  entry.RowsBefore,
			"rows_after":   entry.RowsAfter,
			"nulls_before": entry.NullsBefore,
			"nulls_after":  entry.NullsAfter,
		})
	}

	// all rules run even when an earlier one fails, so the caller gets a
	// complete quality report in one pass
	result.Outcomes = make([]Outcome, 0, len(p.rules))
	rulesFailed := 0
	for _, rule := range p.rules {
		outcome := rule.Evaluate(current)
		result.Outcomes = append(result.Outcomes, outcome)
		if !outcome.Passed {
			rulesFailed++
			logger.Warn(nil, "quality rule failed", loglib.Fields{
				"rule":    outcome.Rule,
				"message": outcome.Message,
			})
		}
	}

	result.Dataset = current
	result.FinishedAt = p.clock.Now()
	result.Summary = Summary{
		RowsIn:      rowsIn,
		RowsOut:     current.RowCount(),
		NullsIn:     nullsIn,
		NullsOut:    current.NullCount(),
		StepsRun:    len(p.steps),
		RulesFailed: rulesFailed,
	}

	logger.Info("pipeline run completed", loglib.Fields{
		"rows_out":     result.Summary.RowsOut,
		"nulls_out":    result.Summary.NullsOut,
		"rules_failed": rulesFailed,
	})
	return result, nil
}
