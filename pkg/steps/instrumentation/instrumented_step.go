// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/scrubkit/scrub/pkg/dataset"
	"github.com/scrubkit/scrub/pkg/otel"
	"github.com/scrubkit/scrub/pkg/steps"
)

// Step decorates a step with latency metrics and tracing.
type Step struct {
	inner   steps.Step
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *metrics
}

type metrics struct {
	applyLatency metric.Int64Histogram
}

const typeAttributeKey = "step_type"

func NewStep(s steps.Step, instrumentation *otel.Instrumentation) (steps.Step, error) {
	if instrumentation == nil {
		return s, nil
	}

	step := &Step{
		inner:   s,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &metrics{},
	}

	if err := step.initMetrics(); err != nil {
		return nil, fmt.Errorf("initialising step metrics: %w", err)
	}

	return step, nil
}

func (i *Step) Apply(ctx context.Context, ds *dataset.Dataset) (res *dataset.Dataset, err error) {
	ctx, span := otel.StartSpan(ctx, i.tracer, "step.Apply", trace.WithAttributes(i.typeAttribute()))
	defer otel.CloseSpan(span, err)

	if i.meter != nil {
		startTime := time.Now()
		defer func() {
			i.metrics.applyLatency.Record(ctx, time.Since(startTime).Milliseconds(), metric.WithAttributes(i.typeAttribute()))
		}()
	}
	return i.inner.Apply(ctx, ds)
}

func (i *Step) Name() string {
	return i.inner.Name()
}

func (i *Step) Type() steps.StepType {
	return i.inner.Type()
}

func (i *Step) initMetrics() error {
	if i.meter == nil {
		return nil
	}

	var err error
	i.metrics.applyLatency, err = i.meter.Int64Histogram("scrub.step.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of the time taken to apply the step to a dataset"))
	if err != nil {
		return err
	}

	return nil
}

func (i *Step) typeAttribute() attribute.KeyValue {
	return attribute.KeyValue{
		Key:   typeAttributeKey,
		Value: attribute.StringValue(string(i.inner.Type())),
	}
}
