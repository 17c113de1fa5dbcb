// Package dispatch walks an inventory and routes each entry to its handler.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/yairfalse/awsres/internal/handler"
	"github.com/yairfalse/awsres/internal/inventory"
	"github.com/yairfalse/awsres/pkg/resource"
)

// Mode selects create or delete for the whole run.
type Mode int

const (
	ModeCreate Mode = iota
	ModeDelete
)

// Action maps the mode onto the handler routine it selects.
func (m Mode) Action() resource.Action {
	if m == ModeDelete {
		return resource.ActionDelete
	}
	return resource.ActionCreate
}

func (m Mode) String() string {
	return string(m.Action())
}

// ErrNoPrompter is returned for an unconfirmed delete run with nothing to ask.
var ErrNoPrompter = errors.New("delete needs a prompter or AssumeYes")

// Reporter receives user-facing progress.
type Reporter interface {
	DeleteBanner(rendered string)
	DeleteConfirmed()
	DeleteCancelled()
	Outcome(o resource.Outcome)
}

// Recorder receives spans and per-outcome metrics.
type Recorder interface {
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
	RecordOutcome(ctx context.Context, o resource.Outcome)
}

// Dispatcher runs one pass over an inventory.
type Dispatcher struct {
	Registry  *handler.Registry
	Prompter  Prompter
	Reporter  Reporter
	Recorder  Recorder
	Mode      Mode
	AssumeYes bool
}

// Run confirms a delete run, then calls the handler for every entry in
// file order. A failing entry never stops the walk. The returned error is
// only set when the run could not start.
func (d *Dispatcher) Run(ctx context.Context, inv *inventory.Inventory) (resource.RunResult, error) {
	start := time.Now()
	result := resource.RunResult{Action: d.Mode.Action()}

	if d.Registry == nil {
		return result, errors.New("dispatch: no handler registry")
	}
	if err := d.Registry.Validate(); err != nil {
		return result, fmt.Errorf("dispatch: %w", err)
	}

	if d.Mode == ModeDelete {
		ok, err := d.confirm(inv)
		if err != nil {
			return result, err
		}
		if !ok {
			d.reporter().DeleteCancelled()
			result.Cancelled = true
			result.Duration = time.Since(start)
			return result, nil
		}
		d.reporter().DeleteConfirmed()
	}

	log.Debug().
		Str("mode", d.Mode.String()).
		Int("resources", inv.Len()).
		Msg("dispatching inventory")

	result.Outcomes = make([]resource.Outcome, 0, inv.Len())
	for _, spec := range inv.Entries {
		o := d.dispatch(ctx, spec)
		d.reporter().Outcome(o)
		result.Outcomes = append(result.Outcomes, o)
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (d *Dispatcher) confirm(inv *inventory.Inventory) (bool, error) {
	rendered, err := inv.Render()
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	d.reporter().DeleteBanner(rendered)
	if d.AssumeYes {
		return true, nil
	}
	if d.Prompter == nil {
		return false, ErrNoPrompter
	}
	ok, err := d.Prompter.Confirm("Ok to delete? (y/n) ")
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	return ok, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, spec resource.Spec) resource.Outcome {
	action := d.Mode.Action()
	start := time.Now()

	ctx, span := d.recorder().StartSpan(ctx, string(action)+" "+string(spec.Type),
		attribute.String("resource.name", spec.Name),
		attribute.String("resource.type", string(spec.Type)),
	)
	defer span.End()

	var (
		o  resource.Outcome
		h  handler.Handler
		ok bool
	)
	if t, known := resource.ParseType(string(spec.Type)); known {
		h, ok = d.Registry.Get(t)
	}
	switch {
	case !ok:
		log.Warn().Ctx(ctx).Str("resource", spec.Name).Str("type", string(spec.Type)).Msg("unknown resource type")
		o = resource.Succeeded(spec, action, resource.StatusUnknownType)
	case ctx.Err() != nil:
		o = resource.Failure(spec, action, ctx.Err())
	case action == resource.ActionDelete:
		o = h.Delete(ctx, spec)
	default:
		o = h.Create(ctx, spec)
	}

	o.Name, o.Type, o.Action = spec.Name, spec.Type, action
	o.Duration = time.Since(start)

	span.SetAttributes(attribute.String("resource.status", string(o.Status)))
	if o.Failed() {
		if o.Err != nil {
			span.RecordError(o.Err)
		}
		span.SetStatus(codes.Error, "resource operation failed")
		log.Debug().Ctx(ctx).Err(o.Err).Str("resource", spec.Name).Msg("resource failed")
	}

	d.recorder().RecordOutcome(ctx, o)
	return o
}

func (d *Dispatcher) reporter() Reporter {
	if d.Reporter == nil {
		return nopReporter{}
	}
	return d.Reporter
}

func (d *Dispatcher) recorder() Recorder {
	if d.Recorder == nil {
		return nopRecorder{}
	}
	return d.Recorder
}

type nopReporter struct{}

func (nopReporter) DeleteBanner(string)      {}
func (nopReporter) DeleteConfirmed()         {}
func (nopReporter) DeleteCancelled()         {}
func (nopReporter) Outcome(resource.Outcome) {}

type nopRecorder struct{}

func (nopRecorder) StartSpan(ctx context.Context, name string, _ ...attribute.KeyValue) (context.Context, trace.Span) {
	return noop.NewTracerProvider().Tracer("").Start(ctx, name)
}

func (nopRecorder) RecordOutcome(context.Context, resource.Outcome) {}
