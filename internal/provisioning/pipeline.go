package provisioning

import (
	"fmt"
	"time"
)

// Pipeline is an ordered list of phases.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline running phases in the given order.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes all phases sequentially and stops at the first failure.
// Phases that implement Toggle and are disabled are skipped.
func (p *Pipeline) Run(ctx *Context) error {
	start := time.Now()
	ctx.Observer.Event(Event{
		Type:    EventRunStarted,
		Message: fmt.Sprintf("provisioning %s with %d phases", ctx.Host.Name(), len(p.Phases)),
	})

	for _, phase := range p.Phases {
		if err := p.runPhase(ctx, phase); err != nil {
			if ctx.Metrics != nil {
				ctx.Metrics.RecordRun(false, time.Since(start))
			}
			return err
		}
	}

	if ctx.Metrics != nil {
		ctx.Metrics.RecordRun(true, time.Since(start))
	}
	ctx.Observer.Event(Event{
		Type: EventRunCompleted,
		Message: fmt.Sprintf("provisioning completed in %v (%d changes, %d warnings)",
			time.Since(start).Round(time.Millisecond), len(ctx.State.Applied()), len(ctx.State.Warnings())),
	})
	return nil
}

func (p *Pipeline) runPhase(ctx *Context, phase Phase) error {
	name := phase.Name()
	ctx.phase = name
	defer func() { ctx.phase = "" }()

	if t, ok := phase.(Toggle); ok && !t.Enabled(ctx.Config) {
		LogPhaseSkipped(ctx.Observer, name)
		p.record(ctx, name, ResultSkipped, 0)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s phase not started: %w", name, err)
	}

	phaseStart := time.Now()
	LogPhaseStart(ctx.Observer, name)

	if err := phase.Provision(ctx); err != nil {
		LogPhaseFailed(ctx.Observer, name, err)
		p.record(ctx, name, ResultFailed, time.Since(phaseStart))
		return fmt.Errorf("%s phase failed: %w", name, err)
	}

	duration := time.Since(phaseStart)
	LogPhaseComplete(ctx.Observer, name, duration)
	p.record(ctx, name, ResultSuccess, duration)
	return nil
}

func (p *Pipeline) record(ctx *Context, name, result string, d time.Duration) {
	ctx.State.Phases = append(ctx.State.Phases, PhaseResult{Name: name, Result: result, Duration: d})
	if ctx.Metrics != nil {
		ctx.Metrics.RecordPhase(name, result, d)
	}
}
