package provisioning

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/download"
	"github.com/imamik/hostprep/internal/host"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	Host     *host.Host
	Fetcher  download.Fetcher
	Observer Observer
	State    *State
	Metrics  *Metrics

	// Getenv is consulted for user overrides. Defaults to os.Getenv.
	Getenv func(string) string

	phase string
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	h *host.Host,
	fetcher download.Fetcher,
	observer Observer,
) *Context {
	if observer == nil {
		observer = NewConsoleObserver(os.Stderr, false)
	}
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Host:     h,
		Fetcher:  fetcher,
		Observer: observer,
		State:    NewState(),
		Getenv:   os.Getenv,
	}
}

// Phase returns the name of the phase currently running.
func (c *Context) Phase() string {
	return c.phase
}

// User returns the resolved target account. It is nil before preflight.
func (c *Context) User() *host.Account {
	return c.State.User
}

// Step logs progress within the current phase.
func (c *Context) Step(format string, args ...any) {
	c.Observer.Event(Event{
		Type:    EventStep,
		Phase:   c.phase,
		Message: fmt.Sprintf(format, args...),
	})
}

// Applied records a change made to the host.
func (c *Context) Applied(subject, detail string) {
	c.record(Action{Subject: subject, Outcome: OutcomeApplied, Detail: detail}, EventActionApplied)
}

// Skipped records a step that was unnecessary because the host already
// matched.
func (c *Context) Skipped(subject, detail string) {
	c.record(Action{Subject: subject, Outcome: OutcomeSkipped, Detail: detail}, EventActionSkipped)
}

// Warn records a best-effort step that failed without failing the run.
func (c *Context) Warn(subject string, err error) {
	c.record(Action{Subject: subject, Outcome: OutcomeWarned, Detail: err.Error()}, EventActionWarned)
}

func (c *Context) record(a Action, typ EventType) {
	a.Stage = c.phase
	c.State.Actions = append(c.State.Actions, a)
	if c.Metrics != nil {
		c.Metrics.RecordAction(a.Stage, string(a.Outcome))
	}

	msg := a.Subject
	if a.Detail != "" {
		msg += ": " + a.Detail
	}
	c.Observer.Event(Event{
		Type:     typ,
		Phase:    c.phase,
		Resource: a.Subject,
		Message:  msg,
	})
}
