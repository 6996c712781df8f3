package provisioning

import (
	"time"

	"github.com/imamik/hostprep/internal/host"
	"github.com/imamik/hostprep/internal/ui/report"
)

// Outcome classifies an Action.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeWarned  Outcome = "warned"
)

// Action is one thing a phase did, or decided not to do.
type Action struct {
	Stage   string
	Subject string
	Outcome Outcome
	Detail  string
}

// PhaseResult is the outcome of one phase of a run.
type PhaseResult struct {
	Name     string
	Result   string
	Duration time.Duration
}

// Phase result values.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// User is the target account, resolved by preflight.
	User *host.Account

	Actions []Action
	Phases  []PhaseResult

	// Report is the end state observed by the summary phase.
	Report *report.Report
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Applied returns the actions that changed the host.
func (s *State) Applied() []Action {
	var out []Action
	for _, a := range s.Actions {
		if a.Outcome == OutcomeApplied {
			out = append(out, a)
		}
	}
	return out
}

// Warnings returns the actions that were recorded as warnings.
func (s *State) Warnings() []Action {
	var out []Action
	for _, a := range s.Actions {
		if a.Outcome == OutcomeWarned {
			out = append(out, a)
		}
	}
	return out
}
