package stages

import (
	"io"
	"time"

	"github.com/imamik/hostprep/internal/provisioning"
	"github.com/imamik/hostprep/internal/ui/report"
)

// Summary renders the end state of the host. It has no side effects.
type Summary struct {
	out io.Writer
}

// NewSummary creates the summary stage writing to out.
func NewSummary(out io.Writer) *Summary {
	return &Summary{out: out}
}

// Name implements the provisioning.Phase interface.
func (s *Summary) Name() string {
	return "summary"
}

// Provision implements the provisioning.Phase interface.
func (s *Summary) Provision(ctx *provisioning.Context) error {
	rep := Inspect(ctx, ctx.Config, ctx.Host, ctx.User())

	var elapsed time.Duration
	for _, p := range ctx.State.Phases {
		elapsed += p.Duration
	}
	rep.Duration = elapsed

	for _, a := range ctx.State.Actions {
		rep.Actions = append(rep.Actions, report.ActionLine{
			Stage:   a.Stage,
			Subject: a.Subject,
			Outcome: string(a.Outcome),
			Detail:  a.Detail,
		})
	}

	ctx.State.Report = rep
	if s.out != nil {
		report.Render(s.out, report.NewStyles(s.out), rep)
	}
	return nil
}
