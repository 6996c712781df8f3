package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hosttest "github.com/imamik/hostprep/internal/testing"
	"github.com/imamik/hostprep/internal/ui/report"
)

func TestDoctor_FreshHostIsUnhealthy(t *testing.T) {
	fake := newFakeHost().WithUID(1000)
	out, _ := fakeTarget(t, fake)

	err := Doctor(context.Background(), TargetOptions{User: "alice"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not fully provisioned")
	assert.Contains(t, out.String(), "hostprep summary: fake")
	assert.Empty(t, fake.Mutations(), "doctor never changes the host")
}

func TestDoctor_AfterApply(t *testing.T) {
	fake := newFakeHost()
	out, _ := fakeTarget(t, fake)

	require.NoError(t, Apply(context.Background(), TargetOptions{User: "alice"}))
	out.Reset()
	before := len(fake.Mutations())

	require.NoError(t, Doctor(context.Background(), TargetOptions{User: "alice"}, true))
	assert.Len(t, fake.Mutations(), before)

	var rep report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, "alice", rep.User)
	assert.Equal(t, "/usr/bin/zsh", rep.Shell)
	assert.True(t, rep.Healthy())
}

func TestDoctor_UnresolvedUser(t *testing.T) {
	fake := hosttest.NewFakeHost()
	_, errOut := fakeTarget(t, fake)

	err := Doctor(context.Background(), TargetOptions{User: "ghost"}, false)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "per-user checks skipped")
}

func TestDoctor_ReportsMissingTools(t *testing.T) {
	fake := newFakeHost()
	delete(fake.Binaries, "timedatectl")
	out, _ := fakeTarget(t, fake)

	err := Doctor(context.Background(), TargetOptions{User: "alice"}, true)
	require.Error(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Contains(t, rep.Checks, report.CheckStatus{Name: "command timedatectl", Detail: "provided by package systemd"})
}
