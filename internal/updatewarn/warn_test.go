package updatewarn

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conn-castle/rancher-client/internal/update"
)

func stubCheck(t *testing.T, result update.CheckResult, err error) *int {
	t.Helper()
	orig := CheckForUpdate
	calls := 0
	CheckForUpdate = func(context.Context, string) (update.CheckResult, error) {
		calls++
		return result, err
	}
	t.Cleanup(func() { CheckForUpdate = orig })
	return &calls
}

func TestReportSkipsWhenNoNetworkSet(t *testing.T) {
	t.Setenv(EnvNoNetwork, "1")
	calls := stubCheck(t, update.CheckResult{}, nil)

	var out bytes.Buffer
	Report(context.Background(), "v1.0.0", &out)
	assert.Equal(t, 0, *calls)
	assert.Contains(t, out.String(), EnvNoNetwork)
}

func TestReportOutcomes(t *testing.T) {
	cases := []struct {
		name   string
		result update.CheckResult
		err    error
		want   string
	}{
		{name: "error", err: errors.New("boom"), want: "failed to check for updates: boom"},
		{name: "dev", result: update.CheckResult{CurrentIsDev: true, Latest: "2.0.0"}, want: "dev build; latest release is 2.0.0"},
		{name: "outdated", result: update.CheckResult{Outdated: true, Latest: "2.0.0", Current: "1.0.0"}, want: "2.0.0 (current 1.0.0)"},
		{name: "current", result: update.CheckResult{Latest: "1.0.0", Current: "1.0.0"}, want: "1.0.0 is the latest release"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvNoNetwork, "")
			stubCheck(t, tc.result, tc.err)

			var out bytes.Buffer
			Report(context.Background(), "v1.0.0", &out)
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestReportNilWriter(t *testing.T) {
	t.Setenv(EnvNoNetwork, "")
	calls := stubCheck(t, update.CheckResult{Outdated: true}, nil)

	assert.NotPanics(t, func() { Report(context.Background(), "v1.0.0", nil) })
	assert.Equal(t, 1, *calls)
}
