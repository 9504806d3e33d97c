package upgrade

import (
	"github.com/conn-castle/rancher-client/internal/compose"
	"github.com/conn-castle/rancher-client/internal/config"
	"github.com/conn-castle/rancher-client/internal/rancher"
)

// State is the context handed from stage to stage. Stages receive it by
// value and return an updated copy; none of them mutate their input.
type State struct {
	RunID       string
	Request     config.Upgrade
	Environment rancher.Environment
	Stack       rancher.Stack
	BundleFiles []string
	Available   []rancher.Service
	Selected    []rancher.Service
	Rewrite     compose.Rewrite
	Diff        string
}

// SelectedNames returns the names of the selected services in order.
func (s State) SelectedNames() []string {
	return rancher.ServiceNames(s.Selected)
}

// Result describes how a run ended.
type Result struct {
	RunID string
	// Stage is StageDone, StageDryRun or StageFailed.
	Stage Stage
	// FailedStage is the stage that returned the error when Stage is StageFailed.
	FailedStage Stage
	Services    []string
	Images      []compose.Image
	Skipped     []compose.Skip
	Diff        string
}

func newResult(stage Stage, state State) Result {
	return Result{
		RunID:    state.RunID,
		Stage:    stage,
		Services: state.SelectedNames(),
		Images:   state.Rewrite.Images(),
		Skipped:  state.Rewrite.Skipped,
		Diff:     state.Diff,
	}
}
