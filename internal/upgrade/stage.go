package upgrade

// Stage identifies one step of an upgrade run, or its terminal outcome.
type Stage int

const (
	StageFetchEnvironment Stage = iota
	StageFetchStack
	StageFetchBundle
	StageFetchServices
	StageSelectServices
	StageRewriteTag
	StageDryRunGate
	StagePullImages
	StageForceUpgrade
	StageDone
	StageDryRun
	StageFailed
)

var stageNames = map[Stage]string{
	StageFetchEnvironment: "fetch environment",
	StageFetchStack:       "fetch stack",
	StageFetchBundle:      "fetch compose bundle",
	StageFetchServices:    "fetch services",
	StageSelectServices:   "select services",
	StageRewriteTag:       "rewrite tag",
	StageDryRunGate:       "dry run gate",
	StagePullImages:       "pull images",
	StageForceUpgrade:     "force upgrade",
	StageDone:             "done",
	StageDryRun:           "dry run",
	StageFailed:           "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether s ends a run.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageDryRun || s == StageFailed
}
