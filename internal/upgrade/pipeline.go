// Package upgrade runs the stack upgrade: resolve the stack through the
// Rancher API, optionally move services to a new image tag, then hand the
// services to the deploy tool.
package upgrade

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/conn-castle/rancher-client/internal/compose"
	"github.com/conn-castle/rancher-client/internal/config"
	"github.com/conn-castle/rancher-client/internal/logging"
	"github.com/conn-castle/rancher-client/internal/messages"
	"github.com/conn-castle/rancher-client/internal/rancher"
	"github.com/conn-castle/rancher-client/internal/registry"
)

var newRunID = uuid.NewString

// errStop ends a run successfully before the deploy stages.
var errStop = errors.New("stop")

// API reads Rancher API resources.
type API interface {
	ProjectsURL() string
	Get(ctx context.Context, url string) ([]byte, error)
}

// Fetcher downloads and extracts a stack's compose bundle into dir.
type Fetcher interface {
	Fetch(ctx context.Context, url string, dir string) ([]string, error)
}

// Verifier checks image tags against the registry.
type Verifier interface {
	Login(ctx context.Context) (string, error)
	CheckMissing(ctx context.Context, images []compose.Image, token string) ([]compose.Image, error)
}

// Deployer drives the deploy tool.
type Deployer interface {
	Pull(ctx context.Context, services []string) error
	Upgrade(ctx context.Context, services []string) error
}

// ConfirmFunc is asked before any deploy tool runs. Returning false aborts
// the run with ErrAborted.
type ConfirmFunc func(ctx context.Context, state State) (bool, error)

// Pipeline wires the collaborators of one upgrade run.
type Pipeline struct {
	API      API
	Fetcher  Fetcher
	Registry Verifier
	Deployer Deployer
	Logger   *log.Logger
	Confirm  ConfirmFunc
	// Progress, when set, is told about each stage as it starts.
	Progress func(Stage)
}

type step struct {
	stage Stage
	run   func(ctx context.Context, state State) (State, error)
}

func (p *Pipeline) steps(logger *log.Logger) []step {
	return []step{
		{StageFetchEnvironment, p.fetchEnvironment(logger)},
		{StageFetchStack, p.fetchStack(logger)},
		{StageFetchBundle, p.fetchBundle},
		{StageFetchServices, p.fetchServices},
		{StageSelectServices, p.selectServices(logger)},
		{StageRewriteTag, p.rewriteTag(logger)},
		{StageDryRunGate, p.dryRunGate},
		{StagePullImages, p.pullImages},
		{StageForceUpgrade, p.forceUpgrade},
	}
}

// Run executes every stage in order and stops at the first failure.
// A dry run ends after the tag rewrite with StageDryRun and a nil error.
// Failures are returned as *StageError alongside a StageFailed result.
func (p *Pipeline) Run(ctx context.Context, req config.Upgrade) (Result, error) {
	state := State{RunID: newRunID(), Request: req}
	logger := logging.OrDiscard(p.Logger).With("run", state.RunID)

	if err := p.validate(); err != nil {
		result := newResult(StageFailed, state)
		result.FailedStage = StageFetchEnvironment
		return result, &StageError{Stage: StageFetchEnvironment, Err: err}
	}

	for _, s := range p.steps(logger) {
		if p.Progress != nil {
			p.Progress(s.stage)
		}
		logger.Info("stage started", "stage", s.stage.String())
		next, err := s.run(ctx, state)
		if errors.Is(err, errStop) {
			logger.Info("dry run complete", "services", next.SelectedNames())
			return newResult(StageDryRun, next), nil
		}
		if err != nil {
			logger.Error("stage failed", "stage", s.stage.String(), "err", err)
			result := newResult(StageFailed, state)
			result.FailedStage = s.stage
			return result, &StageError{Stage: s.stage, Err: err}
		}
		state = next
	}
	logger.Info("upgrade complete", "services", state.SelectedNames())
	return newResult(StageDone, state), nil
}

func (p *Pipeline) validate() error {
	switch {
	case p.API == nil:
		return errors.New(messages.UpgradeAPIRequired)
	case p.Fetcher == nil:
		return errors.New(messages.UpgradeFetcherRequired)
	case p.Deployer == nil:
		return errors.New(messages.UpgradeDeployerRequired)
	}
	return nil
}

func (p *Pipeline) fetchEnvironment(logger *log.Logger) func(context.Context, State) (State, error) {
	return func(ctx context.Context, state State) (State, error) {
		body, err := p.API.Get(ctx, p.API.ProjectsURL())
		if err != nil {
			return state, err
		}
		env, err := rancher.ResolveOne[rancher.Environment](logger, rancher.KindEnvironment, body, state.Request.Environment)
		if err != nil {
			return state, err
		}
		logger.Debug("resolved environment", "name", env.Name, "id", env.ID)
		state.Environment = env
		return state, nil
	}
}

func (p *Pipeline) fetchStack(logger *log.Logger) func(context.Context, State) (State, error) {
	return func(ctx context.Context, state State) (State, error) {
		url, err := state.Environment.Link(rancher.KindEnvironment, rancher.LinkStacks)
		if err != nil {
			return state, err
		}
		body, err := p.API.Get(ctx, url)
		if err != nil {
			return state, err
		}
		stack, err := rancher.ResolveOne[rancher.Stack](logger, rancher.KindStack, body, state.Request.Stack)
		if err != nil {
			return state, err
		}
		logger.Debug("resolved stack", "name", stack.Name, "id", stack.ID)
		state.Stack = stack
		return state, nil
	}
}

func (p *Pipeline) fetchBundle(ctx context.Context, state State) (State, error) {
	url, err := state.Stack.Link(rancher.KindStack, rancher.LinkComposeConfig)
	if err != nil {
		return state, err
	}
	files, err := p.Fetcher.Fetch(ctx, url, workDir(state.Request))
	if err != nil {
		return state, err
	}
	state.BundleFiles = files
	return state, nil
}

func (p *Pipeline) fetchServices(ctx context.Context, state State) (State, error) {
	url, err := state.Stack.Link(rancher.KindStack, rancher.LinkServices)
	if err != nil {
		return state, err
	}
	body, err := p.API.Get(ctx, url)
	if err != nil {
		return state, err
	}
	services, err := rancher.ResolveAll[rancher.Service](rancher.KindService, body)
	if err != nil {
		return state, err
	}
	state.Available = services
	return state, nil
}

func (p *Pipeline) selectServices(logger *log.Logger) func(context.Context, State) (State, error) {
	return func(_ context.Context, state State) (State, error) {
		selected, err := SelectServices(state.Request.Services, state.Available)
		if err != nil {
			return state, err
		}
		if len(selected) == 0 {
			return state, errors.New(messages.UpgradeNoServicesSelected)
		}
		logger.Debug("selected services", "available", rancher.ServiceNames(state.Available), "selected", rancher.ServiceNames(selected))
		state.Selected = selected
		return state, nil
	}
}

// rewriteTag edits the compose file in memory, verifies the new tags when
// registry credentials are configured, and only then writes the file.
func (p *Pipeline) rewriteTag(logger *log.Logger) func(context.Context, State) (State, error) {
	return func(ctx context.Context, state State) (State, error) {
		req := state.Request
		if req.Tag == "" {
			logger.Debug("no tag requested; leaving compose file untouched")
			return state, nil
		}

		def, err := compose.Load(filepath.Join(workDir(req), composeFile(req)))
		if err != nil {
			return state, err
		}
		rewrite, err := def.RewriteTags(logger, state.SelectedNames(), req.Tag)
		if err != nil {
			return state, err
		}

		if req.HasRegistryCredentials() {
			if err := p.verify(ctx, rewrite.Images()); err != nil {
				return state, err
			}
		}

		diff, err := def.Diff()
		if err != nil {
			return state, err
		}
		if err := def.Save(); err != nil {
			return state, err
		}
		state.Rewrite = rewrite
		state.Diff = diff
		return state, nil
	}
}

func (p *Pipeline) verify(ctx context.Context, images []compose.Image) error {
	if p.Registry == nil {
		return errors.New(messages.UpgradeRegistryRequired)
	}
	if len(images) == 0 {
		return nil
	}
	token, err := p.Registry.Login(ctx)
	if err != nil {
		return err
	}
	missing, err := p.Registry.CheckMissing(ctx, images, token)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &registry.MissingImagesError{Images: missing}
	}
	return nil
}

func (p *Pipeline) dryRunGate(ctx context.Context, state State) (State, error) {
	if state.Request.DryRun {
		return state, errStop
	}
	if p.Confirm == nil {
		return state, nil
	}
	ok, err := p.Confirm(ctx, state)
	if err != nil {
		return state, err
	}
	if !ok {
		return state, ErrAborted
	}
	return state, nil
}

func (p *Pipeline) pullImages(ctx context.Context, state State) (State, error) {
	return state, p.Deployer.Pull(ctx, state.SelectedNames())
}

func (p *Pipeline) forceUpgrade(ctx context.Context, state State) (State, error) {
	return state, p.Deployer.Upgrade(ctx, state.SelectedNames())
}

func workDir(req config.Upgrade) string {
	if req.WorkDir == "" {
		return "."
	}
	return req.WorkDir
}

func composeFile(req config.Upgrade) string {
	if req.ComposeFile == "" {
		return compose.DefaultFile
	}
	return req.ComposeFile
}
