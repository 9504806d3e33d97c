package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conn-castle/rancher-client/internal/bundle"
	"github.com/conn-castle/rancher-client/internal/config"
	"github.com/conn-castle/rancher-client/internal/deploy"
	"github.com/conn-castle/rancher-client/internal/fsutil"
	"github.com/conn-castle/rancher-client/internal/messages"
	"github.com/conn-castle/rancher-client/internal/prompt"
	"github.com/conn-castle/rancher-client/internal/rancher"
	"github.com/conn-castle/rancher-client/internal/registry"
	"github.com/conn-castle/rancher-client/internal/upgrade"
)

// confirmer asks the operator a yes/no question.
type confirmer interface {
	Confirm(title string) (bool, error)
}

var newConfirmer = func() confirmer { return prompt.NewHuhConfirmer() }

var buildPipelineFunc = buildPipeline

// upgradeFlags holds the upgrade command's flag values. Only flags the user
// actually set reach the flag layer.
type upgradeFlags struct {
	environment   string
	stack         string
	url           string
	accessKey     string
	secretKey     string
	tag           string
	dockerUser    string
	dockerPass    string
	dryRun        bool
	registryURL   string
	workDir       string
	composeFile   string
	composeBin    string
	timeout       time.Duration
	deployTimeout time.Duration
	concurrency   int
	confirm       bool
	envFile       string
	verbose       bool
}

func newUpgradeCmd(global *globalOptions) *cobra.Command {
	f := &upgradeFlags{}
	cmd := &cobra.Command{
		Use:   messages.UpgradeUse,
		Short: messages.UpgradeShort,
		Long:  messages.UpgradeLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd, global, f, args)
		},
	}
	bindUpgradeFlags(cmd.Flags(), f)
	return cmd
}

func bindUpgradeFlags(flags *pflag.FlagSet, f *upgradeFlags) {
	flags.StringVarP(&f.environment, "environment", "e", "", messages.UpgradeFlagEnvironment)
	flags.StringVarP(&f.stack, "stack", "s", "", messages.UpgradeFlagStack)
	flags.StringVar(&f.url, "url", "", messages.UpgradeFlagURL)
	flags.StringVar(&f.accessKey, "access-key", "", messages.UpgradeFlagAccessKey)
	flags.StringVar(&f.secretKey, "secret-key", "", messages.UpgradeFlagSecretKey)
	flags.StringVarP(&f.tag, "tag", "t", "", messages.UpgradeFlagTag)
	flags.StringVarP(&f.dockerUser, "docker-user", "u", "", messages.UpgradeFlagDockerUser)
	flags.StringVarP(&f.dockerPass, "docker-pass", "p", "", messages.UpgradeFlagDockerPass)
	flags.BoolVarP(&f.dryRun, "dry-run", "d", false, messages.UpgradeFlagDryRun)
	flags.StringVar(&f.registryURL, "registry-url", config.DefaultRegistryURL, messages.UpgradeFlagRegistryURL)
	flags.StringVar(&f.workDir, "work-dir", config.DefaultWorkDir, messages.UpgradeFlagWorkDir)
	flags.StringVar(&f.composeFile, "compose-file", config.DefaultComposeFile, messages.UpgradeFlagComposeFile)
	flags.StringVar(&f.composeBin, "compose-bin", config.DefaultComposeBinary, messages.UpgradeFlagComposeBin)
	flags.DurationVar(&f.timeout, "timeout", config.DefaultHTTPTimeout, messages.UpgradeFlagTimeout)
	flags.DurationVar(&f.deployTimeout, "deploy-timeout", config.DefaultDeployTimeout, messages.UpgradeFlagDeployTimeout)
	flags.IntVar(&f.concurrency, "concurrency", config.DefaultConcurrency, messages.UpgradeFlagConcurrency)
	flags.BoolVar(&f.confirm, "confirm", false, messages.UpgradeFlagConfirm)
	flags.StringVar(&f.envFile, "env-file", "", messages.UpgradeFlagEnvFile)
	flags.BoolVarP(&f.verbose, "verbose", "v", false, messages.UpgradeFlagVerbose)
}

func runUpgrade(cmd *cobra.Command, global *globalOptions, f *upgradeFlags, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	req, err := resolveRequest(cmd, global, f, args, stderr)
	if err != nil {
		return err
	}
	logger, err := global.logger(stderr)
	if err != nil {
		return &config.InvalidFieldError{Field: "log-level", Reason: err.Error()}
	}

	var output io.Writer
	if f.verbose {
		output = stdout
	}
	pipeline, err := buildPipelineFunc(req, logger, output)
	if err != nil {
		return err
	}
	info := color.New(color.FgBlue)
	pipeline.Progress = func(stage upgrade.Stage) {
		_, _ = info.Fprintf(stdout, messages.UpgradeStageFmt, stage.String())
	}
	if req.Confirm {
		pipeline.Confirm = confirmDeploy(stdout)
	}

	_, _ = info.Fprintf(stdout, messages.UpgradeStartFmt, describeServices(req.Services), req.Environment, req.Stack)

	var result upgrade.Result
	err = fsutil.WithWorkDirLock(cmd.Context(), req.WorkDir, func() error {
		var runErr error
		result, runErr = pipeline.Run(cmd.Context(), req)
		return runErr
	})
	if errors.Is(err, upgrade.ErrAborted) || errors.Is(err, prompt.ErrCancelled) {
		_, _ = fmt.Fprintln(stderr, color.YellowString(messages.UpgradeAborted))
		return &SilentExitError{Code: 1}
	}
	if err != nil {
		return err
	}
	return renderResult(stdout, result)
}

// resolveRequest layers flags over the config file over the environment.
func resolveRequest(cmd *cobra.Command, global *globalOptions, f *upgradeFlags, args []string, stderr io.Writer) (config.Upgrade, error) {
	var file config.Values
	if strings.TrimSpace(global.configPath) != "" {
		loaded, err := config.LoadFile(global.configPath)
		if err != nil {
			return config.Upgrade{}, err
		}
		file = loaded
	}

	var fileEnv map[string]string
	if strings.TrimSpace(f.envFile) != "" {
		kept, ignored, err := config.LoadEnvFile(f.envFile)
		if err != nil {
			return config.Upgrade{}, err
		}
		for _, key := range ignored {
			_, _ = fmt.Fprintln(stderr, color.YellowString(messages.ConfigEnvFileIgnoredKeyFmt, key, f.envFile))
		}
		fileEnv = kept
	}
	env := config.FromEnv(config.EnvLookup(fileEnv))

	req, err := config.Resolve(flagValues(cmd, f, args), file, env)
	if err != nil {
		if errors.Is(err, config.ErrConfigValidation) {
			return config.Upgrade{}, fmt.Errorf(messages.ConfigValidationGuidanceFmt, err)
		}
		return config.Upgrade{}, err
	}
	return req, nil
}

// flagValues builds the flag layer from the flags that were explicitly set,
// so defaults never shadow the config file or the environment.
func flagValues(cmd *cobra.Command, f *upgradeFlags, args []string) config.Values {
	changed := cmd.Flags().Changed
	str := func(name string, value string) *string {
		if !changed(name) {
			return nil
		}
		v := value
		return &v
	}

	values := config.Values{
		Environment:   str("environment", f.environment),
		Stack:         str("stack", f.stack),
		URL:           str("url", f.url),
		AccessKey:     str("access-key", f.accessKey),
		SecretKey:     str("secret-key", f.secretKey),
		Tag:           str("tag", f.tag),
		DockerUser:    str("docker-user", f.dockerUser),
		DockerPass:    str("docker-pass", f.dockerPass),
		RegistryURL:   str("registry-url", f.registryURL),
		WorkDir:       str("work-dir", f.workDir),
		ComposeFile:   str("compose-file", f.composeFile),
		ComposeBinary: str("compose-bin", f.composeBin),
		Services:      args,
	}
	if changed("dry-run") {
		values.DryRun = &f.dryRun
	}
	if changed("confirm") {
		values.Confirm = &f.confirm
	}
	if changed("timeout") {
		values.Timeout = config.DurationPtr(f.timeout)
	}
	if changed("deploy-timeout") {
		values.DeployTimeout = config.DurationPtr(f.deployTimeout)
	}
	if changed("concurrency") {
		values.Concurrency = &f.concurrency
	}
	return values
}

// buildPipeline wires the production collaborators for req.
func buildPipeline(req config.Upgrade, logger *log.Logger, output io.Writer) (*upgrade.Pipeline, error) {
	httpClient := &http.Client{Timeout: req.HTTPTimeout}
	api, err := rancher.NewClient(req.URL, req.AccessKey, req.SecretKey, httpClient)
	if err != nil {
		return nil, err
	}

	p := &upgrade.Pipeline{
		API:     api,
		Fetcher: &bundle.Fetcher{API: api, Logger: logger},
		Deployer: &deploy.Runner{
			Binary:    req.ComposeBinary,
			Project:   req.Stack,
			URL:       req.URL,
			AccessKey: req.AccessKey,
			SecretKey: req.SecretKey,
			Dir:       req.WorkDir,
			Timeout:   req.DeployTimeout,
			Logger:    logger,
			Output:    output,
		},
		Logger: logger,
	}
	if req.HasRegistryCredentials() {
		reg := registry.NewClient(req.RegistryURL, req.DockerUser, req.DockerPass, httpClient)
		reg.Concurrency = req.RegistryConcurrency
		reg.Logger = logger
		p.Registry = reg
	}
	return p, nil
}

// confirmDeploy shows the pending compose change and asks before any
// deploy tool runs.
func confirmDeploy(out io.Writer) upgrade.ConfirmFunc {
	return func(_ context.Context, state upgrade.State) (bool, error) {
		if state.Diff != "" {
			_, _ = fmt.Fprint(out, state.Diff)
		}
		title := fmt.Sprintf(messages.UpgradeConfirmTitleFmt,
			strings.Join(state.SelectedNames(), ", "), state.Request.Environment, state.Request.Stack)
		return newConfirmer().Confirm(title)
	}
}

func renderResult(out io.Writer, result upgrade.Result) error {
	info := color.New(color.FgBlue)
	for _, image := range result.Images {
		if _, err := info.Fprintf(out, messages.UpgradeRewroteFmt, image.String()); err != nil {
			return err
		}
	}
	for _, skip := range result.Skipped {
		if _, err := fmt.Fprintf(out, messages.UpgradeSkippedFmt, skip.Service, skip.Reason); err != nil {
			return err
		}
	}

	if result.Stage == upgrade.StageDryRun {
		if result.Diff != "" {
			if _, err := fmt.Fprint(out, result.Diff); err != nil {
				return err
			}
		}
		_, err := info.Fprintln(out, messages.UpgradeDryRunHeader)
		return err
	}
	_, err := fmt.Fprintln(out, color.GreenString(messages.UpgradeDone))
	return err
}

func describeServices(services []string) string {
	if len(services) == 0 {
		return messages.UpgradeAllServices
	}
	return strings.Join(services, ", ")
}
