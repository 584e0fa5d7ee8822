package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/VamsiKurapati/docrender"
	"github.com/VamsiKurapati/docrender/internal/config"
	"github.com/VamsiKurapati/docrender/internal/fileutil"
	"github.com/VamsiKurapati/docrender/internal/render"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// versionTimeout bounds `<engine> --version`.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string                  `json:"status"` // "ready", "warnings", "errors"
	Engine   engineInfo              `json:"engine"`
	Env      envInfo                 `json:"environment"`
	System   systemInfo              `json:"system"`
	Pipeline *docrender.HealthReport `json:"pipeline,omitempty"`
	Warnings []string                `json:"warnings,omitempty"`
	Errors   []string                `json:"errors,omitempty"`
}

// engineInfo holds engine discovery results.
type engineInfo struct {
	Found        bool     `json:"found"`
	Path         string   `json:"path,omitempty"`
	Source       string   `json:"source,omitempty"` // "config", "launcher", "system"
	Version      string   `json:"version,omitempty"`
	Sandbox      bool     `json:"sandbox"`
	BundledPath  string   `json:"bundled_path,omitempty"`
	BundledFound bool     `json:"bundled_found"`
	Tiers        []string `json:"tiers"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Deployment    string `json:"deployment"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     bool   `json:"no_sandbox"`
	BrowserBin    string `json:"browser_bin,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// pipelineChecker runs the engine-free health checks.
type pipelineChecker interface {
	Health(ctx context.Context) *docrender.HealthReport
	Tiers() []string
	Environment() docrender.Environment
}

var _ pipelineChecker = (*docrender.Renderer)(nil)

// doctor gathers diagnostics. Host lookups are fields so tests can fake them.
type doctor struct {
	cfg           *config.Config
	getenv        func(string) string
	checker       pipelineChecker
	lookPath      func() (string, bool)
	fileExists    func(string) bool
	engineVersion func(ctx context.Context, path string) (string, error)
	bundled       func(path string) (string, error)
	tempWritable  func() error
}

func newDoctor(cfg *config.Config, getenv func(string) string, checker pipelineChecker) *doctor {
	return &doctor{
		cfg:           cfg,
		getenv:        getenv,
		checker:       checker,
		lookPath:      launcher.LookPath,
		fileExists:    fileutil.FileExists,
		engineVersion: engineVersion,
		bundled:       render.BundledBinary,
		tempWritable:  tempWritable,
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return ExitUsage
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	env.Config = cfg

	common := flags.common
	if !common.verbose {
		common.quiet = true
	}
	renderer := newRenderer(cfg, newLogger(env.Stderr, cfg.Log, common))

	result := newDoctor(cfg, env.Getenv, renderer).run(ctx)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// run performs all diagnostic checks.
func (d *doctor) run(ctx context.Context) *doctorResult {
	renv := d.checker.Environment()
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         renv.OS,
			Arch:       renv.Arch,
			Deployment: renv.Deployment,
			Container:  renv.Container,
			CI:         renv.CI,
			NoSandbox:  d.cfg.Render.NoSandbox,
			BrowserBin: d.cfg.Render.BrowserBin,
		},
	}
	result.Engine.Tiers = d.checker.Tiers()

	d.checkEngine(ctx, result)
	d.checkBundled(result)
	d.checkEnvironment(result)
	d.checkAssets(result)
	d.checkSystem(result)
	d.checkPipeline(ctx, result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkEngine locates the engine the standard and system tiers would use:
// the configured binary, then rod's lookup, then the system path list.
func (d *doctor) checkEngine(ctx context.Context, result *doctorResult) {
	path, source := d.cfg.Render.BrowserBin, "config"
	if path == "" {
		var found bool
		path, found = d.lookPath()
		source = "launcher"
		if !found {
			systemPaths := d.cfg.Render.SystemPaths
			if len(systemPaths) == 0 {
				systemPaths = render.DefaultSystemPaths()
			}
			path, found = firstExisting(systemPaths, d.fileExists)
			source = "system"
			if !found {
				result.Errors = append(result.Errors,
					"Chrome/Chromium not found. Install Chrome or set DOCRENDER_BROWSER_BIN")
				return
			}
		}
	}

	if !d.fileExists(path) {
		result.Errors = append(result.Errors, fmt.Sprintf("Engine not found at %s", path))
		return
	}

	result.Engine.Found = true
	result.Engine.Path = path
	result.Engine.Source = source

	version, err := d.engineVersion(ctx, path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get engine version: %v", err))
	} else {
		result.Engine.Version = version
	}

	env := d.checker.Environment()
	result.Engine.Sandbox = !(d.cfg.Render.NoSandbox || env.Container || env.CI || env.Serverless())
}

// checkBundled verifies the restricted tier's engine.
func (d *doctor) checkBundled(result *doctorResult) {
	path, err := d.bundled(d.cfg.Render.BundledPath)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Bundled engine unavailable, the restricted tier will fail: %v", err))
		return
	}
	result.Engine.BundledPath = path
	result.Engine.BundledFound = true
}

// checkEnvironment adds container signals the executor does not detect.
func (d *doctor) checkEnvironment(result *doctorResult) {
	found, hint := isContainer(d.getenv, d.fileExists)
	if !found {
		return
	}
	result.Env.ContainerHint = hint
	if !result.Env.Container {
		result.Env.Container = true
		if !d.cfg.Render.NoSandbox {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Container detected (%s) but the sandbox stays enabled. Set DOCRENDER_NO_SANDBOX=1", hint))
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string, fileExists func(string) bool) (bool, string) {
	if getenv("DOCRENDER_CONTAINER") == "1" {
		return true, "DOCRENDER_CONTAINER=1"
	}
	if fileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkAssets warns when asset references cannot be fetched.
func (d *doctor) checkAssets(result *doctorResult) {
	var missing []string
	if d.cfg.Assets.TemplateEndpoint == "" {
		missing = append(missing, "template:")
	}
	if d.cfg.Assets.CloudEndpoint == "" {
		missing = append(missing, "cloud:")
	}
	if len(missing) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No endpoint for %s images; they render as placeholders", strings.Join(missing, " and ")))
	}
}

// checkSystem verifies the executor can write its markup file.
func (d *doctor) checkSystem(result *doctorResult) {
	if err := d.tempWritable(); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s (%v)", os.TempDir(), err))
		return
	}
	result.System.TempWritable = true
}

// checkPipeline runs the asset and compile health checks.
func (d *doctor) checkPipeline(ctx context.Context, result *doctorResult) {
	report := d.checker.Health(ctx)
	result.Pipeline = report
	for _, c := range report.Checks {
		if !c.OK {
			result.Errors = append(result.Errors, fmt.Sprintf("Pipeline check %s failed: %s", c.Name, c.Detail))
		}
	}
}

func firstExisting(paths []string, exists func(string) bool) (string, bool) {
	for _, p := range paths {
		if p != "" && exists(p) {
			return p, true
		}
	}
	return "", false
}

func engineVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- discovered engine path
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func tempWritable() error {
	_, cleanup, err := fileutil.WriteTempFile("doctor", "html")
	if err != nil {
		return err
	}
	cleanup()
	return nil
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "docrender doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Render engine")
	if r.Engine.Found {
		fmt.Fprintf(w, "  [OK] Found at %s (%s)\n", r.Engine.Path, r.Engine.Source)
		if r.Engine.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Engine.Version)
		}
		if r.Engine.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	if r.Engine.BundledFound {
		fmt.Fprintf(w, "  [OK] Bundled: %s\n", r.Engine.BundledPath)
	} else {
		fmt.Fprintln(w, "  [WARN] Bundled: not found")
	}
	fmt.Fprintf(w, "  [OK] Tiers: %s\n", strings.Join(r.Engine.Tiers, " -> "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Deployment: %s\n", r.Env.Deployment)
	if r.Env.Container {
		if r.Env.ContainerHint != "" {
			fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
		} else {
			fmt.Fprintln(w, "  [OK] Container: detected")
		}
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if r.Pipeline != nil {
		fmt.Fprintln(w, "Pipeline")
		for _, c := range r.Pipeline.Checks {
			if c.OK {
				fmt.Fprintf(w, "  [OK] %s (%v)\n", c.Name, c.Duration.Round(time.Microsecond))
			} else {
				fmt.Fprintf(w, "  [ERROR] %s: %s\n", c.Name, c.Detail)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
