// Package installer sets up one application inside an install root: it checks out the
// repository, creates its virtualenv, runs the resolved installation plan, fetches model
// weights and writes the launcher.
package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/portablesource/portablesource/pkg/config"
	"github.com/portablesource/portablesource/pkg/download"
	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/i18n"
	"github.com/portablesource/portablesource/pkg/launcher"
	"github.com/portablesource/portablesource/pkg/manifest"
	"github.com/portablesource/portablesource/pkg/plan"
	"github.com/portablesource/portablesource/pkg/requirements"
	"github.com/portablesource/portablesource/pkg/updater"
	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

const (
	VenvDirName = "venv"
	// LibrariesMarker is written into the virtualenv once the plan has been installed.
	LibrariesMarker         = ".libraries_installed"
	DefaultRequirementsFile = "requirements.txt"

	totalSteps = 6
)

type Installer struct {
	Config     *config.Config
	Runner     shell.Runner
	Fs         afero.Fs
	Downloader *download.Downloader
	Localizer  *i18n.Localizer

	// Executable is the portablesource binary the facefusion launcher calls back into.
	Executable string
	// RequirementsFile is read from the checkout of apps that install their own requirements.
	RequirementsFile string
}

// Result describes a finished install.
type Result struct {
	App string `json:"app"`
	// Dir is the checkout the application runs from.
	Dir      string                 `json:"dir"`
	Venv     string                 `json:"venv"`
	Plan     *plan.InstallationPlan `json:"plan,omitempty"`
	Skipped  bool                   `json:"skipped"`
	Models   []string               `json:"models,omitempty"`
	Launcher string                 `json:"launcher"`
}

func New(cfg *config.Config, runner shell.Runner, downloader *download.Downloader, localizer *i18n.Localizer) *Installer {
	return &Installer{
		Config:           cfg,
		Runner:           runner,
		Fs:               afero.NewOsFs(),
		Downloader:       downloader,
		Localizer:        localizer,
		RequirementsFile: DefaultRequirementsFile,
	}
}

// Install installs m for hw. Running it again pulls the checkout and skips the packages
// already installed into the virtualenv.
func (i *Installer) Install(ctx context.Context, m *manifest.Manifest, hw hardware.Class) (*Result, error) {
	appDir := i.Config.AppDir(m.Name)
	res := &Result{
		App:  m.Name,
		Dir:  WorkDir(appDir, m),
		Venv: filepath.Join(appDir, VenvDirName),
	}
	console.Info(i.Localizer.Tf("detected_hardware", hw))

	console.Step(1, totalSteps, i.Localizer.Tf("cloning", m.URL))
	if err := i.checkout(ctx, appDir, m); err != nil {
		return nil, err
	}

	console.Step(2, totalSteps, i.Localizer.T("creating_venv"))
	if err := i.createVenv(ctx, appDir, res.Venv); err != nil {
		return nil, err
	}

	console.Step(3, totalSteps, i.Localizer.T("installing_packages"))
	p, skipped, err := i.installPackages(ctx, m, hw, res.Dir, res.Venv)
	if err != nil {
		return nil, err
	}
	res.Plan, res.Skipped = p, skipped

	console.Step(4, totalSteps, i.Localizer.T("downloading_models"))
	if len(m.Models) > 0 {
		res.Models, err = i.Downloader.All(ctx, m.Models, filepath.Join(res.Dir, m.ModelsDir))
		if err != nil {
			return nil, fmt.Errorf("Failed to download models for %s: %w", m.Name, err)
		}
	}

	opts := launcher.Options{Dir: res.Dir, Class: hw, Venv: res.Venv, Args: m.Command()}
	if m.BranchDirs && m.Name == updater.AppName {
		console.Step(5, totalSteps, i.Localizer.T("writing_updater"))
		opts.Dir = appDir
		opts.Program = i.Executable
		opts.Args = []string{"update-facefusion", "--root", i.Config.Root}
	} else {
		console.Step(5, totalSteps, i.Localizer.Tf("writing_launcher", launcher.FileName(i.Config.GOOS, hw)))
	}
	res.Launcher, err = launcher.Write(i.Fs, i.Config, opts)
	if err != nil {
		return nil, fmt.Errorf("Failed to write launcher for %s: %w", m.Name, err)
	}

	console.Step(6, totalSteps, i.Localizer.T("installed"))
	if err := i.Config.MarkInstalled(); err != nil {
		return nil, err
	}
	return res, nil
}

// WorkDir returns the checkout an application runs from. Apps with a directory per branch
// run from their main branch.
func WorkDir(appDir string, m *manifest.Manifest) string {
	if m.BranchDirs {
		if branches := m.Branches(); len(branches) > 0 {
			return filepath.Join(appDir, branches[0])
		}
	}
	return appDir
}

func (i *Installer) createVenv(ctx context.Context, appDir string, venv string) error {
	python := i.Config.VenvPython(venv)
	if ok, _ := afero.Exists(i.Fs, python); ok {
		console.Debugf("Using existing virtualenv %s", venv)
		return nil
	}
	if err := i.Runner.Run(ctx, appDir, i.Config.Python, "-m", "venv", venv); err != nil {
		return fmt.Errorf("Failed to create virtualenv: %w", err)
	}
	return nil
}

// installPackages resolves and runs the plan unless the virtualenv carries the marker.
func (i *Installer) installPackages(ctx context.Context, m *manifest.Manifest, hw hardware.Class, workDir string, venv string) (*plan.InstallationPlan, bool, error) {
	marker := filepath.Join(venv, LibrariesMarker)
	if ok, _ := afero.Exists(i.Fs, marker); ok {
		console.Info(i.Localizer.T("packages_already_installed"))
		return nil, true, nil
	}

	p, err := i.Plan(m, hw, workDir, venv)
	if err != nil {
		return nil, false, err
	}

	python := i.Config.VenvPython(venv)
	useUV := i.Config.UseUV && i.bootstrapUV(ctx, workDir, python)
	for n, step := range p.Steps {
		if step.Empty() {
			continue
		}
		if step.Kind == plan.RequirementsStep {
			if err := requirements.WriteRequirements(i.Fs, step.File, step.Requirements); err != nil {
				return nil, false, err
			}
		}
		if err := i.Runner.Run(ctx, workDir, python, PipArgs(python, useUV, step)...); err != nil {
			return nil, false, fmt.Errorf("Failed to install step %d (%s) of %s: %w", n+1, step.Kind, m.Name, err)
		}
	}

	if err := afero.WriteFile(i.Fs, marker, nil, 0o644); err != nil {
		return nil, false, err
	}
	return p, false, nil
}

// Plan returns the installation plan for m: the repository's requirements file first when
// the app installs it, then the catalog packages.
func (i *Installer) Plan(m *manifest.Manifest, hw hardware.Class, workDir string, venv string) (*plan.InstallationPlan, error) {
	p := &plan.InstallationPlan{App: m.Name, Class: hw, Steps: []plan.Step{}}
	if m.Requirements {
		file := filepath.Join(workDir, i.requirementsFile())
		if ok, _ := afero.Exists(i.Fs, file); ok {
			lines, err := requirements.ReadRequirements(i.Fs, file)
			if err != nil {
				return nil, err
			}
			opts := plan.DefaultOptions(i.Config.GOOS, filepath.Join(venv, DefaultRequirementsFile))
			rp, err := plan.ResolveRequirements(m.Name, lines, hw, opts)
			if err != nil {
				return nil, err
			}
			p.Append(rp)
		} else {
			console.Warnf("%s not found, installing only the declared packages", file)
		}
	}

	mp, err := plan.Resolve(m, hw)
	if err != nil {
		return nil, err
	}
	p.Append(mp)
	return p, nil
}

// bootstrapUV makes uv available in the virtualenv and reports whether it can be used.
func (i *Installer) bootstrapUV(ctx context.Context, dir string, python string) bool {
	if err := i.Runner.Run(ctx, dir, python, "-m", "uv", "--version"); err == nil {
		return true
	}
	if err := i.Runner.Run(ctx, dir, python, "-m", "pip", "install", "uv"); err != nil {
		console.Warnf("Could not install uv, falling back to pip: %s", err)
		return false
	}
	return true
}

// PipArgs returns the interpreter arguments that install step into python's environment.
func PipArgs(python string, useUV bool, step plan.Step) []string {
	args := []string{"-m", "pip", "install"}
	if useUV {
		args = []string{"-m", "uv", "pip", "install", "--python", python}
	}
	args = append(args, step.InstallArgs()...)
	if step.Reinstall {
		if useUV {
			args = append(args, "--reinstall", "--no-deps")
		} else {
			args = append(args, "--force-reinstall", "--no-deps")
		}
	}
	return args
}

func (i *Installer) requirementsFile() string {
	if i.RequirementsFile == "" {
		return DefaultRequirementsFile
	}
	return i.RequirementsFile
}
