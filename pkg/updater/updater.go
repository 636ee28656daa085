// Package updater switches a facefusion install between its master and next checkouts,
// updates the chosen one and starts it.
package updater

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/portablesource/portablesource/pkg/config"
	"github.com/portablesource/portablesource/pkg/i18n"
	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

const (
	AppName = "facefusion"
	Master  = "master"
	Next    = "next"
)

type Updater struct {
	Runner shell.Runner
	Git    string
	// Dir holds one checkout per branch and the shared virtualenv.
	Dir    string
	Python string
}

func New(cfg *config.Config, runner shell.Runner) *Updater {
	dir := cfg.AppDir(AppName)
	return &Updater{
		Runner: runner,
		Git:    cfg.Git,
		Dir:    dir,
		Python: cfg.VenvPython(filepath.Join(dir, "venv")),
	}
}

// BranchDir returns the checkout of branch.
func (u *Updater) BranchDir(branch string) string {
	return filepath.Join(u.Dir, branch)
}

// UpdateBranch discards local changes in the branch's checkout and rebases it onto origin.
func (u *Updater) UpdateBranch(ctx context.Context, branch string) error {
	dir := u.BranchDir(branch)
	for _, args := range [][]string{
		{"reset", "--hard"},
		{"checkout", branch},
		{"pull", "origin", branch, "--rebase"},
	} {
		if err := u.Runner.Run(ctx, dir, u.Git, args...); err != nil {
			return fmt.Errorf("Failed to update %s: %w", branch, err)
		}
	}
	return nil
}

// LaunchArgs returns the facefusion command line.
func LaunchArgs(webcam bool) []string {
	args := []string{"facefusion.py", "run", "--open-browser"}
	if webcam {
		args = append(args, "--ui-layouts", "webcam")
	}
	return args
}

// Launch starts facefusion from the branch's checkout and waits for it to exit.
func (u *Updater) Launch(ctx context.Context, branch string, webcam bool) error {
	return u.Runner.Run(ctx, u.BranchDir(branch), u.Python, LaunchArgs(webcam)...)
}

// ParseYesNo reads a yes/no answer in English or Russian. Anything but yes is no.
func ParseYesNo(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "да", "д":
		return true
	}
	return false
}

// Menu asks which branch to run, updates it, asks about webcam mode and launches it, until
// stdin is closed.
// Invalid choices are asked again.
type Menu struct {
	Updater   *Updater
	Localizer *i18n.Localizer
	In        io.Reader
	Out       io.Writer

	reader *bufio.Reader
}

func (m *Menu) read(question string) (string, error) {
	if m.reader == nil {
		in := m.In
		if in == nil {
			in = os.Stdin
		}
		m.reader = bufio.NewReader(in)
	}
	return console.Interactive{Prompt: prompt(question), In: m.reader, Out: m.Out}.Read()
}

// Choose returns the branch the user picked.
func (m *Menu) Choose() (string, error) {
	l := m.Localizer
	for {
		console.Output(l.T("choose_action"))
		console.Output(l.T("update_master"))
		console.Output(l.T("update_next"))
		choice, err := m.read(l.T("enter_choice"))
		if err != nil {
			return "", err
		}
		switch choice {
		case "1":
			return Master, nil
		case "2":
			return Next, nil
		}
		console.Warn(l.T("invalid_choice"))
	}
}

// Run shows the menu, launches the chosen branch and shows the menu again once facefusion
// exits. It returns nil when stdin is closed at the menu.
func (m *Menu) Run(ctx context.Context) error {
	for {
		branch, err := m.Choose()
		if errors.Is(err, console.ErrNoInput) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := m.Updater.UpdateBranch(ctx, branch); err != nil {
			return err
		}
		answer, err := m.read(m.Localizer.T("enable_webcam"))
		if err != nil && !errors.Is(err, console.ErrNoInput) {
			return err
		}
		if err := m.Updater.Launch(ctx, branch, ParseYesNo(answer)); err != nil {
			if ctx.Err() != nil {
				return err
			}
			console.Warnf("%s exited: %s", AppName, err)
		}
	}
}

func prompt(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ":")
}
