package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/portablesource/portablesource/pkg/manifest"
	"github.com/portablesource/portablesource/pkg/util/console"
)

// checkout clones m into appDir, or pulls an existing clone. Apps with a directory per
// branch get one clone per branch. Extra branches are best-effort.
func (i *Installer) checkout(ctx context.Context, appDir string, m *manifest.Manifest) error {
	if err := i.Fs.MkdirAll(appDir, 0o755); err != nil {
		return err
	}
	if !m.BranchDirs {
		if err := i.cloneOrPull(ctx, appDir, m.URL, m.Branch); err != nil {
			return err
		}
		for _, branch := range m.ExtraBranches {
			if err := i.Runner.Run(ctx, appDir, i.Config.Git, "fetch", "origin", branch); err != nil {
				console.Warnf("Could not fetch branch %s of %s: %s", branch, m.Name, err)
			}
		}
		return nil
	}

	for n, branch := range m.Branches() {
		err := i.cloneOrPull(ctx, filepath.Join(appDir, branch), m.URL, branch)
		if err == nil {
			continue
		}
		if n == 0 {
			return err
		}
		console.Warnf("Could not check out branch %s of %s: %s", branch, m.Name, err)
	}
	return nil
}

func (i *Installer) cloneOrPull(ctx context.Context, dir string, url string, branch string) error {
	if ok, _ := afero.DirExists(i.Fs, filepath.Join(dir, ".git")); ok {
		console.Info(i.Localizer.Tf("updating", dir))
		if err := i.Runner.Run(ctx, dir, i.Config.Git, "pull"); err != nil {
			return fmt.Errorf("Failed to update %s: %w", dir, err)
		}
		return nil
	}

	args := []string{"clone"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dir)
	if err := i.Runner.Run(ctx, filepath.Dir(dir), i.Config.Git, args...); err != nil {
		return fmt.Errorf("Failed to clone %s: %w", url, err)
	}
	return nil
}
