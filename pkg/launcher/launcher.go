// Package launcher writes the scripts that start an installed application with its
// environment: bundled tools on PATH, temporary files kept inside the app directory and
// CUDA variables on NVIDIA hosts.
package launcher

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/portablesource/portablesource/pkg/config"
	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/util/console"
)

const TmpDirName = "tmp"

//go:embed templates/*.tpl
var templatesFS embed.FS

var templates = template.Must(template.New("launcher").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templatesFS, "templates/*.tpl"))

type Options struct {
	// Dir is the application directory. The launcher and tmp/ are created in it.
	Dir   string
	Class hardware.Class
	Venv  string
	// Program defaults to the virtualenv's python.
	Program string
	Args    []string
}

type data struct {
	Tmp      string
	Path     []string
	CUDAPath string
	Command  string
}

// FileName returns the launcher's name on goos, e.g. start_nvidia.bat.
func FileName(goos string, class hardware.Class) string {
	if goos == "windows" {
		return fmt.Sprintf("start_%s.bat", string(class))
	}
	return "start.sh"
}

// Render returns the launcher's file name and contents.
func Render(cfg *config.Config, opts Options) (string, string, error) {
	program := opts.Program
	if program == "" {
		program = cfg.VenvPython(opts.Venv)
	}
	d := data{
		Tmp:     filepath.Join(opts.Dir, TmpDirName),
		Command: command(program, opts.Args...),
	}
	if opts.Class.UsesCUDA() {
		d.Path = append(d.Path, cfg.CUDADirs()...)
		d.CUDAPath = cfg.CUDA
	}
	d.Path = append(d.Path, cfg.GitDir(), cfg.VenvScripts(opts.Venv), cfg.FFmpeg)

	name := FileName(cfg.GOOS, opts.Class)
	tpl := "start.sh.tpl"
	if cfg.GOOS == "windows" {
		tpl = "start.bat.tpl"
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tpl, d); err != nil {
		return "", "", err
	}
	contents := buf.String()
	if cfg.GOOS == "windows" {
		contents = strings.ReplaceAll(contents, "\n", "\r\n")
	}
	return name, contents, nil
}

// Write renders the launcher into opts.Dir, creates its tmp directory and returns its path.
func Write(fs afero.Fs, cfg *config.Config, opts Options) (string, error) {
	name, contents, err := Render(cfg, opts)
	if err != nil {
		return "", err
	}
	if err := fs.MkdirAll(filepath.Join(opts.Dir, TmpDirName), 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(opts.Dir, name)
	if err := afero.WriteFile(fs, path, []byte(contents), 0o755); err != nil {
		return "", err
	}
	console.Debugf("Wrote %s", path)
	return path, nil
}

func command(program string, args ...string) string {
	parts := []string{`"` + program + `"`}
	for _, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
