package doctor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/portablesource/portablesource/pkg/config"
	"github.com/portablesource/portablesource/pkg/hardware"
)

func details(r *Report) map[string]string {
	out := map[string]string{}
	for _, c := range r.Checks {
		out[c.Name] = c.Detail
	}
	return out
}

func statuses(r *Report) map[string]Status {
	out := map[string]Status{}
	for _, c := range r.Checks {
		out[c.Name] = c.Status
	}
	return out
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o755))
}

func TestRunMissingTools(t *testing.T) {
	cfg := config.New(t.TempDir(), "linux")
	d := New(cfg, hardware.NVIDIA, nil)
	d.Endpoints = nil
	d.FreeSpace = func(ctx context.Context, path string) (uint64, error) {
		return 5 << 30, nil
	}

	r := d.Run(context.Background())
	require.False(t, r.OK())
	s := statuses(r)
	require.Equal(t, Warn, s["install root"])
	require.Contains(t, details(r)["install root"], "is empty")
	require.Equal(t, Fail, s["git"])
	require.Equal(t, Fail, s["python"])
	require.Equal(t, Warn, s["ffmpeg"])
	require.Equal(t, Warn, s["CUDA"])
	require.Equal(t, Warn, s["disk space"])
}

func TestRunHealthyInstall(t *testing.T) {
	root := t.TempDir()
	cfg := config.New(root, "linux")
	touch(t, cfg.Git)
	touch(t, cfg.Python)
	require.NoError(t, os.MkdirAll(cfg.FFmpeg, 0o755))
	require.NoError(t, cfg.MarkInstalled())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	d := New(cfg, hardware.DirectML, server.Client())
	d.Endpoints = []string{server.URL}
	d.Timeout = time.Second
	d.FreeSpace = func(ctx context.Context, path string) (uint64, error) {
		return 100 << 30, nil
	}

	r := d.Run(context.Background())
	require.True(t, r.OK())
	s := statuses(r)
	require.Equal(t, OK, s["install root"])
	require.Equal(t, OK, s["git"])
	require.Equal(t, OK, s["ffmpeg"])
	require.Equal(t, Skip, s["CUDA"])
	require.Equal(t, OK, s["disk space"])
	require.Equal(t, OK, s[server.URL])
	require.Equal(t, hardware.DirectML, r.Class)
}

func TestRunUnreachableEndpoint(t *testing.T) {
	cfg := config.New(t.TempDir(), "linux")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	d := New(cfg, hardware.CPU, nil)
	d.Endpoints = []string{url}
	d.Timeout = time.Second
	d.FreeSpace = func(ctx context.Context, path string) (uint64, error) {
		return 0, errors.New("no such device")
	}
	s := statuses(d.Run(context.Background()))
	require.Equal(t, Warn, s[url])
	require.Equal(t, Warn, s["disk space"])
}
