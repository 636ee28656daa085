package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

func testDownloader() *Downloader {
	d := New(nil, nil)
	d.NewBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}
	return d
}

func TestFileName(t *testing.T) {
	name, err := FileName("https://huggingface.co/hacksider/deep-live-cam/resolve/main/GFPGANv1.4.pth?download=true")
	require.NoError(t, err)
	require.Equal(t, "GFPGANv1.4.pth", name)

	_, err = FileName("https://example.com/")
	require.Error(t, err)
}

func TestFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("weights"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "models")
	d := testDownloader()
	path, err := d.Fetch(context.Background(), server.URL+"/models/inswapper_128_fp16.onnx", dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "inswapper_128_fp16.onnx"), path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "weights", string(contents))
	_, err = os.Stat(path + ".part")
	require.True(t, os.IsNotExist(err))

	_, err = d.Fetch(context.Background(), server.URL+"/models/inswapper_128_fp16.onnx", dir)
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	path, err := testDownloader().Fetch(context.Background(), server.URL+"/updater.py", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, int32(3), hits.Load())
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "ok", string(contents))
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	_, err := testDownloader().Fetch(context.Background(), server.URL+"/missing.onnx", dir)
	require.Error(t, err)
	require.Equal(t, int32(1), hits.Load())

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, http.StatusNotFound, serr.StatusCode)
	require.False(t, serr.Temporary())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testDownloader().Fetch(context.Background(), server.URL+"/flaky.bin", t.TempDir())
	require.Error(t, err)
	require.Equal(t, int32(4), hits.Load())
}

func TestAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer server.Close()

	dir := t.TempDir()
	urls := []string{server.URL + "/a.pth", server.URL + "/b.onnx", server.URL + "/c.bin"}
	d := testDownloader()
	d.Concurrency = 2
	paths, err := d.All(context.Background(), urls, dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.pth"),
		filepath.Join(dir, "b.onnx"),
		filepath.Join(dir, "c.bin"),
	}, paths)

	contents, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Equal(t, "/b.onnx", string(contents))
}
