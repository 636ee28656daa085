// Package download fetches model weights over HTTP.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"

	"github.com/portablesource/portablesource/pkg/util"
	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/files"
)

const (
	// EnvConcurrency overrides how many files download at once.
	EnvConcurrency = "PORTABLESOURCE_DOWNLOAD_CONCURRENCY"

	defaultConcurrency = 4
	prefixLen          = 24
)

// StatusError is an unsuccessful HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Temporary reports whether retrying may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

type Downloader struct {
	Client *http.Client
	// Progress renders a bar per download when set.
	Progress *mpb.Progress
	// NewBackOff returns the retry policy for one download.
	NewBackOff  func() backoff.BackOff
	Concurrency int
}

func New(client *http.Client, progress *mpb.Progress) *Downloader {
	return &Downloader{
		Client:   client,
		Progress: progress,
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 2 * time.Second
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 5 * time.Minute
			return b
		},
		Concurrency: util.GetEnvOrDefault(EnvConcurrency, defaultConcurrency, strconv.Atoi),
	}
}

// FileName returns the name a URL is saved under.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("%s does not name a file", rawURL)
	}
	return name, nil
}

// Fetch downloads rawURL into dir and returns the file's path. An existing file is kept.
// Server errors and dropped connections are retried, client errors are not.
func (d *Downloader) Fetch(ctx context.Context, rawURL string, dir string) (string, error) {
	name, err := FileName(rawURL)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)
	exists, err := files.Exists(dest)
	if err != nil {
		return "", err
	}
	if exists {
		console.Debugf("%s already exists, skipping download", dest)
		return dest, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	part := dest + ".part"
	operation := func() error {
		return d.fetchOnce(ctx, rawURL, part, name)
	}
	notify := func(err error, wait time.Duration) {
		console.Debugf("Download of %s failed, retrying in %s: %s", name, wait, err)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(d.backOff(), ctx), notify); err != nil {
		_ = os.Remove(part)
		return "", fmt.Errorf("Failed to download %s: %w", rawURL, err)
	}
	if err := os.Rename(part, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (d *Downloader) fetchOnce(ctx context.Context, rawURL string, part string, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	resp, err := d.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		serr := &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
		if serr.Temporary() {
			return serr
		}
		return backoff.Permanent(serr)
	}

	out, err := os.Create(part)
	if err != nil {
		return backoff.Permanent(err)
	}
	defer out.Close()

	var body io.Reader = resp.Body
	var bar *mpb.Bar
	if d.Progress != nil {
		total := resp.ContentLength
		if total < 0 {
			total = 0
		}
		bar = d.Progress.New(total,
			mpb.BarStyle().Rbound("|"),
			mpb.PrependDecorators(
				decor.Name(prefix(name)+" "),
				decor.Counters(decor.SizeB1024(0), "% .2f / % .2f"),
			),
			mpb.AppendDecorators(
				decor.EwmaETA(decor.ET_STYLE_GO, 30),
				decor.Name(" ] "),
				decor.EwmaSpeed(decor.SizeB1024(0), "% .2f", 30),
			),
		)
		defer bar.Abort(false)
		proxy := bar.ProxyReader(resp.Body)
		defer proxy.Close()
		body = proxy
	}

	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	if bar != nil {
		bar.SetTotal(-1, true)
	}
	return out.Close()
}

// All downloads urls into dir concurrently and returns the paths in the order of urls.
func (d *Downloader) All(ctx context.Context, urls []string, dir string) ([]string, error) {
	paths := make([]string, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency())
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			p, err := d.Fetch(ctx, u, dir)
			paths[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (d *Downloader) client() *http.Client {
	if d.Client == nil {
		return http.DefaultClient
	}
	return d.Client
}

func (d *Downloader) backOff() backoff.BackOff {
	if d.NewBackOff == nil {
		return backoff.NewExponentialBackOff()
	}
	return d.NewBackOff()
}

func (d *Downloader) concurrency() int {
	if d.Concurrency < 1 {
		return defaultConcurrency
	}
	return d.Concurrency
}

func prefix(name string) string {
	if len(name) > prefixLen {
		name = name[:prefixLen]
	}
	return name + strings.Repeat(" ", prefixLen-len(name))
}
