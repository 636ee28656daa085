// Package doctor checks that an install root has the bundled tools, enough disk space and
// network access to the package indexes.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/portablesource/portablesource/pkg/config"
	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/util/files"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

type Status string

const (
	OK   Status = "ok"
	Warn Status = "warn"
	Fail Status = "fail"
	Skip Status = "skip"
)

const minFreeBytes = 20 * 1024 * 1024 * 1024 // 20GB

// Endpoints are the hosts an install talks to.
var Endpoints = []string{
	"https://github.com",
	"https://pypi.org/simple/",
	"https://download.pytorch.org/whl/",
	"https://huggingface.co",
}

type Check struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type Report struct {
	Host   hardware.HostInfo `json:"host"`
	Class  hardware.Class    `json:"class"`
	Checks []Check           `json:"checks"`
}

// OK reports whether no check failed.
func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if c.Status == Fail {
			return false
		}
	}
	return true
}

type Doctor struct {
	Config *config.Config
	Class  hardware.Class
	Client *http.Client
	// Endpoints defaults to the package Endpoints. An empty list skips network checks.
	Endpoints []string
	Timeout   time.Duration
	// FreeSpace reports free bytes at a path. Defaults to gopsutil.
	FreeSpace func(ctx context.Context, path string) (uint64, error)
}

func New(cfg *config.Config, class hardware.Class, client *http.Client) *Doctor {
	return &Doctor{
		Config:    cfg,
		Class:     class,
		Client:    client,
		Endpoints: Endpoints,
		Timeout:   5 * time.Second,
		FreeSpace: freeSpace,
	}
}

func (d *Doctor) Run(ctx context.Context) *Report {
	r := &Report{Class: d.Class}
	host, err := hardware.DescribeHost(ctx)
	r.Host = host
	if err != nil {
		r.add("host", Warn, err.Error())
	}

	if d.Config.Installed() {
		r.add("install root", OK, d.Config.Root)
	} else if empty, _ := files.IsEmpty(d.Config.Root); empty {
		r.add("install root", Warn, fmt.Sprintf("%s is empty, run portablesource install", d.Config.Root))
	} else {
		r.add("install root", Warn, fmt.Sprintf("%s has no %s", d.Config.Root, config.InstalledMarker))
	}

	r.addPath("git", d.Config.Git, Fail)
	r.addPath("python", d.Config.Python, Fail)
	r.addPath("ffmpeg", d.Config.FFmpeg, Warn)
	if d.Class.UsesCUDA() {
		r.addPath("CUDA", d.Config.CUDA, Warn)
	} else {
		r.add("CUDA", Skip, fmt.Sprintf("not needed on %s", d.Class))
	}

	if d.FreeSpace != nil {
		free, err := d.FreeSpace(ctx, d.Config.Root)
		switch {
		case err != nil:
			r.add("disk space", Warn, err.Error())
		case free < minFreeBytes:
			r.add("disk space", Warn, fmt.Sprintf("%d GB free, applications usually need 20 GB", free>>30))
		default:
			r.add("disk space", OK, fmt.Sprintf("%d GB free", free>>30))
		}
	}

	for _, url := range d.Endpoints {
		if err := shell.CheckReachable(ctx, d.Client, url, d.Timeout); err != nil {
			r.add(url, Warn, err.Error())
		} else {
			r.add(url, OK, "")
		}
	}
	return r
}

func (r *Report) add(name string, status Status, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Detail: detail})
}

func (r *Report) addPath(name string, path string, missing Status) {
	exists, err := files.Exists(path)
	switch {
	case err != nil:
		r.add(name, missing, err.Error())
	case !exists:
		r.add(name, missing, path+" not found")
	default:
		r.add(name, OK, path)
	}
}

func freeSpace(ctx context.Context, path string) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
