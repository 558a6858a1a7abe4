// File: internal/maincmd/info.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package maincmd

import (
	"context"
	"runtime"

	"github.com/mna/mainer"
	"gopkg.in/yaml.v3"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/control"
	"github.com/momentics/osthread/internal/concurrency"
	"github.com/momentics/osthread/thread"
)

type levelInfo struct {
	Name   string `yaml:"name"`
	Native int    `yaml:"native"`
}

type infoReport struct {
	OS                  string         `yaml:"os"`
	Arch                string         `yaml:"arch"`
	HardwareConcurrency uint           `yaml:"hardwareConcurrency"`
	MainThread          thread.ID      `yaml:"mainThread"`
	MainPriority        string         `yaml:"mainPriority"`
	Priorities          []levelInfo    `yaml:"priorities"`
	Config              control.Config `yaml:"config"`
}

func (c *Cmd) Info(ctx context.Context, stdio mainer.Stdio, args []string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r := infoReport{
		OS:                  runtime.GOOS,
		Arch:                runtime.GOARCH,
		HardwareConcurrency: thread.HardwareConcurrency(),
		MainThread:          thread.CurrentID(),
		Config:              c.cfg,
	}
	if p, err := thread.CurrentPriority(); err != nil {
		r.MainPriority = "unavailable: " + err.Error()
	} else {
		r.MainPriority = p.String()
	}
	for _, p := range api.Priorities() {
		r.Priorities = append(r.Priorities, levelInfo{Name: p.String(), Native: concurrency.NativeLevel(p)})
	}

	enc := yaml.NewEncoder(stdio.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return printError(stdio, enc.Encode(r))
}
