// File: internal/maincmd/maincmd.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// threadctl command line: flag parsing, configuration and command dispatch.

package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mna/mainer"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/control"
	"github.com/momentics/osthread/logging"
	"github.com/momentics/osthread/thread"
)

const binName = "threadctl"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command>
       %[1]s -h|--help
       %[1]s -v|--version

Inspect and exercise native threads with portable priorities.

The <command> can be one of:
       info                      Print the platform, processor count,
                                 priority table and effective
                                 configuration.
       run                       Start worker threads that sleep then
                                 publish a value, polling each with a
                                 bounded join until it finishes.
       probe                     Start worker threads and print the
                                 debug probes and collected metrics
                                 as YAML.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -c --config PATH          Load configuration from a YAML file.
                                 OSTHREAD_* environment variables
                                 override it.
       --log-level LEVEL         Log level: debug, info, warn or error.

Valid flag options for the <run> and <probe> commands are:
       -p --priority LEVEL       Priority of the workers: lowest, low,
                                 normal, high, highest or time-critical.
       -n --threads N            Number of workers (default 1).
       --sleep DURATION          Time each worker sleeps (default 1s).
       --poll DURATION           Bounded join interval (default 100ms).
       --cpus LIST               Comma-separated CPUs to pin workers to.
       --metrics-addr ADDR       Serve Prometheus metrics on ADDR at
                                 /metrics while the workers run.
`, binName)
)

// Cmd is the threadctl command.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Config   string `flag:"c,config"`
	LogLevel string `flag:"log-level"`

	Priority string `flag:"p,priority"`
	Threads  string `flag:"n,threads"`
	Sleep    string `flag:"sleep"`
	Poll     string `flag:"poll"`
	CPUs     string `flag:"cpus"`

	MetricsAddr string `flag:"metrics-addr"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error

	cfg      control.Config
	workers  workerOptions
	registry *prometheus.Registry
}

type workerOptions struct {
	opts    thread.Options
	threads int
	sleep   time.Duration
	poll    time.Duration
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(c.args) > 1 {
		return fmt.Errorf("%s: unexpected arguments: %s", cmdName, strings.Join(c.args[1:], " "))
	}

	if cmdName != "run" && cmdName != "probe" {
		if f := c.workerFlag(); f != "" {
			return fmt.Errorf("%s: invalid flag '%s'", cmdName, f)
		}
		return nil
	}

	w, err := c.parseWorkers()
	if err != nil {
		return fmt.Errorf("%s: %w", cmdName, err)
	}
	c.workers = w
	return nil
}

// workerFlag returns the name of a worker flag that was set, if any.
func (c *Cmd) workerFlag() string {
	switch {
	case c.Priority != "":
		return "priority"
	case c.Threads != "":
		return "threads"
	case c.Sleep != "":
		return "sleep"
	case c.Poll != "":
		return "poll"
	case c.CPUs != "":
		return "cpus"
	case c.MetricsAddr != "":
		return "metrics-addr"
	}
	return ""
}

func (c *Cmd) parseWorkers() (workerOptions, error) {
	w := workerOptions{
		opts:    thread.DefaultOptions(),
		threads: 1,
		sleep:   time.Second,
		poll:    100 * time.Millisecond,
	}
	if c.Priority != "" {
		p, err := api.ParsePriority(c.Priority)
		if err != nil {
			return w, err
		}
		w.opts = w.opts.WithPriority(p)
	}
	if c.Threads != "" {
		n, err := strconv.Atoi(c.Threads)
		if err != nil || n < 1 {
			return w, fmt.Errorf("invalid thread count: %q", c.Threads)
		}
		w.threads = n
	}
	var err error
	if w.sleep, err = parseDuration("sleep", c.Sleep, w.sleep, 0); err != nil {
		return w, err
	}
	if w.poll, err = parseDuration("poll", c.Poll, w.poll, time.Millisecond); err != nil {
		return w, err
	}
	if c.CPUs != "" {
		cpus, err := parseCPUs(c.CPUs)
		if err != nil {
			return w, err
		}
		w.opts = w.opts.WithCPUs(cpus...)
	}
	return w, nil
}

func parseDuration(name, s string, def, min time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", name, err)
	}
	if d < min {
		return 0, fmt.Errorf("invalid %s duration: must be at least %s", name, min)
	}
	return d, nil
}

func parseCPUs(s string) ([]int, error) {
	var cpus []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid cpu: %q", f)
		}
		cpus = append(cpus, n)
	}
	if len(cpus) == 0 {
		return nil, fmt.Errorf("invalid cpu list: %q", s)
	}
	return cpus, nil
}

// configure loads the configuration and installs logging and metrics.
func (c *Cmd) configure(stdio mainer.Stdio) (control.Config, error) {
	cfg := control.DefaultConfig()
	if c.Config != "" {
		var err error
		if cfg, err = control.LoadConfigFile(c.Config); err != nil {
			return cfg, err
		}
	}
	cfg, err := control.ApplyEnv(cfg)
	if err != nil {
		return cfg, err
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}

	logger, err := logging.NewText(stdio.Stderr, cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	if err := thread.Configure(cfg); err != nil {
		return cfg, err
	}
	thread.SetLogger(logger)

	c.registry = prometheus.NewRegistry()
	collector, err := control.NewPrometheus(c.registry, cfg.MetricsNamespace)
	if err != nil {
		return cfg, err
	}
	thread.SetMetrics(collector)
	return cfg, nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	cfg, err := c.configure(stdio)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "configuration: %s\n", err)
		return mainer.InvalidArgs
	}
	c.cfg = cfg

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command prints its own errors
		return mainer.Failure
	}
	return mainer.Success
}

// valid commands are those that take a mainer.Stdio and a slice of strings as
// input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// receiver plus three parameters, one result
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
