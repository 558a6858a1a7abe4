// File: internal/maincmd/probe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package maincmd

import (
	"context"
	"sort"
	"strings"

	"github.com/mna/mainer"
	"gopkg.in/yaml.v3"

	"github.com/momentics/osthread/control"
	"github.com/momentics/osthread/thread"
)

type probeReport struct {
	Running  map[string]any     `yaml:"running"`
	Finished map[string]any     `yaml:"finished"`
	Metrics  map[string]float64 `yaml:"metrics"`
}

// Probe starts the workers, dumps the debug probes while they run and
// again once they are joined, followed by the collected metrics.
func (c *Cmd) Probe(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if c.MetricsAddr != "" {
		stop, err := c.serveMetrics(stdio)
		if err != nil {
			return printError(stdio, err)
		}
		defer stop()
	}

	dp := control.NewDebugProbes()
	thread.RegisterProbes(dp)

	workers, err := c.startWorkers(ctx)
	if err != nil {
		return printError(stdio, err)
	}

	var r probeReport
	r.Running = dp.DumpState()
	for _, w := range workers {
		if err := w.th.Join(); err != nil {
			return printError(stdio, err)
		}
	}
	r.Finished = dp.DumpState()

	if r.Metrics, err = c.gatherMetrics(); err != nil {
		return printError(stdio, err)
	}

	enc := yaml.NewEncoder(stdio.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return printError(stdio, enc.Encode(r))
}

// gatherMetrics flattens the command's Prometheus registry into
// name{labels} keys. Histograms report their sample count.
func (c *Cmd) gatherMetrics() (map[string]float64, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)
			key := mf.GetName()
			if len(labels) > 0 {
				key += "{" + strings.Join(labels, ",") + "}"
			}

			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[key+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}
