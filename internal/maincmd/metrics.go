// File: internal/maincmd/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package maincmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mna/mainer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveMetrics exposes the command's registry on c.MetricsAddr. The returned
// function shuts the server down.
func (c *Cmd) serveMetrics(stdio mainer.Stdio) (func(), error) {
	ln, err := net.Listen("tcp", c.MetricsAddr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		_ = server.Serve(ln)
	}()
	fmt.Fprintf(stdio.Stderr, "serving metrics on http://%s/metrics\n", ln.Addr())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
