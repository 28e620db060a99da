package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/metronome/parameter"
	"github.com/lixenwraith/metronome/status"
)

// newMetricsHandler exposes reg, labelled with the session, alongside Go runtime metrics
func newMetricsHandler(reg *status.Registry, session string) http.Handler {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		status.NewCollector(reg, parameter.MetricsNamespace, prometheus.Labels{"session": session}),
		collectors.NewGoCollector(),
	)

	mux := http.NewServeMux()
	mux.Handle(parameter.MetricsPath, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	return mux
}

// serveMetrics serves the metrics handler on addr until ctx is done
func serveMetrics(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: parameter.MetricsReadTimeout,
	}

	goSafe(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), parameter.MetricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics shutdown: %v", err)
		}
	})

	log.Printf("serving metrics on %s%s", addr, parameter.MetricsPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
