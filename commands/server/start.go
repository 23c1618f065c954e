package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/barter/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// Options are the runtime settings passed to an AppGenerator.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
	// Registry collects the application metrics. It is served on the
	// metrics address when one is configured.
	Registry prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

type startArgs struct {
	bind    string
	metrics string
	debug   bool
}

func parseFlags(args []string) (startArgs, error) {
	var a startArgs
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&a.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.StringVar(&a.metrics, flagMetrics, "", "address the prometheus metrics are served on, empty to disable")
	startFlags.BoolVar(&a.debug, flagDebug, false, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return a, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return a, nil
}

// StartCmd initializes the application and runs the ABCI socket server
// until the process receives an interrupt.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	app, err := gen(&Options{
		Home:     home,
		Logger:   logger,
		Debug:    flags.debug,
		Registry: reg,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", flags.bind)
	svr, err := server.NewServer(flags.bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "cannot create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}
	defer svr.Stop()

	if flags.metrics != "" {
		msrv := metricsServer(flags.metrics, reg)
		go func() {
			if err := msrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "err", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = msrv.Shutdown(ctx)
		}()
		logger.Info("Serving metrics", "addr", flags.metrics)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	s := <-sig
	logger.Info("Shutting down", "signal", s.String())
	return nil
}

func metricsServer(addr string, g prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return &http.Server{Addr: addr, Handler: mux}
}
