// bgremove runs the configured background-removal jobs once and exits.
//
//	bgremove            # every job in config/config.yaml
//	bgremove vhi laya   # only the named jobs
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ds124wfegd/bgremove/config"
	"github.com/ds124wfegd/bgremove/internal/batch"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "./config"))
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	jobs, err := batch.Select(cfg.Jobs, os.Args[1:])
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := batch.NewRunner(logrus.StandardLogger()).RunAll(ctx, jobs); err != nil {
		logrus.Fatalf("background removal failed: %s", err.Error())
	}
}
