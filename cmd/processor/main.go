package main

import (
	"strings"

	"github.com/ds124wfegd/bgremove/config"
	"github.com/ds124wfegd/bgremove/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "./config"))
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	if brokers := config.GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}

	appServer.NewProcessor(cfg)
}
