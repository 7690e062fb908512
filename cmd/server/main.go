package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/migueltaller/Commagra-Planing/internal/config"
	"github.com/migueltaller/Commagra-Planing/internal/serverapp"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load("commagra.yml")
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("build server")
	}

	logger.WithField("addr", cfg.Addr).Info("listening")
	logger.Fatal(http.ListenAndServe(cfg.Addr, handler))
}
