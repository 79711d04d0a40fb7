// launching the server, storage, kafka, redis, postgres
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/bgremove/config"
	"github.com/ds124wfegd/bgremove/internal/database"
	"github.com/ds124wfegd/bgremove/internal/pkg/kafka"
	"github.com/ds124wfegd/bgremove/internal/pkg/storage"
	"github.com/ds124wfegd/bgremove/internal/service"
	"github.com/ds124wfegd/bgremove/internal/transport"
	"github.com/ds124wfegd/bgremove/internal/worker"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	if err := service.ValidatePresets(cfg.Presets); err != nil {
		logrus.Fatalf("invalid presets: %s", err.Error())
	}

	deps := openDependencies(cfg)
	defer deps.Close()

	fileStorage := storage.NewFileStorage(cfg.Storage.BasePath)
	imgRepo := database.NewImageRepository(fileStorage)
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()

	imgService := service.NewImageService(imgRepo, deps.cache, deps.history, kafkaProducer, cfg.Presets)
	imgHandler := transport.NewImageHandler(imgService, cfg.Presets[0].Name)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanup := worker.NewImageCleanupWorker(imgService, cfg.Worker.CleanupInterval, cfg.Worker.Retention)
	go cleanup.Start(ctx)

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(imgHandler, cfg.Server.RequestTimeout)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("addr", cfg.ServerAddress()).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
