// launching the server, storage, kafka
package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/config"
	"github.com/ds124wfegd/cardforge/internal/database"
	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/kafka"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
	"github.com/ds124wfegd/cardforge/internal/pkg/storage"
	"github.com/ds124wfegd/cardforge/internal/service"
	"github.com/ds124wfegd/cardforge/internal/transport"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Components are the shared building blocks of the server, the worker and the CLI.
type Components struct {
	Store     storage.ObjectStore
	Assets    database.AssetRepository
	Cards     database.CardRepository
	Template  render.Template
	Renderer  *render.Renderer
	Lookup    processor.AssetLookup
	Processor processor.CardProcessor

	redis *redis.Client
}

func NewComponents(ctx context.Context, cfg *config.Config) (*Components, error) {
	tpl, ok := render.TemplateByName(cfg.Render.Template)
	if !ok {
		return nil, fmt.Errorf("unknown render template %q: %w", cfg.Render.Template, entity.ErrInvalidInput)
	}

	c := &Components{Template: tpl}
	switch cfg.Storage.Backend {
	case "redis":
		client, err := storage.NewRedisClient(ctx, storage.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, err
		}
		c.redis = client
		c.Store = storage.NewRedisStorage(client, cfg.Redis.KeyPrefix)
	default:
		c.Store = storage.NewFileStorage(cfg.Storage.Path)
	}

	c.Assets = database.NewAssetRepository(c.Store)
	c.Cards = database.NewCardRepository(c.Store)
	c.Renderer = render.NewRenderer(tpl)
	c.Lookup = processor.NewAssetLookup(c.Assets)
	c.Processor = processor.NewCardProcessor(c.Cards, c.Lookup, c.Renderer, logrus.WithField("component", "processor"))

	logrus.WithFields(logrus.Fields{
		"storage":  cfg.Storage.Backend,
		"template": tpl.Name,
	}).Info("components ready")
	return c, nil
}

func (c *Components) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

// NewRouter wires services and handlers on top of the components.
func NewRouter(cfg *config.Config, c *Components, producer kafka.Producer) *gin.Engine {
	cards := service.NewCardService(c.Cards, producer, c.Processor, c.Template)
	handler := transport.NewHandler(
		service.NewAssetService(c.Assets),
		cards,
		service.NewExportService(c.Cards, cards, c.Renderer, c.Lookup, service.ExportDefaults{
			Sidecars: cfg.Export.Sidecars,
			UseCache: cfg.Export.UseCache,
		}),
	)
	return transport.InitRoutes(handler)
}

// NewServer runs the HTTP API until SIGINT or SIGTERM.
func NewServer(cfg *config.Config) error {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	ctx := context.Background()
	components, err := NewComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	producer := kafka.NewProducer(kafka.Config{
		Enabled: cfg.Kafka.Enabled,
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	}, func(ctx context.Context, task entity.RenderTask) {
		processor.HandleTask(ctx, components.Processor, task)
	})

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Run(cfg, NewRouter(cfg, components, producer)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logrus.WithField("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)).Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-quit:
	case err := <-errCh:
		producer.Close()
		return fmt.Errorf("http server: %w", err)
	}

	logrus.Info("App Shutting Down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
	// drains queued in-process render tasks
	if err := producer.Close(); err != nil {
		logrus.WithError(err).Error("closing render task producer")
	}
	return nil
}
