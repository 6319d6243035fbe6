package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/c9s/chartsync/pkg/engine"
	"github.com/c9s/chartsync/pkg/stream"
)

const DefaultBindAddress = ":8080"

var log = logrus.WithField("component", "server")

type Server struct {
	Registry *engine.Registry

	// Publisher is used by the publish endpoint, it is nil when the stream
	// source can not be published to
	Publisher stream.Publisher

	// ctx bounds the lifetime of the streams opened by the chart engines
	ctx context.Context
	srv *http.Server
}

func New(ctx context.Context, registry *engine.Registry, publisher stream.Publisher) *Server {
	return &Server{
		Registry:  registry,
		Publisher: publisher,
		ctx:       ctx,
	}
}

func (s *Server) newEngine() *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowWebSockets:  true,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/api/charts", s.listCharts)
	r.POST("/api/charts/reset", s.resetCharts)
	r.POST("/api/charts/:id", s.createChart)
	r.GET("/api/charts/:id", s.getChart)
	r.DELETE("/api/charts/:id", s.removeChart)
	r.PUT("/api/charts/:id/config", s.updateChartConfig)
	r.PUT("/api/charts/:id/visible-range", s.setVisibleRange)
	r.POST("/api/charts/:id/visibility", s.toggleVisibility)
	r.POST("/api/charts/:id/reset", s.resetChart)
	r.GET("/api/charts/:id/plot.png", s.plotChart)

	r.POST("/api/streams/publish", s.publish)
	return r
}

// Handler returns the http handler of the api, it is used by tests.
func (s *Server) Handler() http.Handler {
	return s.newEngine()
}

// Run serves the api until ctx is done.
func (s *Server) Run(ctx context.Context, bind string) error {
	if len(bind) == 0 {
		bind = DefaultBindAddress
	}

	s.srv = &http.Server{
		Addr:    bind,
		Handler: s.newEngine(),
	}

	errC := make(chan error, 1)
	go func() {
		log.Infof("api server listening on %s", bind)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err

	case <-ctx.Done():
	}

	log.Info("shutting down api server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return err
	}

	log.Info("api server shutdown completed")
	return nil
}
