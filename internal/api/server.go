// Package api exposes the cached reports over a small read-only HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// MarketReporter returns the last market report.
type MarketReporter interface {
	Get() (string, bool)
}

// GasReporter returns the gas report, refreshing it when stale.
type GasReporter interface {
	Get(ctx context.Context) (string, error)
}

type Server struct {
	srv *http.Server
	log *logrus.Entry
}

func NewServer(addr string, market MarketReporter, gas GasReporter, log *logrus.Entry) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(market, gas, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

func NewRouter(market MarketReporter, gas GasReporter, log *logrus.Entry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/market", func(c *gin.Context) {
			text, ok := market.Get()
			if !ok {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data not available yet"})
				return
			}
			c.String(http.StatusOK, text)
		})

		api.GET("/gas", func(c *gin.Context) {
			text, err := gas.Get(c.Request.Context())
			if err != nil {
				log.WithError(err).Warn("gas report failed")
				c.JSON(http.StatusBadGateway, gin.H{"error": "gas prices unavailable"})
				return
			}
			c.String(http.StatusOK, text)
		})
	}

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.srv.Addr).Info("status api listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
