package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gfpop-go/gfpop/internal/log"
	"github.com/gfpop-go/gfpop/internal/storage"
	"github.com/gfpop-go/gfpop/pkg/config"
)

// Controller is the HTTP job API: submit a segmentation job synchronously
// and fetch a previously persisted result.
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	cfg      config.ServerData
	store    *storage.Client
	Server   http.Server
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController builds a ready-to-serve Controller.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg config.ServerData, store *storage.Client, logger *zap.SugaredLogger) *Controller {
	c := &Controller{ctx: ctx, wg: wg, cfg: cfg, store: store, logger: logger}
	c.handlers = NewHandlers(c)

	router := mux.NewRouter()
	router.Use(c.accessLogMiddleware)
	router.Use(c.authMiddleware)
	router.HandleFunc("/jobs", c.handlers.SubmitJob).Methods(http.MethodPost)
	router.HandleFunc("/jobs/{id}", c.handlers.GetJob).Methods(http.MethodGet)

	var h http.Handler = router
	if cfg.EnableCORS {
		h = handlers.CORS(handlers.AllowedOrigins([]string{"*"}))(h)
	}

	c.Server.Addr = fmt.Sprintf("%s:%d", cfg.ListenAddr, cfg.Port)
	c.Server.Handler = h
	return c
}

// Start runs the HTTP server until the controller's context is canceled.
func (c *Controller) Start() error {
	log.Info("starting gfpop job API on", c.Server.Addr)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		var err error
		if c.cfg.Cert != "" && c.cfg.Key != "" {
			err = c.Server.ListenAndServeTLS(c.cfg.Cert, c.cfg.Key)
		} else {
			err = c.Server.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			log.Errorf("job API server error: %v", err)
		}
	}()
	go func() {
		<-c.ctx.Done()
		log.Info("shutting down the gfpop job API...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()
	return nil
}

func (c *Controller) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		c.logger.Infow("request",
			"method", r.Method, "path", r.URL.Path,
			"status", m.Code, "duration", m.Duration, "bytes", m.Written)
	})
}

func (c *Controller) authMiddleware(next http.Handler) http.Handler {
	if c.cfg.AuthToken == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+c.cfg.AuthToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
