// Package app wires the job API and the batch ingestion listener into a
// single running service, on either dedicated ports or one shared port.
package app

import (
	"context"
	"net"
	"sync"

	"github.com/soheilhy/cmux"
	"go.uber.org/zap"

	"github.com/gfpop-go/gfpop/internal/ingest"
	"github.com/gfpop-go/gfpop/internal/log"
	"github.com/gfpop-go/gfpop/internal/storage"
	"github.com/gfpop-go/gfpop/pkg/config"
	"github.com/gfpop-go/gfpop/pkg/server"
)

// App owns the job API controller, the optional batch ingestion listener,
// and the result store they both depend on.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cfg            config.ServerData
	httpController *server.Controller
	store          *storage.Client
	logger         *zap.SugaredLogger
}

// New builds an App from configuration. provider supplies server settings;
// store is the already-opened result repository.
func New(provider config.ConfigProvider, store *storage.Client, logger *zap.SugaredLogger) (*App, error) {
	cfg, err := provider.GetServerConfig()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{ctx: ctx, cancel: cancel, cfg: *cfg, store: store, logger: logger}
	a.httpController = server.NewController(ctx, &a.wg, *cfg, store, logger)
	return a, nil
}

// Run starts the job API and, when ingestion is enabled, the batch
// ingestion listener on its own port, using the full gnet-driven
// internal/ingest.Server for its event loop.
func (a *App) Run() error {
	if err := a.httpController.Start(); err != nil {
		return err
	}
	if a.cfg.IngestEnabled {
		srv := ingest.NewServer("tcp://"+a.cfg.ListenAddr, a.cfg.MaxFrameBytes, a.logger)
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := srv.Run(); err != nil {
				log.Errorf("ingest server error: %v", err)
			}
		}()
	}
	<-a.ctx.Done()
	return nil
}

// RunShared starts the job API and the batch ingestion protocol behind a
// single listener on addr, using cmux to route each accepted connection by
// its first bytes: HTTP/1.1 requests go to the job API, everything else is
// treated as a raw batch frame. gnet's event loop wants to own its listening
// socket outright and cannot adopt a cmux sub-listener, so the shared-port
// ingest path runs through ingest.FramedServer (one goroutine per
// connection) rather than through the higher-throughput gnet-driven
// ingest.Server that Run uses for the dedicated-port case.
func (a *App) RunShared(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	m := cmux.New(l)
	httpL := m.Match(cmux.HTTP1Fast())
	ingestL := m.Match(cmux.Any())

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.httpController.Server.Serve(httpL)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		srv := ingest.NewFramedServer(ingestL, a.logger)
		if err := srv.Serve(); err != nil {
			log.Errorf("shared-port ingest listener error: %v", err)
		}
	}()

	return m.Serve()
}

// Shutdown cancels the App's context, stopping every component that selects
// on it.
func (a *App) Shutdown() {
	a.cancel()
	a.wg.Wait()
}
