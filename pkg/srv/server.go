/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-openapi/loads"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"jinr.ru/greenlab/go-adcsim/pkg/config"
	"jinr.ru/greenlab/go-adcsim/pkg/log"
	"jinr.ru/greenlab/go-adcsim/pkg/sim"
	"jinr.ru/greenlab/go-adcsim/pkg/store"
)

const (
	shutdownTimeout = 5 * time.Second
)

type Status struct {
	Phase   string `json:"phase"`
	Reading bool   `json:"reading"`
	Done    bool   `json:"done"`
	Cycle   uint64 `json:"cycle"`
	Seq     uint32 `json:"seq"`
	Busy    bool   `json:"busy"`
}

// Server exposes a simulated acquisition controller over HTTP. The bench
// belongs to the worker goroutine, handlers only talk to it through jobs.
type Server struct {
	context.Context
	*config.Config
	*mux.Router

	bench  *sim.Bench
	device string
	store  *store.Store
	doc    *loads.Document
	jobs   chan job

	// busy is set while an acquisition request is queued or running
	busy int32

	mu     sync.Mutex
	status Status
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	log.Info("Initializing API server with address: %s", cfg.ApiEndpoint())

	doc, err := loads.Analyzed(swaggerJSON, "")
	if err != nil {
		return nil, errors.Wrap(err, "could not load API description")
	}
	bench, err := sim.NewBenchFromConfig(cfg, nil)
	if err != nil {
		return nil, err
	}
	device := bench.Device().GetName()
	st, err := store.Open(cfg.DBPath, device)
	if err != nil {
		return nil, err
	}
	last, err := st.Last(device)
	if err != nil {
		st.Close()
		return nil, err
	}
	bench.SetSeq(last)

	s := &Server{
		Context: ctx,
		Config:  cfg,
		bench:   bench,
		device:  device,
		store:   st,
		doc:     doc,
		jobs:    make(chan job),
	}
	s.snapshot()
	s.configureRouter()
	return s, nil
}

// Handler returns the router wrapped with access logging and panic recovery
func (s *Server) Handler() http.Handler {
	return handlers.RecoveryHandler()(handlers.LoggingHandler(log.Writer(), s.Router))
}

// Run serves the API until the server context is cancelled
func (s *Server) Run() error {
	defer s.Close()
	g, ctx := errgroup.WithContext(s.Context)
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    s.ApiEndpoint(),
	}
	g.Go(func() error {
		return s.worker(ctx)
	})
	g.Go(func() error {
		log.Info("Starting API server: %s", s.ApiEndpoint())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "api server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Stopping API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) Close() error {
	return s.store.Close()
}

func (s *Server) getStatus() Status {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	status.Busy = s.isBusy()
	return status
}

// snapshot is only called by the goroutine owning the bench
func (s *Server) snapshot() {
	ctrl := s.bench.Controller()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Status{
		Phase:   ctrl.Phase().String(),
		Reading: ctrl.Reading(),
		Done:    ctrl.Done(),
		Cycle:   ctrl.Cycle(),
		Seq:     s.bench.Seq(),
	}
}
