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
	"sync/atomic"

	"jinr.ru/greenlab/go-adcsim/pkg/log"
	"jinr.ru/greenlab/go-adcsim/pkg/sim"
)

type job struct {
	fn   func(ctx context.Context, b *sim.Bench) error
	done chan error
}

func (s *Server) worker(ctx context.Context) error {
	log.Debug("Starting acquisition worker")
	for {
		select {
		case <-ctx.Done():
			log.Debug("Stopping acquisition worker")
			return nil
		case j := <-s.jobs:
			err := j.fn(ctx, s.bench)
			s.snapshot()
			j.done <- err
		}
	}
}

// submit runs fn on the worker and waits for it
func (s *Server) submit(ctx context.Context, fn func(ctx context.Context, b *sim.Bench) error) error {
	j := job{
		fn:   fn,
		done: make(chan error, 1),
	}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) tryBusy() bool {
	return atomic.CompareAndSwapInt32(&s.busy, 0, 1)
}

func (s *Server) release() {
	atomic.StoreInt32(&s.busy, 0)
}

func (s *Server) isBusy() bool {
	return atomic.LoadInt32(&s.busy) == 1
}
