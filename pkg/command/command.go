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

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"jinr.ru/greenlab/go-adcsim/pkg/config"
	"jinr.ru/greenlab/go-adcsim/pkg/log"
	"jinr.ru/greenlab/go-adcsim/pkg/sim"
	"jinr.ru/greenlab/go-adcsim/pkg/store"
)

// RunSimulation runs n acquisitions on a local bench and prints the
// published words of each. A VCD trace and a frame file are written if the
// config names them.
func RunSimulation(ctx context.Context, cfg *config.Config, n int, out io.Writer) (err error) {
	var vcd *sim.VCD
	if cfg.Sim.VCD != "" {
		f, ferr := os.Create(cfg.Sim.VCD)
		if ferr != nil {
			return errors.Wrap(ferr, "could not create trace file")
		}
		defer f.Close()
		if vcd, err = sim.NewVCD(f, cfg.Params(), sim.DefaultHalfPeriod); err != nil {
			return errors.Wrap(err, "could not write trace header")
		}
		defer func() {
			if cerr := vcd.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "could not write trace")
			}
		}()
	}

	var writer *store.Writer
	if cfg.Sim.Output != "" {
		if writer, err = store.NewWriter(cfg.Sim.Output); err != nil {
			return err
		}
		defer func() {
			if ferr := writer.Flush(); ferr != nil && err == nil {
				err = ferr
			}
		}()
	}

	var probe sim.Probe
	if vcd != nil {
		probe = vcd
	}
	bench, err := sim.NewBenchFromConfig(cfg, probe)
	if err != nil {
		return err
	}
	// a few idle cycles so the trace starts before the first start pulse
	bench.Idle(2)
	err = bench.Run(ctx, n, func(acq *sim.Acquisition) error {
		if writer != nil {
			if err := writer.Write(acq.Layer(cfg.Params())); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(out, "%d: cycles=%d data=%v\n", acq.Seq, acq.Cycles, acq.Data)
		return err
	})
	if err != nil {
		return err
	}
	log.Info("Simulated %d acquisitions in %d cycles", n, bench.Controller().Cycle())
	return nil
}
