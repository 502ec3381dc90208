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

package sim

import (
	"github.com/pkg/errors"

	"jinr.ru/greenlab/go-adcsim/pkg/adc"
	"jinr.ru/greenlab/go-adcsim/pkg/config"
	"jinr.ru/greenlab/go-adcsim/pkg/device/ltc2320"
)

// NewBenchFromConfig wires a controller and a simulated converter the way
// the config describes them.
func NewBenchFromConfig(cfg *config.Config, probe Probe) (*Bench, error) {
	p := cfg.Params()
	ctrl, err := adc.NewController(p)
	if err != nil {
		return nil, errors.Wrap(err, "invalid adc configuration")
	}
	dev, err := ltc2320.New(cfg.Device.Name, p)
	if err != nil {
		return nil, err
	}
	if len(cfg.Device.Inputs) > 0 {
		if err := dev.SetInputs(cfg.Device.Inputs); err != nil {
			return nil, errors.Wrap(err, "invalid device inputs")
		}
	}
	return NewBench(ctrl, dev, Options{
		ReturnDelay: cfg.Sim.ReturnDelay,
		MaxCycles:   cfg.Sim.MaxCycles,
		Probe:       probe,
	})
}
