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

package adc

import (
	"jinr.ru/greenlab/go-adcsim/pkg/log"
)

// Controller is the acquisition core for a multi lane, multi channel,
// triggered, source synchronous serial ADC such as the LTC2320-16.
//
// It owns two clock domains. Tick advances the controller clock: state
// machine, counter, clock synthesizer and publisher. Return().Clock advances
// the return clock domain recovered from CLKOUT. There is no synchronizer
// between them, the RTT phase is sized by the integrator to cover the round
// trip delay. An undersized TRtt silently corrupts the last bits of a
// transfer.
type Controller struct {
	params Params

	phase Phase
	count Counter
	synth ClockSynth
	start bool
	cycle uint64

	ret *ReturnDomain
	pub *Publisher
}

// NewController validates p and returns an idle controller.
func NewController(p Params) (*Controller, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	log.Debug("Initializing ADC controller: %s read duration: %d", p, p.ReadDuration())
	return &Controller{
		params: p,
		phase:  PhaseIdle,
		synth:  NewClockSynth(),
		ret:    NewReturnDomain(p),
		pub:    NewPublisher(p.Channels, p.Width),
	}, nil
}

// Params returns the parameters the controller was built with
func (c *Controller) Params() Params {
	return c.params
}

// Phase returns the current state
func (c *Controller) Phase() Phase {
	return c.phase
}

// Count returns the counter value
func (c *Controller) Count() int {
	return c.count.Value()
}

// Cycle returns the number of controller cycles since construction
func (c *Controller) Cycle() uint64 {
	return c.cycle
}

// SetStart drives the start input. It is sampled on the next Tick and only
// has an effect in IDLE.
func (c *Controller) SetStart(start bool) {
	c.start = start
}

// Done is high in IDLE: data is valid and a new conversion can be started.
func (c *Controller) Done() bool {
	return c.phase == PhaseIdle
}

// Reading is high while data is being read, the outputs are not yet updated.
func (c *Controller) Reading() bool {
	return c.phase == PhaseRead || c.phase == PhaseRtt
}

// Convert is the level of the convert start line.
func (c *Controller) Convert() bool {
	return c.phase == PhaseCnvh
}

// ClockEnable gates the clock synthesizer. It is high during READ only.
func (c *Controller) ClockEnable() bool {
	return c.phase == PhaseRead
}

// Update is high for exactly one cycle, the last cycle of RTT.
func (c *Controller) Update() bool {
	return c.phase == PhaseRtt && c.count.Done()
}

// SCK returns the bit clock levels for the two halves of the current cycle.
func (c *Controller) SCK() (first, second bool) {
	return c.synth.Levels()
}

// Synth returns the clock synthesizer
func (c *Controller) Synth() ClockSynth {
	return c.synth
}

// Return returns the return clock domain.
func (c *Controller) Return() *ReturnDomain {
	return c.ret
}

// Raw returns the channel words currently held by the lane registers, as
// sent by the converter.
func (c *Controller) Raw() []int32 {
	return Deinterleave(c.params, c.ret.Registers())
}

// Data returns the published channel words.
func (c *Controller) Data() []int32 {
	return c.pub.Data()
}

// Tick performs one rising edge of the controller clock. Every register
// input is evaluated from the current state before any register is updated.
func (c *Controller) Tick() {
	next := c.phase
	load := 0
	switch c.phase {
	case PhaseIdle:
		if c.start {
			load = c.params.Reload(PhaseIdle)
			next = PhaseCnvh
		}
	case PhaseCnvh, PhaseConv, PhaseRead, PhaseRtt:
		load = c.params.Reload(c.phase)
		if c.count.Done() {
			next = c.phase.Next()
		}
	}
	update := c.Update()
	enable := c.ClockEnable()

	if update {
		c.pub.Latch(c.Raw())
	}
	c.count.Tick(load)
	c.synth.Tick(enable)
	c.phase = next
	c.cycle++
}

// Reset returns the state machine, counter and clock synthesizer to their
// reset values. Lane registers and published data are reset-less.
func (c *Controller) Reset() {
	c.phase = PhaseIdle
	c.count.Reset()
	c.synth.Reset()
	c.start = false
}
