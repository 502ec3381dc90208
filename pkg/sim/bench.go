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

// Package sim runs an acquisition controller against a simulated converter.
//
// Time advances in half periods of the controller clock. The controller
// ticks on even half periods. SCK and CNV reach the converter without
// delay, CLKOUT and SDO come back through a delay line of ReturnDelay half
// periods and clock the return domain of the controller on CLKOUT rising
// edges. A return edge that coincides with a controller edge is seen after
// it. The published data is correct as long as ReturnDelay <= 2*TRtt.
package sim

import (
	"context"

	"jinr.ru/greenlab/go-adcsim/pkg/adc"
	deviceifc "jinr.ru/greenlab/go-adcsim/pkg/device/ifc"
	"jinr.ru/greenlab/go-adcsim/pkg/layers"
	"jinr.ru/greenlab/go-adcsim/pkg/log"
)

const (
	// DefaultReturnDelay is the SCK to CLKOUT round trip in half periods
	DefaultReturnDelay = 4
	// ctxCheckCycles is how often a running acquisition looks at its context
	ctxCheckCycles = 1024
)

// Options tune the bench
type Options struct {
	// ReturnDelay is the round trip delay in half controller periods
	ReturnDelay int
	// MaxCycles aborts an acquisition that is not done after that many
	// cycles. Zero means four times the nominal acquisition length.
	MaxCycles int
	// Probe, if set, sees every half period
	Probe Probe
}

// Sample is the state of the bench signals during one half period.
type Sample struct {
	// Time in half periods
	Time    uint64
	Phase   adc.Phase
	Start   bool
	Convert bool
	SCK     bool
	CLKOUT  bool
	Reading bool
	Done    bool
	Update  bool
	// SDO as seen by the controller, pin order
	SDO  []bool
	Data []int32
}

// Probe receives the signals of every half period.
type Probe interface {
	Sample(s *Sample)
}

// Acquisition is the result of one start pulse.
type Acquisition struct {
	Seq         uint32  `json:"seq"`
	StartCycle  uint64  `json:"start_cycle"`
	UpdateCycle uint64  `json:"update_cycle"`
	Cycles      int     `json:"cycles"`
	Inputs      []int32 `json:"inputs"`
	Raw         []int32 `json:"raw"`
	Data        []int32 `json:"data"`
}

// Layer encodes the acquisition for storage
func (a *Acquisition) Layer(p adc.Params) *layers.AcqLayer {
	return layers.NewAcqLayer(a.Seq, uint32(a.Cycles), p.Width, p.Lanes, a.Data)
}

// Bench wires a controller to a converter.
type Bench struct {
	ctrl   *adc.Controller
	dev    deviceifc.Device
	opts   Options
	line   *delayLine
	clkout bool
	start  bool
	time   uint64
	seq    uint32
	sample Sample
}

// NewBench connects ctrl and dev.
func NewBench(ctrl *adc.Controller, dev deviceifc.Device, opts Options) (*Bench, error) {
	p := ctrl.Params()
	if opts.ReturnDelay < 0 {
		return nil, ErrInvalidOption{What: "negative return delay"}
	}
	if opts.MaxCycles < 0 {
		return nil, ErrInvalidOption{What: "negative cycle limit"}
	}
	if opts.MaxCycles == 0 {
		opts.MaxCycles = 4 * p.Acquisition()
	}
	if opts.ReturnDelay > 2*p.TRtt {
		log.Warning("Return delay of %d half periods exceeds the RTT margin of %d cycles, samples will be corrupted",
			opts.ReturnDelay, p.TRtt)
	}
	log.Debug("Initializing bench: device: %s return delay: %d", dev.GetName(), opts.ReturnDelay)
	return &Bench{
		ctrl:   ctrl,
		dev:    dev,
		opts:   opts,
		line:   newDelayLine(opts.ReturnDelay, p.Lanes),
		clkout: true,
	}, nil
}

// Controller returns the controller under simulation
func (b *Bench) Controller() *adc.Controller {
	return b.ctrl
}

// Device returns the simulated converter
func (b *Bench) Device() deviceifc.Device {
	return b.dev
}

// Time returns the simulation time in half periods
func (b *Bench) Time() uint64 {
	return b.time
}

// Seq returns the sequence number of the last acquisition
func (b *Bench) Seq() uint32 {
	return b.seq
}

// SetSeq sets the sequence number of the last acquisition, the next one
// gets seq+1.
func (b *Bench) SetSeq(seq uint32) {
	b.seq = seq
}

// half advances the simulation by half a controller period.
func (b *Bench) half() {
	even := b.time%2 == 0
	if even {
		b.ctrl.Tick()
	}
	first, second := b.ctrl.SCK()
	sck := first
	if !even {
		sck = second
	}
	cnv := b.ctrl.Convert()
	b.dev.Step(cnv, sck)

	back := b.line.push(edge{clk: sck, sdo: b.dev.SDO()})
	if back.clk && !b.clkout {
		b.ctrl.Return().Clock(back.sdo)
	}
	b.clkout = back.clk

	if b.opts.Probe != nil {
		b.sample = Sample{
			Time:    b.time,
			Phase:   b.ctrl.Phase(),
			Start:   b.start,
			Convert: cnv,
			SCK:     sck,
			CLKOUT:  back.clk,
			Reading: b.ctrl.Reading(),
			Done:    b.ctrl.Done(),
			Update:  b.ctrl.Update(),
			SDO:     back.sdo,
			Data:    b.ctrl.Data(),
		}
		b.opts.Probe.Sample(&b.sample)
	}
	b.time++
}

// Tick advances the simulation to the next controller edge and through one
// full controller period.
func (b *Bench) Tick() {
	if b.time%2 == 1 {
		b.half()
	}
	b.half()
	b.half()
}

// Idle runs n controller cycles with start low.
func (b *Bench) Idle(n int) {
	for i := 0; i < n; i++ {
		b.Tick()
	}
}

// Acquire pulses start for one cycle and runs until the controller is done.
func (b *Bench) Acquire(ctx context.Context) (*Acquisition, error) {
	if b.time%2 == 1 {
		b.half()
	}
	if !b.ctrl.Done() {
		return nil, ErrBusy{}
	}
	inputs := b.dev.Inputs()

	b.start = true
	b.ctrl.SetStart(true)
	b.half()
	b.start = false
	b.ctrl.SetStart(false)
	b.half()

	start := b.ctrl.Cycle()
	acq := &Acquisition{
		StartCycle: start,
		Inputs:     inputs,
	}
	for n := 0; !b.ctrl.Done(); n++ {
		if n%ctxCheckCycles == 0 {
			if err := ctx.Err(); err != nil {
				b.settle(b.opts.MaxCycles - n)
				return nil, err
			}
		}
		if n >= b.opts.MaxCycles {
			return nil, ErrWatchdog{Cycles: n}
		}
		if b.ctrl.Update() {
			acq.UpdateCycle = b.ctrl.Cycle()
			acq.Raw = b.ctrl.Raw()
		}
		b.half()
		b.half()
	}
	b.seq++
	acq.Seq = b.seq
	acq.Cycles = int(b.ctrl.Cycle() - start)
	acq.Data = b.ctrl.Data()
	log.Debug("Acquisition %d done in %d cycles: %v", acq.Seq, acq.Cycles, acq.Data)
	return acq, nil
}

// settle lets an abandoned acquisition run on to IDLE, for at most limit
// cycles, so the next Acquire can start. Nothing is published to the caller.
func (b *Bench) settle(limit int) {
	for n := 0; !b.ctrl.Done() && n < limit; n++ {
		b.half()
		b.half()
	}
	if !b.ctrl.Done() {
		log.Warning("Controller not idle %d cycles after a cancelled acquisition", limit)
	}
}

// Run performs n acquisitions and hands each one to fn.
func (b *Bench) Run(ctx context.Context, n int, fn func(*Acquisition) error) error {
	for i := 0; i < n; i++ {
		acq, err := b.Acquire(ctx)
		if err != nil {
			return err
		}
		if fn != nil {
			if err := fn(acq); err != nil {
				return err
			}
		}
	}
	return nil
}
