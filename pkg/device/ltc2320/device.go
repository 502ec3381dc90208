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

// Package ltc2320 simulates a multi lane source synchronous SAR converter
// in the style of the LTC2320-16.
//
// A rising edge on CNV samples the inputs. Every falling edge of SCK puts
// the next bit on all SDO lanes, MSB first. CLKOUT is SCK echoed back, so
// the data is valid on the CLKOUT rising edge. Codes are sent as the two's
// complement of the negated input, matching the sign flip of the board.
package ltc2320

import (
	"fmt"

	"jinr.ru/greenlab/go-adcsim/pkg/adc"
	deviceifc "jinr.ru/greenlab/go-adcsim/pkg/device/ifc"
	"jinr.ru/greenlab/go-adcsim/pkg/log"
)

const (
	DefaultName = "ltc2320"
)

// ErrInputs is returned when the number of inputs does not match the
// number of channels.
type ErrInputs struct {
	Got  int
	Want int
}

func (e ErrInputs) Error() string {
	return fmt.Sprintf("Wrong number of inputs: got %d, want %d", e.Got, e.Want)
}

type Device struct {
	name  string
	lanes int
	k     int
	width int

	inputs []int32
	// codes latched at the last conversion, masked to width bits
	codes []uint64
	// bit is the index of the bit currently on SDO, -1 before the first SCK
	// falling edge after a conversion
	bit int
	cnv bool
	sck bool
	sdo []bool

	conversions uint64
}

var _ deviceifc.Device = &Device{}

// New returns a converter wired like the controller described by p.
func New(name string, p adc.Params) (*Device, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultName
	}
	log.Debug("Initializing simulated converter %s: %d channels on %d lanes", name, p.Channels, p.Lanes)
	return &Device{
		name:   name,
		lanes:  p.Lanes,
		k:      p.ChannelsPerLane(),
		width:  p.Width,
		inputs: make([]int32, p.Channels),
		codes:  make([]uint64, p.Channels),
		bit:    -1,
		sck:    true,
		sdo:    make([]bool, p.Lanes),
	}, nil
}

func (d *Device) GetName() string {
	return d.name
}

// SetInputs sets the channel values. Values out of the signed width range
// are clipped like an overdriven input.
func (d *Device) SetInputs(inputs []int32) error {
	if len(inputs) != len(d.inputs) {
		return ErrInputs{Got: len(inputs), Want: len(d.inputs)}
	}
	max := int64(1)<<(d.width-1) - 1
	min := -max - 1
	for i, v := range inputs {
		switch {
		case int64(v) > max:
			d.inputs[i] = int32(max)
		case int64(v) < min:
			d.inputs[i] = int32(min)
		default:
			d.inputs[i] = v
		}
	}
	return nil
}

// Inputs returns a copy of the channel values
func (d *Device) Inputs() []int32 {
	inputs := make([]int32, len(d.inputs))
	copy(inputs, d.inputs)
	return inputs
}

// Conversions returns the number of CNV rising edges seen
func (d *Device) Conversions() uint64 {
	return d.conversions
}

func (d *Device) Step(cnv, sck bool) {
	if cnv && !d.cnv {
		d.convert()
	}
	if !sck && d.sck {
		d.shift()
	}
	d.cnv, d.sck = cnv, sck
}

func (d *Device) SDO() []bool {
	sdo := make([]bool, len(d.sdo))
	copy(sdo, d.sdo)
	return sdo
}

func (d *Device) convert() {
	mask := uint64(1)<<d.width - 1
	for i, v := range d.inputs {
		d.codes[i] = uint64(adc.Negate(v, d.width)) & mask
	}
	d.bit = -1
	for pin := range d.sdo {
		d.sdo[pin] = false
	}
	d.conversions++
}

// shift puts the next bit on every lane. Pin p carries the channel group of
// logical lane lanes-1-p, lowest channel first.
func (d *Device) shift() {
	d.bit++
	slot := d.bit / d.width
	for pin := range d.sdo {
		if slot >= d.k {
			d.sdo[pin] = false
			continue
		}
		ch := (d.lanes-1-pin)*d.k + slot
		b := d.width - 1 - d.bit%d.width
		d.sdo[pin] = d.codes[ch]>>b&1 == 1
	}
}
