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
	"fmt"
)

// Register is a view on captured serial bits. Bit 0 is the most recently
// shifted in bit.
type Register interface {
	Word(lo, width int) uint64
}

// Lane is the shift register of one serial data lane. It lives in the
// return clock domain and is clocked by CLKOUT, not by the controller. It
// has no notion of an acquisition: it free runs and keeps the most recent
// Depth bits in a circular buffer.
type Lane struct {
	bits []bool
	// pos is the slot the next bit is written to
	pos int
}

// NewLane returns a cleared lane register of depth bits.
func NewLane(depth int) *Lane {
	return &Lane{
		bits: make([]bool, depth),
	}
}

// Depth returns the register length in bits
func (l *Lane) Depth() int {
	return len(l.bits)
}

// Clock shifts the register left by one and inserts sdo at bit 0.
func (l *Lane) Clock(sdo bool) {
	l.bits[l.pos] = sdo
	l.pos++
	if l.pos == len(l.bits) {
		l.pos = 0
	}
}

// Bit returns bit i, bit 0 being the last one shifted in.
func (l *Lane) Bit(i int) bool {
	if i < 0 || i >= len(l.bits) {
		panic(fmt.Sprintf("lane bit %d out of range [0, %d)", i, len(l.bits)))
	}
	j := l.pos - 1 - i
	if j < 0 {
		j += len(l.bits)
	}
	return l.bits[j]
}

// Word returns bits [lo, lo+width) as an unsigned value with bit lo as the
// least significant bit.
func (l *Lane) Word(lo, width int) uint64 {
	var w uint64
	for b := width - 1; b >= 0; b-- {
		w <<= 1
		if l.Bit(lo + b) {
			w |= 1
		}
	}
	return w
}

// ReturnDomain holds every lane register. Its only input is a CLKOUT edge
// with the lane levels sampled at that edge.
type ReturnDomain struct {
	// lanes in logical order, lanes[0] is wired to the last SDO pin
	lanes []*Lane
	edges uint64
}

// NewReturnDomain builds the lane registers for p.
func NewReturnDomain(p Params) *ReturnDomain {
	r := &ReturnDomain{
		lanes: make([]*Lane, p.Lanes),
	}
	for i := range r.lanes {
		r.lanes[i] = NewLane(p.Depth())
	}
	return r
}

// Clock handles one rising CLKOUT edge. sdo holds the lane levels in pin
// order (SDO A, SDO B, ...). The pins are reassembled in reverse order
// because the converter outputs are flipped on the board.
func (r *ReturnDomain) Clock(sdo []bool) {
	if len(sdo) != len(r.lanes) {
		panic(fmt.Sprintf("got %d lane levels for %d lanes", len(sdo), len(r.lanes)))
	}
	for i, lane := range r.lanes {
		lane.Clock(sdo[len(sdo)-1-i])
	}
	r.edges++
}

// Edges returns the number of CLKOUT edges seen so far
func (r *ReturnDomain) Edges() uint64 {
	return r.edges
}

// Lane returns the register of logical lane i
func (r *ReturnDomain) Lane(i int) *Lane {
	return r.lanes[i]
}

// Registers returns the lane registers in logical order.
func (r *ReturnDomain) Registers() []Register {
	regs := make([]Register, len(r.lanes))
	for i, lane := range r.lanes {
		regs[i] = lane
	}
	return regs
}
