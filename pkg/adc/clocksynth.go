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

const (
	// SynthSeed is the reset pattern of the clock synthesizer register.
	// Three ones and three zeros give a 50% duty cycle.
	SynthSeed = 0b000111

	synthBits = 6
	synthMask = 1<<synthBits - 1
)

// ClockSynth is a six bit barrel shifter rotating left by two positions on
// every enabled cycle. Bit 1 is driven during the first half of a controller
// cycle and bit 0 during the second half (a double data rate output),
// which produces one bit clock period every three controller cycles.
//
// When disabled the register holds its value and the output idles at
// whatever pair of bits is currently selected.
type ClockSynth struct {
	reg uint8
}

// NewClockSynth returns a synthesizer holding the seed pattern.
func NewClockSynth() ClockSynth {
	return ClockSynth{reg: SynthSeed}
}

// Register returns the raw six bit pattern.
func (s ClockSynth) Register() uint8 {
	return s.reg
}

// Levels returns the bit clock level for the first and the second half of
// the current controller cycle.
func (s ClockSynth) Levels() (first, second bool) {
	return s.reg&0b10 != 0, s.reg&0b01 != 0
}

// Tick rotates the register when enabled.
func (s *ClockSynth) Tick(enable bool) {
	if !enable {
		return
	}
	s.reg = (s.reg<<2 | s.reg>>(synthBits-2)) & synthMask
}

// Reset puts the register back to the seed pattern
func (s *ClockSynth) Reset() {
	s.reg = SynthSeed
}

func (s ClockSynth) String() string {
	return fmt.Sprintf("%06b", s.reg)
}
